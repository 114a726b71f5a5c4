// Package validation wires the schema contracts into HTTP middleware.
// Schemas are defined once at process start and are immutable; route
// handlers reference them by name when registering routes.
package validation

import (
	"regexp"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/pkg/schema"
)

var (
	phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	vpaRe   = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
)

// common

// Pagination: page >= 1 (default 1), limit 1..100 (default 10).
var Pagination = schema.Object(
	schema.Field("page", schema.Int().Min(1).Default(1)),
	schema.Field("limit", schema.Int().Min(1).Max(100).Default(10)),
)

// PaginationLimit20 is Pagination with the wider default used by list-heavy
// call sites (log and usage queries).
var PaginationLimit20 = schema.Object(
	schema.Field("page", schema.Int().Min(1).Default(1)),
	schema.Field("limit", schema.Int().Min(1).Max(100).Default(20)),
)

var IDParam = schema.Object(
	schema.Field("id", schema.String().MinLen(1).Required()),
)

// user

var UserCreate = schema.Object(
	schema.Field("email", schema.String().Email().Required()),
	schema.Field("password", schema.String().MinLen(8).Required()),
	schema.Field("fullName", schema.String().MinLen(2).Required()),
	schema.Field("phone", schema.String().Pattern(phoneRe, "must be a valid phone number")),
)

var UserLogin = schema.Object(
	schema.Field("email", schema.String().Email().Required()),
	schema.Field("password", schema.String().MinLen(1).Required()),
)

var UserUpdateProfile = schema.Object(
	schema.Field("fullName", schema.String().MinLen(2)),
	schema.Field("phone", schema.String().Pattern(phoneRe, "must be a valid phone number")),
)

// news

var NewsAnalyzeSentiment = schema.Object(
	schema.Field("content", schema.String().MinLen(6).Required()),
	schema.Field("type", schema.Enum("news", "social").Default("news")),
	schema.Field("source", schema.String()),
)

var NewsBatchAnalyze = schema.Object(
	schema.Field("articles", schema.Array(schema.Object(
		schema.Field("title", schema.String().MinLen(3).Required()),
		schema.Field("content", schema.String().MinLen(6).Required()),
		schema.Field("source", schema.String()),
	)).NonEmpty().Required()),
)

// prediction

var PredictionForecast = schema.Object(
	schema.Field("symbol", schema.String().MinLen(1).MaxLen(20).Required()),
	schema.Field("horizon", schema.Int().Min(1).Max(30).Default(7)),
	schema.Field("interval", schema.Enum("daily", "weekly", "monthly").Default("daily")),
)

// payment

var PaymentInitiateUPI = schema.Object(
	schema.Field("amount", schema.Number().Positive().Required()),
	schema.Field("vpa", schema.String().Pattern(vpaRe, "must be a valid UPI VPA (local@handle)").Required()),
	schema.Field("note", schema.String().MaxLen(100)),
)

var PaymentVerify = schema.Object(
	schema.Field("transactionId", schema.String().MinLen(1).Required()),
)

// backup

var BackupCreate = schema.Object(
	schema.Field("type", schema.Enum("full", "incremental", "differential").Required()),
	schema.Field("priority", schema.Enum("high", "normal", "low").Default("normal")),
	schema.Field("compression", schema.Bool().Default(true)),
	schema.Field("encryption", schema.Bool().Default(true)),
)

var BackupRestore = schema.Object(
	schema.Field("backupId", schema.String().MinLen(1).Required()),
	schema.Field("dryRun", schema.Bool().Default(false)),
)

// log

var LogQuery = schema.Object(
	schema.Field("level", schema.Enum("error", "warn", "info", "debug", "verbose")),
	schema.Field("startDate", schema.String().Datetime()),
	schema.Field("endDate", schema.String().Datetime()),
	schema.Field("page", schema.Int().Min(1).Default(1)),
	schema.Field("limit", schema.Int().Min(1).Max(100).Default(20)),
)

// export

var ExportCreate = schema.Object(
	schema.Field("format", schema.Enum("csv", "xlsx", "pdf").Default("csv")),
	schema.Field("reportType", schema.Enum("predictions", "sentiment", "usage").Required()),
	schema.Field("startDate", schema.String().Datetime()),
	schema.Field("endDate", schema.String().Datetime()),
)
