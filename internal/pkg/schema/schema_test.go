package schema

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paginationSchema() *Node {
	return Object(
		Field("page", Int().Min(1).Default(1)),
		Field("limit", Int().Min(1).Max(100).Default(10)),
	)
}

func TestDefaultsPopulatedOnEmptyInput(t *testing.T) {
	out, errs := paginationSchema().Validate(map[string]interface{}{})
	require.Nil(t, errs)
	m := out.(map[string]interface{})
	assert.Equal(t, 1, m["page"])
	assert.Equal(t, 10, m["limit"])
}

func TestQueryStringCoercion(t *testing.T) {
	out, errs := paginationSchema().Validate(map[string]interface{}{
		"page":  "3",
		"limit": "25",
	})
	require.Nil(t, errs)
	m := out.(map[string]interface{})
	assert.Equal(t, 3, m["page"])
	assert.Equal(t, 25, m["limit"])
}

func TestCoercionIdempotence(t *testing.T) {
	s := paginationSchema()
	first, errs := s.Validate(map[string]interface{}{"page": "3", "limit": "25"})
	require.Nil(t, errs)
	second, errs := s.Validate(first.(map[string]interface{}))
	require.Nil(t, errs)
	assert.Equal(t, first, second)
}

func TestExhaustiveErrorReporting(t *testing.T) {
	userCreate := Object(
		Field("email", String().Email().Required()),
		Field("password", String().MinLen(8).Required()),
		Field("fullName", String().MinLen(2).Required()),
		Field("phone", String()),
	)
	_, errs := userCreate.Validate(map[string]interface{}{
		"email":    "invalid-email",
		"password": "short",
		"fullName": "J",
	})
	require.Len(t, errs, 3)
	assert.Equal(t, "email", errs[0].Path)
	assert.Equal(t, "must be a valid email address", errs[0].Message)
	assert.Equal(t, "password", errs[1].Path)
	assert.Equal(t, "must be at least 8 characters", errs[1].Message)
	assert.Equal(t, "fullName", errs[2].Path)
}

func TestNestedArrayPaths(t *testing.T) {
	batch := Object(
		Field("articles", Array(Object(
			Field("title", String().MinLen(3).Required()),
			Field("content", String().MinLen(6).Required()),
		)).NonEmpty().Required()),
	)
	_, errs := batch.Validate(map[string]interface{}{
		"articles": []interface{}{
			map[string]interface{}{"title": "ok title", "content": "long enough"},
			map[string]interface{}{"title": "ab", "content": "long enough"},
		},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "articles[1].title", errs[0].Path)
}

func TestEmptyArrayRejected(t *testing.T) {
	batch := Object(
		Field("articles", Array(Object(
			Field("title", String().Required()),
		)).NonEmpty().Required()),
	)
	_, errs := batch.Validate(map[string]interface{}{"articles": []interface{}{}})
	require.Len(t, errs, 1)
	assert.Equal(t, "articles", errs[0].Path)
	assert.Equal(t, "must be a non-empty array", errs[0].Message)
}

func TestEnumValidation(t *testing.T) {
	s := Object(Field("level", Enum("error", "warn", "info", "debug", "verbose")))
	_, errs := s.Validate(map[string]interface{}{"level": "invalid-level"})
	require.Len(t, errs, 1)
	assert.Equal(t, "level", errs[0].Path)
	assert.Contains(t, errs[0].Message, "must be one of")

	out, errs := s.Validate(map[string]interface{}{"level": "warn"})
	require.Nil(t, errs)
	assert.Equal(t, "warn", out.(map[string]interface{})["level"])
}

func TestOptionalFieldsOmitted(t *testing.T) {
	s := Object(
		Field("source", String()),
		Field("type", Enum("news", "social").Default("news")),
	)
	out, errs := s.Validate(map[string]interface{}{})
	require.Nil(t, errs)
	m := out.(map[string]interface{})
	_, hasSource := m["source"]
	assert.False(t, hasSource)
	assert.Equal(t, "news", m["type"])
}

func TestUnknownFieldsIgnored(t *testing.T) {
	s := Object(Field("page", Int().Default(1)))
	out, errs := s.Validate(map[string]interface{}{"page": 2, "extra": "junk"})
	require.Nil(t, errs)
	m := out.(map[string]interface{})
	assert.Equal(t, 2, m["page"])
	_, hasExtra := m["extra"]
	assert.False(t, hasExtra)
}

func TestBoolCoercion(t *testing.T) {
	s := Object(
		Field("compression", Bool().Default(true)),
		Field("encryption", Bool().Default(true)),
	)
	out, errs := s.Validate(map[string]interface{}{"compression": "false"})
	require.Nil(t, errs)
	m := out.(map[string]interface{})
	assert.Equal(t, false, m["compression"])
	assert.Equal(t, true, m["encryption"])

	_, errs = s.Validate(map[string]interface{}{"compression": "yes"})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be a boolean", errs[0].Message)
}

func TestPositiveAmount(t *testing.T) {
	s := Object(Field("amount", Number().Positive().Required()))
	_, errs := s.Validate(map[string]interface{}{"amount": float64(0)})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be a positive number", errs[0].Message)

	out, errs := s.Validate(map[string]interface{}{"amount": 250.75})
	require.Nil(t, errs)
	assert.Equal(t, 250.75, out.(map[string]interface{})["amount"])
}

func TestPatternValidation(t *testing.T) {
	vpaRe := regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
	s := Object(Field("vpa", String().Pattern(vpaRe, "must be a valid UPI VPA (local@handle)").Required()))

	_, errs := s.Validate(map[string]interface{}{"vpa": "not a vpa"})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be a valid UPI VPA (local@handle)", errs[0].Message)

	_, errs = s.Validate(map[string]interface{}{"vpa": "trader.01@upi"})
	assert.Nil(t, errs)
}

func TestDatetimeValidation(t *testing.T) {
	s := Object(Field("startDate", String().Datetime()))
	_, errs := s.Validate(map[string]interface{}{"startDate": "not-a-date"})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be a valid ISO 8601 datetime", errs[0].Message)

	_, errs = s.Validate(map[string]interface{}{"startDate": "2026-01-15T09:30:00Z"})
	assert.Nil(t, errs)
}

func TestNonIntegerRejected(t *testing.T) {
	s := Object(Field("page", Int().Min(1)))
	_, errs := s.Validate(map[string]interface{}{"page": 1.5})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be an integer", errs[0].Message)
}

func TestTypeMismatchMessages(t *testing.T) {
	s := Object(
		Field("content", String().Required()),
		Field("articles", Array(Object()).Required()),
	)
	_, errs := s.Validate(map[string]interface{}{
		"content":  42,
		"articles": "nope",
	})
	require.Len(t, errs, 2)
	assert.Equal(t, "must be a string", errs[0].Message)
	assert.Equal(t, "must be an array", errs[1].Message)
}
