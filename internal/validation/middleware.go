package validation

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/pkg/logger"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/pkg/metrics"
	"github.com/jitenkr2030/FinSmartAI-sub002/internal/pkg/schema"
)

type contextKey string

const validatedKey contextKey = "validated_data"

// Validated holds the normalized request input, keyed by source. Only the
// sources whose schema was supplied are populated. One instance lives per
// request; it is never shared across requests.
type Validated struct {
	Body   map[string]interface{}
	Query  map[string]interface{}
	Params map[string]interface{}
}

// FromContext returns the validated data attached by the middleware, or nil.
func FromContext(ctx context.Context) *Validated {
	v, _ := ctx.Value(validatedKey).(*Validated)
	return v
}

func withValidated(ctx context.Context, v *Validated) context.Context {
	return context.WithValue(ctx, validatedKey, v)
}

// ErrorResponder customizes the response written on validation failure.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, errs schema.FieldErrors)

// Options configures WithSchema for a single input source.
type Options struct {
	Schema  *schema.Node
	Source  Source
	OnError ErrorResponder // nil = standard 400 envelope
}

// WithSchema validates one input source against a schema. On success the
// normalized value is attached to the request context and the wrapped
// handler runs; on failure the error responder (default: the standard 400
// envelope) terminates the request. Body validation of a GET request is
// always a 400; a malformed JSON body is an internal failure (500), not a
// field validation error.
func WithSchema(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := extract(r, opts.Source)
			if err != nil {
				if errors.Is(err, errBodyOnGet) {
					metrics.ValidationFailuresTotal.WithLabelValues(string(opts.Source)).Inc()
					RespondValidationError(w, schema.FieldErrors{
						{Path: "body", Message: "body validation is not applicable to GET requests"},
					})
					return
				}
				logger.StdLogger().Error("request input extraction failed",
					"path", r.URL.Path, "method", r.Method, "source", string(opts.Source), "error", err.Error())
				respondInternalError(w)
				return
			}
			out, errs := opts.Schema.Validate(raw)
			if errs != nil {
				metrics.ValidationFailuresTotal.WithLabelValues(string(opts.Source)).Inc()
				if opts.OnError != nil {
					opts.OnError(w, r, errs)
					return
				}
				RespondValidationError(w, errs)
				return
			}
			v := FromContext(r.Context())
			if v == nil {
				v = &Validated{}
			}
			setSource(v, opts.Source, out.(map[string]interface{}))
			next.ServeHTTP(w, r.WithContext(withValidated(r.Context(), v)))
		})
	}
}

// ValidateRequest validates up to three sources and merges the results under
// body/query/params. Nil schemas are skipped; the body schema is silently
// skipped for GET requests. Validation fails fast: the first failing source
// terminates the request with its own envelope, later sources are not run.
func ValidateRequest(body, query, params *schema.Node) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := &Validated{}
			sources := []struct {
				node   *schema.Node
				source Source
			}{
				{body, SourceBody},
				{query, SourceQuery},
				{params, SourceParams},
			}
			for _, s := range sources {
				if s.node == nil {
					continue
				}
				if s.source == SourceBody && r.Method == http.MethodGet {
					continue
				}
				raw, err := extract(r, s.source)
				if err != nil {
					logger.StdLogger().Error("request input extraction failed",
						"path", r.URL.Path, "method", r.Method, "source", string(s.source), "error", err.Error())
					respondInternalError(w)
					return
				}
				out, errs := s.node.Validate(raw)
				if errs != nil {
					metrics.ValidationFailuresTotal.WithLabelValues(string(s.source)).Inc()
					RespondValidationError(w, errs)
					return
				}
				setSource(v, s.source, out.(map[string]interface{}))
			}
			next.ServeHTTP(w, r.WithContext(withValidated(r.Context(), v)))
		})
	}
}

// WithValidation wraps a handler so it only runs when all supplied schemas
// pass. Panics raised by the wrapped handler propagate to the caller; the
// security pipeline's outer recovery owns them.
func WithValidation(handler http.HandlerFunc, body, query, params *schema.Node) http.HandlerFunc {
	wrapped := ValidateRequest(body, query, params)(handler)
	return wrapped.ServeHTTP
}

func setSource(v *Validated, source Source, data map[string]interface{}) {
	switch source {
	case SourceBody:
		v.Body = data
	case SourceQuery:
		v.Query = data
	case SourceParams:
		v.Params = data
	}
}

// validationErrorEnvelope is the wire shape for schema failures.
type validationErrorEnvelope struct {
	Success   bool               `json:"success"`
	Error     string             `json:"error"`
	Details   schema.FieldErrors `json:"details"`
	Timestamp string             `json:"timestamp"`
}

// RespondValidationError writes the standard 400 validation envelope.
func RespondValidationError(w http.ResponseWriter, errs schema.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, validationErrorEnvelope{
		Success:   false,
		Error:     "Validation failed",
		Details:   errs,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   "Internal server error",
		"code":    "INTERNAL_ERROR",
	})
}
