package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// Source names where raw input is pulled from for one validation call.
type Source string

const (
	SourceBody   Source = "body"
	SourceQuery  Source = "query"
	SourceParams Source = "params"
)

// errBodyOnGet marks the contract violation of asking for body validation on
// a GET request. Surfaced as a 400, distinct from a JSON parse failure.
var errBodyOnGet = fmt.Errorf("body validation is not applicable to GET requests")

// extract pulls the raw key/value input for the given source. Query and
// path parameters are flat string maps; the body is arbitrary JSON.
// The body is only read for non-GET methods.
func extract(r *http.Request, source Source) (map[string]interface{}, error) {
	switch source {
	case SourceBody:
		if r.Method == http.MethodGet {
			return nil, errBodyOnGet
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			// An absent body validates like {}, so required-field
			// violations surface as field errors rather than a parse
			// failure.
			if errors.Is(err, io.EOF) {
				return map[string]interface{}{}, nil
			}
			return nil, fmt.Errorf("parse request body: %w", err)
		}
		return body, nil
	case SourceQuery:
		q := r.URL.Query()
		out := make(map[string]interface{}, len(q))
		for k, vals := range q {
			if len(vals) > 0 {
				out[k] = vals[0]
			}
		}
		return out, nil
	case SourceParams:
		vars := mux.Vars(r)
		out := make(map[string]interface{}, len(vars))
		for k, v := range vars {
			out[k] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown validation source %q", source)
}
