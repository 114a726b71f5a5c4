package middleware

import (
	"net/http"
	"strings"
)

const (
	// DefaultStandardMaxBodyBytes is the default max request body for standard API requests (512KB).
	DefaultStandardMaxBodyBytes = 512 * 1024
	// DefaultUploadMaxBodyBytes is the default max request body for upload paths (5MB).
	DefaultUploadMaxBodyBytes = 5 * 1024 * 1024
)

// MaxBodySize returns middleware that limits request body size: uploadMax
// for /api/upload paths, standardMax otherwise. Applies to methods that may
// carry a body (POST, PUT, PATCH); GET/HEAD/DELETE are not limited.
func MaxBodySize(standardMax, uploadMax int64) func(http.Handler) http.Handler {
	if standardMax <= 0 {
		standardMax = DefaultStandardMaxBodyBytes
	}
	if uploadMax <= 0 {
		uploadMax = DefaultUploadMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}
			max := standardMax
			if (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) &&
				strings.HasPrefix(r.URL.Path, "/api/upload") {
				max = uploadMax
			}
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}
