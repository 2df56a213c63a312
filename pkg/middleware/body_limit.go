package middleware

import (
	"net/http"
	"strings"
)

// MaxRequestSize caps the request body; oversized reads fail inside the
// handler's decoder with http.MaxBytesError. Paths under an exempt prefix
// keep their own limits (file uploads exceed the JSON body cap).
func MaxRequestSize(limit int64, exemptPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range exemptPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
