package middleware

import (
	"net/http"
	"strings"
)

var corsAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
var corsAllowedHeaders = []string{"Accept", "Authorization", "Content-Type"}

// CORS sets CORS response headers and handles OPTIONS preflight for the
// configured origins. With no origins configured it is a no-op.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	originSet := make(map[string]bool, len(origins))
	for _, o := range origins {
		originSet[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originSet[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(corsAllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(corsAllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", "86400")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
