// Package middleware provides HTTP middleware for the course site.
package middleware

import (
	"net/http"
	"strings"
)

const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Content-Type, X-CD-Session-ID"
)

// CORS returns middleware for the site's cross-origin policy. A "*" entry
// echoes any origin back but never grants credentials; only origins listed
// by name do. OPTIONS requests stop here.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	anyOrigin := false
	named := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			anyOrigin = true
			continue
		}
		named[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" && (anyOrigin || named[origin]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
				h.Add("Vary", "Origin")
				if named[origin] {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
