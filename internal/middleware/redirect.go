package middleware

import "net/http"

// RedirectSource resolves legacy paths to their permanent replacement.
type RedirectSource interface {
	Redirect(path string) (string, bool)
}

// Redirects answers 301 for any path the source knows, keeping the query string.
func Redirects(src RedirectSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if to, ok := src.Redirect(r.URL.Path); ok {
				if r.URL.RawQuery != "" {
					to += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, to, http.StatusMovedPermanently)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
