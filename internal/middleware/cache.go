package middleware

import (
	"net/http"
	"strings"
)

// Cache-Control values for static assets.
const (
	ImmutableCache = "public, max-age=31536000, immutable"
	ManifestCache  = "public, max-age=86400"
)

// ManifestFile is served with the web manifest media type.
const ManifestFile = "site.webmanifest"

// CacheHeaders sets long-lived caching on static assets and the manifest
// content type and shorter lifetime on the web manifest.
func CacheHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/"+ManifestFile) {
			w.Header().Set("Content-Type", "application/manifest+json")
			w.Header().Set("Cache-Control", ManifestCache)
		} else {
			w.Header().Set("Cache-Control", ImmutableCache)
		}
		next.ServeHTTP(w, r)
	})
}
