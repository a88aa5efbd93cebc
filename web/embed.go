// Package web embeds the site's static assets (static/) and provides an HTTP
// handler that serves them under /static/.
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
)

//go:embed all:static
var staticFS embed.FS

// Prefix is the URL path the assets are mounted under.
const Prefix = "/static/"

// StaticHandler returns an http.Handler that serves the embedded assets.
// Directories are never listed; unknown files answer 404.
func StaticHandler() http.Handler {
	subFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}

	fileServer := http.StripPrefix(strings.TrimSuffix(Prefix, "/"), http.FileServer(http.FS(subFS)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, Prefix)
		if path == "" || strings.HasSuffix(path, "/") {
			http.NotFound(w, r)
			return
		}

		f, err := subFS.Open(path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		info, statErr := f.Stat()
		if closeErr := f.Close(); closeErr != nil {
			slog.Debug("web: failed to close embedded file", "path", path, "error", closeErr)
		}
		if statErr != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		fileServer.ServeHTTP(w, r)
	})
}
