// Package proxy serves third-party scripts from the site's own origin.
package proxy

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Default upstreams.
const (
	DefaultAhrefsUpstream = "https://analytics.ahrefs.com/analytics.js"
	DefaultTawkUpstream   = "https://embed.tawk.to"
)

// Response headers for proxied scripts.
const (
	ContentType  = "application/javascript; charset=utf-8"
	CacheControl = "public, max-age=31536000, s-maxage=31536000, immutable, stale-while-revalidate=86400"
)

const maxScriptBytes = 8 << 20

var (
	// ErrMissingParams is returned when the tawk property or widget id is absent.
	ErrMissingParams = errors.New("missing parameters")
	// ErrScriptTooLarge is returned for upstream bodies over the size limit.
	ErrScriptTooLarge = errors.New("upstream script too large")
)

// Handler proxies the analytics and chat widget scripts.
type Handler struct {
	client    *http.Client
	ahrefsURL string
	tawkBase  string
	maxBytes  int64
}

// NewHandler creates a proxy handler. Empty upstreams fall back to the defaults.
func NewHandler(ahrefsURL, tawkBase string, timeout time.Duration) *Handler {
	if ahrefsURL == "" {
		ahrefsURL = DefaultAhrefsUpstream
	}
	if tawkBase == "" {
		tawkBase = DefaultTawkUpstream
	}
	return &Handler{
		client:    &http.Client{Timeout: timeout},
		ahrefsURL: ahrefsURL,
		tawkBase:  strings.TrimRight(tawkBase, "/"),
		maxBytes:  maxScriptBytes,
	}
}

// RegisterRoutes registers the proxy routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/ahrefs", h.Ahrefs)
	r.Get("/api/tawk", h.Tawk)
}

// Ahrefs proxies the fixed analytics script.
func (h *Handler) Ahrefs(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, h.ahrefsURL)
}

// Tawk proxies the chat widget script for the p (property) and w (widget)
// query parameters.
func (h *Handler) Tawk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	upstream, err := TawkURL(h.tawkBase, q.Get("p"), q.Get("w"))
	if err != nil {
		writeText(w, http.StatusBadRequest, "Missing parameters")
		return
	}
	h.forward(w, r, upstream)
}

// TawkURL builds the widget URL with both path segments escaped.
func TawkURL(base, property, widget string) (string, error) {
	if property == "" || widget == "" {
		return "", ErrMissingParams
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), url.PathEscape(property), url.PathEscape(widget)), nil
}

func (h *Handler) forward(w http.ResponseWriter, r *http.Request, upstream string) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		slog.Error("Proxy request build failed", "upstream", upstream, "error", err)
		writeText(w, http.StatusInternalServerError, "Server error")
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		slog.Warn("Proxy fetch failed", "upstream", upstream, "error", err)
		writeText(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("Proxy: failed to close upstream body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Proxy upstream error", "upstream", upstream, "status", resp.StatusCode)
		writeText(w, resp.StatusCode, "Upstream error")
		return
	}

	body, err := readLimited(resp.Body, h.maxBytes)
	if err != nil {
		slog.Warn("Proxy read failed", "upstream", upstream, "error", err)
		writeText(w, http.StatusInternalServerError, "Server error")
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Cache-Control", CacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Debug("Proxy: failed to write response", "error", err)
	}
}

// readLimited reads all of r, failing rather than truncating when r holds
// more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrScriptTooLarge, limit)
	}
	return body, nil
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
