// Package api provides the JSON endpoints of the course site.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/page"
	"github.com/cderp/coursesite/internal/seo"
	"github.com/cderp/coursesite/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 16 << 10

// Handler provides the JSON endpoints and their shared dependencies.
type Handler struct {
	repo     store.Repository
	catalog  *catalog.Store
	resolver *page.Resolver
	seo      *seo.Generator
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, cat *catalog.Store, resolver *page.Resolver, gen *seo.Generator) *Handler {
	return &Handler{
		repo:     repo,
		catalog:  cat,
		resolver: resolver,
		seo:      gen,
	}
}

// RegisterRoutes registers the /api routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.Ping)
		r.Post("/submit", h.SubmitLead)
		r.Get("/quizzes", h.ListQuizzes)
		r.Get("/quiz/{topic}/attempts", h.ListAttempts)
		r.Get("/pages/{slug}", h.GetPage)
	})
}

// Ping answers keepalive pings.
func (h *Handler) Ping(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
