package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cderp/coursesite/internal/identity"
	"github.com/cderp/coursesite/internal/quiz"
	"github.com/cderp/coursesite/internal/store"
)

// ListQuizzes returns the quiz listing for the ?category= filter.
func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, quiz.List(h.catalog, r.URL.Query().Get("category")))
}

// ListAttempts returns the visitor's stored attempts for a quiz.
func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	if h.catalog.Quiz(topic) == nil {
		Error(w, http.StatusNotFound, "quiz not found")
		return
	}
	visitorID := identity.VisitorIDFromContext(r.Context())
	if visitorID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	attempts, err := h.repo.ListAttempts(r.Context(), visitorID, topic, limit)
	if err != nil {
		slog.Error("Failed to list attempts", "error", err, "quiz_id", topic)
		Error(w, http.StatusInternalServerError, "failed to load attempts")
		return
	}
	if attempts == nil {
		attempts = []*store.Attempt{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"quizId":   topic,
		"attempts": attempts,
	})
}
