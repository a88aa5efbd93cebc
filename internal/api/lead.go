package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cderp/coursesite/internal/identity"
	"github.com/cderp/coursesite/internal/lead"
	"github.com/cderp/coursesite/internal/store"
)

// SubmitLead validates and stores a counselling request.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var form lead.Form
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&form); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	form.Normalize()
	if err := form.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	l := &store.Lead{
		ID:          uuid.NewString(),
		VisitorID:   identity.VisitorIDFromContext(r.Context()),
		Name:        form.Name,
		Email:       form.Email,
		CountryCode: form.CountryCode,
		Contact:     form.Contact,
		Course:      form.Course,
		PageSlug:    form.Page,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.repo.SaveLead(r.Context(), l); err != nil {
		slog.Error("Failed to save lead", "error", err, "page", l.PageSlug)
		Error(w, http.StatusInternalServerError, "failed to save lead")
		return
	}

	slog.Info("Lead received", "lead_id", l.ID, "course", l.Course, "page", l.PageSlug)
	JSON(w, http.StatusCreated, map[string]string{
		"status": "received",
		"id":     l.ID,
	})
}
