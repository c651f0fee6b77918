package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/recallr/recallr-api/auth"
	"github.com/recallr/recallr-api/middleware"
	"github.com/recallr/recallr-api/services"
)

type Handler struct {
	decks *services.DeckService
	cards *services.CardService
	log   *zap.Logger
}

func New(decks *services.DeckService, cards *services.CardService, log *zap.Logger) *Handler {
	return &Handler{decks: decks, cards: cards, log: log}
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := middleware.IdentityFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication failed")
		return auth.Identity{}, false
	}
	return identity, true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// serviceError translates the service failure taxonomy into HTTP
// statuses. The full error is logged; clients get a generic message.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, services.ErrInvalidInput):
		h.respondError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, services.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, services.ErrForbidden):
		h.respondError(w, http.StatusForbidden, "you do not own this resource")
	case errors.Is(err, services.ErrPartialWrite):
		h.respondError(w, http.StatusInternalServerError, "card was saved without its choices")
	default:
		h.respondError(w, http.StatusInternalServerError, "something went wrong")
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
