package handlers

import (
	"net/http"
	"time"

	"github.com/recallr/recallr-api/services"
)

func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	decks, err := h.decks.List(r.Context(), user.ID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, decks)
}

func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name"`
		Color    string `json:"color"`
		Category string `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "could not decode request")
		return
	}

	deck, err := h.decks.Create(r.Context(), user.ID, services.CreateDeckInput{
		Name:     req.Name,
		Color:    req.Color,
		Category: req.Category,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, deck)
}

func (h *Handler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	// pointer fields: nil means "leave unchanged", "" is a real value
	var req struct {
		Name     *string `json:"name"`
		Color    *string `json:"color"`
		Category *string `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "could not decode request")
		return
	}

	deck, err := h.decks.Update(r.Context(), r.PathValue("deckID"), user.ID, services.UpdateDeckInput{
		Name:     req.Name,
		Color:    req.Color,
		Category: req.Category,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, deck)
}

func (h *Handler) FinishStudyDeck(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        *string    `json:"name"`
		Color       *string    `json:"color"`
		Category    *string    `json:"category"`
		LastStudied *time.Time `json:"last_studied"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "could not decode request")
		return
	}

	deck, err := h.decks.FinishStudy(r.Context(), r.PathValue("deckID"), user.ID, services.FinishStudyInput{
		Name:        req.Name,
		Color:       req.Color,
		Category:    req.Category,
		LastStudied: req.LastStudied,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, deck)
}

func (h *Handler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	if err := h.decks.Delete(r.Context(), r.PathValue("deckID"), user.ID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Deck deleted successfully"})
}
