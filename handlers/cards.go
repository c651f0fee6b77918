package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/recallr/recallr-api/models"
	"github.com/recallr/recallr-api/services"
)

type choicePayload struct {
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req struct {
		DeckID    string          `json:"deck_id"`
		Type      string          `json:"type"`
		Front     string          `json:"front"`
		Back      string          `json:"back"`
		Question  string          `json:"question"`
		Choices   []choicePayload `json:"choices"`
		CreatedAt *time.Time      `json:"created_at"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "could not decode request")
		return
	}

	// unrecognized types are rejected before anything is written
	switch req.Type {
	case models.CardTypeBasic:
		card, err := h.cards.CreateBasic(r.Context(), user.ID, req.DeckID, req.Front, req.Back)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.respondJSON(w, http.StatusCreated, card)

	case models.CardTypeMultipleChoice:
		choices := make([]services.ChoiceInput, 0, len(req.Choices))
		for _, ch := range req.Choices {
			choices = append(choices, services.ChoiceInput{
				AnswerText: ch.AnswerText,
				IsCorrect:  ch.IsCorrect,
			})
		}
		card, err := h.cards.CreateMultipleChoice(r.Context(), user.ID, req.DeckID, req.Question, choices, req.CreatedAt)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.respondJSON(w, http.StatusCreated, card)

	default:
		h.respondError(w, http.StatusBadRequest, "unrecognized card type")
	}
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	user, ok := h.identity(w, r)
	if !ok {
		return
	}

	// shuffle is a presentation option and defaults to on
	shuffle := true
	if raw := r.URL.Query().Get("shuffle"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			shuffle = parsed
		}
	}

	var (
		items []models.CardItem
		err   error
	)
	if deckID := r.URL.Query().Get("deck_id"); deckID != "" {
		items, err = h.cards.ListByDeck(r.Context(), user.ID, deckID, shuffle)
	} else {
		items, err = h.cards.ListByUser(r.Context(), user.ID, shuffle)
	}
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, items)
}
