package models

import (
	"strconv"
	"time"
)

// Card type discriminants used on the wire.
const (
	CardTypeBasic          = "basic"
	CardTypeMultipleChoice = "multiple_choice"
)

// CardItem is either a BasicCard or a MultipleChoiceCard.
type CardItem interface {
	CardType() string
}

// All identifiers cross the API boundary as strings, even though the
// storage layer uses numeric keys.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// DeckSummary is the deck list/create response shape. CardCount is
// derived by the aggregation function and never stored.
type DeckSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	UserID      string     `json:"user_id"`
	Color       string     `json:"color"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	LastStudied *time.Time `json:"last_studied"`
	CardCount   int64      `json:"cardCount"`
}

// DeckRecord is the update/finish-study response shape: the stored row
// without the derived count.
type DeckRecord struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	UserID      string     `json:"user_id"`
	Color       string     `json:"color"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	LastStudied *time.Time `json:"last_studied"`
}

type BasicCard struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	Type      string    `json:"type"`
}

func (BasicCard) CardType() string { return CardTypeBasic }

type MultipleChoiceCard struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck_id"`
	UserID    string    `json:"user_id"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"created_at"`
	Choices   []Choice  `json:"choices"`
	Type      string    `json:"type"`
}

func (MultipleChoiceCard) CardType() string { return CardTypeMultipleChoice }

type Choice struct {
	ID         string    `json:"id"`
	MCCardID   string    `json:"mc_card_id"`
	AnswerText string    `json:"answer_text"`
	IsCorrect  bool      `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewDeckSummary(row DeckCountRow) DeckSummary {
	return DeckSummary{
		ID:          FormatID(row.ID),
		Name:        row.Name,
		UserID:      row.UserID,
		Color:       row.Color,
		Category:    row.Category,
		CreatedAt:   row.CreatedAt,
		LastStudied: row.LastStudied,
		CardCount:   row.CardCount,
	}
}

// NewDeckCreated maps a freshly inserted deck; no cards can exist yet.
func NewDeckCreated(d Deck) DeckSummary {
	return DeckSummary{
		ID:          FormatID(d.ID),
		Name:        d.Name,
		UserID:      d.UserID,
		Color:       d.Color,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
		LastStudied: d.LastStudied,
		CardCount:   0,
	}
}

func NewDeckRecord(d Deck) DeckRecord {
	return DeckRecord{
		ID:          FormatID(d.ID),
		Name:        d.Name,
		UserID:      d.UserID,
		Color:       d.Color,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
		LastStudied: d.LastStudied,
	}
}

func NewBasicCard(c Card) BasicCard {
	return BasicCard{
		ID:        FormatID(c.ID),
		DeckID:    FormatID(c.DeckID),
		Front:     c.Front,
		Back:      c.Back,
		CreatedAt: c.CreatedAt,
		Type:      CardTypeBasic,
	}
}

func NewMultipleChoiceCard(mc MCCard, choices []MCChoice) MultipleChoiceCard {
	mapped := make([]Choice, 0, len(choices))
	for _, ch := range choices {
		mapped = append(mapped, Choice{
			ID:         FormatID(ch.ID),
			MCCardID:   FormatID(ch.MCCardID),
			AnswerText: ch.AnswerText,
			IsCorrect:  ch.IsCorrect,
			CreatedAt:  ch.CreatedAt,
		})
	}
	return MultipleChoiceCard{
		ID:        FormatID(mc.ID),
		DeckID:    FormatID(mc.DeckID),
		UserID:    mc.UserID,
		Question:  mc.Question,
		CreatedAt: mc.CreatedAt,
		Choices:   mapped,
		Type:      CardTypeMultipleChoice,
	}
}
