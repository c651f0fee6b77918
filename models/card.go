package models

import (
	"time"
)

// Card represents a two-sided (front/back) flashcard. Cards have no
// update endpoint, so rows are immutable after creation.
type Card struct {
	ID        uint      `gorm:"primaryKey"`
	DeckID    uint      `gorm:"not null;index"`
	Deck      Deck      `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE" json:"-"`
	Front     string    `gorm:"not null;size:1000"`
	Back      string    `gorm:"not null;size:1000"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Card) TableName() string {
	return "cards"
}

// MCCard represents a multiple-choice question. Its choices live in
// mc_choices and are deleted with the parent row.
type MCCard struct {
	ID        uint       `gorm:"primaryKey"`
	DeckID    uint       `gorm:"not null;index"`
	Deck      Deck       `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    string     `gorm:"not null;index;size:64"`
	Question  string     `gorm:"not null;size:1000"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	Choices   []MCChoice `gorm:"foreignKey:MCCardID;constraint:OnDelete:CASCADE"`
}

func (MCCard) TableName() string {
	return "mc_cards"
}

type MCChoice struct {
	ID         uint      `gorm:"primaryKey"`
	MCCardID   uint      `gorm:"column:mc_card_id;not null;index"`
	AnswerText string    `gorm:"not null;size:500"`
	IsCorrect  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (MCChoice) TableName() string {
	return "mc_choices"
}
