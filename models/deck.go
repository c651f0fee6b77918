package models

import (
	"time"
)

// Deck represents a named collection of cards owned by one user.
type Deck struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"not null;size:200"`
	UserID      string     `gorm:"not null;index;size:64"` // auth provider subject, immutable
	Color       string     `gorm:"size:50"`
	Category    string     `gorm:"size:100"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	LastStudied *time.Time `gorm:"default:null"`
}

func (Deck) TableName() string {
	return "decks"
}

// DeckCountRow is one result row of the get_decks_with_counts function.
// The function returns the aggregate column lowercased as "cardcount".
type DeckCountRow struct {
	ID          uint       `gorm:"column:id"`
	Name        string     `gorm:"column:name"`
	UserID      string     `gorm:"column:user_id"`
	Color       string     `gorm:"column:color"`
	Category    string     `gorm:"column:category"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	LastStudied *time.Time `gorm:"column:last_studied"`
	CardCount   int64      `gorm:"column:cardcount"`
}
