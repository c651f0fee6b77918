package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/recallr/recallr-api/models"
)

// deckCountsFunction is the aggregation the deck listing relies on.
// Counts are always computed here, never stored or cached by the API.
const deckCountsFunction = `
CREATE OR REPLACE FUNCTION get_decks_with_counts(p_user_id TEXT)
RETURNS TABLE (
    id BIGINT,
    name TEXT,
    user_id TEXT,
    color TEXT,
    category TEXT,
    created_at TIMESTAMPTZ,
    last_studied TIMESTAMPTZ,
    cardcount BIGINT
) AS $$
    SELECT d.id, d.name, d.user_id, d.color, d.category, d.created_at, d.last_studied,
           (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id) +
           (SELECT COUNT(*) FROM mc_cards m WHERE m.deck_id = d.id) AS cardcount
    FROM decks d
    WHERE d.user_id = p_user_id
    ORDER BY d.created_at DESC
$$ LANGUAGE sql STABLE;
`

// Connect opens the Postgres database, migrates the schema, and makes
// sure the counts function exists. The handle is returned to the
// caller; nothing is kept in package state.
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("config: connect database: %w", err)
	}

	err = db.AutoMigrate(&models.Deck{}, &models.Card{}, &models.MCCard{}, &models.MCChoice{})
	if err != nil {
		return nil, fmt.Errorf("config: auto migrate: %w", err)
	}

	if err := db.Exec(deckCountsFunction).Error; err != nil {
		return nil, fmt.Errorf("config: install counts function: %w", err)
	}

	return db, nil
}
