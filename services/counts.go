package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/recallr/recallr-api/models"
)

// CountsClient returns a user's decks with their aggregated card
// counts. The aggregation itself lives in the database; this layer
// never computes or caches counts.
type CountsClient interface {
	DecksWithCounts(ctx context.Context, userID string) ([]models.DeckCountRow, error)
}

type rpcCounts struct {
	db *gorm.DB
}

// NewCountsClient builds the production client backed by the
// get_decks_with_counts function.
func NewCountsClient(db *gorm.DB) CountsClient {
	return &rpcCounts{db: db}
}

func (c *rpcCounts) DecksWithCounts(ctx context.Context, userID string) ([]models.DeckCountRow, error) {
	var rows []models.DeckCountRow
	err := c.db.WithContext(ctx).
		Raw("SELECT * FROM get_decks_with_counts(?)", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
