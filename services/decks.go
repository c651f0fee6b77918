package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recallr/recallr-api/models"
)

type DeckService struct {
	db     *gorm.DB
	counts CountsClient
	log    *zap.Logger
}

func NewDeckService(db *gorm.DB, counts CountsClient, log *zap.Logger) *DeckService {
	return &DeckService{db: db, counts: counts, log: log}
}

type CreateDeckInput struct {
	Name     string
	Color    string
	Category string
}

// UpdateDeckInput uses pointers to tell "absent" apart from "set to
// empty": a nil field is left unchanged, a pointer to "" is persisted.
type UpdateDeckInput struct {
	Name     *string
	Color    *string
	Category *string
}

type FinishStudyInput struct {
	Name        *string
	Color       *string
	Category    *string
	LastStudied *time.Time
}

// parseID coerces a path identifier back to the numeric storage key.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad identifier %q", ErrInvalidInput, raw)
	}
	return uint(id), nil
}

// ownedDeck loads a deck and enforces row ownership.
func ownedDeck(ctx context.Context, db *gorm.DB, deckID uint, userID string) (models.Deck, error) {
	var deck models.Deck
	err := db.WithContext(ctx).First(&deck, deckID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Deck{}, ErrNotFound
	}
	if err != nil {
		return models.Deck{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if deck.UserID != userID {
		return models.Deck{}, ErrForbidden
	}
	return deck, nil
}

func (s *DeckService) List(ctx context.Context, userID string) ([]models.DeckSummary, error) {
	rows, err := s.counts.DecksWithCounts(ctx, userID)
	if err != nil {
		s.log.Error("deck counts call failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	decks := make([]models.DeckSummary, 0, len(rows))
	for _, row := range rows {
		decks = append(decks, models.NewDeckSummary(row))
	}
	return decks, nil
}

func (s *DeckService) Create(ctx context.Context, userID string, in CreateDeckInput) (models.DeckSummary, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.DeckSummary{}, fmt.Errorf("%w: deck name is required", ErrInvalidInput)
	}

	deck := models.Deck{
		Name:     name,
		UserID:   userID,
		Color:    in.Color,
		Category: in.Category,
	}
	res := s.db.WithContext(ctx).Create(&deck)
	if res.Error != nil {
		s.log.Error("deck insert failed", zap.String("user_id", userID), zap.Error(res.Error))
		return models.DeckSummary{}, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.DeckSummary{}, fmt.Errorf("%w: insert returned no row", ErrPersistence)
	}

	return models.NewDeckCreated(deck), nil
}

func (s *DeckService) Update(ctx context.Context, deckID, userID string, in UpdateDeckInput) (models.DeckRecord, error) {
	updates, err := deckUpdates(in.Name, in.Color, in.Category)
	if err != nil {
		return models.DeckRecord{}, err
	}
	return s.applyUpdates(ctx, deckID, userID, updates)
}

// FinishStudy is the post-study variant of Update: it always stamps
// last_studied, defaulting to the current time when the caller does
// not supply one.
func (s *DeckService) FinishStudy(ctx context.Context, deckID, userID string, in FinishStudyInput) (models.DeckRecord, error) {
	updates, err := deckUpdates(in.Name, in.Color, in.Category)
	if err != nil {
		return models.DeckRecord{}, err
	}

	studied := time.Now().UTC()
	if in.LastStudied != nil {
		studied = *in.LastStudied
	}
	updates["last_studied"] = studied

	return s.applyUpdates(ctx, deckID, userID, updates)
}

func (s *DeckService) Delete(ctx context.Context, deckID, userID string) error {
	id, err := parseID(deckID)
	if err != nil {
		return err
	}
	if _, err := ownedDeck(ctx, s.db, id, userID); err != nil {
		return err
	}

	// Remove the deck's cards first so no card of either type survives
	// the deck, even on drivers that do not enforce the cascade.
	err = s.db.WithContext(ctx).
		Where("mc_card_id IN (SELECT id FROM mc_cards WHERE deck_id = ?)", id).
		Delete(&models.MCChoice{}).Error
	if err != nil {
		s.log.Error("deck choices delete failed", zap.Uint("deck_id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	err = s.db.WithContext(ctx).Where("deck_id = ?", id).Delete(&models.MCCard{}).Error
	if err != nil {
		s.log.Error("deck mc cards delete failed", zap.Uint("deck_id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	err = s.db.WithContext(ctx).Where("deck_id = ?", id).Delete(&models.Card{}).Error
	if err != nil {
		s.log.Error("deck cards delete failed", zap.Uint("deck_id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	res := s.db.WithContext(ctx).Delete(&models.Deck{}, id)
	if res.Error != nil {
		s.log.Error("deck delete failed", zap.Uint("deck_id", id), zap.Error(res.Error))
		return fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: delete affected no row", ErrPersistence)
	}
	return nil
}

// deckUpdates builds the column map from the optional fields. Name is
// trimmed and must stay non-empty when provided.
func deckUpdates(name, color, category *string) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: deck name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = trimmed
	}
	if color != nil {
		updates["color"] = *color
	}
	if category != nil {
		updates["category"] = *category
	}
	return updates, nil
}

func (s *DeckService) applyUpdates(ctx context.Context, deckID, userID string, updates map[string]interface{}) (models.DeckRecord, error) {
	id, err := parseID(deckID)
	if err != nil {
		return models.DeckRecord{}, err
	}
	deck, err := ownedDeck(ctx, s.db, id, userID)
	if err != nil {
		return models.DeckRecord{}, err
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&models.Deck{}).Where("id = ?", id).Updates(updates).Error
		if err != nil {
			s.log.Error("deck update failed", zap.Uint("deck_id", id), zap.Error(err))
			return models.DeckRecord{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if err := s.db.WithContext(ctx).First(&deck, id).Error; err != nil {
			return models.DeckRecord{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	return models.NewDeckRecord(deck), nil
}
