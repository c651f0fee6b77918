package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recallr/recallr-api/models"
)

type CardService struct {
	db  *gorm.DB
	log *zap.Logger

	// enforceOwnership gates the deck-ownership check on card creation
	// and deck-scoped listing.
	enforceOwnership bool
}

func NewCardService(db *gorm.DB, log *zap.Logger, enforceOwnership bool) *CardService {
	return &CardService{db: db, log: log, enforceOwnership: enforceOwnership}
}

type ChoiceInput struct {
	AnswerText string
	IsCorrect  bool
}

func (s *CardService) checkDeck(ctx context.Context, deckID uint, userID string) error {
	if !s.enforceOwnership {
		return nil
	}
	_, err := ownedDeck(ctx, s.db, deckID, userID)
	return err
}

func (s *CardService) CreateBasic(ctx context.Context, userID, deckID, front, back string) (models.BasicCard, error) {
	id, err := parseID(deckID)
	if err != nil {
		return models.BasicCard{}, err
	}
	if err := s.checkDeck(ctx, id, userID); err != nil {
		return models.BasicCard{}, err
	}

	card := models.Card{DeckID: id, Front: front, Back: back}
	res := s.db.WithContext(ctx).Create(&card)
	if res.Error != nil {
		s.log.Error("basic card insert failed", zap.Uint("deck_id", id), zap.Error(res.Error))
		return models.BasicCard{}, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.BasicCard{}, fmt.Errorf("%w: insert returned no row", ErrPersistence)
	}

	return models.NewBasicCard(card), nil
}

// CreateMultipleChoice writes the parent row, then the choice rows. No
// transaction spans the two steps: when the choice insert fails the
// parent stays behind as an orphan (see ReapOrphans) and the call
// reports a partial write.
func (s *CardService) CreateMultipleChoice(ctx context.Context, userID, deckID, question string, choices []ChoiceInput, createdAt *time.Time) (models.MultipleChoiceCard, error) {
	id, err := parseID(deckID)
	if err != nil {
		return models.MultipleChoiceCard{}, err
	}
	if err := s.checkDeck(ctx, id, userID); err != nil {
		return models.MultipleChoiceCard{}, err
	}

	card := models.MCCard{DeckID: id, UserID: userID, Question: question}
	if createdAt != nil {
		card.CreatedAt = *createdAt
	}
	res := s.db.WithContext(ctx).Omit("Deck", "Choices").Create(&card)
	if res.Error != nil {
		s.log.Error("mc card insert failed", zap.Uint("deck_id", id), zap.Error(res.Error))
		return models.MultipleChoiceCard{}, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.MultipleChoiceCard{}, fmt.Errorf("%w: insert returned no row", ErrPersistence)
	}

	if len(choices) == 0 {
		return models.NewMultipleChoiceCard(card, nil), nil
	}

	rows := make([]models.MCChoice, 0, len(choices))
	for _, ch := range choices {
		row := models.MCChoice{
			MCCardID:   card.ID,
			AnswerText: ch.AnswerText,
			IsCorrect:  ch.IsCorrect,
		}
		if createdAt != nil {
			row.CreatedAt = *createdAt
		}
		rows = append(rows, row)
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		s.log.Error("choice insert failed, parent card orphaned",
			zap.Uint("mc_card_id", card.ID), zap.Error(err))
		return models.MultipleChoiceCard{}, fmt.Errorf("%w: %v", ErrPartialWrite, err)
	}

	return models.NewMultipleChoiceCard(card, rows), nil
}

// ListByDeck returns the deck's basic and multiple-choice cards,
// tagged by type. Shuffling is presentation only; callers must not
// rely on any ordering when it is on.
func (s *CardService) ListByDeck(ctx context.Context, userID, deckID string, shuffle bool) ([]models.CardItem, error) {
	id, err := parseID(deckID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDeck(ctx, id, userID); err != nil {
		return nil, err
	}

	var basics []models.Card
	err = s.db.WithContext(ctx).Where("deck_id = ?", id).Order("id").Find(&basics).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var mcs []models.MCCard
	err = s.db.WithContext(ctx).Where("deck_id = ? AND user_id = ?", id, userID).Order("id").Find(&mcs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return s.assemble(ctx, basics, mcs, shuffle)
}

// ListByUser returns every card across the user's decks.
func (s *CardService) ListByUser(ctx context.Context, userID string, shuffle bool) ([]models.CardItem, error) {
	var basics []models.Card
	err := s.db.WithContext(ctx).
		Joins("JOIN decks ON decks.id = cards.deck_id").
		Where("decks.user_id = ?", userID).
		Order("cards.id").
		Find(&basics).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var mcs []models.MCCard
	err = s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&mcs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return s.assemble(ctx, basics, mcs, shuffle)
}

// assemble fetches choices per MC card (one query each — acceptable at
// this scale) and merges both variants into a single tagged list.
func (s *CardService) assemble(ctx context.Context, basics []models.Card, mcs []models.MCCard, shuffle bool) ([]models.CardItem, error) {
	items := make([]models.CardItem, 0, len(basics)+len(mcs))
	for _, c := range basics {
		items = append(items, models.NewBasicCard(c))
	}
	for _, mc := range mcs {
		var choices []models.MCChoice
		err := s.db.WithContext(ctx).Where("mc_card_id = ?", mc.ID).Order("id").Find(&choices).Error
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		items = append(items, models.NewMultipleChoiceCard(mc, choices))
	}

	if shuffle {
		rand.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}
	return items, nil
}

// ReapOrphans deletes multiple-choice parents that have no choice rows
// once they are older than the cutoff. A choice-less card is unusable
// study data; the cutoff keeps the reaper from racing an in-flight
// two-phase create.
func (s *CardService) ReapOrphans(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res := s.db.WithContext(ctx).
		Where("created_at < ? AND NOT EXISTS (SELECT 1 FROM mc_choices WHERE mc_choices.mc_card_id = mc_cards.id)", cutoff).
		Delete(&models.MCCard{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info("reaped orphaned mc cards", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}
