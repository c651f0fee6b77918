package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recallr/recallr-api/models"
)

func newCardService(t *testing.T) (*CardService, *DeckService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	cards := NewCardService(db, zap.NewNop(), true)
	decks := NewDeckService(db, joinCounts{db: db}, zap.NewNop())
	return cards, decks, db
}

func TestCardService_CreateBasic(t *testing.T) {
	cards, decks, _ := newCardService(t)
	ctx := context.Background()

	deck, err := decks.Create(ctx, "owner", CreateDeckInput{Name: "Capitals"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		card, err := cards.CreateBasic(ctx, "owner", deck.ID, "Capital of France?", "Paris")
		require.NoError(t, err)

		assert.NotEmpty(t, card.ID)
		assert.Equal(t, deck.ID, card.DeckID)
		assert.Equal(t, models.CardTypeBasic, card.Type)
		assert.Equal(t, "Capital of France?", card.Front)
		assert.Equal(t, "Paris", card.Back)
	})

	t.Run("unknown deck", func(t *testing.T) {
		_, err := cards.CreateBasic(ctx, "owner", "424242", "f", "b")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("foreign deck is forbidden", func(t *testing.T) {
		_, err := cards.CreateBasic(ctx, "intruder", deck.ID, "f", "b")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("check can be switched off", func(t *testing.T) {
		_, svcDecks, db := newCardService(t)
		open := NewCardService(db, zap.NewNop(), false)

		foreign, err := svcDecks.Create(ctx, "someone-else", CreateDeckInput{Name: "Theirs"})
		require.NoError(t, err)

		_, err = open.CreateBasic(ctx, "intruder", foreign.ID, "f", "b")
		assert.NoError(t, err)
	})
}

func TestCardService_CreateMultipleChoice(t *testing.T) {
	cards, decks, db := newCardService(t)
	ctx := context.Background()

	deck, err := decks.Create(ctx, "owner", CreateDeckInput{Name: "Geography"})
	require.NoError(t, err)

	t.Run("choices preserved in order with fresh ids", func(t *testing.T) {
		card, err := cards.CreateMultipleChoice(ctx, "owner", deck.ID, "Capital of France?", []ChoiceInput{
			{AnswerText: "Paris", IsCorrect: true},
			{AnswerText: "Lyon", IsCorrect: false},
		}, nil)
		require.NoError(t, err)

		assert.NotEmpty(t, card.ID)
		assert.Equal(t, "owner", card.UserID)
		require.Len(t, card.Choices, 2)
		assert.Equal(t, "Paris", card.Choices[0].AnswerText)
		assert.True(t, card.Choices[0].IsCorrect)
		assert.Equal(t, "Lyon", card.Choices[1].AnswerText)
		assert.False(t, card.Choices[1].IsCorrect)
		for _, ch := range card.Choices {
			assert.NotEmpty(t, ch.ID)
			assert.Equal(t, card.ID, ch.MCCardID)
		}
	})

	t.Run("no choices yields an empty list", func(t *testing.T) {
		card, err := cards.CreateMultipleChoice(ctx, "owner", deck.ID, "Lonely question", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, card.Choices)
	})

	t.Run("client-supplied created_at is kept", func(t *testing.T) {
		created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		card, err := cards.CreateMultipleChoice(ctx, "owner", deck.ID, "Backdated", []ChoiceInput{
			{AnswerText: "yes", IsCorrect: true},
		}, &created)
		require.NoError(t, err)

		assert.True(t, card.CreatedAt.Equal(created))
		var stored models.MCCard
		require.NoError(t, db.First(&stored, "question = ?", "Backdated").Error)
		assert.True(t, stored.CreatedAt.Equal(created))
	})

	t.Run("ownership enforced", func(t *testing.T) {
		_, err := cards.CreateMultipleChoice(ctx, "intruder", deck.ID, "q", nil, nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestCardService_Listing(t *testing.T) {
	cards, decks, _ := newCardService(t)
	ctx := context.Background()

	deck, err := decks.Create(ctx, "owner", CreateDeckInput{Name: "Round trip"})
	require.NoError(t, err)

	basic, err := cards.CreateBasic(ctx, "owner", deck.ID, "front", "back")
	require.NoError(t, err)
	mc, err := cards.CreateMultipleChoice(ctx, "owner", deck.ID, "pick one", []ChoiceInput{
		{AnswerText: "a", IsCorrect: true},
		{AnswerText: "b", IsCorrect: false},
	}, nil)
	require.NoError(t, err)

	t.Run("round trip returns exactly the created cards", func(t *testing.T) {
		items, err := cards.ListByDeck(ctx, "owner", deck.ID, false)
		require.NoError(t, err)
		require.Len(t, items, 2)

		// shuffle off: basic cards first, then multiple choice
		gotBasic, ok := items[0].(models.BasicCard)
		require.True(t, ok)
		assert.Equal(t, basic.ID, gotBasic.ID)

		gotMC, ok := items[1].(models.MultipleChoiceCard)
		require.True(t, ok)
		assert.Equal(t, mc.ID, gotMC.ID)
		require.Len(t, gotMC.Choices, 2)
		assert.Equal(t, "a", gotMC.Choices[0].AnswerText)
	})

	t.Run("shuffled listing keeps set equality", func(t *testing.T) {
		items, err := cards.ListByDeck(ctx, "owner", deck.ID, true)
		require.NoError(t, err)
		require.Len(t, items, 2)

		seen := map[string]bool{}
		for _, item := range items {
			seen[item.CardType()] = true
		}
		assert.True(t, seen[models.CardTypeBasic])
		assert.True(t, seen[models.CardTypeMultipleChoice])
	})

	t.Run("list by user spans decks", func(t *testing.T) {
		second, err := decks.Create(ctx, "owner", CreateDeckInput{Name: "Second"})
		require.NoError(t, err)
		_, err = cards.CreateBasic(ctx, "owner", second.ID, "f2", "b2")
		require.NoError(t, err)

		items, err := cards.ListByUser(ctx, "owner", false)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		items, err := cards.ListByUser(ctx, "stranger", false)
		require.NoError(t, err)
		assert.Len(t, items, 0)
	})

	t.Run("listing a foreign deck is forbidden", func(t *testing.T) {
		_, err := cards.ListByDeck(ctx, "stranger", deck.ID, false)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestCardService_ReapOrphans(t *testing.T) {
	cards, decks, db := newCardService(t)
	ctx := context.Background()

	deck, err := decks.Create(ctx, "owner", CreateDeckInput{Name: "Reaper"})
	require.NoError(t, err)

	old := time.Now().UTC().Add(-48 * time.Hour)
	_, err = cards.CreateMultipleChoice(ctx, "owner", deck.ID, "orphaned", nil, &old)
	require.NoError(t, err)
	_, err = cards.CreateMultipleChoice(ctx, "owner", deck.ID, "old but intact", []ChoiceInput{
		{AnswerText: "x", IsCorrect: true},
	}, &old)
	require.NoError(t, err)
	_, err = cards.CreateMultipleChoice(ctx, "owner", deck.ID, "fresh, maybe mid-write", nil, nil)
	require.NoError(t, err)

	reaped, err := cards.ReapOrphans(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reaped)

	var remaining []models.MCCard
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, mc := range remaining {
		assert.NotEqual(t, "orphaned", mc.Question)
	}
}
