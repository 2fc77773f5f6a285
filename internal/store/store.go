// Package store is the HTTP client for the remote deck and word service.
// The service owns all state; the client keeps no cache and never retries.
package store

import (
	"context"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// Store is everything the client consumes from the remote service.
type Store interface {
	ListDecks(ctx context.Context) ([]models.Deck, error)
	GetDeck(ctx context.Context, id int64) (models.Deck, error)
	CreateDeck(ctx context.Context, in models.DeckInput) (models.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error

	CreateWord(ctx context.Context, in models.WordInput) (models.Word, error)
	UpdateWord(ctx context.Context, id int64, fields models.WordFields) (models.Word, error)
	DeleteWord(ctx context.Context, id int64) error

	Translate(ctx context.Context, req models.TranslateRequest) (models.Translation, error)
	Pronounce(ctx context.Context, text string) ([]byte, error)
}
