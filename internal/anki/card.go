// Package anki exports decks as Anki packages (.apkg) or CSV files.
package anki

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal"
	"codeberg.org/snonux/flashdeck/internal/models"
)

// Card is one exported note.
type Card struct {
	WordID      int64
	Foreign     string
	Translation string
	Meaning     string
	// AudioFile is a local path, empty when the card has no audio.
	AudioFile string
}

// CardsFromDeck converts the deck's words in order.
func CardsFromDeck(d models.Deck) []Card {
	cards := make([]Card, 0, len(d.Words))
	for _, w := range d.Words {
		cards = append(cards, Card{
			WordID:      w.ID,
			Foreign:     w.Text,
			Translation: w.Translation,
			Meaning:     w.Meaning,
		})
	}
	return cards
}

// Synthesizer turns text into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AttachAudio synthesizes the foreign side of every card into dir and sets
// AudioFile. Cards whose synthesis fails keep no audio; the first error is
// returned after all cards were tried.
func AttachAudio(ctx context.Context, cards []Card, dir string, synth Synthesizer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}

	var firstErr error
	for i := range cards {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := &cards[i]

		data, err := synth.Synthesize(ctx, c.Foreign)
		if err != nil {
			log.Warn("Skipping audio", zap.Int64("word_id", c.WordID), zap.String("text", c.Foreign), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("audio for %q: %w", c.Foreign, err)
			}
			continue
		}

		path := filepath.Join(dir, internal.MediaFileName(c.WordID, c.Foreign, "mp3"))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write audio file: %w", err)
		}
		c.AudioFile = path
	}
	return firstErr
}

// Stats counts the cards and how many carry audio.
func Stats(cards []Card) (total, withAudio int) {
	for _, c := range cards {
		if c.AudioFile != "" {
			withAudio++
		}
	}
	return len(cards), withAudio
}

func soundTag(path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", filepath.Base(path))
}
