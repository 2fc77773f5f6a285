package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/flashcard"
)

// syncWriter serializes writes from the study loop and the card listener.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Study runs terminal flashcards over the deck. Input lines become the
// same inputs the GUI sends to the flip widget.
func (p *Processor) Study(ctx context.Context, deckID int64) error {
	detail, err := p.openDeck(ctx, deckID)
	if err != nil {
		return err
	}
	st := detail.State()
	if len(st.Words()) == 0 {
		fmt.Fprintf(p.out, "%s has no words yet\n", st.Title())
		return nil
	}

	out := &syncWriter{w: p.out}
	fmt.Fprintf(out, "Studying %s (%d cards). f/Enter flip, n next, p previous, s say, q quit\n",
		st.Title(), len(st.Words()))

	card := flashcard.New(detail.Prev, detail.Next)
	card.SetOnChange(func(v flashcard.View) {
		printCard(out, detail.State(), v)
	})
	detail.OnChange(func(s deck.DetailState) {
		if c, ok := s.Card(); ok {
			card.SetCard(c)
		} else {
			card.ClearCard()
		}
	})
	if c, ok := st.Card(); ok {
		card.SetCard(c)
	}

	inputs := make(chan flashcard.Input)
	detach := flashcard.Attach(ctx, card, inputs)
	defer detach()

	send := func(in flashcard.Input) {
		select {
		case inputs <- in:
		case <-ctx.Done():
		}
	}

	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch cmd {
		case "", "f":
			// The terminal is never a text field for the focus guard.
			send(flashcard.KeyPress(flashcard.KeyEnter, flashcard.FocusNone))
		case "n":
			send(flashcard.KeyPress(flashcard.KeyRight, flashcard.FocusNone))
		case "p":
			send(flashcard.KeyPress(flashcard.KeyLeft, flashcard.FocusNone))
		case "s":
			if w, ok := detail.State().Current(); ok {
				if err := detail.Pronounce(ctx, w.Text); err != nil {
					fmt.Fprintf(out, "Pronunciation failed: %v\n", err)
				}
			}
		case "q":
			return nil
		default:
			fmt.Fprintf(out, "Unknown command %q\n", cmd)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		p.log.Warn("Failed to read study input", zap.Error(err))
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func printCard(w io.Writer, st deck.DetailState, v flashcard.View) {
	if !v.HasCard {
		fmt.Fprintln(w, "(no cards)")
		return
	}
	pos := fmt.Sprintf("[%d/%d]", st.Cursor+1, len(st.Words()))
	if !v.Flipped {
		fmt.Fprintf(w, "%s %s\n", pos, v.Face())
		return
	}
	if v.Card.Meaning != "" {
		fmt.Fprintf(w, "%s %s = %s (%s)\n", pos, v.Card.Text, v.Face(), v.Card.Meaning)
		return
	}
	fmt.Fprintf(w, "%s %s = %s\n", pos, v.Card.Text, v.Face())
}
