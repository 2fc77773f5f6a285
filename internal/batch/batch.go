// Package batch adds many words to one deck from a plain text file.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// Entry is one word line of a batch file.
type Entry struct {
	// Line is the 1-based line number in the source.
	Line int
	// Text is the free text for a quick add, or the foreign word of a
	// manual pair.
	Text string
	// Translation is set only for manual pairs.
	Translation string
}

// Manual reports whether the entry carries both sides.
func (e Entry) Manual() bool {
	return e.Translation != ""
}

// ReadFile parses a batch file. Supported line formats:
//   - "casa" is translated and oriented like a quick add
//   - "casa = house" is stored as typed
//   - "= house" is translated like a quick add
//   - lines starting with '#' and blank lines are skipped
func ReadFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads entries from r.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		foreign, translation, found := strings.Cut(line, "=")
		if !found {
			entries = append(entries, Entry{Line: n, Text: line})
			continue
		}

		foreign = strings.TrimSpace(foreign)
		translation = strings.TrimSpace(translation)
		switch {
		case foreign != "" && translation != "":
			entries = append(entries, Entry{Line: n, Text: foreign, Translation: translation})
		case translation != "":
			entries = append(entries, Entry{Line: n, Text: translation})
		}
		// Lines with an empty right-hand side are ignored.
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// Adder is the part of the deck detail controller a batch run drives.
type Adder interface {
	SetQuickInput(text string)
	QuickAdd(ctx context.Context) (models.Word, error)
	SetManualFields(foreign, translation string)
	ManualAdd(ctx context.Context) (models.Word, error)
}

// LineError is a failed entry.
type LineError struct {
	Entry Entry
	Err   error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Entry.Line, e.Entry.Text, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// Summary is the outcome of a Run.
type Summary struct {
	Added  []models.Word
	Failed []LineError
}

// Err joins all line errors, or returns nil.
func (s Summary) Err() error {
	errs := make([]error, len(s.Failed))
	for i, f := range s.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Run adds every entry with its own round trip. A failed entry is
// recorded and the run continues; only a cancelled context stops it.
// progress may be nil.
func Run(ctx context.Context, entries []Entry, adder Adder, log *zap.Logger, progress func(done, total int)) Summary {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("batch")

	var sum Summary
	for i, e := range entries {
		if ctx.Err() != nil {
			sum.Failed = append(sum.Failed, LineError{Entry: e, Err: ctx.Err()})
			continue
		}

		var (
			w   models.Word
			err error
		)
		if e.Manual() {
			adder.SetManualFields(e.Text, e.Translation)
			w, err = adder.ManualAdd(ctx)
		} else {
			adder.SetQuickInput(e.Text)
			w, err = adder.QuickAdd(ctx)
		}

		if err != nil {
			log.Warn("Failed to add word", zap.Int("line", e.Line), zap.String("text", e.Text), zap.Error(err))
			sum.Failed = append(sum.Failed, LineError{Entry: e, Err: err})
		} else {
			log.Debug("Added word", zap.Int("line", e.Line), zap.Int64("word_id", w.ID))
			sum.Added = append(sum.Added, w)
		}

		if progress != nil {
			progress(i+1, len(entries))
		}
	}

	log.Info("Batch finished", zap.Int("added", len(sum.Added)), zap.Int("failed", len(sum.Failed)))
	return sum
}
