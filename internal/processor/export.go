package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal"
	"codeberg.org/snonux/flashdeck/internal/anki"
	"codeberg.org/snonux/flashdeck/internal/archive"
	"codeberg.org/snonux/flashdeck/internal/cli"
)

// Export writes the deck as an Anki package or CSV file.
func (p *Processor) Export(ctx context.Context, deckID int64, opts cli.ExportOptions) error {
	detail, err := p.openDeck(ctx, deckID)
	if err != nil {
		return err
	}
	dk := detail.State().Deck

	output := opts.Output
	if output == "" {
		ext := ".apkg"
		if opts.CSV {
			ext = ".csv"
		}
		output = internal.SanitizeFilename(dk.Name) + ext
	}

	cards := anki.CardsFromDeck(dk)
	if opts.WithAudio {
		mediaDir, cleanup, err := p.mediaDir(output, opts.CSV)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Fprintf(p.out, "Generating audio for %d cards...\n", len(cards))
		if err := anki.AttachAudio(ctx, cards, mediaDir, p.speech, p.log); err != nil {
			// Cards without audio are still exported.
			p.log.Warn("Some audio could not be generated", zap.Error(err))
			fmt.Fprintf(p.out, "Warning: %v\n", err)
		}
	}

	archived, err := archive.Existing(output)
	if err != nil {
		return err
	}
	if archived != "" {
		fmt.Fprintf(p.out, "Previous export moved to %s\n", archived)
	}

	if opts.CSV {
		if err := anki.GenerateCSV(output, cards, true); err != nil {
			return err
		}
	} else {
		pkg := anki.NewPackage(dk.Name, dk.TargetLanguage)
		pkg.Add(cards...)
		if err := pkg.Write(output); err != nil {
			return err
		}
	}

	total, withAudio := anki.Stats(cards)
	fmt.Fprintf(p.out, "Exported %d cards (%d with audio) to %s\n", total, withAudio, output)
	return nil
}

// mediaDir returns where synthesized audio goes. APKG media is packed
// into the archive, so it lives in a temp dir; CSV media stays next to the
// file for Anki's media folder.
func (p *Processor) mediaDir(output string, csv bool) (string, func(), error) {
	if csv {
		dir := strings.TrimSuffix(output, filepath.Ext(output)) + "_media"
		return dir, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "flashdeck-media-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
