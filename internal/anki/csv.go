package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVHeaders are the column names written by WriteCSV.
var CSVHeaders = []string{"Foreign", "Translation", "Meaning", "Audio"}

// WriteCSV writes one row per card. Audio is an Anki [sound:...] reference
// to the file name only; the media files have to be copied into Anki's
// collection.media folder separately.
func WriteCSV(w io.Writer, cards []Card, headers bool) error {
	cw := csv.NewWriter(w)

	if headers {
		if err := cw.Write(CSVHeaders); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for _, c := range cards {
		if err := cw.Write([]string{c.Foreign, c.Translation, c.Meaning, soundTag(c.AudioFile)}); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// GenerateCSV writes cards to path.
func GenerateCSV(path string, cards []Card, headers bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteCSV(f, cards, headers); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
