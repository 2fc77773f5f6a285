package anki

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/testutil"
)

func testDeck() models.Deck {
	return testutil.NewTestDeck(1, "Spanish Basics", models.Spanish,
		models.Word{ID: 1, Text: "hola", Translation: "hello"},
		models.Word{ID: 2, Text: "casa", Translation: "house", Meaning: "a building, "},
	)
}

func TestCardsFromDeck(t *testing.T) {
	cards := CardsFromDeck(testDeck())
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if cards[1].WordID != 2 || cards[1].Foreign != "casa" || cards[1].Meaning != "a building, " {
		t.Errorf("Unexpected card: %+v", cards[1])
	}
}

type fakeSynth struct{ fail string }

func (s fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	if text == s.fail {
		return nil, errors.New("speech unavailable")
	}
	return testutil.MP3Header, nil
}

func TestAttachAudio(t *testing.T) {
	dir := t.TempDir()
	cards := CardsFromDeck(testDeck())

	err := AttachAudio(context.Background(), cards, dir, fakeSynth{fail: "casa"}, nil)
	if err == nil || !strings.Contains(err.Error(), "casa") {
		t.Errorf("Expected error naming the failed word, got %v", err)
	}

	if cards[0].AudioFile == "" {
		t.Fatal("Expected audio for hola")
	}
	testutil.AssertFileExists(t, cards[0].AudioFile)
	if !strings.HasPrefix(cards[0].AudioFile, dir) || !strings.HasSuffix(cards[0].AudioFile, ".mp3") {
		t.Errorf("Unexpected audio path %s", cards[0].AudioFile)
	}
	if cards[1].AudioFile != "" {
		t.Errorf("Failed synthesis should leave no audio, got %s", cards[1].AudioFile)
	}

	total, withAudio := Stats(cards)
	if total != 2 || withAudio != 1 {
		t.Errorf("Stats() = %d, %d", total, withAudio)
	}
}

func TestAttachAudioCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cards := CardsFromDeck(testDeck())
	if err := AttachAudio(ctx, cards, t.TempDir(), fakeSynth{}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	cards := CardsFromDeck(testDeck())
	cards[0].AudioFile = "/tmp/media/1_hola_abcd1234.mp3"

	var buf bytes.Buffer
	if err := WriteCSV(&buf, cards, true); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "Foreign,Translation,Meaning,Audio\n" +
		"hola,hello,,[sound:1_hola_abcd1234.mp3]\n" +
		"casa,house,\"a building, \",\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := WriteCSV(&buf, cards[:1], false); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if strings.Contains(buf.String(), "Foreign") {
		t.Error("Headers written although disabled")
	}
}

func TestGenerateCSV(t *testing.T) {
	path := t.TempDir() + "/deck.csv"
	if err := GenerateCSV(path, CardsFromDeck(testDeck()), true); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}
	testutil.AssertFileContains(t, path, "casa,house")

	if err := GenerateCSV("/nonexistent/dir/deck.csv", nil, true); err == nil {
		t.Error("Expected error for unwritable path")
	}
	if _, err := os.Stat("/nonexistent/dir/deck.csv"); err == nil {
		t.Error("File should not exist")
	}
}
