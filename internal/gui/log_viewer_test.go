package gui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/flashdeck/internal/logging"
)

func fixedBuffer(limit int) *LogBuffer {
	b := NewLogBuffer(limit)
	b.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC) }
	return b
}

func TestLogBufferNewestFirst(t *testing.T) {
	b := fixedBuffer(10)

	fmt.Fprintln(b, "first")
	fmt.Fprint(b, "second\nthi")
	fmt.Fprint(b, "rd\n")

	got := b.Lines()
	want := []string{"[15:04:05] third", "[15:04:05] second", "[15:04:05] first"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestLogBufferBounded(t *testing.T) {
	b := fixedBuffer(3)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(b, "line %d\n", i)
	}

	got := b.Lines()
	if len(got) != 3 {
		t.Fatalf("kept %d lines, want 3", len(got))
	}
	if !strings.HasSuffix(got[0], "line 4") || !strings.HasSuffix(got[2], "line 2") {
		t.Errorf("unexpected lines %q", got)
	}
}

func TestLogBufferNotifiesAndClears(t *testing.T) {
	b := fixedBuffer(10)
	calls := 0
	b.OnChange(func() { calls++ })

	fmt.Fprintln(b, "hello")
	b.Clear()

	if calls != 2 {
		t.Errorf("OnChange called %d times, want 2", calls)
	}
	if len(b.Lines()) != 0 {
		t.Errorf("Clear left %q", b.Lines())
	}
}

func TestLogBufferAsTeeTarget(t *testing.T) {
	b := fixedBuffer(10)
	log := logging.Tee(zap.NewNop(), b, zapcore.InfoLevel)

	log.Debug("hidden")
	log.Info("Deck loaded", zap.Int64("deck_id", 7))

	lines := b.Lines()
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "Deck loaded") || !strings.Contains(lines[0], `"deck_id": 7`) {
		t.Errorf("line = %q", lines[0])
	}
}
