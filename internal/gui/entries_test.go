package gui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/flashdeck/internal/flashcard"
)

func TestFocusOf(t *testing.T) {
	test.NewTempApp(t)

	single := widget.NewEntry()
	multi := widget.NewMultiLineEntry()

	tests := []struct {
		name    string
		focused fyne.Focusable
		want    flashcard.Focus
	}{
		{"nothing focused", nil, flashcard.FocusNone},
		{"entry", single, flashcard.FocusTextInput},
		{"multi-line entry", multi, flashcard.FocusTextArea},
		{"custom entry", NewCustomEntry("word"), flashcard.FocusTextInput},
		{"custom multi-line entry", NewCustomMultiLineEntry("meaning"), flashcard.FocusTextArea},
		{"select entry", widget.NewSelectEntry([]string{"a"}), flashcard.FocusTextInput},
		{"flip card", newFlipCard(make(chan flashcard.Input, 1)), flashcard.FocusNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := focusOf(tt.focused); got != tt.want {
				t.Errorf("focusOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name   fyne.KeyName
		want   flashcard.Key
		wantOK bool
	}{
		{fyne.KeyLeft, flashcard.KeyLeft, true},
		{fyne.KeyRight, flashcard.KeyRight, true},
		{fyne.KeySpace, flashcard.KeySpace, true},
		{fyne.KeyReturn, flashcard.KeyEnter, true},
		{fyne.KeyEnter, flashcard.KeyEnter, true},
		{fyne.KeyUp, flashcard.KeyOther, false},
		{fyne.KeyEscape, flashcard.KeyOther, false},
	}

	for _, tt := range tests {
		got, ok := keyOf(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("keyOf(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCustomEntryEscape(t *testing.T) {
	test.NewTempApp(t)

	entry := NewCustomEntry("word")
	escaped := false
	entry.SetOnEscape(func() { escaped = true })

	entry.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if !escaped {
		t.Error("Escape did not reach the callback")
	}

	test.Type(entry, "hola")
	if entry.Text != "hola" {
		t.Errorf("Text = %q, want %q", entry.Text, "hola")
	}
}
