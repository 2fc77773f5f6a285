package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/flashdeck/internal/flashcard"
)

// CustomEntry extends widget.Entry to handle Escape key (single-line version)
type CustomEntry struct {
	widget.Entry
	onEscape func()
}

// NewCustomEntry creates a new custom single-line entry
func NewCustomEntry(placeholder string) *CustomEntry {
	entry := &CustomEntry{}
	entry.SetPlaceHolder(placeholder)
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *CustomEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *CustomEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// CustomMultiLineEntry is the multi-line variant, used for meanings.
type CustomMultiLineEntry struct {
	CustomEntry
}

// NewCustomMultiLineEntry creates a new custom multi-line entry
func NewCustomMultiLineEntry(placeholder string) *CustomMultiLineEntry {
	entry := &CustomMultiLineEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.SetPlaceHolder(placeholder)
	entry.ExtendBaseWidget(entry)
	return entry
}

// focusOf classifies the focused object for the flashcard key guard.
func focusOf(f fyne.Focusable) flashcard.Focus {
	switch e := f.(type) {
	case *CustomMultiLineEntry:
		return flashcard.FocusTextArea
	case *CustomEntry:
		if e.MultiLine {
			return flashcard.FocusTextArea
		}
		return flashcard.FocusTextInput
	case *widget.Entry:
		if e.MultiLine {
			return flashcard.FocusTextArea
		}
		return flashcard.FocusTextInput
	case *widget.SelectEntry:
		return flashcard.FocusTextInput
	}
	// Buttons, checks and selects take focus but not text.
	return flashcard.FocusNone
}

// keyOf maps the keys the flashcard understands.
func keyOf(name fyne.KeyName) (flashcard.Key, bool) {
	switch name {
	case fyne.KeyLeft:
		return flashcard.KeyLeft, true
	case fyne.KeyRight:
		return flashcard.KeyRight, true
	case fyne.KeySpace:
		return flashcard.KeySpace, true
	case fyne.KeyReturn, fyne.KeyEnter:
		return flashcard.KeyEnter, true
	}
	return flashcard.KeyOther, false
}
