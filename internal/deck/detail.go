package deck

import (
	"strings"

	"codeberg.org/snonux/flashdeck/internal/flashcard"
	"codeberg.org/snonux/flashdeck/internal/models"
)

// Source tells which form produced a new word.
type Source int

const (
	SourceQuick Source = iota
	SourceManual
)

// Op names a mutation for failure events.
type Op string

const (
	OpLoad      Op = "load"
	OpQuickAdd  Op = "quick-add"
	OpManualAdd Op = "manual-add"
	OpEdit      Op = "edit"
	OpDelete    Op = "delete"
	OpPronounce Op = "pronounce"
	OpCreate    Op = "create"
)

// EditForm is a detached copy of a word under edit.
type EditForm struct {
	WordID int64
	models.WordFields
}

// ManualForm holds the two manual-add fields. Foreign stays bound to the
// foreign word whichever order the fields are shown in.
type ManualForm struct {
	Foreign      string
	Translation  string
	ForeignFirst bool
}

// Ready reports whether both fields hold text.
func (f ManualForm) Ready() bool {
	return strings.TrimSpace(f.Foreign) != "" && strings.TrimSpace(f.Translation) != ""
}

// DetailState is the deck detail view.
type DetailState struct {
	Deck   models.Deck
	Loaded bool
	// NameHint is shown until the deck is loaded.
	NameHint string

	Cursor     int
	QuickInput string
	Manual     ManualForm
	Edit       *EditForm
}

// NewDetailState returns the empty view shown before and after a failed load.
func NewDetailState(deckID int64, nameHint string) DetailState {
	return DetailState{
		Deck:     models.Deck{ID: deckID},
		NameHint: nameHint,
		Manual:   ManualForm{ForeignFirst: true},
	}
}

// Title returns the deck name, or the hint while loading.
func (s DetailState) Title() string {
	if s.Deck.Name != "" {
		return s.Deck.Name
	}
	return s.NameHint
}

// Words returns the word list in server order.
func (s DetailState) Words() []models.Word {
	return s.Deck.Words
}

// Current returns the word under the cursor.
func (s DetailState) Current() (models.Word, bool) {
	if len(s.Deck.Words) == 0 {
		return models.Word{}, false
	}
	return s.Deck.Words[s.Cursor], true
}

// Card returns the flashcard content under the cursor.
func (s DetailState) Card() (flashcard.Card, bool) {
	w, ok := s.Current()
	if !ok {
		return flashcard.Card{}, false
	}
	return flashcard.Card{ID: w.ID, Text: w.Text, Translation: w.Translation, Meaning: w.Meaning}, true
}

// Event is an input to ReduceDetail.
type Event interface {
	detailEvent()
}

type (
	// Loaded replaces the deck wholesale.
	Loaded struct{ Deck models.Deck }
	// LoadFailed resets to the empty view.
	LoadFailed struct{ Err error }

	QuickInputChanged   struct{ Text string }
	ManualFieldsChanged struct{ Foreign, Translation string }
	ManualOrderToggled  struct{}

	// WordAdded appends a persisted word. The form it came from is cleared
	// only if it still holds the submitted text: the quick input for
	// SourceQuick, foreign then translation for SourceManual.
	WordAdded struct {
		Word      models.Word
		Source    Source
		Submitted []string
	}

	EditOpened      struct{ WordID int64 }
	EditFormChanged struct{ Fields models.WordFields }
	EditCancelled   struct{}
	// WordUpdated replaces the entry with the same ID and closes the editor.
	WordUpdated struct{ Word models.Word }
	WordDeleted struct{ ID int64 }

	// MutationFailed leaves the state untouched; it exists so failures
	// travel the same path as successes.
	MutationFailed struct {
		Op  Op
		Err error
	}

	// CursorMoved moves the cursor by Delta with wrap-around.
	CursorMoved struct{ Delta int }
)

func (Loaded) detailEvent()              {}
func (LoadFailed) detailEvent()          {}
func (QuickInputChanged) detailEvent()   {}
func (ManualFieldsChanged) detailEvent() {}
func (ManualOrderToggled) detailEvent()  {}
func (WordAdded) detailEvent()           {}
func (EditOpened) detailEvent()          {}
func (EditFormChanged) detailEvent()     {}
func (EditCancelled) detailEvent()       {}
func (WordUpdated) detailEvent()         {}
func (WordDeleted) detailEvent()         {}
func (MutationFailed) detailEvent()      {}
func (CursorMoved) detailEvent()         {}

// ReduceDetail returns the state after ev.
func ReduceDetail(s DetailState, ev Event) DetailState {
	switch ev := ev.(type) {
	case Loaded:
		next := s
		next.Deck = cloneDeck(ev.Deck)
		next.Loaded = true
		next.Cursor = 0
		next.Edit = nil
		return next

	case LoadFailed:
		return NewDetailState(s.Deck.ID, s.NameHint)

	case QuickInputChanged:
		s.QuickInput = ev.Text
		return s

	case ManualFieldsChanged:
		s.Manual.Foreign = ev.Foreign
		s.Manual.Translation = ev.Translation
		return s

	case ManualOrderToggled:
		s.Manual.ForeignFirst = !s.Manual.ForeignFirst
		return s

	case WordAdded:
		s.Deck.Words = appendWord(s.Deck.Words, ev.Word)
		switch ev.Source {
		case SourceQuick:
			if unchanged(ev.Submitted, s.QuickInput) {
				s.QuickInput = ""
			}
		case SourceManual:
			if unchanged(ev.Submitted, s.Manual.Foreign, s.Manual.Translation) {
				s.Manual.Foreign, s.Manual.Translation = "", ""
			}
		}
		return s

	case EditOpened:
		idx := s.Deck.WordIndex(ev.WordID)
		if idx < 0 {
			return s
		}
		w := s.Deck.Words[idx]
		s.Edit = &EditForm{WordID: w.ID, WordFields: w.Fields()}
		return s

	case EditFormChanged:
		if s.Edit == nil {
			return s
		}
		s.Edit = &EditForm{WordID: s.Edit.WordID, WordFields: ev.Fields}
		return s

	case EditCancelled:
		s.Edit = nil
		return s

	case WordUpdated:
		idx := s.Deck.WordIndex(ev.Word.ID)
		if idx >= 0 {
			words := append([]models.Word(nil), s.Deck.Words...)
			words[idx] = ev.Word
			s.Deck.Words = words
		}
		if s.Edit != nil && s.Edit.WordID == ev.Word.ID {
			s.Edit = nil
		}
		return s

	case WordDeleted:
		idx := s.Deck.WordIndex(ev.ID)
		if idx < 0 {
			return s
		}
		words := make([]models.Word, 0, len(s.Deck.Words)-1)
		words = append(words, s.Deck.Words[:idx]...)
		words = append(words, s.Deck.Words[idx+1:]...)
		s.Deck.Words = words
		// The card on screen stays put when an earlier word goes away.
		if idx < s.Cursor {
			s.Cursor--
		}
		s.Cursor = clampCursor(s.Cursor, len(words))
		if s.Edit != nil && s.Edit.WordID == ev.ID {
			s.Edit = nil
		}
		return s

	case MutationFailed:
		return s

	case CursorMoved:
		s.Cursor = wrap(s.Cursor+ev.Delta, len(s.Deck.Words))
		return s
	}
	return s
}

func unchanged(submitted []string, current ...string) bool {
	if len(submitted) != len(current) {
		return false
	}
	for i := range current {
		if submitted[i] != current[i] {
			return false
		}
	}
	return true
}

func cloneDeck(d models.Deck) models.Deck {
	d.Words = append([]models.Word(nil), d.Words...)
	return d
}

// appendWord never writes into the backing array of words, which may be
// shared with earlier states.
func appendWord(words []models.Word, w models.Word) []models.Word {
	out := make([]models.Word, 0, len(words)+1)
	out = append(out, words...)
	return append(out, w)
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func clampCursor(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
