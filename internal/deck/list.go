package deck

import (
	"codeberg.org/snonux/flashdeck/internal/models"
)

// CreateForm is the new-deck form.
type CreateForm struct {
	Name     string
	Language models.Language
}

// Input converts the form to the create payload.
func (f CreateForm) Input() models.DeckInput {
	return models.DeckInput{Name: f.Name, TargetLanguage: f.Language}
}

// ListState is the deck list view.
type ListState struct {
	Decks  []models.Deck
	Loaded bool
	Create CreateForm
	// PendingDelete is the deck awaiting confirmation, if any.
	PendingDelete *models.Deck
}

// ListEvent is an input to ReduceList.
type ListEvent interface {
	listEvent()
}

type (
	DecksLoaded        struct{ Decks []models.Deck }
	DecksLoadFailed    struct{ Err error }
	CreateFormChanged  struct{ Form CreateForm }
	DeckCreated        struct{ Deck models.Deck }
	DeleteRequested    struct{ DeckID int64 }
	DeleteCancelled    struct{}
	DeckDeleted        struct{ ID int64 }
	ListMutationFailed struct {
		Op  Op
		Err error
	}
)

func (DecksLoaded) listEvent()        {}
func (DecksLoadFailed) listEvent()    {}
func (CreateFormChanged) listEvent()  {}
func (DeckCreated) listEvent()        {}
func (DeleteRequested) listEvent()    {}
func (DeleteCancelled) listEvent()    {}
func (DeckDeleted) listEvent()        {}
func (ListMutationFailed) listEvent() {}

// DeckIndex returns the position of the deck with id, or -1.
func (s ListState) DeckIndex(id int64) int {
	for i, d := range s.Decks {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// ReduceList returns the state after ev.
func ReduceList(s ListState, ev ListEvent) ListState {
	switch ev := ev.(type) {
	case DecksLoaded:
		s.Decks = make([]models.Deck, len(ev.Decks))
		for i, d := range ev.Decks {
			s.Decks[i] = cloneDeck(d)
		}
		s.Loaded = true
		s.PendingDelete = nil
		return s

	case DecksLoadFailed:
		return ListState{Create: s.Create}

	case CreateFormChanged:
		s.Create = ev.Form
		return s

	case DeckCreated:
		decks := make([]models.Deck, 0, len(s.Decks)+1)
		decks = append(decks, s.Decks...)
		s.Decks = append(decks, cloneDeck(ev.Deck))
		s.Create = CreateForm{}
		return s

	case DeleteRequested:
		idx := s.DeckIndex(ev.DeckID)
		if idx < 0 {
			return s
		}
		d := s.Decks[idx]
		s.PendingDelete = &d
		return s

	case DeleteCancelled:
		s.PendingDelete = nil
		return s

	case DeckDeleted:
		idx := s.DeckIndex(ev.ID)
		if idx >= 0 {
			decks := make([]models.Deck, 0, len(s.Decks)-1)
			decks = append(decks, s.Decks[:idx]...)
			s.Decks = append(decks, s.Decks[idx+1:]...)
		}
		if s.PendingDelete != nil && s.PendingDelete.ID == ev.ID {
			s.PendingDelete = nil
		}
		return s

	case ListMutationFailed:
		return s
	}
	return s
}
