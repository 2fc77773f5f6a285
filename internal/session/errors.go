package session

import "errors"

var (
	// ErrInFlight is returned when the same operation is already running.
	ErrInFlight = errors.New("operation already in progress")
	// ErrNothingToAdd is returned for empty add forms. No request is made.
	ErrNothingToAdd = errors.New("nothing to add")
	// ErrInvalidDeck is returned when the deck cannot take the operation,
	// such as a quick add to a deck without a target language.
	ErrInvalidDeck = errors.New("invalid deck")
	// ErrNotEditing is returned by SaveEdit when no editor is open.
	ErrNotEditing = errors.New("no word is being edited")
	// ErrNoPendingDelete is returned by ConfirmDelete without a request.
	ErrNoPendingDelete = errors.New("no deck delete awaiting confirmation")
)
