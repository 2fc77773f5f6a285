package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/store"
)

// List drives the deck list view.
type List struct {
	store    store.Store
	notifier Notifier
	log      *zap.Logger
	guard    *InFlight

	mu    sync.Mutex
	state deck.ListState
	// loadSeq advances on every Load and on every successful create or
	// delete; a load result is applied only if it is still current.
	loadSeq  uint64
	onChange func(deck.ListState)
}

// NewList returns a controller with an empty list.
func NewList(s store.Store, n Notifier, log *zap.Logger) *List {
	if log == nil {
		log = zap.NewNop()
	}
	if n == nil {
		n = LogNotifier{Log: log}
	}
	return &List{store: s, notifier: n, log: log.Named("decks"), guard: NewInFlight()}
}

// OnChange registers fn to receive every new state.
func (l *List) OnChange(fn func(deck.ListState)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

func (l *List) State() deck.ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *List) apply(ev deck.ListEvent) deck.ListState {
	l.mu.Lock()
	switch ev.(type) {
	case deck.DeckCreated, deck.DeckDeleted:
		l.loadSeq++
	}
	l.state = deck.ReduceList(l.state, ev)
	s, fn := l.state, l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(s)
	}
	return s
}

// Load fetches all decks. A failure empties the list and is only logged.
// A result is dropped when another load started, or a deck was created or
// deleted, while the request was running.
func (l *List) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loadSeq++
	seq := l.loadSeq
	l.mu.Unlock()

	decks, err := l.store.ListDecks(ctx)

	var ev deck.ListEvent = deck.DecksLoaded{Decks: decks}
	if err != nil {
		ev = deck.DecksLoadFailed{Err: err}
	}

	l.mu.Lock()
	if seq != l.loadSeq {
		l.mu.Unlock()
		l.log.Debug("Dropped superseded deck list", zap.Error(err))
		return nil
	}
	l.state = deck.ReduceList(l.state, ev)
	s, fn := l.state, l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(s)
	}
	if err != nil {
		l.log.Error("Failed to load decks", zap.Error(err))
		return fmt.Errorf("load decks: %w", err)
	}
	return nil
}

func (l *List) SetCreateForm(form deck.CreateForm) {
	l.apply(deck.CreateFormChanged{Form: form})
}

// CreateDeck validates the create form and stores a new deck.
func (l *List) CreateDeck(ctx context.Context) (models.Deck, error) {
	in := l.State().Create.Input()
	if err := in.Validate(); err != nil {
		l.notifier.Notify("Invalid deck", err)
		return models.Deck{}, fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}

	release, ok := l.guard.Acquire(keyCreateDeck)
	if !ok {
		return models.Deck{}, ErrInFlight
	}
	defer release()

	dk, err := l.store.CreateDeck(ctx, in)
	if err != nil {
		l.log.Warn("Failed to create deck", zap.String("name", in.Name), zap.Error(err))
		l.notifier.Notify("Could not create deck", err)
		l.apply(deck.ListMutationFailed{Op: deck.OpCreate, Err: err})
		return models.Deck{}, fmt.Errorf("create deck %q: %w", in.Name, err)
	}

	l.log.Info("Deck created", zap.Int64("deck_id", dk.ID), zap.String("name", dk.Name))
	l.apply(deck.DeckCreated{Deck: dk})
	return dk, nil
}

// RequestDelete asks for confirmation before deleting the deck. It returns
// the deck to name in the prompt.
func (l *List) RequestDelete(deckID int64) (models.Deck, bool) {
	s := l.apply(deck.DeleteRequested{DeckID: deckID})
	if s.PendingDelete == nil {
		return models.Deck{}, false
	}
	return *s.PendingDelete, true
}

func (l *List) CancelDelete() {
	l.apply(deck.DeleteCancelled{})
}

// ConfirmDelete deletes the deck awaiting confirmation. On failure the
// confirmation stays pending.
func (l *List) ConfirmDelete(ctx context.Context) error {
	pending := l.State().PendingDelete
	if pending == nil {
		return ErrNoPendingDelete
	}
	id := pending.ID

	release, ok := l.guard.Acquire(deckKey(id))
	if !ok {
		return ErrInFlight
	}
	defer release()

	if err := l.store.DeleteDeck(ctx, id); err != nil {
		l.log.Warn("Failed to delete deck", zap.Int64("deck_id", id), zap.Error(err))
		l.notifier.Notify("Could not delete deck", err)
		l.apply(deck.ListMutationFailed{Op: deck.OpDelete, Err: err})
		return fmt.Errorf("delete deck %d: %w", id, err)
	}

	l.log.Info("Deck deleted", zap.Int64("deck_id", id))
	l.apply(deck.DeckDeleted{ID: id})
	return nil
}
