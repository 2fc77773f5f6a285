package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/audio"
	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/store"
	"codeberg.org/snonux/flashdeck/internal/translation"
)

// DetailDeps are the collaborators of a Detail controller.
type DetailDeps struct {
	Store      store.Store
	Translator translation.Translator
	Speech     audio.Provider
	Player     audio.Player
	Notifier   Notifier
	Log        *zap.Logger
}

// Detail keeps one deck's local projection in step with the store.
type Detail struct {
	deps  DetailDeps
	log   *zap.Logger
	guard *InFlight

	mu       sync.Mutex
	state    deck.DetailState
	loadSeq  uint64
	onChange func(deck.DetailState)
}

// NewDetail returns a controller showing the empty view.
func NewDetail(deps DetailDeps) *Detail {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = LogNotifier{Log: log}
	}
	return &Detail{
		deps:  deps,
		log:   log.Named("detail"),
		guard: NewInFlight(),
		state: deck.NewDetailState(0, ""),
	}
}

// OnChange registers fn to receive every new state. fn runs without the
// controller lock held.
func (d *Detail) OnChange(fn func(deck.DetailState)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// State returns the current state.
func (d *Detail) State() deck.DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// apply runs one reducer step. When deckID is non-zero the step is dropped
// if the view moved to another deck in the meantime.
func (d *Detail) apply(deckID int64, ev deck.Event) (deck.DetailState, bool) {
	d.mu.Lock()
	if deckID != 0 && d.state.Deck.ID != deckID {
		s := d.state
		d.mu.Unlock()
		return s, false
	}
	d.state = deck.ReduceDetail(d.state, ev)
	s, fn := d.state, d.onChange
	d.mu.Unlock()

	if fn != nil {
		fn(s)
	}
	return s, true
}

// Load fetches the deck and replaces the local state. A failure is logged
// and leaves the empty view; the error is returned for callers that print.
func (d *Detail) Load(ctx context.Context, deckID int64, nameHint string) error {
	d.mu.Lock()
	d.loadSeq++
	seq := d.loadSeq
	d.state = deck.NewDetailState(deckID, nameHint)
	s, fn := d.state, d.onChange
	d.mu.Unlock()
	if fn != nil {
		fn(s)
	}

	dk, err := d.deps.Store.GetDeck(ctx, deckID)

	d.mu.Lock()
	stale := seq != d.loadSeq
	d.mu.Unlock()
	if stale {
		return nil
	}

	if err != nil {
		d.log.Error("Failed to load deck", zap.Int64("deck_id", deckID), zap.Error(err))
		d.apply(deckID, deck.LoadFailed{Err: err})
		return fmt.Errorf("load deck %d: %w", deckID, err)
	}

	d.log.Debug("Deck loaded", zap.Int64("deck_id", deckID), zap.Int("words", len(dk.Words)))
	d.apply(deckID, deck.Loaded{Deck: dk})
	return nil
}

// Next moves to the following card, wrapping at the end.
func (d *Detail) Next() { d.apply(0, deck.CursorMoved{Delta: 1}) }

// Prev moves to the preceding card, wrapping at the start.
func (d *Detail) Prev() { d.apply(0, deck.CursorMoved{Delta: -1}) }

func (d *Detail) SetQuickInput(text string) {
	d.apply(0, deck.QuickInputChanged{Text: text})
}

// QuickAdd translates the quick input, orients the pair against the deck
// language and persists it. The input is cleared only after the word is
// stored.
func (d *Detail) QuickAdd(ctx context.Context) (models.Word, error) {
	s := d.State()
	text := strings.TrimSpace(s.QuickInput)
	if text == "" {
		return models.Word{}, ErrNothingToAdd
	}
	lang := s.Deck.TargetLanguage
	if lang == "" {
		return models.Word{}, fmt.Errorf("deck %d has no target language: %w", s.Deck.ID, ErrInvalidDeck)
	}

	release, ok := d.guard.Acquire(keyQuickAdd)
	if !ok {
		return models.Word{}, ErrInFlight
	}
	defer release()

	log := d.log.With(zap.Int64("deck_id", s.Deck.ID), zap.String("input", text))

	tr, err := d.deps.Translator.Translate(ctx, models.TranslateRequest{
		Text:           text,
		TargetLanguage: lang,
		DeckID:         s.Deck.ID,
	})
	if err != nil {
		log.Warn("Translation failed", zap.Error(err))
		return models.Word{}, d.fail(s.Deck.ID, deck.OpQuickAdd, "Translation failed", err)
	}

	fields := deck.Orient(text, tr, lang)
	log.Debug("Oriented quick add",
		zap.String("detected", string(tr.DetectedSourceLanguage)),
		zap.String("text", fields.Text),
		zap.String("translation", fields.Translation))

	w, err := d.deps.Store.CreateWord(ctx, models.WordInput{WordFields: fields, DeckID: s.Deck.ID})
	if err != nil {
		log.Warn("Failed to save word", zap.Error(err))
		return models.Word{}, d.fail(s.Deck.ID, deck.OpQuickAdd, "Could not add word", err)
	}

	d.apply(s.Deck.ID, deck.WordAdded{
		Word:      w,
		Source:    deck.SourceQuick,
		Submitted: []string{s.QuickInput},
	})
	return w, nil
}

func (d *Detail) SetManualFields(foreign, translation string) {
	d.apply(0, deck.ManualFieldsChanged{Foreign: foreign, Translation: translation})
}

// ToggleManualOrder swaps which manual field is shown first.
func (d *Detail) ToggleManualOrder() {
	d.apply(0, deck.ManualOrderToggled{})
}

// ManualAdd stores the manual form as typed. Both fields must hold text.
func (d *Detail) ManualAdd(ctx context.Context) (models.Word, error) {
	s := d.State()
	if !s.Manual.Ready() {
		return models.Word{}, ErrNothingToAdd
	}

	release, ok := d.guard.Acquire(keyManualAdd)
	if !ok {
		return models.Word{}, ErrInFlight
	}
	defer release()

	in := models.WordInput{
		WordFields: models.WordFields{
			Text:        strings.TrimSpace(s.Manual.Foreign),
			Translation: strings.TrimSpace(s.Manual.Translation),
		},
		DeckID: s.Deck.ID,
	}
	w, err := d.deps.Store.CreateWord(ctx, in)
	if err != nil {
		d.log.Warn("Failed to save word", zap.Int64("deck_id", s.Deck.ID), zap.Error(err))
		return models.Word{}, d.fail(s.Deck.ID, deck.OpManualAdd, "Could not add word", err)
	}

	d.apply(s.Deck.ID, deck.WordAdded{
		Word:      w,
		Source:    deck.SourceManual,
		Submitted: []string{s.Manual.Foreign, s.Manual.Translation},
	})
	return w, nil
}

// OpenEdit opens the editor on a copy of the word. It reports false for
// unknown IDs.
func (d *Detail) OpenEdit(wordID int64) bool {
	s, _ := d.apply(0, deck.EditOpened{WordID: wordID})
	return s.Edit != nil && s.Edit.WordID == wordID
}

func (d *Detail) SetEditForm(fields models.WordFields) {
	d.apply(0, deck.EditFormChanged{Fields: fields})
}

func (d *Detail) CancelEdit() {
	d.apply(0, deck.EditCancelled{})
}

// SaveEdit sends the whole edit form. On failure the editor stays open
// with the edits.
func (d *Detail) SaveEdit(ctx context.Context) (models.Word, error) {
	s := d.State()
	if s.Edit == nil {
		return models.Word{}, ErrNotEditing
	}
	form := *s.Edit

	release, ok := d.guard.Acquire(wordKey(form.WordID))
	if !ok {
		return models.Word{}, ErrInFlight
	}
	defer release()

	w, err := d.deps.Store.UpdateWord(ctx, form.WordID, form.WordFields)
	if err != nil {
		d.log.Warn("Failed to update word", zap.Int64("word_id", form.WordID), zap.Error(err))
		return models.Word{}, d.fail(s.Deck.ID, deck.OpEdit, "Could not save word", err)
	}

	d.apply(s.Deck.ID, deck.WordUpdated{Word: w})
	return w, nil
}

// DeleteWord removes the word from the store and then from the view.
func (d *Detail) DeleteWord(ctx context.Context, wordID int64) error {
	deckID := d.State().Deck.ID

	release, ok := d.guard.Acquire(wordKey(wordID))
	if !ok {
		return ErrInFlight
	}
	defer release()

	if err := d.deps.Store.DeleteWord(ctx, wordID); err != nil {
		d.log.Warn("Failed to delete word", zap.Int64("word_id", wordID), zap.Error(err))
		return d.fail(deckID, deck.OpDelete, "Could not delete word", err)
	}

	d.apply(deckID, deck.WordDeleted{ID: wordID})
	return nil
}

// Pronounce synthesizes text and plays it. Nothing in the state changes.
func (d *Detail) Pronounce(ctx context.Context, text string) error {
	if d.deps.Speech == nil || d.deps.Player == nil {
		err := errors.New("pronunciation is not configured")
		d.deps.Notifier.Notify("Pronunciation failed", err)
		return err
	}

	data, err := d.deps.Speech.Synthesize(ctx, text)
	if err == nil {
		err = d.deps.Player.Play(ctx, data)
	}
	if err != nil {
		d.log.Warn("Pronunciation failed",
			zap.String("text", text),
			zap.String("provider", d.deps.Speech.Name()),
			zap.Error(err))
		d.deps.Notifier.Notify("Pronunciation failed", err)
		return fmt.Errorf("pronounce %q: %w", text, err)
	}
	return nil
}

func (d *Detail) fail(deckID int64, op deck.Op, title string, err error) error {
	d.deps.Notifier.Notify(title, err)
	d.apply(deckID, deck.MutationFailed{Op: op, Err: err})
	return fmt.Errorf("%s: %w", op, err)
}
