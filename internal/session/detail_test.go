package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/session"
	"codeberg.org/snonux/flashdeck/internal/testutil"
)

type detailFixture struct {
	store      *testutil.MockStore
	translator *testutil.MockTranslator
	speech     *testutil.MockSpeech
	player     *testutil.MockPlayer
	notifier   *testutil.RecordingNotifier
	detail     *session.Detail
}

func newDetailFixture(t *testing.T) *detailFixture {
	t.Helper()
	f := &detailFixture{
		store:      &testutil.MockStore{},
		translator: &testutil.MockTranslator{},
		speech:     &testutil.MockSpeech{},
		player:     &testutil.MockPlayer{},
		notifier:   &testutil.RecordingNotifier{},
	}
	f.detail = session.NewDetail(session.DetailDeps{
		Store:      f.store,
		Translator: f.translator,
		Speech:     f.speech,
		Player:     f.player,
		Notifier:   f.notifier,
		Log:        testutil.NewTestLogger(),
	})
	t.Cleanup(func() {
		f.store.AssertExpectations(t)
		f.translator.AssertExpectations(t)
		f.speech.AssertExpectations(t)
		f.player.AssertExpectations(t)
	})
	return f
}

func (f *detailFixture) load(t *testing.T, d models.Deck) {
	t.Helper()
	f.store.On("GetDeck", mock.Anything, d.ID).Return(d, nil).Once()
	require.NoError(t, f.detail.Load(context.Background(), d.ID, d.Name))
}

func spanishDeck(words ...models.Word) models.Deck {
	return testutil.NewTestDeck(1, "Spanish Basics", models.Spanish, words...)
}

func TestDetailLoad(t *testing.T) {
	f := newDetailFixture(t)

	var seen []deck.DetailState
	f.detail.OnChange(func(s deck.DetailState) { seen = append(seen, s) })

	d := spanishDeck(testutil.NewTestWord(1, "hola", "hello"), testutil.NewTestWord(2, "casa", "house"))
	f.load(t, d)

	s := f.detail.State()
	assert.True(t, s.Loaded)
	assert.Len(t, s.Words(), len(d.Words))
	require.Len(t, seen, 2)
	assert.Equal(t, "Spanish Basics", seen[0].Title(), "the name hint shows while loading")
	assert.False(t, seen[0].Loaded)
}

func TestDetailLoadFailureIsSilent(t *testing.T) {
	f := newDetailFixture(t)
	log, logs := testutil.NewObservedLogger()
	f.detail = session.NewDetail(session.DetailDeps{Store: f.store, Notifier: f.notifier, Log: log})

	f.store.On("GetDeck", mock.Anything, int64(5)).Return(models.Deck{}, errors.New("connection refused")).Once()

	err := f.detail.Load(context.Background(), 5, "")
	require.Error(t, err)

	s := f.detail.State()
	assert.Empty(t, s.Deck.Name)
	assert.Empty(t, s.Words())
	assert.Zero(t, f.notifier.Count(), "load failures do not alert")
	assert.Equal(t, 1, logs.FilterMessage("Failed to load deck").Len())
}

func TestDetailSpanishBasicsNavigation(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck(testutil.NewTestWord(1, "hola", "hello")))

	card, ok := f.detail.State().Card()
	require.True(t, ok)
	assert.Equal(t, "hola", card.Text)
	assert.Equal(t, "hello", card.Translation)

	f.detail.Next()
	card, _ = f.detail.State().Card()
	assert.Equal(t, "hola", card.Text)
}

func TestDetailCursorCycles(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck(
		testutil.NewTestWord(1, "uno", "one"),
		testutil.NewTestWord(2, "dos", "two"),
		testutil.NewTestWord(3, "tres", "three"),
		testutil.NewTestWord(4, "cuatro", "four"),
	))

	for i := 0; i < 4; i++ {
		f.detail.Next()
	}
	assert.Equal(t, 0, f.detail.State().Cursor)

	f.detail.Prev()
	assert.Equal(t, 3, f.detail.State().Cursor)
	for i := 0; i < 4; i++ {
		f.detail.Prev()
	}
	assert.Equal(t, 3, f.detail.State().Cursor)
}

func TestDetailQuickAddCasa(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck())

	f.detail.SetQuickInput("casa")
	f.translator.On("Translate", mock.Anything, models.TranslateRequest{Text: "casa", TargetLanguage: models.Spanish, DeckID: 1}).
		Return(models.Translation{TranslatedText: "house", DetectedSourceLanguage: models.Spanish}, nil).Once()
	f.store.On("CreateWord", mock.Anything, models.WordInput{
		WordFields: models.WordFields{Text: "casa", Translation: "house"},
		DeckID:     1,
	}).Return(models.Word{ID: 11, Text: "casa", Translation: "house"}, nil).Once()

	w, err := f.detail.QuickAdd(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(11), w.ID)

	s := f.detail.State()
	require.Len(t, s.Words(), 1)
	assert.Equal(t, "casa", s.Words()[0].Text)
	assert.Equal(t, "house", s.Words()[0].Translation)
	assert.Empty(t, s.QuickInput)
}

func TestDetailQuickAddKeepsNewerInput(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck())

	f.detail.SetQuickInput("casa")
	f.translator.On("Translate", mock.Anything, mock.Anything).
		Return(models.Translation{TranslatedText: "house", DetectedSourceLanguage: models.Spanish}, nil).Once()
	f.store.On("CreateWord", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		f.detail.SetQuickInput("gato")
	}).Return(models.Word{ID: 11, Text: "casa", Translation: "house"}, nil).Once()

	_, err := f.detail.QuickAdd(context.Background())
	require.NoError(t, err)

	s := f.detail.State()
	require.Len(t, s.Words(), 1)
	assert.Equal(t, "gato", s.QuickInput)
}

func TestDetailQuickAddGlossInput(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck())

	f.detail.SetQuickInput("  house ")
	f.translator.On("Translate", mock.Anything, mock.MatchedBy(func(r models.TranslateRequest) bool { return r.Text == "house" })).
		Return(models.Translation{TranslatedText: "casa", DetectedSourceLanguage: models.English}, nil).Once()
	f.store.On("CreateWord", mock.Anything, models.WordInput{
		WordFields: models.WordFields{Text: "casa", Translation: "house"},
		DeckID:     1,
	}).Return(models.Word{ID: 12, Text: "casa", Translation: "house"}, nil).Once()

	_, err := f.detail.QuickAdd(context.Background())
	require.NoError(t, err)
}

func TestDetailQuickAddNoOps(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck())

	f.detail.SetQuickInput("   ")
	_, err := f.detail.QuickAdd(context.Background())
	assert.ErrorIs(t, err, session.ErrNothingToAdd)

	g := newDetailFixture(t)
	g.load(t, testutil.NewTestDeck(2, "Unknown", ""))
	g.detail.SetQuickInput("casa")
	_, err = g.detail.QuickAdd(context.Background())
	assert.ErrorIs(t, err, session.ErrInvalidDeck)
	assert.Zero(t, g.notifier.Count())
}

func TestDetailQuickAddFailureKeepsInput(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *detailFixture)
	}{
		{
			name: "translation fails",
			setup: func(f *detailFixture) {
				f.translator.On("Translate", mock.Anything, mock.Anything).
					Return(models.Translation{}, errors.New("quota")).Once()
			},
		},
		{
			name: "persist fails",
			setup: func(f *detailFixture) {
				f.translator.On("Translate", mock.Anything, mock.Anything).
					Return(models.Translation{TranslatedText: "house", DetectedSourceLanguage: models.Spanish}, nil).Once()
				f.store.On("CreateWord", mock.Anything, mock.Anything).
					Return(models.Word{}, errors.New("500")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDetailFixture(t)
			f.load(t, spanishDeck())
			f.detail.SetQuickInput("casa")
			tt.setup(f)

			_, err := f.detail.QuickAdd(context.Background())
			require.Error(t, err)

			s := f.detail.State()
			assert.Equal(t, "casa", s.QuickInput)
			assert.Empty(t, s.Words())
			assert.Equal(t, 1, f.notifier.Count())
		})
	}
}

func TestDetailManualAdd(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck())

	f.detail.SetManualFields("perro", "")
	_, err := f.detail.ManualAdd(context.Background())
	assert.ErrorIs(t, err, session.ErrNothingToAdd)

	f.detail.ToggleManualOrder()
	f.detail.SetManualFields(" perro ", "dog")
	f.store.On("CreateWord", mock.Anything, models.WordInput{
		WordFields: models.WordFields{Text: "perro", Translation: "dog"},
		DeckID:     1,
	}).Return(models.Word{ID: 3, Text: "perro", Translation: "dog"}, nil).Once()

	_, err = f.detail.ManualAdd(context.Background())
	require.NoError(t, err)

	s := f.detail.State()
	assert.Len(t, s.Words(), 1)
	assert.Empty(t, s.Manual.Foreign)
	assert.Empty(t, s.Manual.Translation)
	assert.False(t, s.Manual.ForeignFirst)
}

func TestDetailEdit(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck(testutil.NewTestWord(1, "hola", "hello"), testutil.NewTestWord(2, "adios", "bye")))

	assert.False(t, f.detail.OpenEdit(99))
	require.True(t, f.detail.OpenEdit(2))

	edited := models.WordFields{Text: "adiós", Translation: "goodbye", Meaning: "farewell"}
	f.detail.SetEditForm(edited)

	f.store.On("UpdateWord", mock.Anything, int64(2), edited).Return(models.Word{}, errors.New("500")).Once()
	_, err := f.detail.SaveEdit(context.Background())
	require.Error(t, err)

	s := f.detail.State()
	require.NotNil(t, s.Edit, "editor stays open")
	assert.Equal(t, edited, s.Edit.WordFields)
	assert.Equal(t, "adios", s.Words()[1].Text, "list unchanged")
	assert.Equal(t, 1, f.notifier.Count())

	f.store.On("UpdateWord", mock.Anything, int64(2), edited).
		Return(models.Word{ID: 2, Text: "adiós", Translation: "goodbye", Meaning: "farewell"}, nil).Once()
	_, err = f.detail.SaveEdit(context.Background())
	require.NoError(t, err)

	s = f.detail.State()
	assert.Nil(t, s.Edit)
	assert.Equal(t, "adiós", s.Words()[1].Text)
	assert.Equal(t, "hola", s.Words()[0].Text)

	_, err = f.detail.SaveEdit(context.Background())
	assert.ErrorIs(t, err, session.ErrNotEditing)
}

func TestDetailDeleteWord(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck(
		testutil.NewTestWord(1, "hola", "hello"),
		testutil.NewTestWord(2, "casa", "house"),
		testutil.NewTestWord(3, "perro", "dog"),
	))

	f.store.On("DeleteWord", mock.Anything, int64(2)).Return(errors.New("timeout")).Once()
	require.Error(t, f.detail.DeleteWord(context.Background(), 2))
	assert.Len(t, f.detail.State().Words(), 3)
	assert.Equal(t, "Could not delete word", f.notifier.Notifications()[0].Title)

	f.store.On("DeleteWord", mock.Anything, int64(2)).Return(nil).Once()
	require.NoError(t, f.detail.DeleteWord(context.Background(), 2))

	words := f.detail.State().Words()
	require.Len(t, words, 2)
	assert.Equal(t, int64(1), words[0].ID)
	assert.Equal(t, int64(3), words[1].ID)
}

func TestDetailDeleteInFlight(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck(testutil.NewTestWord(1, "hola", "hello")))

	started := make(chan struct{})
	unblock := make(chan struct{})
	f.store.On("DeleteWord", mock.Anything, int64(1)).Run(func(mock.Arguments) {
		close(started)
		<-unblock
	}).Return(nil).Once()

	done := make(chan error, 1)
	go func() { done <- f.detail.DeleteWord(context.Background(), 1) }()
	<-started

	assert.ErrorIs(t, f.detail.DeleteWord(context.Background(), 1), session.ErrInFlight)
	f.detail.OpenEdit(1)
	_, err := f.detail.SaveEdit(context.Background())
	assert.ErrorIs(t, err, session.ErrInFlight)

	close(unblock)
	require.NoError(t, <-done)
	assert.Empty(t, f.detail.State().Words())
}

func TestDetailStaleMutationIgnored(t *testing.T) {
	f := newDetailFixture(t)
	f.load(t, spanishDeck())
	f.detail.SetManualFields("perro", "dog")

	other := testutil.NewTestDeck(2, "French", models.French)
	f.store.On("CreateWord", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		f.store.On("GetDeck", mock.Anything, int64(2)).Return(other, nil).Once()
		require.NoError(t, f.detail.Load(context.Background(), 2, ""))
	}).Return(models.Word{ID: 9, Text: "perro", Translation: "dog"}, nil).Once()

	_, err := f.detail.ManualAdd(context.Background())
	require.NoError(t, err)

	s := f.detail.State()
	assert.Equal(t, int64(2), s.Deck.ID)
	assert.Empty(t, s.Words())
}

func TestDetailPronounce(t *testing.T) {
	f := newDetailFixture(t)

	f.speech.On("Synthesize", mock.Anything, "hola").Return(testutil.MP3Header, nil).Once()
	f.player.On("Play", mock.Anything, testutil.MP3Header).Return(nil).Once()
	require.NoError(t, f.detail.Pronounce(context.Background(), "hola"))
	assert.Zero(t, f.notifier.Count())

	f.speech.On("Synthesize", mock.Anything, "casa").Return(nil, errors.New("503")).Once()
	require.Error(t, f.detail.Pronounce(context.Background(), "casa"))

	f.speech.On("Synthesize", mock.Anything, "perro").Return(testutil.MP3Header, nil).Once()
	f.player.On("Play", mock.Anything, testutil.MP3Header).Return(errors.New("no device")).Once()
	require.Error(t, f.detail.Pronounce(context.Background(), "perro"))

	assert.Equal(t, 2, f.notifier.Count())
	for _, n := range f.notifier.Notifications() {
		assert.Equal(t, "Pronunciation failed", n.Title)
	}
}
