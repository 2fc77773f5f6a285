package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// MockStore is a mock for store.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListDecks(ctx context.Context) ([]models.Deck, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deck), args.Error(1)
}

func (m *MockStore) GetDeck(ctx context.Context, id int64) (models.Deck, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Deck), args.Error(1)
}

func (m *MockStore) CreateDeck(ctx context.Context, in models.DeckInput) (models.Deck, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Deck), args.Error(1)
}

func (m *MockStore) DeleteDeck(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) CreateWord(ctx context.Context, in models.WordInput) (models.Word, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Word), args.Error(1)
}

func (m *MockStore) UpdateWord(ctx context.Context, id int64, fields models.WordFields) (models.Word, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(models.Word), args.Error(1)
}

func (m *MockStore) DeleteWord(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Translate(ctx context.Context, req models.TranslateRequest) (models.Translation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Translation), args.Error(1)
}

func (m *MockStore) Pronounce(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockTranslator is a mock for translation.Translator
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, req models.TranslateRequest) (models.Translation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Translation), args.Error(1)
}

func (m *MockTranslator) Name() string {
	return "mock"
}

// MockSpeech is a mock for audio.Provider
type MockSpeech struct {
	mock.Mock
}

func (m *MockSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSpeech) Name() string {
	return "mock"
}

func (m *MockSpeech) IsAvailable() error {
	return nil
}

// MockPlayer is a mock for audio.Player
type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) Play(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
