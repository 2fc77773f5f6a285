package audio

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name         string
	data         []byte
	err          error
	availableErr error
	calls        int
}

func (m *mockProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

type fakeBackend struct {
	data  []byte
	err   error
	texts []string
}

func (b *fakeBackend) Pronounce(ctx context.Context, text string) ([]byte, error) {
	b.texts = append(b.texts, text)
	return b.data, b.err
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "store" {
		t.Errorf("Expected provider 'store', got '%s'", config.Provider)
	}
	if config.Fallback != "" {
		t.Errorf("Expected no fallback, got '%s'", config.Fallback)
	}
	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}
}

func TestNewProvider(t *testing.T) {
	backend := &fakeBackend{}

	tests := []struct {
		name     string
		config   *Config
		backend  Backend
		wantName string
		errMsg   string
	}{
		{name: "nil config uses store", config: nil, backend: backend, wantName: "store"},
		{name: "store without backend", config: &Config{Provider: "store"}, errMsg: "store audio provider needs a backend"},
		{name: "openai without key", config: &Config{Provider: "openai"}, backend: backend, errMsg: "OpenAI API key is required"},
		{name: "openai", config: &Config{Provider: "openai", OpenAIKey: "k"}, backend: backend, wantName: "openai"},
		{name: "unknown provider", config: &Config{Provider: "unknown"}, backend: backend, errMsg: "unknown audio provider: unknown"},
		{
			name:     "store with openai fallback",
			config:   &Config{Provider: "store", Fallback: "openai", OpenAIKey: "k"},
			backend:  backend,
			wantName: "store (fallback: openai)",
		},
		{
			name:    "broken fallback",
			config:  &Config{Provider: "store", Fallback: "openai"},
			backend: backend,
			errMsg:  "fallback provider: OpenAI API key is required",
		},
		{name: "fallback equal to primary", config: &Config{Provider: "store", Fallback: "store"}, backend: backend, wantName: "store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config, tt.backend, nil)
			if tt.errMsg != "" {
				if err == nil || err.Error() != tt.errMsg {
					t.Fatalf("NewProvider() error = %v, want %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() unexpected error: %v", err)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestStoreProvider(t *testing.T) {
	backend := &fakeBackend{data: []byte("ID3")}
	p := NewStoreProvider(backend)

	data, err := p.Synthesize(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(data) != "ID3" {
		t.Errorf("Synthesize() = %q", data)
	}

	if _, err := p.Synthesize(context.Background(), "  "); err == nil {
		t.Error("expected error for empty text")
	}
	if len(backend.texts) != 1 {
		t.Errorf("empty text must not reach the backend, got %d calls", len(backend.texts))
	}

	backend.data = nil
	if _, err := p.Synthesize(context.Background(), "hola"); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("Synthesize() error = %v, want ErrEmptyAudio", err)
	}

	backend.err = errors.New("connection refused")
	if _, err := p.Synthesize(context.Background(), "hola"); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Synthesize() error = %v", err)
	}
}

func TestProviderWithFallback(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		primary := &mockProvider{name: "primary", data: []byte("a")}
		fallback := &mockProvider{name: "fallback", data: []byte("b")}
		p := NewProviderWithFallback(primary, fallback, nil)

		data, err := p.Synthesize(context.Background(), "hola")
		if err != nil || string(data) != "a" {
			t.Fatalf("Synthesize() = %q, %v", data, err)
		}
		if fallback.calls != 0 {
			t.Errorf("fallback called %d times", fallback.calls)
		}
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &mockProvider{name: "primary", err: errors.New("down")}
		fallback := &mockProvider{name: "fallback", data: []byte("b")}
		p := NewProviderWithFallback(primary, fallback, nil)

		data, err := p.Synthesize(context.Background(), "hola")
		if err != nil || string(data) != "b" {
			t.Fatalf("Synthesize() = %q, %v", data, err)
		}
	})

	t.Run("cancelled context skips fallback", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		primary := &mockProvider{name: "primary", err: context.Canceled}
		fallback := &mockProvider{name: "fallback", data: []byte("b")}
		p := NewProviderWithFallback(primary, fallback, nil)

		if _, err := p.Synthesize(ctx, "hola"); !errors.Is(err, context.Canceled) {
			t.Fatalf("Synthesize() error = %v", err)
		}
		if fallback.calls != 0 {
			t.Errorf("fallback called %d times", fallback.calls)
		}
	})

	t.Run("availability", func(t *testing.T) {
		down := errors.New("down")
		p := NewProviderWithFallback(&mockProvider{availableErr: down}, &mockProvider{}, nil)
		if err := p.IsAvailable(); err != nil {
			t.Errorf("IsAvailable() = %v", err)
		}
		p = NewProviderWithFallback(&mockProvider{availableErr: down}, &mockProvider{availableErr: down}, nil)
		if err := p.IsAvailable(); err == nil {
			t.Error("IsAvailable() should fail when both providers are down")
		}
	})
}
