package audio

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// Synthesize returns encoded audio for text
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Backend is the part of the deck service the store provider needs.
type Backend interface {
	Pronounce(ctx context.Context, text string) ([]byte, error)
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // "store" or "openai"
	Fallback string // optional second provider, same values

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIBaseURL     string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "store",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       0.9,
		OpenAIInstruction: "Pronounce the word the way a native speaker would. Speak slowly and clearly for language learners.",
	}
}

// NewProvider creates the configured provider, wrapped with the fallback
// when one is set.
func NewProvider(config *Config, backend Backend, log *zap.Logger) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := newSingleProvider(config.Provider, config, backend)
	if err != nil {
		return nil, err
	}
	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newSingleProvider(config.Fallback, config, backend)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}
	return NewProviderWithFallback(primary, fallback, log), nil
}

func newSingleProvider(name string, config *Config, backend Backend) (Provider, error) {
	switch name {
	case "", "store":
		if backend == nil {
			return nil, fmt.Errorf("store audio provider needs a backend")
		}
		return NewStoreProvider(backend), nil
	case "openai":
		return NewOpenAIProvider(config)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	log      *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		log:      log.Named("audio"),
	}
}

// Synthesize tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) Synthesize(ctx context.Context, text string) ([]byte, error) {
	data, err := p.primary.Synthesize(ctx, text)
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	p.log.Warn("primary speech provider failed",
		zap.String("primary", p.primary.Name()),
		zap.String("fallback", p.fallback.Name()),
		zap.Error(err))

	return p.fallback.Synthesize(ctx, text)
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// StoreProvider asks the deck service for the pronunciation.
type StoreProvider struct {
	backend Backend
}

// NewStoreProvider creates a provider backed by the deck service.
func NewStoreProvider(backend Backend) *StoreProvider {
	return &StoreProvider{backend: backend}
}

func (p *StoreProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	data, err := p.backend.Pronounce(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("pronounce %q: %w", text, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}
	return data, nil
}

func (p *StoreProvider) Name() string {
	return "store"
}

func (p *StoreProvider) IsAvailable() error {
	if p.backend == nil {
		return fmt.Errorf("no deck service configured")
	}
	return nil
}
