package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// Translator translates text relative to a deck's target language.
type Translator interface {
	Translate(ctx context.Context, req models.TranslateRequest) (models.Translation, error)
	Name() string
}

// Backend is the part of the deck service a StoreTranslator needs.
type Backend interface {
	Translate(ctx context.Context, req models.TranslateRequest) (models.Translation, error)
}

// Config selects and configures a translator.
type Config struct {
	Provider    string // "store" or "openai"
	OpenAIKey   string
	OpenAIModel string
	// OpenAIBaseURL overrides the API endpoint, mostly for tests.
	OpenAIBaseURL string
}

// DefaultConfig returns the store backed configuration.
func DefaultConfig() Config {
	return Config{Provider: "store", OpenAIModel: openai.GPT4oMini}
}

// New creates the configured translator.
func New(cfg Config, backend Backend, log *zap.Logger) (Translator, error) {
	switch cfg.Provider {
	case "", "store":
		if backend == nil {
			return nil, fmt.Errorf("store translator needs a backend")
		}
		return NewStoreTranslator(backend), nil
	case "openai":
		return NewOpenAITranslator(cfg, log)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}
}

// StoreTranslator delegates to the deck service.
type StoreTranslator struct {
	backend Backend
}

// NewStoreTranslator creates a translator backed by the deck service.
func NewStoreTranslator(backend Backend) *StoreTranslator {
	return &StoreTranslator{backend: backend}
}

func (t *StoreTranslator) Translate(ctx context.Context, req models.TranslateRequest) (models.Translation, error) {
	tr, err := t.backend.Translate(ctx, req)
	if err != nil {
		return models.Translation{}, fmt.Errorf("translate %q: %w", req.Text, err)
	}
	return tr, nil
}

func (t *StoreTranslator) Name() string {
	return "store"
}

// OpenAITranslator asks a chat model for the translation and the detected
// language in one JSON answer.
type OpenAITranslator struct {
	client *openai.Client
	model  string
	log    *zap.Logger
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(cfg Config, log *zap.Logger) (*OpenAITranslator, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = openai.GPT4oMini
	}
	if log == nil {
		log = zap.NewNop()
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return &OpenAITranslator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.OpenAIModel,
		log:    log.Named("translation"),
	}, nil
}

func (t *OpenAITranslator) Name() string {
	return "openai"
}

func (t *OpenAITranslator) Translate(ctx context.Context, req models.TranslateRequest) (models.Translation, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return models.Translation{}, fmt.Errorf("text cannot be empty")
	}

	chat := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(text, req.TargetLanguage)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   100,
		Temperature: 0.2,
	}

	t.log.Debug("requesting translation",
		zap.String("model", t.model),
		zap.String("target_language", string(req.TargetLanguage)))

	resp, err := t.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return models.Translation{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Translation{}, fmt.Errorf("no translation returned")
	}

	return parseAnswer(resp.Choices[0].Message.Content)
}

const systemPrompt = `You help language learners build flashcards. ` +
	`Answer with a JSON object with the keys "translated_text" and ` +
	`"detected_source_language" (an ISO 639-1 code) and nothing else.`

func userPrompt(text string, target models.Language) string {
	return fmt.Sprintf(
		"Detect the language of %q. If it is %s (%s), translate it into English. "+
			"Otherwise translate it into %s. Give only the translation, no explanations.",
		text, target.Name(), target, target.Name())
}

func parseAnswer(content string) (models.Translation, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var out models.Translation
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &out); err != nil {
		return models.Translation{}, fmt.Errorf("unexpected translation answer %q: %w", content, err)
	}
	out.TranslatedText = strings.TrimSpace(out.TranslatedText)
	out.DetectedSourceLanguage = models.Language(strings.ToLower(strings.TrimSpace(string(out.DetectedSourceLanguage))))
	if out.TranslatedText == "" {
		return models.Translation{}, fmt.Errorf("empty translation in answer %q", content)
	}
	return out, nil
}
