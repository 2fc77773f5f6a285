package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/models"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 1024
)

// Config configures the HTTP client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// BreakerFailures consecutive failures open the breaker for
	// BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:8000",
		Timeout:         15 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Client talks JSON over HTTP to the deck service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

var _ Store = (*Client)(nil)

// New creates a client. A nil logger disables logging.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaults.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid store url %q: scheme must be http or https", cfg.BaseURL)
	}

	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("store")

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}

	failures := cfg.BreakerFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "store",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c, nil
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListDecks(ctx context.Context) ([]models.Deck, error) {
	var decks []models.Deck
	if err := c.do(ctx, http.MethodGet, "/api/decks", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

func (c *Client) GetDeck(ctx context.Context, id int64) (models.Deck, error) {
	var deck models.Deck
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/decks/%d", id), nil, &deck)
	return deck, err
}

func (c *Client) CreateDeck(ctx context.Context, in models.DeckInput) (models.Deck, error) {
	var deck models.Deck
	err := c.do(ctx, http.MethodPost, "/api/decks", in, &deck)
	return deck, err
}

func (c *Client) DeleteDeck(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/decks/%d", id), nil, nil)
}

func (c *Client) CreateWord(ctx context.Context, in models.WordInput) (models.Word, error) {
	var word models.Word
	err := c.do(ctx, http.MethodPost, "/api/words", in, &word)
	return word, err
}

func (c *Client) UpdateWord(ctx context.Context, id int64, fields models.WordFields) (models.Word, error) {
	var word models.Word
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/words/%d", id), fields, &word)
	return word, err
}

func (c *Client) DeleteWord(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/words/%d", id), nil, nil)
}

// translateResponse accepts both the {translated_text, detected_source_language}
// answer and the older {text, translation, detected_language} one, which
// the server had already oriented as foreign/gloss.
type translateResponse struct {
	TranslatedText         string          `json:"translated_text"`
	DetectedSourceLanguage models.Language `json:"detected_source_language"`

	Text             string          `json:"text"`
	Translation      string          `json:"translation"`
	DetectedLanguage models.Language `json:"detected_language"`
	TargetLanguage   models.Language `json:"target_language"`
}

func (r translateResponse) normalize(target models.Language) models.Translation {
	if r.TranslatedText != "" || r.DetectedSourceLanguage != "" {
		return models.Translation{
			TranslatedText:         r.TranslatedText,
			DetectedSourceLanguage: r.DetectedSourceLanguage,
		}
	}

	if r.TargetLanguage != "" {
		target = r.TargetLanguage
	}
	out := models.Translation{DetectedSourceLanguage: r.DetectedLanguage}
	if strings.EqualFold(string(r.DetectedLanguage), string(target)) {
		out.TranslatedText = r.Translation
	} else {
		out.TranslatedText = r.Text
	}
	return out
}

func (c *Client) Translate(ctx context.Context, req models.TranslateRequest) (models.Translation, error) {
	var resp translateResponse
	if err := c.do(ctx, http.MethodPost, "/api/words/translate", req, &resp); err != nil {
		return models.Translation{}, err
	}
	return resp.normalize(req.TargetLanguage), nil
}

// Pronounce returns the synthesized audio bytes for text.
func (c *Client) Pronounce(ctx context.Context, text string) ([]byte, error) {
	var audio []byte
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	if err := c.do(ctx, http.MethodPost, "/api/pronounce", body, &audio); err != nil {
		return nil, err
	}
	return audio, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, in, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
	return err
}

// roundTrip issues one request. out may be nil, *[]byte for raw bodies, or
// anything encoding/json can decode into.
func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any) error {
	requestID := uuid.NewString()
	log := c.log.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		log.Error("failed to create request", zap.Error(err))
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
		log.Warn("request rejected", zap.Int("status", resp.StatusCode), zap.String("body", statusErr.Body))
		return statusErr
	}

	switch dst := out.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case *[]byte:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s %s: %w", method, path, err)
		}
		*dst = data
		return nil
	default:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			log.Error("failed to decode response", zap.Error(err))
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		return nil
	}
}

// countsAsSuccess keeps client mistakes and cancellations from tripping
// the breaker; only transport failures and 5xx answers count.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return !statusErr.Temporary()
	}
	return false
}
