package audio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func speechServer(t *testing.T, status int, body []byte) (*httptest.Server, func() map[string]any) {
	t.Helper()
	var mu sync.Mutex
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		_ = json.NewDecoder(r.Body).Decode(&got)
		mu.Unlock()
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write(body)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, func() map[string]any {
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(&Config{}); err == nil || err.Error() != "OpenAI API key is required" {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	p, err := NewOpenAIProvider(&Config{OpenAIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Name() = %s", p.Name())
	}
	if p.config.OpenAIVoice != "alloy" || p.config.OpenAISpeed != 0.9 {
		t.Errorf("defaults not applied: %+v", p.config)
	}
	if err := p.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() = %v", err)
	}
}

func TestOpenAIProviderSynthesize(t *testing.T) {
	srv, request := speechServer(t, http.StatusOK, []byte("ID3audio"))

	p, err := NewOpenAIProvider(&Config{
		OpenAIKey:         "test-key",
		OpenAIBaseURL:     srv.URL + "/v1",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAIInstruction: "speak slowly",
	})
	if err != nil {
		t.Fatal(err)
	}

	data, err := p.Synthesize(context.Background(), "¡Hola!")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(data) != "ID3audio" {
		t.Errorf("Synthesize() = %q", data)
	}

	got := request()
	if got["input"] != "Hola" {
		t.Errorf("input = %v, want punctuation stripped", got["input"])
	}
	if got["voice"] != "nova" || got["response_format"] != "mp3" {
		t.Errorf("unexpected request %v", got)
	}
	if got["instructions"] != "speak slowly" {
		t.Errorf("instructions = %v", got["instructions"])
	}
}

func TestOpenAIProviderOmitsInstructionsForClassicModels(t *testing.T) {
	srv, request := speechServer(t, http.StatusOK, []byte("ID3"))
	p, _ := NewOpenAIProvider(&Config{
		OpenAIKey: "k", OpenAIBaseURL: srv.URL + "/v1", OpenAIModel: "tts-1", OpenAIInstruction: "ignored",
	})

	if _, err := p.Synthesize(context.Background(), "hola"); err != nil {
		t.Fatal(err)
	}
	if _, ok := request()["instructions"]; ok {
		t.Error("tts-1 requests must not carry instructions")
	}
}

func TestOpenAIProviderErrors(t *testing.T) {
	srv, _ := speechServer(t, http.StatusUnauthorized, []byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	p, _ := NewOpenAIProvider(&Config{OpenAIKey: "k", OpenAIBaseURL: srv.URL + "/v1"})

	if _, err := p.Synthesize(context.Background(), "hola"); err == nil || !strings.Contains(err.Error(), "OpenAI TTS API error") {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if _, err := p.Synthesize(context.Background(), " "); err == nil {
		t.Fatal("Synthesize() should reject empty text")
	}
}

func TestCleanForSpeech(t *testing.T) {
	tests := map[string]string{
		"hola":         "hola",
		"¿Qué tal?":    "Qué tal",
		"  \"casa\"  ": "casa",
		"l'homme":      "l'homme",
		"(der) Hund.":  "der Hund",
		"arc-en-ciel":  "arc-en-ciel",
	}
	for in, want := range tests {
		if got := cleanForSpeech(in); got != want {
			t.Errorf("cleanForSpeech(%q) = %q, want %q", in, got, want)
		}
	}
}
