package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile     string
	LogLevel    string
	Development bool

	// Store flags
	StoreURL     string
	StoreTimeout time.Duration

	// Provider flags
	TranslateProvider string
	SpeechProvider    string
	SpeechFallback    string
	OpenAIVoice       string
	AudioPlayer       string

	// Subcommand flags
	Language    string
	Yes         bool
	Foreign     string
	Translation string
	Text        string
	Meaning     string
	Output      string
	CSV         bool
	WithAudio   bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:          "warn",
		StoreURL:          "http://localhost:8000",
		StoreTimeout:      15 * time.Second,
		TranslateProvider: "store",
		SpeechProvider:    "store",
		OpenAIVoice:       "alloy",
	}
}

// WordEdit carries the fields given to the edit command. Nil fields keep
// the stored value.
type WordEdit struct {
	Text        *string
	Translation *string
	Meaning     *string
}

// Empty reports whether no field was given.
func (e WordEdit) Empty() bool {
	return e.Text == nil && e.Translation == nil && e.Meaning == nil
}

// ExportOptions configures the export command.
type ExportOptions struct {
	Output    string
	CSV       bool
	WithAudio bool
}
