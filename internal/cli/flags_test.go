package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "warn"},
		{"StoreURL", flags.StoreURL, "http://localhost:8000"},
		{"StoreTimeout", flags.StoreTimeout, 15 * time.Second},
		{"TranslateProvider", flags.TranslateProvider, "store"},
		{"SpeechProvider", flags.SpeechProvider, "store"},
		{"SpeechFallback", flags.SpeechFallback, ""},
		{"OpenAIVoice", flags.OpenAIVoice, "alloy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	boolTests := []struct {
		name  string
		value bool
	}{
		{"Development", flags.Development},
		{"Yes", flags.Yes},
		{"CSV", flags.CSV},
		{"WithAudio", flags.WithAudio},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s should default to false", tt.name)
			}
		})
	}
}

func TestWordEditEmpty(t *testing.T) {
	if !(WordEdit{}).Empty() {
		t.Error("zero WordEdit should be empty")
	}
	meaning := ""
	if (WordEdit{Meaning: &meaning}).Empty() {
		t.Error("an explicitly cleared field is a change")
	}
}
