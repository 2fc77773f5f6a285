package models

import (
	"fmt"
	"strings"
)

// Language is an ISO 639-1 code from the set of supported target languages.
type Language string

const (
	Spanish    Language = "es"
	French     Language = "fr"
	German     Language = "de"
	Italian    Language = "it"
	Portuguese Language = "pt"
	English    Language = "en"
)

var languageNames = map[Language]string{
	Spanish:    "Spanish",
	French:     "French",
	German:     "German",
	Italian:    "Italian",
	Portuguese: "Portuguese",
	English:    "English",
}

// Languages returns the supported target languages in display order.
func Languages() []Language {
	return []Language{Spanish, French, German, Italian, Portuguese, English}
}

// Name returns the English display name, or the raw code when unknown.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return string(l)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// ParseLanguage accepts a code ("es") or a display name ("Spanish").
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if l := Language(strings.ToLower(s)); l.Valid() {
		return l, nil
	}
	for l, name := range languageNames {
		if strings.EqualFold(name, s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", s)
}
