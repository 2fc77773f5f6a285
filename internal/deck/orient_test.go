package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/flashdeck/internal/models"
)

func TestOrient(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		tr     models.Translation
		target models.Language
		want   models.WordFields
	}{
		{
			name:   "input in target language is the foreign word",
			input:  "casa",
			tr:     models.Translation{TranslatedText: "house", DetectedSourceLanguage: models.Spanish},
			target: models.Spanish,
			want:   models.WordFields{Text: "casa", Translation: "house"},
		},
		{
			name:   "input in another language is the gloss",
			input:  "house",
			tr:     models.Translation{TranslatedText: "casa", DetectedSourceLanguage: models.English},
			target: models.Spanish,
			want:   models.WordFields{Text: "casa", Translation: "house"},
		},
		{
			name:   "detected code compared case-insensitively",
			input:  " Hund ",
			tr:     models.Translation{TranslatedText: "dog ", DetectedSourceLanguage: "DE"},
			target: models.German,
			want:   models.WordFields{Text: "Hund", Translation: "dog"},
		},
		{
			name:   "undetected language counts as gloss",
			input:  "chat",
			tr:     models.Translation{TranslatedText: "chat", DetectedSourceLanguage: ""},
			target: models.French,
			want:   models.WordFields{Text: "chat", Translation: "chat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Orient(tt.input, tt.tr, tt.target)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, got.Meaning)
		})
	}
}
