package deck

import (
	"strings"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// Orient decides which side of a quick-add pair is the foreign word.
// Input in the deck's target language is the foreign word and the
// translation is its gloss; any other input is the gloss of the
// translation.
func Orient(input string, tr models.Translation, target models.Language) models.WordFields {
	input = strings.TrimSpace(input)
	translated := strings.TrimSpace(tr.TranslatedText)

	if strings.EqualFold(string(tr.DetectedSourceLanguage), string(target)) {
		return models.WordFields{Text: input, Translation: translated}
	}
	return models.WordFields{Text: translated, Translation: input}
}
