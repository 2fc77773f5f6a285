package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// MediaFileName returns a stable, filesystem safe name for the audio of a
// word. Format: <wordID>_<sanitized text>_<md5(text)[:8]>.<ext>
func MediaFileName(wordID int64, text, ext string) string {
	hash := md5.Sum([]byte(text))
	hashStr := hex.EncodeToString(hash[:])[:8]

	base := SanitizeFilename(text)
	if len([]rune(base)) > 32 {
		base = string([]rune(base)[:32])
	}

	return fmt.Sprintf("%d_%s_%s.%s", wordID, base, hashStr, strings.TrimPrefix(ext, "."))
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
