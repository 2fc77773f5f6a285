package audio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyAudio       = errors.New("audio payload is empty")
	ErrUnsupportedAudio = errors.New("audio payload is not a known format")
)

// Format is the container of an audio payload.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatOGG  Format = "ogg"
	FormatFLAC Format = "flac"
)

// ValidateText checks that there is something to pronounce.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}

// DetectFormat sniffs the container from the first bytes of data.
func DetectFormat(data []byte) (Format, error) {
	switch {
	case len(data) == 0:
		return "", ErrEmptyAudio
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3, nil
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG frame sync
		return FormatMP3, nil
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV, nil
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOGG, nil
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC, nil
	default:
		return "", ErrUnsupportedAudio
	}
}
