package audio

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "single word", text: "hola"},
		{name: "sentence", text: "¿Dónde está la biblioteca?"},
		{name: "empty text", text: "", wantErr: true},
		{name: "whitespace only", text: "   \t\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !strings.Contains(err.Error(), "text cannot be empty") {
				t.Errorf("ValidateText() error = %v", err)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    Format
		wantErr error
	}{
		{name: "id3 tagged mp3", data: []byte("ID3\x04\x00rest"), want: FormatMP3},
		{name: "mpeg frame", data: []byte{0xFF, 0xFB, 0x90, 0x00}, want: FormatMP3},
		{name: "wav", data: []byte("RIFF\x24\x00\x00\x00WAVEfmt "), want: FormatWAV},
		{name: "ogg", data: []byte("OggS\x00\x02"), want: FormatOGG},
		{name: "flac", data: []byte("fLaC\x00"), want: FormatFLAC},
		{name: "empty", data: nil, wantErr: ErrEmptyAudio},
		{name: "json error body", data: []byte(`{"detail":"nope"}`), wantErr: ErrUnsupportedAudio},
		{name: "riff but not wave", data: []byte("RIFF\x24\x00\x00\x00AVI LIST"), wantErr: ErrUnsupportedAudio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DetectFormat() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %s, want %s", got, tt.want)
			}
		})
	}
}
