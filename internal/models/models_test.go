package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{in: "es", want: Spanish},
		{in: " FR ", want: French},
		{in: "German", want: German},
		{in: "portuguese", want: Portuguese},
		{in: "bg", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguage(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Italian", Italian.Name())
	assert.Equal(t, "xx", Language("xx").Name())
	assert.Len(t, Languages(), 6)
}

func TestDeckInputValidate(t *testing.T) {
	assert.NoError(t, DeckInput{Name: "Spanish Basics", TargetLanguage: Spanish}.Validate())
	assert.ErrorIs(t, DeckInput{Name: "   ", TargetLanguage: Spanish}.Validate(), ErrDeckNameRequired)
	assert.ErrorIs(t, DeckInput{Name: "Basics"}.Validate(), ErrDeckLanguageRequired)
	assert.ErrorIs(t, DeckInput{Name: "Basics", TargetLanguage: "bg"}.Validate(), ErrDeckLanguageRequired)
}

func TestDeckDecodeNullMeaning(t *testing.T) {
	raw := `{"id":1,"name":"Spanish Basics","target_language":"es",
		"words":[{"id":7,"text":"hola","translation":"hello","meaning":null}]}`

	var d Deck
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	require.Len(t, d.Words, 1)
	assert.Equal(t, "", d.Words[0].Meaning)
	assert.Equal(t, 0, d.WordIndex(7))
	assert.Equal(t, -1, d.WordIndex(8))
}

func TestWordInputEncoding(t *testing.T) {
	in := WordInput{WordFields: WordFields{Text: "casa", Translation: "house"}, DeckID: 3}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"casa","translation":"house","meaning":"","deck_id":3}`, string(data))
}
