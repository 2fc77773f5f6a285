package models

import "strings"

// Word is one flashcard pair. Text is the foreign-language side.
type Word struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
	Meaning     string `json:"meaning"`
}

// Fields returns the editable part of the word.
func (w Word) Fields() WordFields {
	return WordFields{Text: w.Text, Translation: w.Translation, Meaning: w.Meaning}
}

// Deck is an ordered collection of words studied in one target language.
type Deck struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	TargetLanguage Language `json:"target_language"`
	Words          []Word   `json:"words"`
}

// WordIndex returns the position of the word with the given ID, or -1.
func (d Deck) WordIndex(id int64) int {
	for i, w := range d.Words {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// WordFields is the payload of an update.
type WordFields struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
	Meaning     string `json:"meaning"`
}

// WordInput is the payload of a create; the word joins DeckID.
type WordInput struct {
	WordFields
	DeckID int64 `json:"deck_id"`
}

// DeckInput is the payload of a deck create.
type DeckInput struct {
	Name           string   `json:"name"`
	TargetLanguage Language `json:"target_language"`
}

// Validate checks that the deck has a name and a supported language.
func (in DeckInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrDeckNameRequired
	}
	if !in.TargetLanguage.Valid() {
		return ErrDeckLanguageRequired
	}
	return nil
}

// TranslateRequest asks the translation capability to process Text
// relative to TargetLanguage.
type TranslateRequest struct {
	Text           string   `json:"text"`
	TargetLanguage Language `json:"target_language"`
	DeckID         int64    `json:"deck_id,omitempty"`
}

// Translation is the answer of the translation capability.
type Translation struct {
	TranslatedText         string   `json:"translated_text"`
	DetectedSourceLanguage Language `json:"detected_source_language"`
}
