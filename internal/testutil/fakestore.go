package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// FakeStore is an in-memory deck service served over httptest.
type FakeStore struct {
	mu         sync.Mutex
	decks      map[int64]*models.Deck
	nextDeckID int64
	nextWordID int64

	translations map[string]models.Translation
	failures     map[string]int
	requests     map[string]int

	// Audio is returned by the pronounce route.
	Audio []byte
	// LegacyTranslate answers translate with the older
	// {text, translation, detected_language} shape.
	LegacyTranslate bool

	server *httptest.Server
}

// NewFakeStore starts a fake service that is closed with the test.
func NewFakeStore(t *testing.T) *FakeStore {
	t.Helper()

	f := &FakeStore{
		decks:        make(map[int64]*models.Deck),
		translations: make(map[string]models.Translation),
		failures:     make(map[string]int),
		requests:     make(map[string]int),
		Audio:        MP3Header,
	}

	r := chi.NewRouter()
	r.Get("/api/decks", f.handle(f.listDecks))
	r.Post("/api/decks", f.handle(f.createDeck))
	r.Get("/api/decks/{id}", f.handle(f.getDeck))
	r.Delete("/api/decks/{id}", f.handle(f.deleteDeck))
	r.Post("/api/words", f.handle(f.createWord))
	r.Post("/api/words/translate", f.handle(f.translate))
	r.Put("/api/words/{id}", f.handle(f.updateWord))
	r.Delete("/api/words/{id}", f.handle(f.deleteWord))
	r.Post("/api/pronounce", f.handle(f.pronounce))

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL is the base address of the fake.
func (f *FakeStore) URL() string {
	return f.server.URL
}

// AddDeck seeds a deck and returns it with assigned IDs.
func (f *FakeStore) AddDeck(name string, lang models.Language, words ...models.WordFields) models.Deck {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextDeckID++
	deck := &models.Deck{ID: f.nextDeckID, Name: name, TargetLanguage: lang, Words: []models.Word{}}
	for _, w := range words {
		f.nextWordID++
		deck.Words = append(deck.Words, models.Word{
			ID: f.nextWordID, Text: w.Text, Translation: w.Translation, Meaning: w.Meaning,
		})
	}
	f.decks[deck.ID] = deck
	return cloneDeck(*deck)
}

// Deck returns the stored deck.
func (f *FakeStore) Deck(id int64) (models.Deck, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.decks[id]
	if !ok {
		return models.Deck{}, false
	}
	return cloneDeck(*d), true
}

// SetTranslation fixes the answer for text.
func (f *FakeStore) SetTranslation(text string, tr models.Translation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.translations[text] = tr
}

// FailNext makes the next request matching method and route pattern
// (for example "PUT", "/api/words/{id}") answer with status.
func (f *FakeStore) FailNext(method, pattern string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+pattern] = status
}

// Requests counts handled requests for method and route pattern.
func (f *FakeStore) Requests(method, pattern string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[method+" "+pattern]
}

func (f *FakeStore) handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()

		f.mu.Lock()
		f.requests[key]++
		status, fail := f.failures[key]
		delete(f.failures, key)
		f.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"detail": fmt.Sprintf("injected failure %d", status)})
			return
		}
		next(w, r)
	}
}

func (f *FakeStore) listDecks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int64, 0, len(f.decks))
	for id := range f.decks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	decks := make([]models.Deck, 0, len(ids))
	for _, id := range ids {
		decks = append(decks, cloneDeck(*f.decks[id]))
	}
	writeJSON(w, http.StatusOK, decks)
}

func (f *FakeStore) getDeck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	d, found := f.decks[id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Deck not found"})
		return
	}
	writeJSON(w, http.StatusOK, cloneDeck(*d))
}

func (f *FakeStore) createDeck(w http.ResponseWriter, r *http.Request) {
	var in models.DeckInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Validate() != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid deck"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextDeckID++
	d := &models.Deck{ID: f.nextDeckID, Name: in.Name, TargetLanguage: in.TargetLanguage, Words: []models.Word{}}
	f.decks[d.ID] = d
	writeJSON(w, http.StatusOK, cloneDeck(*d))
}

func (f *FakeStore) deleteDeck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, found := f.decks[id]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Deck not found"})
		return
	}
	delete(f.decks, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deck deleted successfully"})
}

func (f *FakeStore) createWord(w http.ResponseWriter, r *http.Request) {
	var in models.WordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	d, found := f.decks[in.DeckID]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Deck not found"})
		return
	}
	f.nextWordID++
	word := models.Word{ID: f.nextWordID, Text: in.Text, Translation: in.Translation, Meaning: in.Meaning}
	d.Words = append(d.Words, word)
	writeJSON(w, http.StatusOK, word)
}

func (f *FakeStore) updateWord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.WordFields
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var updated *models.Word
	for _, d := range f.decks {
		for i := range d.Words {
			if d.Words[i].ID == id {
				d.Words[i].Text, d.Words[i].Translation, d.Words[i].Meaning = in.Text, in.Translation, in.Meaning
				updated = &d.Words[i]
			}
		}
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Word not found"})
		return
	}
	writeJSON(w, http.StatusOK, *updated)
}

func (f *FakeStore) deleteWord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	found := false
	for _, d := range f.decks {
		kept := d.Words[:0]
		for _, word := range d.Words {
			if word.ID == id {
				found = true
				continue
			}
			kept = append(kept, word)
		}
		d.Words = kept
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Word not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Word deleted successfully"})
}

func (f *FakeStore) translate(w http.ResponseWriter, r *http.Request) {
	var req models.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "text is required"})
		return
	}

	f.mu.Lock()
	tr, ok := f.translations[req.Text]
	legacy := f.LegacyTranslate
	f.mu.Unlock()
	if !ok {
		tr = models.Translation{TranslatedText: req.Text, DetectedSourceLanguage: req.TargetLanguage}
	}

	if !legacy {
		writeJSON(w, http.StatusOK, tr)
		return
	}

	// The legacy answer is already oriented as foreign/gloss.
	foreign, gloss := req.Text, tr.TranslatedText
	if tr.DetectedSourceLanguage != req.TargetLanguage {
		foreign, gloss = tr.TranslatedText, req.Text
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"text":              foreign,
		"translation":       gloss,
		"detected_language": tr.DetectedSourceLanguage,
		"target_language":   req.TargetLanguage,
		"deck_id":           req.DeckID,
	})
}

func (f *FakeStore) pronounce(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "text is required"})
		return
	}

	f.mu.Lock()
	audio := append([]byte(nil), f.Audio...)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cloneDeck(d models.Deck) models.Deck {
	d.Words = append([]models.Word{}, d.Words...)
	return d
}
