package session

import (
	"fmt"
	"sync"
)

// InFlight tracks running operations by key.
type InFlight struct {
	mu      sync.Mutex
	running map[string]struct{}
}

// NewInFlight returns an empty guard.
func NewInFlight() *InFlight {
	return &InFlight{running: make(map[string]struct{})}
}

// Acquire marks key as running. It returns false when key already runs.
// The release func is safe to call more than once.
func (g *InFlight) Acquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.running[key]; busy {
		return func() {}, false
	}
	g.running[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.running, key)
			g.mu.Unlock()
		})
	}, true
}

// Busy reports whether key is running.
func (g *InFlight) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.running[key]
	return busy
}

const (
	keyQuickAdd   = "quick-add"
	keyManualAdd  = "manual-add"
	keyCreateDeck = "create-deck"
)

func wordKey(id int64) string { return fmt.Sprintf("word:%d", id) }

func deckKey(id int64) string { return fmt.Sprintf("deck:%d", id) }
