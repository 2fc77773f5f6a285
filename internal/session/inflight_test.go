package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInFlightAcquire(t *testing.T) {
	g := NewInFlight()

	release, ok := g.Acquire(wordKey(1))
	assert.True(t, ok)
	assert.True(t, g.Busy("word:1"))

	_, ok = g.Acquire(wordKey(1))
	assert.False(t, ok, "same key is rejected")

	other, ok := g.Acquire(wordKey(2))
	assert.True(t, ok, "other keys are independent")
	other()

	release()
	release()
	assert.False(t, g.Busy("word:1"))

	again, ok := g.Acquire(wordKey(1))
	assert.True(t, ok)
	again()
}

func TestInFlightKeysDoNotCollide(t *testing.T) {
	assert.NotEqual(t, wordKey(3), deckKey(3))
}
