// Package flashcard implements the two-sided flip card: a small state
// machine over a card supplied by the caller, driven by pointer, control
// and keyboard inputs.
//
// The widget owns only the flipped flag. Which card is shown and what
// "previous" and "next" mean belong to the caller, which passes callbacks.
package flashcard
