package flashcard

import (
	"context"
	"sync"
)

// InputKind distinguishes the sources of input.
type InputKind int

const (
	InputPointer InputKind = iota // click or tap on the card
	InputPrev                     // "previous" control
	InputNext                     // "next" control
	InputKey                      // keyboard
)

// Key is a keyboard key the widget understands.
type Key int

const (
	KeyOther Key = iota
	KeyLeft
	KeyRight
	KeySpace
	KeyEnter
)

// Focus describes which element had keyboard focus when a key arrived.
type Focus int

const (
	FocusNone Focus = iota
	FocusTextInput
	FocusTextArea
	FocusContentEditable
)

// IsText reports whether the focused element accepts typing.
func (f Focus) IsText() bool {
	return f == FocusTextInput || f == FocusTextArea || f == FocusContentEditable
}

// Input is one event for the widget.
type Input struct {
	Kind  InputKind
	Key   Key
	Focus Focus
}

// Pointer returns a pointer activation input.
func Pointer() Input { return Input{Kind: InputPointer} }

// PrevControl returns an activation of the "previous" control.
func PrevControl() Input { return Input{Kind: InputPrev} }

// NextControl returns an activation of the "next" control.
func NextControl() Input { return Input{Kind: InputNext} }

// KeyPress returns a key input with the focus at the time of the press.
func KeyPress(k Key, focus Focus) Input {
	return Input{Kind: InputKey, Key: k, Focus: focus}
}

// Attach feeds inputs to w until ctx ends or inputs is closed. The
// returned detach stops the listener and waits until it has exited; it
// is safe to call more than once.
func Attach(ctx context.Context, w *Widget, inputs <-chan Input) (detach func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case in, ok := <-inputs:
				if !ok {
					return
				}
				w.Handle(in)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
