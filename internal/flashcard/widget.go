package flashcard

import "sync"

// Card is the content of both faces.
type Card struct {
	ID          int64
	Text        string
	Translation string
	Meaning     string
}

// View is a snapshot of what the widget shows.
type View struct {
	Card    Card
	HasCard bool
	Flipped bool
}

// Face returns the text on the visible side.
func (v View) Face() string {
	if v.Flipped {
		return v.Card.Translation
	}
	return v.Card.Text
}

// Result tells the caller what happened to an input.
type Result struct {
	Handled bool
	// PreventDefault asks the host to suppress its own handling of the
	// key, such as scrolling on Space.
	PreventDefault bool
}

// Widget is the flip state machine.
type Widget struct {
	mu       sync.Mutex
	card     Card
	hasCard  bool
	flipped  bool
	onPrev   func()
	onNext   func()
	onChange func(View)
}

// New creates a widget without a card. onPrev and onNext may be nil.
func New(onPrev, onNext func()) *Widget {
	return &Widget{onPrev: onPrev, onNext: onNext}
}

// SetOnChange registers a callback fired after every visible change. It
// runs outside the widget lock.
func (w *Widget) SetOnChange(fn func(View)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// SetCard shows c. A different card always starts on the front side.
func (w *Widget) SetCard(c Card) {
	w.mu.Lock()
	if w.hasCard && w.card == c {
		w.mu.Unlock()
		return
	}
	w.card = c
	w.hasCard = true
	w.flipped = false
	view, notify := w.viewLocked(), w.onChange
	w.mu.Unlock()

	if notify != nil {
		notify(view)
	}
}

// ClearCard removes the card, for example when the deck becomes empty.
func (w *Widget) ClearCard() {
	w.mu.Lock()
	if !w.hasCard {
		w.mu.Unlock()
		return
	}
	w.card = Card{}
	w.hasCard = false
	w.flipped = false
	view, notify := w.viewLocked(), w.onChange
	w.mu.Unlock()

	if notify != nil {
		notify(view)
	}
}

// View returns the current snapshot.
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

// Flipped reports whether the back side is showing.
func (w *Widget) Flipped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flipped
}

// Handle applies one input.
func (w *Widget) Handle(in Input) Result {
	switch in.Kind {
	case InputPointer:
		return w.toggle(false)
	case InputPrev:
		return w.navigate(w.onPrev)
	case InputNext:
		return w.navigate(w.onNext)
	case InputKey:
		if in.Focus.IsText() {
			return Result{}
		}
		switch in.Key {
		case KeyLeft:
			return w.navigate(w.onPrev)
		case KeyRight:
			return w.navigate(w.onNext)
		case KeySpace, KeyEnter:
			return w.toggle(true)
		}
	}
	return Result{}
}

func (w *Widget) toggle(preventDefault bool) Result {
	w.mu.Lock()
	if !w.hasCard {
		w.mu.Unlock()
		return Result{}
	}
	w.flipped = !w.flipped
	view, notify := w.viewLocked(), w.onChange
	w.mu.Unlock()

	if notify != nil {
		notify(view)
	}
	return Result{Handled: true, PreventDefault: preventDefault}
}

// navigate resets to the front side and then hands over to the caller.
func (w *Widget) navigate(move func()) Result {
	w.mu.Lock()
	if !w.hasCard {
		w.mu.Unlock()
		return Result{}
	}
	changed := w.flipped
	w.flipped = false
	view, notify := w.viewLocked(), w.onChange
	w.mu.Unlock()

	if changed && notify != nil {
		notify(view)
	}
	if move != nil {
		move()
	}
	return Result{Handled: true}
}

func (w *Widget) viewLocked() View {
	return View{Card: w.card, HasCard: w.hasCard, Flipped: w.flipped}
}
