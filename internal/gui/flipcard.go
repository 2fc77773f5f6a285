package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/flashdeck/internal/flashcard"
)

const cardTextSize = 36

// flipCard draws a flashcard.View and forwards taps and keys to the
// widget's input channel. It holds no flip state of its own.
type flipCard struct {
	widget.BaseWidget

	inputs  chan<- flashcard.Input
	bg      *canvas.Rectangle
	face    *canvas.Text
	side    *widget.Label
	meaning *widget.Label

	// onKey and onRune receive keyboard input while the card has focus.
	onKey  func(*fyne.KeyEvent)
	onRune func(rune)
}

func newFlipCard(inputs chan<- flashcard.Input) *flipCard {
	c := &flipCard{inputs: inputs}

	c.bg = canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	c.bg.CornerRadius = theme.Padding() * 2
	c.bg.StrokeWidth = 1
	c.bg.StrokeColor = theme.Color(theme.ColorNameSeparator)

	c.face = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	c.face.TextSize = cardTextSize
	c.face.TextStyle = fyne.TextStyle{Bold: true}
	c.face.Alignment = fyne.TextAlignCenter

	c.side = widget.NewLabel("")
	c.side.Alignment = fyne.TextAlignCenter
	c.side.Importance = widget.LowImportance

	c.meaning = widget.NewLabel("")
	c.meaning.Alignment = fyne.TextAlignCenter
	c.meaning.Wrapping = fyne.TextWrapWord

	c.ExtendBaseWidget(c)
	c.render(flashcard.View{})
	return c
}

// CreateRenderer implements fyne.Widget
func (c *flipCard) CreateRenderer() fyne.WidgetRenderer {
	body := container.NewVBox(c.side, c.face, c.meaning)
	return widget.NewSimpleRenderer(container.NewStack(c.bg, container.NewCenter(body)))
}

// MinSize keeps the card large enough for long words.
func (c *flipCard) MinSize() fyne.Size {
	return fyne.NewSize(420, 200)
}

// Tapped implements fyne.Tappable
func (c *flipCard) Tapped(*fyne.PointEvent) {
	sendInput(c.inputs, flashcard.Pointer())
}

// FocusGained implements fyne.Focusable
func (c *flipCard) FocusGained() {
	c.bg.StrokeColor = theme.Color(theme.ColorNameFocus)
	c.bg.StrokeWidth = 2
	c.bg.Refresh()
}

// FocusLost implements fyne.Focusable
func (c *flipCard) FocusLost() {
	c.bg.StrokeColor = theme.Color(theme.ColorNameSeparator)
	c.bg.StrokeWidth = 1
	c.bg.Refresh()
}

// TypedRune implements fyne.Focusable
func (c *flipCard) TypedRune(r rune) {
	if c.onRune != nil {
		c.onRune(r)
	}
}

// TypedKey implements fyne.Focusable. The card itself is never a text
// field, so keys always pass the focus guard.
func (c *flipCard) TypedKey(ev *fyne.KeyEvent) {
	if c.onKey != nil {
		c.onKey(ev)
		return
	}
	if k, ok := keyOf(ev.Name); ok {
		sendInput(c.inputs, flashcard.KeyPress(k, flashcard.FocusNone))
	}
}

// render shows v. Must run on the fyne main goroutine.
func (c *flipCard) render(v flashcard.View) {
	switch {
	case !v.HasCard:
		c.side.SetText("")
		c.face.Text = "No cards yet"
		c.face.Color = theme.Color(theme.ColorNamePlaceHolder)
		c.meaning.SetText("Add a word below to start studying.")
	case v.Flipped:
		c.side.SetText("Translation")
		c.face.Text = v.Face()
		c.face.Color = theme.Color(theme.ColorNamePrimary)
		c.meaning.SetText(v.Card.Meaning)
	default:
		c.side.SetText("Tap or press Space to flip")
		c.face.Text = v.Face()
		c.face.Color = theme.Color(theme.ColorNameForeground)
		c.meaning.SetText("")
	}
	c.face.Refresh()
}

// sendInput drops the input when the listener is busy or detached.
func sendInput(ch chan<- flashcard.Input, in flashcard.Input) bool {
	select {
	case ch <- in:
		return true
	default:
		return false
	}
}
