package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal"
	"codeberg.org/snonux/flashdeck/internal/audio"
	"codeberg.org/snonux/flashdeck/internal/session"
	"codeberg.org/snonux/flashdeck/internal/store"
	"codeberg.org/snonux/flashdeck/internal/translation"
)

// Config holds the collaborators of the GUI.
type Config struct {
	Store      store.Store
	Translator translation.Translator
	Speech     audio.Provider
	Player     audio.Player
	Log        *zap.Logger
	// Logs, when set, backs the log viewer window.
	Logs *LogBuffer
}

// Application represents the GUI application
type Application struct {
	app    fyne.App
	window fyne.Window
	log    *zap.Logger
	logs   *LogBuffer

	ctx    context.Context
	cancel context.CancelFunc

	list   *deckListScreen
	detail *deckDetailScreen

	logWindow fyne.Window
	logViewer *LogViewer
}

// New creates a new GUI application
func New(ctx context.Context, cfg Config) *Application {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Logs == nil {
		cfg.Logs = NewLogBuffer(0)
	}
	ctx, cancel := context.WithCancel(ctx)

	myApp := app.NewWithID("org.codeberg.snonux.flashdeck")
	myApp.SetIcon(GetAppIcon())

	a := &Application{
		app:    myApp,
		log:    log.Named("gui"),
		logs:   cfg.Logs,
		ctx:    ctx,
		cancel: cancel,
	}

	a.window = myApp.NewWindow(fmt.Sprintf("Flashdeck v%s", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(800, 720))

	notifier := &dialogNotifier{window: a.window, log: a.log}
	a.list = newDeckListScreen(a, session.NewList(cfg.Store, notifier, log))
	a.detail = newDeckDetailScreen(a, session.NewDetail(session.DetailDeps{
		Store:      cfg.Store,
		Translator: cfg.Translator,
		Speech:     cfg.Speech,
		Player:     cfg.Player,
		Notifier:   notifier,
		Log:        log,
	}))

	a.setupKeyboardShortcuts()
	return a
}

// Run shows the deck list and blocks until the window closes.
func (a *Application) Run() {
	a.showList()
	a.window.ShowAndRun()
	a.detail.close()
	a.cancel()
}

func (a *Application) setContent(content fyne.CanvasObject) {
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
}

// showList switches to the deck list and reloads it.
func (a *Application) showList() {
	a.detail.close()
	a.setContent(a.list.content)
	a.list.reload()
}

// showDetail switches to the deck detail screen.
func (a *Application) showDetail(deckID int64, nameHint string) {
	a.log.Debug("Opening deck", zap.Int64("deck_id", deckID))
	a.setContent(a.detail.content)
	a.detail.open(deckID, nameHint)
	a.window.Canvas().Focus(a.detail.surface)
}

// showLogs opens the log viewer window, or raises it when already open.
func (a *Application) showLogs() {
	if a.logWindow != nil {
		a.logWindow.RequestFocus()
		return
	}
	if a.logViewer == nil {
		a.logViewer = NewLogViewer(a.logs)
	}

	w := a.app.NewWindow("Flashdeck logs")
	w.SetContent(a.logViewer)
	w.Resize(fyne.NewSize(700, 420))
	w.SetOnClosed(func() { a.logWindow = nil })
	a.logWindow = w
	w.Show()
}

// setupKeyboardShortcuts routes keys that reach the canvas, which happens
// only when no widget consumed them.
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if a.detail.attached() {
			a.detail.typedKey(ev)
		}
	})

	a.window.Canvas().SetOnTypedRune(a.typedRune)

	// The flip card takes focus, so it passes its keys on.
	a.detail.surface.onKey = a.detail.typedKey
	a.detail.surface.onRune = a.typedRune
}

func (a *Application) typedRune(r rune) {
	// Let the character be typed normally in text fields
	if focusOf(a.window.Canvas().Focused()).IsText() {
		return
	}
	if r == 'l' || r == 'L' {
		a.showLogs()
		return
	}
	if a.detail.attached() {
		a.detail.typedRune(r)
		return
	}
	a.list.typedRune(r)
}
