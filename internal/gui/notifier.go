package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"go.uber.org/zap"
)

// dialogNotifier turns controller failures into blocking error dialogs.
type dialogNotifier struct {
	window fyne.Window
	log    *zap.Logger
}

// Notify may be called from any goroutine.
func (n *dialogNotifier) Notify(title string, err error) {
	n.log.Info("Showing error", zap.String("title", title), zap.Error(err))
	fyne.Do(func() {
		dialog.ShowError(fmt.Errorf("%s: %w", title, err), n.window)
	})
}
