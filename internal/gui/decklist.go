package gui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/session"
)

// deckListScreen shows all decks with create and delete.
type deckListScreen struct {
	app  *Application
	ctrl *session.List

	decks   []models.Deck
	list    *widget.List
	status  *widget.Label
	content fyne.CanvasObject

	newButton     *ttwidget.Button
	refreshButton *ttwidget.Button
	logsButton    *ttwidget.Button
}

func newDeckListScreen(a *Application, ctrl *session.List) *deckListScreen {
	s := &deckListScreen{app: a, ctrl: ctrl}

	s.status = widget.NewLabel("Loading decks...")

	s.list = widget.NewList(
		func() int { return len(s.decks) },
		s.createRow,
		s.updateRow,
	)
	s.list.OnSelected = func(id widget.ListItemID) {
		s.list.Unselect(id)
		if id < len(s.decks) {
			d := s.decks[id]
			s.app.showDetail(d.ID, d.Name)
		}
	}

	s.newButton = ttwidget.NewButtonWithIcon("New deck", theme.ContentAddIcon(), s.showCreateDialog)
	s.newButton.Importance = widget.HighImportance
	s.newButton.SetToolTip("Create a deck (n)")
	s.refreshButton = ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), s.reload)
	s.refreshButton.SetToolTip("Reload decks (r)")
	s.logsButton = ttwidget.NewButtonWithIcon("", theme.ListIcon(), a.showLogs)
	s.logsButton.SetToolTip("Show log messages (l)")

	title := widget.NewLabelWithStyle("Your decks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	toolbar := container.NewBorder(nil, nil, title,
		container.NewHBox(s.newButton, s.refreshButton, s.logsButton))

	s.content = container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		s.status,
		nil,
		nil,
		s.list,
	)

	ctrl.OnChange(func(deck.ListState) {
		fyne.Do(s.refresh)
	})
	return s
}

func (s *deckListScreen) createRow() fyne.CanvasObject {
	name := widget.NewLabel("")
	name.TextStyle = fyne.TextStyle{Bold: true}
	info := widget.NewLabel("")
	info.Importance = widget.LowImportance

	open := ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), nil)
	open.SetToolTip("Open deck")
	del := ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
	del.Importance = widget.DangerImportance
	del.SetToolTip("Delete deck")

	return container.NewBorder(nil, nil, nil,
		container.NewHBox(info, open, del),
		name)
}

func (s *deckListScreen) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id >= len(s.decks) {
		return
	}
	d := s.decks[id]

	row := obj.(*fyne.Container)
	name := row.Objects[0].(*widget.Label)
	buttons := row.Objects[1].(*fyne.Container)
	info := buttons.Objects[0].(*widget.Label)
	open := buttons.Objects[1].(*ttwidget.Button)
	del := buttons.Objects[2].(*ttwidget.Button)

	name.SetText(d.Name)
	info.SetText(fmt.Sprintf("%s · %s", d.TargetLanguage.Name(), wordCount(len(d.Words))))
	open.OnTapped = func() { s.app.showDetail(d.ID, d.Name) }
	del.OnTapped = func() { s.requestDelete(d.ID) }
}

// refresh renders the controller's current state.
func (s *deckListScreen) refresh() {
	st := s.ctrl.State()
	s.decks = st.Decks
	s.list.Refresh()

	switch {
	case !st.Loaded:
		s.status.SetText("No decks loaded")
	case len(st.Decks) == 0:
		s.status.SetText("No decks yet. Create one to get started.")
	default:
		s.status.SetText(fmt.Sprintf("%d decks", len(st.Decks)))
	}
}

// reload fetches the deck list in the background.
func (s *deckListScreen) reload() {
	s.status.SetText("Loading decks...")
	go func() {
		// Load failures are logged by the controller and leave an empty list.
		_ = s.ctrl.Load(s.app.ctx)
	}()
}

func (s *deckListScreen) showCreateDialog() {
	name := NewCustomEntry("Deck name")
	languages := models.Languages()
	names := make([]string, len(languages))
	for i, l := range languages {
		names[i] = l.Name()
	}
	lang := widget.NewSelect(names, nil)
	lang.PlaceHolder = "Target language"

	items := []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Language", lang),
	}

	d := dialog.NewForm("New deck", "Create", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		form := deck.CreateForm{Name: name.Text}
		if i := lang.SelectedIndex(); i >= 0 {
			form.Language = languages[i]
		}
		s.ctrl.SetCreateForm(form)

		go func() {
			dk, err := s.ctrl.CreateDeck(s.app.ctx)
			if err != nil {
				if errors.Is(err, session.ErrInFlight) {
					s.app.log.Debug("Deck create already running")
				}
				return
			}
			s.app.log.Debug("Created deck from dialog", zap.Int64("deck_id", dk.ID))
		}()
	}, s.app.window)

	name.SetOnEscape(d.Hide)
	d.Resize(fyne.NewSize(400, 220))
	d.Show()
	s.app.window.Canvas().Focus(name)
}

func (s *deckListScreen) requestDelete(deckID int64) {
	dk, ok := s.ctrl.RequestDelete(deckID)
	if !ok {
		return
	}
	s.confirmDelete(dk)
}

// confirmDelete asks before deleting. A failed delete asks again because
// the confirmation is still pending.
func (s *deckListScreen) confirmDelete(dk models.Deck) {
	msg := fmt.Sprintf("Delete the deck %q and its %s?", dk.Name, wordCount(len(dk.Words)))
	dialog.ShowConfirm("Delete deck", msg, func(ok bool) {
		if !ok {
			s.ctrl.CancelDelete()
			return
		}
		go func() {
			err := s.ctrl.ConfirmDelete(s.app.ctx)
			if err == nil || errors.Is(err, session.ErrInFlight) {
				return
			}
			if pending := s.ctrl.State().PendingDelete; pending != nil {
				fyne.Do(func() { s.confirmDelete(*pending) })
			}
		}()
	}, s.app.window)
}

// typedRune handles the list screen shortcuts.
func (s *deckListScreen) typedRune(r rune) {
	switch r {
	case 'n', 'N':
		s.showCreateDialog()
	case 'r', 'R':
		s.reload()
	}
}

func wordCount(n int) string {
	if n == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", n)
}
