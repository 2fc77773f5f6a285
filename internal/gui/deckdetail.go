package gui

import (
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/flashcard"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/session"
)

// deckDetailScreen studies and edits one deck.
type deckDetailScreen struct {
	app  *Application
	ctrl *session.Detail

	card   *flashcard.Widget
	inputs chan flashcard.Input
	detach func()

	// cardMu orders card updates coming from concurrent controller calls.
	cardMu sync.Mutex

	title    *widget.Label
	position *widget.Label
	surface  *flipCard
	words    []models.Word
	wordList *widget.List

	quickInput  *CustomEntry
	quickButton *ttwidget.Button

	manualForeign     *CustomEntry
	manualTranslation *CustomEntry
	manualFields      *fyne.Container
	manualButton      *ttwidget.Button

	editDialog      dialog.Dialog
	editOpen        bool
	editText        *CustomEntry
	editTranslation *CustomEntry
	editMeaning     *CustomMultiLineEntry

	content fyne.CanvasObject
	// rendering suppresses OnChanged echoes while refresh writes entries.
	rendering bool
}

func newDeckDetailScreen(a *Application, ctrl *session.Detail) *deckDetailScreen {
	s := &deckDetailScreen{
		app:    a,
		ctrl:   ctrl,
		inputs: make(chan flashcard.Input, 16),
	}
	s.card = flashcard.New(ctrl.Prev, ctrl.Next)
	s.surface = newFlipCard(s.inputs)
	s.card.SetOnChange(func(v flashcard.View) {
		fyne.Do(func() { s.surface.render(v) })
	})

	s.buildUI()

	ctrl.OnChange(func(deck.DetailState) {
		s.syncCard()
		fyne.Do(s.refresh)
	})
	return s
}

func (s *deckDetailScreen) buildUI() {
	back := ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), s.app.showList)
	back.SetToolTip("Back to decks (Esc)")
	s.title = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	logs := ttwidget.NewButtonWithIcon("", theme.ListIcon(), s.app.showLogs)
	logs.SetToolTip("Show log messages")
	header := container.NewBorder(nil, nil, back, logs, s.title)

	prev := ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		sendInput(s.inputs, flashcard.PrevControl())
	})
	prev.SetToolTip("Previous card (←)")
	next := ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		sendInput(s.inputs, flashcard.NextControl())
	})
	next.SetToolTip("Next card (→)")
	hear := ttwidget.NewButtonWithIcon("", theme.VolumeUpIcon(), s.pronounceCurrent)
	hear.SetToolTip("Pronounce (p)")
	s.position = widget.NewLabel("")
	controls := container.NewHBox(prev, s.position, next, hear)

	study := container.NewVBox(
		container.NewPadded(s.surface),
		container.NewCenter(controls),
	)

	s.quickInput = NewCustomEntry("Word or phrase in either language...")
	s.quickInput.OnChanged = func(text string) {
		if !s.rendering {
			s.ctrl.SetQuickInput(text)
		}
	}
	s.quickInput.OnSubmitted = func(string) { s.quickAdd() }
	s.quickInput.SetOnEscape(s.app.window.Canvas().Unfocus)
	s.quickButton = ttwidget.NewButtonWithIcon("Add", theme.ContentAddIcon(), s.quickAdd)
	s.quickButton.SetToolTip("Translate and add (Enter)")
	quick := container.NewBorder(nil, nil, nil, s.quickButton, s.quickInput)

	s.manualForeign = NewCustomEntry("Foreign word")
	s.manualTranslation = NewCustomEntry("Translation")
	onManual := func(string) {
		if s.rendering {
			return
		}
		s.ctrl.SetManualFields(s.manualForeign.Text, s.manualTranslation.Text)
	}
	s.manualForeign.OnChanged = onManual
	s.manualTranslation.OnChanged = onManual
	s.manualForeign.OnSubmitted = func(string) { s.manualAdd() }
	s.manualTranslation.OnSubmitted = func(string) { s.manualAdd() }
	s.manualForeign.SetOnEscape(s.app.window.Canvas().Unfocus)
	s.manualTranslation.SetOnEscape(s.app.window.Canvas().Unfocus)
	s.manualFields = container.NewGridWithColumns(2, s.manualForeign, s.manualTranslation)
	swap := ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), s.ctrl.ToggleManualOrder)
	swap.SetToolTip("Swap field order")
	s.manualButton = ttwidget.NewButtonWithIcon("Add", theme.ContentAddIcon(), s.manualAdd)
	s.manualButton.SetToolTip("Add as typed")
	manual := container.NewBorder(nil, nil, swap, s.manualButton, s.manualFields)

	adders := widget.NewCard("", "", container.NewVBox(
		widget.NewLabel("Quick add"), quick,
		widget.NewLabel("Manual add"), manual,
	))

	s.wordList = widget.NewList(
		func() int { return len(s.words) },
		s.createWordRow,
		s.updateWordRow,
	)
	s.wordList.OnSelected = func(id widget.ListItemID) { s.wordList.Unselect(id) }

	top := container.NewVBox(header, widget.NewSeparator(), study, adders)
	s.content = container.NewBorder(top, nil, nil, nil, s.wordList)

	s.buildEditDialog()
}

func (s *deckDetailScreen) createWordRow() fyne.CanvasObject {
	text := widget.NewLabel("")
	text.TextStyle = fyne.TextStyle{Bold: true}
	text.Truncation = fyne.TextTruncateEllipsis
	translation := widget.NewLabel("")
	translation.Truncation = fyne.TextTruncateEllipsis

	hear := ttwidget.NewButtonWithIcon("", theme.VolumeUpIcon(), nil)
	hear.SetToolTip("Pronounce")
	edit := ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil)
	edit.SetToolTip("Edit word")
	del := ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
	del.SetToolTip("Delete word")

	return container.NewBorder(nil, nil, nil,
		container.NewHBox(hear, edit, del),
		container.NewGridWithColumns(2, text, translation))
}

func (s *deckDetailScreen) updateWordRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id >= len(s.words) {
		return
	}
	w := s.words[id]

	row := obj.(*fyne.Container)
	labels := row.Objects[0].(*fyne.Container)
	buttons := row.Objects[1].(*fyne.Container)

	labels.Objects[0].(*widget.Label).SetText(w.Text)
	labels.Objects[1].(*widget.Label).SetText(w.Translation)
	buttons.Objects[0].(*ttwidget.Button).OnTapped = func() { s.pronounce(w.Text) }
	buttons.Objects[1].(*ttwidget.Button).OnTapped = func() { s.openEdit(w.ID) }
	buttons.Objects[2].(*ttwidget.Button).OnTapped = func() { s.deleteWord(w.ID) }
}

func (s *deckDetailScreen) buildEditDialog() {
	s.editText = NewCustomEntry("Foreign word")
	s.editTranslation = NewCustomEntry("Translation")
	s.editMeaning = NewCustomMultiLineEntry("Meaning, notes or an example sentence")
	s.editMeaning.SetMinRowsVisible(3)

	form := widget.NewForm(
		widget.NewFormItem("Word", s.editText),
		widget.NewFormItem("Translation", s.editTranslation),
		widget.NewFormItem("Meaning", s.editMeaning),
	)

	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), s.saveEdit)
	save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), s.cancelEdit)

	body := container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), cancel, save), nil, nil, form)
	s.editDialog = dialog.NewCustomWithoutButtons("Edit word", body, s.app.window)
	s.editDialog.Resize(fyne.NewSize(480, 300))

	s.editText.SetOnEscape(s.cancelEdit)
	s.editTranslation.SetOnEscape(s.cancelEdit)
	s.editMeaning.SetOnEscape(s.cancelEdit)
	s.editText.OnSubmitted = func(string) { s.saveEdit() }
	s.editTranslation.OnSubmitted = func(string) { s.saveEdit() }
}

// open switches the screen to deckID and starts the card listener.
func (s *deckDetailScreen) open(deckID int64, nameHint string) {
	if s.detach != nil {
		s.detach()
	}
	s.detach = flashcard.Attach(s.app.ctx, s.card, s.inputs)

	go func() {
		// The controller logs load failures and keeps the empty view.
		_ = s.ctrl.Load(s.app.ctx, deckID, nameHint)
	}()
}

// close stops the card listener. Pending inputs are discarded.
func (s *deckDetailScreen) close() {
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
	for {
		select {
		case <-s.inputs:
		default:
			return
		}
	}
}

func (s *deckDetailScreen) attached() bool {
	return s.detach != nil
}

// syncCard hands the card under the cursor to the flip widget.
func (s *deckDetailScreen) syncCard() {
	s.cardMu.Lock()
	defer s.cardMu.Unlock()

	if c, ok := s.ctrl.State().Card(); ok {
		s.card.SetCard(c)
	} else {
		s.card.ClearCard()
	}
}

// refresh renders the controller's current state.
func (s *deckDetailScreen) refresh() {
	st := s.ctrl.State()
	s.rendering = true
	defer func() { s.rendering = false }()

	title := st.Title()
	if st.Loaded && st.Deck.TargetLanguage != "" {
		title = fmt.Sprintf("%s (%s)", title, st.Deck.TargetLanguage.Name())
	}
	s.title.SetText(title)

	if n := len(st.Words()); n > 0 {
		s.position.SetText(fmt.Sprintf("%d / %d", st.Cursor+1, n))
	} else {
		s.position.SetText("0 / 0")
	}

	s.words = st.Words()
	s.wordList.Refresh()

	if s.quickInput.Text != st.QuickInput {
		s.quickInput.SetText(st.QuickInput)
	}

	if s.manualForeign.Text != st.Manual.Foreign {
		s.manualForeign.SetText(st.Manual.Foreign)
	}
	if s.manualTranslation.Text != st.Manual.Translation {
		s.manualTranslation.SetText(st.Manual.Translation)
	}
	first, second := fyne.CanvasObject(s.manualForeign), fyne.CanvasObject(s.manualTranslation)
	if !st.Manual.ForeignFirst {
		first, second = second, first
	}
	if s.manualFields.Objects[0] != first {
		s.manualFields.Objects = []fyne.CanvasObject{first, second}
		s.manualFields.Refresh()
	}

	if st.Edit == nil && s.editOpen {
		s.hideEdit()
	}
}

func (s *deckDetailScreen) quickAdd() {
	s.ctrl.SetQuickInput(s.quickInput.Text)
	s.quickButton.Disable()
	go func() {
		defer fyne.Do(s.quickButton.Enable)
		w, err := s.ctrl.QuickAdd(s.app.ctx)
		if err != nil {
			s.logOutcome(err)
			return
		}
		s.app.log.Debug("Quick add stored", zap.Int64("word_id", w.ID))
	}()
}

func (s *deckDetailScreen) manualAdd() {
	s.ctrl.SetManualFields(s.manualForeign.Text, s.manualTranslation.Text)
	s.manualButton.Disable()
	go func() {
		defer fyne.Do(s.manualButton.Enable)
		w, err := s.ctrl.ManualAdd(s.app.ctx)
		if err != nil {
			s.logOutcome(err)
			return
		}
		s.app.log.Debug("Manual add stored", zap.Int64("word_id", w.ID))
		fyne.Do(func() { s.app.window.Canvas().Focus(s.firstManualField()) })
	}()
}

func (s *deckDetailScreen) firstManualField() fyne.Focusable {
	if s.ctrl.State().Manual.ForeignFirst {
		return s.manualForeign
	}
	return s.manualTranslation
}

func (s *deckDetailScreen) openEdit(wordID int64) {
	if !s.ctrl.OpenEdit(wordID) {
		return
	}
	form := s.ctrl.State().Edit
	s.editText.SetText(form.Text)
	s.editTranslation.SetText(form.Translation)
	s.editMeaning.SetText(form.Meaning)
	s.editOpen = true
	s.editDialog.Show()
	s.app.window.Canvas().Focus(s.editText)
}

// saveEdit keeps the dialog open on failure; the notifier reports why.
func (s *deckDetailScreen) saveEdit() {
	s.ctrl.SetEditForm(models.WordFields{
		Text:        s.editText.Text,
		Translation: s.editTranslation.Text,
		Meaning:     s.editMeaning.Text,
	})
	go func() {
		if _, err := s.ctrl.SaveEdit(s.app.ctx); err != nil {
			s.logOutcome(err)
		}
	}()
}

func (s *deckDetailScreen) cancelEdit() {
	s.ctrl.CancelEdit()
	s.hideEdit()
}

func (s *deckDetailScreen) hideEdit() {
	s.editOpen = false
	s.editDialog.Hide()
}

func (s *deckDetailScreen) deleteWord(wordID int64) {
	go func() {
		s.logOutcome(s.ctrl.DeleteWord(s.app.ctx, wordID))
	}()
}

func (s *deckDetailScreen) pronounce(text string) {
	go func() {
		s.logOutcome(s.ctrl.Pronounce(s.app.ctx, text))
	}()
}

func (s *deckDetailScreen) pronounceCurrent() {
	if w, ok := s.ctrl.State().Current(); ok {
		s.pronounce(w.Text)
	}
}

// typedKey forwards the flashcard keys with the current focus.
func (s *deckDetailScreen) typedKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape {
		s.app.showList()
		return
	}
	if k, ok := keyOf(ev.Name); ok {
		focus := focusOf(s.app.window.Canvas().Focused())
		sendInput(s.inputs, flashcard.KeyPress(k, focus))
	}
}

// typedRune handles the detail screen shortcuts.
func (s *deckDetailScreen) typedRune(r rune) {
	switch r {
	case 'p', 'P':
		s.pronounceCurrent()
	case 'a', 'A':
		s.app.window.Canvas().Focus(s.quickInput)
	case 'e', 'E':
		if w, ok := s.ctrl.State().Current(); ok {
			s.openEdit(w.ID)
		}
	}
}

// logOutcome records a finished action. Failures were already shown by
// the notifier.
func (s *deckDetailScreen) logOutcome(err error) {
	switch {
	case err == nil:
	case errors.Is(err, session.ErrInFlight), errors.Is(err, session.ErrNothingToAdd):
		s.app.log.Debug("Action skipped", zap.Error(err))
	default:
		s.app.log.Debug("Action failed", zap.Error(err))
	}
}
