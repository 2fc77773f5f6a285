package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/batch"
	"codeberg.org/snonux/flashdeck/internal/cli"
	"codeberg.org/snonux/flashdeck/internal/deck"
	"codeberg.org/snonux/flashdeck/internal/models"
	"codeberg.org/snonux/flashdeck/internal/session"
	"codeberg.org/snonux/flashdeck/internal/store"
)

// ListDecks prints all decks.
func (p *Processor) ListDecks(ctx context.Context) error {
	list := p.newList()
	if err := list.Load(ctx); err != nil {
		return err
	}

	decks := list.State().Decks
	if len(decks) == 0 {
		fmt.Fprintln(p.out, "No decks yet. Create one with: flashdeck decks create NAME --language es")
		return nil
	}

	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLANGUAGE\tWORDS")
	for _, d := range decks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", d.ID, d.Name, d.TargetLanguage.Name(), len(d.Words))
	}
	return tw.Flush()
}

// CreateDeck creates a deck. language may be a code or an English name.
func (p *Processor) CreateDeck(ctx context.Context, name, language string) error {
	lang, err := models.ParseLanguage(language)
	if err != nil {
		return err
	}

	list := p.newList()
	list.SetCreateForm(deck.CreateForm{Name: name, Language: lang})
	dk, err := list.CreateDeck(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Created deck %d: %s (%s)\n", dk.ID, dk.Name, dk.TargetLanguage.Name())
	return nil
}

// DeleteDeck deletes a deck after asking on stdin, unless yes is set.
func (p *Processor) DeleteDeck(ctx context.Context, deckID int64, yes bool) error {
	list := p.newList()
	if err := list.Load(ctx); err != nil {
		return err
	}

	dk, ok := list.RequestDelete(deckID)
	if !ok {
		return fmt.Errorf("deck %d: %w", deckID, store.ErrNotFound)
	}

	if !yes && !p.confirm(fmt.Sprintf("Delete deck %q and its %d words? [y/N] ", dk.Name, len(dk.Words))) {
		list.CancelDelete()
		fmt.Fprintln(p.out, "Cancelled")
		return nil
	}

	if err := list.ConfirmDelete(ctx); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Deleted deck %d: %s\n", dk.ID, dk.Name)
	return nil
}

func (p *Processor) confirm(prompt string) bool {
	fmt.Fprint(p.out, prompt)
	answer, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// ShowDeck prints a deck and its words in server order.
func (p *Processor) ShowDeck(ctx context.Context, deckID int64) error {
	detail, err := p.openDeck(ctx, deckID)
	if err != nil {
		return err
	}
	st := detail.State()

	fmt.Fprintf(p.out, "%s (%s), %d words\n\n", st.Title(), st.Deck.TargetLanguage.Name(), len(st.Words()))
	if len(st.Words()) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWORD\tTRANSLATION\tMEANING")
	for _, w := range st.Words() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", w.ID, w.Text, w.Translation, w.Meaning)
	}
	return tw.Flush()
}

// openDeck loads a deck into a fresh detail controller.
func (p *Processor) openDeck(ctx context.Context, deckID int64) (*session.Detail, error) {
	detail := p.newDetail(p.log)
	if err := detail.Load(ctx, deckID, ""); err != nil {
		return nil, err
	}
	return detail, nil
}

// QuickAdd translates text and stores the oriented pair.
func (p *Processor) QuickAdd(ctx context.Context, deckID int64, text string) error {
	detail, err := p.openDeck(ctx, deckID)
	if err != nil {
		return err
	}

	detail.SetQuickInput(text)
	w, err := detail.QuickAdd(ctx)
	if err != nil {
		return err
	}
	p.printWord("Added", w)
	return nil
}

// ManualAdd stores the pair as given.
func (p *Processor) ManualAdd(ctx context.Context, deckID int64, foreign, translation string) error {
	detail, err := p.openDeck(ctx, deckID)
	if err != nil {
		return err
	}

	detail.SetManualFields(foreign, translation)
	w, err := detail.ManualAdd(ctx)
	if errors.Is(err, session.ErrNothingToAdd) {
		return errors.New("both --foreign and --translation are required")
	}
	if err != nil {
		return err
	}
	p.printWord("Added", w)
	return nil
}

// EditWord changes the given fields and keeps the others.
func (p *Processor) EditWord(ctx context.Context, deckID, wordID int64, edit cli.WordEdit) error {
	detail, err := p.openDeck(ctx, deckID)
	if err != nil {
		return err
	}
	if !detail.OpenEdit(wordID) {
		return fmt.Errorf("word %d in deck %d: %w", wordID, deckID, store.ErrNotFound)
	}

	form := detail.State().Edit.WordFields
	if edit.Text != nil {
		form.Text = *edit.Text
	}
	if edit.Translation != nil {
		form.Translation = *edit.Translation
	}
	if edit.Meaning != nil {
		form.Meaning = *edit.Meaning
	}
	detail.SetEditForm(form)

	w, err := detail.SaveEdit(ctx)
	if err != nil {
		return err
	}
	p.printWord("Updated", w)
	return nil
}

// DeleteWord removes a word of the deck.
func (p *Processor) DeleteWord(ctx context.Context, deckID, wordID int64) error {
	detail, err := p.openDeck(ctx, deckID)
	if err != nil {
		return err
	}
	if detail.State().Deck.WordIndex(wordID) < 0 {
		return fmt.Errorf("word %d in deck %d: %w", wordID, deckID, store.ErrNotFound)
	}

	if err := detail.DeleteWord(ctx, wordID); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Deleted word %d\n", wordID)
	return nil
}

// Say pronounces text and waits for playback to finish.
func (p *Processor) Say(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to say")
	}
	detail := p.newDetail(p.log)
	if err := detail.Pronounce(ctx, text); err != nil {
		return err
	}
	return p.waitForPlayback(ctx)
}

// Import adds every entry of file to the deck, one round trip per line.
func (p *Processor) Import(ctx context.Context, deckID int64, file string) error {
	entries, err := batch.ReadFile(file)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(p.out, "No words found in %s\n", file)
		return nil
	}

	detail, err := p.openDeck(ctx, deckID)
	if err != nil {
		return err
	}

	sum := batch.Run(ctx, entries, detail, p.log, func(done, total int) {
		fmt.Fprintf(p.out, "\r%d/%d", done, total)
	})
	fmt.Fprintln(p.out)

	for _, w := range sum.Added {
		p.printWord("Added", w)
	}
	for _, f := range sum.Failed {
		p.log.Debug("Import line failed", zap.Int("line", f.Entry.Line), zap.Error(f.Err))
		fmt.Fprintf(p.out, "Failed %s\n", f.Error())
	}

	fmt.Fprintf(p.out, "\n=== Import Summary ===\nTotal lines: %d\nAdded: %d\n", len(entries), len(sum.Added))
	if len(sum.Failed) > 0 {
		fmt.Fprintf(p.out, "Failed: %d\n", len(sum.Failed))
		return fmt.Errorf("%d of %d lines failed", len(sum.Failed), len(entries))
	}
	return nil
}

func (p *Processor) printWord(verb string, w models.Word) {
	fmt.Fprintf(p.out, "%s word %d: %s = %s\n", verb, w.ID, w.Text, w.Translation)
}
