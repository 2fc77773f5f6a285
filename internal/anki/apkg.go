package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/flashdeck/internal/models"
)

// fieldSeparator joins note fields in the notes.flds column.
const fieldSeparator = "\x1f"

// Package builds one .apkg file holding a single deck with a
// forward and a reverse card per note.
type Package struct {
	deckName string
	language models.Language
	deckID   int64
	modelID  int64
	now      time.Time

	cards []Card
	// media maps the in-package file name to its number in the zip.
	media map[string]int
	// sources lists media paths in number order.
	sources []string
}

// NewPackage returns an empty package for a deck studied in lang.
func NewPackage(deckName string, lang models.Language) *Package {
	return newPackageAt(deckName, lang, time.Now())
}

func newPackageAt(deckName string, lang models.Language, now time.Time) *Package {
	return &Package{
		deckName: deckName,
		language: lang,
		deckID:   now.UnixMilli(),
		modelID:  now.UnixMilli() + 1,
		now:      now,
		media:    make(map[string]int),
	}
}

// Add queues cards for the package. Audio files that do not exist are
// left out.
func (p *Package) Add(cards ...Card) {
	for _, c := range cards {
		if c.AudioFile != "" {
			if _, err := os.Stat(c.AudioFile); err != nil {
				c.AudioFile = ""
			} else {
				p.addMedia(c.AudioFile)
			}
		}
		p.cards = append(p.cards, c)
	}
}

func (p *Package) addMedia(path string) {
	name := filepath.Base(path)
	if _, ok := p.media[name]; ok {
		return
	}
	p.media[name] = len(p.sources)
	p.sources = append(p.sources, path)
}

// Write stores the package at outputPath.
func (p *Package) Write(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "flashdeck_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := p.writeCollection(dbPath); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	if err := p.writeZip(dbPath, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

func (p *Package) writeCollection(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	if err := p.insertCollection(tx); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err := p.insertNotes(tx); err != nil {
		return err
	}
	return tx.Commit()
}

var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

type jsonObject = map[string]any

func deckEntry(id int64, name, desc string, mod int64) jsonObject {
	return jsonObject{
		"id": id, "name": name, "desc": desc, "mod": mod,
		"collapsed": false, "browserCollapsed": false, "dyn": 0, "conf": 1, "usn": 0,
		"newToday": []int{0, 0}, "revToday": []int{0, 0},
		"lrnToday": []int{0, 0}, "timeToday": []int{0, 0},
		"extendNew": 10, "extendRev": 50,
	}
}

func (p *Package) insertCollection(tx *sql.Tx) error {
	mod := p.now.Unix()

	desc := fmt.Sprintf("%s vocabulary exported by flashdeck", p.language.Name())
	decks := jsonObject{
		"1":                             deckEntry(1, "Default", "", mod),
		strconv.FormatInt(p.deckID, 10): deckEntry(p.deckID, p.deckName, desc, mod),
	}
	noteTypes := jsonObject{strconv.FormatInt(p.modelID, 10): p.noteType()}
	conf := jsonObject{
		"nextPos": 1, "estTimes": true, "activeDecks": []int64{1},
		"sortType": "noteFld", "sortBackwards": false, "addToCur": true,
		"curDeck": 1, "newSpread": 0, "dueCounts": true, "collapseTime": 1200,
		"timeLim": 0, "schedVer": 1, "dayLearnFirst": false,
		"curModel": strconv.FormatInt(p.modelID, 10),
	}
	dconf := jsonObject{
		"1": jsonObject{
			"id": 1, "name": "Default", "dyn": 0, "usn": 0, "mod": mod,
			"timer": 0, "maxTaken": 60, "autoplay": true, "replayq": true,
			"new": jsonObject{
				"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500,
				"perDay": 20, "order": 1, "bury": true, "separate": true,
			},
			"lapse": jsonObject{
				"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0,
			},
			"rev": jsonObject{
				"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500,
				"ivlFct": 1, "bury": true, "minSpace": 1,
			},
		},
	}

	encoded := make([]string, 0, 4)
	for _, v := range []any{conf, noteTypes, decks, dconf} {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded = append(encoded, string(b))
	}

	_, err := tx.Exec(`INSERT INTO col VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		mod, mod*1000, mod*1000, encoded[0], encoded[1], encoded[2], encoded[3])
	return err
}

// Field order of the note type. Translation leads so the forward card asks
// for the foreign word.
var noteFields = []string{"Translation", "Foreign", "Audio", "Meaning"}

func (p *Package) noteType() jsonObject {
	flds := make([]jsonObject, len(noteFields))
	for i, name := range noteFields {
		size := 20
		if name == "Meaning" {
			size = 16
		}
		flds[i] = jsonObject{
			"name": name, "ord": i, "sticky": false, "rtl": false,
			"font": "Arial", "size": size, "media": []string{},
		}
	}

	return jsonObject{
		"id":        p.modelID,
		"name":      fmt.Sprintf("%s vocabulary (Basic + Reverse)", p.language.Name()),
		"type":      0,
		"mod":       p.now.Unix(),
		"usn":       -1,
		"sortf":     1,
		"did":       p.deckID,
		"req":       [][]any{{0, "all", []int{0}}, {1, "all", []int{1}}},
		"vers":      []int{},
		"tags":      []string{},
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}",
		"latexPost": "\\end{document}",
		"flds":      flds,
		"tmpls": []jsonObject{
			{"name": "Recall", "ord": 0, "qfmt": recallFront, "afmt": recallBack, "did": nil, "bqfmt": "", "bafmt": ""},
			{"name": "Recognise", "ord": 1, "qfmt": recogniseFront, "afmt": recogniseBack, "did": nil, "bqfmt": "", "bafmt": ""},
		},
		"css": cardCSS,
	}
}

const (
	recallFront = `<div class="translation">{{Translation}}</div>`
	recallBack  = `{{FrontSide}}
<hr id="answer">
<div class="foreign">{{Foreign}}</div>
{{#Audio}}<div class="audio">{{Audio}}</div>{{/Audio}}
{{#Meaning}}<div class="meaning">{{Meaning}}</div>{{/Meaning}}`

	recogniseFront = `<div class="foreign">{{Foreign}}</div>
{{#Audio}}<div class="audio">{{Audio}}</div>{{/Audio}}`
	recogniseBack = `{{FrontSide}}
<hr id="answer">
<div class="translation">{{Translation}}</div>
{{#Meaning}}<div class="meaning">{{Meaning}}</div>{{/Meaning}}`

	cardCSS = `.card { font-family: Arial, sans-serif; font-size: 20px; text-align: center; color: #333; background-color: white; }
.translation { font-size: 28px; font-weight: bold; color: #2c3e50; margin: 20px 0; }
.foreign { font-size: 32px; font-weight: bold; color: #c0392b; margin: 20px 0; }
.audio { margin: 15px 0; }
.meaning { font-size: 16px; color: #7f8c8d; margin-top: 20px; font-style: italic; }
hr#answer { margin: 30px 0; border: 0; border-top: 1px solid #ecf0f1; }`
)

func (p *Package) insertNotes(tx *sql.Tx) error {
	noteStmt, err := tx.Prepare(`INSERT INTO notes VALUES (?, ?, ?, ?, -1, '', ?, ?, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	base := p.now.UnixMilli()
	mod := p.now.Unix()

	for i, c := range p.cards {
		noteID := base + int64(i*3)

		translation := c.Translation
		if translation == "" {
			translation = "Translation needed"
		}
		flds := strings.Join([]string{translation, c.Foreign, soundTag(c.AudioFile), c.Meaning}, fieldSeparator)
		guid := fmt.Sprintf("fd_%d_%d", p.deckID, c.WordID)

		if _, err := noteStmt.Exec(noteID, guid, p.modelID, mod, flds, c.Foreign); err != nil {
			return fmt.Errorf("failed to insert note %q: %w", c.Foreign, err)
		}
		// Two cards per note: template 0 and template 1. New-card due is
		// the queue position and has to be unique.
		for ord := 0; ord < 2; ord++ {
			id := noteID + int64(ord) + 1
			if _, err := cardStmt.Exec(id, noteID, p.deckID, ord, mod, noteID+int64(ord)); err != nil {
				return fmt.Errorf("failed to insert card %q: %w", c.Foreign, err)
			}
		}
	}
	return nil
}

func (p *Package) writeZip(dbPath, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	err = p.fillZip(zw, dbPath)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func (p *Package) fillZip(zw *zip.Writer, dbPath string) error {
	if err := copyIntoZip(zw, "collection.anki2", dbPath); err != nil {
		return err
	}

	mapping := make(map[string]string, len(p.media))
	for name, n := range p.media {
		mapping[strconv.Itoa(n)] = name
	}
	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	w, err := zw.Create("media")
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	for n, src := range p.sources {
		if err := copyIntoZip(zw, strconv.Itoa(n), src); err != nil {
			return fmt.Errorf("failed to add media %s: %w", src, err)
		}
	}
	return nil
}

func copyIntoZip(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
