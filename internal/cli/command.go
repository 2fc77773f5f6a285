package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/flashdeck/internal"
)

// Runner executes the commands. It is built lazily, after configuration
// has been read.
type Runner interface {
	ListDecks(ctx context.Context) error
	CreateDeck(ctx context.Context, name, language string) error
	DeleteDeck(ctx context.Context, deckID int64, yes bool) error
	ShowDeck(ctx context.Context, deckID int64) error
	QuickAdd(ctx context.Context, deckID int64, text string) error
	ManualAdd(ctx context.Context, deckID int64, foreign, translation string) error
	EditWord(ctx context.Context, deckID, wordID int64, edit WordEdit) error
	DeleteWord(ctx context.Context, deckID, wordID int64) error
	Say(ctx context.Context, text string) error
	Study(ctx context.Context, deckID int64) error
	Import(ctx context.Context, deckID int64, file string) error
	Export(ctx context.Context, deckID int64, opts ExportOptions) error
	RunGUI(ctx context.Context) error
}

// RunnerFactory builds the Runner once flags and config are known.
type RunnerFactory func() (Runner, error)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	with := func(fn func(ctx context.Context, r Runner, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			return fn(cmd.Context(), r, args)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "flashdeck",
		Short: "Language flashcards backed by a deck service",
		Long: `flashdeck studies vocabulary decks stored on a remote deck service.

Words are added by typing them in either language: the translation service
detects which side is the foreign word. Cards flip between the foreign word
and its translation.

Examples:
  flashdeck                          # Launch the GUI (default)
  flashdeck decks                    # List decks
  flashdeck decks create "Spanish Basics" --language es
  flashdeck add 1 casa               # Quick add, translated and oriented
  flashdeck add 1 --foreign perro --translation dog
  flashdeck study 1                  # Flashcards in the terminal
  flashdeck export 1 -o spanish.apkg --with-audio`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: with(func(ctx context.Context, r Runner, _ []string) error {
			return r.RunGUI(ctx)
		}),
	}

	setupFlags(rootCmd, flags)

	decksCmd := &cobra.Command{
		Use:   "decks",
		Short: "List decks",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, r Runner, _ []string) error {
			return r.ListDecks(ctx)
		}),
	}

	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a deck",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			return r.CreateDeck(ctx, args[0], flags.Language)
		}),
	}
	createCmd.Flags().StringVarP(&flags.Language, "language", "l", "", "Target language code or name (es, fr, de, it, pt, en)")
	_ = createCmd.MarkFlagRequired("language")

	deleteCmd := &cobra.Command{
		Use:   "delete DECK",
		Short: "Delete a deck after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			id, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			return r.DeleteDeck(ctx, id, flags.Yes)
		}),
	}
	deleteCmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Do not ask for confirmation")

	decksCmd.AddCommand(createCmd, deleteCmd)

	showCmd := &cobra.Command{
		Use:   "show DECK",
		Short: "Show a deck and its words",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			id, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			return r.ShowDeck(ctx, id)
		}),
	}

	addCmd := &cobra.Command{
		Use:   "add DECK [TEXT...]",
		Short: "Add a word by quick add or with both sides given",
		Args:  cobra.MinimumNArgs(1),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			id, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			if flags.Foreign != "" || flags.Translation != "" {
				return r.ManualAdd(ctx, id, flags.Foreign, flags.Translation)
			}
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("nothing to add: give TEXT or --foreign and --translation")
			}
			return r.QuickAdd(ctx, id, text)
		}),
	}
	addCmd.Flags().StringVar(&flags.Foreign, "foreign", "", "Foreign word (manual add)")
	addCmd.Flags().StringVar(&flags.Translation, "translation", "", "Translation (manual add)")

	editCmd := &cobra.Command{
		Use:   "edit DECK WORD",
		Short: "Edit a word",
		Args:  cobra.ExactArgs(2),
	}
	editCmd.Flags().StringVar(&flags.Text, "text", "", "New foreign word")
	editCmd.Flags().StringVar(&flags.Translation, "translation", "", "New translation")
	editCmd.Flags().StringVar(&flags.Meaning, "meaning", "", "New meaning")
	editCmd.RunE = with(func(ctx context.Context, r Runner, args []string) error {
		deckID, wordID, err := parseDeckAndWord(args)
		if err != nil {
			return err
		}
		edit := wordEditFromFlags(editCmd.Flags(), flags)
		if edit.Empty() {
			return fmt.Errorf("nothing to change: give --text, --translation or --meaning")
		}
		return r.EditWord(ctx, deckID, wordID, edit)
	})

	rmCmd := &cobra.Command{
		Use:   "rm DECK WORD",
		Short: "Delete a word",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			deckID, wordID, err := parseDeckAndWord(args)
			if err != nil {
				return err
			}
			return r.DeleteWord(ctx, deckID, wordID)
		}),
	}

	sayCmd := &cobra.Command{
		Use:   "say TEXT...",
		Short: "Pronounce text",
		Args:  cobra.MinimumNArgs(1),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			return r.Say(ctx, strings.Join(args, " "))
		}),
	}

	studyCmd := &cobra.Command{
		Use:   "study DECK",
		Short: "Study a deck in the terminal",
		Long: `Study a deck in the terminal. Commands, each followed by Enter:
  (empty) or f   flip the card
  n              next card
  p              previous card
  s              pronounce the foreign word
  q              quit`,
		Args: cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			id, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			return r.Study(ctx, id)
		}),
	}

	importCmd := &cobra.Command{
		Use:   "import DECK FILE",
		Short: "Add every word listed in a file",
		Long: `Add every word listed in a file, one per line:
  casa            quick add (translated and oriented)
  = house         quick add
  perro = dog     added as typed
  # comment       ignored`,
		Args: cobra.ExactArgs(2),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			id, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			return r.Import(ctx, id, args[1])
		}),
	}

	exportCmd := &cobra.Command{
		Use:   "export DECK",
		Short: "Export a deck as an Anki package",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, r Runner, args []string) error {
			id, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			return r.Export(ctx, id, ExportOptions{Output: flags.Output, CSV: flags.CSV, WithAudio: flags.WithAudio})
		}),
	}
	exportCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file (default: <deck name>.apkg or .csv)")
	exportCmd.Flags().BoolVar(&flags.CSV, "csv", false, "Write CSV instead of APKG")
	exportCmd.Flags().BoolVar(&flags.WithAudio, "with-audio", false, "Synthesize pronunciation audio for every card")

	rootCmd.AddCommand(decksCmd, showCmd, addCmd, editCmd, rmCmd, sayCmd, studyCmd, importCmd, exportCmd)
	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.flashdeck.yaml)")
	pf.StringVar(&flags.StoreURL, "store-url", flags.StoreURL, "Base URL of the deck service")
	pf.DurationVar(&flags.StoreTimeout, "store-timeout", flags.StoreTimeout, "Timeout for one request to the deck service")
	pf.StringVar(&flags.TranslateProvider, "translate-provider", flags.TranslateProvider, "Translation provider: store or openai")
	pf.StringVar(&flags.SpeechProvider, "speech-provider", flags.SpeechProvider, "Pronunciation provider: store or openai")
	pf.StringVar(&flags.SpeechFallback, "speech-fallback", "", "Pronunciation provider used when the first one fails")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.StringVar(&flags.AudioPlayer, "player", "", "Audio player command (default: detected per platform)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.Development, "debug", false, "Human-readable debug logging")

	// Bind flags to viper
	bindFlagsToViper(pf)
}

func bindFlagsToViper(pf *pflag.FlagSet) {
	viper.BindPFlag("store.url", pf.Lookup("store-url"))
	viper.BindPFlag("store.timeout", pf.Lookup("store-timeout"))
	viper.BindPFlag("translate.provider", pf.Lookup("translate-provider"))
	viper.BindPFlag("speech.provider", pf.Lookup("speech-provider"))
	viper.BindPFlag("speech.fallback", pf.Lookup("speech-fallback"))
	viper.BindPFlag("speech.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("audio.player", pf.Lookup("player"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.development", pf.Lookup("debug"))
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

func parseDeckAndWord(args []string) (int64, int64, error) {
	deckID, err := parseID("deck", args[0])
	if err != nil {
		return 0, 0, err
	}
	wordID, err := parseID("word", args[1])
	if err != nil {
		return 0, 0, err
	}
	return deckID, wordID, nil
}

// wordEditFromFlags keeps only the fields given on the command line, so an
// explicit empty value still clears a field.
func wordEditFromFlags(fs *pflag.FlagSet, flags *Flags) WordEdit {
	var e WordEdit
	if fs.Changed("text") {
		e.Text = &flags.Text
	}
	if fs.Changed("translation") {
		e.Translation = &flags.Translation
	}
	if fs.Changed("meaning") {
		e.Meaning = &flags.Meaning
	}
	return e
}

// Execute runs the command tree and prints a failure the way every command
// reports it.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
