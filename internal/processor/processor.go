package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/flashdeck/internal/audio"
	"codeberg.org/snonux/flashdeck/internal/cli"
	"codeberg.org/snonux/flashdeck/internal/logging"
	"codeberg.org/snonux/flashdeck/internal/session"
	"codeberg.org/snonux/flashdeck/internal/store"
	"codeberg.org/snonux/flashdeck/internal/translation"
)

// Config is everything the processor reads from viper.
type Config struct {
	Store     store.Config
	Translate translation.Config
	Speech    audio.Config
	// Player overrides the detected audio player command.
	Player string

	LogLevel    string
	Development bool
}

// LoadConfig reads the bound flags, the config file and the environment.
func LoadConfig() Config {
	speech := audio.DefaultProviderConfig()
	speech.Provider = viper.GetString("speech.provider")
	speech.Fallback = viper.GetString("speech.fallback")
	speech.OpenAIKey = cli.GetOpenAIKey()
	if m := viper.GetString("speech.openai_model"); m != "" {
		speech.OpenAIModel = m
	}
	if v := viper.GetString("speech.openai_voice"); v != "" {
		speech.OpenAIVoice = v
	}
	if s := viper.GetFloat64("speech.openai_speed"); s > 0 {
		speech.OpenAISpeed = s
	}

	tr := translation.DefaultConfig()
	tr.Provider = viper.GetString("translate.provider")
	tr.OpenAIKey = cli.GetOpenAIKey()
	if m := viper.GetString("translate.openai_model"); m != "" {
		tr.OpenAIModel = m
	}

	return Config{
		Store: store.Config{
			BaseURL:         viper.GetString("store.url"),
			Timeout:         viper.GetDuration("store.timeout"),
			BreakerFailures: viper.GetUint32("store.breaker_failures"),
			BreakerTimeout:  viper.GetDuration("store.breaker_timeout"),
		},
		Translate:   tr,
		Speech:      *speech,
		Player:      viper.GetString("audio.player"),
		LogLevel:    viper.GetString("log.level"),
		Development: viper.GetBool("log.development"),
	}
}

// Processor implements every command on top of the session controllers.
type Processor struct {
	cfg Config
	log *zap.Logger

	store      store.Store
	translator translation.Translator
	speech     audio.Provider
	player     audio.Player

	in  io.Reader
	out io.Writer
}

var _ cli.Runner = (*Processor)(nil)

// NewProcessor creates a processor from the viper configuration.
func NewProcessor() (*Processor, error) {
	cfg := LoadConfig()
	log, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return nil, err
	}
	return New(cfg, log)
}

// New wires the store client, providers and player for cfg.
func New(cfg Config, log *zap.Logger) (*Processor, error) {
	if log == nil {
		log = zap.NewNop()
	}

	client, err := store.New(cfg.Store, log)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		cfg:   cfg,
		log:   log,
		store: client,
		in:    os.Stdin,
		out:   os.Stdout,
	}
	if err := p.buildProviders(); err != nil {
		return nil, err
	}
	p.player = audio.NewCommandPlayer(cfg.Player, log)

	log.Debug("Processor ready",
		zap.String("store", client.BaseURL()),
		zap.String("translator", p.translator.Name()),
		zap.String("speech", p.speech.Name()))
	return p, nil
}

func (p *Processor) buildProviders() error {
	tr, err := translation.New(p.cfg.Translate, p.store, p.log)
	if err != nil {
		return fmt.Errorf("failed to set up translation: %w", err)
	}
	speech, err := audio.NewProvider(&p.cfg.Speech, p.store, p.log)
	if err != nil {
		return fmt.Errorf("failed to set up pronunciation: %w", err)
	}
	p.translator = tr
	p.speech = speech
	return nil
}

// SetIO replaces stdin and stdout, for tests and embedding.
func (p *Processor) SetIO(in io.Reader, out io.Writer) {
	p.in = in
	p.out = out
}

// SetPlayer replaces the audio player.
func (p *Processor) SetPlayer(player audio.Player) {
	p.player = player
}

func (p *Processor) newList() *session.List {
	return session.NewList(p.store, session.LogNotifier{Log: p.log}, p.log)
}

func (p *Processor) newDetail(log *zap.Logger) *session.Detail {
	return session.NewDetail(session.DetailDeps{
		Store:      p.store,
		Translator: p.translator,
		Speech:     p.speech,
		Player:     p.player,
		Notifier:   session.LogNotifier{Log: log},
		Log:        log,
	})
}

// waitForPlayback blocks until the player has finished, when it can tell.
func (p *Processor) waitForPlayback(ctx context.Context) error {
	w, ok := p.player.(interface{ Wait(context.Context) error })
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	return w.Wait(ctx)
}
