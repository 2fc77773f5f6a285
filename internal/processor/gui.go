package processor

import (
	"context"

	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/flashdeck/internal/audio"
	"codeberg.org/snonux/flashdeck/internal/gui"
	"codeberg.org/snonux/flashdeck/internal/logging"
)

// RunGUI launches the desktop client and blocks until it is closed.
func (p *Processor) RunGUI(ctx context.Context) error {
	logs := gui.NewLogBuffer(1000)
	log := logging.Tee(p.log, logs, zapcore.InfoLevel)

	// Rebuild the collaborators so their logs reach the viewer too.
	gp, err := New(p.cfg, log)
	if err != nil {
		return err
	}
	if cp, ok := gp.player.(*audio.CommandPlayer); ok {
		defer cp.Stop()
	}

	app := gui.New(ctx, gui.Config{
		Store:      gp.store,
		Translator: gp.translator,
		Speech:     gp.speech,
		Player:     gp.player,
		Log:        log,
		Logs:       logs,
	})
	app.Run()
	return nil
}
