package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoPlayer means no usable audio player command was found.
var ErrNoPlayer = errors.New("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")

// Player plays an encoded audio payload.
type Player interface {
	Play(ctx context.Context, data []byte) error
}

// playerCommand is one candidate external player.
type playerCommand struct {
	name    string
	args    []string
	formats []Format // nil means any
	// detached launchers return before playback ends, so the file must
	// outlive the command.
	detached bool
}

var linuxPlayers = []playerCommand{
	// mpg123 handles MP3 best but nothing else
	{name: "mpg123", args: []string{"-q"}, formats: []Format{FormatMP3}},
	{name: "ffplay", args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{name: "play", args: []string{"-q"}},
	{name: "paplay"},
	{name: "aplay", args: []string{"-q"}, formats: []Format{FormatWAV}},
}

// CommandPlayer writes the payload to a temp file and hands it to a
// platform player command. Starting a new playback stops the previous one.
type CommandPlayer struct {
	command string
	goos    string
	tempDir string
	grace   time.Duration
	log     *zap.Logger

	lookPath func(string) (string, error)

	mu      sync.Mutex
	current *exec.Cmd
	// finished is closed when the current playback has exited.
	finished chan struct{}
	// leftovers are files handed to detached launchers, removed on the
	// next Play or Stop.
	leftovers []string
}

// NewCommandPlayer creates a player. command overrides auto detection,
// e.g. "mpv --no-video".
func NewCommandPlayer(command string, log *zap.Logger) *CommandPlayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandPlayer{
		command:  strings.TrimSpace(command),
		goos:     runtime.GOOS,
		grace:    250 * time.Millisecond,
		log:      log.Named("player"),
		lookPath: exec.LookPath,
	}
}

// Play starts playback and returns once the player is running. A player
// that fails within the startup grace period is reported as an error.
func (p *CommandPlayer) Play(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	format, err := DetectFormat(data)
	if err != nil {
		return fmt.Errorf("cannot play audio: %w", err)
	}

	launcher, err := p.resolve(format)
	if err != nil {
		return err
	}
	name := launcher.name
	p.sweep()

	file, err := os.CreateTemp(p.tempDir, "flashdeck-*."+string(format))
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	path := file.Name()
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	args := append(append([]string(nil), launcher.args...), path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	p.mu.Lock()
	if p.current != nil && p.current.Process != nil {
		_ = p.current.Process.Kill()
	}
	p.current = cmd
	finished := make(chan struct{})
	p.finished = finished
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		p.release(path, launcher.detached)

		p.mu.Lock()
		if p.current == cmd {
			p.current = nil
		}
		p.mu.Unlock()
		close(finished)

		done <- err
	}()

	p.log.Debug("playback started", zap.String("player", name), zap.String("format", string(format)))

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	case <-time.After(p.grace):
		return nil
	}
}

// Wait blocks until the latest playback has exited or ctx ends. Commands
// that exit right after playing call it so the player is not orphaned.
func (p *CommandPlayer) Wait(ctx context.Context) error {
	p.mu.Lock()
	finished := p.finished
	p.mu.Unlock()
	if finished == nil {
		return nil
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop kills the running playback, if any, and removes leftover files.
func (p *CommandPlayer) Stop() {
	p.mu.Lock()
	if p.current != nil && p.current.Process != nil {
		_ = p.current.Process.Kill()
		p.current = nil
	}
	p.mu.Unlock()
	p.sweep()
}

// release disposes of the audio file once its command has exited.
func (p *CommandPlayer) release(path string, detached bool) {
	if !detached {
		os.Remove(path)
		return
	}
	p.mu.Lock()
	p.leftovers = append(p.leftovers, path)
	p.mu.Unlock()
}

// sweep removes leftover files. A file still held open by a player stays
// queued for the next sweep.
func (p *CommandPlayer) sweep() {
	p.mu.Lock()
	paths := p.leftovers
	p.leftovers = nil
	p.mu.Unlock()

	var kept []string
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.log.Debug("audio file still in use", zap.String("path", path), zap.Error(err))
			kept = append(kept, path)
		}
	}
	if len(kept) == 0 {
		return
	}
	p.mu.Lock()
	p.leftovers = append(p.leftovers, kept...)
	p.mu.Unlock()
}

// resolve picks the player command for the platform and format.
func (p *CommandPlayer) resolve(format Format) (playerCommand, error) {
	if p.command != "" {
		fields := strings.Fields(p.command)
		if _, err := p.lookPath(fields[0]); err != nil {
			return playerCommand{}, fmt.Errorf("configured audio player %q: %w", fields[0], err)
		}
		return playerCommand{name: fields[0], args: fields[1:]}, nil
	}

	switch p.goos {
	case "darwin":
		return playerCommand{name: "afplay"}, nil
	case "windows":
		// start returns as soon as the associated player is launched.
		// The empty argument is the window title start expects first.
		return playerCommand{name: "cmd", args: []string{"/c", "start", "", "/min"}, detached: true}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, candidate := range linuxPlayers {
			if !candidate.supports(format) {
				continue
			}
			if _, err := p.lookPath(candidate.name); err == nil {
				return candidate, nil
			}
		}
		return playerCommand{}, ErrNoPlayer
	default:
		return playerCommand{}, fmt.Errorf("unsupported platform %s: %w", p.goos, ErrNoPlayer)
	}
}

func (c playerCommand) supports(format Format) bool {
	if c.formats == nil {
		return true
	}
	for _, f := range c.formats {
		if f == format {
			return true
		}
	}
	return false
}
