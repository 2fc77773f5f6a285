package gui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogBuffer keeps the newest log lines. It is the io.Writer behind the
// zap tee, so it must not touch fyne directly.
type LogBuffer struct {
	mu          sync.Mutex
	messages    []string
	maxMessages int
	partial     string
	listeners   []func()
	now         func() time.Time
}

// NewLogBuffer keeps at most limit lines.
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = 1000
	}
	return &LogBuffer{maxMessages: limit, now: time.Now}
}

// Write implements io.Writer. Incomplete trailing lines are held until
// their newline arrives.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	text := b.partial + string(p)
	lines := strings.Split(text, "\n")
	b.partial = lines[len(lines)-1]

	timestamp := b.now().Format("15:04:05")
	for _, line := range lines[:len(lines)-1] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		// Newest first
		b.messages = append([]string{fmt.Sprintf("[%s] %s", timestamp, line)}, b.messages...)
	}
	if len(b.messages) > b.maxMessages {
		b.messages = b.messages[:b.maxMessages]
	}
	listeners := append([]func(){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer.
func (b *LogBuffer) Sync() error { return nil }

// Lines returns the buffered lines, newest first.
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

// Clear drops all lines.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	b.messages = nil
	listeners := append([]func(){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnChange registers fn to run after every write. fn runs on the writing
// goroutine.
func (b *LogBuffer) OnChange(fn func()) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// LogViewer is a widget that displays log messages
type LogViewer struct {
	widget.BaseWidget

	buffer     *LogBuffer
	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
}

// NewLogViewer creates a new log viewer widget over buf.
func NewLogViewer(buf *LogBuffer) *LogViewer {
	v := &LogViewer{buffer: buf}

	// Create log entry (read-only multiline)
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(600, 360))

	clearButton := widget.NewButton("Clear", buf.Clear)
	v.container = container.NewBorder(
		container.NewHBox(widget.NewLabel("Log messages (newest first):"), clearButton),
		nil,
		nil,
		nil,
		v.scrollView,
	)

	buf.OnChange(func() { fyne.Do(v.refreshText) })
	v.refreshText()

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

func (v *LogViewer) refreshText() {
	v.logEntry.SetText(strings.Join(v.buffer.Lines(), "\n"))
	// Keep scroll at top to show newest messages
	v.scrollView.Offset = fyne.NewPos(0, 0)
	v.scrollView.Refresh()
}
