package display

import (
	"fmt"
	"strings"
	"sync"

	"github.com/benmeehan/otp-display/internal/models"
	"github.com/gdamore/tcell/v2"
)

// TerminalRenderer draws on a tcell screen.
type TerminalRenderer struct {
	screen tcell.Screen
	style  tcell.Style
	accent tcell.Style

	closeOnce sync.Once
}

// NewTerminalRenderer wraps an initialized screen.
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{
		screen: screen,
		style:  tcell.StyleDefault,
		accent: tcell.StyleDefault.Bold(true),
	}
}

// OpenTerminal initializes the controlling terminal as a screen.
func OpenTerminal() (*TerminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	screen.HideCursor()
	return NewTerminalRenderer(screen), nil
}

// Close restores the terminal. It is safe to call more than once.
func (r *TerminalRenderer) Close() {
	r.closeOnce.Do(r.screen.Fini)
}

// WatchInterrupt calls interrupt when Ctrl-C is pressed. The screen holds the
// tty in raw mode, so the key never reaches the process as SIGINT. The watcher
// stops when the renderer is closed.
func (r *TerminalRenderer) WatchInterrupt(interrupt func()) {
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			if key, ok := ev.(*tcell.EventKey); ok && key.Key() == tcell.KeyCtrlC {
				interrupt()
			}
		}
	}()
}

func (r *TerminalRenderer) RenderStatus(header, body string) error {
	msg := NewStatusMessage(header, body)
	width, _ := r.screen.Size()

	r.screen.Clear()
	r.drawText(0, 0, msg.Header, r.accent)
	r.drawText(0, 1, strings.Repeat("-", width), r.style)

	bodyStyle := r.style
	if msg.LargeBody() {
		bodyStyle = r.accent
	}
	for i, line := range msg.Lines() {
		r.drawText(0, 2+i, line, bodyStyle)
	}

	r.screen.Show()
	return nil
}

func (r *TerminalRenderer) RenderOTPGrid(layout *models.DisplayLayout) error {
	if layout == nil {
		return nil
	}
	width, _ := r.screen.Size()
	grid := GridFor(layout.TotalItems)

	r.screen.Clear()

	filled := width * layout.ProgressPercentage / 100
	for x := range width {
		ch := ' '
		if x < filled {
			ch = '#'
		}
		r.screen.SetContent(x, 0, ch, nil, r.accent)
	}

	cellWidth := max(width/grid.Columns, 1)
	for i, entry := range layout.Entries {
		col := i % grid.Columns
		row := i / grid.Columns
		if row >= grid.Rows {
			break
		}
		x := col * cellWidth
		y := 2 + row*3
		r.drawText(x, y, entry.AbbreviatedLabel, r.style)
		r.drawText(x, y+1, entry.Code, r.accent)
	}

	r.screen.Show()
	return nil
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
