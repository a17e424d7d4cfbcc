package vt

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"

	"github.com/nyxterm/sixelterm/sixel"
)

// Terminal is the PTY-facing host: it owns a primary and alt Buffer, the
// byte-level Parser that drives them, and the bridge that hands Sixel DCS
// payloads to a sixel.Decoder. It is deliberately not a full emulator —
// just enough plumbing to give the decoder somewhere real to run.
type Terminal struct {
	mu sync.Mutex

	logger       *log.Logger
	termName     string
	eventHandler func(Event)
	sixelOpts    []sixel.Option
	defaultFG    tcell.Color
	defaultBG    tcell.Color

	primary *Buffer
	alt     *Buffer
	active  *Buffer

	parser *Parser

	cmd *exec.Cmd
	pty *os.File

	sixelDec *sixel.Decoder

	surface Surface
}

// New constructs a Terminal sized to cols x rows.
func New(cols, rows int, opts ...Option) *Terminal {
	t := &Terminal{
		logger:    log.New(io.Discard, "", 0),
		defaultFG: tcell.ColorWhite,
		defaultBG: tcell.ColorBlack,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.primary = newBuffer(cols, rows, 10000, t.defaultFG, t.defaultBG)
	t.alt = newBuffer(cols, rows, 0, t.defaultFG, t.defaultBG)
	t.active = t.primary
	t.parser = newParser(t)
	return t
}

// Start spawns cmd on a pty sized to the terminal and begins pumping bytes
// through the parser in a background goroutine. It returns once the
// command has started.
func (t *Terminal) Start(cmd *exec.Cmd) error {
	if cmd == nil {
		return fmt.Errorf("vt: no command to run")
	}
	t.mu.Lock()
	w, h := t.active.ViewWidth(), t.active.ViewHeight()
	if t.termName == "" {
		t.termName = "xterm-256color"
	}
	t.mu.Unlock()

	cmd.Env = append(os.Environ(), "TERM="+t.termName)
	winsize := pty.Winsize{Cols: uint16(w), Rows: uint16(h)}
	f, err := pty.StartWithAttrs(cmd, &winsize, &syscall.SysProcAttr{Setsid: true, Setctty: true, Ctty: 1})
	if err != nil {
		return fmt.Errorf("vt: start pty: %w", err)
	}
	t.mu.Lock()
	t.cmd = cmd
	t.pty = f
	t.mu.Unlock()

	go t.pump()
	return nil
}

func (t *Terminal) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			t.mu.Lock()
			t.parser.Feed(buf[:n])
			t.mu.Unlock()
			t.postEvent(newRedrawEvent())
		}
		if err != nil {
			t.postEvent(newClosedEvent())
			return
		}
	}
}

// Close kills the child process, if any, and closes the pty.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cmd != nil && t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
		_ = t.cmd.Wait()
	}
	if t.pty != nil {
		_ = t.pty.Close()
	}
}

// Resize updates both buffers' view size and informs the pty.
func (t *Terminal) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.primary.Resize(cols, rows)
	t.alt.Resize(cols, rows)
	if t.pty != nil {
		_ = pty.Setsize(t.pty, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	}
}

func (t *Terminal) postEvent(ev Event) {
	if t.eventHandler != nil {
		t.eventHandler(ev)
	}
}

func (t *Terminal) reset() {
	t.active.eraseDisplay()
	t.active.cursor = Position{}
}

func (t *Terminal) saveCursor() { t.active.savedCursor = t.active.cursor }
func (t *Terminal) restoreCursor() {
	t.active.cursor = t.active.savedCursor
}

// Attach sets the event callback (see WithEventHandler for construction
// time attachment).
func (t *Terminal) Attach(fn func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventHandler = fn
}

// SetSurface attaches the render target used by Draw.
func (t *Terminal) SetSurface(s Surface) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.surface = s
}

// Draw renders the active buffer's visible cells and cursor onto the
// attached Surface. Placed Sixel images are not drawn here; see
// VisibleSixels.
func (t *Terminal) Draw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.surface == nil {
		return
	}
	lines := t.active.GetVisibleLines()
	for row, line := range lines {
		for col := 0; col < t.active.ViewWidth(); col++ {
			cell := Cell{Content: ' ', Style: t.active.blankStyle()}
			if col < line.len() {
				cell = line.Cells[col]
			}
			t.surface.SetContent(col, row, cell.Rune(), nil, cell.Style)
		}
	}
	if t.active.isCursorVisible() {
		t.surface.ShowCursor(t.active.cursorColumn(), t.active.cursorLine())
	} else {
		t.surface.HideCursor()
	}
}

// VisibleSixels exposes the active buffer's placed Sixel images for a
// renderer that draws graphics out-of-band from cell content (e.g. the
// demo host's terminal-graphics protocol writer).
func (t *Terminal) VisibleSixels() []PlacedSixel {
	return t.active.GetVisibleSixels()
}

// WriteInput sends bytes to the child process, e.g. keystrokes.
func (t *Terminal) WriteInput(b []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pty != nil {
		_, _ = t.pty.Write(b)
	}
}

// beginSixel starts a new Sixel DCS decode, called by the parser once it
// sees the 'q' final byte of a DCS introducer.
func (t *Terminal) beginSixel() {
	t.sixelDec = sixel.NewDecoder(t.sixelOpts...)
}

// feedSixel streams bytes from inside a DCS sixel payload into the active
// decode.
func (t *Terminal) feedSixel(data []byte) {
	if t.sixelDec == nil {
		return
	}
	t.sixelDec.ParseFragment(data)
}

// endSixel finalizes the active Sixel decode and anchors the resulting
// image to the cursor's current position.
func (t *Terminal) endSixel() {
	if t.sixelDec == nil {
		return
	}
	img := t.sixelDec.Done()
	t.active.AddSixel(img)
	t.sixelDec = nil
}
