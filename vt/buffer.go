package vt

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/nyxterm/sixelterm/sixel"
)

// Position is a raw (line, column) cursor location. Line grows without
// bound as the scrollback accumulates; ViewHeight's worth of the tail is
// what's actually visible.
type Position struct {
	Line, Col int
}

// PlacedSixel anchors a decoded Sixel image to the raw line its DCS
// sequence was received on, holding the already-decoded image instead of
// a raw byte blob so render time never touches the sixel parser.
type PlacedSixel struct {
	Line, Col int
	Image     *sixel.Image
}

// Buffer is a scrollback grid of cells plus a cursor and a list of placed
// Sixel images. It is written to by the parser goroutine and read by the
// render goroutine, so the sixel list is guarded by its own mutex.
type Buffer struct {
	lines    []Line
	viewW    int
	viewH    int
	maxLines int

	cursor      Position
	savedCursor Position
	cursorStyle tcell.Style
	cursorShape tcell.CursorStyle
	modes       Modes

	defaultFG, defaultBG tcell.Color

	sixelMu sync.Mutex
	sixels  []PlacedSixel
}

func newBuffer(width, height, maxLines int, fg, bg tcell.Color) *Buffer {
	return &Buffer{
		lines:     []Line{newLine()},
		viewW:     width,
		viewH:     height,
		maxLines:  maxLines,
		modes:     defaultModes(),
		defaultFG: fg,
		defaultBG: bg,
	}
}

// Width returns the total scrollback width (equal to ViewWidth: this
// buffer does not reflow on resize).
func (b *Buffer) Width() int { return b.viewW }

// ViewWidth returns the number of visible columns.
func (b *Buffer) ViewWidth() int { return b.viewW }

// ViewHeight returns the number of visible rows.
func (b *Buffer) ViewHeight() int { return b.viewH }

// Resize changes the view dimensions, shrinking any already-allocated
// line back to the new width (this buffer does not reflow text onto
// narrower lines, matching the "does not reflow" note on Width above).
func (b *Buffer) Resize(cols, rows int) {
	b.viewW, b.viewH = cols, rows
	for i := range b.lines {
		b.lines[i].shrink(cols)
	}
}

// Height returns the total number of scrollback rows.
func (b *Buffer) Height() int { return len(b.lines) }

func (b *Buffer) cursorColumn() int { return b.cursor.Col }

func (b *Buffer) cursorLine() int { return b.convertRawLineToViewLine(b.cursor.Line) }

func (b *Buffer) convertRawLineToViewLine(raw int) int {
	offset := len(b.lines) - b.viewH
	if offset < 0 {
		offset = 0
	}
	return raw - offset
}

func (b *Buffer) convertViewLineToRawLine(view int) int {
	offset := len(b.lines) - b.viewH
	if offset < 0 {
		offset = 0
	}
	return view + offset
}

func (b *Buffer) ensureLine(raw int) *Line {
	for raw >= len(b.lines) {
		b.lines = append(b.lines, newLine())
	}
	return &b.lines[raw]
}

func (b *Buffer) currentLine() *Line {
	return b.ensureLine(b.cursor.Line)
}

// write places r at the cursor, wrapping onto a new line first if needed
// and the cursor is already at the right margin.
func (b *Buffer) write(r rune, width int) {
	if width < 1 {
		width = 1
	}
	if b.cursor.Col+width > b.viewW {
		if b.modes.AutoWrap {
			line := b.currentLine()
			line.ensure(b.viewW)
			b.cursor.Col = 0
			b.cursor.Line++
			b.currentLine().Wrapped = true
		} else {
			b.cursor.Col = b.viewW - width
		}
	}
	line := b.currentLine()
	line.ensure(b.cursor.Col + width)
	line.Cells[b.cursor.Col] = Cell{Content: r, Style: b.cursorStyle}
	for i := 1; i < width; i++ {
		line.Cells[b.cursor.Col+i] = Cell{Content: ' ', Style: b.cursorStyle}
	}
	b.cursor.Col += width
	b.trimScrollback()
}

func (b *Buffer) trimScrollback() {
	if b.maxLines <= 0 || len(b.lines) <= b.maxLines {
		return
	}
	drop := len(b.lines) - b.maxLines
	b.lines = b.lines[drop:]
	b.cursor.Line -= drop
	if b.cursor.Line < 0 {
		b.cursor.Line = 0
	}
}

func (b *Buffer) carriageReturn() {
	b.cursor.Col = 0
}

func (b *Buffer) newLine() {
	b.cursor.Col = 0
	b.cursor.Line++
	b.currentLine()
	b.trimScrollback()
}

func (b *Buffer) setPosition(col, line int) {
	if col < 0 {
		col = 0
	}
	if col >= b.viewW {
		col = b.viewW - 1
	}
	if line < 0 {
		line = 0
	}
	if line >= b.viewH {
		line = b.viewH - 1
	}
	b.cursor.Col = col
	b.cursor.Line = b.convertViewLineToRawLine(line)
}

func (b *Buffer) movePosition(dCol, dLine int) {
	col := b.cursorColumn() + dCol
	line := b.cursorLine() + dLine
	b.setPosition(col, line)
}

// getCell returns the cell at the given view-relative column/line, or nil
// if either is out of range.
func (b *Buffer) getCell(col, viewLine int) *Cell {
	if col < 0 || col >= b.viewW || viewLine < 0 || viewLine >= b.viewH {
		return nil
	}
	raw := b.convertViewLineToRawLine(viewLine)
	if raw < 0 || raw >= len(b.lines) {
		return nil
	}
	line := &b.lines[raw]
	if col >= line.len() {
		return nil
	}
	return &line.Cells[col]
}

// GetVisibleLines returns the tail of the scrollback currently in view.
func (b *Buffer) GetVisibleLines() []Line {
	start := len(b.lines) - b.viewH
	if start < 0 {
		start = 0
	}
	return b.lines[start:]
}

func (b *Buffer) blankStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(b.defaultFG).Background(b.defaultBG)
}

// eraseDisplay clears every visible cell, matching DECSED "erase all".
func (b *Buffer) eraseDisplay() {
	style := b.blankStyle()
	for i := 0; i < b.viewH; i++ {
		raw := b.convertViewLineToRawLine(i)
		line := b.ensureLine(raw)
		line.ensure(b.viewW)
		for c := range line.Cells {
			line.Cells[c].Erase(style)
		}
	}
}

// eraseLine clears the cursor's current line.
func (b *Buffer) eraseLine() {
	line := b.currentLine()
	line.ensure(b.viewW)
	style := b.blankStyle()
	for c := range line.Cells {
		line.Cells[c].Erase(style)
	}
}

func (b *Buffer) isCursorVisible() bool { return b.modes.ShowCursor }

// AddSixel anchors a decoded Sixel image at the cursor's current raw
// position, the buffer-side half of the DCS->sixel bridge.
func (b *Buffer) AddSixel(img *sixel.Image) {
	b.sixelMu.Lock()
	defer b.sixelMu.Unlock()
	b.sixels = append(b.sixels, PlacedSixel{Line: b.cursor.Line, Col: b.cursor.Col, Image: img})
}

// GetVisibleSixels returns the placed images anchored to a currently
// visible raw line, each with the view-relative line they land on.
func (b *Buffer) GetVisibleSixels() []PlacedSixel {
	b.sixelMu.Lock()
	defer b.sixelMu.Unlock()
	start := len(b.lines) - b.viewH
	if start < 0 {
		start = 0
	}
	visible := make([]PlacedSixel, 0, len(b.sixels))
	for _, s := range b.sixels {
		if s.Line < start {
			continue
		}
		visible = append(visible, PlacedSixel{Line: s.Line - start, Col: s.Col, Image: s.Image})
	}
	return visible
}
