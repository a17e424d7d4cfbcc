package vt

import "strings"

// Line is one row of the scrollback: its cells plus whether it was wrapped
// onto from the previous row rather than started by a newline.
type Line struct {
	Wrapped bool
	Cells   []Cell
}

func newLine() Line {
	return Line{Cells: []Cell{}}
}

func (l *Line) len() int { return len(l.Cells) }

func (l *Line) String() string {
	runes := make([]rune, 0, len(l.Cells))
	for _, c := range l.Cells {
		runes = append(runes, c.Rune())
	}
	return strings.TrimRight(string(runes), "\x00 ")
}

func (l *Line) ensure(width int) {
	if l.len() >= width {
		return
	}
	grown := make([]Cell, width)
	copy(grown, l.Cells)
	l.Cells = grown
}

func (l *Line) shrink(width int) {
	if l.len() <= width {
		return
	}
	l.Cells = l.Cells[:width]
}
