package vt

import "github.com/gdamore/tcell/v2"

// Surface is the render target Terminal.Draw writes cells into — the
// minimal slice of tcell.Screen this package needs, kept as its own
// interface so callers can substitute a test double.
type Surface interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	ShowCursor(x, y int)
	HideCursor()
	Size() (int, int)
}
