package vt

import "github.com/gdamore/tcell/v2"

// Cell is a single screen position: its rune and the style it was drawn
// with.
type Cell struct {
	Content rune
	Style   tcell.Style
}

// Rune returns the cell's rune, defaulting to a space for the zero value.
func (c Cell) Rune() rune {
	if c.Content == 0 {
		return ' '
	}
	return c.Content
}

// Erase blanks the cell and applies style, matching the terminal semantics
// where erasing a character also erases its attributes.
func (c *Cell) Erase(style tcell.Style) {
	c.Content = ' '
	c.Style = style
}
