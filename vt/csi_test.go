package vt

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestSGR(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		expected func() tcell.Style
	}{
		{
			name:     "default",
			input:    []int{},
			expected: func() tcell.Style { return tcell.StyleDefault },
		},
		{
			name:     "bold",
			input:    []int{1},
			expected: func() tcell.Style { return tcell.StyleDefault.Bold(true) },
		},
		{
			name:     "dim",
			input:    []int{2},
			expected: func() tcell.Style { return tcell.StyleDefault.Dim(true) },
		},
		{
			name:  "RGB",
			input: []int{38, 2, 1, 2, 3},
			expected: func() tcell.Style {
				return tcell.StyleDefault.Foreground(tcell.NewRGBColor(1, 2, 3))
			},
		},
		{
			name:  "RGB fg and bg",
			input: []int{38, 2, 1, 2, 3, 48, 2, 1, 2, 3},
			expected: func() tcell.Style {
				c := tcell.NewRGBColor(1, 2, 3)
				return tcell.StyleDefault.Foreground(c).Background(c)
			},
		},
		{
			name:  "256 color",
			input: []int{38, 5, 9},
			expected: func() tcell.Style {
				return tcell.StyleDefault.Foreground(tcell.PaletteColor(9))
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			term := New(80, 24)
			term.sgr(test.input)
			assert.Equal(t, test.expected(), term.active.cursorStyle)
		})
	}
}

func TestCursorMovementCSI(t *testing.T) {
	term := New(80, 24)
	term.active.setPosition(10, 10)
	term.handleCSI('A', []int{3}, false)
	assert.Equal(t, 7, term.active.cursorLine())
	term.handleCSI('C', []int{5}, false)
	assert.Equal(t, 15, term.active.cursorColumn())
	term.handleCSI('H', []int{1, 1}, false)
	assert.Equal(t, 0, term.active.cursorColumn())
	assert.Equal(t, 0, term.active.cursorLine())
}

func TestPrivateModeCursorVisibility(t *testing.T) {
	term := New(80, 24)
	assert.True(t, term.active.modes.ShowCursor)
	term.privateMode([]int{25}, false)
	assert.False(t, term.active.modes.ShowCursor)
	term.privateMode([]int{25}, true)
	assert.True(t, term.active.modes.ShowCursor)
}
