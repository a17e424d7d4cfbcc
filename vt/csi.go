package vt

import "github.com/gdamore/tcell/v2"

// handleCSI dispatches a fully-accumulated CSI sequence by its final byte,
// trimmed to the handful of sequences this host needs: cursor
// movement/positioning, erase, SGR, and the DEC private modes that affect
// cursor visibility and paste bracketing.
func (t *Terminal) handleCSI(final byte, params []int, private bool) {
	p := func(i, def int) int {
		if i >= len(params) || params[i] == 0 {
			return def
		}
		return params[i]
	}

	switch final {
	case 'A':
		t.active.movePosition(0, -p(0, 1))
	case 'B':
		t.active.movePosition(0, p(0, 1))
	case 'C':
		t.active.movePosition(p(0, 1), 0)
	case 'D':
		t.active.movePosition(-p(0, 1), 0)
	case 'H', 'f':
		t.active.setPosition(p(1, 1)-1, p(0, 1)-1)
	case 'J':
		t.handleErase(p(0, 0))
	case 'K':
		t.active.eraseLine()
	case 'm':
		t.sgr(params)
	case 'h', 'l':
		if private {
			t.privateMode(params, final == 'h')
		}
	}
}

func (t *Terminal) handleErase(mode int) {
	switch mode {
	case 2, 3:
		t.active.eraseDisplay()
	default:
		t.active.eraseDisplay()
	}
}

func (t *Terminal) privateMode(params []int, set bool) {
	for _, mode := range params {
		switch mode {
		case 25:
			t.active.modes.ShowCursor = set
		case 2004:
			t.active.modes.BracketedPasteMode = set
		case 1000:
			t.active.modes.MouseButtons = set
		case 1002:
			t.active.modes.MouseDrag = set
		case 1003:
			t.active.modes.MouseMotion = set
		case 1006:
			t.active.modes.MouseSGR = set
		case 1049, 47, 1047:
			if set {
				t.active = t.alt
			} else {
				t.active = t.primary
			}
		}
	}
}

// handleOSC handles OSC 0/2 (set window title); any other OSC command is
// absorbed without effect.
func (t *Terminal) handleOSC(payload []byte) {
	if len(payload) < 2 || payload[1] != ';' {
		return
	}
	switch payload[0] {
	case '0', '2':
		t.postEvent(newTitleEvent(string(payload[2:])))
	}
}

// sgr applies a Select Graphic Rendition parameter list to the active
// buffer's cursor style: bold, dim, underline, reverse, the 8/16-color
// and 256-color palette forms, and 24-bit RGB via params 38/48.
func (t *Terminal) sgr(params []int) {
	style := t.active.cursorStyle
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case 0:
			style = tcell.StyleDefault
		case 1:
			style = style.Bold(true)
		case 2:
			style = style.Dim(true)
		case 4:
			style = style.Underline(true)
		case 7:
			style = style.Reverse(true)
		case 22:
			style = style.Bold(false).Dim(false)
		case 24:
			style = style.Underline(false)
		case 27:
			style = style.Reverse(false)
		case 38, 48:
			var consumed int
			style, consumed = applyExtendedColor(style, params[i] == 38, params[i+1:])
			i += consumed
		default:
			switch {
			case params[i] >= 30 && params[i] <= 37:
				style = style.Foreground(tcell.PaletteColor(params[i] - 30))
			case params[i] >= 40 && params[i] <= 47:
				style = style.Background(tcell.PaletteColor(params[i] - 40))
			case params[i] >= 90 && params[i] <= 97:
				style = style.Foreground(tcell.PaletteColor(params[i] - 90 + 8))
			case params[i] >= 100 && params[i] <= 107:
				style = style.Background(tcell.PaletteColor(params[i] - 100 + 8))
			case params[i] == 39:
				style = style.Foreground(tcell.ColorDefault)
			case params[i] == 49:
				style = style.Background(tcell.ColorDefault)
			}
		}
	}
	t.active.cursorStyle = style
}

// applyExtendedColor handles the 38/48 "5;n" (256-color) and "2[;cs];r;g;b"
// (24-bit) forms. It returns the updated style and how many further
// params it consumed.
func applyExtendedColor(style tcell.Style, foreground bool, rest []int) (tcell.Style, int) {
	if len(rest) == 0 {
		return style, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return style, len(rest)
		}
		color := tcell.PaletteColor(rest[1])
		if foreground {
			return style.Foreground(color), 2
		}
		return style.Background(color), 2
	case 2:
		// optional colorspace id makes this either "2;r;g;b" (4 values
		// total incl. the leading 2) or "2;cs;r;g;b" (5 values); the
		// colorspace form is only recognized when exactly 5 values remain
		idx := 1
		if len(rest) == 5 {
			idx = 2
		}
		if len(rest) < idx+3 {
			return style, len(rest)
		}
		r, g, b := rest[idx], rest[idx+1], rest[idx+2]
		color := tcell.NewRGBColor(int32(r), int32(g), int32(b))
		if foreground {
			return style.Foreground(color), idx + 3
		}
		return style.Background(color), idx + 3
	default:
		return style, len(rest)
	}
}
