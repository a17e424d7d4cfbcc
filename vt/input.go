package vt

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// xtermKeyCodes maps the handful of named keys this host encodes to their
// plain (no-modifier) xterm escape sequences.
var xtermKeyCodes = map[tcell.Key]string{
	tcell.KeyBackspace: "\x7f",
	tcell.KeyBackspace2: "\x7f",
	tcell.KeyEnter:     "\r",
	tcell.KeyTab:       "\t",
	tcell.KeyEscape:    "\x1b",
	tcell.KeyUp:        "\x1b[A",
	tcell.KeyDown:      "\x1b[B",
	tcell.KeyRight:     "\x1b[C",
	tcell.KeyLeft:      "\x1b[D",
	tcell.KeyHome:      "\x1b[H",
	tcell.KeyEnd:       "\x1b[F",
	tcell.KeyInsert:    "\x1b[2~",
	tcell.KeyDelete:    "\x1b[3~",
	tcell.KeyPgUp:      "\x1b[5~",
	tcell.KeyPgDn:      "\x1b[6~",
	tcell.KeyF1:        "\x1bOP",
	tcell.KeyF2:        "\x1bOQ",
	tcell.KeyF3:        "\x1bOR",
	tcell.KeyF4:        "\x1bOS",
	tcell.KeyF5:        "\x1b[15~",
	tcell.KeyF6:        "\x1b[17~",
	tcell.KeyF7:        "\x1b[18~",
	tcell.KeyF8:        "\x1b[19~",
	tcell.KeyF9:        "\x1b[20~",
	tcell.KeyF10:       "\x1b[21~",
	tcell.KeyF11:       "\x1b[23~",
	tcell.KeyF12:       "\x1b[24~",
}

// xtermModifierFinal covers the arrow/home/end family under Shift/Alt/
// Ctrl, which xterm encodes as "\x1b[1;<mod>X" rather than a bare final
// byte. The modifier parameter follows xterm's convention: Shift=2,
// Alt=3, Shift+Alt=4, Ctrl=5, Shift+Ctrl=6, Alt+Ctrl=7, all three=8.
var xtermModifierFinal = map[tcell.Key]byte{
	tcell.KeyUp:    'A',
	tcell.KeyDown:  'B',
	tcell.KeyRight: 'C',
	tcell.KeyLeft:  'D',
	tcell.KeyHome:  'H',
	tcell.KeyEnd:   'F',
}

func xtermModifierParam(mod tcell.ModMask) int {
	n := 1
	if mod&tcell.ModShift != 0 {
		n += 1
	}
	if mod&tcell.ModAlt != 0 {
		n += 2
	}
	if mod&tcell.ModCtrl != 0 {
		n += 4
	}
	return n
}

// EncodeKey translates a tcell key event into the byte sequence a real
// terminal would send to its child process for that keypress: a
// modifier-driven switch dispatching to literal xterm escape sequences.
func EncodeKey(ev *tcell.EventKey) []byte {
	var out strings.Builder

	if ev.Key() == tcell.KeyRune {
		if ev.Modifiers()&tcell.ModAlt != 0 {
			out.WriteString("\x1b")
		}
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			r := ev.Rune()
			if r >= 'a' && r <= 'z' {
				out.WriteByte(byte(r-'a') + 1)
				return []byte(out.String())
			}
			if r >= 'A' && r <= 'Z' {
				out.WriteByte(byte(r-'A') + 1)
				return []byte(out.String())
			}
		}
		out.WriteRune(ev.Rune())
		return []byte(out.String())
	}

	if final, ok := xtermModifierFinal[ev.Key()]; ok && ev.Modifiers() != tcell.ModNone {
		param := xtermModifierParam(ev.Modifiers())
		if param > 1 {
			fmt.Fprintf(&out, "\x1b[1;%d%c", param, final)
			return []byte(out.String())
		}
	}

	if code, ok := xtermKeyCodes[ev.Key()]; ok {
		out.WriteString(code)
		return []byte(out.String())
	}
	return nil
}

// EncodeMouse translates a tcell mouse event into an xterm mouse report,
// honoring whichever of the button/drag/motion/SGR modes is active on the
// terminal. prevButtons should be the Buttons() mask observed on the last
// call, used to tell presses, drags, and releases apart; callers keep
// the returned mask across calls and pass it back in.
func EncodeMouse(ev *tcell.EventMouse, modes Modes, prevButtons tcell.ButtonMask) (report []byte, buttons tcell.ButtonMask) {
	buttons = ev.Buttons()
	if !modes.mouseReportingEnabled() && !modes.MouseSGR {
		return nil, buttons
	}
	if modes.MouseButtons && !modes.MouseDrag && !modes.MouseMotion && prevButtons == buttons {
		return nil, buttons
	}
	if modes.MouseDrag && prevButtons == tcell.ButtonNone && buttons == tcell.ButtonNone {
		return nil, buttons
	}

	var b int
	switch {
	case buttons&tcell.Button1 != 0:
		b = 0
	case buttons&tcell.Button3 != 0:
		b = 1
	case buttons&tcell.Button2 != 0:
		b = 2
	case buttons == tcell.ButtonNone:
		b = 3
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		b += 4
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		b += 8
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		b += 16
	}
	if !modes.MouseButtons && prevButtons != tcell.ButtonNone && buttons != tcell.ButtonNone {
		b += 32
	}

	col, row := ev.Position()

	if modes.MouseSGR {
		if buttons == tcell.ButtonNone && prevButtons != tcell.ButtonNone {
			var released int
			switch prevButtons {
			case tcell.Button1:
				released = 0
			case tcell.Button3:
				released = 1
			case tcell.Button2:
				released = 2
			}
			return []byte(fmt.Sprintf("\x1b[<%d;%d;%dm", released, col+1, row+1)), buttons
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%dM", b, col+1, row+1)), buttons
	}

	encodedCol := 32 + col + 1
	encodedRow := 32 + row + 1
	return []byte(fmt.Sprintf("\x1b[M%c%c%c", b+32, encodedCol, encodedRow)), buttons
}
