package vt

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestEncodeKeyRune(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)
	assert.Equal(t, []byte("a"), EncodeKey(ev))
}

func TestEncodeKeyCtrlLetter(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModCtrl)
	assert.Equal(t, []byte{3}, EncodeKey(ev))
}

func TestEncodeKeyArrow(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
	assert.Equal(t, []byte("\x1b[A"), EncodeKey(ev))
}

func TestEncodeKeyShiftArrow(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift)
	assert.Equal(t, []byte("\x1b[1;2A"), EncodeKey(ev))
}

func TestEncodeMouseDisabledWhenNoModeSet(t *testing.T) {
	ev := tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone)
	report, _ := EncodeMouse(ev, Modes{}, tcell.ButtonNone)
	assert.Nil(t, report)
}

func TestEncodeMouseSGRPress(t *testing.T) {
	ev := tcell.NewEventMouse(2, 3, tcell.Button1, tcell.ModNone)
	report, buttons := EncodeMouse(ev, Modes{MouseButtons: true, MouseSGR: true}, tcell.ButtonNone)
	assert.Equal(t, "\x1b[<0;3;4M", string(report))
	assert.Equal(t, tcell.Button1, buttons)
}

func TestEncodeMouseSGRRelease(t *testing.T) {
	ev := tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone)
	report, _ := EncodeMouse(ev, Modes{MouseButtons: true, MouseSGR: true}, tcell.Button1)
	assert.Equal(t, "\x1b[<0;3;4m", string(report))
}
