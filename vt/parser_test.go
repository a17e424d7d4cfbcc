package vt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sixelPayload is a tiny one-color, one-band image: raster 1x1, color 0
// set to full white, then a single sixel byte plotting all six rows.
const sixelPayload = "\x1bPq\"1;1;1;1#0;2;100;100;100~\x1b\\"

func TestDCSSixelBridgeWholeWrite(t *testing.T) {
	term := New(20, 10)
	term.parser.Feed([]byte(sixelPayload))

	sixels := term.active.GetVisibleSixels()
	require.Len(t, sixels, 1)
	require.NotNil(t, sixels[0].Image)
	assert.Equal(t, 1, sixels[0].Image.Width)
	assert.Equal(t, 1, sixels[0].Image.Height)
}

// TestDCSSixelBridgeArbitraryFragments feeds the exact same payload one
// byte at a time, and again in a handful of ragged chunks, and checks both
// reproduce the identical decoded image — the parser must not care where
// Feed calls happen to split the DCS string.
func TestDCSSixelBridgeArbitraryFragments(t *testing.T) {
	whole := New(20, 10)
	whole.parser.Feed([]byte(sixelPayload))
	wholeImg := whole.active.GetVisibleSixels()[0].Image

	byteAtATime := New(20, 10)
	for i := 0; i < len(sixelPayload); i++ {
		byteAtATime.parser.Feed([]byte{sixelPayload[i]})
	}
	byteImg := byteAtATime.active.GetVisibleSixels()[0].Image
	assert.Equal(t, wholeImg.Width, byteImg.Width)
	assert.Equal(t, wholeImg.Height, byteImg.Height)
	assert.Equal(t, wholeImg.Pixels, byteImg.Pixels)

	ragged := New(20, 10)
	chunks := [][]byte{
		[]byte(sixelPayload[:3]),
		[]byte(sixelPayload[3:7]),
		[]byte(sixelPayload[7:20]),
		[]byte(sixelPayload[20:]),
	}
	for _, c := range chunks {
		ragged.parser.Feed(c)
	}
	raggedImg := ragged.active.GetVisibleSixels()[0].Image
	assert.Equal(t, wholeImg.Width, raggedImg.Width)
	assert.Equal(t, wholeImg.Height, raggedImg.Height)
	assert.Equal(t, wholeImg.Pixels, raggedImg.Pixels)
}

func TestPlainTextAndNewline(t *testing.T) {
	term := New(10, 5)
	term.parser.Feed([]byte("hi\r\nthere"))
	assert.Equal(t, "hi", term.active.lines[0].String())
	assert.Equal(t, "there", term.active.lines[1].String())
}

func TestCSIMoveThroughParser(t *testing.T) {
	term := New(40, 10)
	term.parser.Feed([]byte("\x1b[10;5H"))
	assert.Equal(t, 4, term.active.cursorColumn())
	assert.Equal(t, 9, term.active.cursorLine())
}

func TestOSCTitleThroughParser(t *testing.T) {
	var got string
	term := New(40, 10, WithEventHandler(func(ev Event) {
		if te, ok := ev.(*EventTitle); ok {
			got = te.Title
		}
	}))
	term.parser.Feed([]byte("\x1b]0;my title\x07"))
	assert.Equal(t, "my title", got)
}

func TestUTF8MultibyteAcrossFragments(t *testing.T) {
	term := New(10, 5)
	euro := "€" // 3-byte UTF-8 sequence
	b := []byte(euro)
	require.Len(t, b, 3)
	term.parser.Feed(b[:1])
	term.parser.Feed(b[1:2])
	term.parser.Feed(b[2:3])
	assert.Equal(t, euro, term.active.lines[0].String())
}
