package sixel

import (
	"bytes"
	"image"
	"testing"

	"github.com/mattn/go-sixel"
	"github.com/stretchr/testify/require"
)

// dcsWrap wraps a raw sixel body in the DCS introducer/terminator mattn/
// go-sixel's decoder expects to see, the same framing hnw-slack-commander's
// sixelToPNG helper feeds it.
func dcsWrap(body string) []byte {
	return []byte("\x1bP" + body + "\x1b\\")
}

// TestAgreesWithIndependentDecoder decodes the same raw sixel body with
// this package's own Decoder and with github.com/mattn/go-sixel, an
// independently-written implementation, and checks every pixel matches.
// This is the corpus's own cross-check idiom (hnw-slack-commander's
// sixelToPNG round-trips through go-sixel before re-encoding to PNG); here
// it instead proves the two decoders agree on what a payload means.
func TestAgreesWithIndependentDecoder(t *testing.T) {
	// Every column of every row is solid (sixel value 0x3F = all 6 rows
	// set), so the two decoders' differing conventions for "never
	// plotted" pixels never come into play.
	body := `"1;1;4;6#0;2;100;0;0#1;2;0;0;100#0~~#1~~`

	ours := NewDecoder(WithMaxImageSize(ImageSize{Width: 4, Height: 6}))
	ours.ParseFragment([]byte(body))
	gotImg := ours.Done()

	dec := sixel.NewDecoder(bytes.NewReader(dcsWrap("q" + body)))
	var refImg image.Image
	require.NoError(t, dec.Decode(&refImg))
	require.NotNil(t, refImg)

	bounds := refImg.Bounds()
	require.Equal(t, gotImg.Width, bounds.Dx())
	require.Equal(t, gotImg.Height, bounds.Dy())

	for y := 0; y < gotImg.Height; y++ {
		for x := 0; x < gotImg.Width; x++ {
			want := gotImg.At(x, y)
			r, g, b, _ := refImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			refRGB := RGBColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			assert8BitEqual(t, x, y, want.RGB(), refRGB)
		}
	}
}

func assert8BitEqual(t *testing.T, x, y int, got, want RGBColor) {
	t.Helper()
	if got != want {
		t.Errorf("pixel (%d,%d): got %+v, want %+v (independent decoder)", x, y, got, want)
	}
}
