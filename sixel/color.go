// Package sixel decodes the Sixel graphics escape sequence embedded in
// terminal output into an RGBA raster.
package sixel

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is a three-channel 8-bit color.
type RGBColor struct {
	R, G, B uint8
}

// Black is the palette's unset-slot sentinel.
var Black = RGBColor{}

// White is full-intensity white.
var White = RGBColor{R: 255, G: 255, B: 255}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// Add performs component-wise saturating addition.
func (c RGBColor) Add(o RGBColor) RGBColor {
	return RGBColor{
		R: clampByte(int(c.R) + int(o.R)),
		G: clampByte(int(c.G) + int(o.G)),
		B: clampByte(int(c.B) + int(o.B)),
	}
}

// Scale multiplies every channel by factor, clamping to [0,255].
func (c RGBColor) Scale(factor float64) RGBColor {
	return RGBColor{
		R: clampByte(int(math.Round(float64(c.R) * factor))),
		G: clampByte(int(math.Round(float64(c.G) * factor))),
		B: clampByte(int(math.Round(float64(c.B) * factor))),
	}
}

// Inverse returns the component-wise complement.
func (c RGBColor) Inverse() RGBColor {
	return RGBColor{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// Mix linearly interpolates between a and b: a*t + b*(1-t), per channel.
func Mix(a, b RGBColor, t float64) RGBColor {
	return RGBColor{
		R: clampByte(int(math.Round(float64(a.R)*t + float64(b.R)*(1-t)))),
		G: clampByte(int(math.Round(float64(a.G)*t + float64(b.G)*(1-t)))),
		B: clampByte(int(math.Round(float64(a.B)*t + float64(b.B)*(1-t)))),
	}
}

// Distance returns the redmean-weighted perceptual Euclidean distance
// between two colors, as used by xterm for nearest-palette matching.
func Distance(a, b RGBColor) float64 {
	rmean := (int64(a.R) + int64(b.R)) / 2
	rd := int64(a.R) - int64(b.R)
	gd := int64(a.G) - int64(b.G)
	bd := int64(a.B) - int64(b.B)
	rd *= rd
	gd *= gd
	bd *= bd
	sum := ((512+rmean)*rd)>>8 + 4*gd + ((767-rmean)*bd)>>8
	return math.Sqrt(float64(sum))
}

// RGBColorPair is a foreground/background pair used for similarity checks.
type RGBColorPair struct {
	Foreground, Background RGBColor
}

// IsTooSimilar reports whether the pair's distance is at or below threshold.
func (p RGBColorPair) IsTooSimilar(threshold float64) bool {
	return Distance(p.Foreground, p.Background) <= threshold
}

// Distinct returns p unchanged when dissimilar, otherwise a pair with the
// foreground inverted to guarantee contrast.
func (p RGBColorPair) Distinct(threshold float64) RGBColorPair {
	if !p.IsTooSimilar(threshold) {
		return p
	}
	return RGBColorPair{Foreground: p.Foreground.Inverse(), Background: p.Foreground}
}

// ErrInvalidColor is returned by ParseHex on malformed input.
type ErrInvalidColor struct {
	Input string
}

func (e *ErrInvalidColor) Error() string {
	return fmt.Sprintf("sixel: invalid color %q", e.Input)
}

// ParseHex parses "#RRGGBB" or "RRGGBB" into an RGBColor.
func ParseHex(s string) (RGBColor, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGBColor{}, &ErrInvalidColor{Input: s}
	}
	var vals [3]uint8
	for i := 0; i < 3; i++ {
		b, ok := hexByte(hex[i*2], hex[i*2+1])
		if !ok {
			return RGBColor{}, &ErrInvalidColor{Input: s}
		}
		vals[i] = b
	}
	return RGBColor{R: vals[0], G: vals[1], B: vals[2]}, nil
}

func hexByte(hi, lo byte) (uint8, bool) {
	h, ok1 := hexNibble(hi)
	l, ok2 := hexNibble(lo)
	if !ok1 || !ok2 {
		return 0, false
	}
	return h<<4 | l, true
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// Hex formats the color as "#RRGGBB".
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// hslToRGB converts a Sixel HLS triple (hue 0..360, lightness 0..100,
// saturation 0..100) to an RGBColor via go-colorful's HSL implementation.
func hslToRGB(h, l, s int) RGBColor {
	col := colorful.Hsl(float64(h), float64(s)/100, float64(l)/100)
	return RGBColor{
		R: clampByte(int(math.Round(col.R * 255))),
		G: clampByte(int(math.Round(col.G * 255))),
		B: clampByte(int(math.Round(col.B * 255))),
	}
}

// pct255 converts a Sixel 0..100 percentage channel to an 8-bit value.
func pct255(p int) uint8 {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return uint8((p * 255) / 100)
}

// RGBAColor packs four 8-bit channels into a 32-bit word, R high / A low.
type RGBAColor uint32

// OpaqueWhite is the canonical fully-opaque white constant.
const OpaqueWhite RGBAColor = 0xFFFFFFFF

// NewRGBA packs four channels into an RGBAColor.
func NewRGBA(r, g, b, a uint8) RGBAColor {
	return RGBAColor(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// RGB drops the alpha channel, returning the underlying RGBColor.
func (c RGBAColor) RGB() RGBColor {
	return RGBColor{R: uint8(c >> 24), G: uint8(c >> 16), B: uint8(c >> 8)}
}

// A returns the alpha channel.
func (c RGBAColor) A() uint8 { return uint8(c) }

// ToRGBA packs an RGBColor plus an explicit alpha into an RGBAColor.
func (c RGBColor) ToRGBA(alpha uint8) RGBAColor {
	return NewRGBA(c.R, c.G, c.B, alpha)
}

// ColorTag discriminates the variants of Color.
type ColorTag uint8

const (
	TagUndefined ColorTag = iota
	TagDefault
	TagBright
	TagIndexed
	TagRGB
)

// Color is the tagged color union: Undefined, Default, Bright(0..7),
// Indexed(0..255), or RGB(r,g,b). It packs into 32 bits (tag in the high
// byte, payload in the low 24) but is kept as a small struct here for
// idiomatic construction and structural equality.
type Color struct {
	tag     ColorTag
	payload uint32
}

// UndefinedColor is the zero value of Color.
func UndefinedColor() Color { return Color{tag: TagUndefined} }

// DefaultColor represents the terminal's default foreground/background.
func DefaultColor() Color { return Color{tag: TagDefault} }

// BrightColor represents one of the eight bright ANSI colors.
func BrightColor(n uint8) Color { return Color{tag: TagBright, payload: uint32(n & 0x07)} }

// IndexedColor represents a palette slot.
func IndexedColor(i uint8) Color { return Color{tag: TagIndexed, payload: uint32(i)} }

// RGBValue represents a direct true-color value.
func RGBValue(r, g, b uint8) Color {
	return Color{tag: TagRGB, payload: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

func (c Color) IsUndefined() bool { return c.tag == TagUndefined }
func (c Color) IsDefault() bool   { return c.tag == TagDefault }
func (c Color) IsBright() bool    { return c.tag == TagBright }
func (c Color) IsIndexed() bool   { return c.tag == TagIndexed }
func (c Color) IsRGB() bool       { return c.tag == TagRGB }

// Bright returns the bright index; valid only when IsBright.
func (c Color) Bright() uint8 { return uint8(c.payload) }

// Index returns the palette index; valid only when IsIndexed.
func (c Color) Index() uint8 { return uint8(c.payload) }

// RGB returns the RGBColor payload; valid only when IsRGB.
func (c Color) RGB() RGBColor {
	return RGBColor{R: uint8(c.payload >> 16), G: uint8(c.payload >> 8), B: uint8(c.payload)}
}

// Pack returns the 32-bit tag-in-high-byte encoding described in the design
// notes: tag occupies bits 24..31, payload the low 24 bits.
func (c Color) Pack() uint32 {
	return uint32(c.tag)<<24 | (c.payload & 0x00FFFFFF)
}
