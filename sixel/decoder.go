package sixel

import "log"

// Option configures a Decoder at construction, in the functional-options
// style used throughout this repository's vt package.
type Option func(*Decoder)

// WithPalette supplies a shared, pre-populated palette instead of the
// default 16-slot/256-max one. Ownership is shared by reference; callers
// must not mutate it concurrently with a decode in progress.
func WithPalette(p *Palette) Option {
	return func(d *Decoder) { d.palette = p }
}

// WithMaxImageSize bounds the builder's backing pixel buffer.
func WithMaxImageSize(size ImageSize) Option {
	return func(d *Decoder) { d.maxSize = size }
}

// WithDefaultColor sets the pixel value new images are initialized to.
func WithDefaultColor(c RGBAColor) Option {
	return func(d *Decoder) { d.defaultColor = c }
}

// WithLogger attaches a logger for diagnostic output; by default a
// Decoder logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// Stats counts decode-time events for diagnostic/status-line purposes.
// It plays no part in the decode algorithm itself.
type Stats struct {
	Fragments      int
	Bytes          int
	SixelsRendered int
	ColorsDefined  int
}

// Decoder is the facade: it accepts streaming fragments from the VT
// dispatcher and exposes Done/Reset. The parser and builder it owns are
// single-owner and require no synchronization within one decode.
type Decoder struct {
	palette      *Palette
	maxSize      ImageSize
	defaultColor RGBAColor
	logger       *log.Logger

	builder *ImageBuilder
	parser  *Parser
	stats   Stats
}

// NewDecoder constructs a Decoder ready to accept fragments.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		maxSize:      ImageSize{Width: 1000, Height: 1000},
		defaultColor: OpaqueWhite,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.palette == nil {
		d.palette = NewPalette(DefaultInitialPaletteSize, DefaultMaxPaletteSize)
	}
	d.builder = NewImageBuilder(d.maxSize, d.defaultColor, d.palette)
	d.parser = NewParser(d.builder)
	return d
}

// ParseFragment feeds bytes into the decoder. Safe to call any number of
// times with arbitrary fragment boundaries — nothing blocks, and nothing
// fails: malformed input is absorbed per the parser's permissive policy.
func (d *Decoder) ParseFragment(data []byte) {
	d.stats.Fragments++
	d.stats.Bytes += len(data)
	if d.logger != nil {
		d.logger.Printf("sixel: fragment of %d bytes", len(data))
	}
	d.parser.ParseFragment(data)
}

// Done flushes any pending parameter-only state and returns the completed
// image.
func (d *Decoder) Done() *Image {
	return d.parser.Done()
}

// Reset discards the in-progress decode and prepares the decoder (and its
// builder) for a fresh image, reusing allocations.
func (d *Decoder) Reset() {
	d.builder.Reset()
	d.parser.resetParams()
	d.parser.state = stateGround
	d.stats = Stats{}
}

// Palette returns the decoder's palette handle.
func (d *Decoder) Palette() *Palette { return d.palette }

// Stats returns a snapshot of the decoder's counters: fragments and bytes
// fed in, plus sixels rendered and colors defined so far by the builder.
func (d *Decoder) Stats() Stats {
	s := d.stats
	s.SixelsRendered, s.ColorsDefined = d.builder.Counts()
	return s
}
