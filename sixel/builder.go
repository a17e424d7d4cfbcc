package sixel

// CellLocation is a (line, column) pair. Negative values are legal
// intermediate cursor states; pixel writes are clamped to the image rect.
type CellLocation struct {
	Line, Column int
}

// ImageSize is a strictly-positive (width, height) pair.
type ImageSize struct {
	Width, Height int
}

// Image is the finalized raster handed off to the renderer.
type Image struct {
	Width, Height int
	Pixels        []RGBAColor
}

// At returns the pixel at (x, y), or the zero RGBAColor if out of range.
func (img *Image) At(x, y int) RGBAColor {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return 0
	}
	return img.Pixels[y*img.Width+x]
}

// ImageBuilder owns the destination pixel buffer, the sixel cursor, the
// current color selection, and raster geometry for a single decode.
//
// The buffer is allocated once at maxSize; setRaster and finalize operate
// on a declared sub-rectangle of it so a raster command can never shrink
// the buffer below pixels already plotted.
type ImageBuilder struct {
	palette      *Palette
	maxSize      ImageSize
	defaultColor RGBAColor

	pixels []RGBAColor // row-major, stride = maxSize.Width

	declaredWidth, declaredHeight int
	plottedMaxRow, plottedMaxCol  int // -1 until something is plotted

	cursor       CellLocation
	currentColor int

	pan, pad     int
	aspectRatio  int

	sixelsRendered int
	colorsDefined  int
}

// NewImageBuilder constructs a builder with a fixed max image size, a
// default pixel color, and a shared palette handle. Declared size starts
// at maxSize until a raster command narrows it.
func NewImageBuilder(maxSize ImageSize, defaultColor RGBAColor, palette *Palette) *ImageBuilder {
	b := &ImageBuilder{
		palette:      palette,
		maxSize:      maxSize,
		defaultColor: defaultColor,
	}
	b.Reset()
	return b
}

// Reset reinitializes the builder for a new image, reusing its allocation.
func (b *ImageBuilder) Reset() {
	n := b.maxSize.Width * b.maxSize.Height
	if cap(b.pixels) >= n {
		b.pixels = b.pixels[:n]
	} else {
		b.pixels = make([]RGBAColor, n)
	}
	for i := range b.pixels {
		b.pixels[i] = b.defaultColor
	}
	b.declaredWidth = b.maxSize.Width
	b.declaredHeight = b.maxSize.Height
	b.plottedMaxRow = -1
	b.plottedMaxCol = -1
	b.cursor = CellLocation{}
	b.currentColor = 0
	b.pan, b.pad, b.aspectRatio = 1, 1, 1
	b.sixelsRendered = 0
	b.colorsDefined = 0
}

func clampSize(v, max int) int {
	if v < 1 {
		v = 1
	}
	if v > max {
		v = max
	}
	return v
}

// roundRatio computes round-half-up(pan/pad), clamped to a minimum of 1.
func roundRatio(pan, pad int) int {
	if pad == 0 {
		return 1
	}
	r := (2*pan + pad) / (2 * pad)
	if r < 1 {
		r = 1
	}
	return r
}

// SetRaster sets the aspect ratio (pan/pad, defaulting to 1 when pad is 0)
// and the declared image size, clamped to the builder's maximum. A width
// or height of 0 means "leave current". The declared rectangle is never
// shrunk below pixels already plotted.
func (b *ImageBuilder) SetRaster(pan, pad, width, height int) {
	b.pan, b.pad = pan, pad
	b.aspectRatio = roundRatio(pan, pad)

	w := width
	if w == 0 {
		w = b.declaredWidth
	}
	h := height
	if h == 0 {
		h = b.declaredHeight
	}
	w = clampSize(w, b.maxSize.Width)
	h = clampSize(h, b.maxSize.Height)

	if w < b.plottedMaxCol+1 {
		w = b.plottedMaxCol + 1
	}
	if h < b.plottedMaxRow+1 {
		h = b.plottedMaxRow + 1
	}
	b.declaredWidth = w
	b.declaredHeight = h
}

// AspectRatio returns the most recently computed pan/pad ratio.
func (b *ImageBuilder) AspectRatio() int { return b.aspectRatio }

// SetColor forwards to the palette.
func (b *ImageBuilder) SetColor(i int, rgb RGBColor) { b.palette.SetColor(i, rgb) }

// UseColor selects the current palette index for subsequent renders.
func (b *ImageBuilder) UseColor(i int) { b.currentColor = i }

// DefineHSLColor converts (hue 0..360, lightness 0..100, saturation 0..100)
// to RGB and stores it at palette index i.
func (b *ImageBuilder) DefineHSLColor(i, h, l, s int) {
	b.palette.SetColor(i, hslToRGB(h, l, s))
	b.colorsDefined++
}

// DefineRGBColor stores (r,g,b) percentages (0..100) converted to 8-bit
// channels at palette index i.
func (b *ImageBuilder) DefineRGBColor(i, r, g, bl int) {
	b.palette.SetColor(i, RGBColor{R: pct255(r), G: pct255(g), B: pct255(bl)})
	b.colorsDefined++
}

func (b *ImageBuilder) plot(row, col int) {
	if row < 0 || col < 0 || row >= b.declaredHeight || col >= b.declaredWidth {
		return
	}
	if row >= b.maxSize.Height || col >= b.maxSize.Width {
		return
	}
	b.pixels[row*b.maxSize.Width+col] = b.palette.At(b.currentColor).ToRGBA(255)
	if row > b.plottedMaxRow {
		b.plottedMaxRow = row
	}
	if col > b.plottedMaxCol {
		b.plottedMaxCol = col
	}
}

// Render plots the six vertically-stacked pixels encoded by sixel (bit 0 =
// topmost) at the cursor's current column, then advances the column by 1.
// The cursor's Line is already the pixel row of the band's top (0, 6, 12,
// ...), so bit k lands on row Line+k. Writes outside the declared rectangle are silently dropped; the cursor
// still advances.
func (b *ImageBuilder) Render(sixel int) {
	base := b.cursor.Line
	col := b.cursor.Column
	for k := 0; k < 6; k++ {
		if sixel&(1<<k) != 0 {
			b.plot(base+k, col)
		}
	}
	b.cursor.Column++
	b.sixelsRendered++
}

// RenderRepeated is equivalent to calling Render n times; n < 1 is treated
// as 1.
func (b *ImageBuilder) RenderRepeated(n, sixel int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		b.Render(sixel)
	}
}

// Rewind resets the column to 0, leaving the line unchanged — a carriage
// return between sixel bands.
func (b *ImageBuilder) Rewind() {
	b.cursor.Column = 0
}

// Newline resets the column to 0 and advances the line by 6 (the next
// sixel band).
func (b *ImageBuilder) Newline() {
	b.cursor.Column = 0
	b.cursor.Line += 6
}

// Cursor returns the builder's current (line, column).
func (b *ImageBuilder) Cursor() CellLocation { return b.cursor }

// Counts returns the number of sixel characters rendered and palette colors
// defined so far in the current decode.
func (b *ImageBuilder) Counts() (sixelsRendered, colorsDefined int) {
	return b.sixelsRendered, b.colorsDefined
}

// Finalize crops the internal buffer to the declared raster size and
// returns the completed image.
func (b *ImageBuilder) Finalize() *Image {
	img := &Image{Width: b.declaredWidth, Height: b.declaredHeight}
	img.Pixels = make([]RGBAColor, img.Width*img.Height)
	for y := 0; y < img.Height; y++ {
		srcRow := y * b.maxSize.Width
		dstRow := y * img.Width
		copy(img.Pixels[dstRow:dstRow+img.Width], b.pixels[srcRow:srcRow+img.Width])
	}
	return img
}
