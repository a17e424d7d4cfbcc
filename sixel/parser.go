package sixel

// parserState is one of the four Sixel parser states.
type parserState uint8

const (
	stateGround parserState = iota
	stateRasterSettings
	stateColorIntroducer
	stateRepeatIntroducer
)

const maxParams = 8

// Parser is the Sixel byte-level state machine. It holds a bounded
// parameter vector (no heap allocation per command) and a reference to the
// builder its commands are dispatched to. State persists across calls to
// ParseFragment, so a fragment boundary may fall anywhere — mid-parameter,
// mid-sixel-band, anywhere at all.
type Parser struct {
	state   parserState
	params  [maxParams]int
	nparams int // number of params opened so far, always >= 1 mid-command
	full    bool

	builder *ImageBuilder
}

// NewParser constructs a parser that dispatches commands to builder.
func NewParser(builder *ImageBuilder) *Parser {
	p := &Parser{builder: builder}
	p.resetParams()
	return p
}

func (p *Parser) resetParams() {
	for i := range p.params {
		p.params[i] = 0
	}
	p.nparams = 1
	p.full = false
}

func (p *Parser) digit(b byte) {
	if p.full {
		return
	}
	idx := p.nparams - 1
	v := p.params[idx]*10 + int(b-'0')
	if v > 65535 {
		v = 65535
	}
	p.params[idx] = v
}

func (p *Parser) nextParam() {
	if p.full {
		return
	}
	if p.nparams >= maxParams {
		p.full = true
		return
	}
	p.nparams++
}

// param returns the i'th accumulated parameter, or 0 if it was never
// opened (matching the "empty parameters default to 0" rule).
func (p *Parser) param(i int) int {
	if i < 0 || i >= p.nparams {
		return 0
	}
	return p.params[i]
}

// paramOrOne is like param but treats a never-opened slot as 1, the
// raster preamble's "missing parameter" default.
func (p *Parser) paramOrOne(i int) int {
	if i >= p.nparams {
		return 1
	}
	return p.params[i]
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ParseFragment feeds bytes through the state machine. Safe to call any
// number of times with arbitrary fragment boundaries.
func (p *Parser) ParseFragment(data []byte) {
	for _, b := range data {
		p.feedByte(b)
	}
}

func (p *Parser) feedByte(b byte) {
	switch p.state {
	case stateGround:
		p.ground(b)
	case stateRasterSettings:
		p.rasterSettings(b)
	case stateColorIntroducer:
		p.colorIntroducer(b)
	case stateRepeatIntroducer:
		p.repeatIntroducer(b)
	}
}

func (p *Parser) ground(b byte) {
	switch {
	case b >= 0x3F && b <= 0x7E:
		p.builder.Render(int(b) - 0x3F)
	case b == '!':
		p.resetParams()
		p.state = stateRepeatIntroducer
	case b == '"':
		p.resetParams()
		p.state = stateRasterSettings
	case b == '#':
		p.resetParams()
		p.state = stateColorIntroducer
	case b == '$':
		p.builder.Rewind()
	case b == '-':
		p.builder.Newline()
	default:
		// any other byte, including whitespace and control bytes: ignored
	}
}

func (p *Parser) commitRaster() {
	pan := p.paramOrOne(0)
	pad := p.paramOrOne(1)
	width := p.param(2)
	height := p.param(3)
	p.builder.SetRaster(pan, pad, width, height)
}

func (p *Parser) rasterSettings(b byte) {
	switch {
	case isDigit(b):
		p.digit(b)
	case b == ';':
		p.nextParam()
	default:
		p.commitRaster()
		p.state = stateGround
		p.ground(b)
	}
}

func (p *Parser) commitColor() {
	index := p.param(0)
	if p.nparams == 1 {
		p.builder.UseColor(index)
		return
	}
	switch p.param(1) {
	case 1:
		p.builder.DefineHSLColor(index, p.param(2), p.param(3), p.param(4))
	case 2:
		p.builder.DefineRGBColor(index, p.param(2), p.param(3), p.param(4))
	default:
		p.builder.UseColor(index)
	}
}

func (p *Parser) colorIntroducer(b byte) {
	switch {
	case isDigit(b):
		p.digit(b)
	case b == ';':
		p.nextParam()
	default:
		p.commitColor()
		p.state = stateGround
		p.ground(b)
	}
}

func (p *Parser) repeatIntroducer(b byte) {
	switch {
	case isDigit(b):
		p.digit(b)
	case b == ';':
		p.nextParam()
	default:
		if b >= 0x3F && b <= 0x7E {
			n := p.param(0)
			if n < 1 {
				n = 1
			}
			p.builder.RenderRepeated(n, int(b)-0x3F)
			p.state = stateGround
			return
		}
		// any other terminating byte aborts the repeat silently
		p.state = stateGround
		p.ground(b)
	}
}

// Done flushes any pending parameter-only state (a raster preamble or
// color directive with no terminating byte yet seen), then finalizes the
// image.
func (p *Parser) Done() *Image {
	switch p.state {
	case stateRasterSettings:
		p.commitRaster()
	case stateColorIntroducer:
		p.commitColor()
	case stateRepeatIntroducer:
		// no terminator arrived; the pending repeat is silently dropped
	}
	p.state = stateGround
	p.resetParams()
	return p.builder.Finalize()
}
