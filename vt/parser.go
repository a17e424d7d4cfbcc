package vt

import "github.com/mattn/go-runewidth"

// parserState is the ANSI/CSI/OSC/DCS byte classifier's state. It is an
// explicit byte-at-a-time state machine so it can consume arbitrary
// fragment boundaries the same way sixel.Parser does — a Sixel payload
// legitimately spans many pty Read calls.
type parserState uint8

const (
	psGround parserState = iota
	psEscape
	psCSI
	psOSC
	psOSCEsc
	psDCS
	psDCSSixel
	psDCSSixelEsc
	psDCSIgnore
	psDCSIgnoreEsc
)

const maxCSIParams = 16

// Parser turns a raw pty byte stream into Buffer/Terminal mutations. It
// owns no goroutine and blocks on nothing; Feed may be called with any
// slice of bytes, including a single byte at a time.
type Parser struct {
	state parserState
	term  *Terminal

	params  [maxCSIParams]int
	nparams int
	private bool // '?' seen right after CSI

	oscBuf []byte

	utf8Buf [4]byte
	utf8Len int
}

func newParser(t *Terminal) *Parser {
	return &Parser{term: t}
}

// Feed processes bytes, mutating the attached Terminal as sequences
// complete. Safe to call repeatedly with arbitrary fragment boundaries.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.feedByte(b)
	}
}

func (p *Parser) feedByte(b byte) {
	switch p.state {
	case psGround:
		p.ground(b)
	case psEscape:
		p.escape(b)
	case psCSI:
		p.csiByte(b)
	case psOSC:
		p.oscByte(b)
	case psOSCEsc:
		p.oscEscByte(b)
	case psDCS:
		p.dcsByte(b)
	case psDCSSixel:
		p.dcsSixelByte(b)
	case psDCSSixelEsc:
		p.dcsSixelEscByte(b)
	case psDCSIgnore:
		p.dcsIgnoreByte(b)
	case psDCSIgnoreEsc:
		p.dcsIgnoreEscByte(b)
	}
}

func (p *Parser) resetParams() {
	for i := range p.params {
		p.params[i] = 0
	}
	p.nparams = 0
	p.private = false
}

func (p *Parser) ground(b byte) {
	switch {
	case b == 0x1b:
		p.state = psEscape
	case b == '\r':
		p.term.active.carriageReturn()
	case b == '\n':
		p.term.active.newLine()
	case b == '\b':
		p.term.active.movePosition(-1, 0)
	case b == '\t':
		p.term.active.movePosition(8-p.term.active.cursorColumn()%8, 0)
	case b >= 0x20:
		p.printByte(b)
	default:
		// other C0 controls: ignored
	}
}

// printByte accumulates UTF-8 continuation bytes and prints a full rune.
func (p *Parser) printByte(b byte) {
	p.utf8Buf[p.utf8Len] = b
	p.utf8Len++
	r, size := decodeUTF8(p.utf8Buf[:p.utf8Len])
	if size == 0 {
		if p.utf8Len >= len(p.utf8Buf) {
			p.utf8Len = 0
		}
		return
	}
	p.utf8Len = 0
	p.term.active.write(r, runewidth.RuneWidth(r))
}

func (p *Parser) escape(b byte) {
	switch b {
	case '[':
		p.resetParams()
		p.state = psCSI
	case ']':
		p.oscBuf = p.oscBuf[:0]
		p.state = psOSC
	case 'P':
		p.resetParams()
		p.state = psDCS
	case 'c':
		p.term.reset()
		p.state = psGround
	case '7':
		p.term.saveCursor()
		p.state = psGround
	case '8':
		p.term.restoreCursor()
		p.state = psGround
	default:
		p.state = psGround
	}
}

func (p *Parser) csiByte(b byte) {
	switch {
	case b == '?' && p.nparams == 0 && p.params[0] == 0:
		p.private = true
	case b >= '0' && b <= '9':
		p.params[p.nparams] = p.params[p.nparams]*10 + int(b-'0')
	case b == ';':
		if p.nparams < maxCSIParams-1 {
			p.nparams++
		}
	case b >= 0x40 && b <= 0x7e:
		p.term.handleCSI(byte(b), p.params[:p.nparams+1], p.private)
		p.state = psGround
	default:
		// intermediate bytes (0x20..0x2f) and anything else: ignored
	}
}

func (p *Parser) oscByte(b byte) {
	switch b {
	case 0x07:
		p.term.handleOSC(p.oscBuf)
		p.state = psGround
	case 0x1b:
		p.state = psOSCEsc
	default:
		p.oscBuf = append(p.oscBuf, b)
	}
}

func (p *Parser) oscEscByte(b byte) {
	p.term.handleOSC(p.oscBuf)
	p.state = psGround
	if b != '\\' {
		p.feedByte(b)
	}
}

func (p *Parser) dcsByte(b byte) {
	switch {
	case b >= '0' && b <= '9', b == ';':
		if b == ';' {
			if p.nparams < maxCSIParams-1 {
				p.nparams++
			}
		} else {
			p.params[p.nparams] = p.params[p.nparams]*10 + int(b-'0')
		}
	case b == 'q':
		p.term.beginSixel()
		p.state = psDCSSixel
	case b == 0x1b:
		p.state = psEscape
	default:
		p.state = psDCSIgnore
	}
}

func (p *Parser) dcsSixelByte(b byte) {
	if b == 0x1b {
		p.state = psDCSSixelEsc
		return
	}
	p.term.feedSixel([]byte{b})
}

// dcsSixelEscByte resolves the ST (ESC \) that terminates a DCS sixel
// string. A byte other than '\\' still ends the sixel decode (best-effort,
// matching the permissive policy elsewhere) and is re-dispatched from
// Ground.
func (p *Parser) dcsSixelEscByte(b byte) {
	p.term.endSixel()
	p.state = psGround
	if b != '\\' {
		p.feedByte(b)
	}
}

func (p *Parser) dcsIgnoreByte(b byte) {
	if b == 0x1b {
		p.state = psDCSIgnoreEsc
	}
}

func (p *Parser) dcsIgnoreEscByte(b byte) {
	p.state = psGround
	if b != '\\' {
		p.feedByte(b)
	}
}

func decodeUTF8(buf []byte) (rune, int) {
	if len(buf) == 0 {
		return 0, 0
	}
	b0 := buf[0]
	switch {
	case b0 < 0x80:
		return rune(b0), 1
	case b0&0xE0 == 0xC0:
		if len(buf) < 2 {
			return 0, 0
		}
		return rune(b0&0x1F)<<6 | rune(buf[1]&0x3F), 2
	case b0&0xF0 == 0xE0:
		if len(buf) < 3 {
			return 0, 0
		}
		return rune(b0&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F), 3
	case b0&0xF8 == 0xF0:
		if len(buf) < 4 {
			return 0, 0
		}
		return rune(b0&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F), 4
	default:
		return rune(b0), 1
	}
}
