package parser

import "unicode/utf8"

// DataStream is an incrementally-fed byte stream that reassembles UTF-8
// runes across chunk boundaries. A terminal's raw PTY reads rarely align
// with codepoint boundaries, so Emulator.Write may be called with a
// buffer that ends mid-sequence; DataStream holds the undecoded tail
// until the next call supplies the rest.
type DataStream struct {
	buf []byte
}

// NewDataStream creates an empty stream.
func NewDataStream() *DataStream {
	return &DataStream{}
}

// Feed appends newly-arrived bytes to the stream.
func (d *DataStream) Feed(data []byte) {
	d.buf = append(d.buf, data...)
}

// HasNext reports whether at least one undecoded byte remains.
func (d *DataStream) HasNext() bool {
	return len(d.buf) > 0
}

// Pending returns the number of undecoded bytes buffered. Used by callers
// that need to detect a stalled parse (e.g. an unterminated string) vs. a
// genuinely empty stream.
func (d *DataStream) Pending() int {
	return len(d.buf)
}

// NextByte consumes and returns the next raw byte. Used while inside a
// control-function frame (CSI/OSC/DCS) where bytes, not runes, are the
// unit of work.
func (d *DataStream) NextByte() (byte, bool) {
	if len(d.buf) == 0 {
		return 0, false
	}
	b := d.buf[0]
	d.buf = d.buf[1:]
	return b, true
}

// PeekByte returns the next byte without consuming it.
func (d *DataStream) PeekByte() (byte, bool) {
	if len(d.buf) == 0 {
		return 0, false
	}
	return d.buf[0], true
}

// PushBack reinserts a byte at the front of the stream. Used when a
// lookahead byte turns out to belong to the next token.
func (d *DataStream) PushBack(b byte) {
	d.buf = append([]byte{b}, d.buf...)
}

// NextRune decodes the next UTF-8 rune for the GROUND-state print path.
// ok is false when the buffered bytes are a valid but incomplete prefix
// of a multi-byte encoding: the caller should stop and wait for the next
// Feed rather than misinterpret a split codepoint. A genuinely invalid
// byte is consumed and reported as utf8.RuneError (U+FFFD substitution),
// matching how a real terminal resynchronizes after garbage input.
func (d *DataStream) NextRune() (r rune, ok bool) {
	if len(d.buf) == 0 {
		return 0, false
	}

	r, size := utf8.DecodeRune(d.buf)
	if r == utf8.RuneError && size <= 1 {
		if !utf8.FullRune(d.buf) {
			return 0, false
		}
		d.buf = d.buf[1:]
		return utf8.RuneError, true
	}

	d.buf = d.buf[size:]
	return r, true
}
