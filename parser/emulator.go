package parser

// state is one node of the VT500-series state machine (DEC STD 070 /
// Paul Williams' well-known diagram, as adapted by most real terminal
// parsers: vte, alacritty, xterm's own parser).
type state int

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCSIEntry
	stateCSIParam
	stateCSIIntermediate
	stateCSIIgnore
	stateOSCString
	stateDCSEntry
	stateDCSParam
	stateDCSIntermediate
	stateDCSPassthrough
	stateDCSIgnore
	stateSOSPMAPCString
)

// stringKind distinguishes which of the three "arbitrary string until
// ST" escapes (SOS/PM/APC) is being collected, so a single state can
// serve all three.
type stringKind int

const (
	stringKindSOS stringKind = iota
	stringKindPM
	stringKindAPC
)

// Emulator decodes a byte stream of ANSI/VT escape sequences, dispatching
// each decoded control function to a Handler. It holds no screen state
// of its own - cursor, buffer, and mode state all live on the Handler's
// implementation.
type Emulator struct {
	handler Handler
	stream  *DataStream

	st    state
	p     params
	osc   []byte
	strKd stringKind
	strBuf []byte

	// charsetPending tracks a '(' ')' '*' '+' designator seen in the
	// escape state, awaiting the final charset byte.
	charsetPending CharsetIndex
	haveCharsetPending bool
}

// NewEmulator creates an Emulator that dispatches to handler.
func NewEmulator(handler Handler) *Emulator {
	return &Emulator{
		handler: handler,
		stream:  NewDataStream(),
		st:      stateGround,
	}
}

// Write feeds raw bytes into the parser, driving it to exhaustion. It
// always returns len(p), nil: a malformed escape sequence is recovered
// from by the state machine itself, never surfaced as a Write error.
func (e *Emulator) Write(p []byte) (int, error) {
	e.stream.Feed(p)
	e.run()
	return len(p), nil
}

// run drives the state machine until the stream is exhausted or the
// next unit of work (a partial UTF-8 rune) needs more input.
func (e *Emulator) run() {
	for e.stream.HasNext() {
		pending, st := e.stream.Pending(), e.st
		switch e.st {
		case stateGround:
			e.stepGround()
		case stateEscape:
			e.stepEscape()
		case stateEscapeIntermediate:
			e.stepEscapeIntermediate()
		case stateCSIEntry, stateCSIParam:
			e.stepCSIParam()
		case stateCSIIntermediate:
			e.stepCSIIntermediate()
		case stateCSIIgnore:
			e.stepCSIIgnore()
		case stateOSCString:
			e.stepOSCString()
		case stateDCSEntry, stateDCSParam, stateDCSIntermediate:
			e.stepDCSHeader()
		case stateDCSPassthrough, stateDCSIgnore:
			e.stepDCSBody()
		case stateSOSPMAPCString:
			e.stepSOSPMAPCString()
		}
		if e.stream.Pending() == pending && e.st == st {
			// Nothing consumed and no state change: the remaining bytes
			// are an incomplete unit that waits for the next Write.
			return
		}
	}
}

func (e *Emulator) toGround() {
	e.st = stateGround
}

// c0Dispatch handles a C0 control character valid in any state (GROUND,
// escape, or inside a CSI sequence per ECMA-48: most C0 codes execute
// immediately even mid-sequence). Returns true if it consumed b.
func (e *Emulator) c0Dispatch(b byte) bool {
	switch b {
	case 0x00, 0x7F: // NUL, DEL: ignored
		return true
	case 0x05: // ENQ
		return true
	case 0x07: // BEL
		e.handler.Bell()
		return true
	case 0x08: // BS
		e.handler.Backspace()
		return true
	case 0x09: // HT
		e.handler.Tab(1)
		return true
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		e.handler.LineFeed()
		return true
	case 0x0D: // CR
		e.handler.CarriageReturn()
		return true
	case 0x0E: // SO - invoke G1
		e.handler.SetActiveCharset(1)
		return true
	case 0x0F: // SI - invoke G0
		e.handler.SetActiveCharset(0)
		return true
	case 0x18: // CAN - abort sequence
		e.toGround()
		return true
	case 0x1A: // SUB - abort sequence and show a replacement glyph
		e.handler.Substitute()
		e.toGround()
		return true
	case 0x1B: // ESC
		e.st = stateEscape
		return true
	}
	return false
}

// stepGround consumes one printable unit: a run of C0 controls are
// executed as encountered, and any non-control byte is decoded (possibly
// spanning several bytes) and printed as a rune.
func (e *Emulator) stepGround() {
	b, _ := e.stream.PeekByte()
	if b < 0x20 || b == 0x7F {
		e.stream.NextByte()
		e.c0Dispatch(b)
		return
	}

	r, ok := e.stream.NextRune()
	if !ok {
		// Incomplete multi-byte sequence; wait for more input.
		return
	}
	e.handler.Input(r)
}

func (e *Emulator) stepEscape() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}

	if e.c0Dispatch(b) {
		// ESC seen again restarts the escape sequence and CAN/SUB abort
		// to ground (c0Dispatch sets both states); any other C0 (BEL
		// etc.) executes without leaving the escape state, per ECMA-48.
		return
	}

	switch {
	case b == '[':
		e.p.reset()
		e.st = stateCSIEntry
	case b == ']':
		e.osc = e.osc[:0]
		e.st = stateOSCString
	case b == 'P':
		e.p.reset()
		e.st = stateDCSEntry
	case b == 'X':
		e.beginString(stringKindSOS)
	case b == '^':
		e.beginString(stringKindPM)
	case b == '_':
		e.beginString(stringKindAPC)
	case b >= 0x20 && b <= 0x2F:
		// Intermediate byte: charset designators '(' ')' '*' '+' and
		// the '#' DEC screen-alignment family are the only ones in
		// scope here.
		switch b {
		case '(':
			e.charsetPending, e.haveCharsetPending = CharsetIndexG0, true
			e.st = stateEscapeIntermediate
		case ')':
			e.charsetPending, e.haveCharsetPending = CharsetIndexG1, true
			e.st = stateEscapeIntermediate
		case '*':
			e.charsetPending, e.haveCharsetPending = CharsetIndexG2, true
			e.st = stateEscapeIntermediate
		case '+':
			e.charsetPending, e.haveCharsetPending = CharsetIndexG3, true
			e.st = stateEscapeIntermediate
		default:
			e.st = stateEscapeIntermediate
		}
	case b == '7':
		e.handler.SaveCursorPosition()
		e.toGround()
	case b == '8':
		e.handler.RestoreCursorPosition()
		e.toGround()
	case b == 'D':
		e.handler.LineFeed()
		e.toGround()
	case b == 'E':
		e.handler.CarriageReturn()
		e.handler.LineFeed()
		e.toGround()
	case b == 'H':
		e.handler.HorizontalTabSet()
		e.toGround()
	case b == 'M':
		e.handler.ReverseIndex()
		e.toGround()
	case b == 'c':
		e.handler.ResetState()
		e.toGround()
	case b == '=':
		e.handler.SetKeypadApplicationMode()
		e.toGround()
	case b == '>':
		e.handler.UnsetKeypadApplicationMode()
		e.toGround()
	default:
		// Unrecognized final byte: ignore and resync to ground.
		e.toGround()
	}
}

// stepEscapeIntermediate consumes the final byte of a two-character
// escape sequence (charset designation, DEC alignment test, etc).
func (e *Emulator) stepEscapeIntermediate() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}

	if e.haveCharsetPending {
		e.haveCharsetPending = false
		cs := CharsetASCII
		if b == '0' {
			cs = CharsetLineDrawing
		}
		e.handler.ConfigureCharset(e.charsetPending, cs)
		e.toGround()
		return
	}

	// '#' intermediate: '8' is DECALN, others are ignored.
	if b == '8' {
		e.handler.Decaln()
	}
	e.toGround()
}

func (e *Emulator) beginString(kind stringKind) {
	e.strKd = kind
	e.strBuf = e.strBuf[:0]
	e.st = stateSOSPMAPCString
}

// stepSOSPMAPCString collects bytes until an ST (ESC \) or BEL
// terminator, then forwards the raw payload to the matching Handler
// hook. These three escapes exist to carry application-defined data the
// core has no opinion about.
func (e *Emulator) stepSOSPMAPCString() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}

	if b == 0x07 {
		e.dispatchString()
		return
	}
	if b == 0x1B {
		nb, ok := e.stream.NextByte()
		if !ok {
			// Might be the start of ST; push ESC back and wait.
			e.stream.PushBack(b)
			return
		}
		if nb == '\\' {
			e.dispatchString()
			return
		}
		// Not a real ST: treat ESC as aborting the string (common
		// terminal behavior when a stray escape appears mid-string).
		e.stream.PushBack(nb)
		e.st = stateEscape
		return
	}
	if b == 0x18 || b == 0x1A {
		e.toGround()
		return
	}

	e.strBuf = append(e.strBuf, b)
}

func (e *Emulator) dispatchString() {
	switch e.strKd {
	case stringKindSOS:
		e.handler.StartOfStringReceived(e.strBuf)
	case stringKindPM:
		e.handler.PrivacyMessageReceived(e.strBuf)
	case stringKindAPC:
		e.handler.ApplicationCommandReceived(e.strBuf)
	}
	e.toGround()
}

// stepCSIParam collects the optional private marker, numeric
// parameters, and ':'/';' separators of a CSI sequence.
func (e *Emulator) stepCSIParam() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}

	if e.c0Dispatch(b) {
		return
	}

	switch {
	case b >= '0' && b <= '9':
		e.p.digit(b)
		e.st = stateCSIParam
	case b == ';' || b == ':':
		e.p.separator()
		e.st = stateCSIParam
	case b == '?' || b == '<' || b == '=' || b == '>':
		if e.p.count() == 0 && !e.p.hasDigit {
			e.p.priv = b
			e.st = stateCSIParam
		} else {
			e.st = stateCSIIgnore
		}
	case b >= 0x20 && b <= 0x2F:
		e.p.inter = append(e.p.inter, b)
		e.st = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7E:
		e.p.finish()
		e.dispatchCSI(b)
		e.toGround()
	default:
		e.st = stateCSIIgnore
	}
}

func (e *Emulator) stepCSIIntermediate() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}
	if e.c0Dispatch(b) {
		return
	}
	switch {
	case b >= 0x20 && b <= 0x2F:
		e.p.inter = append(e.p.inter, b)
	case b >= 0x40 && b <= 0x7E:
		e.p.finish()
		e.dispatchCSI(b)
		e.toGround()
	default:
		e.st = stateCSIIgnore
	}
}

func (e *Emulator) stepCSIIgnore() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}
	if e.c0Dispatch(b) {
		return
	}
	if b >= 0x40 && b <= 0x7E {
		e.toGround()
	}
}

func (e *Emulator) stepDCSHeader() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}
	if b == 0x18 || b == 0x1A {
		e.toGround()
		return
	}
	if b == 0x1B {
		e.st = stateEscape
		return
	}
	switch {
	case b >= '0' && b <= '9':
		e.p.digit(b)
		e.st = stateDCSParam
	case b == ';':
		e.p.separator()
		e.st = stateDCSParam
	case b == '?' || b == '<' || b == '=' || b == '>':
		e.p.priv = b
		e.st = stateDCSParam
	case b >= 0x20 && b <= 0x2F:
		e.p.inter = append(e.p.inter, b)
		e.st = stateDCSIntermediate
	case b >= 0x40 && b <= 0x7E:
		// Final byte reached: this module does not implement any DCS
		// payload protocol (Sixel, tmux passthrough, termcap query),
		// so the body is collected and discarded rather than acted on.
		e.strBuf = e.strBuf[:0]
		e.st = stateDCSPassthrough
	default:
		e.st = stateDCSIgnore
	}
}

func (e *Emulator) stepDCSBody() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}
	if b == 0x18 || b == 0x1A {
		e.toGround()
		return
	}
	if b == 0x1B {
		nb, ok := e.stream.NextByte()
		if !ok {
			e.stream.PushBack(b)
			return
		}
		if nb == '\\' {
			e.toGround()
			return
		}
		e.stream.PushBack(nb)
		e.st = stateEscape
		return
	}
	if e.st == stateDCSPassthrough {
		e.strBuf = append(e.strBuf, b)
	}
}
