package parser

// dispatchCSI is called with the final byte of a completed CSI sequence
// and the accumulated parameters in e.p. It translates the wire-level
// parameters into one Handler call.
func (e *Emulator) dispatchCSI(final byte) {
	p := &e.p

	// The Kitty keyboard protocol and DECSC/DECRC both use final byte
	// 's'/'u'; private markers distinguish them ('>' push, '<' pop,
	// '=' set, '?' report; bare 'u' with no marker is DECRC).
	if final == 'u' && p.priv != 0 {
		e.dispatchKeyboardMode(p.priv, p)
		return
	}
	if final == 's' && p.priv == '?' {
		// CSI ? Pm s: save DEC private mode values. Not modeled as a
		// distinct operation; no-op.
		return
	}

	if p.priv == '?' {
		e.dispatchPrivateMode(final, p)
		return
	}

	switch final {
	case '@':
		e.handler.InsertBlank(p.maxArg(0, 1))
	case 'A':
		e.handler.MoveUp(p.maxArg(0, 1))
	case 'B':
		e.handler.MoveDown(p.maxArg(0, 1))
	case 'C':
		e.handler.MoveForward(p.maxArg(0, 1))
	case 'D':
		e.handler.MoveBackward(p.maxArg(0, 1))
	case 'E':
		e.handler.MoveDownCr(p.maxArg(0, 1))
	case 'F':
		e.handler.MoveUpCr(p.maxArg(0, 1))
	case 'G', '`':
		e.handler.GotoCol(p.maxArg(0, 1) - 1)
	case 'H', 'f':
		row := p.maxArg(0, 1)
		col := p.maxArg(1, 1)
		e.handler.Goto(row-1, col-1)
	case 'I':
		e.handler.MoveForwardTabs(p.maxArg(0, 1))
	case 'J':
		e.handler.ClearScreen(ClearMode(p.argOrZero(0)))
	case 'K':
		e.handler.ClearLine(LineClearMode(p.argOrZero(0)))
	case 'L':
		e.handler.InsertBlankLines(p.maxArg(0, 1))
	case 'M':
		e.handler.DeleteLines(p.maxArg(0, 1))
	case 'P':
		e.handler.DeleteChars(p.maxArg(0, 1))
	case 'S':
		e.handler.ScrollUp(p.maxArg(0, 1))
	case 'T':
		e.handler.ScrollDown(p.maxArg(0, 1))
	case 'X':
		e.handler.EraseChars(p.maxArg(0, 1))
	case 'Z':
		e.handler.MoveBackwardTabs(p.maxArg(0, 1))
	case 'a':
		e.handler.MoveForward(p.maxArg(0, 1))
	case 'c':
		e.handler.IdentifyTerminal(p.priv)
	case 'd':
		e.handler.GotoLine(p.maxArg(0, 1) - 1)
	case 'e':
		e.handler.MoveDown(p.maxArg(0, 1))
	case 'g':
		e.handler.ClearTabs(TabulationClearMode(p.argOrZero(0)))
	case 'h':
		for i := 0; i < p.count(); i++ {
			e.handler.SetMode(ansiMode(p.arg(i, 0)))
		}
	case 'l':
		for i := 0; i < p.count(); i++ {
			e.handler.UnsetMode(ansiMode(p.arg(i, 0)))
		}
	case 'm':
		e.dispatchSGR(p)
	case 'n':
		e.handler.DeviceStatus(p.argOrZero(0))
	case 'r':
		top := p.maxArg(0, 1)
		bottom := p.argOrZero(1)
		e.handler.SetScrollingRegion(top, bottom)
	case 's':
		e.handler.SaveCursorPosition()
	case 'u':
		e.handler.RestoreCursorPosition()
	case 't':
		e.dispatchWindowOp(p)
	case 'q':
		if len(p.inter) > 0 && p.inter[len(p.inter)-1] == ' ' {
			e.handler.SetCursorStyle(CursorStyle(p.argOrZero(0)))
		}
	}
}

// dispatchPrivateMode handles CSI ? Pm h/l (DEC private modes); other
// private-marker finals in this range are not modeled and are ignored.
func (e *Emulator) dispatchPrivateMode(final byte, p *params) {
	switch final {
	case 'h':
		for i := 0; i < p.count(); i++ {
			e.handler.SetMode(decPrivateMode(p.arg(i, 0)))
		}
	case 'l':
		for i := 0; i < p.count(); i++ {
			e.handler.UnsetMode(decPrivateMode(p.arg(i, 0)))
		}
	}
}

// decPrivateMode maps a DEC private mode number (the "?1049" in
// "CSI ? 1049 h") onto the wire-level Mode enum. Modes not implemented
// by any Handler map to a value no Handler branch recognizes.
func decPrivateMode(n int) Mode {
	switch n {
	case 1:
		return ModeCursorKeys
	case 3:
		return ModeColumnMode
	case 6:
		return ModeOrigin
	case 7:
		return ModeLineWrap
	case 12:
		return ModeBlinkingCursor
	case 25:
		return ModeShowCursor
	case 1000:
		return ModeReportMouseClicks
	case 1002:
		return ModeReportCellMouseMotion
	case 1003:
		return ModeReportAllMouseMotion
	case 1004:
		return ModeReportFocusInOut
	case 1005:
		return ModeUTF8Mouse
	case 1006:
		return ModeSGRMouse
	case 1007:
		return ModeAlternateScroll
	case 1042:
		return ModeUrgencyHints
	case 1049:
		return ModeSwapScreenAndSetRestoreCursor
	case 2004:
		return ModeBracketedPaste
	default:
		return Mode(-1)
	}
}

// ansiMode maps an ANSI mode number (the "4" in "CSI 4 h") onto the
// wire-level Mode enum, with the same fallback as decPrivateMode.
func ansiMode(n int) Mode {
	switch n {
	case 4:
		return ModeInsert
	case 20:
		return ModeLineFeedNewLine
	default:
		return Mode(-1)
	}
}

// dispatchKeyboardMode handles the Kitty keyboard protocol family:
// CSI > Pm u (push), CSI < Pm u (pop), CSI = Pm ; Pb u (set), and
// CSI ? u (report).
func (e *Emulator) dispatchKeyboardMode(marker byte, p *params) {
	switch marker {
	case '>':
		e.handler.PushKeyboardMode(KeyboardMode(p.argOrZero(0)))
	case '<':
		n := p.argOrZero(0)
		if n == 0 {
			n = 1
		}
		e.handler.PopKeyboardMode(n)
	case '=':
		behavior := KeyboardModeBehavior(p.arg(1, int(KeyboardModeBehaviorReplace)))
		e.handler.SetKeyboardMode(KeyboardMode(p.argOrZero(0)), behavior)
	case '?':
		e.handler.ReportKeyboardMode()
	}
}

// dispatchWindowOp handles the xterm CSI Ps t window-manipulation
// family, restricted to the text-geometry queries and the title stack
// (22 push, 23 pop) this core supports.
func (e *Emulator) dispatchWindowOp(p *params) {
	switch p.argOrZero(0) {
	case 22:
		e.handler.PushTitle()
	case 23:
		e.handler.PopTitle()
	case 14:
		e.handler.TextAreaSizePixels()
	case 16:
		e.handler.CellSizePixels()
	case 18:
		e.handler.TextAreaSizeChars()
	}
}

// dispatchSGR parses a CSI Pm m sequence, resolving each parameter (and
// its 38/48;5;n or 38/48;2;r;g;b sub-parameters) into a
// TerminalCharAttribute, reporting one SGR param field at a time.
func (e *Emulator) dispatchSGR(p *params) {
	if p.count() == 0 {
		e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeReset})
		return
	}

	for i := 0; i < p.count(); i++ {
		n := p.arg(i, 0)
		switch {
		case n == 0:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeReset})
		case n == 1:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBold})
		case n == 2:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDim})
		case n == 3:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeItalic})
		case n == 4:
			sub := p.arg(i+1, -1)
			switch {
			case i+1 < p.count() && sub == 2:
				e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDoubleUnderline})
				i++
			case i+1 < p.count() && sub == 3:
				e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCurlyUnderline})
				i++
			case i+1 < p.count() && sub == 4:
				e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDottedUnderline})
				i++
			case i+1 < p.count() && sub == 5:
				e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDashedUnderline})
				i++
			default:
				e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeUnderline})
			}
		case n == 5:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBlinkSlow})
		case n == 6:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBlinkFast})
		case n == 7:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeReverse})
		case n == 8:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeHidden})
		case n == 9:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeStrike})
		case n == 21:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelBold})
		case n == 22:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelBoldDim})
		case n == 23:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelItalic})
		case n == 24:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelUnderline})
		case n == 25:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelBlink})
		case n == 27:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelReverse})
		case n == 28:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelHidden})
		case n == 29:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelStrike})
		case n >= 30 && n <= 37:
			e.namedColor(CharAttributeForeground, n-30)
		case n == 38:
			i = e.extendedColor(p, i, CharAttributeForeground)
		case n == 39:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeForeground})
		case n >= 40 && n <= 47:
			e.namedColor(CharAttributeBackground, n-40)
		case n == 48:
			i = e.extendedColor(p, i, CharAttributeBackground)
		case n == 49:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBackground})
		case n == 58:
			i = e.extendedColor(p, i, CharAttributeUnderlineColor)
		case n == 59:
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeUnderlineColor})
		case n >= 90 && n <= 97:
			e.namedColor(CharAttributeForeground, n-90+8)
		case n >= 100 && n <= 107:
			e.namedColor(CharAttributeBackground, n-100+8)
		}
	}
}

func (e *Emulator) namedColor(attr CharAttribute, idx int) {
	id := NamedColorID(idx)
	e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: attr, NamedColor: &id})
}

// extendedColor parses the sub-parameters of a 38/48/58 SGR attribute
// (":5:n" indexed or ":2:r:g:b" direct RGB) starting at index i (which
// holds the 38/48/58 itself), returning the new index to resume from.
func (e *Emulator) extendedColor(p *params, i int, attr CharAttribute) int {
	if i+1 >= p.count() {
		return i
	}
	switch p.arg(i+1, -1) {
	case 5:
		if i+2 < p.count() {
			idx := uint8(p.arg(i+2, 0))
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: attr, IndexedColor: &IndexedColorValue{Index: idx}})
			return i + 2
		}
	case 2:
		if i+4 < p.count() {
			r := uint8(p.arg(i+2, 0))
			g := uint8(p.arg(i+3, 0))
			b := uint8(p.arg(i+4, 0))
			e.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: attr, RGBColor: &RGBColorValue{R: r, G: g, B: b}})
			return i + 4
		}
	}
	return i
}
