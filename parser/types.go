// Package parser implements a VT500-style escape sequence state machine.
// It decodes a byte stream into calls against a Handler, the way a real
// terminal's control interpreter drives a screen model.
package parser

// ClearMode selects which portion of the screen an erase-display (ED)
// sequence affects.
type ClearMode int

const (
	ClearModeBelow ClearMode = iota
	ClearModeAbove
	ClearModeAll
	ClearModeSaved
)

// LineClearMode selects which portion of a line an erase-line (EL)
// sequence affects.
type LineClearMode int

const (
	LineClearModeRight LineClearMode = iota
	LineClearModeLeft
	LineClearModeAll
)

// TabulationClearMode selects which tab stops a TBC sequence clears.
type TabulationClearMode int

const (
	TabulationClearModeCurrent TabulationClearMode = iota
	TabulationClearModeAll
)

// CharsetIndex selects one of the four G0-G3 character set slots
// designated by an ESC ( / ) / * / + sequence.
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// Charset is the character set designated into a slot.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CursorStyle is the wire-level DECSCUSR cursor shape parameter.
type CursorStyle int

const (
	CursorStyleBlinkingBlockDefault CursorStyle = iota
	CursorStyleBlinkingBlock
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Hyperlink is the payload of an OSC 8 sequence.
type Hyperlink struct {
	ID  string
	URI string
}

// KeyboardMode is a bitmask of Kitty keyboard protocol progressive
// enhancement flags.
type KeyboardMode uint8

const KeyboardModeNoMode KeyboardMode = 0

const (
	KeyboardModeDisambiguateEscapeCodes KeyboardMode = 1 << iota
	KeyboardModeReportEventTypes
	KeyboardModeReportAlternateKeys
	KeyboardModeReportAllKeysAsEscapeCodes
	KeyboardModeReportAssociatedText
)

// KeyboardModeBehavior selects how a CSI > u / CSI = u sequence combines
// its argument with the mode currently on top of the stack.
type KeyboardModeBehavior int

const (
	KeyboardModeBehaviorReplace KeyboardModeBehavior = iota
	KeyboardModeBehaviorUnion
	KeyboardModeBehaviorDifference
)

// ModifyOtherKeys is the xterm modifyOtherKeys setting (CSI > 4 ; n m).
type ModifyOtherKeys int

// Mode is a terminal mode settable via CSI h (set) / CSI l (reset),
// ANSI modes and DEC private modes (prefixed with '?') alike.
type Mode int

const (
	ModeCursorKeys Mode = iota
	ModeColumnMode
	ModeInsert
	ModeOrigin
	ModeLineWrap
	ModeBlinkingCursor
	ModeLineFeedNewLine
	ModeShowCursor
	ModeReportMouseClicks
	ModeReportCellMouseMotion
	ModeReportAllMouseMotion
	ModeReportFocusInOut
	ModeUTF8Mouse
	ModeSGRMouse
	ModeAlternateScroll
	ModeUrgencyHints
	ModeSwapScreenAndSetRestoreCursor
	ModeBracketedPaste
)

// CharAttribute identifies an SGR (Select Graphic Rendition) parameter.
type CharAttribute int

const (
	CharAttributeReset CharAttribute = iota
	CharAttributeBold
	CharAttributeDim
	CharAttributeItalic
	CharAttributeUnderline
	CharAttributeDoubleUnderline
	CharAttributeCurlyUnderline
	CharAttributeDottedUnderline
	CharAttributeDashedUnderline
	CharAttributeBlinkSlow
	CharAttributeBlinkFast
	CharAttributeReverse
	CharAttributeHidden
	CharAttributeStrike
	CharAttributeCancelBold
	CharAttributeCancelBoldDim
	CharAttributeCancelItalic
	CharAttributeCancelUnderline
	CharAttributeCancelBlink
	CharAttributeCancelReverse
	CharAttributeCancelHidden
	CharAttributeCancelStrike
	CharAttributeForeground
	CharAttributeBackground
	CharAttributeUnderlineColor
)

// RGBColorValue is a direct 24-bit SGR color (38/48;2;r;g;b).
type RGBColorValue struct {
	R, G, B uint8
}

// IndexedColorValue is an indexed SGR color (38/48;5;n).
type IndexedColorValue struct {
	Index uint8
}

// NamedColorID is a basic 3/4-bit SGR color (30-37, 40-47, 90-97, 100-107).
type NamedColorID int

// TerminalCharAttribute is one SGR parameter resolved from a CSI ... m
// sequence: the attribute being changed plus, for color attributes, the
// resolved color source (at most one of the three pointers is non-nil).
type TerminalCharAttribute struct {
	Attr         CharAttribute
	RGBColor     *RGBColorValue
	IndexedColor *IndexedColorValue
	NamedColor   *NamedColorID
}

// ShellIntegrationMark identifies an OSC 133 shell integration mark.
type ShellIntegrationMark int

const (
	PromptStart ShellIntegrationMark = iota
	CommandStart
	CommandExecuted
	CommandFinished
)
