package parser

import "image/color"

// Handler receives dispatch calls from an Emulator as it decodes a byte
// stream. A screen model implements Handler to turn escape sequences into
// state changes; Emulator itself has no notion of cursors, cells, or
// buffers.
type Handler interface {
	// Text and control characters.
	Input(r rune)
	Backspace()
	Bell()
	CarriageReturn()
	LineFeed()
	ReverseIndex()
	HorizontalTabSet()
	Tab(n int)
	Substitute()

	// Cursor motion.
	Goto(row, col int)
	GotoCol(col int)
	GotoLine(row int)
	MoveUp(n int)
	MoveDown(n int)
	MoveForward(n int)
	MoveBackward(n int)
	MoveUpCr(n int)
	MoveDownCr(n int)
	MoveForwardTabs(n int)
	MoveBackwardTabs(n int)
	SaveCursorPosition()
	RestoreCursorPosition()

	// Editing.
	InsertBlank(n int)
	InsertBlankLines(n int)
	DeleteChars(n int)
	DeleteLines(n int)
	EraseChars(n int)
	ClearLine(mode LineClearMode)
	ClearScreen(mode ClearMode)
	ClearTabs(mode TabulationClearMode)
	Decaln()
	ScrollUp(n int)
	ScrollDown(n int)
	SetScrollingRegion(top, bottom int)

	// Modes and attributes.
	SetMode(mode Mode)
	UnsetMode(mode Mode)
	SetTerminalCharAttribute(attr TerminalCharAttribute)
	SetActiveCharset(n int)
	ConfigureCharset(index CharsetIndex, charset Charset)
	SetCursorStyle(style CursorStyle)
	SetKeypadApplicationMode()
	UnsetKeypadApplicationMode()
	SetModifyOtherKeys(modify ModifyOtherKeys)
	ReportModifyOtherKeys()
	PushKeyboardMode(mode KeyboardMode)
	PopKeyboardMode(n int)
	SetKeyboardMode(mode KeyboardMode, behavior KeyboardModeBehavior)
	ReportKeyboardMode()

	// Colors and hyperlinks.
	SetColor(index int, c color.Color)
	ResetColor(i int)
	SetDynamicColor(prefix string, index int, terminator string)
	SetHyperlink(hyperlink *Hyperlink)

	// Titles and window/device queries.
	SetTitle(title string)
	PushTitle()
	PopTitle()
	IdentifyTerminal(b byte)
	DeviceStatus(n int)
	TextAreaSizeChars()
	TextAreaSizePixels()
	CellSizePixels()
	SetWorkingDirectory(uri string)
	ShellIntegrationMark(mark ShellIntegrationMark, exitCode int)

	// Clipboard (OSC 52).
	ClipboardLoad(clipboard byte, terminator string)
	ClipboardStore(clipboard byte, data []byte)

	// String-typed escapes delegated to external providers.
	ApplicationCommandReceived(data []byte)
	PrivacyMessageReceived(data []byte)
	StartOfStringReceived(data []byte)

	// Full reset.
	ResetState()
}
