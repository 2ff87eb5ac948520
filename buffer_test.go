package vtcore

import "testing"

func cellsToString(cells []Cell) string {
	runes := make([]rune, len(cells))
	for i, c := range cells {
		if c.Char == 0 {
			runes[i] = ' '
		} else {
			runes[i] = c.Char
		}
	}
	return string(runes)
}

func fillRow(b *Buffer, row int, text string, wrapped bool) {
	for col, r := range []rune(text) {
		b.Cell(row, col).Char = r
	}
	b.SetWrapped(row, wrapped)
}

func TestNewBufferDimensionsAndTabStops(t *testing.T) {
	b := NewBuffer(24, 80)

	if b.Rows() != 24 || b.Cols() != 80 {
		t.Fatalf("got %dx%d, want 24x80", b.Rows(), b.Cols())
	}
	if next := b.NextTabStop(0); next != 8 {
		t.Errorf("NextTabStop(0) = %d, want 8", next)
	}
	if prev := b.PrevTabStop(16); prev != 8 {
		t.Errorf("PrevTabStop(16) = %d, want 8", prev)
	}
}

func TestCellAccessAndBoundsChecking(t *testing.T) {
	b := NewBuffer(10, 10)

	for _, pos := range []struct{ row, col int }{
		{-1, 0}, {0, -1}, {10, 0}, {0, 10},
	} {
		if b.Cell(pos.row, pos.col) != nil {
			t.Errorf("Cell(%d,%d) should be nil (out of bounds)", pos.row, pos.col)
		}
	}

	b.Cell(3, 4).Char = 'Z'
	if got := b.Cell(3, 4).Char; got != 'Z' {
		t.Errorf("Cell(3,4) = %q, want Z", got)
	}
}

func TestScrollUpFeedsScrollbackOnlyFromTop(t *testing.T) {
	storage := NewMemoryScrollback(100)
	b := NewBufferWithStorage(5, 10, storage)
	for row := 0; row < 5; row++ {
		fillRow(b, row, string(rune('A'+row)), false)
	}

	// Scrolling a region that starts below row 0 (e.g. a DECSTBM-restricted
	// area) must not touch scrollback.
	b.ScrollUp(1, 5, 1)
	if b.ScrollbackLen() != 0 {
		t.Fatalf("region scroll pushed %d lines to scrollback, want 0", b.ScrollbackLen())
	}

	b.ScrollUp(0, 5, 2)
	if b.ScrollbackLen() != 2 {
		t.Fatalf("ScrollbackLen() = %d, want 2", b.ScrollbackLen())
	}
	if got := cellsToString(b.ScrollbackLine(0))[:1]; got != "A" {
		t.Errorf("oldest scrollback line starts with %q, want A", got)
	}
}

func TestScrollDownClearsTopAndShiftsWrapFlags(t *testing.T) {
	b := NewBuffer(5, 10)
	fillRow(b, 0, "x", true)
	fillRow(b, 1, "y", false)

	b.ScrollDown(0, 5, 1)

	if b.IsWrapped(0) {
		t.Error("row scrolled in from nowhere should not be wrapped")
	}
	if !b.IsWrapped(1) {
		t.Error("wrap flag should have moved down with row 0's content")
	}
	if b.Cell(1, 0).Char != 'x' {
		t.Errorf("row 1 = %q, want x", b.Cell(1, 0).Char)
	}
}

func TestLineContentTrimsTrailingSpaceAndSkipsWideSpacers(t *testing.T) {
	b := NewBuffer(3, 10)
	fillRow(b, 0, "hi", false)
	if got := b.LineContent(0); got != "hi" {
		t.Errorf("LineContent(0) = %q, want hi", got)
	}

	b.Cell(1, 0).Char = '世'
	b.Cell(1, 0).SetFlag(CellFlagWideChar)
	b.Cell(1, 1).SetFlag(CellFlagWideCharSpacer)
	b.Cell(1, 2).Char = '!'
	if got := b.LineContent(1); got != "世!" {
		t.Errorf("LineContent(1) = %q, want 世!", got)
	}

	if got := b.LineContent(2); got != "" {
		t.Errorf("LineContent(2) on a blank row = %q, want empty", got)
	}
}

func TestResizePreservesTopLeftAndExtendsTabStops(t *testing.T) {
	b := NewBuffer(5, 10)
	fillRow(b, 0, "hello", false)

	b.Resize(8, 20)

	if b.Rows() != 8 || b.Cols() != 20 {
		t.Fatalf("got %dx%d, want 8x20", b.Rows(), b.Cols())
	}
	if got := b.LineContent(0); got != "hello" {
		t.Errorf("content lost across plain Resize: got %q", got)
	}
	if next := b.NextTabStop(8); next != 16 {
		t.Errorf("expected a tab stop extended to col 16, got next=%d", next)
	}
}

func TestReflowJoinsWrappedRunAndRewrapsAtNewWidth(t *testing.T) {
	b := NewBuffer(5, 6)
	fillRow(b, 0, "abcdef", true)
	fillRow(b, 1, "ghi", false)

	b.Reflow(5, 3)

	if got := b.LineContent(0); got != "abc" {
		t.Errorf("row 0 = %q, want abc", got)
	}
	if got := b.LineContent(1); got != "def" {
		t.Errorf("row 1 = %q, want def", got)
	}
	if !b.IsWrapped(0) || !b.IsWrapped(1) {
		t.Error("reflowed continuation rows should carry the wrapped flag")
	}
	if got := b.LineContent(2); got != "ghi" {
		t.Errorf("row 2 = %q, want ghi", got)
	}
	if b.IsWrapped(2) {
		t.Error("row that ended with an explicit newline should not be wrapped after reflow")
	}
}

func TestReflowWideningRejoinsPreviouslySplitLine(t *testing.T) {
	b := NewBuffer(5, 3)
	fillRow(b, 0, "abc", true)
	fillRow(b, 1, "def", false)

	b.Reflow(5, 6)

	if got := b.LineContent(0); got != "abcdef" {
		t.Errorf("row 0 after widening = %q, want abcdef", got)
	}
	if b.IsWrapped(0) {
		t.Error("row no longer split at the new width should not be marked wrapped")
	}
}

func TestReflowPushesOverflowingRowsToScrollback(t *testing.T) {
	storage := NewMemoryScrollback(100)
	b := NewBufferWithStorage(3, 3, storage)
	fillRow(b, 0, "abc", true) // "abcdef" spans two physical rows at width 3
	fillRow(b, 1, "def", false)
	fillRow(b, 2, "ghi", false)

	// At width 1 the first logical line alone needs 6 rows, more than the
	// 2-row viewport, so the oldest reflowed rows must spill to scrollback.
	b.Reflow(2, 1)

	if b.ScrollbackLen() == 0 {
		t.Fatal("expected reflow overflow to land in scrollback")
	}
	joined := ""
	for i := 0; i < b.ScrollbackLen(); i++ {
		joined += cellsToString(b.ScrollbackLine(i))
	}
	for row := 0; row < b.Rows(); row++ {
		joined += b.LineContent(row)
	}
	if joined != "abcdefghi" {
		t.Errorf("reflow lost content across scrollback boundary: got %q, want abcdefghi", joined)
	}
}

func TestReflowPreservesBlankLogicalLines(t *testing.T) {
	b := NewBuffer(3, 5)
	fillRow(b, 0, "hi", false)
	// row 1 left blank, ends with an explicit newline (not wrapped)

	b.Reflow(3, 10)

	if got := b.LineContent(1); got != "" {
		t.Errorf("blank logical line should survive reflow as empty, got %q", got)
	}
}

func TestReflowSameWidthDegradesToPlainResize(t *testing.T) {
	b := NewBuffer(5, 10)
	fillRow(b, 0, "abc", true)

	b.Reflow(8, 10)

	if b.Rows() != 8 {
		t.Fatalf("Rows() = %d, want 8", b.Rows())
	}
	if got := b.LineContent(0); got != "abc" {
		t.Errorf("row 0 = %q, want abc (unchanged by a column-stable reflow)", got)
	}
}

func TestWrappedLineTrackingOutOfBoundsIsSafe(t *testing.T) {
	b := NewBuffer(5, 10)

	b.SetWrapped(0, true)
	if !b.IsWrapped(0) {
		t.Error("expected row 0 to be wrapped")
	}
	b.SetWrapped(0, false)
	if b.IsWrapped(0) {
		t.Error("expected row 0 unwrapped after clearing")
	}

	b.SetWrapped(-1, true)
	b.SetWrapped(100, true)
	if b.IsWrapped(-1) || b.IsWrapped(100) {
		t.Error("out-of-bounds wrap queries must report false, not panic")
	}
}

func TestInsertAndDeleteCharsShiftRowContent(t *testing.T) {
	b := NewBuffer(1, 10)
	fillRow(b, 0, "ABCD", false)

	b.InsertBlanks(0, 1, 2)
	if b.Cell(0, 1).Char != ' ' || b.Cell(0, 2).Char != ' ' || b.Cell(0, 3).Char != 'B' {
		t.Errorf("InsertBlanks did not shift tail right: %q", cellsToString(b.cells[0]))
	}

	b.DeleteChars(0, 1, 2)
	if b.Cell(0, 1).Char != 'B' {
		t.Errorf("DeleteChars did not shift tail left: %q", cellsToString(b.cells[0]))
	}
}

func TestGrowRowsAppendsBlankRowsAtBottom(t *testing.T) {
	b := NewBuffer(3, 5)
	fillRow(b, 2, "end", false)

	b.GrowRows(2)

	if b.Rows() != 5 {
		t.Fatalf("Rows() = %d, want 5", b.Rows())
	}
	if got := b.LineContent(2); got != "end" {
		t.Errorf("existing content moved during GrowRows: got %q", got)
	}
	if got := b.LineContent(4); got != "" {
		t.Errorf("new row should be blank, got %q", got)
	}
}

func TestGrowColsWidensOnlyTheTargetRow(t *testing.T) {
	b := NewBuffer(3, 5)
	fillRow(b, 1, "hi", false)

	b.GrowCols(1, 12)

	if len(b.cells[1]) != 12 {
		t.Fatalf("row 1 width = %d, want 12", len(b.cells[1]))
	}
	if len(b.cells[0]) != 12 {
		t.Errorf("GrowCols widened the buffer's tracked Cols(), so other rows should follow: row 0 width = %d", len(b.cells[0]))
	}
	if got := b.LineContent(1); got != "hi" {
		t.Errorf("content lost during GrowCols: got %q", got)
	}
}

func TestDirtyTrackingMarksAndClears(t *testing.T) {
	b := NewBuffer(4, 4)
	b.ClearAllDirty()
	if b.HasDirty() {
		t.Fatal("freshly cleared buffer should report no dirty cells")
	}

	b.MarkDirty(2, 2)
	if !b.HasDirty() {
		t.Fatal("expected dirty state after MarkDirty")
	}
	dirty := b.DirtyCells()
	if len(dirty) != 1 || dirty[0] != (Position{Row: 2, Col: 2}) {
		t.Errorf("DirtyCells() = %v, want exactly [{2 2}]", dirty)
	}

	b.ClearAllDirty()
	if b.HasDirty() {
		t.Error("expected no dirty cells after ClearAllDirty")
	}
}
