package vtcore

import "testing"

func TestRuneWidthAcrossScripts(t *testing.T) {
	cases := []struct {
		name string
		r    rune
		want int
	}{
		{"ascii letter", 'A', 1},
		{"ascii digit", '0', 1},
		{"space", ' ', 1},
		{"CJK ideograph", '中', 2},
		{"hangul syllable", '한', 2},
		{"fullwidth latin", 'Ａ', 2},
		{"combining acute accent is zero-width", '́', 0},
		{"null rune", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := runeWidth(tc.r); got != tc.want {
				t.Errorf("runeWidth(%q) = %d, want %d", tc.r, got, tc.want)
			}
		})
	}
}

func TestIsWideRuneAgreesWithRuneWidthTwo(t *testing.T) {
	for _, r := range []rune{'A', ' ', '0', '́', 0} {
		if isWideRune(r) {
			t.Errorf("isWideRune(%q) = true, want false", r)
		}
	}
	for _, r := range []rune{'中', '日', '本', '한', '글', '가', 'Ａ'} {
		if !isWideRune(r) {
			t.Errorf("isWideRune(%q) = false, want true", r)
		}
	}
}

func TestStringWidthSumsRuneWidths(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"Hello", 5},
		{"中文", 4},
		{"Hello中文", 9},
		{"한글", 4},
		{"é", 1}, // 'e' plus a combining accent: the accent adds no width
	}

	for _, tc := range cases {
		if got := StringWidth(tc.s); got != tc.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tc.s, got, tc.want)
		}
	}
}

// TestWideRuneWidthDrivesBufferSpacerPlacement grounds runeWidth's contract
// in what it's actually used for: deciding whether Terminal.Write pairs the
// cell with a wide-char spacer.
func TestWideRuneWidthDrivesBufferSpacerPlacement(t *testing.T) {
	term := New(WithSize(3, 10))
	term.WriteString("a")
	term.WriteString("中")

	if term.Cell(0, 1) == nil || !term.Cell(0, 1).IsWide() {
		t.Fatal("a rune with width 2 should occupy a lead cell flagged wide")
	}
	if term.Cell(0, 2) == nil || !term.Cell(0, 2).IsWideSpacer() {
		t.Fatal("a rune with width 2 should be followed by a spacer cell")
	}
	if row, col := term.CursorPos(); row != 0 || col != 3 {
		t.Errorf("cursor after 1-wide + 2-wide runes = (%d,%d), want (0,3)", row, col)
	}
}
