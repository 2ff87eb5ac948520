package vtcore

import (
	"testing"

	"github.com/danielgatis/vtcore/parser"
)

func TestShellIntegrationMarkTypesAndExitCodes(t *testing.T) {
	cases := []struct {
		name     string
		seq      string
		wantType parser.ShellIntegrationMark
		wantCode int
	}{
		{"prompt start has no exit code", "\x1b]133;A\x07", parser.PromptStart, -1},
		{"command start has no exit code", "\x1b]133;B\x07", parser.CommandStart, -1},
		{"command executed has no exit code", "\x1b]133;C\x07", parser.CommandExecuted, -1},
		{"command finished with no code defaults to -1", "\x1b]133;D\x07", parser.CommandFinished, -1},
		{"command finished with exit code 0", "\x1b]133;D;0\x07", parser.CommandFinished, 0},
		{"command finished with nonzero exit code", "\x1b]133;D;127\x07", parser.CommandFinished, 127},
		{"ST terminator works the same as BEL", "\x1b]133;A\x1b\\", parser.PromptStart, -1},
		{"exit code arrives after marking via ESC-backslash", "\x1b]133;D;5\x1b\\", parser.CommandFinished, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			term.WriteString(tc.seq)

			marks := term.PromptMarks()
			if len(marks) != 1 {
				t.Fatalf("got %d marks, want 1", len(marks))
			}
			if marks[0].Type != tc.wantType {
				t.Errorf("Type = %d, want %d", marks[0].Type, tc.wantType)
			}
			if marks[0].ExitCode != tc.wantCode {
				t.Errorf("ExitCode = %d, want %d", marks[0].ExitCode, tc.wantCode)
			}
		})
	}
}

func TestShellIntegrationFullPromptCycleOrderAndExitCode(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]133;A\x07")
	term.WriteString("$ ")
	term.WriteString("\x1b]133;B\x07")
	term.WriteString("ls -la\r\n")
	term.WriteString("\x1b]133;C\x07")
	term.WriteString("file1\r\nfile2\r\n")
	term.WriteString("\x1b]133;D;0\x07")

	marks := term.PromptMarks()
	wantTypes := []parser.ShellIntegrationMark{
		parser.PromptStart, parser.CommandStart, parser.CommandExecuted, parser.CommandFinished,
	}
	if len(marks) != len(wantTypes) {
		t.Fatalf("got %d marks, want %d", len(marks), len(wantTypes))
	}
	for i, want := range wantTypes {
		if marks[i].Type != want {
			t.Errorf("mark %d type = %d, want %d", i, marks[i].Type, want)
		}
	}
	if marks[3].ExitCode != 0 {
		t.Errorf("final mark exit code = %d, want 0", marks[3].ExitCode)
	}
}

// TestShellIntegrationMarksUseAbsoluteRowsAcrossScrollback grounds PromptMark.Row
// in the absolute-row convention (cursor row + scrollback length) that also
// backs Terminal.ViewportRowToAbsolute/AbsoluteRowToViewport.
func TestShellIntegrationMarksUseAbsoluteRowsAcrossScrollback(t *testing.T) {
	term := New(WithSize(3, 10), WithScrollback(NewMemoryScrollback(100)))

	term.WriteString("\x1b]133;A\x07") // absolute row 0, nothing scrolled yet
	term.WriteString("l1\r\n")
	term.WriteString("l2\r\n")
	term.WriteString("l3\r\n")
	term.WriteString("l4\r\n") // pushes at least one row into scrollback
	term.WriteString("\x1b]133;A\x07")

	marks := term.PromptMarks()
	if len(marks) != 2 {
		t.Fatalf("got %d marks, want 2", len(marks))
	}
	if marks[0].Row != 0 {
		t.Errorf("first mark row = %d, want 0", marks[0].Row)
	}
	if marks[1].Row <= marks[0].Row {
		t.Errorf("second mark row (%d) should be greater than the first (%d) once scrollback has grown", marks[1].Row, marks[0].Row)
	}

	// The first mark's row has since scrolled into history, so it must
	// report as out of the viewport.
	if vp := term.AbsoluteRowToViewport(marks[0].Row); vp != -1 {
		t.Errorf("AbsoluteRowToViewport(%d) = %d, want -1 (scrolled into history)", marks[0].Row, vp)
	}
}

func TestNextAndPrevPromptRowWalkInBothDirections(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("\x1b]133;A\x07") // row 0
	term.WriteString("prompt1\r\n")
	term.WriteString("\x1b]133;A\x07") // row 1
	term.WriteString("prompt2\r\n")
	term.WriteString("\x1b]133;A\x07") // row 2

	next := term.NextPromptRow(-1, -1)
	if next != 0 {
		t.Errorf("NextPromptRow(-1,-1) = %d, want 0", next)
	}
	next = term.NextPromptRow(next, -1)
	if next != 1 {
		t.Errorf("NextPromptRow(0,-1) = %d, want 1", next)
	}
	next = term.NextPromptRow(next, -1)
	if next != 2 {
		t.Errorf("NextPromptRow(1,-1) = %d, want 2", next)
	}
	if got := term.NextPromptRow(next, -1); got != -1 {
		t.Errorf("NextPromptRow(2,-1) = %d, want -1 (no more prompts)", got)
	}

	prev := term.PrevPromptRow(3, -1)
	if prev != 2 {
		t.Errorf("PrevPromptRow(3,-1) = %d, want 2", prev)
	}
	prev = term.PrevPromptRow(prev, -1)
	if prev != 1 {
		t.Errorf("PrevPromptRow(2,-1) = %d, want 1", prev)
	}
	prev = term.PrevPromptRow(prev, -1)
	if prev != 0 {
		t.Errorf("PrevPromptRow(1,-1) = %d, want 0", prev)
	}
	if got := term.PrevPromptRow(prev, -1); got != -1 {
		t.Errorf("PrevPromptRow(0,-1) = %d, want -1 (no earlier prompts)", got)
	}
}

func TestNextPromptRowFiltersByMarkType(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("\x1b]133;A\x07") // PromptStart, row 0
	term.WriteString("prompt\r\n")
	term.WriteString("\x1b]133;B\x07") // CommandStart, row 1
	term.WriteString("cmd\r\n")
	term.WriteString("\x1b]133;C\x07") // CommandExecuted, row 2
	term.WriteString("output\r\n")
	term.WriteString("\x1b]133;A\x07") // PromptStart, row 3

	if got := term.NextPromptRow(-1, parser.PromptStart); got != 0 {
		t.Errorf("NextPromptRow filtered by PromptStart from -1 = %d, want 0", got)
	}
	if got := term.NextPromptRow(0, parser.PromptStart); got != 3 {
		t.Errorf("NextPromptRow filtered by PromptStart from 0 = %d, want 3 (skipping B and C)", got)
	}
	if got := term.NextPromptRow(-1, parser.CommandStart); got != 1 {
		t.Errorf("NextPromptRow filtered by CommandStart = %d, want 1", got)
	}
}

func TestPromptMarkCountClearAndLookupByRow(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("\x1b]133;A\x07")
	term.WriteString("\x1b]133;B\x07")

	if term.PromptMarkCount() != 2 {
		t.Fatalf("PromptMarkCount() = %d, want 2", term.PromptMarkCount())
	}

	mark := term.GetPromptMarkAt(0)
	if mark == nil || mark.Type != parser.PromptStart {
		t.Fatalf("GetPromptMarkAt(0) = %v, want a PromptStart mark", mark)
	}
	if term.GetPromptMarkAt(99) != nil {
		t.Error("GetPromptMarkAt on a row with no mark should return nil")
	}

	term.ClearPromptMarks()
	if term.PromptMarkCount() != 0 {
		t.Errorf("PromptMarkCount() after ClearPromptMarks = %d, want 0", term.PromptMarkCount())
	}
	if term.GetPromptMarkAt(0) != nil {
		t.Error("GetPromptMarkAt should return nil after ClearPromptMarks")
	}
}

type testShellIntegrationProvider struct {
	marks []parser.ShellIntegrationMark
	codes []int
}

func (p *testShellIntegrationProvider) OnMark(mark parser.ShellIntegrationMark, exitCode int) {
	p.marks = append(p.marks, mark)
	p.codes = append(p.codes, exitCode)
}

func TestShellIntegrationProviderReceivesEachMark(t *testing.T) {
	provider := &testShellIntegrationProvider{}
	term := New(WithSize(24, 80), WithShellIntegration(provider))

	term.WriteString("\x1b]133;A\x07")
	term.WriteString("\x1b]133;D;42\x07")

	if len(provider.marks) != 2 {
		t.Fatalf("provider recorded %d marks, want 2", len(provider.marks))
	}
	if provider.marks[0] != parser.PromptStart || provider.marks[1] != parser.CommandFinished {
		t.Errorf("provider marks = %v, want [PromptStart CommandFinished]", provider.marks)
	}
	if provider.codes[1] != 42 {
		t.Errorf("provider recorded exit code %d for CommandFinished, want 42", provider.codes[1])
	}
}

func TestShellIntegrationProviderCanBeReplacedAtRuntime(t *testing.T) {
	first := &testShellIntegrationProvider{}
	term := New(WithSize(24, 80), WithShellIntegration(first))
	term.WriteString("\x1b]133;A\x07")

	second := &testShellIntegrationProvider{}
	term.SetShellIntegrationProvider(second)
	term.WriteString("\x1b]133;B\x07")

	if len(first.marks) != 1 {
		t.Errorf("original provider saw %d marks after being replaced, want 1", len(first.marks))
	}
	if len(second.marks) != 1 {
		t.Errorf("new provider saw %d marks, want 1", len(second.marks))
	}
	if term.ShellIntegrationProviderValue() != second {
		t.Error("ShellIntegrationProviderValue() should return the replacement provider")
	}
}

func TestShellIntegrationMiddlewareObservesMarkAndExitCode(t *testing.T) {
	var called bool
	var gotMark parser.ShellIntegrationMark
	var gotCode int

	mw := &Middleware{
		ShellIntegrationMark: func(mark parser.ShellIntegrationMark, exitCode int, next func(parser.ShellIntegrationMark, int)) {
			called = true
			gotMark = mark
			gotCode = exitCode
			next(mark, exitCode)
		},
	}
	term := New(WithSize(24, 80), WithMiddleware(mw))
	term.WriteString("\x1b]133;D;123\x07")

	if !called {
		t.Fatal("expected middleware hook to run")
	}
	if gotMark != parser.CommandFinished || gotCode != 123 {
		t.Errorf("middleware saw (%d,%d), want (CommandFinished,123)", gotMark, gotCode)
	}
	if term.PromptMarkCount() != 1 {
		t.Error("mark should still be recorded after passing through middleware")
	}
}

func TestShellIntegrationMiddlewareCanSuppressRecording(t *testing.T) {
	mw := &Middleware{
		ShellIntegrationMark: func(mark parser.ShellIntegrationMark, exitCode int, next func(parser.ShellIntegrationMark, int)) {
			// Don't call next: the mark should never be recorded.
		},
	}
	term := New(WithSize(24, 80), WithMiddleware(mw))
	term.WriteString("\x1b]133;A\x07")

	if term.PromptMarkCount() != 0 {
		t.Errorf("PromptMarkCount() = %d, want 0 when middleware suppresses the mark", term.PromptMarkCount())
	}
}

func TestGetLastCommandOutputScenarios(t *testing.T) {
	t.Run("basic single-line output", func(t *testing.T) {
		term := New(WithSize(24, 80))
		term.WriteString("\x1b]133;A\x07")
		term.WriteString("$ ")
		term.WriteString("\x1b]133;B\x07")
		term.WriteString("echo hello\r\n")
		term.WriteString("\x1b]133;C\x07")
		term.WriteString("hello\r\n")
		term.WriteString("\x1b]133;D;0\x07")

		if got := term.GetLastCommandOutput(); got != "hello" {
			t.Errorf("got %q, want hello", got)
		}
	})

	t.Run("multi-line output joined with newlines", func(t *testing.T) {
		term := New(WithSize(24, 80))
		term.WriteString("\x1b]133;C\x07")
		term.WriteString("line1\r\nline2\r\nline3\r\n")
		term.WriteString("\x1b]133;D;0\x07")

		want := "line1\nline2\nline3"
		if got := term.GetLastCommandOutput(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("no output between marks is empty", func(t *testing.T) {
		term := New(WithSize(24, 80))
		term.WriteString("\x1b]133;C\x07")
		term.WriteString("\x1b]133;D;0\x07")

		if got := term.GetLastCommandOutput(); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("no marks at all is empty", func(t *testing.T) {
		term := New(WithSize(24, 80))
		if got := term.GetLastCommandOutput(); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("executed without a matching finished is empty", func(t *testing.T) {
		term := New(WithSize(24, 80))
		term.WriteString("\x1b]133;C\x07")
		term.WriteString("output\r\n")

		if got := term.GetLastCommandOutput(); got != "" {
			t.Errorf("got %q, want empty (unterminated command)", got)
		}
	})

	t.Run("only the most recent command's output is returned", func(t *testing.T) {
		term := New(WithSize(24, 80))
		term.WriteString("\x1b]133;C\x07")
		term.WriteString("first output\r\n")
		term.WriteString("\x1b]133;D;0\x07")

		term.WriteString("\x1b]133;A\x07")
		term.WriteString("$ ")
		term.WriteString("\x1b]133;B\x07")
		term.WriteString("cmd2\r\n")
		term.WriteString("\x1b]133;C\x07")
		term.WriteString("second output\r\n")
		term.WriteString("\x1b]133;D;0\x07")

		if got := term.GetLastCommandOutput(); got != "second output" {
			t.Errorf("got %q, want second output", got)
		}
	})

	t.Run("trailing blank lines are trimmed", func(t *testing.T) {
		term := New(WithSize(24, 80))
		term.WriteString("\x1b]133;C\x07")
		term.WriteString("content\r\n\r\n\r\n")
		term.WriteString("\x1b]133;D;0\x07")

		if got := term.GetLastCommandOutput(); got != "content" {
			t.Errorf("got %q, want content", got)
		}
	})

	t.Run("nonzero exit code does not affect output extraction", func(t *testing.T) {
		term := New(WithSize(24, 80))
		term.WriteString("\x1b]133;C\x07")
		term.WriteString("error message\r\n")
		term.WriteString("\x1b]133;D;1\x07")

		if got := term.GetLastCommandOutput(); got != "error message" {
			t.Errorf("got %q, want error message", got)
		}
	})
}

// TestGetLastCommandOutputReachesIntoScrollback exercises
// extractTextBetweenRows' scrollback branch: output that has scrolled off
// screen by the time D arrives must still be recoverable by absolute row.
func TestGetLastCommandOutputReachesIntoScrollback(t *testing.T) {
	term := New(WithSize(3, 80), WithScrollback(NewMemoryScrollback(100)))

	term.WriteString("\x1b]133;C\x07")
	term.WriteString("first\r\nsecond\r\nthird\r\nfourth\r\nfifth\r\n")
	term.WriteString("\x1b]133;D;0\x07")

	want := "first\nsecond\nthird\nfourth\nfifth"
	if got := term.GetLastCommandOutput(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
