package vtcore

import "testing"

func TestWorkingDirectoryOSC7Terminators(t *testing.T) {
	cases := []struct {
		name string
		seq  string
		want string
	}{
		{"BEL terminator", "\x1b]7;file://localhost/home/user\x07", "file://localhost/home/user"},
		{"ST terminator", "\x1b]7;file://myhost/var/log\x1b\\", "file://myhost/var/log"},
		{"empty hostname", "\x1b]7;file:///home/user\x07", "file:///home/user"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			term.WriteString(tc.seq)
			if got := term.WorkingDirectory(); got != tc.want {
				t.Errorf("WorkingDirectory() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWorkingDirectoryUnsetReturnsEmpty(t *testing.T) {
	term := New(WithSize(24, 80))
	if got := term.WorkingDirectory(); got != "" {
		t.Errorf("WorkingDirectory() on a fresh terminal = %q, want empty", got)
	}
	if got := term.WorkingDirectoryPath(); got != "" {
		t.Errorf("WorkingDirectoryPath() on a fresh terminal = %q, want empty", got)
	}
}

func TestWorkingDirectoryLatestReportWins(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]7;file://localhost/home/user\x07")
	term.WriteString("\x1b]7;file://localhost/tmp\x07")
	term.WriteString("\x1b]7;file://localhost/var/log\x07")

	if got := term.WorkingDirectory(); got != "file://localhost/var/log" {
		t.Errorf("WorkingDirectory() = %q, want the most recent report", got)
	}
}

func TestWorkingDirectoryPathStripsSchemeAndHost(t *testing.T) {
	cases := []struct {
		name string
		seq  string
		want string
	}{
		{"plain hostname", "\x1b]7;file://localhost/home/user\x07", "/home/user"},
		{"dotted hostname", "\x1b]7;file://mycomputer.local/var/log/system\x07", "/var/log/system"},
		{"empty hostname", "\x1b]7;file:///home/user\x07", "/home/user"},
		{"percent-encoding is passed through unchanged", "\x1b]7;file://localhost/home/user/My%20Documents\x07", "/home/user/My%20Documents"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			term.WriteString(tc.seq)
			if got := term.WorkingDirectoryPath(); got != tc.want {
				t.Errorf("WorkingDirectoryPath() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWorkingDirectoryMiddlewareObservesAndCanVeto(t *testing.T) {
	var seen []string
	mw := &Middleware{
		SetWorkingDirectory: func(uri string, next func(string)) {
			seen = append(seen, uri)
			if uri == "file://localhost/blocked" {
				return // veto: don't call next, directory should not change
			}
			next(uri)
		},
	}
	term := New(WithSize(24, 80), WithMiddleware(mw))

	term.WriteString("\x1b]7;file://localhost/allowed\x07")
	if term.WorkingDirectory() != "file://localhost/allowed" {
		t.Fatalf("WorkingDirectory() = %q after allowed report", term.WorkingDirectory())
	}

	term.WriteString("\x1b]7;file://localhost/blocked\x07")
	if term.WorkingDirectory() != "file://localhost/allowed" {
		t.Errorf("WorkingDirectory() = %q, middleware veto should have kept the prior value", term.WorkingDirectory())
	}

	if len(seen) != 2 {
		t.Fatalf("middleware saw %d calls, want 2", len(seen))
	}
}

func TestWorkingDirectorySurvivesReflow(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("\x1b]7;file://localhost/project\x07")
	term.WriteString("some output that will wrap across a resize, long enough to matter here")

	term.Resize(24, 40)

	if got := term.WorkingDirectory(); got != "file://localhost/project" {
		t.Errorf("WorkingDirectory() = %q after reflow, want it unaffected by buffer geometry changes", got)
	}
}
