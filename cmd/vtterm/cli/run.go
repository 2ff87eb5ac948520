package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/shlex"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/danielgatis/vtcore"
	"github.com/danielgatis/vtcore/ptyio"
	"github.com/danielgatis/vtcore/typeahead"
)

var (
	shellFlag   string
	predictFlag bool
	recordFlag  string
)

var runCmd = &cobra.Command{
	Use:   "run [-- command [args...]]",
	Short: "attach a vtcore.Terminal to a PTY running command",
	Long: `run starts command under a pseudo-terminal, tracks its output in a
vtcore.Terminal, and mirrors the session to your own terminal.

Examples:
  # Run the user's shell
  vtterm run

  # Run an explicit command
  vtterm run -- htop

  # Run a single command-line string
  vtterm run --shell "ls -la /tmp"`,
	Args: cobra.ArbitraryArgs,
	RunE: runTerminal,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&shellFlag, "shell", "", `run a single command line, split with shlex (e.g. --shell "ls -la")`)
	runCmd.Flags().BoolVar(&predictFlag, "predict", false, "enable type-ahead prediction once round-trip latency crosses the threshold")
	runCmd.Flags().StringVar(&recordFlag, "record", "", "append raw session bytes to this file")
}

func runTerminal(cmd *cobra.Command, args []string) error {
	command, cmdArgs, err := resolveCommand(args)
	if err != nil {
		return err
	}

	cols, rows := 80, 24
	stdin := os.Stdin
	if isatty.IsTerminal(stdin.Fd()) {
		if w, h, err := term.GetSize(int(stdin.Fd())); err == nil {
			cols, rows = w, h
		}
	}

	conn, err := ptyio.StartPTY(command, cmdArgs, ptyio.Size{Rows: rows, Cols: cols})
	if err != nil {
		return fmt.Errorf("vtterm: start pty: %w", err)
	}

	var wired ptyio.Connector = conn
	if recordFlag != "" {
		rec := ptyio.NewFileRecorder(recordFlag)
		wired = &recordingConnector{Connector: conn, rec: rec}
	}
	tee := &teeConnector{Connector: wired}

	term2 := vtcore.New(
		vtcore.WithSize(rows, cols),
		vtcore.WithResponse(conn),
	)

	cfg := ptyio.DefaultConfig()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	exec := ptyio.NewExecutor(ctx)

	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	starter := ptyio.NewStarter(term2, tee, cfg, exec, logger)
	if predictFlag {
		starter.TypeAhead = newTypeAheadManager(cfg)
	}

	restore, rawErr := enableRawMode(stdin)
	if rawErr == nil {
		defer restore()
	}

	done := make(chan struct{})
	var once sync.Once
	starter.OnDisconnect = func(error) { once.Do(func() { close(done) }) }

	if err := starter.Start(ctx); err != nil {
		return fmt.Errorf("vtterm: start: %w", err)
	}

	go forwardStdin(stdin, starter)
	go forwardResize(stdin, starter)

	select {
	case <-done:
	case <-cmd.Context().Done():
	}
	starter.RequestStop()
	return nil
}

// resolveCommand decides what to exec: an explicit `--` command list, a
// single --shell string tokenized with shlex, or $SHELL as a fallback.
func resolveCommand(args []string) (string, []string, error) {
	if shellFlag != "" {
		fields, err := shlex.Split(shellFlag)
		if err != nil {
			return "", nil, fmt.Errorf("vtterm: parse --shell: %w", err)
		}
		if len(fields) == 0 {
			return "", nil, fmt.Errorf("vtterm: --shell produced no tokens")
		}
		return fields[0], fields[1:], nil
	}
	if len(args) > 0 {
		return args[0], args[1:], nil
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, nil, nil
	}
	return "/bin/sh", nil, nil
}

func forwardStdin(f *os.File, starter *ptyio.Starter) {
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			starter.SendBytes(data, true)
		}
		if err != nil {
			return
		}
	}
}

func forwardResize(f *os.File, starter *ptyio.Starter) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGWINCH)
	defer signal.Stop(sigs)
	for range sigs {
		w, h, err := term.GetSize(int(f.Fd()))
		if err != nil {
			continue
		}
		starter.PostResize(ptyio.Size{Rows: h, Cols: w}, ptyio.ResizeOriginHost, starter.Terminal.IsAlternateScreen())
	}
}

func enableRawMode(f *os.File) (restore func(), err error) {
	if !isatty.IsTerminal(f.Fd()) {
		return func() {}, fmt.Errorf("vtterm: stdin is not a terminal")
	}
	old, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return func() {}, err
	}
	return func() { _ = term.Restore(int(f.Fd()), old) }, nil
}

// teeConnector mirrors every byte read from the underlying Connector to
// stdout, so a headless Terminal can still drive an interactive session.
type teeConnector struct {
	ptyio.Connector
}

func (t *teeConnector) Read(p []byte) (int, error) {
	n, err := t.Connector.Read(p)
	if n > 0 {
		_, _ = os.Stdout.Write(p[:n])
	}
	return n, err
}

// recordingConnector appends every byte read from the underlying Connector
// to a FileRecorder before handing it back to the Starter.
type recordingConnector struct {
	ptyio.Connector
	rec *ptyio.FileRecorder
}

func (r *recordingConnector) Read(p []byte) (int, error) {
	n, err := r.Connector.Read(p)
	if n > 0 {
		r.rec.Record(p[:n])
	}
	return n, err
}

func newTypeAheadManager(cfg ptyio.Config) *typeahead.Manager {
	return typeahead.NewManager(typeahead.Config{
		LatencyThreshold: cfg.TypeAheadLatencyThreshold,
		PenaltyWindow:    cfg.TypeAheadPenaltyWindow,
		MaxAge:           typeahead.DefaultConfig().MaxAge,
	})
}
