// tuistrun turns xcodebuild test output and Tuist project graphs into test
// reports and rerunnable `tuist xcodebuild test` invocations.
//
// Usage:
//
//	tuist xcodebuild test --scheme App 2>&1 | tuistrun report
//	tuist graph -f json | tuistrun schemes
//	tuistrun scan Tests/*.swift
//	tuistrun locate Tests/LoginTests.swift 412 --graph graph.json
//	tuistrun command --scheme App --class LoginTests --method testValid
//	tuistrun rerun --scheme App < transcript.log
//
// Output modes (auto-detected):
//
//	terminal  styled output (default when stdout is a TTY)
//	llm       terse plain text (default when piped)
//	json      structured JSON for automation
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/tuistrun/internal/config"
	"github.com/dkoosis/tuistrun/internal/logger"
	"github.com/dkoosis/tuistrun/internal/version"
	"github.com/dkoosis/tuistrun/pkg/pattern"
	"github.com/dkoosis/tuistrun/pkg/render"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailures    = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// exitError carries a non-zero exit code out of a cobra RunE.
// A nil err means the code speaks for itself and nothing is printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app holds the streams and resolved configuration shared by all commands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	flags config.CliFlags
	cfg   *config.ResolvedConfig
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "tuistrun: %v\n", ee.err)
		}
		return ee.code
	}
	if ctx.Err() != nil {
		return exitInterrupted
	}
	fmt.Fprintf(stderr, "tuistrun: %v\n", err)
	return exitUsage
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tuistrun",
		Short: "Test reports and rerun commands for Tuist projects",
		Long: `tuistrun parses xcodebuild test transcripts, derives test schemes from
tuist graph documents and finds XCTest classes in Swift sources.
Without a subcommand it behaves like "tuistrun report".`,
		Version:           version.String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.resolveConfig,
		RunE:              a.runReport,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.Format, "format", "", "Output format: auto, terminal, llm, json")
	pf.StringVar(&a.flags.Theme, "theme", "", "Theme: default, orca, mono")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "Disable colors")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.Scheme, "scheme", "", "Scheme to test")
	pf.StringVar(&a.flags.TuistPath, "tuist", "", "Path to the tuist executable")

	root.AddCommand(
		a.reportCommand(),
		a.schemesCommand(),
		a.scanCommand(),
		a.locateCommand(),
		a.commandCommand(),
		a.rerunCommand(),
	)
	return root
}

// resolveConfig merges .tuistrun.yaml, env and flags, then configures logging.
func (a *app) resolveConfig(cmd *cobra.Command, _ []string) error {
	a.flags.NoColorSet = cmd.Flags().Changed("no-color")

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	fileCfg, path, loadErr := config.LoadConfig(dir)

	resolved, err := config.ResolveConfig(a.flags, fileCfg)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	a.cfg = resolved

	logger.Configure(a.stderr, resolved.LogLevel)
	if loadErr != nil {
		logger.Warn("ignoring config file", "path", path, "err", loadErr)
	} else if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	return nil
}

// render writes patterns in the resolved output mode.
func (a *app) render(patterns []pattern.Pattern) {
	mode := resolveFormat(a.cfg.Format, a.stdout)
	fmt.Fprint(a.stdout, selectRenderer(mode, a.cfg.Theme, a.stdout).Render(patterns))
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}

func selectRenderer(mode, themeName string, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "llm":
		return render.NewLLM()
	default:
		width, _ := termSize(w)
		return render.NewTerminal(render.ThemeByName(themeName), width)
	}
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// exitCode returns 0 for clean, 1 when any table row failed.
func exitCode(patterns []pattern.Pattern) int {
	for _, p := range patterns {
		if t, ok := p.(*pattern.TestTable); ok {
			for _, r := range t.Results {
				if r.Status == pattern.StatusFail {
					return exitFailures
				}
			}
		}
	}
	return exitOK
}

// codeErr converts a non-zero exit code into an error for RunE.
func codeErr(code int) error {
	if code == exitOK {
		return nil
	}
	return &exitError{code: code}
}
