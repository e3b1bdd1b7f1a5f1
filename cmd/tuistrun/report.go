package main

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/dkoosis/tuistrun/internal/detect"
	"github.com/dkoosis/tuistrun/internal/logger"
	"github.com/dkoosis/tuistrun/pkg/mapper"
	"github.com/dkoosis/tuistrun/pkg/render"
	"github.com/dkoosis/tuistrun/pkg/stream"
	"github.com/dkoosis/tuistrun/pkg/xcodebuild"
)

// peekSize is how much of stdin is sniffed before choosing a path.
const peekSize = 4096

var errNoInput = errors.New("no input on stdin")

func (a *app) reportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize an xcodebuild test transcript read from stdin",
		Long: `Reads xcodebuild test output on stdin. On a terminal with --format auto the
run is shown live; otherwise the transcript is collected and rendered once.
Exits 1 when any test failed.`,
		Args: cobra.NoArgs,
		RunE: a.runReport,
	}
}

func (a *app) runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	br := bufio.NewReaderSize(a.stdin, 8*1024)
	peeked, _ := br.Peek(peekSize)
	if len(peeked) == 0 {
		return &exitError{code: exitUsage, err: errNoInput}
	}

	switch format := detect.Sniff(peeked); format {
	case detect.Graph, detect.Swift:
		logger.Warn("input does not look like a test transcript", "detected", format)
	default:
		logger.Debug("reading transcript", "detected", format)
	}

	opts := []xcodebuild.StreamOption{xcodebuild.WithMaxLineLength(a.cfg.MaxLineLength)}

	// Stream mode: TTY stdout + auto format
	if a.cfg.Format == "auto" && isTTYWriter(a.stdout) {
		return codeErr(a.runStream(ctx, br, opts))
	}

	result, unrecognized, err := xcodebuild.Parse(ctx, br, opts...)
	if err != nil {
		if ctx.Err() != nil {
			return &exitError{code: exitInterrupted}
		}
		return &exitError{code: exitUsage, err: err}
	}
	logger.Debug("parsed transcript",
		"tests", len(result.Tests),
		"suites", len(result.Suites),
		"passthrough", unrecognized)

	patterns := mapper.FromRun(result)
	a.render(patterns)
	return codeErr(exitCode(patterns))
}

// runStream handles the live display path.
func (a *app) runStream(ctx context.Context, br *bufio.Reader, opts []xcodebuild.StreamOption) int {
	// Close the underlying reader on cancel to unblock the scanner goroutine.
	// bufio.Reader is not an io.Closer, so Stream cannot close it itself.
	if c, ok := a.stdin.(io.Closer); ok {
		stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stopClose()
	}
	width, height := termSize(a.stdout)
	style := stream.ThemeStyle(render.ThemeByName(a.cfg.Theme))
	code, result := stream.Run(ctx, br, a.stdout, width, height, style, opts...)
	stats := xcodebuild.ComputeStats(result)
	logger.Debug("streamed transcript",
		"tests", stats.Total,
		"failed", stats.Failed,
		"unfinished", stats.Running,
		"suites", stats.Suites,
		"exit", code)
	if stats.Running > 0 && code != exitInterrupted {
		logger.Warn("transcript ended with tests still running", "count", stats.Running)
	}
	return code
}
