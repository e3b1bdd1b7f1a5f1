package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dkoosis/tuistrun/internal/logger"
	"github.com/dkoosis/tuistrun/pkg/location"
	"github.com/dkoosis/tuistrun/pkg/mapper"
	"github.com/dkoosis/tuistrun/pkg/runconfig"
	"github.com/dkoosis/tuistrun/pkg/swifttest"
	"github.com/dkoosis/tuistrun/pkg/tuistgraph"
)

func (a *app) scanCommand() *cobra.Command {
	var bases []string
	cmd := &cobra.Command{
		Use:   "scan <file.swift>...",
		Short: "List XCTest classes and test methods in Swift sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := scanFiles(cmd, swifttest.NewScanner(bases...), args)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			a.render(mapper.FromScan(files))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&bases, "base", nil, "Test base classes (default XCTestCase)")
	return cmd
}

// scanFiles reads and scans paths concurrently. Results keep argument order.
func scanFiles(cmd *cobra.Command, scanner *swifttest.Scanner, paths []string) ([]mapper.ScannedFile, error) {
	files := make([]mapper.ScannedFile, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			text := string(data)
			files[i] = mapper.ScannedFile{Path: path, Text: text, Elements: scanner.ScanAll(text)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("scanned sources", "files", len(files))
	return files, nil
}

// locateOutput is the JSON shape printed by locate.
type locateOutput struct {
	File    string            `json:"file"`
	Test    swifttest.Context `json:"test"`
	Hint    string            `json:"hint"`
	Line    int               `json:"line"`
	Column  int               `json:"column"`
	Command string            `json:"command,omitempty"`
}

func (a *app) locateCommand() *cobra.Command {
	var (
		graphPath string
		bases     []string
	)
	cmd := &cobra.Command{
		Use:   "locate <file.swift> <offset>",
		Short: "Print the test class and method enclosing a byte offset",
		Long: `Prints Class/method (or Class) for the test enclosing the byte offset.
With --graph the command that runs exactly that test is printed instead;
--scheme pins the scheme it runs under. Exits 1 when the offset is not
inside a test class.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			offset, err := strconv.Atoi(args[1])
			if err != nil {
				return &exitError{code: exitUsage, err: fmt.Errorf("invalid offset %q: %w", args[1], err)}
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return &exitError{code: exitUsage, err: fmt.Errorf("reading %s: %w", path, err)}
			}
			text := string(data)

			ctx, ok := swifttest.NewScanner(bases...).Locate(text, offset)
			if !ok {
				logger.Info("no test at offset", "file", path, "offset", offset)
				return &exitError{code: exitFailures}
			}

			hint := location.Hint{Protocol: location.ProtocolSuite, Class: ctx.ClassName}
			out := locateOutput{File: path, Test: ctx}
			out.Line, out.Column = swifttest.Position(text, ctx.ClassOffset)
			if ctx.HasMethod() {
				hint.Protocol, hint.Method = location.ProtocolTest, ctx.MethodName
				out.Line, out.Column = swifttest.Position(text, ctx.MethodOffset)
			}
			out.Hint = hint.String()
			if want := hint.SourceFile(); filepath.Base(path) != want {
				logger.Warn("failure links resolve by file name and will not find this class",
					"class", ctx.ClassName, "expected", want, "file", filepath.Base(path))
			}

			if graphPath != "" {
				line, err := a.commandFor(graphPath, ctx)
				if err != nil {
					return &exitError{code: exitUsage, err: err}
				}
				out.Command = line
			}
			return a.printLocation(out)
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "tuist graph JSON used to pick the scheme and target")
	cmd.Flags().StringSliceVar(&bases, "base", nil, "Test base classes (default XCTestCase)")
	return cmd
}

// commandFor builds the command line that runs the test under ctx. A
// configured scheme must exist in the graph and narrows the choice to it.
func (a *app) commandFor(graphPath string, ctx swifttest.Context) (string, error) {
	schemes, err := loadSchemes(graphPath)
	if err != nil {
		return "", err
	}
	if a.cfg.Scheme != "" {
		pinned, ok := tuistgraph.Find(schemes, a.cfg.Scheme)
		if !ok {
			return "", fmt.Errorf("scheme %q is not in %s", a.cfg.Scheme, graphPath)
		}
		schemes = []tuistgraph.Scheme{pinned}
	}
	rc, ok := runconfig.FromContext(schemes, ctx)
	if !ok {
		return "", fmt.Errorf("no test schemes in %s", graphPath)
	}
	rc.AdditionalArgs = a.cfg.ExtraArgs
	logger.Debug("selected run configuration", "name", rc.SuggestedName(), "scheme", rc.Scheme)
	return rc.CommandLine(a.cfg.TuistPath)
}

func (a *app) printLocation(out locateOutput) error {
	if resolveFormat(a.cfg.Format, a.stdout) == "json" {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return &exitError{code: exitUsage, err: err}
		}
		fmt.Fprintln(a.stdout, string(data))
		return nil
	}
	if out.Command != "" {
		fmt.Fprintln(a.stdout, out.Command)
		return nil
	}
	id := out.Test.ClassName
	if out.Test.HasMethod() {
		id += "/" + out.Test.MethodName
	}
	fmt.Fprintf(a.stdout, "%s\t%d:%d\n", id, out.Line, out.Column)
	return nil
}
