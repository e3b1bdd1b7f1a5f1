package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkoosis/tuistrun/internal/logger"
	"github.com/dkoosis/tuistrun/pkg/runconfig"
	"github.com/dkoosis/tuistrun/pkg/xcodebuild"
)

// selection holds the run-selection flags shared by command and rerun.
type selection struct {
	target    string
	class     string
	method    string
	extraArgs string
}

func (a *app) baseConfig(sel selection) runconfig.Config {
	rc := runconfig.Config{
		Scheme:         a.cfg.Scheme,
		AdditionalArgs: a.cfg.ExtraArgs,
		TestTarget:     sel.target,
		TestClass:      sel.class,
		TestMethod:     sel.method,
	}
	if sel.extraArgs != "" {
		rc.AdditionalArgs = sel.extraArgs
	}
	return rc
}

func (a *app) printCommand(rc runconfig.Config) error {
	if err := rc.Validate(); err != nil {
		return &exitError{code: exitUsage, err: fmt.Errorf("%w (use --scheme or set scheme in .tuistrun.yaml)", err)}
	}
	line, err := rc.CommandLine(a.cfg.TuistPath)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	logger.Debug("run configuration", "name", rc.SuggestedName(), "only_testing", rc.OnlyTestingArgument())
	fmt.Fprintln(a.stdout, line)
	return nil
}

func (a *app) commandCommand() *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "command",
		Short: "Print the tuist xcodebuild test invocation for a selection",
		Long: `Prints the command that tests a scheme, optionally narrowed with
-only-testing to a target, class or method. Nothing is executed.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.printCommand(a.baseConfig(sel))
		},
	}
	addSelectionFlags(cmd, &sel)
	return cmd
}

func (a *app) rerunCommand() *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "rerun",
		Short: "Print the invocation that reruns only the failed tests of a transcript",
		Long: `Reads an xcodebuild test transcript on stdin and prints the command that
reruns each failed test once, in the order they failed. Prints nothing
when no test failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			result, _, err := xcodebuild.Parse(ctx, a.stdin, xcodebuild.WithMaxLineLength(a.cfg.MaxLineLength))
			if err != nil {
				if ctx.Err() != nil {
					return &exitError{code: exitInterrupted}
				}
				return &exitError{code: exitUsage, err: err}
			}

			var hints []string
			for _, t := range result.Failed() {
				hints = append(hints, t.LocationHint)
			}
			rc, err := runconfig.Rerun(a.baseConfig(sel), hints)
			if errors.Is(err, runconfig.ErrNoFailedTests) {
				logger.Info("nothing to rerun", "tests", len(result.Tests))
				return nil
			}
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			return a.printCommand(rc)
		},
	}
	cmd.Flags().StringVar(&sel.extraArgs, "args", "", "Additional arguments appended to the command")
	return cmd
}

func addSelectionFlags(cmd *cobra.Command, sel *selection) {
	cmd.Flags().StringVar(&sel.target, "target", "", "Test target")
	cmd.Flags().StringVar(&sel.class, "class", "", "Test class")
	cmd.Flags().StringVar(&sel.method, "method", "", "Test method")
	cmd.Flags().StringVar(&sel.extraArgs, "args", "", "Additional arguments appended to the command")
}
