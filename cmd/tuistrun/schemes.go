package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkoosis/tuistrun/internal/logger"
	"github.com/dkoosis/tuistrun/pkg/mapper"
	"github.com/dkoosis/tuistrun/pkg/tuistgraph"
)

func (a *app) schemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes [graph.json]",
		Short: "List test schemes derived from a tuist graph document",
		Long: `Reads the output of "tuist graph -f json" from a file or stdin and lists
every scheme with the test targets it runs. Schemes declared with a test
action come first; test targets without one get an inferred scheme.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			doc, err := a.readInput(args)
			if err != nil {
				return &exitError{code: exitUsage, err: err}
			}
			if !tuistgraph.IsGraph(doc) {
				logger.Warn("input is not a tuist graph document")
			}
			schemes := tuistgraph.DeriveSchemes(doc)
			logger.Debug("derived schemes", "count", len(schemes))
			a.render(mapper.FromSchemes(schemes))
			return nil
		},
	}
}

// readInput reads the single file argument, or stdin when there is none.
func (a *app) readInput(args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", args[0], err)
		}
		return data, nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, errNoInput
	}
	return data, nil
}

// loadSchemes reads and derives schemes from a graph file.
func loadSchemes(path string) ([]tuistgraph.Scheme, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph %s: %w", path, err)
	}
	return tuistgraph.DeriveSchemes(doc), nil
}
