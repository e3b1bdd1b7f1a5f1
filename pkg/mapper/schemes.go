package mapper

import (
	"fmt"
	"strings"

	"github.com/dkoosis/tuistrun/pkg/pattern"
	"github.com/dkoosis/tuistrun/pkg/tuistgraph"
)

// FromSchemes converts derived schemes into a Summary and one TestTable
// listing each scheme with its test targets.
func FromSchemes(schemes []tuistgraph.Scheme) []pattern.Pattern {
	targets := 0
	items := make([]pattern.TestTableItem, 0, len(schemes))
	for _, s := range schemes {
		targets += len(s.TestTargets)
		items = append(items, pattern.TestTableItem{
			Name:    s.Name,
			Status:  pattern.StatusInfo,
			Count:   len(s.TestTargets),
			Details: strings.Join(s.TestTargets, "\n"),
		})
	}

	summary := &pattern.Summary{
		Label: fmt.Sprintf("SCHEMES %s, %s", plural(len(schemes), "scheme", "schemes"), plural(targets, "test target", "test targets")),
		Kind:  pattern.SummaryKindSchemes,
		Metrics: []pattern.SummaryItem{
			{Label: title("schemes"), Value: fmt.Sprintf("%d", len(schemes)), Kind: "info"},
			{Label: title("test targets"), Value: fmt.Sprintf("%d", targets), Kind: "info"},
		},
	}
	if len(schemes) == 0 {
		summary.Metrics[0].Kind = "warning"
		return []pattern.Pattern{summary}
	}
	return []pattern.Pattern{summary, &pattern.TestTable{Label: "Schemes", Results: items}}
}
