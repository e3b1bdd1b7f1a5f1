package mapper

import (
	"fmt"
	"sort"
	"time"

	"github.com/dkoosis/tuistrun/pkg/location"
	"github.com/dkoosis/tuistrun/pkg/pattern"
	"github.com/dkoosis/tuistrun/pkg/xcodebuild"
)

// slowestCount caps the slowest-tests leaderboard.
const slowestCount = 5

// classGroup is the tests of one qualified class in transcript order.
type classGroup struct {
	name     string // Target.Class, or Class when the target is unknown
	tests    []xcodebuild.TestResult
	failed   int
	running  int
	duration time.Duration
}

// FromRun converts a collected transcript into visualization patterns.
// Returns: Summary + TestTable per failing class + unfinished tests +
// one TestTable for passing classes + slowest-tests Leaderboard.
func FromRun(r *xcodebuild.RunResult) []pattern.Pattern {
	stats := xcodebuild.ComputeStats(r)
	patterns := []pattern.Pattern{runSummary(stats)}

	groups := groupByClass(r.Tests)

	// Failing classes first, by name.
	for _, g := range groups {
		if g.failed > 0 {
			patterns = append(patterns, failedClassTable(g))
		}
	}

	var unfinished []pattern.TestTableItem
	for _, t := range r.Tests {
		if t.Status == xcodebuild.StatusRunning {
			unfinished = append(unfinished, pattern.TestTableItem{
				Name:     t.ClassName + "." + t.Name,
				Status:   pattern.StatusRunning,
				Location: onlyTesting(t.LocationHint),
			})
		}
	}
	if len(unfinished) > 0 {
		patterns = append(patterns, &pattern.TestTable{
			Label:   fmt.Sprintf("Unfinished (%d)", len(unfinished)),
			Results: unfinished,
		})
	}

	// Passing classes collapsed into one table.
	var passItems []pattern.TestTableItem
	for _, g := range groups {
		if g.failed == 0 && g.running == 0 {
			passItems = append(passItems, pattern.TestTableItem{
				Name:     g.name,
				Status:   pattern.StatusPass,
				Duration: formatDuration(g.duration),
				Count:    len(g.tests),
			})
		}
	}
	if len(passItems) > 0 {
		patterns = append(patterns, &pattern.TestTable{
			Label:   fmt.Sprintf("Passing Classes (%d)", len(passItems)),
			Results: passItems,
		})
	}

	if lb := slowestTests(r.Tests); lb != nil {
		patterns = append(patterns, lb)
	}
	return patterns
}

func runSummary(s xcodebuild.Stats) *pattern.Summary {
	var metrics []pattern.SummaryItem

	if s.Failed > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: title("failed"), Value: fmt.Sprintf("%d/%d tests", s.Failed, s.Total), Kind: "error",
		})
	}
	if s.Passed > 0 {
		kind := "success"
		if s.Failed > 0 {
			kind = "info"
		}
		metrics = append(metrics, pattern.SummaryItem{
			Label: title("passed"), Value: fmt.Sprintf("%d/%d tests", s.Passed, s.Total), Kind: kind,
		})
	}
	if s.Running > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: title("unfinished"), Value: fmt.Sprintf("%d", s.Running), Kind: "warning",
		})
	}
	metrics = append(metrics, pattern.SummaryItem{
		Label: title("suites"), Value: fmt.Sprintf("%d", s.Suites), Kind: "info",
	})

	label := fmt.Sprintf("PASS %s (%s)", plural(s.Total, "test", "tests"), formatDuration(s.Duration))
	switch {
	case s.Failed > 0:
		label = fmt.Sprintf("FAIL %d/%d tests (%s)", s.Failed, s.Total, formatDuration(s.Duration))
	case s.Total == 0:
		label = "NO TESTS"
	}

	return &pattern.Summary{
		Label:   label,
		Kind:    pattern.SummaryKindTest,
		Metrics: metrics,
	}
}

func groupByClass(tests []xcodebuild.TestResult) []*classGroup {
	byName := make(map[string]*classGroup)
	var groups []*classGroup
	for _, t := range tests {
		name := t.ClassName
		if t.TargetName != "" {
			name = t.TargetName + "." + t.ClassName
		}
		g, ok := byName[name]
		if !ok {
			g = &classGroup{name: name}
			byName[name] = g
			groups = append(groups, g)
		}
		g.tests = append(g.tests, t)
		g.duration += t.Duration
		switch t.Status {
		case xcodebuild.StatusFail:
			g.failed++
		case xcodebuild.StatusRunning:
			g.running++
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

func failedClassTable(g *classGroup) *pattern.TestTable {
	items := make([]pattern.TestTableItem, 0, g.failed)
	for _, t := range g.tests {
		if t.Status != xcodebuild.StatusFail {
			continue
		}
		details := t.Details
		if details == "" {
			details = t.Message
		}
		items = append(items, pattern.TestTableItem{
			Name:     t.Name,
			Status:   pattern.StatusFail,
			Duration: formatDuration(t.Duration),
			Details:  truncateLines(details, 3),
			Location: onlyTesting(t.LocationHint),
		})
	}
	return &pattern.TestTable{
		Label:   fmt.Sprintf("FAIL %s (%d/%d failed)", g.name, g.failed, len(g.tests)),
		Results: items,
	}
}

func slowestTests(tests []xcodebuild.TestResult) *pattern.Leaderboard {
	var timed []xcodebuild.TestResult
	for _, t := range tests {
		if t.Duration > 0 {
			timed = append(timed, t)
		}
	}
	if len(timed) < 2 {
		return nil
	}
	sort.SliceStable(timed, func(i, j int) bool { return timed[i].Duration > timed[j].Duration })

	n := min(len(timed), slowestCount)
	items := make([]pattern.LeaderboardItem, 0, n)
	for i, t := range timed[:n] {
		items = append(items, pattern.LeaderboardItem{
			Name:   t.ClassName + "." + t.Name,
			Metric: formatDuration(t.Duration),
			Value:  t.Duration.Seconds(),
			Rank:   i + 1,
		})
	}
	return &pattern.Leaderboard{
		Label:      "Slowest Tests",
		MetricName: "Duration",
		Items:      items,
		Direction:  "highest",
		TotalCount: len(timed),
		ShowRank:   true,
	}
}

// onlyTesting returns the -only-testing path for a hint, or "".
func onlyTesting(hint string) string {
	h, ok := location.Parse(hint)
	if !ok || h.Protocol != location.ProtocolTest {
		return ""
	}
	return h.OnlyTesting()
}
