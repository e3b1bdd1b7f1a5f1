package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/tuistrun/pkg/pattern"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.TestTable:
		return t.renderTestTable(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Heading.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.theme.ForMetric(m.Kind)
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Heading.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	for _, item := range l.Items {
		maxName = max(maxName, runewidth.StringWidth(item.Name))
		maxMetric = max(maxMetric, runewidth.StringWidth(item.Metric))
	}
	maxName = min(maxName, 50)

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		name := runewidth.Truncate(item.Name, maxName, "...")
		sb.WriteString(t.theme.Scheme.Render(padRight(name, maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Duration.Render(padLeft(item.Metric, maxMetric)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderTestTable(tt *pattern.TestTable) string {
	if len(tt.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	if tt.Label != "" {
		sb.WriteString(t.theme.Heading.Render(tt.Label))
		sb.WriteString("\n")
	}

	maxName, maxDur := 0, 0
	for _, r := range tt.Results {
		maxName = max(maxName, runewidth.StringWidth(r.Name))
		maxDur = max(maxDur, runewidth.StringWidth(r.Duration))
	}
	maxName = min(maxName, t.width/2, 60)

	for _, r := range tt.Results {
		sb.WriteString("  ")
		icon, style := t.theme.ForStatus(r.Status)
		sb.WriteString(style.Render(icon + " "))

		name := padRight(runewidth.Truncate(r.Name, maxName, "..."), maxName)
		if r.Status == pattern.StatusInfo {
			name = t.theme.Scheme.Render(name)
		}
		sb.WriteString(name)

		if r.Count > 0 {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("  %d", r.Count)))
		}
		if r.Duration != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Duration.Render(padLeft(r.Duration, maxDur)))
		}

		if r.Status == pattern.StatusFail && r.Location != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Location.Render(r.Location))
		}

		if r.Details != "" {
			lines := strings.Split(r.Details, "\n")
			for _, line := range lines {
				sb.WriteString("\n    ")
				sb.WriteString(t.theme.Muted.Render(line))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
