package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/tuistrun/pkg/pattern"
)

// Theme styles the parts of a test report. Every style is safe to use
// unset; MonoTheme leaves all but headings plain.
type Theme struct {
	Name string

	Heading  lipgloss.Style // summary and table labels
	Pass     lipgloss.Style
	Fail     lipgloss.Style
	Hung     lipgloss.Style // tests still running when the transcript ended
	Info     lipgloss.Style
	Suite    lipgloss.Style // suite result lines in the live view
	Scheme   lipgloss.Style // scheme names and slow-test names
	Location lipgloss.Style // -only-testing paths and file:line:col
	Duration lipgloss.Style
	Muted    lipgloss.Style

	Icons Icons
}

// Icons are the status glyphs of a theme.
type Icons struct {
	Pass string
	Fail string
	Hung string
	Info string
	Warn string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:     "default",
		Heading:  lipgloss.NewStyle().Bold(true),
		Pass:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Hung:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Suite:    lipgloss.NewStyle().Bold(true),
		Scheme:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Location: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Underline(true),
		Duration: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Icons:    Icons{Pass: "✓", Fail: "✗", Hung: "○", Info: "●", Warn: "⚠"},
	}
}

// OrcaTheme returns a muted theme for long CI logs.
func OrcaTheme() Theme {
	return Theme{
		Name:     "orca",
		Heading:  lipgloss.NewStyle().Bold(true),
		Pass:     lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Hung:     lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Suite:    lipgloss.NewStyle().Bold(true),
		Scheme:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Location: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Duration: lipgloss.NewStyle().Foreground(lipgloss.Color("179")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Icons:    Icons{Pass: "✓", Fail: "✗", Hung: "○", Info: "·", Warn: "!"},
	}
}

// MonoTheme returns a theme without colors, used for --no-color.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:     "mono",
		Heading:  lipgloss.NewStyle().Bold(true),
		Pass:     plain,
		Fail:     plain,
		Hung:     plain,
		Info:     plain,
		Suite:    plain,
		Scheme:   plain,
		Location: plain,
		Duration: plain,
		Muted:    plain,
		Icons:    Icons{Pass: "+", Fail: "x", Hung: "-", Info: "*", Warn: "!"},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// ForStatus returns the icon and style of a table row status.
func (t Theme) ForStatus(status string) (string, lipgloss.Style) {
	switch status {
	case pattern.StatusPass:
		return t.Icons.Pass, t.Pass
	case pattern.StatusFail:
		return t.Icons.Fail, t.Fail
	case pattern.StatusRunning:
		return t.Icons.Hung, t.Hung
	default:
		return t.Icons.Info, t.Muted
	}
}

// ForMetric returns the icon and style of a summary metric kind.
func (t Theme) ForMetric(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.Icons.Pass, t.Pass
	case "error":
		return t.Icons.Fail, t.Fail
	case "warning":
		return t.Icons.Warn, t.Hung
	default:
		return t.Icons.Info, t.Info
	}
}
