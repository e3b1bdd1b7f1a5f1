package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/tuistrun/pkg/pattern"
)

// maxDetailLines caps per-item detail lines in LLM output.
const maxDetailLines = 3

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, SCOPE line first, bounded detail per item.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var summaries []*pattern.Summary
	var tables []*pattern.TestTable

	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			summaries = append(summaries, v)
		case *pattern.TestTable:
			tables = append(tables, v)
		}
	}

	var sb strings.Builder
	for _, s := range summaries {
		sb.WriteString("SCOPE: " + s.Label + "\n")
	}

	kind := pattern.SummaryKindTest
	if len(summaries) > 0 {
		kind = summaries[0].Kind
	}
	for _, t := range tables {
		sb.WriteString("\n" + t.Label + "\n")
		for _, item := range t.Results {
			switch kind {
			case pattern.SummaryKindSchemes:
				writeSchemeItem(&sb, item)
			case pattern.SummaryKindScan:
				writeScanItem(&sb, item)
			default:
				writeTestItem(&sb, item)
			}
		}
	}
	return sb.String()
}

func writeTestItem(sb *strings.Builder, item pattern.TestTableItem) {
	prefix := "  PASS"
	switch item.Status {
	case pattern.StatusFail:
		prefix = "  FAIL"
	case pattern.StatusRunning:
		prefix = "  HUNG"
	}

	line := prefix + " " + item.Name
	if item.Count > 0 {
		line += fmt.Sprintf(" [%d]", item.Count)
	}
	if item.Duration != "" {
		line += " (" + item.Duration + ")"
	}
	if item.Location != "" {
		line += " -only-testing:" + item.Location
	}
	sb.WriteString(line + "\n")
	writeDetails(sb, item.Details)
}

func writeSchemeItem(sb *strings.Builder, item pattern.TestTableItem) {
	targets := strings.ReplaceAll(item.Details, "\n", ", ")
	fmt.Fprintf(sb, "  %s: %s\n", item.Name, targets)
}

func writeScanItem(sb *strings.Builder, item pattern.TestTableItem) {
	fmt.Fprintf(sb, "  %s %s\n", item.Details, item.Name)
}

func writeDetails(sb *strings.Builder, details string) {
	if details == "" {
		return
	}
	lines := strings.Split(details, "\n")
	n := min(len(lines), maxDetailLines)
	for _, line := range lines[:n] {
		sb.WriteString("    " + line + "\n")
	}
	if len(lines) > maxDetailLines {
		fmt.Fprintf(sb, "    ... (%d more lines)\n", len(lines)-maxDetailLines)
	}
}
