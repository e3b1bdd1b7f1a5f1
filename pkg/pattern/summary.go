package pattern

// SummaryKind identifies the source of a summary for renderer dispatch.
type SummaryKind string

const (
	SummaryKindTest    SummaryKind = "test"
	SummaryKindSchemes SummaryKind = "schemes"
	SummaryKindScan    SummaryKind = "scan"
)

// Summary represents high-level metrics and counts.
type Summary struct {
	Label   string
	Kind    SummaryKind
	Metrics []SummaryItem
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string // e.g., "Failed", "Passed", "Schemes"
	Value string // formatted value
	Kind  string // "success", "error", "warning", "info"; affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
