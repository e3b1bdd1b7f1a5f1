package render

import (
	"encoding/json"
	"strings"

	"github.com/dkoosis/tuistrun/pkg/pattern"
)

// SchemaVersion is bumped whenever the JSON report shape changes.
const SchemaVersion = 2

// JSON renders patterns as a tuistrun report document for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// jsonReport is the top-level document. Kind and Scope come from the first
// summary; Failed is true when any row failed, matching exit code 1.
type jsonReport struct {
	Tool     string            `json:"tool"`
	Schema   int               `json:"schema"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope,omitempty"`
	Failed   bool              `json:"failed"`
	Metrics  map[string]string `json:"metrics,omitempty"`
	Tables   []jsonTable       `json:"tables"`
	Rankings []jsonRanking     `json:"rankings,omitempty"`
}

type jsonTable struct {
	Label string    `json:"label"`
	Rows  []jsonRow `json:"rows"`
}

type jsonRow struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Duration string `json:"duration,omitempty"`
	Count    int    `json:"count,omitempty"`
	Details  string `json:"details,omitempty"`
	Location string `json:"location,omitempty"`
}

type jsonRanking struct {
	Label  string            `json:"label"`
	Metric string            `json:"metric"`
	Total  int               `json:"total,omitempty"`
	Items  []jsonRankingItem `json:"items"`
}

type jsonRankingItem struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Shown string  `json:"shown"`
}

// Render formats all patterns as one JSON document.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := jsonReport{
		Tool:   "tuistrun",
		Schema: SchemaVersion,
		Kind:   string(pattern.SummaryKindTest),
		Tables: []jsonTable{},
	}

	seenSummary := false
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			if seenSummary {
				continue
			}
			seenSummary = true
			out.Kind = string(v.Kind)
			out.Scope = v.Label
			out.Metrics = metricMap(v.Metrics)
		case *pattern.TestTable:
			t := jsonTable{Label: v.Label, Rows: make([]jsonRow, 0, len(v.Results))}
			for _, r := range v.Results {
				if r.Status == pattern.StatusFail {
					out.Failed = true
				}
				t.Rows = append(t.Rows, jsonRow(r))
			}
			out.Tables = append(out.Tables, t)
		case *pattern.Leaderboard:
			r := jsonRanking{Label: v.Label, Metric: v.MetricName, Total: v.TotalCount}
			for _, item := range v.Items {
				r.Items = append(r.Items, jsonRankingItem{Rank: item.Rank, Name: item.Name, Value: item.Value, Shown: item.Metric})
			}
			out.Rankings = append(out.Rankings, r)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}

// metricMap keys summary metrics by snake_case label ("Test Targets" -> "test_targets").
func metricMap(items []pattern.SummaryItem) map[string]string {
	if len(items) == 0 {
		return nil
	}
	m := make(map[string]string, len(items))
	for _, it := range items {
		m[strings.ReplaceAll(strings.ToLower(it.Label), " ", "_")] = it.Value
	}
	return m
}
