package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/tuistrun/pkg/pattern"
)

func samplePatterns() []pattern.Pattern {
	return []pattern.Pattern{
		&pattern.Summary{
			Label: "FAIL 1/2 tests (1.0s)",
			Kind:  pattern.SummaryKindTest,
			Metrics: []pattern.SummaryItem{
				{Label: "Failed", Value: "1/2 tests", Kind: "error"},
				{Label: "Passed", Value: "1/2 tests", Kind: "info"},
			},
		},
		&pattern.TestTable{
			Label: "FAIL LoginTests (1/2 failed)",
			Results: []pattern.TestTableItem{
				{Name: "testInvalid", Status: pattern.StatusFail, Duration: "1.0s", Details: "XCTAssertTrue failed", Location: "LoginTests/testInvalid"},
			},
		},
		&pattern.Leaderboard{
			Label:      "Slowest Tests",
			TotalCount: 3,
			ShowRank:   true,
			Items: []pattern.LeaderboardItem{
				{Name: "LoginTests.testInvalid", Metric: "1.0s", Rank: 1},
				{Name: "CartTests.testAdd", Metric: "20ms", Rank: 2},
			},
		},
	}
}

func TestTerminal_RenderMono(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render(samplePatterns())

	assert.Contains(t, out, "FAIL 1/2 tests (1.0s)")
	assert.Contains(t, out, "x Failed: 1/2 tests")
	assert.Contains(t, out, "x testInvalid")
	assert.Contains(t, out, "LoginTests/testInvalid")
	assert.Contains(t, out, "XCTAssertTrue failed")
	assert.Contains(t, out, "Slowest Tests (top 2 of 3)")
	assert.Contains(t, out, " 1. ")
}

func TestTerminal_TruncatesWideNames(t *testing.T) {
	long := strings.Repeat("テ", 40) // 80 cells
	patterns := []pattern.Pattern{
		&pattern.TestTable{Label: "T", Results: []pattern.TestTableItem{{Name: long, Status: pattern.StatusPass}}},
	}
	out := NewTerminal(MonoTheme(), 40).Render(patterns)
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, long)
}

func TestTerminal_EmptyTablesSkipped(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{&pattern.TestTable{Label: "Empty"}})
	assert.Empty(t, out)
}

func TestJSON_Render(t *testing.T) {
	out := NewJSON().Render(samplePatterns())

	var decoded struct {
		Tool    string            `json:"tool"`
		Schema  int               `json:"schema"`
		Kind    string            `json:"kind"`
		Scope   string            `json:"scope"`
		Failed  bool              `json:"failed"`
		Metrics map[string]string `json:"metrics"`
		Tables  []struct {
			Label string `json:"label"`
			Rows  []struct {
				Name     string `json:"name"`
				Status   string `json:"status"`
				Location string `json:"location"`
			} `json:"rows"`
		} `json:"tables"`
		Rankings []struct {
			Total int `json:"total"`
			Items []struct {
				Rank int    `json:"rank"`
				Name string `json:"name"`
			} `json:"items"`
		} `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "tuistrun", decoded.Tool)
	assert.Equal(t, SchemaVersion, decoded.Schema)
	assert.Equal(t, "test", decoded.Kind)
	assert.Equal(t, "FAIL 1/2 tests (1.0s)", decoded.Scope)
	assert.True(t, decoded.Failed)
	assert.Equal(t, map[string]string{"failed": "1/2 tests", "passed": "1/2 tests"}, decoded.Metrics)

	require.Len(t, decoded.Tables, 1)
	require.Len(t, decoded.Tables[0].Rows, 1)
	assert.Equal(t, "testInvalid", decoded.Tables[0].Rows[0].Name)
	assert.Equal(t, "fail", decoded.Tables[0].Rows[0].Status)
	assert.Equal(t, "LoginTests/testInvalid", decoded.Tables[0].Rows[0].Location)

	require.Len(t, decoded.Rankings, 1)
	assert.Equal(t, 3, decoded.Rankings[0].Total)
	assert.Equal(t, "LoginTests.testInvalid", decoded.Rankings[0].Items[0].Name)
}

func TestJSON_SchemesReportIsNotFailed(t *testing.T) {
	out := NewJSON().Render([]pattern.Pattern{
		&pattern.Summary{
			Label:   "SCHEMES 1 scheme, 2 test targets",
			Kind:    pattern.SummaryKindSchemes,
			Metrics: []pattern.SummaryItem{{Label: "Test Targets", Value: "2"}},
		},
		&pattern.TestTable{Label: "Schemes", Results: []pattern.TestTableItem{
			{Name: "App", Status: pattern.StatusInfo, Count: 2, Details: "AppTests\nAppUITests"},
		}},
	})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "schemes", decoded["kind"])
	assert.Equal(t, false, decoded["failed"])
	assert.Equal(t, map[string]any{"test_targets": "2"}, decoded["metrics"])
	assert.NotContains(t, out, "rankings")
}

func TestJSON_EmptyHasTables(t *testing.T) {
	out := NewJSON().Render(nil)
	assert.Contains(t, out, `"tables": []`)
	assert.Contains(t, out, `"kind": "test"`)
}

func TestTheme_ForStatus(t *testing.T) {
	theme := MonoTheme()
	icon, _ := theme.ForStatus(pattern.StatusRunning)
	assert.Equal(t, "-", icon)
	icon, _ = theme.ForStatus(pattern.StatusFail)
	assert.Equal(t, "x", icon)
	icon, _ = theme.ForMetric("warning")
	assert.Equal(t, "!", icon)
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, "orca", ThemeByName("orca").Name)
	assert.Equal(t, "mono", ThemeByName("mono").Name)
	assert.Equal(t, "default", ThemeByName("unknown").Name)
}
