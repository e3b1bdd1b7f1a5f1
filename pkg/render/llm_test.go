package render

import (
	"strings"
	"testing"

	"github.com/dkoosis/tuistrun/pkg/pattern"
)

func TestLLM_RenderTestRun(t *testing.T) {
	patterns := []pattern.Pattern{
		&pattern.Summary{
			Label: "FAIL 1/3 tests (2.1s)",
			Kind:  pattern.SummaryKindTest,
		},
		&pattern.TestTable{
			Label: "FAIL AppTests.LoginTests (1/2 failed)",
			Results: []pattern.TestTableItem{{
				Name:     "testInvalidLogin",
				Status:   pattern.StatusFail,
				Duration: "2.0s",
				Details:  "a\nb\nc\nd",
				Location: "AppTests/LoginTests/testInvalidLogin",
			}},
		},
	}
	out := NewLLM().Render(patterns)

	if !strings.HasPrefix(out, "SCOPE: FAIL 1/3 tests (2.1s)\n") {
		t.Errorf("expected SCOPE line first:\n%s", out)
	}
	if !strings.Contains(out, "  FAIL testInvalidLogin (2.0s) -only-testing:AppTests/LoginTests/testInvalidLogin\n") {
		t.Errorf("expected failure line with rerun path:\n%s", out)
	}
	if !strings.Contains(out, "    c\n    ... (1 more lines)\n") {
		t.Errorf("expected details capped at three lines:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("LLM output must not contain ANSI escapes:\n%s", out)
	}
}

func TestLLM_RenderSchemes(t *testing.T) {
	patterns := []pattern.Pattern{
		&pattern.Summary{Label: "SCHEMES 1 scheme, 2 test targets", Kind: pattern.SummaryKindSchemes},
		&pattern.TestTable{
			Label: "Schemes",
			Results: []pattern.TestTableItem{
				{Name: "App", Status: pattern.StatusInfo, Count: 2, Details: "AppTests\nAppUITests"},
			},
		},
	}
	out := NewLLM().Render(patterns)
	if !strings.Contains(out, "  App: AppTests, AppUITests\n") {
		t.Errorf("expected scheme line:\n%s", out)
	}
}

func TestLLM_RenderScan(t *testing.T) {
	patterns := []pattern.Pattern{
		&pattern.Summary{Label: "SCAN 1 file: 1 class, 1 test", Kind: pattern.SummaryKindScan},
		&pattern.TestTable{
			Label: "LoginTests.swift (1 class, 1 test)",
			Results: []pattern.TestTableItem{
				{Name: "LoginTests.testValid", Status: pattern.StatusInfo, Details: "LoginTests.swift:4:5"},
			},
		},
	}
	out := NewLLM().Render(patterns)
	if !strings.Contains(out, "  LoginTests.swift:4:5 LoginTests.testValid\n") {
		t.Errorf("expected position-first scan line:\n%s", out)
	}
}
