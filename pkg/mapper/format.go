package mapper

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// caserWrapper wraps a cases.Caser to allow pointer storage in sync.Pool.
type caserWrapper struct {
	caser cases.Caser
}

// cases.Title is not safe for concurrent use; mappers run from scan workers.
var titleCaserPool = sync.Pool{
	New: func() interface{} {
		return &caserWrapper{caser: cases.Title(language.English)}
	},
}

// title converts a status or kind word to title case.
func title(s string) string {
	wrapper, ok := titleCaserPool.Get().(*caserWrapper)
	if !ok || wrapper == nil {
		return cases.Title(language.English).String(s)
	}
	defer titleCaserPool.Put(wrapper)
	return wrapper.caser.String(s)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func truncateLines(s string, max int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= max {
		return s
	}
	result := strings.Join(lines[:max], "\n")
	return result + fmt.Sprintf("\n... (%d more lines)", len(lines)-max)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
