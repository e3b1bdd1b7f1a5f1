// Package render provides output renderers for tuistrun patterns.
package render

import "github.com/dkoosis/tuistrun/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
