package mapper

import (
	"fmt"

	"github.com/dkoosis/tuistrun/pkg/pattern"
	"github.com/dkoosis/tuistrun/pkg/swifttest"
)

// ScannedFile is one Swift source and the test elements found in it.
type ScannedFile struct {
	Path     string
	Text     string
	Elements []swifttest.Element
}

// FromScan converts scanned files into a Summary and one TestTable per file
// that declares tests, in input order.
func FromScan(files []ScannedFile) []pattern.Pattern {
	var classes, methods int
	var tables []pattern.Pattern
	for _, f := range files {
		table, c, m := scanTable(f)
		classes += c
		methods += m
		if table != nil {
			tables = append(tables, table)
		}
	}

	summary := &pattern.Summary{
		Label: fmt.Sprintf("SCAN %s: %s, %s",
			plural(len(files), "file", "files"),
			plural(classes, "class", "classes"),
			plural(methods, "test", "tests")),
		Kind: pattern.SummaryKindScan,
		Metrics: []pattern.SummaryItem{
			{Label: title("classes"), Value: fmt.Sprintf("%d", classes), Kind: "info"},
			{Label: title("test methods"), Value: fmt.Sprintf("%d", methods), Kind: "info"},
		},
	}
	return append([]pattern.Pattern{summary}, tables...)
}

func scanTable(f ScannedFile) (table *pattern.TestTable, classes, methods int) {
	if len(f.Elements) == 0 {
		return nil, 0, 0
	}

	items := make([]pattern.TestTableItem, 0, len(f.Elements))
	classRow := map[string]int{}
	for _, e := range f.Elements {
		line, col := swifttest.Position(f.Text, e.Pos())
		pos := fmt.Sprintf("%s:%d:%d", f.Path, line, col)
		switch v := e.(type) {
		case swifttest.TestClass:
			classes++
			classRow[v.ClassName] = len(items)
			items = append(items, pattern.TestTableItem{
				Name:     v.ClassName,
				Status:   pattern.StatusInfo,
				Details:  pos,
				Location: v.ClassName,
			})
		case swifttest.TestMethod:
			methods++
			if i, ok := classRow[v.ClassName]; ok {
				items[i].Count++
			}
			items = append(items, pattern.TestTableItem{
				Name:     v.ClassName + "." + v.MethodName,
				Status:   pattern.StatusInfo,
				Details:  pos,
				Location: v.ClassName + "/" + v.MethodName,
			})
		}
	}
	return &pattern.TestTable{
		Label:   fmt.Sprintf("%s (%s, %s)", f.Path, plural(classes, "class", "classes"), plural(methods, "test", "tests")),
		Results: items,
	}, classes, methods
}
