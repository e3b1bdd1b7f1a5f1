package pattern

// Item statuses understood by renderers.
const (
	StatusPass    = "pass"
	StatusFail    = "fail"
	StatusRunning = "wip"
	StatusInfo    = "info"
)

// TestTable represents test results with status and timing.
type TestTable struct {
	Label   string
	Results []TestTableItem
}

// TestTableItem is a single test, class or scheme row.
type TestTableItem struct {
	Name     string // test, class or scheme name
	Status   string // one of the Status constants
	Duration string // formatted duration
	Count    int    // number of children (tests in a class, targets in a scheme)
	Details  string // failure message, target list or source position
	Location string // location hint or -only-testing path
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
