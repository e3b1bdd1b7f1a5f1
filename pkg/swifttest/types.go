package swifttest

import "encoding/json"

// ElementKind identifies the variant of an Element.
type ElementKind string

const (
	KindClass  ElementKind = "class"
	KindMethod ElementKind = "method"
)

// Element is a TestClass or a TestMethod.
type Element interface {
	Kind() ElementKind
	Pos() int
}

// TestClass is a test class declaration.
type TestClass struct {
	ClassName string `json:"class"`
	Offset    int    `json:"offset"`
}

// TestMethod is a test method declaration inside a test class.
type TestMethod struct {
	ClassName  string `json:"class"`
	MethodName string `json:"method"`
	Offset     int    `json:"offset"`
}

func (TestClass) Kind() ElementKind  { return KindClass }
func (TestMethod) Kind() ElementKind { return KindMethod }

func (c TestClass) Pos() int  { return c.Offset }
func (m TestMethod) Pos() int { return m.Offset }

// Context is the result of a point query. MethodName is empty and
// MethodOffset is -1 when the offset is inside the class but outside every
// test method.
type Context struct {
	ClassName    string
	MethodName   string
	ClassOffset  int
	MethodOffset int
}

// HasMethod reports whether the context resolved to a test method.
func (c Context) HasMethod() bool {
	return c.MethodName != ""
}

type contextJSON struct {
	ClassName    string `json:"class"`
	MethodName   string `json:"method,omitempty"`
	ClassOffset  int    `json:"classOffset"`
	MethodOffset *int   `json:"methodOffset,omitempty"`
}

// MarshalJSON leaves out method and methodOffset when there is no method.
func (c Context) MarshalJSON() ([]byte, error) {
	out := contextJSON{ClassName: c.ClassName, ClassOffset: c.ClassOffset}
	if c.HasMethod() {
		offset := c.MethodOffset
		out.MethodName, out.MethodOffset = c.MethodName, &offset
	}
	return json.Marshal(out)
}
