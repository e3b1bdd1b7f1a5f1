package swifttest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const featureTests = `import XCTest
@testable import Feature

final class FeatureTests: XCTestCase {
    var sut: Feature!

    override func setUp() {
        super.setUp()
        sut = Feature()
    }

    func testExample() {
        let values = [1, 2, 3].map { $0 * 2 }
        XCTAssertEqual(values.count, 3)
    }

    func helperMethod() -> Int {
        return 42
    }

    func testAnother() throws {
        XCTAssertTrue(true)
    }
}
`

const multipleClasses = `import XCTest

class FirstTests: XCTestCase {
    func testA() {
        XCTAssertTrue(true)
    }
}

class Helper {
    func testNotATest() {}
}

class SecondTests: XCTestCase, Sendable {
    func testB() {
        let handler: () -> Void = {
            if true { print("nested") }
        }
        handler()
    }
}
`

func TestScanAll_SingleClass(t *testing.T) {
	got := ScanAll(featureTests)
	require.Len(t, got, 3)

	assert.Equal(t, TestClass{ClassName: "FeatureTests", Offset: strings.Index(featureTests, "class FeatureTests")}, got[0])
	assert.Equal(t, TestMethod{ClassName: "FeatureTests", MethodName: "testExample", Offset: strings.Index(featureTests, "func testExample")}, got[1])
	assert.Equal(t, TestMethod{ClassName: "FeatureTests", MethodName: "testAnother", Offset: strings.Index(featureTests, "func testAnother")}, got[2])
}

func TestScanAll_MultipleClassesInOrder(t *testing.T) {
	got := ScanAll(multipleClasses)
	kinds := make([]string, len(got))
	for i, e := range got {
		switch v := e.(type) {
		case TestClass:
			kinds[i] = "class " + v.ClassName
		case TestMethod:
			kinds[i] = "method " + v.ClassName + "." + v.MethodName
		}
	}
	assert.Equal(t, []string{
		"class FirstTests",
		"method FirstTests.testA",
		"class SecondTests",
		"method SecondTests.testB",
	}, kinds)
}

func TestScanAll_NoTestClasses(t *testing.T) {
	assert.Empty(t, ScanAll("struct Feature {\n    func testLike() {}\n}\n"))
	assert.Empty(t, ScanAll(""))
}

func TestScanAll_Idempotent(t *testing.T) {
	assert.Equal(t, ScanAll(multipleClasses), ScanAll(multipleClasses))
}

func TestLocate_InsideTestMethod(t *testing.T) {
	offset := strings.Index(featureTests, "XCTAssertEqual")
	ctx, ok := Locate(featureTests, offset)
	require.True(t, ok)
	assert.Equal(t, Context{
		ClassName:    "FeatureTests",
		MethodName:   "testExample",
		ClassOffset:  strings.Index(featureTests, "class FeatureTests"),
		MethodOffset: strings.Index(featureTests, "func testExample"),
	}, ctx)
	assert.True(t, ctx.HasMethod())
}

func TestLocate_OnMethodDeclaration(t *testing.T) {
	ctx, ok := Locate(featureTests, strings.Index(featureTests, "func testAnother"))
	require.True(t, ok)
	assert.Equal(t, "testAnother", ctx.MethodName)
}

func TestLocate_HelperMethodHasNoTestMethod(t *testing.T) {
	ctx, ok := Locate(featureTests, strings.Index(featureTests, "return 42"))
	require.True(t, ok)
	assert.Equal(t, "FeatureTests", ctx.ClassName)
	assert.False(t, ctx.HasMethod())
	assert.Equal(t, -1, ctx.MethodOffset)
}

func TestLocate_ClassDeclaration(t *testing.T) {
	ctx, ok := Locate(featureTests, strings.Index(featureTests, "class FeatureTests"))
	require.True(t, ok)
	assert.Equal(t, "FeatureTests", ctx.ClassName)
	assert.False(t, ctx.HasMethod())
}

func TestLocate_SecondClass(t *testing.T) {
	ctx, ok := Locate(multipleClasses, strings.Index(multipleClasses, "nested"))
	require.True(t, ok)
	assert.Equal(t, "SecondTests", ctx.ClassName)
	assert.Equal(t, "testB", ctx.MethodName)

	ctx, ok = Locate(multipleClasses, strings.Index(multipleClasses, "func testA"))
	require.True(t, ok)
	assert.Equal(t, "FirstTests", ctx.ClassName)
	assert.Equal(t, "testA", ctx.MethodName)
}

func TestLocate_OutsideTestClasses(t *testing.T) {
	_, ok := Locate(multipleClasses, strings.Index(multipleClasses, "func testNotATest"))
	assert.False(t, ok)

	_, ok = Locate(featureTests, strings.Index(featureTests, "@testable"))
	assert.False(t, ok)
}

func TestLocate_OutOfRangeOffsets(t *testing.T) {
	_, ok := Locate(featureTests, -1)
	assert.False(t, ok)
	_, ok = Locate(featureTests, len(featureTests)+1)
	assert.False(t, ok)
}

func TestLocate_ClassEndIsInclusive(t *testing.T) {
	text := "class ATests: XCTestCase {\n}"
	ctx, ok := Locate(text, len(text))
	require.True(t, ok)
	assert.Equal(t, "ATests", ctx.ClassName)
}

func TestLocate_UnterminatedClassRunsToEnd(t *testing.T) {
	text := "class ATests: XCTestCase {\n    func testOpen() {\n"
	ctx, ok := Locate(text, len(text)-1)
	require.True(t, ok)
	assert.Equal(t, "testOpen", ctx.MethodName)
}

func TestNewScanner_CustomBases(t *testing.T) {
	text := "class LoginSpec: QuickSpec {\n    func testSomething() {}\n}\n"
	assert.Empty(t, ScanAll(text))

	s := NewScanner("XCTestCase", "QuickSpec")
	got := s.ScanAll(text)
	require.Len(t, got, 2)
	assert.Equal(t, KindClass, got[0].Kind())
	assert.Equal(t, KindMethod, got[1].Kind())
}

func TestPosition(t *testing.T) {
	line, col := Position(featureTests, strings.Index(featureTests, "final class"))
	assert.Equal(t, 4, line)
	assert.Equal(t, 1, col)

	line, col = Position("abc", 2)
	assert.Equal(t, 1, line)
	assert.Equal(t, 3, col)
}

func TestContext_MarshalJSON_OmitsMissingMethod(t *testing.T) {
	data, err := json.Marshal(Context{ClassName: "LoginTests", ClassOffset: 21, MethodOffset: -1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"LoginTests","classOffset":21}`, string(data))

	data, err = json.Marshal(Context{ClassName: "LoginTests", MethodName: "testValid", ClassOffset: 21, MethodOffset: 56})
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"LoginTests","method":"testValid","classOffset":21,"methodOffset":56}`, string(data))
}
