package eval

import (
	"bytes"
	"strings"
	"testing"

	"zen/pkg/object"
)

func testEval(t *testing.T, input string) object.Object {
	t.Helper()
	return New().Run(input)
}

func testIntegerObject(t *testing.T, obj object.Object, expected int64) {
	t.Helper()
	result, ok := obj.(*object.Integer)
	if !ok {
		t.Fatalf("object is not Integer. got=%T (%+v)", obj, obj)
	}
	if result.Value != expected {
		t.Fatalf("value wrong. expected=%d, got=%d", expected, result.Value)
	}
}

func testStringObject(t *testing.T, obj object.Object, expected string) {
	t.Helper()
	result, ok := obj.(*object.String)
	if !ok {
		t.Fatalf("object is not String. got=%T (%+v)", obj, obj)
	}
	if result.Value != expected {
		t.Fatalf("value wrong. expected=%q, got=%q", expected, result.Value)
	}
}

func testErrorContains(t *testing.T, obj object.Object, want string) {
	t.Helper()
	errObj, ok := obj.(*object.Error)
	if !ok {
		t.Fatalf("object is not Error. got=%T (%+v)", obj, obj)
	}
	if !strings.Contains(errObj.Message, want) {
		t.Fatalf("error message wrong. expected to contain %q, got=%q", want, errObj.Message)
	}
}

func TestIntegerArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"-5", -5},
		{"5 + 5 * 2", 15},
		{"(5 + 5) * 2", 20},
		{"2 - 10", -8},
		{"7 / 2", 3},
		{"-7 / 2", -4},
		{"7 / -2", -4},
		{"-7 / -2", 3},
		{"50 / 2 * 2 + 10", 60},
	}

	for _, tt := range tests {
		testIntegerObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestDivisionByZero(t *testing.T) {
	testErrorContains(t, testEval(t, "10 / 0"), "division by zero")
}

func TestStringOperations(t *testing.T) {
	testStringObject(t, testEval(t, `"foo" + "bar"`), "foobar")

	result := testEval(t, `"a" == "a"`)
	if result != object.TRUE {
		t.Fatalf("string equality wrong. got=%s", result.Inspect())
	}
	result = testEval(t, `"a" != "b"`)
	if result != object.TRUE {
		t.Fatalf("string inequality wrong. got=%s", result.Inspect())
	}
}

func TestBangOperator(t *testing.T) {
	tests := []struct {
		input    string
		expected object.Object
	}{
		{"!true", object.FALSE},
		{"!false", object.TRUE},
		{"!nil", object.TRUE},
		// anything else maps to false, truthiness is not consulted
		{"!5", object.FALSE},
		{"!0", object.FALSE},
		{`!""`, object.FALSE},
		{"!!true", object.TRUE},
	}

	for _, tt := range tests {
		if got := testEval(t, tt.input); got != tt.expected {
			t.Errorf("input %q - expected=%s, got=%s",
				tt.input, tt.expected.Inspect(), got.Inspect())
		}
	}
}

func TestLogicalOperators(t *testing.T) {
	// && and || only apply to pairs that miss the type-specific tables;
	// there they select an operand by truthiness
	tests := []struct {
		input    string
		expected object.Object
	}{
		{"true && false", object.FALSE},
		{"false && true", object.FALSE},
		{"true || false", object.TRUE},
		{"false || true", object.TRUE},
		{"nil && true", object.NIL},
		{"nil || true", object.TRUE},
	}

	for _, tt := range tests {
		if got := testEval(t, tt.input); got != tt.expected {
			t.Errorf("input %q - expected=%s, got=%s",
				tt.input, tt.expected.Inspect(), got.Inspect())
		}
	}

	// mixed pairs select the falsy/truthy operand itself
	testIntegerObject(t, testEval(t, "0 && true"), 0)
	testIntegerObject(t, testEval(t, "nil || 3"), 3)
	testStringObject(t, testEval(t, `false || "fallback"`), "fallback")
}

func TestLogicalOperatorsOnSameTypePairsAreErrors(t *testing.T) {
	// both-integer and both-string pairs route to the type-specific
	// operator tables, where && and || are unknown operators
	tests := []struct {
		input    string
		expected string
	}{
		{"1 && 2", "unknown operator: INTEGER && INTEGER"},
		{"0 || 3", "unknown operator: INTEGER || INTEGER"},
		{`"" || "fallback"`, "unknown operator: STRING || STRING"},
		{`"a" && "b"`, "unknown operator: STRING && STRING"},
	}

	for _, tt := range tests {
		testErrorContains(t, testEval(t, tt.input), tt.expected)
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		input    string
		expected object.Object
	}{
		{"1 < 2", object.TRUE},
		{"2 <= 2", object.TRUE},
		{"3 > 4", object.FALSE},
		{"4 >= 5", object.FALSE},
		{"1 == 1", object.TRUE},
		{"1 != 1", object.FALSE},
		{"true == true", object.TRUE},
		{"true != false", object.TRUE},
		{"nil == nil", object.TRUE},
		// cross-type equality is false, not an error
		{`1 == "1"`, object.FALSE},
		{"1 != nil", object.TRUE},
	}

	for _, tt := range tests {
		if got := testEval(t, tt.input); got != tt.expected {
			t.Errorf("input %q - expected=%s, got=%s",
				tt.input, tt.expected.Inspect(), got.Inspect())
		}
	}
}

func TestTypeMismatchErrors(t *testing.T) {
	testErrorContains(t, testEval(t, `1 + "a"`), "unknown operator: INTEGER + STRING")
	testErrorContains(t, testEval(t, `"a" - "b"`), "unknown operator: STRING - STRING")
	testErrorContains(t, testEval(t, "-true"), "unknown operator: -BOOLEAN")
}

func TestVariablesAndScope(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"x = 5 x", 5},
		{"x = 5 y = x + 1 y", 6},
		{"x = 1 x = x + 1 x", 2},
	}

	for _, tt := range tests {
		testIntegerObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestIdentifierNotFound(t *testing.T) {
	testErrorContains(t, testEval(t, "missing"), "identifier not found: missing")
}

func TestFunctionApplication(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"fx add(a, b) { return a + b } add(2, 3)", 5},
		// implicit result: the last statement's value
		{"fx add(a, b) { a + b } add(2, 3)", 5},
		{"fx five() { return 5 } five()", 5},
		{"f = fx(x) { return x * 2 } f(4)", 8},
		// return short-circuits the rest of the body
		{"fx f() { return 1 2 } f()", 1},
	}

	for _, tt := range tests {
		testIntegerObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestArityMismatch(t *testing.T) {
	testErrorContains(t,
		testEval(t, "fx f(a, b) { return a } f(1)"),
		"wrong number of arguments: expected 2, got 1")
}

func TestNotAFunction(t *testing.T) {
	testErrorContains(t, testEval(t, "x = 5 x()"), "not a function: INTEGER")
}

func TestClosures(t *testing.T) {
	input := `
fx makeCounter() {
	count = 0
	return fx() {
		count = count + 1
		return count
	}
}
counter = makeCounter()
counter()
counter()
`
	testIntegerObject(t, testEval(t, input), 2)
}

func TestClosuresAreIndependent(t *testing.T) {
	input := `
fx makeCounter() {
	count = 0
	return fx() {
		count = count + 1
		return count
	}
}
a = makeCounter()
b = makeCounter()
a()
a()
b()
`
	testIntegerObject(t, testEval(t, input), 1)
}

func TestClasses(t *testing.T) {
	input := `
clx Person {
	fx __init__(self, name) {
		self.name = name
	}
	fx greet(self) {
		return "Hi " + self.name
	}
}
p = Person("Alice")
`
	in := New()
	result := in.Run(input + "p.name")
	testStringObject(t, result, "Alice")

	result = New().Run(input + "p.greet()")
	testStringObject(t, result, "Hi Alice")
}

func TestConstructorReturnsInstance(t *testing.T) {
	input := `
clx C {
	fx __init__(self) {
		return 42
	}
}
type(C())
`
	testStringObject(t, testEval(t, input), "instance")
}

func TestFieldAssignment(t *testing.T) {
	input := `
clx Box { }
b = Box()
b.value = 7
b.value
`
	testIntegerObject(t, testEval(t, input), 7)
}

func TestUnknownAttribute(t *testing.T) {
	input := `
clx C { }
c = C()
c.missing
`
	testErrorContains(t, testEval(t, input), "attribute 'missing' not found on C instance")
}

func TestInstanceEqualityIsIdentity(t *testing.T) {
	input := `
clx C {
	fx __init__(self) { self.x = 1 }
}
a = C()
b = C()
a == b
`
	if got := testEval(t, input); got != object.FALSE {
		t.Fatalf("distinct instances compare equal. got=%s", got.Inspect())
	}

	same := `
clx C { }
a = C()
b = a
a == b
`
	if got := testEval(t, same); got != object.TRUE {
		t.Fatalf("instance not equal to itself. got=%s", got.Inspect())
	}
}

func TestSelfOutsideMethod(t *testing.T) {
	testErrorContains(t, testEval(t, "self"), "'self' used outside of instance method")
}

func TestErrorsPropagate(t *testing.T) {
	// the error produced deep inside an expression surfaces unchanged
	testErrorContains(t,
		testEval(t, "fx f() { return 10 / 0 } f() + 1"),
		"division by zero")
	// statements after the error do not run
	in := New()
	var buf bytes.Buffer
	in.Stdout = &buf
	result := in.Run(`missing print("unreachable")`)
	testErrorContains(t, result, "identifier not found")
	if buf.Len() != 0 {
		t.Fatalf("statement after error ran, printed %q", buf.String())
	}
}

func TestBuiltinPrint(t *testing.T) {
	in := New()
	var buf bytes.Buffer
	in.Stdout = &buf

	result := in.Run(`print("a", 1, true, nil)`)
	if result != object.NIL {
		t.Fatalf("print did not return nil. got=%s", result.Inspect())
	}
	if got := buf.String(); got != "a 1 true nil\n" {
		t.Fatalf("print output wrong. got=%q", got)
	}

	buf.Reset()
	in.Run("print()")
	if got := buf.String(); got != "\n" {
		t.Fatalf("bare print output wrong. got=%q", got)
	}
}

func TestBuiltinLen(t *testing.T) {
	testIntegerObject(t, testEval(t, `len("hello")`), 5)
	testIntegerObject(t, testEval(t, `len("")`), 0)
	testErrorContains(t, testEval(t, "len(1)"), "len() not supported for INTEGER")
	testErrorContains(t, testEval(t, `len("a", "b")`), "wrong number of arguments")
}

func TestBuiltinType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"type(1)", "integer"},
		{`type("s")`, "string"},
		{"type(true)", "boolean"},
		{"type(nil)", "nil"},
		{"fx f() { } type(f)", "function"},
		{"clx C { } type(C)", "class"},
		{"type(len)", "builtin"},
	}

	for _, tt := range tests {
		testStringObject(t, testEval(t, tt.input), tt.expected)
	}
}

func TestBuiltinStr(t *testing.T) {
	testStringObject(t, testEval(t, "str(42)"), "42")
	testStringObject(t, testEval(t, "str(true)"), "true")
	testStringObject(t, testEval(t, "str(nil)"), "nil")
	// strings come back unchanged, not re-quoted
	testStringObject(t, testEval(t, `str("hi")`), "hi")
}

func TestBuiltinInt(t *testing.T) {
	testIntegerObject(t, testEval(t, "int(7)"), 7)
	testIntegerObject(t, testEval(t, `int("42")`), 42)
	testIntegerObject(t, testEval(t, `int("-3")`), -3)
	testIntegerObject(t, testEval(t, "int(true)"), 1)
	testIntegerObject(t, testEval(t, "int(false)"), 0)
	testErrorContains(t, testEval(t, `int("abc")`), "cannot convert 'abc' to integer")
	testErrorContains(t, testEval(t, "int(nil)"), "cannot convert NIL to integer")
}

func TestBuiltinBool(t *testing.T) {
	tests := []struct {
		input    string
		expected object.Object
	}{
		{"bool(1)", object.TRUE},
		{"bool(0)", object.FALSE},
		{`bool("")`, object.FALSE},
		{`bool("x")`, object.TRUE},
		{"bool(nil)", object.FALSE},
	}

	for _, tt := range tests {
		if got := testEval(t, tt.input); got != tt.expected {
			t.Errorf("input %q - expected=%s, got=%s",
				tt.input, tt.expected.Inspect(), got.Inspect())
		}
	}
}

func TestBuiltinInput(t *testing.T) {
	in := New()
	var out bytes.Buffer
	in.Stdout = &out
	in.Stdin = strings.NewReader("first\nsecond\n")

	testStringObject(t, in.Run(`input("> ")`), "first")
	if got := out.String(); got != "> " {
		t.Fatalf("prompt wrong. got=%q", got)
	}
	testStringObject(t, in.Run("input()"), "second")
	// end of input yields the empty string
	testStringObject(t, in.Run("input()"), "")
}

func TestBuiltinExit(t *testing.T) {
	in := New()
	var code = -1
	in.Exit = func(c int) { code = c }

	in.Run("exit(3)")
	if code != 3 {
		t.Fatalf("exit code wrong. expected=3, got=%d", code)
	}

	in.Run("exit()")
	if code != 0 {
		t.Fatalf("default exit code wrong. expected=0, got=%d", code)
	}

	testErrorContains(t, in.Run(`exit("no")`), "exit code must be an integer")
}

func TestParseErrorsSurfaceAsError(t *testing.T) {
	testErrorContains(t, testEval(t, "fx () { }"), "parse errors")
}
