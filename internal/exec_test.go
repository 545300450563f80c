package internal

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

type testPrinter struct {
	printed string
}

func (t *testPrinter) Println(a ...interface{}) (n int, err error) {
	for i, e := range a {
		if i != 0 {
			t.printed += " "
		}
		t.printed += fmt.Sprintf("%v", e)
	}
	t.printed += "\n"
	return 0, nil
}

func (t *testPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return t.Println(fmt.Sprintf(format, a...))
}

func (t *testPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return t.Println(a...)
}

func (t *testPrinter) Equals(p string) bool {
	if t.printed == p+"\n" {
		t.Reset()
		return true
	}
	return false
}

func (t *testPrinter) Reset() {
	t.printed = ""
}

func checkExpression(t *testing.T, exp string, result ...string) {
	t.Helper()
	source := "print " + exp + ";"
	tp := &testPrinter{}
	RunSourceWithPrinter(source, tp)
	any := false
	for _, r := range result {
		if tp.Equals(r) {
			any = true
			break
		}
	}
	if !any {
		t.Errorf(
			"Error on: \n%s\n\tResult should be equal to %s instead of %s",
			exp,
			result,
			tp.printed,
		)
	}
}

// checkErrorMsg compares the header line of the diagnostic printed for source
func checkErrorMsg(t *testing.T, source string, errorMsg string, line int) {
	t.Helper()
	expected := fmt.Sprintf("[line %d]: %s", line, errorMsg)

	tp := &testPrinter{}
	if RunSourceWithPrinter(source, tp) {
		t.Errorf("\nSource:\n----\n%s\n----\nExpected an error, run succeeded", source)
		return
	}
	found := false
	for _, l := range strings.Split(tp.printed, "\n") {
		if l == expected {
			found = true
			break
		}
	}
	if !found {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s\n----\nFound:\n----\n%s----",
			source,
			expected,
			tp.printed,
		)
	}
}

func checkStatements(t *testing.T, code string, resultVar string, result string) {
	t.Helper()
	source := code + "\nprint " + resultVar + ";"
	tp := &testPrinter{}
	RunSourceWithPrinter(source, tp)
	if !tp.Equals(result) {
		t.Errorf(
			"Error on: \n%s\n\t%s should be equal to %s instead of %s",
			code,
			resultVar,
			result,
			tp.printed,
		)
	}
}

func checkOutput(t *testing.T, source string, lines ...string) {
	t.Helper()
	tp := &testPrinter{}
	RunSourceWithPrinter(source, tp)
	if !tp.Equals(strings.Join(lines, "\n")) {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s\n----\nFound:\n----\n%s----",
			source,
			strings.Join(lines, "\n"),
			tp.printed,
		)
	}
}

func TestExpressions(t *testing.T) {

	// Arithmetic
	{
		checkExpression(t, "1", "1")
		checkExpression(t, "-1", "-1")
		checkExpression(t, "1 + 2 + 3", "6")
		checkExpression(t, "8 - 2", "6")
		checkExpression(t, "1 * 2 * 3", "6")
		checkExpression(t, "12 / 2", "6")
		checkExpression(t, "(2 + 3) * 4", "20")
		checkExpression(t, "2 + 3 * 4", "14")
		checkExpression(t, "10 / 4", "2.5")
		checkExpression(t, "-(1 - 3)", "2")
		checkExpression(t, "0.1 + 0.2", "0.30000000000000004")
		checkExpression(t, "1 / 0", "inf")
		checkExpression(t, "-1 / 0", "-inf")
		checkExpression(t, "0 / 0", "nan")
		checkExpression(t, "1000000000000000000000", "1e+21")
	}

	// Logical
	{
		checkExpression(t, "true", "true")
		checkExpression(t, "false", "false")
		checkExpression(t, "nil", "nil")

		checkExpression(t, "!false", "true")
		checkExpression(t, "!true", "false")
		checkExpression(t, "!nil", "true")
		checkExpression(t, `!""`, "false")
		checkExpression(t, "!0", "false")

		checkExpression(t, "true and true", "true")
		checkExpression(t, "false and true", "false")
		checkExpression(t, "1 and 2", "2")
		checkExpression(t, "nil and 2", "nil")

		checkExpression(t, "false or false", "false")
		checkExpression(t, `nil or "x"`, "x")
		checkExpression(t, "1 or 2", "1")
	}

	// Strings
	{
		checkExpression(t, `"test"`, "test")
		checkExpression(t, `"te" + "st"`, "test")
		checkExpression(t, `"a" + 1`, "a1")
		checkExpression(t, `1 + "a"`, "1a")
		checkExpression(t, `"x" + 2.5`, "x2.5")
	}

	// Comparisons
	{
		checkExpression(t, `"test" == "test"`, "true")
		checkExpression(t, `"test" != "test"`, "false")
		checkExpression(t, `1 == "1"`, "false")
		checkExpression(t, "nil == nil", "true")
		checkExpression(t, "nil == false", "false")
		checkExpression(t, "2 * 2 == 8 - 4", "true")
		checkExpression(t, "10 > 5", "true")
		checkExpression(t, "10 < 5", "false")
		checkExpression(t, "5 >= 5", "true")
		checkExpression(t, "4 >= 5", "false")
		checkExpression(t, "5 <= 5", "true")
		checkExpression(t, "(5 <= 5) and (!true or ((1 * (1 + 4)) == 5))", "true")
	}
}

func TestRuntimeErrors(t *testing.T) {
	checkErrorMsg(t, `print "A" - "B";`, "RuntimeError: Operator `-` expects numbers, found string and string", 1)
	checkErrorMsg(t, `print "a" < 1;`, "RuntimeError: Operator `<` expects numbers, found string and number", 1)
	checkErrorMsg(t, `print -"B";`, "RuntimeError: Operator `-` expects a number, found string", 1)
	checkErrorMsg(t, `print "a" + nil;`, "RuntimeError: Operator `+` expects two numbers or a string, found string and nil", 1)
	checkErrorMsg(t, `print true + 1;`, "RuntimeError: Operator `+` expects two numbers or a string, found boolean and number", 1)
	checkErrorMsg(t, `"B"();`, "RuntimeError: Can only call functions and classes", 1)
	checkErrorMsg(t, "fun f(a, b) {}\nf();", "RuntimeError: Expected 2 arguments. Found 0 arguments", 2)
	checkErrorMsg(t, "class A { init(x) {} }\nA();", "RuntimeError: Expected 1 arguments. Found 0 arguments", 2)
	checkErrorMsg(t, "print undefinedVar;", "RuntimeError: Undefined variable `undefinedVar`", 1)
	checkErrorMsg(t, "x = 1;", "RuntimeError: Undefined variable `x`", 1)
	checkErrorMsg(t, "var a = 1;\nprint a.b;", "RuntimeError: Only instances have properties, found number", 2)
	checkErrorMsg(t, "var a = 1;\na.b = 2;", "RuntimeError: Only instances have fields, found number", 2)
	checkErrorMsg(t, "class A {}\nprint A().x;", "RuntimeError: Undefined property `x`", 2)
	checkErrorMsg(t, "var B = 1;\nclass A < B {}", "RuntimeError: Superclass must be a class", 2)
	checkErrorMsg(t, "class A {}\nclass B < A { m() { return super.missing; } }\nB().m();", "RuntimeError: Undefined property `missing`", 2)
}

func TestRuntimeErrorStopsUnit(t *testing.T) {
	tp := &testPrinter{}
	err := NewInterpreter(WithPrinter(tp)).Run("print 1;\nprint x;\nprint 2;")
	if !IsRuntimeError(err) {
		t.Fatalf("expected a runtime error, got %v", err)
	}
	if tp.printed != "1\n" {
		t.Errorf("statements after the failing one must not run, printed %q", tp.printed)
	}
}

func TestGlobals(t *testing.T) {
	checkExpression(t, "clock", "<native fn clock>")

	now := time.Unix(1500, 500000000)
	tp := &testPrinter{}
	in := NewInterpreter(WithPrinter(tp), WithClock(func() time.Time { return now }))
	if err := in.Run("print clock();"); err != nil {
		t.Fatal(err)
	}
	if !tp.Equals("1500.5") {
		t.Errorf("clock() printed %q", tp.printed)
	}

	checkErrorMsg(t, "clock(1);", "RuntimeError: Expected 0 arguments. Found 1 arguments", 1)
}

func TestStatements(t *testing.T) {
	// Comment
	{
		checkStatements(t, `
		// This is a "comment"
		var i = 0;
		`, "i", "0")
	}

	// If-else
	{
		checkStatements(t, `
		var i = 0;
		if (i == 100) i = 10;
		else if (i < 10) i = 20;
		else i = 100;
		`, "i", "20")

		checkStatements(t, `
		var i = 20;
		if (i == 100) i = 10;
		else if (i < 10) i = 20;
		else i = 100;
		`, "i", "100")

		// dangling else binds to the nearest if
		checkStatements(t, `
		var i = 0;
		if (true) if (false) i = 1; else i = 2;
		`, "i", "2")
	}

	// While loop
	{
		checkStatements(t, `
		var i = 0;
		while (i * 2 < 10) {
			i = i + 1;
		}
		`, "i", "5")
	}

	// For loop
	{
		checkStatements(t, `
		var x = 1;
		for (var i = 1; i <= 8; i = i + 1) {
			x = x * i;
		}`, "x", "40320")

		checkStatements(t, `
		var x = 40320;
		var u = 0;
		for (; u < 10; u = u + 1) {
			x = x - u;
		}
		`, "x", "40275")

		// missing clauses
		checkStatements(t, `
		var n = 0;
		for (; n < 3;) n = n + 1;
		`, "n", "3")
	}
}

func TestFunctions(t *testing.T) {
	// Recursion
	checkOutput(t, `
	fun fib(n) {
		if (n < 2) return n;
		return fib(n - 1) + fib(n - 2);
	}
	for (var i = 1; i < 10; i = i + 1) {
		print fib(i);
	}
	`, "1", "1", "2", "3", "5", "8", "13", "21", "34")

	// Return unwinds loops and blocks up to the call
	checkOutput(t, `
	fun find() {
		var i = 0;
		while (true) {
			{
				i = i + 1;
				if (i == 3) return i;
			}
		}
	}
	print find();
	`, "3")

	// Missing return yields nil
	checkOutput(t, `
	fun noop() {}
	print noop();
	fun bare() { return; }
	print bare();
	`, "nil", "nil")

	checkExpression(t, "clock == clock", "true")
	checkOutput(t, "fun f() {}\nprint f;", "<fn f>")
}

func TestClosures(t *testing.T) {
	// Captured by reference
	checkOutput(t, `
	fun counter() {
		var i = 0;
		fun inc() {
			i = i + 1;
			return i;
		}
		return inc;
	}
	var c = counter();
	c();
	print c();
	var d = counter();
	print d();
	`, "2", "1")

	// Lexical scoping
	checkOutput(t, `
	var a = "global";
	{
		fun showA() {
			print a;
		}
		showA();
		var a = "block";
		showA();
		print a;
	}
	`, "global", "global", "block")

	// Shadowing
	checkOutput(t, `
	var a = "outer";
	{
		var a = "inner";
		print a;
	}
	print a;
	`, "inner", "outer")

	// Deep nesting keeps distances right
	checkOutput(t, `
	fun outer() {
		var x = "x";
		{
			var y = "y";
			fun middle() {
				{
					fun inner() {
						x = x + y;
						return x;
					}
					return inner;
				}
			}
			return middle();
		}
	}
	var f = outer();
	f();
	print f();
	`, "xyy")

	// Globals redefined at top level are fine
	checkOutput(t, `
	var a = 1;
	var a = a + 1;
	print a;
	`, "2")
}

func TestClasses(t *testing.T) {
	checkOutput(t, `
	class Point {
		init(x, y) {
			this.x = x;
			this.y = y;
		}
		sum() {
			return this.x + this.y;
		}
	}
	var p = Point(1, 2);
	print p.sum();
	p.x = 10;
	print p.sum();
	print Point;
	print p;
	`, "3", "12", "<class Point>", "<instance Point>")

	// Bound methods remember their instance
	checkOutput(t, `
	class Name {
		init(n) { this.n = n; }
		get() { return this.n; }
	}
	var m = Name("a").get;
	print m();
	print m;
	`, "a", "<fn get>")

	// Fields shadow methods
	checkOutput(t, `
	class A {
		m() { return "method"; }
	}
	var a = A();
	a.m = "field";
	print a.m;
	`, "field")

	// Calling init directly returns the instance
	checkOutput(t, `
	class A {
		init() { this.count = 0; }
	}
	var a = A();
	a.count = 5;
	print a.init();
	print a.count;
	`, "<instance A>", "0")

	// Return is allowed in functions nested inside init
	checkOutput(t, `
	class A {
		init() {
			fun one() { return 1; }
			this.v = one();
		}
	}
	print A().v;
	`, "1")

	// Inheritance and super
	checkOutput(t, `
	class A {
		method() { print "A method"; }
		name() { return "A"; }
	}
	class B < A {
		method() { print "B method"; }
		test() { super.method(); }
	}
	class C < B {}
	C().test();
	C().method();
	print C().name();
	`, "A method", "B method", "A")

	// Inherited init
	checkOutput(t, `
	class Base {
		init(v) { this.v = v; }
	}
	class Derived < Base {
		init(v) {
			super.init(v * 2);
		}
	}
	print Derived(4).v;
	`, "8")

	// Classes are values
	checkOutput(t, `
	fun make() {
		class Local {
			hello() { return "hi"; }
		}
		return Local;
	}
	print make()().hello();
	`, "hi")
}

func TestSession(t *testing.T) {
	tp := &testPrinter{}
	in := NewInterpreter(WithPrinter(tp))

	if err := in.RunREPL("var a = 1;"); err != nil {
		t.Fatal(err)
	}
	if err := in.RunREPL("fun add(b) { return a + b; }"); err != nil {
		t.Fatal(err)
	}
	if err := in.RunREPL("add(2)"); err != nil {
		t.Fatal(err)
	}
	if !tp.Equals("3") {
		t.Errorf("echo printed %q", tp.printed)
	}

	// a failing submission leaves earlier globals usable
	if err := in.RunREPL("print missing;"); !IsRuntimeError(err) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if err := in.RunREPL("print add(10);"); err != nil {
		t.Fatal(err)
	}
	if !tp.Equals("11") {
		t.Errorf("printed %q", tp.printed)
	}

	// the same statements behave the same way on every run
	for i := 0; i < 2; i++ {
		if err := in.Run("print a;"); err != nil {
			t.Fatal(err)
		}
		if !tp.Equals("1") {
			t.Errorf("run %d printed %q", i, tp.printed)
		}
	}

	// a trailing expression is an error outside the REPL
	if err := in.Run("1 + 2"); !IsCompileError(err) {
		t.Errorf("expected compile error, got %v", err)
	}
}

func TestIdempotentRuns(t *testing.T) {
	programs := []struct {
		name   string
		source string
	}{
		{"fibonacci", `
fun fib(n) {
	if (n < 2) return n;
	return fib(n - 1) + fib(n - 2);
}
for (var i = 1; i < 10; i = i + 1) print fib(i);`},
		{"counter", `
fun makeCounter() {
	var i = 0;
	fun count() { i = i + 1; return i; }
	return count;
}
var c = makeCounter();
print c(); print c(); print c();`},
		{"super", `
class A { method() { return "A"; } }
class B < A {
	method() { return "B"; }
	test() { return super.method() + this.method(); }
}
class C < B {}
print C().test();`},
		{"init", `
class Point {
	init(x, y) { this.x = x; this.y = y; }
	sum() { return this.x + this.y; }
}
var p = Point(1, 2);
print p.sum();
print p.init(3, 4).sum();`},
		{"runtime error", `print "before"; print nope; print "after";`},
	}
	for _, p := range programs {
		t.Run(p.name, func(t *testing.T) {
			first, second := &testPrinter{}, &testPrinter{}
			err1 := NewInterpreter(WithPrinter(first)).Run(p.source)
			err2 := NewInterpreter(WithPrinter(second)).Run(p.source)
			if first.printed == "" || first.printed != second.printed {
				t.Errorf("outputs differ:\n%q\n%q", first.printed, second.printed)
			}
			if fmt.Sprint(err1) != fmt.Sprint(err2) {
				t.Errorf("errors differ: %v / %v", err1, err2)
			}

			first.Reset()
			second.Reset()
			ok1 := RunSourceWithPrinter(p.source, first)
			ok2 := RunSourceWithPrinter(p.source, second)
			if ok1 != ok2 || first.printed != second.printed {
				t.Errorf("RunSourceWithPrinter outputs differ:\n%q\n%q", first.printed, second.printed)
			}
		})
	}
}

func TestSessionDropsFinishedLocals(t *testing.T) {
	tp := &testPrinter{}
	in := NewInterpreter(WithPrinter(tp))

	for i := 0; i < 3; i++ {
		if err := in.RunREPL("{ var a = 1; { print a; } }"); err != nil {
			t.Fatal(err)
		}
	}
	if len(in.exec.locals) != 0 {
		t.Errorf("block locals should be dropped after each submission, found %d", len(in.exec.locals))
	}

	if err := in.RunREPL("{ var n = 2; fun twice(x) { return x * n; } var f = twice; } "); err != nil {
		t.Fatal(err)
	}
	if err := in.RunREPL("print nope;"); !IsRuntimeError(err) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	// x and n inside twice stay resolved
	if len(in.exec.locals) != 2 {
		t.Errorf("function locals should persist, found %d", len(in.exec.locals))
	}

	tp.Reset()
	if err := in.RunREPL("fun make() { var k = 5; fun get() { return k; } return get; } var g = make();"); err != nil {
		t.Fatal(err)
	}
	if err := in.RunREPL("print g();"); err != nil {
		t.Fatal(err)
	}
	if !tp.Equals("5") {
		t.Errorf("printed %q", tp.printed)
	}
}
