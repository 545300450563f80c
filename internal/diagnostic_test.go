package internal

import (
	"strings"
	"testing"

	"github.com/labstack/gommon/color"
)

func checkDiagnostic(t *testing.T, source string, expected ...string) {
	t.Helper()
	err := NewInterpreter(WithPrinter(&testPrinter{})).Run(source)
	if err == nil {
		t.Errorf("%q: expected an error", source)
		return
	}
	if got := err.Error(); got != strings.Join(expected, "\n") {
		t.Errorf("%q:\nexpected:\n%s\nfound:\n%s", source, strings.Join(expected, "\n"), got)
	}
}

func TestDiagnosticFormat(t *testing.T) {
	checkDiagnostic(
		t,
		"print 1;\nprint x;",
		"[line 2]: RuntimeError: Undefined variable `x`",
		"        print x;",
		"              ^",
	)

	// the underline spans the whole lexeme
	checkDiagnostic(
		t,
		"print missing;",
		"[line 1]: RuntimeError: Undefined variable `missing`",
		"        print missing;",
		"              ^^^^^^^",
	)

	// end of input gets a single caret after the last token
	checkDiagnostic(
		t,
		"print 1",
		"[line 1]: ParseError: Expected `;` after value. Found `end of input`.",
		"        print 1",
		"               ^",
	)

	checkDiagnostic(
		t,
		"var a = @;",
		"[line 1]: LexError: Unexpected character `@`",
		"        var a = @;",
		"                ^",
	)

	// display width, not bytes
	checkDiagnostic(
		t,
		`print "héllo" - 1;`,
		"[line 1]: RuntimeError: Operator `-` expects numbers, found string and number",
		`        print "héllo" - 1;`,
		"                      ^",
	)

	// tabs are kept so the caret stays aligned
	checkDiagnostic(
		t,
		"\tprint x;",
		"[line 1]: RuntimeError: Undefined variable `x`",
		"        \tprint x;",
		"        \t      ^",
	)

	// every compile error is rendered in order
	checkDiagnostic(
		t,
		"return 1;\nprint this;",
		"[line 1]: ResolveError: Can't return from top-level code",
		"        return 1;",
		"        ^^^^^^",
		"[line 2]: ResolveError: Can't use 'this' outside of a class",
		"        print this;",
		"              ^^^^",
	)
}

func TestDiagnosticFromEarlierSubmission(t *testing.T) {
	in := NewInterpreter(WithPrinter(&testPrinter{}))
	if err := in.RunREPL("fun f() {\n  return undefinedName;\n}"); err != nil {
		t.Fatal(err)
	}
	err := in.RunREPL("f();")
	expected := strings.Join([]string{
		"[line 2]: RuntimeError: Undefined variable `undefinedName`",
		"          return undefinedName;",
		"                 ^^^^^^^^^^^^^",
	}, "\n")
	if err == nil || err.Error() != expected {
		t.Errorf("expected:\n%s\nfound:\n%v", expected, err)
	}
}

func TestDiagnosticColor(t *testing.T) {
	err := NewInterpreter(WithPrinter(&testPrinter{})).Run("print x;")

	c := color.New()
	c.Disable()
	if Render(err, c) != err.Error() {
		t.Errorf("a disabled color should render the plain format")
	}

	c = color.New()
	c.Enable()
	colored := Render(err, c)
	if colored == err.Error() {
		t.Errorf("expected colored output")
	}
	if !strings.Contains(colored, "Undefined variable `x`") {
		t.Errorf("colored output lost the message: %q", colored)
	}
}

func TestClassify(t *testing.T) {
	in := NewInterpreter(WithPrinter(&testPrinter{}))

	err := in.Run("print x;")
	if !IsRuntimeError(err) || IsCompileError(err) || IsIncomplete(err) {
		t.Errorf("runtime error misclassified: %v", err)
	}

	err = in.Run("print ;")
	if IsRuntimeError(err) || !IsCompileError(err) || IsIncomplete(err) {
		t.Errorf("parse error misclassified: %v", err)
	}

	if in.Run("print 1;") != nil {
		t.Errorf("expected success")
	}
}
