package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/gommon/color"
	"github.com/mattn/go-runewidth"
)

// Kind classifies a diagnostic by the stage that raised it
type Kind int

const (
	LexError Kind = iota
	ParseError
	ResolveError
	RuntimeError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case ResolveError:
		return "ResolveError"
	case RuntimeError:
		return "RuntimeError"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

const excerptIndent = "        "

// Diagnostic is a located error. Text holds the whole source line the error
// points at, Start and End the byte range of the offending lexeme in Text.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Message string
	Text    string
	Start   int
	End     int

	err        error
	incomplete bool
}

func newDiagnostic(kind Kind, err error, tk *token) *Diagnostic {
	d := &Diagnostic{
		Kind:       kind,
		Line:       tk.line,
		Message:    err.Error(),
		err:        err,
		incomplete: tk.token == tkEOF,
	}
	if tk.unit == nil {
		return d
	}
	source := tk.unit.text
	lineStart := strings.LastIndexByte(source[:tk.start], '\n') + 1
	lineEnd := len(source)
	if i := strings.IndexByte(source[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}
	d.Text = strings.TrimRight(source[lineStart:lineEnd], "\r")
	d.Start = tk.start - lineStart
	d.End = tk.end - lineStart
	if d.End > len(d.Text) {
		d.End = len(d.Text)
	}
	if d.Start > len(d.Text) {
		d.Start = len(d.Text)
	}
	return d
}

func (d *Diagnostic) Unwrap() error {
	return d.err
}

func (d *Diagnostic) Error() string {
	return d.Render(nil)
}

// Render formats the diagnostic as header, source line and caret underline.
// With a non-nil c the header and carets are coloured.
func (d *Diagnostic) Render(c *color.Color) string {
	kind := d.Kind.String()
	carets := d.underline()
	if c != nil {
		kind = c.Red(kind, color.B)
		carets = c.Yellow(carets)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[line %d]: %s: %s", d.Line, kind, d.Message)
	b.WriteString("\n" + excerptIndent + d.Text)
	b.WriteString("\n" + excerptIndent + carets)
	return b.String()
}

// underline lines up carets with the lexeme. Tabs in the prefix are copied
// so the carets land under the right column whatever the tab width.
func (d *Diagnostic) underline() string {
	var b strings.Builder
	for _, r := range d.Text[:d.Start] {
		if r == '\t' {
			b.WriteRune('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(d.Text[d.Start:d.End])
	if width < 1 {
		width = 1
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// Diagnostics is the error returned when a unit fails before execution
type Diagnostics []*Diagnostic

func (ds Diagnostics) Error() string {
	return ds.Render(nil)
}

func (ds Diagnostics) Render(c *color.Color) string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Render(c)
	}
	return strings.Join(out, "\n")
}

// IsRuntimeError reports whether err aborted a unit during execution
func IsRuntimeError(err error) bool {
	var d *Diagnostic
	return errors.As(err, &d) && d.Kind == RuntimeError
}

// IsCompileError reports whether err stopped a unit before execution
func IsCompileError(err error) bool {
	var ds Diagnostics
	return errors.As(err, &ds) && len(ds) > 0
}

// IsIncomplete reports whether a unit failed only because its input ended
// too early, which is the signal for a REPL to keep reading lines.
func IsIncomplete(err error) bool {
	var ds Diagnostics
	if !errors.As(err, &ds) || len(ds) == 0 {
		return false
	}
	for _, d := range ds {
		if !d.incomplete {
			return false
		}
	}
	return true
}

// Render colours err when it is one of the pipeline's diagnostics.
func Render(err error, c *color.Color) string {
	var ds Diagnostics
	if errors.As(err, &ds) {
		return ds.Render(c)
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return d.Render(c)
	}
	return err.Error()
}
