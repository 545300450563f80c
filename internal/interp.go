package internal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
	Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error)
	Fprintln(w io.Writer, a ...interface{}) (n int, err error)
}

type writerPrinter struct {
	w io.Writer
}

// NewWriterPrinter returns a printer that sends program output to w
func NewWriterPrinter(w io.Writer) IPrinter {
	return writerPrinter{w: w}
}

func (p writerPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(p.w, a...)
}

func (p writerPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(w, format, a...)
}

func (p writerPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(w, a...)
}

// Interpreter is one session. Globals and resolved locals persist between
// submissions.
type Interpreter struct {
	exec   *exec
	logger logrus.FieldLogger
	clock  func() time.Time
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithPrinter sets the sink for program output
func WithPrinter(p IPrinter) Option {
	return func(i *Interpreter) {
		i.exec.printer = p
	}
}

// WithLogger sets the logger receiving pipeline debug entries
func WithLogger(logger logrus.FieldLogger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithClock sets the time source of the clock native
func WithClock(clock func() time.Time) Option {
	return func(i *Interpreter) {
		i.clock = clock
	}
}

func NewInterpreter(opts ...Option) *Interpreter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	globals := newEnv(nil)
	i := &Interpreter{
		exec:   newExec(globals, NewWriterPrinter(os.Stdout)),
		logger: discard,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	defineGlobals(globals, func() time.Time { return i.clock() })
	return i
}

// Run executes a script
func (i *Interpreter) Run(source string) error {
	return i.run(source, false)
}

// RunREPL executes one REPL submission. A trailing top-level expression
// without `;` is accepted and its value printed.
func (i *Interpreter) RunREPL(source string) error {
	return i.run(source, true)
}

func (i *Interpreter) run(source string, repl bool) error {
	state := i.compile(source, repl)
	if !state.valid() {
		return state.errors
	}

	resolver := newResolver(state)
	resolver.resolve(state.stmts)
	i.logger.WithFields(logrus.Fields{
		"locals": len(resolver.locals),
		"errors": len(state.errors),
	}).Debug("resolved program")
	if !state.valid() {
		return state.errors
	}
	for e, distance := range resolver.locals {
		i.exec.locals[e] = distance
	}

	// function bodies keep their entries for later calls
	defer func() {
		for _, e := range resolver.unitLocals {
			delete(i.exec.locals, e)
		}
	}()

	if err := i.exec.interpret(state.stmts); err != nil {
		if d, ok := err.(*Diagnostic); ok {
			i.logger.WithFields(logrus.Fields{
				"line": d.Line,
				"kind": d.Kind,
			}).Debug("runtime error")
		}
		return err
	}
	return nil
}

// Check scans and parses a REPL submission without running it
func (i *Interpreter) Check(source string) error {
	if state := i.compile(source, true); !state.valid() {
		return state.errors
	}
	return nil
}

// compile scans and parses source. Lex errors stop the unit before parsing.
func (i *Interpreter) compile(source string, repl bool) *interpreterState {
	state := newInterpreterState(source)

	newLexer(state).scan()
	i.logger.WithFields(logrus.Fields{
		"tokens": len(state.tokens),
		"errors": len(state.errors),
	}).Debug("scanned source")
	if !state.valid() {
		return state
	}

	newParser(state, repl).parse()
	i.logger.WithFields(logrus.Fields{
		"statements": len(state.stmts),
		"errors":     len(state.errors),
	}).Debug("parsed program")
	return state
}

// DumpTokens renders the tokens of source, one per line
func DumpTokens(source string) (string, error) {
	state := newInterpreterState(source)
	newLexer(state).scan()
	if !state.valid() {
		return "", state.errors
	}
	return state.printTokens(), nil
}

// DumpAST renders the parsed program as s-expressions, one statement per line
func DumpAST(source string) (string, error) {
	state := NewInterpreter().compile(source, false)
	if !state.valid() {
		return "", state.errors
	}
	return state.printTree(), nil
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance
func RunSourceWithPrinter(source string, p IPrinter) bool {
	err := NewInterpreter(WithPrinter(p)).Run(source)
	if err != nil {
		p.Println(err.Error())
		return false
	}
	return true
}
