package main

import (
	"bytes"
	"io"
	"strings"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"lox/internal"
)

// session drives one interpreter for a REPL frontend. A buffered session
// captures program output per submission so the frontend decides where it
// goes; a streaming session prints straight to its writer.
type session struct {
	interp *internal.Interpreter
	buf    *bytes.Buffer
	color  *color.Color
}

// newSession buffers program output, for frontends that redraw the screen
func newSession(logger logrus.FieldLogger, c *color.Color) *session {
	buf := &bytes.Buffer{}
	s := newStreamingSession(logger, c, buf)
	s.buf = buf
	return s
}

// newStreamingSession prints program output to w as it is produced
func newStreamingSession(logger logrus.FieldLogger, c *color.Color, w io.Writer) *session {
	return &session{
		interp: internal.NewInterpreter(
			internal.WithPrinter(internal.NewWriterPrinter(w)),
			internal.WithLogger(logger),
		),
		color: c,
	}
}

// eval runs one submission and returns its buffered output and rendered
// diagnostics. Output is empty for a streaming session.
// err is returned as well so callers can check internal.IsIncomplete.
func (s *session) eval(source string) (output string, diagnostics string, err error) {
	err = s.interp.RunREPL(source)
	if s.buf != nil {
		output = strings.TrimSuffix(s.buf.String(), "\n")
		s.buf.Reset()
	}
	if err != nil {
		diagnostics = internal.Render(err, s.color)
	}
	return output, diagnostics, err
}

// check reports compile errors of source without running it
func (s *session) check(source string) error {
	return s.interp.Check(source)
}
