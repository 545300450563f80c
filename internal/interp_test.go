package internal

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestPipelineLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	tp := &testPrinter{}
	in := NewInterpreter(WithPrinter(tp), WithLogger(logger))
	if err := in.Run("{ var a = 1; print a; }"); err != nil {
		t.Fatal(err)
	}

	messages := []string{"scanned source", "parsed program", "resolved program"}
	if len(hook.Entries) != len(messages) {
		t.Fatalf("expected %d entries, found %d", len(messages), len(hook.Entries))
	}
	for i, m := range messages {
		if hook.Entries[i].Message != m {
			t.Errorf("entry %d is %q instead of %q", i, hook.Entries[i].Message, m)
		}
	}
	if locals := hook.Entries[2].Data["locals"]; locals != 1 {
		t.Errorf("expected one resolved local, found %v", locals)
	}
	if !tp.Equals("1") {
		t.Errorf("program output must not go through the logger, printed %q", tp.printed)
	}

	hook.Reset()
	if err := in.Run("print x;"); !IsRuntimeError(err) {
		t.Fatalf("expected runtime error, found %v", err)
	}
	last := hook.LastEntry()
	if last == nil || last.Message != "runtime error" || last.Data["line"] != 1 {
		t.Errorf("expected a runtime error entry, found %+v", last)
	}

	hook.Reset()
	in.Run("@")
	if len(hook.Entries) != 1 || hook.Entries[0].Data["errors"] != 1 {
		t.Errorf("a lex error should stop after scanning, found %d entries", len(hook.Entries))
	}
}

func TestWriterPrinter(t *testing.T) {
	var out bytes.Buffer
	if !RunSourceWithPrinter(`print "hello"; print 1 + 1;`, NewWriterPrinter(&out)) {
		t.Fatal("run failed")
	}
	if out.String() != "hello\n2\n" {
		t.Errorf("printed %q", out.String())
	}

	out.Reset()
	if RunSourceWithPrinter("print x;", NewWriterPrinter(&out)) {
		t.Fatal("expected failure")
	}
	if out.String() == "" {
		t.Errorf("diagnostic should be printed")
	}
}
