package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"lox/internal"
)

const continuationPrompt = "... "

// lineReader is the part of liner.State the line REPL needs
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// plainReader reads piped input without prompting or history
type plainReader struct {
	scanner *bufio.Scanner
}

func newPlainReader(r io.Reader) *plainReader {
	return &plainReader{scanner: bufio.NewScanner(r)}
}

func (p *plainReader) Prompt(string) (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *plainReader) AppendHistory(string) {}

// runLinerREPL runs the line REPL on the terminal with a persistent history
func runLinerREPL(s *session, cfg Config, stdout, stderr io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	return runLineREPL(ln, s, cfg.Prompt, stdout, stderr)
}

// runLineREPL reads submissions until end of input. Lines are joined while
// the submission is incomplete.
func runLineREPL(r lineReader, s *session, prompt string, stdout, stderr io.Writer) error {
	for {
		source, ok, err := readSubmission(r, s, prompt)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		trimmed := strings.TrimSpace(source)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if trimmed == ":quit" || trimmed == ":q" {
				return nil
			}
			fmt.Fprintf(stderr, "unknown command %s. Type :quit to exit.\n", trimmed)
			continue
		}

		output, diagnostics, _ := s.eval(source)
		if output != "" {
			fmt.Fprintln(stdout, output)
		}
		if diagnostics != "" {
			fmt.Fprintln(stderr, diagnostics)
		}
		r.AppendHistory(strings.ReplaceAll(source, "\n", " "))
	}
}

// readSubmission returns false at end of input. A submission that only lacks
// its end keeps reading with the continuation prompt.
func readSubmission(r lineReader, s *session, prompt string) (string, bool, error) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = continuationPrompt
		}
		line, err := r.Prompt(p)
		if errors.Is(err, io.EOF) {
			// run what was typed before end of input
			return b.String(), b.Len() > 0, nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false, err
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if strings.HasPrefix(strings.TrimSpace(b.String()), ":") {
			return b.String(), true, nil
		}
		if !internal.IsIncomplete(s.check(b.String())) {
			return b.String(), true, nil
		}
	}
}
