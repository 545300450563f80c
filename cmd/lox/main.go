package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"lox/internal"
)

const (
	exitOK      = 0
	exitUsage   = 64
	exitCompile = 65
	exitRuntime = 70
	exitIO      = 74
)

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "tokens":
			return dumpCommand(args[1:], internal.DumpTokens, stdout, stderr)
		case "ast":
			return dumpCommand(args[1:], internal.DumpAST, stdout, stderr)
		case "help", "-h", "--help":
			printUsage(stdout)
			return exitOK
		}
	}

	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	logLevel := fs.String("log-level", "", "log level (panic, fatal, error, warn, info, debug, trace)")
	noColor := fs.Bool("no-color", false, "disable colored diagnostics")
	frontend := fs.String("frontend", "", "REPL frontend (auto, tui, line)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg := defaultConfig()
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *noColor {
		cfg.Color = false
	}
	if *frontend != "" {
		cfg.Frontend = *frontend
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger := newLogger(cfg, stderr)
	c := newColor(cfg, stderr)

	switch fs.NArg() {
	case 0:
		if err := runREPL(cfg, logger, c, stdin, stdout, stderr); err != nil {
			fmt.Fprintln(stderr, err)
			return exitIO
		}
		return exitOK
	case 1:
		return runFile(fs.Arg(0), logger, c, stdout, stderr)
	default:
		printUsage(stderr)
		return exitUsage
	}
}

func runFile(path string, logger logrus.FieldLogger, c *color.Color, stdout, stderr io.Writer) int {
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitIO
	}

	in := internal.NewInterpreter(
		internal.WithPrinter(internal.NewWriterPrinter(stdout)),
		internal.WithLogger(logger.WithField("script", path)),
	)
	err = in.Run(source)
	switch {
	case err == nil:
		return exitOK
	case internal.IsRuntimeError(err):
		fmt.Fprintln(stderr, internal.Render(err, c))
		return exitRuntime
	default:
		fmt.Fprintln(stderr, internal.Render(err, c))
		return exitCompile
	}
}

func runREPL(cfg Config, logger logrus.FieldLogger, c *color.Color, stdin io.Reader, stdout, stderr io.Writer) error {
	stdinTTY := isTerminal(stdin)
	kind := cfg.Frontend
	if kind == frontendAuto {
		kind = frontendLine
		if stdinTTY && isTerminal(stdout) {
			kind = frontendTUI
		}
	}

	switch {
	case kind == frontendTUI:
		return runTUIREPL(newSession(logger, c), cfg.Prompt, stdin, stdout)
	case stdinTTY:
		return runLinerREPL(newStreamingSession(logger, c, stdout), cfg, stdout, stderr)
	default:
		return runLineREPL(newPlainReader(stdin), newStreamingSession(logger, c, stdout), cfg.Prompt, stdout, stderr)
	}
}

type dumpFunc func(source string) (string, error)

func dumpCommand(args []string, dump dumpFunc, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		printUsage(stderr)
		return exitUsage
	}
	source, err := readSource(args[0])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitIO
	}
	out, err := dump(source)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCompile
	}
	fmt.Fprint(stdout, out)
	return exitOK
}

func readSource(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}
	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

func newLogger(cfg Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// newColor colours diagnostics only when they go to a terminal
func newColor(cfg Config, out io.Writer) *color.Color {
	c := color.New()
	if cfg.Color && isTerminal(out) {
		c.Enable()
	} else {
		c.Disable()
	}
	return c
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func printUsage(w io.Writer) {
	prog := "lox"
	fmt.Fprintf(w, "Usage: %s [flags] [script]\n", prog)
	fmt.Fprintf(w, "       %s tokens <script>\n", prog)
	fmt.Fprintf(w, "       %s ast <script>\n", prog)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config string")
	fmt.Fprintln(w, "    YAML configuration file")
	fmt.Fprintln(w, "  -log-level string")
	fmt.Fprintln(w, "    log level (default \"warn\")")
	fmt.Fprintln(w, "  -no-color")
	fmt.Fprintln(w, "    disable colored diagnostics")
	fmt.Fprintln(w, "  -frontend string")
	fmt.Fprintln(w, "    REPL frontend: auto, tui or line (default \"auto\")")
	fmt.Fprintln(w, "Without a script an interactive session starts.")
}
