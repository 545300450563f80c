package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lox/internal"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	outputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	helpStyle   = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 1)
)

const tuiHelp = `:help   toggle this panel
:clear  clear the transcript
:quit   leave (or ctrl+d)
up/down recall earlier submissions
An unfinished statement continues on the next line.`

// historyEntry is one block of the transcript: a submission and what it
// printed, or a diagnostic
type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput textinput.Model
	session   *session
	prompt    string

	// lines of a submission that is not complete yet
	pending []string
	history []historyEntry

	// submitted sources for up/down recall; recallIdx is -1 when not recalling
	submitted []string
	recallIdx int

	height      int
	showHelp    bool
	quitting    bool
	initialized bool
}

func newREPLModel(s *session, prompt string) replModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle

	return replModel{
		textInput: ti,
		session:   s,
		prompt:    prompt,
		recallIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.textInput.Width = msg.Width - len(m.prompt) - 1
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyUp:
			return m.recall(-1), nil
		case tea.KeyDown:
			return m.recall(1), nil
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// recall moves through earlier submissions; stepping past the newest one
// clears the input
func (m replModel) recall(step int) replModel {
	if len(m.submitted) == 0 || (step > 0 && m.recallIdx == -1) {
		return m
	}
	switch {
	case m.recallIdx == -1:
		m.recallIdx = len(m.submitted) - 1
	case m.recallIdx+step >= len(m.submitted):
		m.recallIdx = -1
		m.textInput.SetValue("")
		return m
	case m.recallIdx+step >= 0:
		m.recallIdx += step
	}
	m.textInput.SetValue(m.submitted[m.recallIdx])
	m.textInput.CursorEnd()
	return m
}

func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := m.textInput.Value()
	m.textInput.SetValue("")
	m.recallIdx = -1

	if len(m.pending) == 0 {
		input := strings.TrimSpace(line)
		if input == "" {
			return m, nil
		}
		if strings.HasPrefix(input, ":") {
			return m.command(input)
		}
	}

	m.pending = append(m.pending, line)
	source := strings.Join(m.pending, "\n")
	if internal.IsIncomplete(m.session.check(source)) {
		m.textInput.Prompt = continuationPrompt
		return m, nil
	}

	m.pending = nil
	m.textInput.Prompt = m.prompt

	output, diagnostics, _ := m.session.eval(source)
	m.history = append(m.history, historyEntry{input: source, output: output})
	if diagnostics != "" {
		m.history = append(m.history, historyEntry{output: diagnostics, isErr: true})
	}
	m.submitted = append(m.submitted, strings.ReplaceAll(source, "\n", " "))
	return m, nil
}

func (m replModel) command(input string) (replModel, tea.Cmd) {
	switch input {
	case ":help":
		m.showHelp = !m.showHelp
	case ":clear":
		m.history = nil
	case ":quit":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "unknown command " + input + ". Type :help for commands.",
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) View() string {
	if !m.initialized {
		return ""
	}
	if m.quitting {
		return ""
	}

	var lines []string
	for _, entry := range m.history {
		for i, l := range strings.Split(entry.input, "\n") {
			if entry.input == "" {
				break
			}
			p := m.prompt
			if i > 0 {
				p = continuationPrompt
			}
			lines = append(lines, echoStyle.Render(p+l))
		}
		switch {
		case entry.isErr:
			lines = append(lines, errorStyle.Render(entry.output))
		case entry.output != "":
			lines = append(lines, outputStyle.Render(entry.output))
		}
	}
	for i, l := range m.pending {
		p := m.prompt
		if i > 0 {
			p = continuationPrompt
		}
		lines = append(lines, echoStyle.Render(p+l))
	}

	transcript := strings.Join(lines, "\n")
	// keep the tail of the transcript on screen, below it the input line
	if avail := m.height - 2; avail > 0 {
		if rows := strings.Split(transcript, "\n"); len(rows) > avail {
			transcript = strings.Join(rows[len(rows)-avail:], "\n")
		}
	}

	var b strings.Builder
	if transcript != "" {
		b.WriteString(transcript + "\n")
	}
	if m.showHelp {
		b.WriteString(helpStyle.Render(tuiHelp) + "\n")
	}
	b.WriteString(m.textInput.View())
	return b.String()
}

func runTUIREPL(s *session, prompt string, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(
		newREPLModel(s, prompt),
		tea.WithAltScreen(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	return err
}
