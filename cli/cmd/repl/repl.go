// Package repl implements the interactive evaluation shell for
// condition expressions: line editing with history, fuzzy completion of
// function names, and an optional per-evaluation trace.
package repl

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/gate/lang"
	"github.com/ardnew/gate/pipeline"
)

// maxOutputLines bounds the scrollback kept in the view.
const maxOutputLines = 200

// Run starts the shell over the given pipeline environment and blocks
// until the user exits.
func Run(ctx context.Context, env pipeline.Env) error {
	reg, err := env.Registry()
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(env, reg), tea.WithContext(ctx))

	_, err = p.Run()

	return err
}

var (
	styleResult = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleTrace  = lipgloss.NewStyle().Faint(true)
	styleHint   = lipgloss.NewStyle().Faint(true)
	styleEcho   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// model is the bubbletea model for the shell.
type model struct {
	input     textinput.Model
	env       pipeline.Env
	reg       *lang.Registry
	completer completer
	history   []string
	histIdx   int // len(history) means "editing a new line"
	lines     []string
	traceOn   bool
}

func newModel(env pipeline.Env, reg *lang.Registry) model {
	ti := textinput.New()
	ti.Prompt = "gate> "
	ti.Placeholder = "and(succeeded(), eq(variables('env'), 'prod'))"
	ti.Focus()

	return model{
		input:     ti,
		env:       env,
		reg:       reg,
		completer: newCompleter(reg),
		histIdx:   0,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyTab:
		m.input.SetValue(m.completer.complete(m.input.Value()))
		m.input.CursorEnd()

		return m, nil

	case tea.KeyUp:
		if m.histIdx > 0 {
			m.histIdx--
			m.input.SetValue(m.history[m.histIdx])
			m.input.CursorEnd()
		}

		return m, nil

	case tea.KeyDown:
		if m.histIdx < len(m.history) {
			m.histIdx++

			if m.histIdx == len(m.history) {
				m.input.SetValue("")
			} else {
				m.input.SetValue(m.history[m.histIdx])
			}

			m.input.CursorEnd()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// submit consumes the current line: a shell command or an expression.
func (m model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.SetValue("")

	if line == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.histIdx = len(m.history)

	m.echo("gate> " + line)

	switch line {
	case ":q", ":quit", ":exit":
		return m, tea.Quit

	case ":trace":
		m.traceOn = !m.traceOn

		if m.traceOn {
			m.print(styleHint, "trace on")
		} else {
			m.print(styleHint, "trace off")
		}

		return m, nil

	case ":help":
		m.print(styleHint,
			"enter an expression to evaluate it; "+
				":trace toggles the trace; :quit exits; "+
				"tab completes function names")

		return m, nil
	}

	m.evaluate(line)

	return m, nil
}

// evaluate parses and runs one expression, appending the result or error
// to the scrollback.
func (m *model) evaluate(line string) {
	var trace lang.TraceWriter

	collect := &collectTrace{}
	if m.traceOn {
		trace = collect
	}

	root, err := lang.Parse(line,
		lang.WithExtensions(m.reg),
		lang.WithTrace(trace),
	)
	if err != nil {
		m.print(styleError, err.Error())

		return
	}

	result, err := root.Evaluate(m.env.Bind(trace))

	for _, ln := range collect.lines {
		m.print(styleTrace, ln)
	}

	if err != nil {
		m.print(styleError, err.Error())

		return
	}

	m.print(styleResult, "("+result.Kind().String()+") "+result.String())
}

func (m *model) echo(line string) {
	m.print(styleEcho, line)
}

func (m *model) print(style lipgloss.Style, line string) {
	m.lines = append(m.lines, style.Render(line))

	if len(m.lines) > maxOutputLines {
		m.lines = m.lines[len(m.lines)-maxOutputLines:]
	}
}

// View implements tea.Model.
func (m model) View() string {
	var sb strings.Builder

	for _, line := range m.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	sb.WriteString(m.input.View())
	sb.WriteByte('\n')
	sb.WriteString(styleHint.Render("tab: complete  :trace  :help  :quit"))
	sb.WriteByte('\n')

	return sb.String()
}

// collectTrace accumulates trace lines for display after evaluation.
type collectTrace struct {
	lines []string
}

// Info implements lang.TraceWriter.
func (t *collectTrace) Info(msg string) {
	t.lines = append(t.lines, msg)
}

// Verbose implements lang.TraceWriter.
func (t *collectTrace) Verbose(msg string) {
	t.lines = append(t.lines, msg)
}
