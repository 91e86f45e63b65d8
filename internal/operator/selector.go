package operator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type selectModel struct {
	prompt   string
	options  []string
	cursor   int
	chosen   int
	aborted  bool
	finished bool
}

func newSelectModel(prompt string, options []string) selectModel {
	return selectModel{
		prompt:  prompt,
		options: options,
		chosen:  -1,
	}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.aborted = true
		m.finished = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}

	case "enter", " ":
		m.chosen = m.cursor
		m.finished = true
		return m, tea.Quit

	default:
		// Digits jump straight to the numbered entry, matching the console prompt.
		if n, err := strconv.Atoi(key.String()); err == nil && n >= 1 && n <= len(m.options) {
			m.cursor = n - 1
		}
	}

	return m, nil
}

func (m selectModel) View() string {
	if m.finished {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(promptStyle.Render(m.prompt))
	sb.WriteString("\n\n")
	for i, opt := range m.options {
		line := fmt.Sprintf("%d : %s", i+1, opt)
		if i == m.cursor {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("↑/↓: move • enter: select • q: abort"))
	sb.WriteString("\n")
	return sb.String()
}

// Selector is a cursor based menu for interactive terminals.
type Selector struct {
	in  io.Reader
	out io.Writer
}

var _ Operator = (*Selector)(nil)

func NewSelector(in io.Reader, out io.Writer) *Selector {
	return &Selector{
		in:  in,
		out: out,
	}
}

func (s *Selector) Choose(ctx context.Context, prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("%s: nothing to choose from", prompt)
	}

	program := tea.NewProgram(
		newSelectModel(prompt, options),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, err
	}

	m := final.(selectModel)
	if m.aborted || m.chosen < 0 {
		return 0, ErrAborted
	}

	fmt.Fprintf(s.out, "%s %s\n", promptStyle.Render(prompt), options[m.chosen])
	return m.chosen, nil
}
