package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/blocksworld/internal/shell"
	"github.com/tatianab/blocksworld/internal/world"
)

type model struct {
	shell     *shell.Shell
	textInput textinput.Model
	viewport  viewport.Model
	worldLog  string
	width     int
	height    int
	ready     bool
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	worldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	blockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC0BC")).
			Bold(true)
)

func NewModel(sh *shell.Shell) model {
	ti := textinput.New()
	ti.Placeholder = "Type a number or /quit..."
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40

	return model{
		shell:     sh,
		textInput: ti,
		worldLog:  "Welcome to Blocks World!",
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			answer := m.textInput.Value()
			m.textInput.Reset()

			m.worldLog += "\n\n" + userStyle.Width(m.logWidth()).Render(m.shell.Prompt()+" "+answer)
			if out := m.shell.Submit(answer); out != "" {
				m.worldLog += "\n" + worldStyle.Render(out)
			}
			if m.shell.Done() {
				return m, tea.Quit
			}
			if m.shell.Moving() {
				m.textInput.Placeholder = "Block name, then destination row and column"
			} else {
				m.textInput.Placeholder = "Type a number or /quit..."
			}
			m.viewport.SetContent(m.worldLog)
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.logWidth(), msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = m.logWidth()
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.worldLog)
		m.viewport.GotoBottom()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "\n  Starting...\n"
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)

	help := helpStyle.Render("Commands: /log, /restart, /quit. Esc to exit.")

	s := lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+promptStyle.Render(m.shell.Prompt()),
		m.textInput.View(),
		help,
	)
	return "\n" + s + "\n"
}

// renderState draws the side panel with the current grid.
func (m model) renderState() string {
	var content string

	w := m.shell.World()
	if w == nil {
		content = titleStyle.Render("WORLD") + "\n(not created yet)"
	} else {
		var grid strings.Builder
		for r, row := range w.Grid() {
			if r > 0 {
				grid.WriteString("\n")
			}
			for c, cell := range row {
				if c > 0 {
					grid.WriteString(" ")
				}
				if cell != world.Empty {
					cell = blockStyle.Render(cell)
				}
				grid.WriteString(cell)
			}
		}

		size := fmt.Sprintf("Size: %d x %d\nBlocks: %d\n", w.Rows(), w.Cols(), w.BlockCount())
		content = titleStyle.Render("WORLD") + "\n" + grid.String() + "\n\n" +
			titleStyle.Render("STATS") + "\n" + size
	}

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func Run(sh *shell.Shell) error {
	p := tea.NewProgram(NewModel(sh), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return sh.Close()
}
