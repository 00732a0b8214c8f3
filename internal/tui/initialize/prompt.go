package initialize

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/ancards/internal/config"
	"github.com/Paintersrp/ancards/internal/pathutil"
)

var (
	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#585b70"))
	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8"))
	noStyle = lipgloss.NewStyle()

	focusedButton = focusedStyle.Render("[ Submit ]")
	blurredButton = fmt.Sprintf("[ %s ]", dimStyle.Render("Submit"))
)

const (
	fieldVault = iota
	fieldEditor
	fieldCardSize
	fieldCount
)

// Answers are the values collected by the prompt.
type Answers struct {
	VaultDir string
	Editor   string
	CardSize float64
}

// Workspace converts a into a workspace with default card settings.
func (a Answers) Workspace() *config.Workspace {
	cards := config.DefaultCards()
	if a.CardSize > 0 {
		cards.CardSize = a.CardSize
	}
	return &config.Workspace{
		VaultDir: a.VaultDir,
		Editor:   a.Editor,
		Cards:    cards,
	}
}

// Defaults are used for inputs left blank.
func Defaults(home string) Answers {
	return Answers{
		VaultDir: filepath.Join(home, "notes"),
		Editor:   "nvim",
		CardSize: config.DefaultCards().CardSize,
	}
}

type PromptModel struct {
	inputs     []textinput.Model
	defaults   Answers
	focusIndex int
	cursorMode cursor.Mode
	err        error

	answers *Answers
}

func NewPrompt(home string) PromptModel {
	m := PromptModel{
		inputs:   make([]textinput.Model, fieldCount),
		defaults: Defaults(home),
	}

	for i := range m.inputs {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.PlaceholderStyle = dimStyle
		t.CharLimit = 32

		switch i {
		case fieldVault:
			t.Prompt = "Vault Directory: "
			t.Placeholder = m.defaults.VaultDir
			t.CharLimit = 256
			t.Focus()
			t.PromptStyle = focusedStyle
			t.TextStyle = focusedStyle
		case fieldEditor:
			t.Prompt = "Editor: "
			t.Placeholder = m.defaults.Editor
		case fieldCardSize:
			t.Prompt = "Card Width: "
			t.Placeholder = strconv.FormatFloat(m.defaults.CardSize, 'f', -1, 64)
			t.CharLimit = 5
		}

		m.inputs[i] = t
	}

	return m
}

// Answers returns the submitted values, or false if the prompt was left
// without submitting.
func (m PromptModel) Answers() (Answers, bool) {
	if m.answers == nil {
		return Answers{}, false
	}
	return *m.answers, true
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+r":
			m.cursorMode++
			if m.cursorMode > cursor.CursorHide {
				m.cursorMode = cursor.CursorBlink
			}
			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				cmds[i] = m.inputs[i].Cursor.SetMode(m.cursorMode)
			}
			return m, tea.Batch(cmds...)

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				answers, err := m.collect()
				if err != nil {
					m.err = err
					return m, nil
				}
				m.answers = &answers
				return m, tea.Quit
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			return m, m.refocus()
		}
	}

	return m, m.updateInputs(msg)
}

func (m *PromptModel) refocus() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		if i == m.focusIndex {
			cmds[i] = m.inputs[i].Focus()
			m.inputs[i].PromptStyle = focusedStyle
			m.inputs[i].TextStyle = focusedStyle
			continue
		}
		m.inputs[i].Blur()
		m.inputs[i].PromptStyle = noStyle
		m.inputs[i].TextStyle = noStyle
	}
	return tea.Batch(cmds...)
}

func (m *PromptModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

// collect validates the inputs, filling blanks from the defaults.
func (m PromptModel) collect() (Answers, error) {
	answers := m.defaults

	if v := strings.TrimSpace(m.inputs[fieldVault].Value()); v != "" {
		answers.VaultDir = pathutil.NormalizePath(v)
	}
	if v := strings.TrimSpace(m.inputs[fieldEditor].Value()); v != "" {
		if err := config.ValidateEditor(v); err != nil {
			return Answers{}, err
		}
		answers.Editor = v
	}
	if v := strings.TrimSpace(m.inputs[fieldCardSize].Value()); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil || size <= 0 {
			return Answers{}, fmt.Errorf("card width must be a positive number, got %q", v)
		}
		answers.CardSize = size
	}

	return answers, nil
}

func (m PromptModel) View() string {
	var b strings.Builder

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		if i < len(m.inputs)-1 {
			b.WriteRune('\n')
		}
	}

	button := blurredButton
	if m.focusIndex == len(m.inputs) {
		button = focusedButton
	}
	fmt.Fprintf(&b, "\n\n%s\n\n", button)

	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render("cursor mode is " + m.cursorMode.String() + " (ctrl+r to change style)"))
	b.WriteString(dimStyle.Render("\n(Leave inputs blank for default values)"))

	return b.String()
}

// Run shows the prompt and returns the submitted answers. ok is false when
// the user quit without submitting.
func Run(home string) (answers Answers, ok bool, err error) {
	final, err := tea.NewProgram(NewPrompt(home)).Run()
	if err != nil {
		return Answers{}, false, err
	}
	answers, ok = final.(PromptModel).Answers()
	return answers, ok, nil
}
