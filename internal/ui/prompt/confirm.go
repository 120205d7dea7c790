package prompt

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/gflow/internal/ui/styles"
)

// ConfirmResult holds the result of a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type answer int

const (
	pending answer = iota
	answeredYes
	answeredNo
	answeredCancel
)

type confirmModel struct {
	prompt string
	style  lipgloss.Style
	answer answer
}

func newConfirmModel(prompt string, style lipgloss.Style) confirmModel {
	return confirmModel{prompt: prompt, style: style}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer = answeredYes
	case "n", "N", "enter":
		m.answer = answeredNo
	case "ctrl+c", "q", "esc":
		m.answer = answeredCancel
	default:
		return m, nil
	}
	return m, tea.Quit
}

// View keeps the question on screen after it is answered, followed by the
// answer, so the scrollback shows what was agreed to.
func (m confirmModel) View() tea.View {
	question := m.style.Render(m.prompt)
	switch m.answer {
	case answeredYes:
		return tea.NewView(fmt.Sprintf("%s %s\n", question, styles.SuccessStyle.Render("yes")))
	case answeredNo:
		return tea.NewView(fmt.Sprintf("%s %s\n", question, styles.MutedStyle.Render("no")))
	case answeredCancel:
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s ", question, styles.MutedStyle.Render("[y/N]")))
}

func (m confirmModel) result() ConfirmResult {
	return ConfirmResult{
		Confirmed: m.answer == answeredYes,
		Cancelled: m.answer == answeredCancel,
	}
}

// Confirm shows a yes/no prompt. Enter answers no.
func Confirm(prompt string) (ConfirmResult, error) {
	return runConfirm(newConfirmModel(prompt, styles.NormalStyle))
}

// ConfirmDanger is Confirm with the question in the error color, for
// questions whose yes rewrites history or deletes branches.
func ConfirmDanger(prompt string) (ConfirmResult, error) {
	return runConfirm(newConfirmModel(prompt, styles.ErrorStyle.Bold(true)))
}

func runConfirm(m confirmModel) (ConfirmResult, error) {
	final, err := newProgram(m).Run()
	if err != nil {
		return ConfirmResult{}, err
	}
	return final.(confirmModel).result(), nil
}
