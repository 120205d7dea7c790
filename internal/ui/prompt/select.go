package prompt

import (
	"fmt"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/gflow/internal/ui/styles"
)

// SelectResult holds the result of a selection prompt.
type SelectResult struct {
	Value     string
	Index     int
	Cancelled bool
}

type option struct {
	value string
	index int
}

func (o option) Title() string       { return o.value }
func (o option) Description() string { return "" }
func (o option) FilterValue() string { return o.value }

type selectModel struct {
	prompt    string
	list      list.Model
	done      bool
	cancelled bool
	selected  int
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		// While typing a filter, keys belong to the filter; esc clears it.
		if m.list.FilterState() == list.Filtering && msg.String() != "enter" && msg.String() != "ctrl+c" {
			break
		}
		switch msg.String() {
		case "enter":
			if o, ok := m.list.SelectedItem().(option); ok {
				m.selected = o.index
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		case "ctrl+c", "esc", "q":
			if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				m.list.ResetFilter()
				return m, nil
			}
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View echoes the choice once made so it stays in the scrollback.
func (m selectModel) View() tea.View {
	switch {
	case m.cancelled:
		return tea.NewView("")
	case m.done:
		o, _ := m.list.SelectedItem().(option)
		return tea.NewView(fmt.Sprintf("%s %s\n", m.prompt+":", styles.AccentStyle.Render(o.value)))
	}
	return tea.NewView(m.list.View())
}

func newSelectModel(prompt string, options []string) selectModel {
	items := make([]list.Item, len(options))
	for i, v := range options {
		items[i] = option{value: v, index: i}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true).
		PaddingLeft(1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(styles.Accent)

	l := list.New(items, delegate, 60, min(len(options)+6, 20))
	l.Title = prompt
	l.Styles.Title = styles.TitleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return selectModel{prompt: prompt, list: l, selected: -1}
}

// Select shows a filterable list and returns the user's selection.
// An empty option list is reported as cancelled without prompting.
func Select(prompt string, options []string) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Cancelled: true}, nil
	}

	final, err := newProgram(newSelectModel(prompt, options)).Run()
	if err != nil {
		return SelectResult{}, err
	}
	m := final.(selectModel)
	if m.cancelled || m.selected < 0 || m.selected >= len(options) {
		return SelectResult{Cancelled: true}, nil
	}
	return SelectResult{Value: options[m.selected], Index: m.selected}, nil
}
