package controller

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/filterline/internal/model"
)

// historyItem adapts a history entry to the bubbles list.
type historyItem struct {
	entry m.HistoryEntry
}

func (h historyItem) FilterValue() string {
	return h.entry.Value
}

type historyDelegate struct{}

func (d historyDelegate) Height() int  { return 1 }
func (d historyDelegate) Spacing() int { return 0 }
func (d historyDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d historyDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	entry, ok := item.(historyItem)
	if !ok {
		return
	}

	var valueStyle, polarityStyle lipgloss.Style

	if index == lm.Index() {
		valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		polarityStyle = valueStyle.Width(16)
	} else {
		valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		polarityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Width(16)
	}

	width := lm.Width() - 18 // polarity column (16) + spacing (2)

	label := string(entry.entry.Polarity)
	if entry.entry.IgnoreCase {
		label += " -i"
	}

	line := fmt.Sprintf("%s  %s",
		polarityStyle.Render(label),
		valueStyle.Render(truncateToWidth(entry.entry.Value, width)),
	)
	_, _ = fmt.Fprint(w, line)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// historyModel is a filterable pick-list of remembered patterns.
type historyModel struct {
	list   list.Model
	chosen *m.HistoryEntry
}

func newHistoryModel(entries []m.HistoryEntry) historyModel {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{entry: e})
	}

	l := list.New(items, historyDelegate{}, 80, 20)
	l.Title = "Recent patterns"
	l.SetShowPagination(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.FilterInput.Placeholder = "Filter patterns…"

	return historyModel{list: l}
}

func (hm historyModel) Init() tea.Cmd {
	return nil
}

func (hm historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		hm.list.SetSize(msg.Width, msg.Height)
		return hm, nil

	case tea.KeyMsg:
		if hm.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := hm.list.SelectedItem().(historyItem); ok {
				entry := item.entry
				hm.chosen = &entry
			}

			return hm, tea.Quit
		case "q", "esc", "ctrl+c":
			return hm, tea.Quit
		}
	}

	var cmd tea.Cmd
	hm.list, cmd = hm.list.Update(msg)

	return hm, cmd
}

func (hm historyModel) View() string {
	if len(hm.list.Items()) == 0 {
		return "No patterns in history\n"
	}

	return hm.list.View()
}

// PickHistory lets the user choose one entry. It returns false when the user
// left without choosing.
func PickHistory(entries []m.HistoryEntry, in io.Reader, out io.Writer) (m.HistoryEntry, bool, error) {
	if len(entries) == 0 {
		return m.HistoryEntry{}, false, nil
	}

	program := tea.NewProgram(newHistoryModel(entries), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return m.HistoryEntry{}, false, err
	}

	hm, ok := final.(historyModel)
	if !ok || hm.chosen == nil {
		return m.HistoryEntry{}, false, nil
	}

	return *hm.chosen, true, nil
}
