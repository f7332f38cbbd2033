package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/jsadump/internal/valid"
	"github.com/mabhi256/jsadump/utils"
)

// entryItem adapts an Item to the bubbles list.
type entryItem struct {
	Item
}

func (i entryItem) FilterValue() string {
	return i.Entry.Name + " " + i.Entry.Source
}

func (i entryItem) Title() string {
	return i.Entry.Name
}

func (i entryItem) Description() string {
	verdict := utils.VerdictStyle(i.Verdict.String()).Render(i.Verdict.String())
	if i.Validator != "" {
		verdict += utils.MutedStyle.Render(" by " + i.Validator)
	}
	src := i.Entry.Source
	if src == "" {
		src = "(no source)"
	}
	return fmt.Sprintf("%s  %s", verdict, utils.TruncateLeft(src, 60))
}

func New(title string, items []Item) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := &Model{
		title:   title,
		items:   items,
		summary: Summarize(items),
		list:    l,
		help:    help.New(),
		keys:    DefaultKeyMap(),
	}
	m.applyFilter()
	return m
}

// Run opens the inspector and blocks until the user quits.
func Run(title string, items []Item) error {
	_, err := tea.NewProgram(New(title, items), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) applyFilter() {
	var visible []list.Item
	for _, it := range m.items {
		if m.filter.match(it) {
			visible = append(visible, entryItem{it})
		}
	}
	m.list.SetItems(visible)
	m.list.Title = fmt.Sprintf("%s [%s]", m.title, m.filter)
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, max(1, msg.Height-4))
		return m, nil

	case tea.KeyMsg:
		// While the user types a search, keys belong to the list.
		if m.currentView == EntriesView && m.list.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab1):
			m.currentView = EntriesView
			return m, nil
		case key.Matches(msg, m.keys.Tab2):
			m.currentView = SummaryView
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Left):
			utils.CycleEnumPtr(&m.filter, -1, ShowIndeterminate)
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Right):
			utils.CycleEnumPtr(&m.filter, 1, ShowIndeterminate)
			m.applyFilter()
			return m, nil
		}
	}

	if m.currentView != EntriesView {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	var content string
	switch m.currentView {
	case SummaryView:
		content = m.renderSummary()
	default:
		content = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		content,
		utils.HelpBarStyle.Render(m.help.View(m.keys)),
	)
}

func (m *Model) renderTabs() string {
	names := []string{"1 Entries", "2 Summary"}
	tabs := make([]string, len(names))
	for i, name := range names {
		style := utils.TabInactiveStyle
		if ViewType(i) == m.currentView {
			style = utils.TabActiveStyle
		}
		tabs[i] = style.Render(name)
	}
	status := utils.MutedStyle.Render(fmt.Sprintf("  %d classes, %d rejected",
		m.summary.Total, m.summary.Rejected()))
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, status)...)
}

func (m *Model) renderSummary() string {
	width := max(m.width, 40)
	chartHeight := max(6, min(16, m.height-14))

	var b strings.Builder
	b.WriteString(Chart(m.summary, min(width-4, 60), chartHeight))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %d   %s %d   %s %d\n",
		utils.GoodStyle.Render(valid.Valid.String()), m.summary.Accepted,
		utils.CriticalStyle.Render(valid.Invalid.String()), m.summary.Invalid,
		utils.WarningStyle.Render(valid.Indeterminate.String()), m.summary.Indeterminate,
	))

	if top := m.summary.TopSources(5); len(top) > 0 {
		b.WriteString("\n" + utils.WarningStyle.Render("Rejected sources") + "\n")
		for _, src := range top {
			fmt.Fprintf(&b, "%6d  %s\n", m.summary.RejectedBySource[src], utils.TruncateLeft(src, width-12))
		}
	}
	return utils.BoxStyle.Render(b.String())
}
