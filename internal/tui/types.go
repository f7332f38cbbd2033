package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"

	"github.com/mabhi256/jsadump/internal/classlist"
	"github.com/mabhi256/jsadump/internal/valid"
)

// Item is one evaluated class list entry.
type Item struct {
	Entry     classlist.Entry
	Verdict   valid.Verdict
	Validator string // name of the rejecting validator, "" when accepted
}

type Model struct {
	title   string
	items   []Item
	summary Summary

	list list.Model
	help help.Model

	currentView ViewType
	filter      VerdictFilter
	width       int
	height      int

	keys KeyMap
}

type ViewType int

const (
	EntriesView ViewType = iota
	SummaryView
)

// VerdictFilter narrows the entries view to one verdict.
type VerdictFilter int

const (
	ShowAll VerdictFilter = iota
	ShowRejected
	ShowInvalid
	ShowIndeterminate
)

func (f VerdictFilter) String() string {
	switch f {
	case ShowRejected:
		return "rejected"
	case ShowInvalid:
		return "invalid"
	case ShowIndeterminate:
		return "indeterminate"
	default:
		return "all"
	}
}

func (f VerdictFilter) match(it Item) bool {
	switch f {
	case ShowRejected:
		return it.Verdict != valid.Valid
	case ShowInvalid:
		return it.Verdict == valid.Invalid
	case ShowIndeterminate:
		return it.Verdict == valid.Indeterminate
	default:
		return true
	}
}

type KeyMap struct {
	Tab1   key.Binding
	Tab2   key.Binding
	Left   key.Binding
	Right  key.Binding
	Filter key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab1, k.Tab2, k.Filter, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Left, k.Right},
		{k.Filter, k.Help, k.Quit},
	}
}

func k(keys []string, help, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(help, desc),
	)
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:   k([]string{"1"}, "1", "entries"),
		Tab2:   k([]string{"2"}, "2", "summary"),
		Left:   k([]string{"left", "h"}, "←/h", "prev verdict"),
		Right:  k([]string{"right", "l"}, "→/l", "next verdict"),
		Filter: k([]string{"/"}, "/", "search"),
		Help:   k([]string{"?"}, "?", "help"),
		Quit:   k([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}
