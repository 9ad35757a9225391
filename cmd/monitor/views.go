package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/internal/types"
)

// listItem is a generic item for the strategy list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewStrategyList builds the strategy selection list from the default
// catalog, presets after the plain strategies.
func NewStrategyList() (list.Model, error) {
	catalog, err := strategy.DefaultCatalog()
	if err != nil {
		return list.Model{}, err
	}

	var items []list.Item
	for _, meta := range catalog.List() {
		items = append(items, listItem{name: meta.Name, description: meta.Description})
	}
	for _, preset := range catalog.ListPresets() {
		items = append(items, listItem{name: preset.Name, description: preset.Description})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Strategy"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l, nil
}

// NewSymbolInput creates the text input for entering symbols.
func NewSymbolInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "AAPL,MSFT,SPY"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = "> "
	return ti
}

// NewDataDirInput creates the text input for the data directory.
func NewDataDirInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "data"
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = "> "
	return ti
}

// ParseSymbols splits a comma separated symbol string into a normalized
// slice. Empty entries are dropped.
func ParseSymbols(input string) []string {
	parts := strings.Split(input, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

// NewResultsTable creates the table showing per item batch results.
func NewResultsTable() table.Model {
	columns := []table.Column{
		{Title: "Symbol", Width: 10},
		{Title: "Strategy", Width: 18},
		{Title: "Status", Width: 10},
		{Title: "Return", Width: 12},
		{Title: "Sharpe", Width: 8},
		{Title: "MaxDD", Width: 9},
		{Title: "Trades", Width: 7},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// UpdateResultRows rebuilds the table rows from the summaries in arrival
// order and returns the updated table.
func UpdateResultRows(t table.Model, summaries []types.RunSummary) table.Model {
	rows := make([]table.Row, 0, len(summaries))
	for _, s := range summaries {
		if s.Status == types.RunStatusFailed {
			rows = append(rows, table.Row{s.Symbol, s.Strategy, string(s.Status), "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, table.Row{
			s.Symbol,
			s.Strategy,
			string(s.Status),
			FormatSignedPercent(s.TotalReturn),
			fmt.Sprintf("%.2f", s.SharpeRatio),
			fmt.Sprintf("%.1f%%", s.MaxDrawdown*100),
			strconv.Itoa(s.TotalTrades),
		})
	}
	t.SetRows(rows)
	return t
}
