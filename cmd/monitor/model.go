package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/overline-lab/backstrat/internal/backtest/batch"
	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/internal/types"
)

// Application states.
const (
	StateStrategySelect = iota
	StateSymbolInput
	StateDataDirInput
	StateRunning
	StateDone
)

// Model is the top level bubbletea model for the monitor UI. It walks the
// user from strategy selection through symbol and data entry into a live
// batch run whose per item results stream into a table.
type Model struct {
	state int

	strategyList list.Model
	symbolInput  textinput.Model
	dataInput    textinput.Model
	resultsTable table.Model

	strategy  string
	symbols   []string
	dataDir   string
	summaries []types.RunSummary
	completed int
	total     int

	events    chan tea.Msg
	runCancel context.CancelFunc

	width  int
	height int
	err    error
}

// NewModel creates the initial model.
func NewModel() (Model, error) {
	strategyList, err := NewStrategyList()
	if err != nil {
		return Model{}, err
	}

	return Model{
		state:        StateStrategySelect,
		strategyList: strategyList,
		symbolInput:  NewSymbolInput(),
		dataInput:    NewDataDirInput(),
		resultsTable: NewResultsTable(),
		events:       make(chan tea.Msg, 16),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelBatch()
			return m, tea.Quit
		case "q":
			// Text inputs need the rune.
			if m.state != StateSymbolInput && m.state != StateDataDirInput {
				m.cancelBatch()
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.strategyList.SetSize(msg.Width, msg.Height-4)
		m.resultsTable.SetWidth(msg.Width)
		if msg.Height > 12 {
			m.resultsTable.SetHeight(msg.Height - 8)
		}
		return m, nil

	case BatchProgressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		m.summaries = append(m.summaries, msg.Summary)
		m.resultsTable = UpdateResultRows(m.resultsTable, m.summaries)
		return m, listenForBatch(m.events)

	case BatchDoneMsg:
		m.err = msg.Err
		m.runCancel = nil
		m.state = StateDone
		return m, nil

	case BatchErrorMsg:
		m.err = msg.Err
		m.runCancel = nil
		m.state = StateDone
		return m, nil
	}

	switch m.state {
	case StateStrategySelect:
		return m.updateStrategySelect(msg)
	case StateSymbolInput:
		return m.updateSymbolInput(msg)
	case StateDataDirInput:
		return m.updateDataDirInput(msg)
	case StateRunning, StateDone:
		var cmd tea.Cmd
		m.resultsTable, cmd = m.resultsTable.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleEsc steps one state back. Leaving a running batch cancels it.
func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateSymbolInput:
		m.symbolInput.Blur()
		m.state = StateStrategySelect
		return m, nil

	case StateDataDirInput:
		m.dataInput.Blur()
		m.symbolInput.Focus()
		m.state = StateSymbolInput
		return m, textinput.Blink

	case StateRunning, StateDone:
		m.cancelBatch()
		m.resetResults()
		m.symbolInput.Focus()
		m.state = StateSymbolInput
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) updateStrategySelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.strategyList.SelectedItem().(listItem); ok {
			m.strategy = item.name
			m.symbolInput.Focus()
			m.state = StateSymbolInput
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.strategyList, cmd = m.strategyList.Update(msg)
	return m, cmd
}

func (m Model) updateSymbolInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		symbols := ParseSymbols(m.symbolInput.Value())
		if len(symbols) == 0 {
			m.err = fmt.Errorf("enter at least one symbol")
			return m, nil
		}
		m.symbols = symbols
		m.err = nil
		m.symbolInput.Blur()
		m.dataInput.Focus()
		m.state = StateDataDirInput
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.symbolInput, cmd = m.symbolInput.Update(msg)
	return m, cmd
}

func (m Model) updateDataDirInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		return m.startBatch()
	}

	var cmd tea.Cmd
	m.dataInput, cmd = m.dataInput.Update(msg)
	return m, cmd
}

// startBatch resolves the data files, kicks off the batch goroutine and
// arms the event listener.
func (m Model) startBatch() (tea.Model, tea.Cmd) {
	dataDir := strings.TrimSpace(m.dataInput.Value())
	if dataDir == "" {
		dataDir = "."
	}

	items, err := buildItems(m.symbols, dataDir, m.strategy)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.dataDir = dataDir
	m.resetResults()
	m.total = len(items)
	m.dataInput.Blur()
	m.state = StateRunning

	ctx, cancel := context.WithCancel(context.Background())
	m.runCancel = cancel
	go runBatch(ctx, m.events, items)

	return m, listenForBatch(m.events)
}

// cancelBatch stops the batch goroutine if one is running.
func (m *Model) cancelBatch() {
	if m.runCancel != nil {
		m.runCancel()
		m.runCancel = nil
	}
}

// resetResults clears the previous batch output and swaps in a fresh event
// channel so a cancelled run cannot leak stale messages into the next one.
func (m *Model) resetResults() {
	m.summaries = nil
	m.completed = 0
	m.total = 0
	m.err = nil
	m.events = make(chan tea.Msg, 16)
	m.resultsTable = UpdateResultRows(m.resultsTable, nil)
}

// listenForBatch waits for the next message from the batch goroutine.
func listenForBatch(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// runBatch executes the batch and streams one message per finished item
// into the events channel, followed by a terminal BatchDoneMsg.
func runBatch(ctx context.Context, events chan<- tea.Msg, items []batch.Item) {
	catalog, err := strategy.DefaultCatalog()
	if err != nil {
		events <- BatchErrorMsg{Err: err}
		return
	}

	onProgress := func(completed int, total int, result batch.ItemResult) {
		events <- BatchProgressMsg{
			Completed: completed,
			Total:     total,
			Summary:   result.Result.Summarize(),
		}
	}

	runner, err := batch.NewRunner(batch.DefaultConfig(), catalog, logger.NewNopLogger(), onProgress)
	if err != nil {
		events <- BatchErrorMsg{Err: err}
		return
	}

	_, err = runner.Run(ctx, items)
	events <- BatchDoneMsg{Err: err}
}

// buildItems pairs each symbol with its bar file under dataDir. CSV is
// preferred, Parquet is the fallback.
func buildItems(symbols []string, dataDir string, strategyName string) ([]batch.Item, error) {
	items := make([]batch.Item, 0, len(symbols))
	for _, symbol := range symbols {
		path, err := findDataFile(dataDir, symbol)
		if err != nil {
			return nil, err
		}
		items = append(items, batch.Item{
			Symbol:   symbol,
			Strategy: strategyName,
			DataPath: path,
		})
	}
	return items, nil
}

func findDataFile(dataDir string, symbol string) (string, error) {
	for _, ext := range []string{".csv", ".parquet"} {
		path := filepath.Join(dataDir, symbol+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no %s.csv or %s.parquet under %s", symbol, symbol, dataDir)
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateStrategySelect:
		s.WriteString(m.strategyList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Enter: select | q: quit"))

	case StateSymbolInput:
		s.WriteString(TitleStyle.Render("Enter Symbols"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Strategy: %s\n", m.strategy))
		s.WriteString("Comma separated symbols, one bar file per symbol:\n\n")
		s.WriteString(m.symbolInput.View())
		s.WriteString("\n\n")
		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}
		s.WriteString(HelpStyle.Render("Enter: continue | Esc: back | Ctrl+C: quit"))

	case StateDataDirInput:
		s.WriteString(TitleStyle.Render("Data Directory"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Strategy: %s  Symbols: %s\n", m.strategy, strings.Join(m.symbols, ", ")))
		s.WriteString("Directory holding <SYMBOL>.csv or <SYMBOL>.parquet files:\n\n")
		s.WriteString(m.dataInput.View())
		s.WriteString("\n\n")
		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}
		s.WriteString(HelpStyle.Render("Enter: run | Esc: back | Ctrl+C: quit"))

	case StateRunning:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Running %s", m.strategy)))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Completed %d/%d\n\n", m.completed, m.total))
		if len(m.summaries) > 0 {
			s.WriteString(m.resultsTable.View())
			s.WriteString("\n")
		} else {
			s.WriteString("Waiting for results...\n")
		}
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Esc: cancel | q: quit"))

	case StateDone:
		s.WriteString(TitleStyle.Render("Batch Finished"))
		s.WriteString("\n\n")
		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}
		s.WriteString(fmt.Sprintf("Completed %d/%d\n\n", m.completed, m.total))
		if len(m.summaries) > 0 {
			s.WriteString(m.resultsTable.View())
			s.WriteString("\n")
		}
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Esc: run again | q: quit"))
	}

	return s.String()
}
