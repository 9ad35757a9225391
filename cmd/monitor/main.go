// Command monitor is an interactive terminal UI for running strategy
// batches over local bar files.
package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	m, err := NewModel()
	if err != nil {
		log.Fatal(err)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
