package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RunReport is the YAML report written next to the result database after a
// run, holding everything a human needs without loading the store.
type RunReport struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run finished.
	Timestamp time.Time `yaml:"timestamp"`
	// Symbol of the instrument.
	Symbol string `yaml:"symbol"`
	// Strategy is the catalog name of the strategy.
	Strategy string `yaml:"strategy"`
	// Status of the run.
	Status RunStatus `yaml:"status"`
	// ErrorMessage is set when the run failed.
	ErrorMessage string `yaml:"error_message,omitempty"`
	// Metrics summarizes the run.
	Metrics PerformanceMetrics `yaml:"metrics"`
	// BuyHoldReturn is the benchmark return over the same window.
	BuyHoldReturn float64 `yaml:"buy_hold_return"`
	// Trades is the full closed-trade ledger.
	Trades []Trade `yaml:"trades"`
	// DataPath is the path to the market data file used for this run.
	DataPath string `yaml:"data_path,omitempty"`
	// DatabasePath is the path to the result database, when persisted.
	DatabasePath string `yaml:"database_path,omitempty"`
}

// NewRunReport builds a report from a finished result.
func NewRunReport(result RunResult, dataPath, databasePath string) RunReport {
	return RunReport{
		ID:            result.ID,
		Timestamp:     result.FinishedAt,
		Symbol:        result.Symbol,
		Strategy:      result.Strategy,
		Status:        result.Status,
		ErrorMessage:  result.ErrorMessage,
		Metrics:       result.Metrics,
		BuyHoldReturn: result.BuyHoldReturn,
		Trades:        result.Trades,
		DataPath:      dataPath,
		DatabasePath:  databasePath,
	}
}

// WriteRunReports marshals the reports to YAML at the given path.
func WriteRunReports(path string, reports []RunReport) error {
	data, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to marshal run reports to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run reports to %s: %w", path, err)
	}

	return nil
}

// ReadRunReports loads reports previously written by WriteRunReports.
func ReadRunReports(path string) ([]RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run reports from %s: %w", path, err)
	}

	var reports []RunReport
	if err := yaml.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run reports: %w", err)
	}

	return reports, nil
}
