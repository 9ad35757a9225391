package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/overline-lab/backstrat/internal/backtest"
	"github.com/overline-lab/backstrat/internal/backtest/batch"
)

const runSchemaName = "backstrat-run-config.json"

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write the run config JSON schema and sample config files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory to write the files into",
				Value:   "config",
			},
		},
		Action: initAction,
	}
}

func initAction(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	schemaJSON, err := (&backtest.Config{}).GenerateSchemaJSON()
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(dir, runSchemaName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		return err
	}
	fmt.Printf("Schema written to %s\n", schemaPath)

	if err := writeSampleRunConfig(filepath.Join(dir, "run.yaml")); err != nil {
		return err
	}

	return writeSampleBatchConfig(filepath.Join(dir, "batch.yaml"))
}

// runConfigDoc is the plain YAML shape of a run config document. The
// optional window fields are left out of samples.
type runConfigDoc struct {
	InitialCapital float64 `yaml:"initial_capital"`
	CommissionRate float64 `yaml:"commission_rate"`
	SlippageRate   float64 `yaml:"slippage_rate"`
	PositionSize   float64 `yaml:"position_size"`
	StopLossPct    float64 `yaml:"stop_loss_pct"`
	TakeProfitPct  float64 `yaml:"take_profit_pct"`
	RiskFreeRate   float64 `yaml:"risk_free_rate"`
	MinHistoryBars int     `yaml:"min_history_bars"`
}

func defaultRunConfigDoc() runConfigDoc {
	config := backtest.DefaultConfig()

	return runConfigDoc{
		InitialCapital: config.InitialCapital,
		CommissionRate: config.CommissionRate,
		SlippageRate:   config.SlippageRate,
		PositionSize:   config.PositionSize,
		StopLossPct:    config.StopLossPct,
		TakeProfitPct:  config.TakeProfitPct,
		RiskFreeRate:   config.RiskFreeRate,
		MinHistoryBars: config.MinHistoryBars,
	}
}

// writeSampleRunConfig writes a default run config unless the file already
// exists.
func writeSampleRunConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	body, err := yaml.Marshal(defaultRunConfigDoc())
	if err != nil {
		return err
	}
	body = append([]byte("# yaml-language-server: $schema="+runSchemaName+"\n"), body...)

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	fmt.Printf("Sample run config written to %s\n", path)

	return nil
}

// writeSampleBatchConfig writes a one-item batch config unless the file
// already exists.
func writeSampleBatchConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	sample := struct {
		Run         runConfigDoc `yaml:"run"`
		Concurrency int          `yaml:"concurrency"`
		Items       []batch.Item `yaml:"items"`
	}{
		Run:         defaultRunConfigDoc(),
		Concurrency: batch.DefaultConcurrency,
		Items: []batch.Item{
			{Symbol: "AAPL", Strategy: "rsi", DataPath: "data/AAPL.csv"},
		},
	}

	body, err := yaml.Marshal(sample)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	fmt.Printf("Sample batch config written to %s\n", path)

	return nil
}
