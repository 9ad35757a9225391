package main

import (
	"context"
	"fmt"
	"os"

	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/overline-lab/backstrat/internal/backtest"
	"github.com/overline-lab/backstrat/internal/backtest/resultstore"
	"github.com/overline-lab/backstrat/internal/datasource"
	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/internal/types"
)

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a single backtest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Symbol the data file covers",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategy",
				Usage:    "Catalog strategy or preset name (see 'backstrat strategies')",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "strategy-config",
				Usage: "Path to a YAML file with strategy parameters",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML run configuration file",
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to a CSV or Parquet bar file",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:   "start",
				Usage:  "Inclusive start of the run window in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{Layouts: dateLayouts},
			},
			&cli.TimestampFlag{
				Name:   "end",
				Usage:  "Inclusive end of the run window in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{Layouts: dateLayouts},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the result database and YAML report",
			},
		},
		Action: runAction,
	}
}

func runAction(_ context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	config, err := loadRunConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("start") {
		config.StartTime = optional.Some(cmd.Timestamp("start"))
	}
	if cmd.IsSet("end") {
		config.EndTime = optional.Some(cmd.Timestamp("end"))
	}
	if err := config.Validate(); err != nil {
		return err
	}

	catalog, err := strategy.DefaultCatalog()
	if err != nil {
		return err
	}
	strategyConfig, err := readOptionalFile(cmd.String("strategy-config"))
	if err != nil {
		return err
	}
	strat, err := catalog.Resolve(cmd.String("strategy"), strategyConfig)
	if err != nil {
		return err
	}

	bars, err := loadBars(log, cmd.String("data"), config)
	if err != nil {
		return err
	}

	engine, err := backtest.NewEngine(config, log)
	if err != nil {
		return err
	}

	result := engine.Run(cmd.String("symbol"), strat, bars)
	printRunResult(result)

	if outputDir := cmd.String("output"); outputDir != "" {
		if err := persistResult(log, outputDir, result); err != nil {
			return err
		}
	}

	if !result.Completed() {
		return fmt.Errorf("backtest failed: %s", result.ErrorMessage)
	}

	return nil
}

// loadRunConfig reads a YAML run configuration, layering the document over
// the defaults so omitted keys keep their documented values.
func loadRunConfig(path string) (backtest.Config, error) {
	config := backtest.DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return backtest.Config{}, fmt.Errorf("failed to read run config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return backtest.Config{}, fmt.Errorf("failed to parse run config: %w", err)
	}

	return config, nil
}

func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

func loadBars(log *logger.Logger, path string, config backtest.Config) ([]types.Bar, error) {
	source, err := datasource.NewDuckDBSource(log)
	if err != nil {
		return nil, err
	}
	if err := source.Initialize(path); err != nil {
		return nil, err
	}
	defer source.Close()

	return datasource.Collect(source, config.StartTime, config.EndTime)
}

func printRunResult(result types.RunResult) {
	fmt.Printf("Run %s: %s / %s (%s)\n", result.ID, result.Symbol, result.Strategy, result.Status)
	if result.Status == types.RunStatusFailed {
		fmt.Printf("  error: %s\n", result.ErrorMessage)
		return
	}

	m := result.Metrics
	fmt.Printf("  Total return:  %9.2f%%\n", m.TotalReturn*100)
	fmt.Printf("  Buy & hold:    %9.2f%%\n", result.BuyHoldReturn*100)
	fmt.Printf("  CAGR:          %9.2f%%\n", m.CAGR*100)
	fmt.Printf("  Sharpe:        %9.2f\n", m.SharpeRatio)
	fmt.Printf("  Sortino:       %9.2f\n", m.SortinoRatio)
	fmt.Printf("  Max drawdown:  %9.2f%%\n", m.MaxDrawdown*100)
	fmt.Printf("  Trades:        %9d (win rate %.0f%%)\n", m.TotalTrades, m.WinRate*100)
	fmt.Printf("  Final equity:  %12.2f\n", m.FinalEquity)
}

func persistResult(log *logger.Logger, dir string, result types.RunResult) error {
	store, err := resultstore.NewStore(dir, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Write(result); err != nil {
		return err
	}

	fmt.Printf("Saved run %s to %s (report %s)\n",
		result.ID, store.DatabasePath(), store.ReportPath(result.ID))

	return nil
}
