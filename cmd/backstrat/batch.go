package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/overline-lab/backstrat/internal/backtest"
	"github.com/overline-lab/backstrat/internal/backtest/batch"
	"github.com/overline-lab/backstrat/internal/backtest/resultstore"
	"github.com/overline-lab/backstrat/internal/logger"
	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/internal/types"
)

func newBatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Run a batch of backtests from a YAML config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to a YAML batch configuration file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the result database and YAML reports",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Disable the progress bar",
			},
		},
		Action: batchAction,
	}
}

func batchAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	config, items, err := loadBatchFile(cmd.String("config"))
	if err != nil {
		return err
	}

	catalog, err := strategy.DefaultCatalog()
	if err != nil {
		return err
	}

	var onProgress batch.OnProgress
	if !cmd.Bool("no-progress") {
		bar := progressbar.NewOptions(len(items),
			progressbar.OptionSetDescription("Running batch"),
			progressbar.OptionShowCount(),
		)
		defer func() {
			_ = bar.Finish()
			fmt.Println()
		}()
		onProgress = func(completed int, _ int, _ batch.ItemResult) {
			_ = bar.Set(completed)
		}
	}

	runner, err := batch.NewRunner(config, catalog, log, onProgress)
	if err != nil {
		return err
	}

	result, runErr := runner.Run(ctx, items)
	printSummaries(result.Summaries())

	if outputDir := cmd.String("output"); outputDir != "" {
		if err := persistBatch(log, outputDir, result); err != nil {
			return err
		}
	}

	return runErr
}

// batchFile is the on-disk shape of a batch: shared run parameters, the
// pool size and the item list.
type batchFile struct {
	Run         backtest.Config `yaml:"run"`
	Concurrency int             `yaml:"concurrency"`
	Items       []batch.Item    `yaml:"items"`
}

// loadBatchFile reads a YAML batch configuration, layering the document
// over the defaults so omitted keys keep their documented values.
func loadBatchFile(path string) (batch.Config, []batch.Item, error) {
	file := batchFile{
		Run:         backtest.DefaultConfig(),
		Concurrency: batch.DefaultConcurrency,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return batch.Config{}, nil, fmt.Errorf("failed to read batch config: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return batch.Config{}, nil, fmt.Errorf("failed to parse batch config: %w", err)
	}

	return batch.Config{Run: file.Run, Concurrency: file.Concurrency}, file.Items, nil
}

func printSummaries(summaries []types.RunSummary) {
	fmt.Printf("%-10s %-18s %-10s %10s %8s %8s %7s\n",
		"SYMBOL", "STRATEGY", "STATUS", "RETURN", "SHARPE", "MAXDD", "TRADES")
	for _, s := range summaries {
		if s.Status == types.RunStatusFailed {
			fmt.Printf("%-10s %-18s %-10s %s\n", s.Symbol, s.Strategy, s.Status, s.ErrorMessage)
			continue
		}
		fmt.Printf("%-10s %-18s %-10s %9.2f%% %8.2f %7.2f%% %7d\n",
			s.Symbol, s.Strategy, s.Status,
			s.TotalReturn*100, s.SharpeRatio, s.MaxDrawdown*100, s.TotalTrades)
	}
}

func persistBatch(log *logger.Logger, dir string, result batch.Result) error {
	store, err := resultstore.NewStore(dir, log)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, item := range result.Items {
		if err := store.Write(item.Result); err != nil {
			return err
		}
	}

	fmt.Printf("Saved %d runs to %s\n", len(result.Items), store.DatabasePath())

	return nil
}
