package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/overline-lab/backstrat/internal/backtest"
	"github.com/overline-lab/backstrat/internal/strategy"
	"github.com/overline-lab/backstrat/pkg/marketdata"
)

func newStrategiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "strategies",
		Usage: "List catalog strategies and presets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only list strategies in this category",
			},
		},
		Action: strategiesAction,
	}
}

func strategiesAction(_ context.Context, cmd *cli.Command) error {
	catalog, err := strategy.DefaultCatalog()
	if err != nil {
		return err
	}

	var metas []strategy.Metadata
	if category := cmd.String("category"); category != "" {
		metas = catalog.ListByCategory(strategy.Category(category))
	} else {
		metas = catalog.List()
	}

	fmt.Println("Strategies:")
	for _, meta := range metas {
		fmt.Printf("  %-14s %-16s %s\n", meta.Name, meta.Category, meta.Description)
	}

	presets := catalog.ListPresets()
	if len(presets) == 0 {
		return nil
	}

	fmt.Println("\nPresets:")
	for _, preset := range presets {
		fmt.Printf("  %-18s %-14s %s\n", preset.Name, preset.Strategy, preset.Description)
	}

	return nil
}

func newSchemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print configuration JSON schemas",
		Description: "Without flags, prints the run configuration schema. " +
			"Use --strategy or --provider for strategy parameter and " +
			"download configuration schemas.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Print the parameter schema of this catalog strategy",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Print the download config schema of this market data provider",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	if name := cmd.String("strategy"); name != "" {
		catalog, err := strategy.DefaultCatalog()
		if err != nil {
			return err
		}
		meta, err := catalog.Get(name)
		if err != nil {
			return err
		}
		fmt.Println(meta.ParamSchema)

		return nil
	}

	if name := cmd.String("provider"); name != "" {
		schema, err := marketdata.GetDownloadConfigSchema(marketdata.ProviderType(name))
		if err != nil {
			return err
		}
		fmt.Println(schema)

		return nil
	}

	schema, err := (&backtest.Config{}).GenerateSchemaJSON()
	if err != nil {
		return err
	}
	fmt.Println(schema)

	return nil
}
