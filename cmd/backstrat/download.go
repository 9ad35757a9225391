package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/overline-lab/backstrat/pkg/marketdata"
)

func newDownloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download historical market data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Start date in `YYYY-MM-DD` format",
				Config:   cli.TimestampConfig{Layouts: dateLayouts},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format, defaults to today",
				Value:   time.Now(),
				Config:  cli.TimestampConfig{Layouts: dateLayouts},
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval (1m, 15m, 1h, 1d, ...)",
				Value:   string(marketdata.TimespanDay),
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s, %s)", marketdata.ProviderPolygon, marketdata.ProviderBinance),
				Value:   string(marketdata.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:    "writer",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("Output format (%s, %s)", marketdata.WriterDuckDB, marketdata.WriterCSV),
				Value:   string(marketdata.WriterDuckDB),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Output directory",
				Value:   "data",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Polygon API key, defaults to the POLYGON_API_KEY environment variable",
			},
		},
		Action: downloadAction,
	}
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	interval := marketdata.Timespan(cmd.String("interval"))
	if !interval.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval %q", cmd.String("interval"))
	}

	apiKey := cmd.String("api-key")
	if apiKey == "" {
		apiKey = os.Getenv("POLYGON_API_KEY")
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderType(cmd.String("provider")),
		WriterType:    marketdata.WriterType(cmd.String("writer")),
		DataPath:      cmd.String("data"),
		PolygonApiKey: apiKey,
	}, log, nil)
	if err != nil {
		return err
	}

	path, err := client.Download(ctx, marketdata.DownloadParams{
		Ticker:     cmd.String("ticker"),
		StartDate:  cmd.Timestamp("start"),
		EndDate:    cmd.Timestamp("end"),
		Multiplier: interval.Multiplier(),
		Timespan:   interval.Timespan(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Downloaded %s data to %s\n", cmd.String("ticker"), path)

	return nil
}
