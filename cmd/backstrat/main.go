// Command backstrat runs backtests, inspects the strategy catalog,
// downloads market data and serves the HTTP API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/overline-lab/backstrat/internal/logger"
)

// dateLayouts are the accepted forms for every timestamp flag.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "backstrat",
		Usage: "Backtest trading strategies over historical bar data",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			newInitCommand(),
			newRunCommand(),
			newBatchCommand(),
			newStrategiesCommand(),
			newSchemaCommand(),
			newDownloadCommand(),
			newServeCommand(),
		},
	}
}

// newLogger returns a debug logger when --verbose is set and a silent one
// otherwise, so command output stays readable by default.
func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	if cmd.Bool("verbose") {
		return logger.NewDevelopmentLogger()
	}

	return logger.NewNopLogger(), nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
