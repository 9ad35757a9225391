package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/overline-lab/backstrat/internal/api"
	"github.com/overline-lab/backstrat/internal/logger"
)

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the backtesting HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Listen address",
				Value:   ":8080",
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	var (
		log *logger.Logger
		err error
	)
	if cmd.Bool("verbose") {
		log, err = logger.NewDevelopmentLogger()
	} else {
		log, err = logger.NewLogger()
	}
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	server, err := api.NewServer(nil, log)
	if err != nil {
		return err
	}
	if err := server.Start(cmd.String("address")); err != nil {
		return err
	}

	fmt.Printf("API server listening on %s\n", server.Address())
	<-ctx.Done()
	fmt.Println("\nShutting down...")

	return server.Stop()
}
