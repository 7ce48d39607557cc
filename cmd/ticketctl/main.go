package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "ticketctl",
		Usage: "Export Zendesk ticket searches and manage API access",
		Commands: []*cli.Command{
			ExportCommand(),
			TokenCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
