package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/spec-kit/ticket-search/internal/config"
	"github.com/spec-kit/ticket-search/internal/events"
	"github.com/spec-kit/ticket-search/internal/export"
	"github.com/spec-kit/ticket-search/internal/observability"
	"github.com/spec-kit/ticket-search/internal/service"
	"github.com/spec-kit/ticket-search/internal/worker"
	"github.com/spec-kit/ticket-search/internal/zendesk"
)

// ExportCommand creates the export command
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write every ticket matching a keyword to a CSV file",
		ArgsUsage: "[keyword]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "subject-only",
				Usage: "Match the keyword against subjects only",
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Restrict to a ticket status (open, pending, solved, ...)",
			},
			&cli.StringFlag{
				Name:  "sort-by",
				Usage: "Remote sort field",
				Value: "created_at",
			},
			&cli.StringFlag{
				Name:  "sort-order",
				Usage: "asc or desc",
				Value: "desc",
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "Directory for the CSV file (defaults to EXPORT_OUT_DIR)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 1 {
				return errors.New("export expects a single keyword argument; quote multi-word keywords")
			}
			keyword := c.Args().First()
			if keyword == "" {
				var err error
				if keyword, err = promptKeyword(os.Stdin, os.Stderr); err != nil {
					return err
				}
			}
			return exportTickets(ctx, export.Request{
				Keyword:       keyword,
				SearchContent: !c.Bool("subject-only"),
				Status:        c.String("status"),
				SortBy:        c.String("sort-by"),
				SortOrder:     c.String("sort-order"),
			}, c.String("out-dir"))
		},
	}
}

// promptKeyword asks for the keyword on w and reads one line from r.
func promptKeyword(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "Keyword to search: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading keyword: %w", err)
	}
	keyword := strings.TrimSpace(line)
	if keyword == "" {
		return "", errors.New("keyword required")
	}
	return keyword, nil
}

// exportTickets drains the search into a CSV file, stopping early on SIGINT/SIGTERM.
func exportTickets(ctx context.Context, req export.Request, outDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Zendesk.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if outDir == "" {
		outDir = cfg.Export.OutDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartEventWorkers(dispatcher, nil, service.NewNotificationService(logger))

	exporter := export.NewExporter(export.Dependencies{
		Client:     zendesk.NewClient(cfg.Zendesk, logger),
		OutDir:     outDir,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	result, err := exporter.Export(ctx, req)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Printf("Query:   %s\n", result.Query)
	fmt.Printf("File:    %s\n", result.Path)
	fmt.Printf("Rows:    %d (%d pages", result.Rows, result.Pages)
	if result.Skipped > 0 {
		fmt.Printf(", %d malformed records skipped", result.Skipped)
	}
	fmt.Println(")")
	if result.Incomplete {
		fmt.Printf("Export stopped early: %v\n", result.WalkErr)
		return cli.Exit("export incomplete", 2)
	}
	return nil
}
