package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/spec-kit/ticket-search/internal/auth"
	"github.com/spec-kit/ticket-search/internal/config"
)

// TokenCommand creates the token command
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "subject",
				Usage: "Token subject (caller name)",
				Value: "ticketctl",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return mintToken(c.String("subject"))
		},
	}
}

func mintToken(subject string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is not set; the API accepts unauthenticated requests")
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	token, expiresAt, err := tokens.GenerateToken(subject)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
