// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyvault/cmd/app/commands"
	"github.com/allisson/keyvault/internal/app"
	"github.com/allisson/keyvault/internal/config"
	vaultUseCase "github.com/allisson/keyvault/internal/vault/usecase"
)

const version = "1.0.0"

// withVaultUseCase wires a container for one-shot commands and tears it down
// when the command returns.
func withVaultUseCase(ctx context.Context, fn func(context.Context, vaultUseCase.VaultUseCase, *slog.Logger) error) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	useCase, err := container.VaultUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize vault use case: %w", err)
	}

	return fn(ctx, useCase, logger)
}

func main() {
	cmd := &cli.Command{
		Name:    "keyvault",
		Usage:   "Key lifecycle and envelope encryption service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:      "encrypt",
				Usage:     "Encrypt a value with the primary key",
				ArgsUsage: "<value>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withVaultUseCase(ctx, func(ctx context.Context, useCase vaultUseCase.VaultUseCase, _ *slog.Logger) error {
						return commands.RunEncrypt(ctx, useCase, os.Stdout, cmd.Args().First())
					})
				},
			},
			{
				Name:      "decrypt",
				Usage:     "Decrypt an envelope produced by encrypt",
				ArgsUsage: "<envelope>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withVaultUseCase(ctx, func(ctx context.Context, useCase vaultUseCase.VaultUseCase, _ *slog.Logger) error {
						return commands.RunDecrypt(ctx, useCase, os.Stdout, cmd.Args().First(), cmd.String("format"))
					})
				},
			},
			{
				Name:  "reset-key",
				Usage: "Destroy the primary key and provision a fresh one",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Value: false,
						Usage: "Confirm that existing envelopes become unrecoverable",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withVaultUseCase(ctx, func(ctx context.Context, useCase vaultUseCase.VaultUseCase, logger *slog.Logger) error {
						return commands.RunResetKey(ctx, useCase, logger, os.Stdout, cmd.Bool("yes"))
					})
				},
			},
			{
				Name:      "hash",
				Usage:     "Print the base64-encoded SHA-256 digest of a value",
				ArgsUsage: "<value>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunHash(os.Stdout, cmd.Args().First())
				},
			},
			{
				Name:      "mask",
				Usage:     "Print a masked rendering of a value",
				ArgsUsage: "<value>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "visible",
						Aliases: []string{"v"},
						Value:   0,
						Usage:   "Characters to keep visible at each end (0 uses the default)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMask(os.Stdout, cmd.Args().First(), cmd.Int("visible"))
				},
			},
			{
				Name:  "random-id",
				Usage: "Generate a new identifier",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRandomID(os.Stdout)
				},
			},
			{
				Name:      "schema-example",
				Usage:     "Generate an example payload from a JSON schema",
				ArgsUsage: "[schema-json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read the schema from a file instead of the argument",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunSchemaExample(os.Stdout, cmd.Args().First(), cmd.String("file"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
