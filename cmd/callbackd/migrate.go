package main

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-nuvemshop/core"
	nuvemshopmigrations "github.com/goliatone/go-nuvemshop/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, opts)
		},
	}
}

func runMigrate(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, cmd, opts, core.ValidateStorage)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	dialect, err := nuvemshopmigrations.ForDriver(cfg.Database.Driver)
	if err != nil {
		return withExitCode(ExitCodeConfigError, err)
	}

	client, _, err := openTokenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if _, err := nuvemshopmigrations.Register(ctx, func(_ context.Context, _ string, _ string, fsys fs.FS) error {
		client.RegisterSQLMigrations(fsys)
		return nil
	}, nuvemshopmigrations.WithDialects(dialect)); err != nil {
		return withExitCode(ExitCodeStorageError, err)
	}
	if err := client.Migrate(ctx); err != nil {
		logger.Error("migrations failed", "dialect", dialect, "error", err)
		return withExitCode(ExitCodeStorageError, fmt.Errorf("migrate: %w", err))
	}

	logger.Info("migrations applied", "dialect", dialect)
	fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", dialect)
	return nil
}
