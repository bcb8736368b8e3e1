package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	nuvemshop "github.com/goliatone/go-nuvemshop"
	"github.com/goliatone/go-nuvemshop/adapters/gologger"
	"github.com/goliatone/go-nuvemshop/core"
	"github.com/goliatone/go-nuvemshop/inbound"
	nuvemshopprovider "github.com/goliatone/go-nuvemshop/providers/nuvemshop"
	"github.com/spf13/cobra"
)

const readHeaderTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the OAuth callback (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, cmd, opts, nil)
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
	provider := gologger.NewProvider(logger)

	client, store, err := openTokenStore(ctx, cfg.Database)
	if err != nil {
		logger.Error("open token database failed", "driver", cfg.Database.Driver, "error", err)
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("ensure tokens table failed", "error", err)
		return withExitCode(ExitCodeStorageError, err)
	}

	exchanger := nuvemshopprovider.NewExchangeClient(nuvemshopprovider.ConfigFromOAuth(cfg.OAuth))
	service, err := core.NewService(
		core.WithTokenExchanger(exchanger),
		core.WithTokenStore(store),
		core.WithLoggerProvider(provider),
	)
	if err != nil {
		return err
	}

	facade, err := nuvemshop.NewFacade(service)
	if err != nil {
		return err
	}

	router := inbound.NewRouter(
		inbound.NewCallbackHandler(facade.Commands().CompleteCallback, provider.GetLogger("callback")),
		provider.GetLogger("http"),
	)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "token_url", cfg.OAuth.TokenURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok && err != nil {
			logger.Error("server failed", "error", err)
			return fmt.Errorf("listen on %s: %w", server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return fmt.Errorf("shutdown server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
