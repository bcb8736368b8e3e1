package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-nuvemshop/adapters/gologger"
	"github.com/goliatone/go-nuvemshop/core"
	sqlstore "github.com/goliatone/go-nuvemshop/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runtimeConfig carries only the flags the operator set explicitly.
func runtimeConfig(cmd *cobra.Command, opts *rootOptions) core.Config {
	var runtime core.Config
	if opts == nil {
		return runtime
	}
	if flagChanged(cmd, "port") {
		runtime.Server.Port = opts.port
	}
	if flagChanged(cmd, "log-level") {
		runtime.Log.Level = strings.TrimSpace(opts.logLevel)
	}
	return runtime
}

// flagChanged looks at local and inherited flags so persistent root flags
// count when set on a subcommand.
func flagChanged(cmd *cobra.Command, name string) bool {
	for _, set := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		if flag := set.Lookup(name); flag != nil && flag.Changed {
			return true
		}
	}
	return false
}

func loadConfig(ctx context.Context, cmd *cobra.Command, opts *rootOptions, validate core.ConfigValidator) (core.Config, error) {
	configFile := ""
	if opts != nil {
		configFile = opts.configFile
	}
	cfg, err := core.LoadConfig(ctx, core.NewViperConfigLoader(configFile), runtimeConfig(cmd, opts), validate)
	if err != nil {
		return core.Config{}, withExitCode(ExitCodeConfigError, fmt.Errorf("load configuration: %w", err))
	}
	return cfg, nil
}

func newLogger(cfg core.LogConfig) (*gologger.ZapLogger, error) {
	zapLogger, err := gologger.NewProduction(cfg.Level, cfg.JSON)
	if err != nil {
		return nil, withExitCode(ExitCodeConfigError, err)
	}
	return gologger.NewZapLogger(zapLogger), nil
}

func openTokenStore(ctx context.Context, cfg core.DatabaseConfig) (*persistence.Client, *sqlstore.TokenStore, error) {
	client, err := sqlstore.Open(ctx, cfg)
	if err != nil {
		return nil, nil, withExitCode(ExitCodeStorageError, err)
	}
	stores, err := sqlstore.NewStores(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, withExitCode(ExitCodeStorageError, err)
	}
	return client, stores.Tokens, nil
}
