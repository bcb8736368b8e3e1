package main

import (
	"fmt"
	"io"
	"net/http"

	nuvemshop "github.com/goliatone/go-nuvemshop"
	"github.com/goliatone/go-nuvemshop/core"
	nuvemshopquery "github.com/goliatone/go-nuvemshop/query"
	"github.com/spf13/cobra"
)

func newTokenCommand(opts *rootOptions) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect stored store tokens",
	}
	tokenCmd.AddCommand(&cobra.Command{
		Use:   "get <store_id>",
		Short: "Print the stored token for a store with the secret masked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenGet(cmd, opts, args[0])
		},
	})
	return tokenCmd
}

func runTokenGet(cmd *cobra.Command, opts *rootOptions, rawStoreID string) error {
	storeID, err := core.ParseStoreID(rawStoreID)
	if err != nil {
		return withExitCode(ExitCodeConfigError, err)
	}

	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, cmd, opts, core.ValidateStorage)
	if err != nil {
		return err
	}
	client, store, err := openTokenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	service, err := nuvemshop.NewService(nuvemshop.WithTokenStore(store))
	if err != nil {
		return err
	}
	facade, err := nuvemshop.NewFacade(service)
	if err != nil {
		return err
	}
	record, err := facade.Queries().GetStoreToken.Query(ctx, nuvemshopquery.GetStoreTokenMessage{StoreID: storeID})
	if err != nil {
		if core.HTTPStatus(err) == http.StatusNotFound {
			return fmt.Errorf("no token stored for store %s", storeID)
		}
		return err
	}
	printTokenRecord(cmd.OutOrStdout(), record)
	return nil
}

func printTokenRecord(w io.Writer, record core.TokenRecord) {
	fmt.Fprintf(w, "store_id:   %s\n", record.StoreID)
	fmt.Fprintf(w, "token_type: %s\n", orDash(record.TokenType))
	fmt.Fprintf(w, "scope:      %s\n", orDash(record.Scope))
	fmt.Fprintf(w, "token:      %s\n", record.MaskedToken())
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
