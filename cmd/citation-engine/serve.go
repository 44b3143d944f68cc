// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/internal/server"
	"github.com/pdiddy/citation-engine/internal/store"
	"github.com/pdiddy/citation-engine/internal/suggest"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the citation HTTP API",
	Long: `Serve exposes the pipeline over HTTP: document upload and extraction,
citation suggestion, accept/dismiss review, and finalized document
download. Review sessions are persisted in a SQLite database so a
document can be finalized after a restart.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("store.path")
	}
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}

	cfg := types.EngineConfig{
		Suggest:  suggestConfigFromFlags(cmd),
		Annotate: types.AnnotateConfig{Style: types.ParseStyle(viper.GetString("annotate.style"))},
		Store:    types.StoreConfig{Path: dbPath},
		Server: types.ServerConfig{
			Addr:            addr,
			ShutdownTimeout: 10 * time.Second,
		},
	}

	providers, err := suggest.NewProviders(cfg.Suggest, newHTTPClient(cfg.Suggest))
	if err != nil {
		return err
	}
	pipeline := suggest.NewPipeline(providers, cfg.Suggest)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := server.New(logger, st, pipeline, providers, cfg.Server, cfg.Annotate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return svc.ListenAndServe(ctx)
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("db", "citations.db", "review session database path")
	addSuggestFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}
