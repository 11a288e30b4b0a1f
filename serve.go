// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/ledger"
	"github.com/danielhkuo/quickly-tally/metrics"
	"github.com/danielhkuo/quickly-tally/router"
	"github.com/danielhkuo/quickly-tally/stream"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the ballot API",
		Long: `Serve the ballot API.

Flags are parsed by the cliparse package and fall back to environment
variables (PORT, DATABASE_URL, DATABASE_TYPE, CANDIDATE_COUNT,
ADMIN_ADDRESS, STRICT_REGISTRATION, ALLOWED_ORIGINS, LOG_LEVEL,
LOG_FORMAT) and then to a .env file.`,
		// cliparse owns the flag set so the server keeps its single-dash flags
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags(args)
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			if err != nil {
				return err
			}

			slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg))
			return serve(cfg)
		},
	}
}

func newLogger(w io.Writer, cfg cliparse.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func serve(cfg cliparse.Config) error {
	ctx := context.Background()

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Create or restore the authority
	authority, l, err := ledger.Bootstrap(ctx, dbConn, ledger.Config{
		CandidateCount: cfg.CandidateCount,
		Admin:          cfg.Admin(),
		Strict:         cfg.StrictRegistration,
	})
	if err != nil {
		slog.Error("ballot bootstrap failed", "error", err)
		return err
	}

	collector := metrics.New()
	collector.Seed(authority.Snapshot())
	authority.Subscribe(collector)

	hub := stream.NewHub(stream.DefaultQueueSize, router.CheckOrigin(cfg.AllowedOrigins))
	authority.Subscribe(hub)

	// Create server
	server := http.Server{
		Handler: router.NewRouter(router.Deps{
			Authority: authority,
			Ledger:    l,
			Metrics:   collector,
			Hub:       hub,
		}, cfg),
		Addr: ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		hub.Close()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "authority_id", l.AuthorityID())
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed", "error", err)
	return nil
}
