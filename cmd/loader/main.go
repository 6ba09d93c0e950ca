// Package main is the entry point of the export loader. It parses a Discord
// data export directory and rebuilds a relational store from it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/config"
	"github.com/parsascontentcorner/discordexport/internal/database"
	"github.com/parsascontentcorner/discordexport/internal/export"
	"github.com/parsascontentcorner/discordexport/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loader <export-root-path> <destination-store-path>",
		Short: "Load a Discord data export into a relational store",
		Long: "Parses the export directory and replaces the destination store contents with it.\n" +
			"The destination is a SQLite file path or a postgres:// URL.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func run(ctx context.Context, out io.Writer, root, target string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()
	log = logger.WithRun(log, uuid.NewString())

	dest, err := cfg.ResolveDestination(target)
	if err != nil {
		return err
	}

	log.Info("starting export load",
		zap.String("root", root),
		zap.String("destination", dest.Display),
		zap.Int("batch_size", cfg.Loader.BatchSize),
	)

	start := time.Now()
	exp, err := export.NewParser(root, log).Parse()
	if err != nil {
		return fmt.Errorf("failed to parse export: %w", err)
	}
	fmt.Fprintf(out, "Parse elapsed %v\n", time.Since(start))

	db, err := database.Open(ctx, dest, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close destination store", zap.Error(err))
		}
	}()

	start = time.Now()
	if _, err := database.NewLoader(db, cfg.Loader, log).Save(ctx, exp); err != nil {
		return fmt.Errorf("failed to save export: %w", err)
	}
	fmt.Fprintf(out, "Save elapsed %v\n", time.Since(start))

	return nil
}
