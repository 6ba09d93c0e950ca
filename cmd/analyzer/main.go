// Package main is the entry point of the word-frequency analyzer. It reads
// the messages of a loaded store and prints how often each word occurs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/discordexport/internal/analyzer"
	"github.com/parsascontentcorner/discordexport/internal/config"
	"github.com/parsascontentcorner/discordexport/internal/database"
	"github.com/parsascontentcorner/discordexport/pkg/logger"
)

type options struct {
	limit int
}

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
	var opts options

	cmd := &cobra.Command{
		Use:           "analyzer <destination-store-path>",
		Short:         "Print word frequencies of the messages in a loaded store",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Print only the N most frequent words (0 prints all)")

	return cmd
}

func run(ctx context.Context, out io.Writer, target string, opts options) error {
	if opts.limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

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

	db, err := database.Open(ctx, dest, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close destination store", zap.Error(err))
		}
	}()

	counts, err := analyzer.New(db, log).CountWords(ctx)
	if err != nil {
		return err
	}

	for _, wc := range analyzer.Top(counts, opts.limit) {
		fmt.Fprintf(out, "%s %d\n", wc.Word, wc.Count)
	}

	return nil
}
