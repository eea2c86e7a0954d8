// cmd/reconcile/main.go
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/dangerclosesec/liaison/internal/config"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/service"

	"gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()

	// Command line flags
	var (
		batchSize = flag.Int("batch-size", cfg.Reconcile.BatchSize, "Number of pending memberships to process")
		dryRun    = flag.Bool("dry-run", false, "Print what would be done without making changes")
		timeout   = flag.Duration("timeout", 30*time.Minute, "Maximum time to run reconciliation")
	)
	flag.Parse()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := repository.Open(ctx, cfg.DSN(), logger.Warn)
	if err != nil {
		slogger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Interval doesn't matter for a single pass
	reconciler := service.NewMembershipReconciler(repository.NewMembershipRepository(db), 0, slogger)
	reconciler.SetBatchSize(*batchSize)
	reconciler.SetDryRun(*dryRun)

	approved, err := reconciler.ReconcilePending(ctx)
	if err != nil {
		slogger.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}

	slogger.Info("reconciliation completed successfully", "approved", approved, "dry_run", *dryRun)
}
