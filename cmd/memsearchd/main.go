// Command memsearchd wires the memory engine into a long-running process:
// it loads configuration, builds the index if none exists yet, starts the
// refresh controller's debounce/cooldown worker loop and a directory
// watcher over the sessions directory, and blocks until it receives
// SIGINT/SIGTERM.
//
// It carries no flags beyond -config and no output formatting; the CLI and
// hook-delivery surfaces are external collaborators that call into
// pkg/memengine directly or over whatever transport wires to it.
//
// Usage:
//
//	memsearchd
//	memsearchd -config ~/.config/memsearch/config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/memsearch/internal/memconfig"
	"github.com/fyrsmithlabs/memsearch/internal/memhooks"
	"github.com/fyrsmithlabs/memsearch/internal/obslog"
	"github.com/fyrsmithlabs/memsearch/pkg/memengine"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.config/memsearch/config.yaml)")
	reindex := flag.Bool("reindex", false, "rebuild the index from scratch before starting")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *reindex); err != nil {
		log.Fatalf("memsearchd: %v", err)
	}
	log.Println("memsearchd: shutdown complete")
}

func run(ctx context.Context, configPath string, reindex bool) error {
	cfg, err := memconfig.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := obslog.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	logger.Info(ctx, "starting memsearchd",
		zap.String("index_dir", cfg.IndexDir),
		zap.String("sessions_dir", cfg.SessionsDir))

	engine, err := memengine.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("constructing engine: %w", err)
	}

	if reindex {
		logger.Info(ctx, "reindexing sessions directory")
		if err := engine.IndexAll(ctx); err != nil {
			return fmt.Errorf("initial index build: %w", err)
		}
	}

	engine.Hooks().Register(func(ctx context.Context, update memhooks.TranscriptUpdate) error {
		logger.Debug(ctx, "transcript update observed",
			zap.String("session_id", update.SessionID),
			zap.Bool("immediate", update.Immediate))
		return nil
	})

	engine.Start()
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn(ctx, "engine close failed", zap.Error(err))
		}
	}()

	watchErrCh := make(chan error, 1)
	go func() {
		watchErrCh <- engine.Watch(ctx)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-watchErrCh:
		if err != nil {
			return fmt.Errorf("session directory watch: %w", err)
		}
		return nil
	}
}
