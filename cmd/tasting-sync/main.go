package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/adapters/remote"
	"github.com/okian/tasting/internal/adapters/repository"
	"github.com/okian/tasting/internal/config"
	"github.com/okian/tasting/internal/syncer"
	"github.com/okian/tasting/pkg/logger"
)

const defaultSyncTimeout = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		email    = flag.String("email", os.Getenv("TASTING_SYNC_EMAIL"), "Backend account")
		password = flag.String("password", os.Getenv("TASTING_SYNC_PASSWORD"), "Backend password")
		dryRun   = flag.Bool("dry-run", false, "Count the records that would be uploaded")
		verbose  = flag.Bool("verbose", false, "Log every uploaded record")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		syncer.ShowHelp()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSyncTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	if err := run(ctx, cfg, &syncer.Config{
		Email:    *email,
		Password: *password,
		DryRun:   *dryRun,
		Verbose:  *verbose,
	}); err != nil {
		logger.Get().Error(ctx, "sync failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, syncCfg *syncer.Config) error {
	store, err := kv.Open(ctx, cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	history := repository.NewHistoryStore(store,
		repository.WithKey(cfg.HistoryKey),
		repository.WithLogger(logger.Named("history")),
	)
	records, err := history.LoadAll(ctx)
	if err != nil {
		return err
	}

	client := remote.New(store,
		remote.WithBaseURL(cfg.RemoteBaseURL),
		remote.WithTimeout(cfg.RemoteTimeout()),
	)
	stats, err := syncer.Run(ctx, syncCfg, records, store, client)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return errors.New("some tastings were not uploaded")
	}
	return nil
}
