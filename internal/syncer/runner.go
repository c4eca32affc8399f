package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/adapters/remote"
	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/pkg/logger"
)

// ErrNotAuthenticated is returned when no stored session exists and no
// credentials were given.
var ErrNotAuthenticated = errors.New("syncer: not authenticated")

// Uploader is the part of the remote client used by a sync run.
type Uploader interface {
	IsAuthenticated(ctx context.Context) bool
	Login(ctx context.Context, email, password string) (*remote.User, error)
	CreateTasting(ctx context.Context, rec model.TastingRecord) (*remote.Envelope, error)
}

// Run uploads every record not yet in the ledger. A failed upload is
// counted and the run continues; an expired session stops it.
func Run(ctx context.Context, config *Config, records []model.TastingRecord, store kv.Store, up Uploader) (*Stats, error) {
	stats := &Stats{
		Total:     len(records),
		StartTime: time.Now(),
	}
	ledgerKey := config.LedgerKey
	if ledgerKey == "" {
		ledgerKey = DefaultLedgerKey
	}

	logger.Get().Info(ctx, "starting history sync",
		logger.Int("records", len(records)),
		logger.Bool("dryRun", config.DryRun))

	// Step 1: Make sure we hold a session
	if err := authenticate(ctx, config, up); err != nil {
		return stats, err
	}

	// Step 2: Load the ledger of uploaded IDs
	sent, err := loadLedger(ctx, store, ledgerKey)
	if err != nil {
		return stats, err
	}

	// Step 3: Upload sequentially
	err = upload(ctx, config, records, sent, store, ledgerKey, up, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, err
}

func authenticate(ctx context.Context, config *Config, up Uploader) error {
	if up.IsAuthenticated(ctx) {
		return nil
	}
	if config.Email == "" {
		return ErrNotAuthenticated
	}
	user, err := up.Login(ctx, config.Email, config.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if user != nil {
		logger.Get().Info(ctx, "logged in", logger.String("email", user.Email), logger.String("role", user.Role))
	}
	return nil
}

func upload(ctx context.Context, config *Config, records []model.TastingRecord, sent map[int64]bool,
	store kv.Store, ledgerKey string, up Uploader, stats *Stats,
) error {
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sent[rec.ID] {
			stats.Skipped++
			continue
		}
		if config.DryRun {
			stats.Pending++
			continue
		}

		if _, err := up.CreateTasting(ctx, rec); err != nil {
			if errors.Is(err, remote.ErrAuthExpired) {
				return err
			}
			stats.Failed++
			logger.Get().Warn(ctx, "tasting upload failed", logger.Int64("id", rec.ID), logger.Error(err))
			continue
		}

		stats.Submitted++
		sent[rec.ID] = true
		if err := saveLedger(ctx, store, ledgerKey, sent); err != nil {
			return err
		}
		if config.Verbose {
			logger.Get().Info(ctx, "tasting uploaded", logger.Int64("id", rec.ID), logger.Float64("score", rec.Score))
		}
	}
	return nil
}

func loadLedger(ctx context.Context, store kv.Store, key string) (map[int64]bool, error) {
	sent := make(map[int64]bool)
	data, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return sent, nil
	}
	if err != nil {
		return nil, &model.PersistenceError{Op: "get", Key: key, Err: err}
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, &model.PersistenceError{Op: "decode", Key: key, Err: fmt.Errorf("%w: %v", model.ErrCorrupt, err)}
	}
	for _, id := range ids {
		sent[id] = true
	}
	return sent, nil
}

func saveLedger(ctx context.Context, store kv.Store, key string, sent map[int64]bool) error {
	ids := make([]int64, 0, len(sent))
	for id := range sent {
		ids = append(ids, id)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return &model.PersistenceError{Op: "encode", Key: key, Err: err}
	}
	if err := store.Put(ctx, key, data); err != nil {
		return &model.PersistenceError{Op: "put", Key: key, Err: err}
	}
	return nil
}

// displayFinalStats logs the final sync statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("total", stats.Total),
		logger.Int("submitted", stats.Submitted),
		logger.Int("failed", stats.Failed),
		logger.Int("skipped", stats.Skipped),
		logger.Int("pending", stats.Pending),
		logger.String("duration", stats.Duration.String()))
}
