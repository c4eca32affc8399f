// Package service wires the tasting domain to its stores and exposes the
// operations used by the HTTP API and the commands.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/adapters/repository"
	"github.com/okian/tasting/internal/domain/catalog"
	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/internal/domain/scoring"
	"github.com/okian/tasting/internal/domain/stats"
	"github.com/okian/tasting/pkg/logger"
	"github.com/okian/tasting/pkg/metrics"
)

const defaultMaxRankings = 100

// ErrNotStarted is returned by operations that need loaded stores.
var ErrNotStarted = errors.New("service not started")

// Service owns the catalog, the scoring rules and both stores.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    kv.Store
	catalog  *catalog.Catalog
	calc     *scoring.Calculator
	verdicts *scoring.Table
	history  *repository.HistoryStore
	settings *repository.SettingsStore
	stats    *stats.Aggregator

	// Configuration
	verdictRules    []scoring.Rule
	verdictFallback string
	historyKey      string
	settingsKey     string
	maxRankings     int
	now             func() time.Time

	// State
	started   bool
	ownsStore bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:     catalog.Default(),
		calc:        scoring.NewCalculator(),
		historyKey:  repository.DefaultHistoryKey,
		settingsKey: repository.DefaultSettingsKey,
		maxRankings: defaultMaxRankings,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start compiles the verdict rules and loads history and settings. Corrupt
// or unreadable stored data is logged and replaced by empty history or
// default settings; it does not prevent the service from starting.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting tasting service...")

	verdicts, err := scoring.NewTable(s.verdictRules, s.verdictFallback)
	if err != nil {
		return fmt.Errorf("verdict rules: %w", err)
	}
	s.verdicts = verdicts

	if s.store == nil {
		s.store = kv.NewMemoryStore()
		s.ownsStore = true
		s.logger.Warn(ctx, "no store configured, history will not survive a restart")
	}

	s.history = repository.NewHistoryStore(s.store,
		repository.WithKey(s.historyKey),
		repository.WithLogger(s.logger.Named("history")),
	)
	s.settings = repository.NewSettingsStore(s.store,
		repository.WithKey(s.settingsKey),
		repository.WithLogger(s.logger.Named("settings")),
	)
	s.stats = stats.New(s.history)

	records, err := s.history.LoadAll(ctx)
	if err != nil && !errors.Is(err, model.ErrPersistence) {
		return err
	}
	if _, err := s.settings.Load(ctx); err != nil && !errors.Is(err, model.ErrPersistence) {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "tasting service started",
		logger.Int("questions", s.catalog.Len()),
		logger.Int("records", len(records)),
		logger.Int("verdictRules", len(s.verdicts.Labels())-1),
	)

	return nil
}

// Stop releases the store if the service created it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping tasting service...")

	if s.ownsStore && s.store != nil {
		_ = s.store.Close()
		s.store = nil
		s.ownsStore = false
	}

	s.started = false
	s.logger.Info(context.Background(), "tasting service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Questions returns the catalog in wizard order.
func (s *Service) Questions() []catalog.Question {
	return s.catalog.Questions()
}

// MaxScore is the best attainable score.
func (s *Service) MaxScore() float64 {
	return s.calc.MaxScore(s.catalog)
}

// Verdict describes a score.
func (s *Service) Verdict(score float64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.verdicts == nil {
		return scoring.DefaultFallback
	}
	return s.verdicts.Describe(score)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started":   s.started,
		"questions": s.catalog.Len(),
	}

	if s.started {
		count := s.history.Len()
		out["tastings"] = count
		out["settings"] = s.settings.Current()
		metrics.UpdateHistorySize(count)
	}

	return out
}
