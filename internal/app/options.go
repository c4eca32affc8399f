package service

import (
	"time"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/internal/domain/catalog"
	"github.com/okian/tasting/internal/domain/scoring"
	"github.com/okian/tasting/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the key/value store backing history and settings.
func WithStore(store kv.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog replaces the default question catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithVerdictRules replaces the default verdict thresholds.
func WithVerdictRules(rules []scoring.Rule) Option {
	return func(s *Service) {
		if len(rules) > 0 {
			s.verdictRules = rules
		}
	}
}

// WithVerdictFallback sets the label used when no verdict rule matches.
func WithVerdictFallback(label string) Option {
	return func(s *Service) {
		s.verdictFallback = label
	}
}

// WithHistoryKey sets the store key of the history.
func WithHistoryKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.historyKey = key
		}
	}
}

// WithSettingsKey sets the store key of the settings.
func WithSettingsKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.settingsKey = key
		}
	}
}

// WithMaxRankingsLimit caps the number of bottles returned by Rankings.
func WithMaxRankingsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRankings = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
