package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/internal/domain/stats"
	"github.com/okian/tasting/pkg/logger"
	"github.com/okian/tasting/pkg/metrics"
)

// History returns all records, newest first.
func (s *Service) History() []model.TastingRecord {
	if s.ready() != nil {
		return nil
	}
	return stats.SortByRecency(s.history.Records())
}

// Summary aggregates the history.
func (s *Service) Summary() stats.Summary {
	if s.ready() != nil {
		return stats.Summarize(nil, nil)
	}
	return s.stats.Summary(s.Verdict)
}

// Rankings ranks bottles by average score. limit 0 means the configured
// maximum; larger limits are capped to it.
func (s *Service) Rankings(limit int) ([]stats.Ranking, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative rankings limit %d", model.ErrValidation, limit)
	}
	if limit == 0 || limit > s.maxRankings {
		limit = s.maxRankings
	}
	return s.stats.Rankings(limit), nil
}

// Settings returns the current settings.
func (s *Service) Settings() model.Settings {
	if s.ready() != nil {
		return model.DefaultSettings()
	}
	return s.settings.Current()
}

// UpdateSettings applies patch and persists the whole settings record.
func (s *Service) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	if err := s.ready(); err != nil {
		return model.Settings{}, err
	}
	return s.settings.Update(ctx, patch)
}

// ResetData clears the history and restores default settings, but only
// when first and then final both approve. final is not asked when first
// declines. cleared reports whether anything was reset.
func (s *Service) ResetData(ctx context.Context, first, final model.Confirmation) (cleared bool, err error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if first == nil || final == nil || !first(ctx) || !final(ctx) {
		metrics.RecordReset("declined")
		s.logger.Info(ctx, "data reset declined")
		return false, nil
	}

	err = errors.Join(
		s.history.Clear(ctx),
		s.settings.Reset(ctx),
	)
	metrics.RecordReset("cleared")
	s.logger.Warn(ctx, "all local data cleared", logger.Bool("persisted", err == nil))
	return true, err
}
