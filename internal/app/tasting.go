package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/tasting/internal/domain/answers"
	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/pkg/logger"
	"github.com/okian/tasting/pkg/metrics"
)

// Tasting is one tasting in progress. It is not safe for concurrent use.
type Tasting struct {
	Setup   model.BottleSetup
	Session *answers.Session
	Started time.Time
}

// Progress is the wizard progress bar value in percent.
func (t *Tasting) Progress() float64 { return t.Session.Progress() }

// NewTasting validates the bottle setup and opens an empty answer session.
func (s *Service) NewTasting(setup model.BottleSetup) (*Tasting, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	return &Tasting{
		Setup:   setup,
		Session: answers.New(s.catalog.Len()),
		Started: s.now(),
	}, nil
}

// Answer records value for the question at index after checking it
// against the catalog.
func (s *Service) Answer(t *Tasting, index, value int) error {
	if err := s.catalog.ValidateAnswer(index, value); err != nil {
		return err
	}
	q, _ := s.catalog.At(index)
	a := answers.Answer{Type: q.Type, Value: value}
	if opt, ok := q.Option(value); ok {
		a.Option = &opt
	}
	return t.Session.Set(index, a)
}

// Skip clears the current question and moves on.
func (s *Service) Skip(t *Tasting) bool {
	return t.Session.Skip()
}

// Finish scores t, appends the record to the history and returns the
// outcome. When only persisting fails, the outcome is returned together
// with a *model.PersistenceError: the record is kept in memory.
func (s *Service) Finish(ctx context.Context, t *Tasting) (model.Outcome, error) {
	if err := s.ready(); err != nil {
		return model.Outcome{}, err
	}

	res := s.calc.Score(t.Session, s.catalog)
	now := s.now().UTC()
	rec := model.TastingRecord{
		ID:                s.history.NextID(now),
		Score:             res.Score,
		AnsweredQuestions: res.Answered,
		TotalQuestions:    res.Total,
		Date:              now,
		BottleCount:       t.Setup.BottleCount,
		BottleIdentifier:  t.Setup.BottleIdentifier,
		Wine:              t.Setup.Wine,
	}
	out := model.Outcome{
		Record:   rec,
		Verdict:  s.Verdict(res.Score),
		MaxScore: s.MaxScore(),
	}

	err := s.history.Append(ctx, rec)
	if err != nil && !errors.Is(err, model.ErrPersistence) {
		return model.Outcome{}, err
	}
	metrics.RecordTasting(res.Score, res.Answered, res.Skipped())
	s.logger.Info(ctx, "tasting recorded",
		logger.Int64("id", rec.ID),
		logger.Float64("score", rec.Score),
		logger.Int("answered", rec.AnsweredQuestions),
		logger.String("verdict", out.Verdict),
		logger.Bool("persisted", err == nil),
	)
	return out, err
}

// Submit runs a whole tasting at once. answers must have one entry per
// question; nil entries are skipped questions.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (model.Outcome, error) {
	if len(sub.Answers) != s.catalog.Len() {
		return model.Outcome{}, fmt.Errorf("%w: expected %d answers, got %d",
			model.ErrValidation, s.catalog.Len(), len(sub.Answers))
	}
	t, err := s.NewTasting(sub.BottleSetup)
	if err != nil {
		return model.Outcome{}, err
	}
	for i, v := range sub.Answers {
		if v == nil {
			continue
		}
		if err := s.Answer(t, i, *v); err != nil {
			return model.Outcome{}, err
		}
	}
	return s.Finish(ctx, t)
}
