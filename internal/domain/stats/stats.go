// Package stats derives summary statistics from the tasting history.
package stats

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/okian/tasting/internal/domain/model"
)

// NoAverage is shown when there is nothing to average.
const NoAverage = "--"

// Source provides the current history.
type Source interface {
	Records() []model.TastingRecord
}

// Aggregator computes statistics on demand from a Source.
type Aggregator struct {
	src Source
}

// New creates an aggregator reading from src.
func New(src Source) *Aggregator {
	return &Aggregator{src: src}
}

// Count returns the number of records.
func (a *Aggregator) Count() int {
	return len(a.src.Records())
}

// AverageScore returns the mean score; ok is false on empty history.
func (a *Aggregator) AverageScore() (mean float64, ok bool) {
	return Average(a.src.Records())
}

// Summary aggregates the whole history. describe maps a score to its verdict
// and may be nil.
func (a *Aggregator) Summary(describe func(float64) string) Summary {
	return Summarize(a.src.Records(), describe)
}

// Rankings ranks bottles by average score.
func (a *Aggregator) Rankings(limit int) []Ranking {
	return Rank(a.src.Records(), limit)
}

// Average returns the arithmetic mean of the scores.
func Average(records []model.TastingRecord) (float64, bool) {
	if len(records) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, r := range records {
		sum += r.Score
	}
	return sum / float64(len(records)), true
}

// FormatAverage renders a mean with one decimal, or NoAverage.
func FormatAverage(mean float64, ok bool) string {
	if !ok {
		return NoAverage
	}
	return strconv.FormatFloat(mean, 'f', 1, 64)
}

// SummaryLine renders the history header, e.g. "3 dégustations • Note moyenne: 14.7/20".
func SummaryLine(count int, mean float64, ok bool) string {
	plural := "s"
	if count == 1 {
		plural = ""
	}
	avg := FormatAverage(mean, ok)
	if ok {
		avg += "/20"
	}
	return fmt.Sprintf("%d dégustation%s • Note moyenne: %s", count, plural, avg)
}

// SortByRecency returns a copy of records, newest first.
func SortByRecency(records []model.TastingRecord) []model.TastingRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b model.TastingRecord) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// Summary is the aggregate view of the history.
type Summary struct {
	Count    int            `json:"count"`
	Average  *float64       `json:"average"`
	Display  string         `json:"averageDisplay"`
	Best     *float64       `json:"best,omitempty"`
	Worst    *float64       `json:"worst,omitempty"`
	Latest   *time.Time     `json:"latest,omitempty"`
	Verdicts map[string]int `json:"verdicts,omitempty"`
	Line     string         `json:"line"`
}

// Summarize builds a Summary of records.
func Summarize(records []model.TastingRecord, describe func(float64) string) Summary {
	mean, ok := Average(records)
	s := Summary{
		Count:   len(records),
		Display: FormatAverage(mean, ok),
		Line:    SummaryLine(len(records), mean, ok),
	}
	if !ok {
		return s
	}
	s.Average = &mean
	best, worst := records[0].Score, records[0].Score
	latest := records[0].Date
	for _, r := range records[1:] {
		best = max(best, r.Score)
		worst = min(worst, r.Score)
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	s.Best, s.Worst, s.Latest = &best, &worst, &latest
	if describe != nil {
		s.Verdicts = make(map[string]int)
		for _, r := range records {
			s.Verdicts[describe(r.Score)]++
		}
	}
	return s
}
