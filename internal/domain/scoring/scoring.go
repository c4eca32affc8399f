// Package scoring turns the answers of a tasting into a score on a 20-point scale.
package scoring

import (
	"github.com/okian/tasting/internal/domain/answers"
	"github.com/okian/tasting/internal/domain/catalog"
)

// Default scoring configuration constants.
const (
	defaultPointsPerQuestion = 4.0
	ratingScale              = float64(catalog.MaxValue)
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithPointsPerQuestion sets the points an answer of value 5 is worth.
func WithPointsPerQuestion(points float64) Option {
	return func(c *Calculator) {
		if points > 0 {
			c.pointsPerQuestion = points
		}
	}
}

// Result is the outcome of scoring one session.
type Result struct {
	Score    float64 `json:"score"`
	Answered int     `json:"answeredQuestions"`
	Total    int     `json:"totalQuestions"`
}

// Skipped returns the number of unanswered questions.
func (r Result) Skipped() int { return r.Total - r.Answered }

// Calculator rescales each answered value from the 1..5 scale to its
// share of points and sums them. Question weights are not applied.
type Calculator struct {
	pointsPerQuestion float64
}

// NewCalculator creates a calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{pointsPerQuestion: defaultPointsPerQuestion}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score computes the score of s against cat. The sum is not divided by the
// number of answers, so skipped questions lower the score.
func (c *Calculator) Score(s *answers.Session, cat *catalog.Catalog) Result {
	res := c.ScoreValues(s.Values())
	res.Total = cat.Len()
	return res
}

// ScoreValues scores raw answer values; nil entries are skipped questions.
func (c *Calculator) ScoreValues(values []*int) Result {
	res := Result{Total: len(values)}
	counted := 0
	total := 0.0
	for _, v := range values {
		if v == nil {
			continue
		}
		res.Answered++
		if *v == 0 {
			continue
		}
		total += float64(*v) / ratingScale * c.pointsPerQuestion
		counted++
	}
	if counted > 0 {
		res.Score = total
	}
	return res
}

// MaxScore is the score of a session where every answer is 5.
func (c *Calculator) MaxScore(cat *catalog.Catalog) float64 {
	return c.pointsPerQuestion * float64(cat.Len())
}
