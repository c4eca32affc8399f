// Package catalog defines the fixed, ordered list of tasting questions.
package catalog

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/okian/tasting/internal/domain/model"
)

// Type is the answer type of a question.
type Type string

// Supported question types.
const (
	Rating Type = "rating"
	Choice Type = "choice"
)

// Rating answers use a 1..5 scale.
const (
	MinValue = 1
	MaxValue = 5
)

// maxQuestions keeps the maximum attainable score on the 20-point scale.
const maxQuestions = 5

var validate = validator.New(validator.WithRequiredStructEnabled())

// Option is one labeled value of a choice question.
type Option struct {
	Title string `json:"title" validate:"required"`
	Desc  string `json:"desc"`
	Value int    `json:"value" validate:"gte=1,lte=5"`
}

// Question is an immutable question definition.
type Question struct {
	ID       string   `json:"id" validate:"required"`
	Icon     string   `json:"icon,omitempty"`
	Title    string   `json:"title" validate:"required"`
	Subtitle string   `json:"subtitle,omitempty"`
	Type     Type     `json:"type" validate:"oneof=rating choice"`
	Weight   float64  `json:"weight" validate:"gt=0"`
	Options  []Option `json:"options,omitempty" validate:"required_if=Type choice,excluded_if=Type rating,dive"`
}

// Accepts reports whether value is a valid answer for q.
func (q Question) Accepts(value int) bool {
	switch q.Type {
	case Rating:
		return value >= MinValue && value <= MaxValue
	case Choice:
		return slices.ContainsFunc(q.Options, func(o Option) bool { return o.Value == value })
	default:
		return false
	}
}

// Option returns the choice option carrying value.
func (q Question) Option(value int) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Catalog is an ordered, read-only list of questions.
type Catalog struct {
	questions []Question
}

// New validates questions and builds a catalog from them.
func New(questions []Question) (*Catalog, error) {
	if len(questions) == 0 || len(questions) > maxQuestions {
		return nil, fmt.Errorf("%w: catalog needs 1 to %d questions, got %d", model.ErrValidation, maxQuestions, len(questions))
	}
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", model.ErrValidation, i, err)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", model.ErrValidation, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return &Catalog{questions: slices.Clone(questions)}, nil
}

// Len returns the number of questions.
func (c *Catalog) Len() int { return len(c.questions) }

// At returns the question at index.
func (c *Catalog) At(index int) (Question, error) {
	if index < 0 || index >= len(c.questions) {
		return Question{}, fmt.Errorf("%w: %d not in [0, %d)", model.ErrIndexOutOfRange, index, len(c.questions))
	}
	return c.questions[index], nil
}

// Questions returns a copy of all questions in order.
func (c *Catalog) Questions() []Question {
	return slices.Clone(c.questions)
}

// ValidateAnswer checks value against the question at index.
func (c *Catalog) ValidateAnswer(index, value int) error {
	q, err := c.At(index)
	if err != nil {
		return err
	}
	if !q.Accepts(value) {
		return fmt.Errorf("%w: %d for %s question %q", model.ErrInvalidAnswer, value, q.Type, q.ID)
	}
	return nil
}
