// Package model contains domain models passed between layers.
package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Bottle count bounds of the setup screen.
const (
	MinBottleCount = 1
	MaxBottleCount = 10
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Wine carries optional label metadata of the tasted bottle.
type Wine struct {
	Name    string `json:"name,omitempty" validate:"max=200"`
	Vintage string `json:"vintage,omitempty" validate:"max=16"`
	Region  string `json:"region,omitempty" validate:"max=120"`
	Type    string `json:"type,omitempty" validate:"max=60"`
}

// TastingRecord is one completed tasting. Records are never mutated after
// they enter history. JSON keys match the layout written by the browser
// app so exported histories load unchanged.
type TastingRecord struct {
	ID                int64     `json:"id" validate:"gt=0"`
	Score             float64   `json:"score" validate:"gte=0,lte=20"`
	AnsweredQuestions int       `json:"answeredQuestions" validate:"gte=0,ltefield=TotalQuestions"`
	TotalQuestions    int       `json:"totalQuestions" validate:"gte=0"`
	Date              time.Time `json:"date" validate:"required"`
	BottleCount       int       `json:"bottleCount" validate:"gte=1,lte=10"`
	BottleIdentifier  string    `json:"bottleIdentifier,omitempty" validate:"max=64"`
	Wine              *Wine     `json:"wine,omitempty"`
}

// Validate checks the record shape.
func (r TastingRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, formatValidationError(err))
	}
	return nil
}

// WineLabel renders the wine line shown in the history list.
func (r TastingRecord) WineLabel() string {
	name := "Vin non spécifié"
	var details []string
	if r.Wine != nil {
		if r.Wine.Name != "" {
			name = r.Wine.Name
		}
		for _, d := range []string{r.Wine.Vintage, r.Wine.Region, r.Wine.Type} {
			if d != "" {
				details = append(details, d)
			}
		}
	}
	label := name
	if r.BottleIdentifier != "" {
		label = r.BottleIdentifier + " • " + label
	}
	if len(details) > 0 {
		label += " • " + strings.Join(details, " • ")
	}
	return label
}

// BottleSetup is what the user chooses before answering questions.
type BottleSetup struct {
	BottleCount      int    `json:"bottleCount" validate:"gte=1,lte=10"`
	CustomNames      bool   `json:"customNames"`
	BottleIdentifier string `json:"bottleIdentifier,omitempty" validate:"max=64"`
	Wine             *Wine  `json:"wine,omitempty"`
}

// Validate checks the setup shape.
func (b BottleSetup) Validate() error {
	if b.BottleCount < MinBottleCount || b.BottleCount > MaxBottleCount {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBottleCount, b.BottleCount, MinBottleCount, MaxBottleCount)
	}
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, formatValidationError(err))
	}
	return nil
}

// ClampBottleCount keeps n within the setup bounds.
func ClampBottleCount(n int) int {
	return max(MinBottleCount, min(MaxBottleCount, n))
}

// Submission is a whole tasting sent at once. A nil answer marks a skipped question.
type Submission struct {
	BottleSetup
	Answers []*int `json:"answers"`
}

// Outcome is the result of a finished tasting.
type Outcome struct {
	Record   TastingRecord `json:"record"`
	Verdict  string        `json:"verdict"`
	MaxScore float64       `json:"maxScore"`
}

// Confirmation asks the user to approve an irreversible action.
type Confirmation func(ctx context.Context) bool

// formatValidationError flattens validator output into one readable line.
func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gt", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "lte", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "ltefield":
			msgs = append(msgs, fmt.Sprintf("%s must not exceed %s", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
