package scoring_test

import (
	"testing"

	"github.com/okian/tasting/internal/domain/answers"
	"github.com/okian/tasting/internal/domain/catalog"
	"github.com/okian/tasting/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func ints(vals ...int) []*int {
	out := make([]*int, len(vals))
	for i := range vals {
		out[i] = &vals[i]
	}
	return out
}

func TestCalculatorScore(t *testing.T) {
	Convey("Given the default catalog and calculator", t, func() {
		cat := catalog.Default()
		calc := scoring.NewCalculator()

		Convey("When all five questions are answered with 3,4,5,3,2", func() {
			s := answers.New(cat.Len())
			for i, v := range []int{3, 4, 5, 3, 2} {
				So(s.Set(i, answers.Answer{Value: v}), ShouldBeNil)
			}
			res := calc.Score(s, cat)

			Convey("Then the points are summed, not averaged", func() {
				So(res.Score, ShouldAlmostEqual, 13.6, 1e-9)
				So(res.Answered, ShouldEqual, 5)
				So(res.Total, ShouldEqual, 5)
				So(res.Skipped(), ShouldEqual, 0)
			})
		})

		Convey("When nothing is answered", func() {
			res := calc.Score(answers.New(cat.Len()), cat)

			Convey("Then the score is exactly zero", func() {
				So(res.Score, ShouldEqual, 0)
				So(res.Answered, ShouldEqual, 0)
				So(res.Skipped(), ShouldEqual, 5)
			})
		})

		Convey("When every answer is the maximum", func() {
			res := calc.ScoreValues(ints(5, 5, 5, 5, 5))
			So(res.Score, ShouldAlmostEqual, calc.MaxScore(cat), 1e-9)
			So(calc.MaxScore(cat), ShouldEqual, 20)
		})

		Convey("When some questions are skipped", func() {
			vals := ints(5, 5, 5)
			res := calc.ScoreValues([]*int{vals[0], nil, vals[1], nil, vals[2]})

			Convey("Then skipped questions contribute nothing", func() {
				So(res.Score, ShouldAlmostEqual, 12.0, 1e-9)
				So(res.Answered, ShouldEqual, 3)
				So(res.Skipped(), ShouldEqual, 2)
			})
		})

		Convey("When the same answers arrive in another order", func() {
			a := calc.ScoreValues(ints(1, 2, 3, 4, 5))
			b := calc.ScoreValues(ints(5, 3, 1, 4, 2))
			So(a.Score, ShouldAlmostEqual, b.Score, 1e-9)
		})

		Convey("When a zero value is present", func() {
			res := calc.ScoreValues(ints(0, 5))
			So(res.Score, ShouldAlmostEqual, 4.0, 1e-9)
			So(res.Answered, ShouldEqual, 2)
		})
	})

	Convey("Given a calculator with custom points", t, func() {
		calc := scoring.NewCalculator(scoring.WithPointsPerQuestion(10), scoring.WithPointsPerQuestion(-1))
		So(calc.ScoreValues(ints(5)).Score, ShouldAlmostEqual, 10.0, 1e-9)
	})
}

func TestScoreMatchesSumFormula(t *testing.T) {
	Convey("Given every valid rating combination for two questions", t, func() {
		calc := scoring.NewCalculator()
		for a := 1; a <= 5; a++ {
			for b := 1; b <= 5; b++ {
				got := calc.ScoreValues(ints(a, b)).Score
				So(got, ShouldAlmostEqual, float64(a)/5*4+float64(b)/5*4, 1e-9)
				So(got, ShouldBeLessThanOrEqualTo, 8.0)
			}
		}
	})
}
