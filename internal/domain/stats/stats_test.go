package stats_test

import (
	"testing"
	"time"

	"github.com/okian/tasting/internal/domain/model"
	"github.com/okian/tasting/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedSource []model.TastingRecord

func (f fixedSource) Records() []model.TastingRecord { return f }

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func record(id int64, score float64, daysAgo int) model.TastingRecord {
	return model.TastingRecord{
		ID:                id,
		Score:             score,
		AnsweredQuestions: 5,
		TotalQuestions:    5,
		Date:              base.AddDate(0, 0, -daysAgo),
		BottleCount:       1,
	}
}

func TestAggregator(t *testing.T) {
	Convey("Given an empty history", t, func() {
		agg := stats.New(fixedSource(nil))

		Convey("Then the average is undefined", func() {
			_, ok := agg.AverageScore()
			So(ok, ShouldBeFalse)
			So(agg.Count(), ShouldEqual, 0)

			s := agg.Summary(nil)
			So(s.Average, ShouldBeNil)
			So(s.Display, ShouldEqual, "--")
			So(s.Line, ShouldEqual, "0 dégustations • Note moyenne: --")
		})
	})

	Convey("Given scores 10, 14 and 20", t, func() {
		agg := stats.New(fixedSource{record(1, 10, 2), record(2, 14, 0), record(3, 20, 1)})

		Convey("Then the mean is 14.666…", func() {
			mean, ok := agg.AverageScore()
			So(ok, ShouldBeTrue)
			So(mean, ShouldAlmostEqual, 44.0/3.0, 1e-12)
			So(agg.Count(), ShouldEqual, 3)
		})

		Convey("Then the summary reports extremes and the newest date", func() {
			s := agg.Summary(func(score float64) string {
				if score >= 14 {
					return "good"
				}
				return "meh"
			})
			So(*s.Best, ShouldEqual, 20)
			So(*s.Worst, ShouldEqual, 10)
			So(s.Latest.Equal(base), ShouldBeTrue)
			So(s.Display, ShouldEqual, "14.7")
			So(s.Line, ShouldEqual, "3 dégustations • Note moyenne: 14.7/20")
			So(s.Verdicts, ShouldResemble, map[string]int{"good": 2, "meh": 1})
		})
	})

	Convey("Given a single tasting", t, func() {
		So(stats.SummaryLine(1, 13.6, true), ShouldEqual, "1 dégustation • Note moyenne: 13.6/20")
	})
}

func TestSortByRecency(t *testing.T) {
	Convey("Given records in insertion order", t, func() {
		in := []model.TastingRecord{record(1, 10, 5), record(2, 12, 0), record(3, 15, 3)}
		out := stats.SortByRecency(in)

		Convey("Then the newest comes first and the input is untouched", func() {
			So([]int64{out[0].ID, out[1].ID, out[2].ID}, ShouldResemble, []int64{2, 3, 1})
			So(in[0].ID, ShouldEqual, 1)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given tastings of several bottles", t, func() {
		a1, a2 := record(1, 16, 0), record(2, 12, 0)
		a1.BottleIdentifier, a2.BottleIdentifier = "A", "A"
		b := record(3, 14, 0)
		b.BottleIdentifier = "B"
		c := record(4, 18, 0)
		c.BottleIdentifier = "C"
		d := record(5, 14, 0)
		d.BottleIdentifier = "D"

		ranks := stats.Rank([]model.TastingRecord{a1, a2, b, c, d}, 0)

		Convey("Then bottles are ordered by average with shared ranks on ties", func() {
			So(len(ranks), ShouldEqual, 4)
			So(ranks[0].Bottle, ShouldStartWith, "C")
			So(ranks[0].Rank, ShouldEqual, 1)
			So(ranks[1].Rank, ShouldEqual, 2)
			So(ranks[2].Rank, ShouldEqual, 2)
			So(ranks[3].Rank, ShouldEqual, 2)
		})

		Convey("Then a bottle tasted twice is averaged", func() {
			for _, r := range ranks {
				if r.Bottle == a1.WineLabel() {
					So(r.Tastings, ShouldEqual, 2)
					So(r.Average, ShouldEqual, 14)
					So(r.Best, ShouldEqual, 16)
				}
			}
		})

		Convey("Then the limit truncates the list", func() {
			So(len(stats.Rank([]model.TastingRecord{a1, b, c, d}, 2)), ShouldEqual, 2)
		})
	})

	Convey("Given no history", t, func() {
		So(stats.Rank(nil, 10), ShouldBeEmpty)
	})
}
