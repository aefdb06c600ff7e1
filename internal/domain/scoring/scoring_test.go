package scoring_test

import (
	"context"
	"errors"
	"math"
	"testing"

	model "github.com/asierra0203/sail-recs-v1/internal/domain/model"
	scoring "github.com/asierra0203/sail-recs-v1/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func mustPrefs(t *testing.T, ships []string, months []int, ports []string) model.PreferenceSet {
	t.Helper()
	p, err := model.NewPreferenceSet(ships, months, ports)
	if err != nil {
		t.Fatalf("building preference set: %v", err)
	}
	return p
}

func TestWeightedEngine_Score(t *testing.T) {
	engine := scoring.NewWeightedEngine()
	ctx := context.Background()

	Convey("Given the three-record worked example", t, func() {
		records := []model.SailingRecord{
			{Ship: "A", Month: 1, Port: "X", Theo: 10},
			{Ship: "B", Month: 2, Port: "Y", Theo: 20},
			{Ship: "A", Month: 1, Port: "X", Theo: 30},
		}
		prefs := mustPrefs(t, []string{"A"}, []int{1}, []string{"X"})
		weights := model.WeightConfig{Ship: 3, Month: 3, Port: 3, Theo: 1}

		Convey("When scoring", func() {
			scored, err := engine.Score(ctx, records, prefs, weights)
			So(err, ShouldBeNil)
			So(scored, ShouldHaveLength, 3)

			Convey("Then ranks and scores follow the weighted model", func() {
				// Record 3: full preference match and theo max -> 100.
				So(scored[0].Rank, ShouldEqual, 1)
				So(scored[0].Record.Theo, ShouldEqual, 30.0)
				So(scored[0].MatchScore, ShouldAlmostEqual, 100.0, 1e-9)

				// Record 1: full match, theo min -> 90.
				So(scored[1].Rank, ShouldEqual, 2)
				So(scored[1].Record.Theo, ShouldEqual, 10.0)
				So(scored[1].MatchScore, ShouldAlmostEqual, 90.0, 1e-9)

				// Record 2: no preference match, theo midpoint -> 5.
				So(scored[2].Rank, ShouldEqual, 3)
				So(scored[2].Record.Ship, ShouldEqual, "B")
				So(scored[2].MatchScore, ShouldAlmostEqual, 5.0, 1e-9)
			})

			Convey("And scoring again yields identical output", func() {
				again, err := engine.Score(ctx, records, prefs, weights)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, scored)
			})
		})
	})

	Convey("Given an all-zero weight configuration", t, func() {
		records := []model.SailingRecord{{Ship: "A", Month: 1, Port: "X", Theo: 1}}

		Convey("When scoring", func() {
			_, err := engine.Score(ctx, records, model.PreferenceSet{}, model.WeightConfig{})

			Convey("Then it should fail before any scoring", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty dataset", t, func() {
		scored, err := engine.Score(ctx, nil, model.PreferenceSet{}, model.WeightConfig{Ship: 1})

		Convey("Then it should return an empty result without error", func() {
			So(err, ShouldBeNil)
			So(scored, ShouldHaveLength, 0)
		})
	})

	Convey("Given empty preference sets", t, func() {
		records := []model.SailingRecord{
			{Ship: "A", Month: 1, Port: "X", Theo: 5},
			{Ship: "B", Month: 6, Port: "Y", Theo: 9},
		}

		Convey("When scoring with no preferences at all", func() {
			scored, err := engine.Score(ctx, records, model.PreferenceSet{}, model.WeightConfig{Ship: 2, Month: 2, Port: 2, Theo: 4})
			So(err, ShouldBeNil)

			Convey("Then ship/month/port scores are all neutral 1.0", func() {
				for _, s := range scored {
					So(s.ShipScore, ShouldEqual, 1.0)
					So(s.MonthScore, ShouldEqual, 1.0)
					So(s.PortScore, ShouldEqual, 1.0)
				}
			})

			Convey("And ranking degrades to theo-driven order", func() {
				So(scored[0].Record.Theo, ShouldEqual, 9.0)
				So(scored[1].Record.Theo, ShouldEqual, 5.0)
			})
		})
	})

	Convey("Given a dataset with a single distinct theo value", t, func() {
		records := []model.SailingRecord{
			{Ship: "A", Month: 1, Port: "X", Theo: 7},
			{Ship: "B", Month: 2, Port: "Y", Theo: 7},
			{Ship: "C", Month: 3, Port: "Z", Theo: 7},
		}

		Convey("When scoring", func() {
			scored, err := engine.Score(ctx, records, model.PreferenceSet{}, model.WeightConfig{Theo: 10})
			So(err, ShouldBeNil)

			Convey("Then every theo score is exactly the neutral 0.5", func() {
				for _, s := range scored {
					So(s.TheoScore, ShouldEqual, 0.5)
				}
			})
		})
	})

	Convey("Given records that tie on match score", t, func() {
		records := []model.SailingRecord{
			{Ship: "A", Month: 1, Port: "X", Theo: 1},
			{Ship: "B", Month: 2, Port: "Y", Theo: 1},
			{Ship: "C", Month: 3, Port: "Z", Theo: 1},
		}

		Convey("When scoring with no preferences", func() {
			scored, err := engine.Score(ctx, records, model.PreferenceSet{}, model.WeightConfig{Ship: 1, Month: 1, Port: 1, Theo: 1})
			So(err, ShouldBeNil)

			Convey("Then original input order breaks the ties", func() {
				So(scored[0].Record.Ship, ShouldEqual, "A")
				So(scored[1].Record.Ship, ShouldEqual, "B")
				So(scored[2].Record.Ship, ShouldEqual, "C")
				So(scored[0].Rank, ShouldEqual, 1)
				So(scored[2].Rank, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When scoring", func() {
			_, err := engine.Score(cancelled, []model.SailingRecord{{Ship: "A", Month: 1, Port: "X"}}, model.PreferenceSet{}, model.WeightConfig{Ship: 1})

			Convey("Then it should surface the cancellation", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestFactorScorers(t *testing.T) {
	Convey("Given a record and explicit preferences", t, func() {
		rec := model.SailingRecord{Ship: "IC", Month: 7, Port: "MIA", Theo: 42}
		prefs := mustPrefs(t, []string{"IC", "WN"}, []int{6, 7}, []string{"FLL"})

		Convey("Then ship score is binary on membership", func() {
			So(scoring.ShipScore(rec, prefs), ShouldEqual, 1.0)
			other := rec
			other.Ship = "SY"
			So(scoring.ShipScore(other, prefs), ShouldEqual, 0.0)
		})

		Convey("Then month score is binary on membership", func() {
			So(scoring.MonthScore(rec, prefs), ShouldEqual, 1.0)
			other := rec
			other.Month = 12
			So(scoring.MonthScore(other, prefs), ShouldEqual, 0.0)
		})

		Convey("Then port score is binary on membership", func() {
			So(scoring.PortScore(rec, prefs), ShouldEqual, 0.0)
			other := rec
			other.Port = "FLL"
			So(scoring.PortScore(other, prefs), ShouldEqual, 1.0)
		})
	})

	Convey("Given a theo range", t, func() {
		tr := scoring.TheoRange{Min: 10, Max: 30}

		Convey("Then values normalize linearly and clamp", func() {
			So(tr.Score(10), ShouldEqual, 0.0)
			So(tr.Score(20), ShouldEqual, 0.5)
			So(tr.Score(30), ShouldEqual, 1.0)
			So(tr.Score(-5), ShouldEqual, 0.0)
			So(tr.Score(99), ShouldEqual, 1.0)
		})
	})

	Convey("Given datasets for range scanning", t, func() {
		Convey("Then the range covers min and max", func() {
			tr := scoring.TheoRangeOf([]model.SailingRecord{
				{Theo: 5}, {Theo: -3}, {Theo: 12},
			})
			So(tr.Min, ShouldEqual, -3.0)
			So(tr.Max, ShouldEqual, 12.0)
		})

		Convey("Then an empty dataset yields the zero range", func() {
			So(scoring.TheoRangeOf(nil), ShouldResemble, scoring.TheoRange{})
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given valid raw weights", t, func() {
		nw, err := scoring.Normalize(model.WeightConfig{Ship: 3, Month: 3, Port: 3, Theo: 1})
		So(err, ShouldBeNil)

		Convey("Then the distribution sums to 1 within tolerance", func() {
			So(math.Abs(nw.Sum()-1.0), ShouldBeLessThan, scoring.SumTolerance)
			So(nw.Ship, ShouldAlmostEqual, 0.3, 1e-9)
			So(nw.Theo, ShouldAlmostEqual, 0.1, 1e-9)
		})
	})

	Convey("Given a single non-zero weight", t, func() {
		nw, err := scoring.Normalize(model.WeightConfig{Theo: 10})
		So(err, ShouldBeNil)

		Convey("Then that factor takes the whole distribution", func() {
			So(nw.Theo, ShouldEqual, 1.0)
			So(nw.Ship, ShouldEqual, 0.0)
		})
	})

	Convey("Given all-zero raw weights", t, func() {
		_, err := scoring.Normalize(model.WeightConfig{})

		Convey("Then normalization fails with ErrInvalidWeights", func() {
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
		})
	})

	Convey("Given a negative raw weight", t, func() {
		_, err := scoring.Normalize(model.WeightConfig{Ship: -1, Month: 5})

		Convey("Then normalization fails with ErrInvalidWeights", func() {
			So(errors.Is(err, scoring.ErrInvalidWeights), ShouldBeTrue)
		})
	})

	Convey("Given awkward fractional weights", t, func() {
		nw, err := scoring.Normalize(model.WeightConfig{Ship: 1, Month: 1, Port: 1, Theo: 0})
		So(err, ShouldBeNil)

		Convey("Then the sum still lands within 1e-9 of 1", func() {
			So(math.Abs(nw.Sum()-1.0), ShouldBeLessThan, scoring.SumTolerance)
		})
	})
}
