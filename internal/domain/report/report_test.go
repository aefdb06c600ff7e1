package report_test

import (
	"bytes"
	"strings"
	"testing"

	model "github.com/asierra0203/sail-recs-v1/internal/domain/model"
	report "github.com/asierra0203/sail-recs-v1/internal/domain/report"
	scoring "github.com/asierra0203/sail-recs-v1/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given ranked sailings and their configuration", t, func() {
		scored := []model.ScoredSailing{
			{
				Rank:       1,
				MatchScore: 100,
				Record:     model.SailingRecord{Ship: "A", Month: 1, Port: "X", Theo: 30, Extra: map[string]string{"Sailing Date": "2026-01-03"}},
			},
			{
				Rank:       2,
				MatchScore: 90,
				Record:     model.SailingRecord{Ship: "A", Month: 1, Port: "X", Theo: 10},
			},
		}
		prefs, err := model.NewPreferenceSet([]string{"A"}, []int{1}, []string{"X"})
		So(err, ShouldBeNil)
		weights := model.WeightConfig{Ship: 3, Month: 3, Port: 3, Theo: 1}
		norm, err := scoring.Normalize(weights)
		So(err, ShouldBeNil)

		Convey("When building the report", func() {
			rep := report.Build(scored, prefs, weights, norm)

			Convey("Then the ranked table leads with rank and match score", func() {
				So(rep.Columns[0], ShouldEqual, "Rank")
				So(rep.Columns[1], ShouldEqual, "Match Score")
				So(rep.Columns, ShouldContain, "Sailing Date")
				So(rep.Rows, ShouldHaveLength, 2)
				So(rep.Rows[0][0], ShouldEqual, "1")
				So(rep.Rows[0][1], ShouldEqual, "100.00")
				So(rep.Rows[1][1], ShouldEqual, "90.00")
			})

			Convey("And passthrough cells land under their column", func() {
				dateIdx := -1
				for i, c := range rep.Columns {
					if c == "Sailing Date" {
						dateIdx = i
					}
				}
				So(dateIdx, ShouldBeGreaterThan, 0)
				So(rep.Rows[0][dateIdx], ShouldEqual, "2026-01-03")
				So(rep.Rows[1][dateIdx], ShouldEqual, "")
			})

			Convey("And the summary mirrors the preferences and weights", func() {
				lines := make(map[string]string, len(rep.Summary))
				for _, l := range rep.Summary {
					lines[l.Setting] = l.Value
				}
				So(lines["Ships:"], ShouldEqual, "A")
				So(lines["Months:"], ShouldEqual, "Jan (1)")
				So(lines["Ports:"], ShouldEqual, "X")
				So(lines["Ship Importance:"], ShouldEqual, "30.0%")
				So(lines["Theo Adjustment Importance:"], ShouldEqual, "10.0%")
				So(lines["Ship (Raw):"], ShouldEqual, "3")
			})
		})
	})

	Convey("Given empty preference sets", t, func() {
		weights := model.WeightConfig{Theo: 5}
		norm, err := scoring.Normalize(weights)
		So(err, ShouldBeNil)
		rep := report.Build(nil, model.PreferenceSet{}, weights, norm)

		Convey("Then the summary prints None specified", func() {
			lines := make(map[string]string, len(rep.Summary))
			for _, l := range rep.Summary {
				lines[l.Setting] = l.Value
			}
			So(lines["Ships:"], ShouldEqual, "None specified")
			So(lines["Months:"], ShouldEqual, "None specified")
			So(lines["Ports:"], ShouldEqual, "None specified")
			So(lines["Theo Adjustment Importance:"], ShouldEqual, "100.0%")
		})

		Convey("And the ranked table has no rows", func() {
			So(rep.Rows, ShouldBeEmpty)
		})
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given a built report", t, func() {
		scored := []model.ScoredSailing{
			{Rank: 1, MatchScore: 87.5, Record: model.SailingRecord{Ship: "IC", Month: 7, Port: "MIA", Theo: 2.5}},
		}
		weights := model.WeightConfig{Ship: 1, Month: 1, Port: 1, Theo: 1}
		norm, err := scoring.Normalize(weights)
		So(err, ShouldBeNil)
		rep := report.Build(scored, model.PreferenceSet{}, weights, norm)

		Convey("When rendering CSV", func() {
			var buf bytes.Buffer
			So(rep.WriteCSV(&buf), ShouldBeNil)
			out := buf.String()

			Convey("Then it contains the header, the row, and the summary block", func() {
				So(out, ShouldContainSubstring, "Rank,Match Score,Ship Code,Month,Originating Port,Theo Adjustment")
				So(out, ShouldContainSubstring, "1,87.50,IC,7,MIA,2.5")
				So(out, ShouldContainSubstring, "PREFERENCES:")
				So(out, ShouldContainSubstring, "RAW WEIGHTS (0-10):")
			})

			Convey("And the summary follows the ranked table", func() {
				So(strings.Index(out, "PREFERENCES:"), ShouldBeGreaterThan, strings.Index(out, "MIA"))
			})
		})
	})
}
