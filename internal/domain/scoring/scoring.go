// Package scoring computes deterministic match scores for sailing records.
//
// Four independent factor scorers (ship, month, port, theo) each map a
// record to [0,1]; the aggregator combines them with normalized weights
// into a 0-100 match score and ranks the dataset with a stable descending
// sort. Scoring is pure: the same inputs always yield the same output.
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
)

// maxScoreValue is the upper bound of the aggregate match score.
const maxScoreValue = 100

// neutralTheoScore is used for every record when the dataset's theo range
// is degenerate (max == min); avoids division by zero.
const neutralTheoScore = 0.5

// Engine computes ranked scores for a dataset. The implementation must be
// deterministic and safe to re-invoke on the same inputs.
type Engine interface {
	// Score returns one ScoredSailing per input record, ranked by
	// descending match score, honoring ctx for cancellation.
	Score(ctx context.Context, records []model.SailingRecord, prefs model.PreferenceSet, weights model.WeightConfig) ([]model.ScoredSailing, error)
}

// WeightedEngine implements Engine with the weighted-factor model.
type WeightedEngine struct{}

// NewWeightedEngine creates the default scoring engine.
func NewWeightedEngine() *WeightedEngine {
	return &WeightedEngine{}
}

// ShipScore is 1.0 when the record's ship is preferred or no ship
// preference was given; 0.0 otherwise. Binary match, no partial credit.
func ShipScore(r model.SailingRecord, p model.PreferenceSet) float64 {
	if !p.HasShipPrefs() || p.WantsShip(r.Ship) {
		return 1.0
	}
	return 0.0
}

// MonthScore is the binary month-preference match.
func MonthScore(r model.SailingRecord, p model.PreferenceSet) float64 {
	if !p.HasMonthPrefs() || p.WantsMonth(r.Month) {
		return 1.0
	}
	return 0.0
}

// PortScore is the binary port-preference match.
func PortScore(r model.SailingRecord, p model.PreferenceSet) float64 {
	if !p.HasPortPrefs() || p.WantsPort(r.Port) {
		return 1.0
	}
	return 0.0
}

// TheoRange holds the dataset-wide min/max of the theo adjustment field,
// computed once per scoring call.
type TheoRange struct {
	Min float64
	Max float64
}

// TheoRangeOf scans the dataset for the theo min/max. The zero TheoRange
// is returned for an empty dataset.
func TheoRangeOf(records []model.SailingRecord) TheoRange {
	if len(records) == 0 {
		return TheoRange{}
	}
	tr := TheoRange{Min: records[0].Theo, Max: records[0].Theo}
	for _, r := range records[1:] {
		tr.Min = math.Min(tr.Min, r.Theo)
		tr.Max = math.Max(tr.Max, r.Theo)
	}
	return tr
}

// Score min-max normalizes v against the range, clamped to [0,1]. A
// degenerate range scores every value as neutral 0.5.
func (tr TheoRange) Score(v float64) float64 {
	if tr.Max == tr.Min {
		return neutralTheoScore
	}
	s := (v - tr.Min) / (tr.Max - tr.Min)
	return math.Max(0, math.Min(1, s))
}

// Score implements Engine. The output always has the same length as the
// input; an empty dataset yields an empty result without error.
func (e *WeightedEngine) Score(ctx context.Context, records []model.SailingRecord, prefs model.PreferenceSet, weights model.WeightConfig) ([]model.ScoredSailing, error) {
	// Reject bad weight configurations before any scoring work.
	nw, err := Normalize(weights)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}

	scored := make([]model.ScoredSailing, len(records))
	theoRange := TheoRangeOf(records)

	for i, r := range records {
		s := model.ScoredSailing{
			Record:     r,
			ShipScore:  ShipScore(r, prefs),
			MonthScore: MonthScore(r, prefs),
			PortScore:  PortScore(r, prefs),
			TheoScore:  theoRange.Score(r.Theo),
		}
		s.MatchScore = maxScoreValue * (nw.Ship*s.ShipScore +
			nw.Month*s.MonthScore +
			nw.Port*s.PortScore +
			nw.Theo*s.TheoScore)
		scored[i] = s
	}

	// Stable sort keeps original input order for equal match scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}

	return scored, nil
}
