package scoring

import (
	"fmt"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
)

// NormalizedWeights is the probability-like form of a WeightConfig: four
// values in [0,1] summing to 1 within SumTolerance.
type NormalizedWeights struct {
	Ship  float64
	Month float64
	Port  float64
	Theo  float64
}

// SumTolerance is the allowed floating-point drift on the normalized sum.
const SumTolerance = 1e-9

// Normalize converts raw importance values into a distribution summing to 1.
// It fails with ErrInvalidWeights when every raw weight is zero or any raw
// weight is negative; no scoring may proceed from such a configuration.
func Normalize(w model.WeightConfig) (NormalizedWeights, error) {
	for _, v := range []float64{w.Ship, w.Month, w.Port, w.Theo} {
		if v < 0 {
			return NormalizedWeights{}, fmt.Errorf("%w: negative raw weight %v", ErrInvalidWeights, v)
		}
	}
	total := w.Sum()
	if total == 0 {
		return NormalizedWeights{}, fmt.Errorf("%w: all raw weights are zero", ErrInvalidWeights)
	}
	return NormalizedWeights{
		Ship:  w.Ship / total,
		Month: w.Month / total,
		Port:  w.Port / total,
		Theo:  w.Theo / total,
	}, nil
}

// Sum returns the total of the normalized weights.
func (n NormalizedWeights) Sum() float64 {
	return n.Ship + n.Month + n.Port + n.Theo
}
