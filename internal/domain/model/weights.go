package model

// WeightConfig holds the raw 0-10 importance values for the four scoring
// factors, exactly as submitted by the caller. Normalization lives in the
// scoring package; this is pure data and immutable once constructed.
type WeightConfig struct {
	Ship  float64 `json:"ship"`
	Month float64 `json:"month"`
	Port  float64 `json:"port"`
	Theo  float64 `json:"theo"`
}

// Sum returns the total of all raw weights.
func (w WeightConfig) Sum() float64 {
	return w.Ship + w.Month + w.Port + w.Theo
}
