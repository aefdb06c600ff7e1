// Package types contains common types used across the application
package types

// RunStatus is the lifecycle state of a recommendation run.
type RunStatus string

// Run lifecycle states.
const (
	RunPending   RunStatus = "pending"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RankedSailing is the read shape returned by recommendation queries.
type RankedSailing struct {
	Rank       int               `json:"rank"`
	MatchScore float64           `json:"match_score"`
	Ship       string            `json:"ship"`
	Month      int               `json:"month"`
	Port       string            `json:"port"`
	Theo       float64           `json:"theo"`
	ShipScore  float64           `json:"ship_score"`
	MonthScore float64           `json:"month_score"`
	PortScore  float64           `json:"port_score"`
	TheoScore  float64           `json:"theo_score"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// NormalizedWeightsView mirrors the normalized weight distribution for
// display alongside ranked results.
type NormalizedWeightsView struct {
	Ship  float64 `json:"ship"`
	Month float64 `json:"month"`
	Port  float64 `json:"port"`
	Theo  float64 `json:"theo"`
}
