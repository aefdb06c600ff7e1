// Package model contains domain models passed between layers.
package model

import "time"

// SailingRecord is one row of an uploaded sailings grid. Records are
// immutable once loaded; identity is the row position in input order.
type SailingRecord struct {
	Ship  string            // ship code, e.g. "IC"
	Month int               // sailing month, 1-12
	Port  string            // originating port code, e.g. "MIA"
	Theo  float64           // theo adjustment (profitability indicator)
	Extra map[string]string // passthrough columns, preserved in reports
}

// ScoredSailing pairs a record with its factor scores and final match score.
// Scores are attached here, never written back onto the source record.
type ScoredSailing struct {
	Record SailingRecord

	// Factor scores, each in [0,1].
	ShipScore  float64
	MonthScore float64
	PortScore  float64
	TheoScore  float64

	// MatchScore is the weighted aggregate in [0,100].
	MatchScore float64

	// Rank is the 1-based position after the descending stable sort.
	Rank int
}

// Dataset is an uploaded sailings grid held by the repository.
type Dataset struct {
	ID         string
	Name       string
	Records    []SailingRecord
	UploadedAt time.Time
}

// RunRequest is the payload flowing through the run queue. One request
// produces exactly one scoring run over a stored dataset.
type RunRequest struct {
	RunID     string
	DatasetID string
	Prefs     PreferenceSet
	Weights   WeightConfig
}
