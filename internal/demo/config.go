package demo

import "time"

// Config holds configuration for the demo run
type Config struct {
	BaseURL    string        // Base URL of the service
	NumRows    int           // Number of sailing rows to generate
	NumRuns    int           // Number of recommendation runs to submit
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for the generated dataset
	LogFile    string        // Log file for demo output
	Verbose    bool          // Enable verbose logging
}

// Row mirrors a sailing row in the dataset upload payload
type Row struct {
	Ship  string  `json:"ship"`
	Month int     `json:"month"`
	Port  string  `json:"port"`
	Theo  float64 `json:"theo"`
}

// DatasetUpload is the JSON body for POST /datasets
type DatasetUpload struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// DatasetResponse is the response from a dataset upload
type DatasetResponse struct {
	DatasetID string `json:"dataset_id"`
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
}

// Preferences carries the guest preference lists for a run
type Preferences struct {
	Ships  []string `json:"ships"`
	Months []int    `json:"months"`
	Ports  []string `json:"ports"`
}

// Weights carries the per-factor weights for a run
type Weights struct {
	Ship  float64 `json:"ship"`
	Month float64 `json:"month"`
	Port  float64 `json:"port"`
	Theo  float64 `json:"theo"`
}

// RunRequest is the JSON body for POST /recommendations
type RunRequest struct {
	RequestID   string      `json:"request_id"`
	DatasetID   string      `json:"dataset_id"`
	Preferences Preferences `json:"preferences"`
	Weights     Weights     `json:"weights"`
}

// AckResponse represents the response from run submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	RunID     string `json:"run_id"`
}

// RankedSailing is one scored result row
type RankedSailing struct {
	Rank       int     `json:"rank"`
	MatchScore float64 `json:"match_score"`
	Ship       string  `json:"ship"`
	Month      int     `json:"month"`
	Port       string  `json:"port"`
	Theo       float64 `json:"theo"`
	ShipScore  float64 `json:"ship_score"`
	MonthScore float64 `json:"month_score"`
	PortScore  float64 `json:"port_score"`
	TheoScore  float64 `json:"theo_score"`
}

// RunResponse is the response from GET /recommendations/{run_id}
type RunResponse struct {
	RunID   string          `json:"run_id"`
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Results []RankedSailing `json:"results,omitempty"`
}

// Stats holds demo run statistics
type Stats struct {
	RowsGenerated  int
	RunsSubmitted  int
	RunsAccepted   int
	RunsDuplicate  int
	RunsRejected   int
	RunsCompleted  int
	RunsFailed     int
	RunsVerified   int
	ResultsFetched int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
