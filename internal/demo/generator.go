package demo

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/asierra0203/sail-recs-v1/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	theoProfileDivisor = 6
	monthCount         = 12
)

// Constants for theo adjustment generation ranges.
const (
	neutralTheoMin    = -0.5
	neutralTheoRange  = 1.0
	highValueTheoMin  = 2.0
	highValueRange    = 3.0
	lowValueTheoMin   = -3.0
	lowValueRange     = 1.5
	modestTheoMin     = 0.5
	modestTheoRange   = 1.0
	discountTheoMin   = -1.5
	discountTheoRange = 1.0
	wideTheoMin       = -3.0
	wideTheoRange     = 8.0
)

// Constants for theo profile cases.
const (
	caseNeutralSailing   = 0
	caseHighValueSailing = 1
	caseLowValueSailing  = 2
	caseModestSailing    = 3
	caseDiscountSailing  = 4
	caseWideRangeSailing = 5
)

// Ship codes and originating ports used for generated itineraries.
var (
	shipCodes = []string{"IC", "OA", "AL", "HM", "SY", "WN", "QN", "EP"}
	portCodes = []string{"MIA", "PCN", "FLL", "GAL", "BCN", "CIV", "SJU", "TPA"}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomIndex returns a random index in [0, limit).
func getRandomIndex(limit int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	return int(n.Int64())
}

// generateRows creates the specified number of sailing rows.
func generateRows(ctx context.Context, config *Config, stats *Stats) ([]Row, error) {
	logger.Get().Info(ctx, "generating sailing rows", logger.Int("numRows", config.NumRows))

	rows := make([]Row, config.NumRows)

	type rowResult struct {
		index int
		row   Row
		err   error
	}

	resultChan := make(chan rowResult, config.NumRows)

	// Use worker pool for row generation
	workerCount := minInt(config.Workers, config.NumRows)
	rowsPerWorker := config.NumRows / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * rowsPerWorker
		end := start + rowsPerWorker
		if worker == workerCount-1 {
			end = config.NumRows // Last worker gets remaining rows
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- rowResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- rowResult{index: i, row: generateSingleRow(), err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumRows; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during row generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate row %d: %w", result.index, result.err)
			}
			rows[result.index] = result.row
		}
	}

	stats.RowsGenerated = len(rows)
	logger.Get().Info(ctx, "generated sailing rows successfully", logger.Int("count", len(rows)))

	return rows, nil
}

// generateSingleRow creates a single sailing row with a varied theo profile.
func generateSingleRow() Row {
	return Row{
		Ship:  shipCodes[getRandomIndex(len(shipCodes))],
		Month: 1 + getRandomIndex(monthCount),
		Port:  portCodes[getRandomIndex(len(portCodes))],
		Theo:  generateVariedTheo(),
	}
}

// generateVariedTheo creates a theo adjustment with varied distribution.
func generateVariedTheo() float64 {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(theoProfileDivisor))
	switch randNum.Int64() {
	case caseNeutralSailing:
		// Neutral sailings (-0.5 - 0.5) - most common
		return neutralTheoMin + getRandomFloat()*neutralTheoRange
	case caseHighValueSailing:
		// High-value sailings (2.0 - 5.0)
		return highValueTheoMin + getRandomFloat()*highValueRange
	case caseLowValueSailing:
		// Low-value sailings (-3.0 - -1.5)
		return lowValueTheoMin + getRandomFloat()*lowValueRange
	case caseModestSailing:
		// Modest uplift (0.5 - 1.5)
		return modestTheoMin + getRandomFloat()*modestTheoRange
	case caseDiscountSailing:
		// Discounted sailings (-1.5 - -0.5)
		return discountTheoMin + getRandomFloat()*discountTheoRange
	case caseWideRangeSailing:
		// Random across full range (-3.0 - 5.0)
		return wideTheoMin + getRandomFloat()*wideTheoRange
	default:
		return wideTheoMin + getRandomFloat()*wideTheoRange
	}
}

// generateRunRequests creates recommendation requests with random
// preference subsets over the generated ship and port pools.
func generateRunRequests(ctx context.Context, config *Config, datasetID string) []RunRequest {
	requests := make([]RunRequest, config.NumRuns)
	for i := range requests {
		requests[i] = RunRequest{
			RequestID:   uuid.New().String(),
			DatasetID:   datasetID,
			Preferences: generatePreferences(),
			Weights:     generateWeights(),
		}
	}

	logger.Get().Info(ctx, "generated recommendation requests", logger.Int("count", len(requests)))
	return requests
}

// generatePreferences picks a random subset of ships, months and ports.
func generatePreferences() Preferences {
	ships := pickStrings(shipCodes, 1+getRandomIndex(3))
	ports := pickStrings(portCodes, 1+getRandomIndex(3))

	months := make([]int, 0, 2)
	seen := make(map[int]bool)
	for len(months) < 1+getRandomIndex(2) {
		m := 1 + getRandomIndex(monthCount)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}

	return Preferences{Ships: ships, Months: months, Ports: ports}
}

// generateWeights produces non-negative weights with at least one positive.
func generateWeights() Weights {
	w := Weights{
		Ship:  float64(getRandomIndex(5)),
		Month: float64(getRandomIndex(5)),
		Port:  float64(getRandomIndex(5)),
		Theo:  float64(getRandomIndex(3)),
	}
	if w.Ship+w.Month+w.Port+w.Theo == 0 {
		w.Ship = 1
	}
	return w
}

// pickStrings selects n distinct values from the pool.
func pickStrings(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}

	picked := make([]string, 0, n)
	seen := make(map[string]bool)
	for len(picked) < n {
		v := pool[getRandomIndex(len(pool))]
		if !seen[v] {
			seen[v] = true
			picked = append(picked, v)
		}
	}
	return picked
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
