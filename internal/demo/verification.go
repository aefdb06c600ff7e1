package demo

import (
	"fmt"
	"log"
)

// verifyResults checks every completed run for ordering and score bounds.
func verifyResults(config *Config, results []RunResponse, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(results) == 0 {
		return fmt.Errorf("no results to verify")
	}

	verified := 0
	for _, run := range results {
		if run.Status != "completed" {
			if config.Verbose {
				log.Printf("⚠️  Skipping run %s with status %s (%s)", run.RunID, run.Status, run.Error)
			}
			continue
		}

		if err := verifyRunOrdering(run); err != nil {
			log.Printf("⚠️  Run %s ordering warning: %v", run.RunID, err)
			continue
		}
		verified++
	}

	stats.RunsVerified = verified

	if verified == 0 {
		return fmt.Errorf("no completed run passed verification")
	}

	displayTopSailings(results, config.Verbose)

	log.Printf("✅ Result verification completed (%d runs verified)", verified)
	return nil
}

// verifyRunOrdering checks rank sequencing, score ordering and score bounds.
func verifyRunOrdering(run RunResponse) error {
	for i, result := range run.Results {
		if result.Rank != i+1 {
			return fmt.Errorf("result %d has rank %d", i, result.Rank)
		}

		if result.MatchScore < 0 || result.MatchScore > 100 {
			return fmt.Errorf("result %d has match score %.3f outside [0, 100]", i, result.MatchScore)
		}

		for _, factor := range []float64{result.ShipScore, result.MonthScore, result.PortScore, result.TheoScore} {
			if factor < 0 || factor > 1 {
				return fmt.Errorf("result %d has factor score %.3f outside [0, 1]", i, factor)
			}
		}

		if i > 0 && result.MatchScore > run.Results[i-1].MatchScore {
			return fmt.Errorf("results not sorted: entry %d scores higher than entry %d", i, i-1)
		}
	}

	return nil
}

// displayTopSailings shows the best-matching sailings from the first completed run.
func displayTopSailings(results []RunResponse, verbose bool) {
	var run *RunResponse
	for i := range results {
		if results[i].Status == "completed" && len(results[i].Results) > 0 {
			run = &results[i]
			break
		}
	}
	if run == nil {
		return
	}

	topN := 10
	if len(run.Results) < topN {
		topN = len(run.Results)
	}

	log.Printf("🏆 Top %d sailings from run %s:", topN, run.RunID)
	for i := 0; i < topN; i++ {
		result := run.Results[i]
		log.Printf("   %d. %s month %d ex %s - Match: %.2f (theo %.2f)",
			result.Rank, result.Ship, result.Month, result.Port, result.MatchScore, result.Theo)
	}

	if verbose {
		avgScore := calculateAverageScore(run.Results)
		maxScore := run.Results[0].MatchScore
		minScore := run.Results[len(run.Results)-1].MatchScore

		log.Printf(`📊 Match score statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, avgScore, maxScore, minScore)
	}
}

// calculateAverageScore calculates the average match score of a result set.
func calculateAverageScore(results []RankedSailing) float64 {
	if len(results) == 0 {
		return 0
	}

	sum := 0.0
	for _, result := range results {
		sum += result.MatchScore
	}

	return sum / float64(len(results))
}
