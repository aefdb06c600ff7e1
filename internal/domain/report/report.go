// Package report assembles the exportable recommendation report: the ranked
// table plus a human-readable preferences/weights summary. It only
// serializes scores computed elsewhere.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
	"github.com/asierra0203/sail-recs-v1/internal/domain/scoring"
)

// Base columns of the ranked table; passthrough columns follow.
var baseColumns = []string{"Rank", "Match Score", "Ship Code", "Month", "Originating Port", "Theo Adjustment"}

// Short month names indexed by month-1, used in the summary.
var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// SummaryLine is one setting/value pair of the preferences & weights summary.
type SummaryLine struct {
	Setting string `json:"setting"`
	Value   string `json:"value"`
}

// Report is the serialized recommendation output handed to an exporter.
type Report struct {
	Columns []string      `json:"columns"`
	Rows    [][]string    `json:"rows"`
	Summary []SummaryLine `json:"summary"`
}

// Build assembles a report from ranked sailings and the configuration that
// produced them. The ranked order of scored is preserved as-is.
func Build(scored []model.ScoredSailing, prefs model.PreferenceSet, weights model.WeightConfig, norm scoring.NormalizedWeights) Report {
	columns := append([]string(nil), baseColumns...)
	extras := extraColumns(scored)
	columns = append(columns, extras...)

	rows := make([][]string, len(scored))
	for i, s := range scored {
		row := []string{
			strconv.Itoa(s.Rank),
			fmt.Sprintf("%.2f", s.MatchScore),
			s.Record.Ship,
			strconv.Itoa(s.Record.Month),
			s.Record.Port,
			formatFloat(s.Record.Theo),
		}
		for _, col := range extras {
			row = append(row, s.Record.Extra[col])
		}
		rows[i] = row
	}

	return Report{
		Columns: columns,
		Rows:    rows,
		Summary: buildSummary(prefs, weights, norm),
	}
}

// WriteCSV renders the ranked table followed by the summary block. Any
// file-format packaging beyond CSV is the caller's concern.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, row := range r.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	// Blank row separates the ranked table from the summary block.
	if err := cw.Write([]string{}); err != nil {
		return fmt.Errorf("write report separator: %w", err)
	}
	for _, line := range r.Summary {
		if err := cw.Write([]string{line.Setting, line.Value}); err != nil {
			return fmt.Errorf("write report summary: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// extraColumns collects passthrough column names across the dataset, sorted
// for a stable header.
func extraColumns(scored []model.ScoredSailing) []string {
	seen := make(map[string]struct{})
	for _, s := range scored {
		for k := range s.Record.Extra {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func buildSummary(prefs model.PreferenceSet, weights model.WeightConfig, norm scoring.NormalizedWeights) []SummaryLine {
	return []SummaryLine{
		{Setting: "PREFERENCES:", Value: ""},
		{Setting: "Ships:", Value: joinOrNone(prefs.Ships())},
		{Setting: "Months:", Value: monthsOrNone(prefs.Months())},
		{Setting: "Ports:", Value: joinOrNone(prefs.Ports())},
		{Setting: "", Value: ""},
		{Setting: "WEIGHTS:", Value: ""},
		{Setting: "Ship Importance:", Value: percent(norm.Ship)},
		{Setting: "Month Importance:", Value: percent(norm.Month)},
		{Setting: "Port Importance:", Value: percent(norm.Port)},
		{Setting: "Theo Adjustment Importance:", Value: percent(norm.Theo)},
		{Setting: "", Value: ""},
		{Setting: "RAW WEIGHTS (0-10):", Value: ""},
		{Setting: "Ship (Raw):", Value: formatFloat(weights.Ship)},
		{Setting: "Month (Raw):", Value: formatFloat(weights.Month)},
		{Setting: "Port (Raw):", Value: formatFloat(weights.Port)},
		{Setting: "Theo (Raw):", Value: formatFloat(weights.Theo)},
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None specified"
	}
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out
}

func monthsOrNone(months []int) string {
	if len(months) == 0 {
		return "None specified"
	}
	out := ""
	for i, m := range months {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s (%d)", monthNames[m-1], m)
	}
	return out
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
