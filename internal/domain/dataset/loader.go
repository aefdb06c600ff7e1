// Package dataset loads sailing grids from client uploads and enforces the
// required-field contract before anything reaches the scoring engine.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
)

// Required column headers for CSV uploads. These mirror the master sailings
// grid layout; header matching is case-insensitive.
const (
	ColumnShip  = "Ship Code"
	ColumnMonth = "Month"
	ColumnPort  = "Originating Port"
	ColumnTheo  = "Theo Adjustment"
)

// Row is one uploaded record before validation. Extra carries any
// passthrough columns that are not part of the scoring schema.
type Row struct {
	Ship  string            `json:"ship"`
	Month int               `json:"month"`
	Port  string            `json:"port"`
	Theo  *float64          `json:"theo"`
	Extra map[string]string `json:"extra,omitempty"`
}

// FromRows validates JSON-submitted rows into sailing records. The whole
// dataset fails on the first schema violation.
func FromRows(rows []Row) ([]model.SailingRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	records := make([]model.SailingRecord, len(rows))
	for i, row := range rows {
		switch {
		case strings.TrimSpace(row.Ship) == "":
			return nil, fmt.Errorf("%w: row %d has no ship code", ErrMissingField, i+1)
		case strings.TrimSpace(row.Port) == "":
			return nil, fmt.Errorf("%w: row %d has no originating port", ErrMissingField, i+1)
		case row.Theo == nil:
			return nil, fmt.Errorf("%w: row %d has no theo adjustment", ErrMissingField, i+1)
		case row.Month < 1 || row.Month > 12:
			return nil, fmt.Errorf("%w: row %d month %d out of range 1-12", ErrMalformedValue, i+1, row.Month)
		}
		records[i] = model.SailingRecord{
			Ship:  strings.TrimSpace(row.Ship),
			Month: row.Month,
			Port:  strings.TrimSpace(row.Port),
			Theo:  *row.Theo,
			Extra: row.Extra,
		}
	}
	return records, nil
}

// FromCSV parses a CSV upload with a header row. The four required columns
// must all be present; any additional columns become passthrough fields.
func FromCSV(r io.Reader) ([]model.SailingRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []model.SailingRecord
	for line := 2; ; line++ {
		raw, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rec, err := parseCSVRecord(raw, header, cols, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return records, nil
}

// columnIndexes locates the required columns within a CSV header.
type columnIndexes struct {
	ship, month, port, theo int
}

func mapColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{ship: -1, month: -1, port: -1, theo: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case strings.ToLower(ColumnShip):
			cols.ship = i
		case strings.ToLower(ColumnMonth):
			cols.month = i
		case strings.ToLower(ColumnPort):
			cols.port = i
		case strings.ToLower(ColumnTheo):
			cols.theo = i
		}
	}
	switch {
	case cols.ship < 0:
		return cols, fmt.Errorf("%w: column %q", ErrMissingField, ColumnShip)
	case cols.month < 0:
		return cols, fmt.Errorf("%w: column %q", ErrMissingField, ColumnMonth)
	case cols.port < 0:
		return cols, fmt.Errorf("%w: column %q", ErrMissingField, ColumnPort)
	case cols.theo < 0:
		return cols, fmt.Errorf("%w: column %q", ErrMissingField, ColumnTheo)
	}
	return cols, nil
}

func parseCSVRecord(raw, header []string, cols columnIndexes, line int) (model.SailingRecord, error) {
	cell := func(i int) string {
		if i < len(raw) {
			return strings.TrimSpace(raw[i])
		}
		return ""
	}

	ship := cell(cols.ship)
	port := cell(cols.port)
	if ship == "" {
		return model.SailingRecord{}, fmt.Errorf("%w: line %d has no ship code", ErrMissingField, line)
	}
	if port == "" {
		return model.SailingRecord{}, fmt.Errorf("%w: line %d has no originating port", ErrMissingField, line)
	}

	month, err := strconv.Atoi(cell(cols.month))
	if err != nil {
		return model.SailingRecord{}, fmt.Errorf("%w: line %d month %q is not an integer", ErrMalformedValue, line, cell(cols.month))
	}
	if month < 1 || month > 12 {
		return model.SailingRecord{}, fmt.Errorf("%w: line %d month %d out of range 1-12", ErrMalformedValue, line, month)
	}

	theo, err := strconv.ParseFloat(cell(cols.theo), 64)
	if err != nil {
		return model.SailingRecord{}, fmt.Errorf("%w: line %d theo %q is not numeric", ErrMalformedValue, line, cell(cols.theo))
	}

	var extra map[string]string
	for i, h := range header {
		if i == cols.ship || i == cols.month || i == cols.port || i == cols.theo {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[strings.TrimSpace(h)] = cell(i)
	}

	return model.SailingRecord{Ship: ship, Month: month, Port: port, Theo: theo, Extra: extra}, nil
}
