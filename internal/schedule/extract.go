// Package schedule extracts one employee's shifts from a weekly schedule
// table that has been digitized into cells by an OCR service.
//
// The pipeline is BuildGrid -> ClassifyRows -> MapColumnDates ->
// ExtractShifts. Every stage is a pure function of its inputs, so Extract
// is safe to call concurrently for independent tables.
package schedule

import (
	"fmt"
	"strings"

	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
)

// Options configures a single extraction.
type Options struct {
	// Name is the employee to look for (exact, case-sensitive substring).
	Name string
	// Year is used for header dates, which carry only month and day.
	Year int
	// Markers overrides the row labels; blank fields use DefaultMarkers.
	Markers Markers
}

// Extract reconstructs the table from OCR cells and returns the shifts
// worked by opts.Name. Structural problems abort with an error wrapping
// ErrStructureNotFound and no records.
func Extract(cells []Cell, opts Options) ([]model.ScheduleRecord, error) {
	return ExtractGrid(BuildGrid(cells), opts)
}

// ExtractGrid is Extract for a table that is already dense, e.g. one read
// from a spreadsheet.
func ExtractGrid(g Grid, opts Options) ([]model.ScheduleRecord, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, ErrEmptyName
	}

	rows, err := ClassifyRows(g, opts.Markers)
	if err != nil {
		return nil, err
	}
	dates := MapColumnDates(g, rows.Date, opts.Year, opts.Markers)
	records := ExtractShifts(g, dates, rows, opts.Name)

	appLog.Debug("schedule extraction completed",
		"name", opts.Name,
		"year", opts.Year,
		"grid", fmt.Sprintf("%dx%d", g.Rows(), g.Cols()),
		"band", fmt.Sprintf("%d..%d", rows.FirstTime, rows.LastTime),
		"record_count", len(records),
	)
	return records, nil
}
