// Package sheet reads schedule tables from xlsx workbooks and writes
// extracted shifts back out as a workbook.
package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"shiftcal/internal/model"
	"shiftcal/internal/schedule"
)

// RecordsSheet is the sheet name used by WriteRecords.
const RecordsSheet = "Shifts"

var recordHeader = []interface{}{"name", "position", "date", "start", "end"}

// LoadGrid opens path and returns the named sheet as a dense grid. An empty
// sheetName selects the first sheet.
func LoadGrid(path, sheetName string) (schedule.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadGrid(f, sheetName)
}

// ReadGrid reads a sheet of an already opened workbook.
func ReadGrid(f *excelize.File, sheetName string) (schedule.Grid, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	return schedule.NewGrid(rows), nil
}

// WriteRecords writes records as a single-sheet workbook to w: a header row
// followed by one row per record.
func WriteRecords(w io.Writer, records []model.ScheduleRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(RecordsSheet, "A1", &recordHeader); err != nil {
		return err
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{rec.Name, rec.Position, rec.Date, rec.Start, rec.End}
		if err := f.SetSheetRow(RecordsSheet, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
