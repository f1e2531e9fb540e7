// Package pipeline turns an input file (OCR response, workbook or photo)
// into a schedule grid and runs extraction on it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
	"shiftcal/internal/ocr"
	"shiftcal/internal/schedule"
	"shiftcal/internal/sheet"
)

// ErrUnsupportedInput indicates a file extension no loader handles.
var ErrUnsupportedInput = errors.New("unsupported input type")

// Kind is the type of an input file.
type Kind string

const (
	KindOCR      Kind = "ocr"
	KindWorkbook Kind = "xlsx"
	KindImage    Kind = "image"
)

// KindOf classifies a path by extension.
func KindOf(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return KindOCR, nil
	case ".xlsx":
		return KindWorkbook, nil
	case ".jpg", ".jpeg", ".png":
		return KindImage, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Base(path))
	}
}

// Pipeline holds what every extraction shares.
type Pipeline struct {
	// OCR is used for image input; it may be nil when only OCR JSON and
	// workbooks are processed.
	OCR     *ocr.Client
	Markers schedule.Markers
}

// GridFromOCR reconstructs the first table of an OCR response.
func GridFromOCR(resp *ocr.Response) (schedule.Grid, error) {
	table, err := resp.FirstTable()
	if err != nil {
		return nil, err
	}
	return schedule.BuildGrid(table.GridCells()), nil
}

// GridFromImage sends a photo through OCR and reconstructs its table.
func (p *Pipeline) GridFromImage(ctx context.Context, image []byte, format string) (schedule.Grid, error) {
	if !p.OCR.Configured() {
		return nil, ocr.ErrNotConfigured
	}
	resp, err := p.OCR.Recognize(ctx, image, format)
	if err != nil {
		return nil, err
	}
	return GridFromOCR(resp)
}

// LoadGrid reads path according to its extension. sheetName only applies
// to workbooks.
func (p *Pipeline) LoadGrid(ctx context.Context, path, sheetName string) (schedule.Grid, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindWorkbook:
		return sheet.LoadGrid(path, sheetName)
	case KindOCR:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		resp, err := ocr.Decode(f)
		if err != nil {
			return nil, err
		}
		return GridFromOCR(resp)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return p.GridFromImage(ctx, data, filepath.Ext(path))
	}
}

// Extract runs shift extraction for one name on a loaded grid.
func (p *Pipeline) Extract(g schedule.Grid, name string, year int) ([]model.ScheduleRecord, error) {
	records, err := schedule.ExtractGrid(g, schedule.Options{
		Name:    name,
		Year:    year,
		Markers: p.Markers,
	})
	if err != nil {
		return nil, err
	}
	appLog.Info("shifts extracted", "name", name, "year", year, "count", len(records))
	return records, nil
}
