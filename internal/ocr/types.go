// Package ocr talks to the CLOVA OCR general endpoint and converts its table
// detection output into schedule cells.
package ocr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"shiftcal/internal/schedule"
)

// ErrNoTable indicates the OCR response contains no detected table.
var ErrNoTable = errors.New("ocr response has no table")

// Response is the subset of a CLOVA OCR V2 response used for table input.
type Response struct {
	Version   string  `json:"version"`
	RequestID string  `json:"requestId"`
	Timestamp int64   `json:"timestamp"`
	Images    []Image `json:"images"`
}

type Image struct {
	UID         string  `json:"uid"`
	Name        string  `json:"name"`
	InferResult string  `json:"inferResult"`
	Message     string  `json:"message"`
	Tables      []Table `json:"tables"`
}

type Table struct {
	InferConfidence float64 `json:"inferConfidence"`
	Cells           []Cell  `json:"cells"`
}

// Cell is one table cell; its text is split into lines of words.
type Cell struct {
	RowIndex      int        `json:"rowIndex"`
	ColumnIndex   int        `json:"columnIndex"`
	RowSpan       int        `json:"rowSpan"`
	ColumnSpan    int        `json:"columnSpan"`
	CellTextLines []TextLine `json:"cellTextLines"`
}

type TextLine struct {
	CellWords []Word `json:"cellWords"`
}

type Word struct {
	InferText       string  `json:"inferText"`
	InferConfidence float64 `json:"inferConfidence"`
}

// Text joins every word of every line with single spaces and trims the result.
func (c Cell) Text() string {
	var words []string
	for _, ln := range c.CellTextLines {
		for _, w := range ln.CellWords {
			words = append(words, w.InferText)
		}
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// Decode reads a CLOVA OCR JSON response.
func Decode(r io.Reader) (*Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}
	return &resp, nil
}

// FirstTable returns the first table of the first image. Only one table per
// photographed schedule is supported.
func (r *Response) FirstTable() (Table, error) {
	if r == nil || len(r.Images) == 0 {
		return Table{}, ErrNoTable
	}
	img := r.Images[0]
	if img.InferResult != "" && img.InferResult != "SUCCESS" {
		return Table{}, fmt.Errorf("ocr infer result %s: %s", img.InferResult, img.Message)
	}
	if len(img.Tables) == 0 {
		return Table{}, ErrNoTable
	}
	return img.Tables[0], nil
}

// GridCells converts the table into schedule cells. Cells with negative
// indices are dropped.
func (t Table) GridCells() []schedule.Cell {
	out := make([]schedule.Cell, 0, len(t.Cells))
	for _, c := range t.Cells {
		if c.RowIndex < 0 || c.ColumnIndex < 0 {
			continue
		}
		out = append(out, schedule.Cell{
			Row:  c.RowIndex,
			Col:  c.ColumnIndex,
			Text: c.Text(),
		})
	}
	return out
}
