package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shiftcal/internal/display"
	"shiftcal/internal/ics"
	"shiftcal/internal/model"
	"shiftcal/internal/sheet"
)

var nowFunc = time.Now

type extractFlags struct {
	input  string
	name   string
	year   int
	sheet  string
	format string
	output string
}

func newExtractCmd(a *app) *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract one employee's shifts from a schedule file",
		Long: `Extract one employee's shifts from a weekly schedule.

The input kind follows the file extension: .json is a CLOVA OCR response,
.xlsx a spreadsheet, .jpg/.jpeg/.png a photo sent through OCR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Schedule file (.json, .xlsx, .jpg, .png)")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Employee name to extract")
	cmd.Flags().IntVar(&f.year, "year", 0, "Year of the header dates (default: config year or current year)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet name for .xlsx input (default: first sheet)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "json", "Output format: json, table, ics, xlsx")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file path (default: stdout)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, f extractFlags) error {
	format := strings.ToLower(f.format)
	switch format {
	case "json", "table", "ics":
	case "xlsx":
		if f.output == "" {
			return errors.New("--output is required for xlsx")
		}
	default:
		return fmt.Errorf("invalid format: %s (must be json, table, ics or xlsx)", f.format)
	}

	if _, err := os.Stat(f.input); err != nil {
		return fmt.Errorf("input: %w", err)
	}

	year := f.year
	if year <= 0 {
		year = a.cfg.EffectiveYear(nowFunc())
	}

	g, err := a.pipe.LoadGrid(cmd.Context(), f.input, f.sheet)
	if err != nil {
		return fmt.Errorf("load %s: %w", f.input, err)
	}
	records, err := a.pipe.Extract(g, f.name, year)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var buf bytes.Buffer
	if err := a.render(&buf, format, f.name, records); err != nil {
		return err
	}

	if f.output != "" {
		if err := os.WriteFile(f.output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func (a *app) render(w io.Writer, format, name string, records []model.ScheduleRecord) error {
	switch format {
	case "table":
		display.PrintRecordsTable(name, records, w)
		return nil
	case "ics":
		body, err := ics.Export(records, ics.ExportOptions{
			Location:     a.cfg.Location(),
			CalendarName: name,
		})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, body)
		return err
	case "xlsx":
		return sheet.WriteRecords(w, records)
	default:
		if records == nil {
			records = []model.ScheduleRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
}
