package schedule

import (
	"regexp"
	"strings"
)

// Markers are the leading labels (and date unit suffixes) used to find the
// structural rows of a schedule table.
type Markers struct {
	Date     string `yaml:"date" json:"date"`
	Position string `yaml:"position" json:"position"`
	Total    string `yaml:"total" json:"total"`
	// Month and Day are the unit markers inside a date header cell,
	// e.g. "07월 08일".
	Month string `yaml:"month" json:"month"`
	Day   string `yaml:"day" json:"day"`
}

// DefaultMarkers returns the Korean labels used by the stores' schedule sheets.
func DefaultMarkers() Markers {
	return Markers{
		Date:     "날짜",
		Position: "포지션",
		Total:    "총 인원",
		Month:    "월",
		Day:      "일",
	}
}

// withDefaults fills blank fields from DefaultMarkers.
func (m Markers) withDefaults() Markers {
	d := DefaultMarkers()
	if m.Date == "" {
		m.Date = d.Date
	}
	if m.Position == "" {
		m.Position = d.Position
	}
	if m.Total == "" {
		m.Total = d.Total
	}
	if m.Month == "" {
		m.Month = d.Month
	}
	if m.Day == "" {
		m.Day = d.Day
	}
	return m
}

// Rows holds the indices of the structural rows of a schedule table.
// The shift-time band is [FirstTime, LastTime], inclusive.
type Rows struct {
	Date      int
	Position  int
	FirstTime int
	LastTime  int
}

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// ClassifyRows locates the date, position and shift-time rows by the
// content of column 0. Any missing row is a *StructureNotFoundError.
func ClassifyRows(g Grid, m Markers) (Rows, error) {
	m = m.withDefaults()

	dateRow := findRow(g, func(s string) bool { return strings.HasPrefix(s, m.Date) })
	if dateRow < 0 {
		return Rows{}, &StructureNotFoundError{Marker: MarkerDate, Label: m.Date}
	}
	positionRow := findRow(g, func(s string) bool { return strings.HasPrefix(s, m.Position) })
	if positionRow < 0 {
		return Rows{}, &StructureNotFoundError{Marker: MarkerPosition, Label: m.Position}
	}
	firstTimeRow := findRow(g, clockPattern.MatchString)
	if firstTimeRow < 0 {
		return Rows{}, &StructureNotFoundError{Marker: MarkerFirstTime}
	}
	totalRow := findRow(g, func(s string) bool { return strings.HasPrefix(s, m.Total) })
	if totalRow < 0 {
		return Rows{}, &StructureNotFoundError{Marker: MarkerTotal, Label: m.Total}
	}

	return Rows{
		Date:      dateRow,
		Position:  positionRow,
		FirstTime: firstTimeRow,
		LastTime:  totalRow - 1,
	}, nil
}

// findRow returns the first row whose column-0 text satisfies pred, or -1.
func findRow(g Grid, pred func(string) bool) int {
	for r := range g {
		if pred(g.At(r, 0)) {
			return r
		}
	}
	return -1
}
