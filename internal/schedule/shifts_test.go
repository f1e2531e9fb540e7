package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftcal/internal/model"
)

func TestParseEndToken(t *testing.T) {
	tests := []struct {
		tok  string
		want string
		ok   bool
	}{
		{"17:45", "17:45", true},
		{"9:30", "09:30", true},
		{"13.5", "13:30", true},
		{"13.25", "13:15", true},
		{"9.75", "09:45", true},
		{"13.999", "14:00", true},
		{"18.", "18:00", true},
		{"18", "18:00", true},
		{"7", "07:00", true},
		{"24", "24:00", true},
		{"24:00", "24:00", true},
		{"24:30", "", false},
		{"24.5", "", false},
		{"24:01", "", false},
		{"25", "", false},
		{"123", "", false},
		{"12:3", "", false},
		{"12:30:00", "", false},
		{":", "", false},
		{".5", "", false},
		{"1.2.3", "", false},
		{"13.5:", "", false},
	}

	for _, tt := range tests {
		got, ok := parseEndToken(tt.tok)
		assert.Equal(t, tt.ok, ok, "parseEndToken(%q)", tt.tok)
		assert.Equal(t, tt.want, got, "parseEndToken(%q)", tt.tok)
	}
}

func TestAddHour(t *testing.T) {
	got, ok := addHour("09:00")
	require.True(t, ok)
	assert.Equal(t, "10:00", got)

	got, ok = addHour("9:15")
	require.True(t, ok)
	assert.Equal(t, "10:15", got)

	_, ok = addHour("마감")
	assert.False(t, ok)
}

func singleColumnGrid(start, cell string) (Grid, DateMap, Rows) {
	g := NewGrid([][]string{
		{"날짜", "07월 03일"},
		{"포지션", " 포지션1 "},
		{start, cell},
		{"총 인원", "1"},
	})
	return g, DateMap{"", "2025-07-03"}, Rows{Date: 0, Position: 1, FirstTime: 2, LastTime: 2}
}

func TestExtractShiftsEndTimeNotations(t *testing.T) {
	tests := []struct {
		cell  string
		start string
		end   string
	}{
		{"김지성 13.5", "09:00", "13:30"},
		{"김지성 18", "09:00", "18:00"},
		{"김지성 17:45", "09:00", "17:45"},
		{"김지성", "09:00", "10:00"},
		{"김지성18", "09:00", "18:00"},
		{"박서연 12 / 김지성 15", "09:00", "15:00"},
		{"김지성 (오픈)", "09:00", "10:00"},
		{"김지성 99", "09:00", "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			g, dates, rows := singleColumnGrid(tt.start, tt.cell)
			got := ExtractShifts(g, dates, rows, "김지성")
			require.Len(t, got, 1)
			assert.Equal(t, tt.end, got[0].End)
			assert.Equal(t, tt.start, got[0].Start)
			assert.Equal(t, "포지션1", got[0].Position)
		})
	}
}

// The default end time wraps past midnight without moving the date.
func TestExtractShiftsMidnightWrapKeepsDate(t *testing.T) {
	g, dates, rows := singleColumnGrid("23:30", "김지성")
	got := ExtractShifts(g, dates, rows, "김지성")
	require.Len(t, got, 1)
	assert.Equal(t, model.ScheduleRecord{
		Name:     "김지성",
		Position: "포지션1",
		Date:     "2025-07-03",
		Start:    "23:30",
		End:      "00:30",
	}, got[0])
}

func TestExtractShiftsRejectsHourPastMidnight(t *testing.T) {
	// "24:30" is not a clock time: no end can be derived from it.
	g, dates, rows := singleColumnGrid("24:30", "김지성")
	assert.Empty(t, ExtractShifts(g, dates, rows, "김지성"))

	// An explicit end past 24:00 falls back to start+1h.
	g, dates, rows = singleColumnGrid("22:00", "김지성 24:30")
	got := ExtractShifts(g, dates, rows, "김지성")
	require.Len(t, got, 1)
	assert.Equal(t, "23:00", got[0].End)

	g, dates, rows = singleColumnGrid("22:00", "김지성 24")
	got = ExtractShifts(g, dates, rows, "김지성")
	require.Len(t, got, 1)
	assert.Equal(t, "24:00", got[0].End)
}

func TestExtractShiftsNormalisesStart(t *testing.T) {
	g, dates, rows := singleColumnGrid("9:00", "김지성")
	got := ExtractShifts(g, dates, rows, "김지성")
	require.Len(t, got, 1)
	assert.Equal(t, "09:00", got[0].Start)
	assert.Equal(t, "10:00", got[0].End)
}

func TestExtractShiftsUnvalidatedStartRows(t *testing.T) {
	g := NewGrid([][]string{
		{"날짜", "07월 03일"},
		{"포지션", "포지션1"},
		{"09:00", ""},
		{"마감", "김지성 23"},
		{"야간", "김지성"},
		{"총 인원", "1"},
	})
	dates := DateMap{"", "2025-07-03"}
	rows := Rows{Date: 0, Position: 1, FirstTime: 2, LastTime: 4}

	got := ExtractShifts(g, dates, rows, "김지성")

	// "마감" passes through with its explicit end; "야간" has no end to
	// derive and is dropped.
	require.Len(t, got, 1)
	assert.Equal(t, "마감", got[0].Start)
	assert.Equal(t, "23:00", got[0].End)
}

func TestExtractShiftsSkipsOrphanColumns(t *testing.T) {
	g := NewGrid([][]string{
		{"날짜", "", "07월 04일"},
		{"포지션", "포지션1", "포지션2"},
		{"09:00", "김지성", "김지성"},
		{"총 인원", "1", "1"},
	})
	rows := Rows{Date: 0, Position: 1, FirstTime: 2, LastTime: 2}
	dates := MapColumnDates(g, rows.Date, 2025, DefaultMarkers())

	got := ExtractShifts(g, dates, rows, "김지성")

	require.Len(t, got, 1)
	assert.Equal(t, "2025-07-04", got[0].Date)
	assert.Equal(t, "포지션2", got[0].Position)
}

func TestExtractShiftsOrderAndNoDedup(t *testing.T) {
	g := weekGrid()
	rows, err := ClassifyRows(g, DefaultMarkers())
	require.NoError(t, err)
	dates := MapColumnDates(g, rows.Date, 2025, DefaultMarkers())

	got := ExtractShifts(g, dates, rows, "김지성")

	assert.Equal(t, []model.ScheduleRecord{
		{Name: "김지성", Position: "포지션1", Date: "2025-07-08", Start: "09:00", End: "10:00"},
		{Name: "김지성", Position: "포지션2", Date: "2025-07-08", Start: "10:00", End: "15:30"},
		{Name: "김지성", Position: "포지션1", Date: "2025-07-09", Start: "11:00", End: "17:45"},
	}, got)

	parallel := NewGrid([][]string{
		{"날짜", "07월 08일", ""},
		{"포지션", "포지션1", "포지션2"},
		{"09:00", "김지성", "김지성"},
		{"총 인원", "1", "1"},
	})
	dup := ExtractShifts(parallel, MapColumnDates(parallel, 0, 2025, DefaultMarkers()),
		Rows{Date: 0, Position: 1, FirstTime: 2, LastTime: 2}, "김지성")
	require.Len(t, dup, 2)
	assert.Equal(t, "포지션1", dup[0].Position)
	assert.Equal(t, "포지션2", dup[1].Position)
}

func TestExtractShiftsNameIsCaseSensitiveAndQuoted(t *testing.T) {
	g, dates, rows := singleColumnGrid("09:00", "kim.j 18")
	assert.Empty(t, ExtractShifts(g, dates, rows, "Kim.j"))

	got := ExtractShifts(g, dates, rows, "kim.j")
	require.Len(t, got, 1)
	assert.Equal(t, "18:00", got[0].End)

	g, dates, rows = singleColumnGrid("09:00", "kimXj 18")
	assert.Empty(t, ExtractShifts(g, dates, rows, "kim.j"))
}

func TestExtractShiftsEmptyBand(t *testing.T) {
	g, dates, _ := singleColumnGrid("09:00", "김지성")
	got := ExtractShifts(g, dates, Rows{Date: 0, Position: 1, FirstTime: 2, LastTime: 1}, "김지성")
	assert.Empty(t, got)
}
