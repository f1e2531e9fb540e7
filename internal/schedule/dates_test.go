package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lookupAll(m DateMap) map[int]string {
	out := make(map[int]string, len(m))
	for c := range m {
		if d, ok := m.Lookup(c); ok {
			out[c] = d
		}
	}
	return out
}

func TestMapColumnDatesPropagatesMergedHeaders(t *testing.T) {
	g := NewGrid([][]string{{"날짜", "07월 08일", "", "09일", "10일"}})

	m := MapColumnDates(g, 0, 2025, DefaultMarkers())

	assert.Len(t, m, 5)
	_, ok := m.Lookup(0)
	assert.False(t, ok)
	assert.Equal(t, map[int]string{
		1: "2025-07-08",
		2: "2025-07-08",
		3: "2025-07-09",
		4: "2025-07-10",
	}, lookupAll(m))
}

func TestMapColumnDates(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		year   int
		want   map[int]string
	}{
		{
			name:   "month and day in every column",
			header: []string{"날짜", "7월3일", "7 월 4 일(금)"},
			year:   2025,
			want:   map[int]string{1: "2025-07-03", 2: "2025-07-04"},
		},
		{
			name:   "leading columns without a label",
			header: []string{"날짜", "", "메모", "12월 30일", ""},
			year:   2024,
			want:   map[int]string{3: "2024-12-30", 4: "2024-12-30"},
		},
		{
			name:   "day only before any month is ignored",
			header: []string{"날짜", "08일", "07월 09일"},
			year:   2025,
			want:   map[int]string{2: "2025-07-09"},
		},
		{
			name:   "day only rolls into next month",
			header: []string{"날짜", "07월 30일", "31일", "01일"},
			year:   2025,
			want:   map[int]string{1: "2025-07-30", 2: "2025-07-31", 3: "2025-08-01"},
		},
		{
			name:   "day only rolls into next year",
			header: []string{"날짜", "12월 31일", "1일"},
			year:   2025,
			want:   map[int]string{1: "2025-12-31", 2: "2026-01-01"},
		},
		{
			name:   "month is not range checked",
			header: []string{"날짜", "13월 01일"},
			year:   2025,
			want:   map[int]string{1: "2025-13-01"},
		},
		{
			name:   "day digits must not run into other digits",
			header: []string{"날짜", "07월 08일", "123일", "09일"},
			year:   2025,
			want:   map[int]string{1: "2025-07-08", 2: "2025-07-08", 3: "2025-07-09"},
		},
		{
			name:   "month digits must not run into other digits",
			header: []string{"날짜", "107월 08일", "07월 09일"},
			year:   2025,
			want:   map[int]string{2: "2025-07-09"},
		},
		{
			name:   "no labels at all",
			header: []string{"날짜", "월", "화"},
			year:   2025,
			want:   map[int]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid([][]string{tt.header})
			m := MapColumnDates(g, 0, tt.year, DefaultMarkers())
			assert.Len(t, m, len(tt.header))
			assert.Equal(t, tt.want, lookupAll(m))
		})
	}
}

func TestMapColumnDatesCustomUnits(t *testing.T) {
	g := NewGrid([][]string{{"Date", "7/ 8", "9d"}})
	m := MapColumnDates(g, 0, 2025, Markers{Month: "/", Day: "d"})
	assert.Equal(t, map[int]string{1: "2025-07-08", 2: "2025-07-09"}, lookupAll(m))
}

func TestDateMapLookupOutOfRange(t *testing.T) {
	m := DateMap{"", "2025-07-03"}
	_, ok := m.Lookup(-1)
	assert.False(t, ok)
	_, ok = m.Lookup(2)
	assert.False(t, ok)
	d, ok := m.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "2025-07-03", d)
}
