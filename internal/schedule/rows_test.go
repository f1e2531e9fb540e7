package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekGrid() Grid {
	return NewGrid([][]string{
		{"주간 근무표", "", "", ""},
		{"날짜", "07월 08일", "", "09일"},
		{"포지션", "포지션1", "포지션2", "포지션1"},
		{"9:00", "김지성", "", "박서연"},
		{"10:00", "", "김지성 15.5", ""},
		{"11:00", "박서연 18", "", "김지성 17:45"},
		{"총 인원", "2", "1", "2"},
		{"비고", "", "", ""},
	})
}

func TestClassifyRows(t *testing.T) {
	rows, err := ClassifyRows(weekGrid(), DefaultMarkers())
	require.NoError(t, err)
	assert.Equal(t, Rows{Date: 1, Position: 2, FirstTime: 3, LastTime: 5}, rows)
}

func TestClassifyRowsDeterministic(t *testing.T) {
	g := weekGrid()
	first, err := ClassifyRows(g, Markers{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ClassifyRows(g, Markers{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassifyRowsCustomMarkers(t *testing.T) {
	g := NewGrid([][]string{
		{"Date", "7월 1일"},
		{"Position", "grill"},
		{"08:00", "Alex"},
		{"Total", "1"},
	})
	rows, err := ClassifyRows(g, Markers{Date: "Date", Position: "Position", Total: "Total"})
	require.NoError(t, err)
	assert.Equal(t, Rows{Date: 0, Position: 1, FirstTime: 2, LastTime: 2}, rows)
}

func TestClassifyRowsMissingMarkers(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		marker string
	}{
		{
			name:   "no date row",
			rows:   [][]string{{"포지션", "a"}, {"09:00", "x"}, {"총 인원", "1"}},
			marker: MarkerDate,
		},
		{
			name:   "no position row",
			rows:   [][]string{{"날짜", "07월 03일"}, {"09:00", "x"}, {"총 인원", "1"}},
			marker: MarkerPosition,
		},
		{
			name:   "no time row",
			rows:   [][]string{{"날짜", "07월 03일"}, {"포지션", "a"}, {"아침", "x"}, {"총 인원", "1"}},
			marker: MarkerFirstTime,
		},
		{
			name:   "no total row",
			rows:   [][]string{{"날짜", "07월 03일"}, {"포지션", "a"}, {"09:00", "x"}},
			marker: MarkerTotal,
		},
		{
			name:   "empty grid",
			rows:   nil,
			marker: MarkerDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ClassifyRows(NewGrid(tt.rows), DefaultMarkers())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStructureNotFound))

			var snf *StructureNotFoundError
			require.True(t, errors.As(err, &snf))
			assert.Equal(t, tt.marker, snf.Marker)
		})
	}
}

func TestClassifyRowsTimePatternIsFullMatch(t *testing.T) {
	g := NewGrid([][]string{
		{"날짜", "07월 03일"},
		{"포지션", "a"},
		{"09:00~", "x"},
		{"123:00", "x"},
		{"9:30", "x"},
		{"총 인원", "1"},
	})
	rows, err := ClassifyRows(g, DefaultMarkers())
	require.NoError(t, err)
	assert.Equal(t, 4, rows.FirstTime)
}
