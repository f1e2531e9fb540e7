package schedule

import (
	"fmt"
	"regexp"
	"strconv"
)

// DateMap maps a column index to an ISO date ("YYYY-MM-DD"). An empty entry
// means the column has no resolvable date.
type DateMap []string

// Lookup returns the date for column c and whether one is known.
func (m DateMap) Lookup(c int) (string, bool) {
	if c < 0 || c >= len(m) || m[c] == "" {
		return "", false
	}
	return m[c], true
}

// headerDate is the carry-forward accumulator of the column walk.
type headerDate struct {
	year, month, day int
}

func (d headerDate) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.year, d.month, d.day)
}

type datePatterns struct {
	monthDay *regexp.Regexp
	dayOnly  *regexp.Regexp
}

func newDatePatterns(m Markers) datePatterns {
	return datePatterns{
		monthDay: regexp.MustCompile(`(?:^|\D)(\d{1,2})\s*` + regexp.QuoteMeta(m.Month) + `\s*(\d{1,2})`),
		dayOnly:  regexp.MustCompile(`(?:^|\D)(\d{1,2})\s*` + regexp.QuoteMeta(m.Day)),
	}
}

// MapColumnDates walks the date header row left to right. A "MM월 DD일"
// label sets the current date; columns without a new label inherit it, which
// is how merged header cells spanning several columns are resolved. A bare
// "DD일" label reuses the current month. Columns before the first label map
// to no date.
//
// Months are not range checked: "13월 01일" yields "<year>-13-01".
func MapColumnDates(g Grid, dateRow, year int, m Markers) DateMap {
	p := newDatePatterns(m.withDefaults())

	out := make(DateMap, g.Cols())
	var (
		cur  headerDate
		seen bool
	)
	for c := 0; c < g.Cols(); c++ {
		if next, ok := p.parse(g.At(dateRow, c), cur, seen, year); ok {
			cur, seen = next, true
		}
		if seen {
			out[c] = cur.String()
		}
	}
	return out
}

// parse reads one header cell. ok is false when the cell carries no usable
// date label, in which case the caller keeps the current date.
func (p datePatterns) parse(text string, cur headerDate, seen bool, year int) (headerDate, bool) {
	if sm := p.monthDay.FindStringSubmatch(text); sm != nil {
		month, err1 := strconv.Atoi(sm[1])
		day, err2 := strconv.Atoi(sm[2])
		if err1 != nil || err2 != nil {
			return headerDate{}, false
		}
		return headerDate{year: year, month: month, day: day}, true
	}

	if !seen {
		return headerDate{}, false
	}
	sm := p.dayOnly.FindStringSubmatch(text)
	if sm == nil {
		return headerDate{}, false
	}
	day, err := strconv.Atoi(sm[1])
	if err != nil {
		return headerDate{}, false
	}

	next := headerDate{year: cur.year, month: cur.month, day: day}
	// 07월 30일, 31일, 01일: the week crossed into the next month.
	if day < cur.day {
		next.month++
		if cur.month == 12 {
			next.year++
			next.month = 1
		}
	}
	return next, true
}
