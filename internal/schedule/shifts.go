package schedule

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"shiftcal/internal/model"
)

// ExtractShifts scans the shift-time band for cells mentioning name and
// emits one record per match, row-major then column-major. Column 0 of each
// band row is the shift start; the cell may carry an explicit end time right
// after the name ("김지성 13.5", "김지성 18", "김지성 17:45"), otherwise the
// shift lasts one hour.
//
// Cells in columns without a date are dropped. Rows after rows.FirstTime
// are not re-validated: a non-clock start label passes through verbatim if
// the cell has its own end time, and is skipped otherwise.
func ExtractShifts(g Grid, dates DateMap, rows Rows, name string) []model.ScheduleRecord {
	endPattern := regexp.MustCompile(regexp.QuoteMeta(name) + `\s*([\d.:]+)`)

	var out []model.ScheduleRecord
	for r := rows.FirstTime; r <= rows.LastTime; r++ {
		rawStart := g.At(r, 0)
		start := rawStart
		if h, m, ok := parseClock(rawStart); ok {
			start = formatClock(h, m)
		}

		for c := 1; c < g.Cols(); c++ {
			text := g.At(r, c)
			if !strings.Contains(text, name) {
				continue
			}

			end, ok := explicitEnd(endPattern, text)
			if !ok {
				if end, ok = addHour(rawStart); !ok {
					continue
				}
			}

			date, ok := dates.Lookup(c)
			if !ok {
				continue
			}

			out = append(out, model.ScheduleRecord{
				Name:     name,
				Position: strings.TrimSpace(g.At(rows.Position, c)),
				Date:     date,
				Start:    start,
				End:      end,
			})
		}
	}
	return out
}

// explicitEnd returns the end time written after the name, if any.
func explicitEnd(pattern *regexp.Regexp, text string) (string, bool) {
	sm := pattern.FindStringSubmatch(text)
	if sm == nil {
		return "", false
	}
	return parseEndToken(sm[1])
}

// parseEndToken accepts "HH:MM", decimal hours ("13.5" is 13:30) and whole
// hours ("18" is 18:00). Anything else is reported as no end time.
func parseEndToken(tok string) (string, bool) {
	switch {
	case strings.Contains(tok, ":"):
		h, m, ok := parseClock(tok)
		if !ok {
			return "", false
		}
		return formatClock(h, m), true

	case strings.Contains(tok, "."):
		whole, frac, _ := strings.Cut(tok, ".")
		if strings.Contains(frac, ".") {
			return "", false
		}
		h, err := strconv.Atoi(whole)
		if err != nil {
			return "", false
		}
		f := 0.0
		if frac != "" {
			if f, err = strconv.ParseFloat("0."+frac, 64); err != nil {
				return "", false
			}
		}
		m := int(math.Round(f * 60))
		if m == 60 {
			h, m = h+1, 0
		}
		if !validClock(h, m) {
			return "", false
		}
		return formatClock(h, m), true

	default:
		h, err := strconv.Atoi(tok)
		if err != nil || !validClock(h, 0) {
			return "", false
		}
		return formatClock(h, 0), true
	}
}

// addHour returns start + 1h on the clock. Past midnight it wraps
// ("23:30" gives "00:30"); the record keeps its original date.
func addHour(start string) (string, bool) {
	h, m, ok := parseClock(start)
	if !ok {
		return "", false
	}
	t := time.Date(2000, time.January, 1, h, m, 0, 0, time.UTC).Add(time.Hour)
	return t.Format("15:04"), true
}

// parseClock parses "H:MM" or "HH:MM".
func parseClock(s string) (h, m int, ok bool) {
	if !clockPattern.MatchString(s) {
		return 0, 0, false
	}
	hs, ms, _ := strings.Cut(s, ":")
	h, err1 := strconv.Atoi(hs)
	m, err2 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil || !validClock(h, m) {
		return 0, 0, false
	}
	return h, m, true
}

// validClock allows "24:00" so a shift can end at midnight; 24:01 and later
// are rejected.
func validClock(h, m int) bool {
	if m < 0 || m >= 60 {
		return false
	}
	return (h >= 0 && h < 24) || (h == 24 && m == 0)
}

func formatClock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}
