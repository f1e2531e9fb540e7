package ics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
)

const (
	defaultProductID = "-//shiftcal//schedule export//KO"
	uidDomain        = "@shiftcal"
)

// ErrNothingToExport indicates records were given but none could be rendered.
var ErrNothingToExport = errors.New("ics export: no renderable records")

// uidNamespace seeds the name-based event UIDs.
var uidNamespace = uuid.MustParse("6f1c3b7e-2a9d-4f52-9c0e-8d7a1e5b4c21")

// ExportOptions controls how records become calendar events.
type ExportOptions struct {
	// Location is the zone the naive record clock times belong to.
	// If nil, time.Local is used.
	Location *time.Location

	ProductID    string
	CalendarName string

	// Stamp is written as DTSTAMP. If zero, the current time is used.
	Stamp time.Time
}

// Export renders records as an iCalendar document with one VEVENT per
// record. The summary is "name (position)"; start and end are the record
// date plus its clock times in opts.Location.
//
// Records whose date or times cannot be read are logged and skipped. An end
// that wrapped past midnight stays on the record date.
func Export(records []model.ScheduleRecord, opts ExportOptions) (string, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ProductID == "" {
		opts.ProductID = defaultProductID
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(opts.ProductID)
	cal.SetXWRTimezone(opts.Location.String())
	if opts.CalendarName != "" {
		cal.SetXWRCalName(opts.CalendarName)
	}

	added := 0
	for i, rec := range records {
		start, end, err := recordTimes(rec, opts.Location)
		if err != nil {
			appLog.Error("ics export: skipping record", err, "name", rec.Name, "date", rec.Date, "start", rec.Start, "end", rec.End)
			continue
		}

		ev := cal.AddEvent(EventUID(i, rec))
		ev.SetDtStampTime(opts.Stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(rec.Summary())
		if rec.Position != "" {
			ev.SetLocation(rec.Position)
		}
		added++
	}

	if len(records) > 0 && added == 0 {
		return "", ErrNothingToExport
	}

	appLog.Info("ics export completed", "record_count", len(records), "event_count", added, "timezone", opts.Location.String())
	return cal.Serialize(), nil
}

// EventUID is stable for a given record at a given position in the output.
// The index keeps identical parallel shifts distinct.
func EventUID(index int, rec model.ScheduleRecord) string {
	key := strings.Join([]string{strconv.Itoa(index), rec.Name, rec.Position, rec.Date, rec.Start, rec.End}, "\x1f")
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + uidDomain
}

func recordTimes(rec model.ScheduleRecord, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", rec.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date %q: %w", rec.Date, err)
	}
	start, err := atClock(day, rec.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atClock(day, rec.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// atClock places "HH:MM" on day. "24:00" becomes midnight of the next day.
func atClock(day time.Time, clock string) (time.Time, error) {
	hs, ms, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}, errors.New("clock " + strconv.Quote(clock) + " is not HH:MM")
	}
	h, err1 := strconv.Atoi(hs)
	m, err2 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil || h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return time.Time{}, errors.New("clock " + strconv.Quote(clock) + " is not HH:MM")
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}
