package model

import "fmt"

// ScheduleRecord is a single shift worked by one employee, as read from a
// weekly schedule table.
//
// Date is an ISO date (YYYY-MM-DD). Start and End are naive local clock
// strings (HH:MM); no time zone is attached until the record is rendered as
// a calendar event.
type ScheduleRecord struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// Summary is the calendar event title for the record, e.g. "김지성 (포지션1)".
func (r ScheduleRecord) Summary() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Position)
}

// StartDateTime returns the local date-time string "YYYY-MM-DDTHH:MM:00".
func (r ScheduleRecord) StartDateTime() string {
	return r.Date + "T" + r.Start + ":00"
}

// EndDateTime returns the local date-time string "YYYY-MM-DDTHH:MM:00".
// The date is always the record date, even when End wrapped past midnight.
func (r ScheduleRecord) EndDateTime() string {
	return r.Date + "T" + r.End + ":00"
}
