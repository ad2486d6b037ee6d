package format

import "time"

const (
	dateLayout    = "Jan 2, 2006"
	meetingLayout = "Monday, 2 January 2006 at 03:04 pm"
)

// Dates formats instants in a fixed display location.
type Dates struct {
	loc *time.Location
}

func NewDates(loc *time.Location) Dates {
	if loc == nil {
		loc = time.UTC
	}
	return Dates{loc: loc}
}

// Date renders t as e.g. "Mar 5, 2024", or "N/A" when absent.
func (d Dates) Date(t *time.Time) string {
	if t == nil {
		return na
	}
	return t.In(d.loc).Format(dateLayout)
}

// MeetingTime renders t as e.g. "Tuesday, 5 March 2024 at 02:30 pm", or
// "N/A" when absent.
func (d Dates) MeetingTime(t *time.Time) string {
	if t == nil {
		return na
	}
	return t.In(d.loc).Format(meetingLayout)
}

func (d Dates) Location() *time.Location {
	return d.loc
}
