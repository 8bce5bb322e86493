package registration

import "time"

// MonthWindow returns the half-open calendar-month interval [start, end)
// containing ref, in ref's location. end is the first instant of the next
// month, so December rolls over to January of the following year.
//
// Callers must compute the window once per logical operation and reuse it;
// recomputing "now" mid-operation can straddle a month boundary.
func MonthWindow(ref time.Time) (start, end time.Time) {
	start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end = start.AddDate(0, 1, 0)
	return start, end
}
