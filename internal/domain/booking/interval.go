package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/staybook/service-booking/internal/platform/apperror"
)

// ErrInvalidDate is returned when a stay interval cannot be parsed or is inverted.
var ErrInvalidDate = apperror.New(apperror.KindInvalid, "invalid date range")

const dateLayout = "2006-01-02"

// Interval is a half-open stay [CheckIn, CheckOut) at day granularity in UTC.
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewInterval validates and normalizes a stay interval.
func NewInterval(checkIn, checkOut time.Time) (Interval, error) {
	in := truncateDay(checkIn)
	out := truncateDay(checkOut)
	if in.IsZero() || out.IsZero() {
		return Interval{}, fmt.Errorf("%w: check-in and check-out are required", ErrInvalidDate)
	}
	if !in.Before(out) {
		return Interval{}, fmt.Errorf("%w: check-in must be before check-out", ErrInvalidDate)
	}
	return Interval{CheckIn: in, CheckOut: out}, nil
}

// ParseInterval parses two dates given as YYYY-MM-DD or RFC3339 timestamps.
func ParseInterval(checkIn, checkOut string) (Interval, error) {
	in, err := parseDate(checkIn)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: check-in %q", ErrInvalidDate, checkIn)
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: check-out %q", ErrInvalidDate, checkOut)
	}
	return NewInterval(in, out)
}

// Nights returns the number of nights covered by the interval.
func (i Interval) Nights() int {
	return int(i.CheckOut.Sub(i.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open intervals share at least one instant.
// Intervals that only touch at a boundary do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return other.CheckIn.Before(i.CheckOut) && other.CheckOut.After(i.CheckIn)
}

// String renders the interval as [in, out).
func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.CheckIn.Format(dateLayout), i.CheckOut.Format(dateLayout))
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// truncateDay keeps the calendar date as seen in t's own offset and returns
// midnight UTC of that date.
func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
