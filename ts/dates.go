// Package ts holds helpers for time-series feature tables: date arithmetic
// and holiday calendars loaded from the data warehouse.
package ts

import (
	"fmt"
	"time"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/transformers"
)

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errors.NewValueError("ParseDay", fmt.Sprintf("%q is not a YYYY-MM-DD date", s))
	}
	return d, nil
}

// ExtractYears returns every year from start to end inclusive.
func ExtractYears(start, end time.Time) []int {
	years := []int{}
	for y := start.Year(); y <= end.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// AddRow appends row to t. The row needs one value per column.
func AddRow(t *frame.Table, row []any) (*frame.Table, error) {
	if t == nil {
		return nil, errors.NewValidationError("X", "X is not a Table", nil)
	}
	return t.AppendRow(row)
}

// ClosestSameWeekday moves d one calendar year forward and then up to six
// days further so that the weekday matches d. Feb 29 maps to Feb 28.
func ClosestSameWeekday(d time.Time) time.Time {
	shifted := addYear(d)
	diff := (int(d.Weekday()) - int(shifted.Weekday()) + 7) % 7
	return shifted.AddDate(0, 0, diff)
}

func addYear(d time.Time) time.Time {
	day := d.Day()
	if d.Month() == time.February && day == 29 {
		day = 28
	}
	return time.Date(d.Year()+1, d.Month(), day,
		d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// ExtendHolidaysToNextYear appends a copy of every row with the date in col
// moved by ClosestSameWeekday, then stable-sorts by date. A String date
// column is parsed into a Time column first; null dates stay null.
func ExtendHolidaysToNextYear(t *frame.Table, col string) (*frame.Table, error) {
	if t == nil {
		return nil, errors.NewValidationError("X", "X is not a Table", nil)
	}
	c, ok := t.Column(col)
	if !ok {
		return nil, errors.NewColumnNotFoundError("ExtendHolidaysToNextYear", col)
	}
	dates, err := toDates(c)
	if err != nil {
		return nil, err
	}

	shifted := make([]time.Time, len(dates))
	for i, d := range dates {
		if !d.IsZero() {
			shifted[i] = ClosestSameWeekday(d)
		}
	}

	base, err := t.With(frame.NewTime(col, dates))
	if err != nil {
		return nil, err
	}
	next, err := base.With(frame.NewTime(col, shifted))
	if err != nil {
		return nil, err
	}
	all, err := frame.Concat(base, next)
	if err != nil {
		return nil, err
	}
	return all.SortBy(col)
}

func toDates(c *frame.Column) ([]time.Time, error) {
	switch c.Kind() {
	case frame.Time:
		return c.Times(), nil
	case frame.String:
		out := make([]time.Time, c.Len())
		for i := range out {
			if c.IsNull(i) {
				continue
			}
			d, err := transformers.ParseDate(c.Str(i))
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	default:
		return nil, errors.NewValidationError(c.Name(), "column is not a date", c.Kind().String())
	}
}
