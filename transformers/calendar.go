package transformers

import (
	"fmt"
	"math"
	"time"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
)

// CalendarFields lists the generated fields in generation order.
var CalendarFields = []string{"year", "month", "day", "dayofweek", "dayofyear", "weekofyear"}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// CalendarExtractor replaces a date column with numeric calendar fields.
type CalendarExtractor struct {
	base
	column string
	level  *int
}

// CalendarOption configures a CalendarExtractor.
type CalendarOption func(*CalendarExtractor)

// WithCalendarLevel keeps only the first level fields of CalendarFields.
// Without it all six fields are generated.
func WithCalendarLevel(level int) CalendarOption {
	return func(c *CalendarExtractor) {
		c.level = &level
	}
}

// NewCalendarExtractor creates an extractor for the date column.
func NewCalendarExtractor(column string, opts ...CalendarOption) (*CalendarExtractor, error) {
	if column == "" {
		return nil, errors.NewValidationError("date_col", "date column must be set", column)
	}
	c := &CalendarExtractor{base: newBase("CalendarExtractor"), column: column}
	for _, opt := range opts {
		opt(c)
	}
	if c.level != nil && (*c.level < 0 || *c.level > len(CalendarFields)-1) {
		return nil, errors.NewValidationError("calendar_level", "must be between 0 and 5", *c.level)
	}
	return c, nil
}

// Fit learns nothing; it only records that the extractor may transform.
func (c *CalendarExtractor) Fit(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	c.fitted(t, []string{c.column})
	return nil
}

// Transform drops the date column and appends one Float column per field.
func (c *CalendarExtractor) Transform(t *frame.Table) (*frame.Table, error) {
	if err := c.beginTransform(t); err != nil {
		return nil, err
	}
	col, err := requireColumn(t, "CalendarExtractor.Transform", c.column)
	if err != nil {
		return nil, err
	}
	dates, err := parseDates(col)
	if err != nil {
		return nil, err
	}

	out, err := t.Drop(c.column)
	if err != nil {
		return nil, err
	}
	for _, field := range c.fields() {
		values := make([]float64, len(dates))
		for i, d := range dates {
			if d.IsZero() {
				values[i] = math.NaN()
				continue
			}
			v, err := calendarField(d, field)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		if out, err = out.With(frame.NewFloat(field, values)); err != nil {
			return nil, err
		}
	}

	c.transformed(out)
	return out, nil
}

// FitTransform fits and transforms t.
func (c *CalendarExtractor) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform(c, t)
}

// GetParams returns the configuration.
func (c *CalendarExtractor) GetParams() map[string]interface{} {
	params := map[string]interface{}{"date_col": c.column, "calendar_level": nil}
	if c.level != nil {
		params["calendar_level"] = *c.level
	}
	return params
}

func (c *CalendarExtractor) fields() []string {
	if c.level == nil {
		return CalendarFields
	}
	return CalendarFields[:*c.level]
}

func calendarField(d time.Time, field string) (float64, error) {
	switch field {
	case "year":
		return float64(d.Year()), nil
	case "month":
		return float64(d.Month()), nil
	case "day":
		return float64(d.Day()), nil
	case "dayofweek":
		// Monday is 0
		return float64((int(d.Weekday()) + 6) % 7), nil
	case "dayofyear":
		return float64(d.YearDay()), nil
	case "weekofyear":
		_, week := d.ISOWeek()
		return float64(week), nil
	default:
		return 0, errors.NewValueError("CalendarExtractor", fmt.Sprintf("Unknown parameter %s in what_to_generate", field))
	}
}

// parseDates returns the column as dates; nulls are zero times.
func parseDates(col *frame.Column) ([]time.Time, error) {
	switch col.Kind() {
	case frame.Time:
		return col.Times(), nil
	case frame.String:
		out := make([]time.Time, col.Len())
		for i := range out {
			if col.IsNull(i) {
				continue
			}
			d, err := ParseDate(col.Str(i))
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	default:
		return nil, errors.NewValidationError(col.Name(), "column is not a date", col.Kind().String())
	}
}

// ParseDate parses s as a date in one of the supported layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, errors.NewValueError("ParseDate", fmt.Sprintf("cannot parse %q as a date", s))
}
