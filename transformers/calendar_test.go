package transformers

import (
	"math"
	"testing"
	"time"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateTable() *frame.Table {
	return frame.MustNew(frame.NewString("date", []string{"2022-01-01", "2023-02-28"}))
}

func TestCalendarExtractorLevels(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  map[string][]float64
		order []string
	}{
		{
			name:  "level 0",
			level: 0,
			order: []string{},
		},
		{
			name:  "level 2",
			level: 2,
			order: []string{"year", "month"},
			want: map[string][]float64{
				"year":  {2022, 2023},
				"month": {1, 2},
			},
		},
		{
			name:  "level 5",
			level: 5,
			order: []string{"year", "month", "day", "dayofweek", "dayofyear"},
			want: map[string][]float64{
				"year":      {2022, 2023},
				"month":     {1, 2},
				"day":       {1, 28},
				"dayofweek": {5, 1},
				"dayofyear": {1, 59},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce, err := NewCalendarExtractor("date", WithCalendarLevel(tt.level))
			require.NoError(t, err)

			out, err := ce.FitTransform(dateTable())
			require.NoError(t, err)
			assert.Equal(t, tt.order, out.Columns())
			assert.Equal(t, 2, out.NumRows())
			for name, want := range tt.want {
				requireFloats(t, out, name, want, 0)
			}
		})
	}
}

func TestCalendarExtractorAllFields(t *testing.T) {
	tbl := frame.MustNew(
		frame.NewFloat("sales", []float64{10, 20, 30}),
		frame.NewTime("ds", []time.Time{
			time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			{},
			time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		}),
	)

	ce, err := NewCalendarExtractor("ds")
	require.NoError(t, err)
	out, err := ce.FitTransform(tbl)
	require.NoError(t, err)

	assert.Equal(t, append([]string{"sales"}, CalendarFields...), out.Columns())
	requireFloats(t, out, "weekofyear", []float64{52, math.NaN(), 9}, 0)
	requireFloats(t, out, "dayofweek", []float64{5, math.NaN(), 1}, 0)
	requireFloats(t, out, "sales", []float64{10, 20, 30}, 0)
}

func TestCalendarExtractorErrors(t *testing.T) {
	_, err := NewCalendarExtractor("date", WithCalendarLevel(6))
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = NewCalendarExtractor("")
	assert.Error(t, err)

	ce, err := NewCalendarExtractor("date")
	require.NoError(t, err)
	contractCases(t, ce, dateTable())

	require.NoError(t, ce.Fit(dateTable()))
	_, err = ce.Transform(frame.MustNew(floatCol("other", 1)))
	var nf *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &nf))

	_, err = ce.Transform(frame.MustNew(frame.NewString("date", []string{"not a date"})))
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2023-02-28", "2023-02-28 10:00:00", "2023-02-28T10:00:00", "2023-02-28T10:00:00Z"} {
		d, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 59, d.YearDay(), s)
	}
}
