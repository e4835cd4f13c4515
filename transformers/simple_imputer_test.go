package transformers

import (
	"math"
	"testing"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imputerTable() *frame.Table {
	return frame.MustNew(
		floatCol("a", 1, math.NaN(), 3, 3),
		floatCol("b", math.NaN(), 10, 20, 60),
		frame.NewStringWithNulls("c", []string{"x", "", "y", "y"}, []bool{false, true, false, false}),
	)
}

func TestSimpleImputerPickerStrategies(t *testing.T) {
	tests := []struct {
		name   string
		opts   []ImputerOption
		wantA  []float64
		wantB  []float64
		wantC1 string
	}{
		{
			name: "constant groups",
			opts: []ImputerOption{
				WithStrategy(ImputeConstant),
				WithConstantGroups(
					ConstantGroup{Columns: []string{"a", "b", "absent"}, FillValue: 0},
					ConstantGroup{Columns: []string{"c"}, FillValue: "unknown"},
				),
			},
			wantA:  []float64{1, 0, 3, 3},
			wantB:  []float64{0, 10, 20, 60},
			wantC1: "unknown",
		},
		{
			name:   "max",
			opts:   []ImputerOption{WithStrategy(ImputeMax)},
			wantA:  []float64{1, 3, 3, 3},
			wantB:  []float64{60, 10, 20, 60},
			wantC1: "y",
		},
		{
			name:   "mean",
			opts:   []ImputerOption{WithStrategy(ImputeMean), WithImputeColumns("a", "b")},
			wantA:  []float64{1, 7.0 / 3.0, 3, 3},
			wantB:  []float64{30, 10, 20, 60},
			wantC1: "",
		},
		{
			name:   "median",
			opts:   []ImputerOption{WithStrategy(ImputeMedian), WithImputeColumns("a", "b")},
			wantA:  []float64{1, 3, 3, 3},
			wantB:  []float64{20, 10, 20, 60},
			wantC1: "",
		},
		{
			name:   "most frequent",
			opts:   []ImputerOption{WithStrategy(ImputeMostFrequent)},
			wantA:  []float64{1, 3, 3, 3},
			wantB:  []float64{10, 10, 20, 60},
			wantC1: "y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp, err := NewSimpleImputerPicker(tt.opts...)
			require.NoError(t, err)

			out, err := imp.FitTransform(imputerTable())
			require.NoError(t, err)
			requireFloats(t, out, "a", tt.wantA, 1e-9)
			requireFloats(t, out, "b", tt.wantB, 1e-9)

			c, _ := out.Column("c")
			if tt.wantC1 == "" {
				assert.True(t, c.IsNull(1))
			} else {
				assert.Equal(t, tt.wantC1, c.Str(1))
			}
		})
	}
}

func TestSimpleImputerPickerValidation(t *testing.T) {
	_, err := NewSimpleImputerPicker(WithConstantGroups(
		ConstantGroup{Columns: []string{"a", "b"}, FillValue: 0},
		ConstantGroup{Columns: []string{"b", "c"}, FillValue: 1},
	))
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "intersect")

	_, err = NewSimpleImputerPicker()
	assert.True(t, errors.As(err, &ve))

	_, err = NewSimpleImputerPicker(WithConstantGroups(ConstantGroup{Columns: []string{"a"}, FillValue: []int{1}}))
	assert.True(t, errors.As(err, &ve))

	imp, err := NewSimpleImputerPicker(WithStrategy("mode"))
	require.NoError(t, err)
	err = imp.Fit(imputerTable())
	var valErr *errors.ValueError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, err.Error(), "unknown strategy mode")
}

func TestSimpleImputerPickerAllMissing(t *testing.T) {
	imp, err := NewSimpleImputerPicker(WithStrategy(ImputeMax))
	require.NoError(t, err)
	contractCases(t, imp, imputerTable())

	err = imp.Fit(frame.MustNew(floatCol("a", 1), floatCol("empty", math.NaN())))
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "there are columns with all missing values")

	err = imp.Fit(frame.MustNew(frame.NewFloat("a", nil)))
	assert.True(t, errors.As(err, &ve), "zero rows count as all missing")
}

func TestSimpleImputerPickerKindMismatch(t *testing.T) {
	imp, err := NewSimpleImputerPicker(WithConstantGroups(ConstantGroup{Columns: []string{"c"}, FillValue: 1}))
	require.NoError(t, err)
	err = imp.Fit(imputerTable())
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	imp, err = NewSimpleImputerPicker(WithStrategy(ImputeMean))
	require.NoError(t, err)
	err = imp.Fit(imputerTable())
	assert.True(t, errors.As(err, &ve), "mean over a text column")
}

func TestSimpleImputerPickerMissingColumnAtTransform(t *testing.T) {
	imp, err := NewSimpleImputerPicker(WithStrategy(ImputeMax), WithImputeColumns("a"))
	require.NoError(t, err)
	require.NoError(t, imp.Fit(imputerTable()))
	assert.Equal(t, map[string]any{"a": 3.0}, imp.FillValues())

	_, err = imp.Transform(frame.MustNew(floatCol("b", 1)))
	var nf *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &nf))
}
