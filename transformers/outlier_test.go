package transformers

import (
	"math"
	"testing"

	"github.com/ivande/combiner/core/model"
	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutlierRemoverMethods(t *testing.T) {
	tests := []struct {
		name   string
		method string
		input  []float64
		want   []float64
	}{
		{
			name:   "iqr has effect",
			method: OutlierIQR,
			input:  concatFloats([]float64{-51}, rangeFloats(1, 100), []float64{151}),
			want:   concatFloats([]float64{1}, rangeFloats(1, 100), []float64{99}),
		},
		{
			name:   "iqr no effect",
			method: OutlierIQR,
			input:  concatFloats([]float64{-50}, rangeFloats(1, 100), []float64{150}),
			want:   concatFloats([]float64{-50}, rangeFloats(1, 100), []float64{150}),
		},
		{
			name:   "std has effect",
			method: OutlierStd,
			input:  concatFloats([]float64{-100}, rangeFloats(-50, 51), []float64{100}),
			want:   concatFloats([]float64{-50}, rangeFloats(-50, 51), []float64{50}),
		},
		{
			name:   "std no effect",
			method: OutlierStd,
			input:  concatFloats([]float64{-75}, rangeFloats(-50, 51), []float64{75}),
			want:   concatFloats([]float64{-75}, rangeFloats(-50, 51), []float64{75}),
		},
		{
			name:   "quantile always has effect",
			method: OutlierQuantile,
			input:  rangeFloats(0, 101),
			want:   concatFloats([]float64{1}, rangeFloats(1, 100), []float64{99}),
		},
		{
			name:   "skip never has effect",
			method: OutlierSkip,
			input:  concatFloats([]float64{-1000}, rangeFloats(0, 100), []float64{1000}),
			want:   concatFloats([]float64{-1000}, rangeFloats(0, 100), []float64{1000}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOutlierRemover([]string{"col_1"}, WithOutlierMethod(tt.method))
			require.NoError(t, err)

			out, err := o.FitTransform(frame.MustNew(frame.NewFloat("col_1", tt.input)))
			require.NoError(t, err)
			requireFloats(t, out, "col_1", tt.want, 1e-9)
		})
	}
}

func TestOutlierRemoverUnknownMethod(t *testing.T) {
	o, err := NewOutlierRemover([]string{"col_1"}, WithOutlierMethod("wrong_method"))
	require.NoError(t, err)

	_, err = o.FitTransform(frame.MustNew(floatCol("col_1", 1)))
	var ve *errors.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "unknown method wrong_method for outlier remover")
}

func TestOutlierRemoverUnknownMethodWithoutPresentColumns(t *testing.T) {
	o, err := NewOutlierRemover([]string{"absent"}, WithOutlierMethod("bogus"))
	require.NoError(t, err)

	err = o.Fit(frame.MustNew(floatCol("col_1", 1, 2)))
	var ve *errors.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "unknown method bogus for outlier remover")
	assert.Equal(t, model.NotFitted, o.State())
}

func TestOutlierRemoverRequiresColumns(t *testing.T) {
	_, err := NewOutlierRemover(nil)
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestOutlierRemoverNullsAndMissingColumns(t *testing.T) {
	o, err := NewOutlierRemover([]string{"col_1", "absent"}, WithOutlierMethod(OutlierSkip))
	require.NoError(t, err)
	contractCases(t, o, frame.MustNew(floatCol("col_1", 1)))

	require.NoError(t, o.Fit(frame.MustNew(floatCol("col_1", 1, math.NaN(), 5))))
	assert.Equal(t, map[string]Threshold{"col_1": {Min: 1, Max: 5}}, o.Thresholds())

	out, err := o.Transform(frame.MustNew(floatCol("col_1", -3, math.NaN(), 9)))
	require.NoError(t, err)
	requireFloats(t, out, "col_1", []float64{1, math.NaN(), 5}, 0)

	_, err = o.Transform(frame.MustNew(floatCol("other", 1)))
	var nf *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestOutlierRemoverFittedEmpty(t *testing.T) {
	o, err := NewOutlierRemover([]string{"absent"})
	require.NoError(t, err)

	tbl := frame.MustNew(floatCol("col_1", -1000, 1, 2, 1000))
	out, err := o.FitTransform(tbl)
	require.NoError(t, err)
	assert.Equal(t, model.FittedEmpty, o.State())
	requireFloats(t, out, "col_1", []float64{-1000, 1, 2, 1000}, 0)
}

func TestOutlierRemoverRejectsText(t *testing.T) {
	o, err := NewOutlierRemover([]string{"s"})
	require.NoError(t, err)
	err = o.Fit(frame.MustNew(frame.NewString("s", []string{"a"})))
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}
