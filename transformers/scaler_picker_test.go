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

func linspace(from, to float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}

func standardized(values []float64) []float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(len(values)))
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

func TestScalerPickerTypes(t *testing.T) {
	s1 := linspace(1, 10, 10)

	tests := []struct {
		name       string
		scalerType string
		input      [3][]float64
		want       [2][]float64
		tol        float64
	}{
		{
			name:       "minmax",
			scalerType: ScalerMinMax,
			input:      [3][]float64{rangeFloats(1, 12), rangeFloats(10, 21), rangeFloats(0, 11)},
			want:       [2][]float64{linspace(0, 1, 11), linspace(0, 1, 11)},
			tol:        1e-9,
		},
		{
			name:       "standard",
			scalerType: ScalerStandard,
			input:      [3][]float64{rangeFloats(1, 11), linspace(10, 28, 10), rangeFloats(0, 10)},
			want:       [2][]float64{standardized(s1), standardized(s1)},
			tol:        1e-9,
		},
		{
			name:       "robust",
			scalerType: ScalerRobust,
			input:      [3][]float64{{1, -2, 2}, {4, 1, -2}, {0, 1, 2}},
			want:       [2][]float64{{0, -1.5, .5}, {1, 0, -1}},
			tol:        1e-9,
		},
		{
			name:       "power",
			scalerType: ScalerPower,
			input:      [3][]float64{{1, 2, 3}, {-5, 0, 3}, {0, 1, 2}},
			want:       [2][]float64{{-1.252189, 0.05687, 1.195319}, {-1.233597, .017901, 1.215696}},
			tol:        1e-3,
		},
		{
			name:       "skip",
			scalerType: ScalerSkip,
			input:      [3][]float64{{1, 2, 3}, {-5, 0, 3}, {0, 1, 2}},
			want:       [2][]float64{{1, 2, 3}, {-5, 0, 3}},
			tol:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := frame.MustNew(
				frame.NewFloat("col_1", tt.input[0]),
				frame.NewFloat("col_2", tt.input[1]),
				frame.NewFloat("col_3", tt.input[2]),
			)
			s, err := NewScalerPicker([]string{"col_1", "col_2"}, WithScalerType(tt.scalerType))
			require.NoError(t, err)

			out, err := s.FitTransform(tbl)
			require.NoError(t, err)
			requireFloats(t, out, "col_1", tt.want[0], tt.tol)
			requireFloats(t, out, "col_2", tt.want[1], tt.tol)
			requireFloats(t, out, "col_3", tt.input[2], 0)
		})
	}
}

func TestScalerPickerUnknownType(t *testing.T) {
	s, err := NewScalerPicker([]string{"col_1"}, WithScalerType("zscore"))
	require.NoError(t, err)

	err = s.Fit(frame.MustNew(floatCol("col_1", 1, 2)))
	var ve *errors.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "unknown scaler type zscore")
}

func TestScalerPickerNullsAndNarrowTables(t *testing.T) {
	s, err := NewScalerPicker([]string{"a", "b"}, WithScalerType(ScalerMinMax))
	require.NoError(t, err)
	contractCases(t, s, frame.MustNew(floatCol("a", 1)))

	require.NoError(t, s.Fit(frame.MustNew(floatCol("a", 0, math.NaN(), 10))))

	out, err := s.Transform(frame.MustNew(floatCol("a", 5, math.NaN()), frame.NewString("c", []string{"x", "y"})))
	require.NoError(t, err)
	requireFloats(t, out, "a", []float64{0.5, math.NaN()}, 1e-12)

	_, err = s.Transform(frame.MustNew(floatCol("b", 1)))
	var nf *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestScalerPickerFittedEmptyAndText(t *testing.T) {
	s, err := NewScalerPicker([]string{"absent"})
	require.NoError(t, err)
	out, err := s.FitTransform(frame.MustNew(floatCol("a", 1, 2)))
	require.NoError(t, err)
	assert.Equal(t, model.FittedEmpty, s.State())
	requireFloats(t, out, "a", []float64{1, 2}, 0)

	s, err = NewScalerPicker([]string{"s"})
	require.NoError(t, err)
	err = s.Fit(frame.MustNew(frame.NewString("s", []string{"a"})))
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}
