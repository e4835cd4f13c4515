package transformers

import (
	"math"
	"testing"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithAnotherColumnImputer(t *testing.T) {
	tbl := frame.MustNew(
		floatCol("col_1", 1, 2, 3),
		floatCol("col_2", 5, math.NaN(), math.NaN()),
	)

	imp, err := NewWithAnotherColumnImputer(map[string]string{"col_2": "col_1"})
	require.NoError(t, err)

	out, err := imp.FitTransform(tbl)
	require.NoError(t, err)
	requireFloats(t, out, "col_1", []float64{1, 2, 3}, 0)
	requireFloats(t, out, "col_2", []float64{5, 2, 3}, 0)

	orig, _ := tbl.Column("col_2")
	assert.True(t, orig.IsNull(1), "input must not be mutated")
}

func TestWithAnotherColumnImputerSourceNull(t *testing.T) {
	tbl := frame.MustNew(
		frame.NewStringWithNulls("city", []string{"", "Rome"}, []bool{true, true}),
		frame.NewStringWithNulls("region", []string{"", "Lazio"}, []bool{true, false}),
	)
	imp, err := NewWithAnotherColumnImputer(map[string]string{"city": "region", "missing": "region"})
	require.NoError(t, err)

	out, err := imp.FitTransform(tbl)
	require.NoError(t, err)
	city, _ := out.Column("city")
	assert.True(t, city.IsNull(0))
	assert.Equal(t, "Lazio", city.Str(1))
}

func TestWithAnotherColumnImputerErrors(t *testing.T) {
	_, err := NewWithAnotherColumnImputer(nil)
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	imp, err := NewWithAnotherColumnImputer(map[string]string{"a": "b"})
	require.NoError(t, err)
	contractCases(t, imp, frame.MustNew(floatCol("a", 1)))

	require.NoError(t, imp.Fit(frame.MustNew(floatCol("a", 1), floatCol("b", 2))))

	_, err = imp.Transform(frame.MustNew(floatCol("a", math.NaN())))
	var nf *errors.ColumnNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "b", nf.Column)

	_, err = imp.Transform(frame.MustNew(floatCol("a", math.NaN()), frame.NewString("b", []string{"x"})))
	assert.True(t, errors.As(err, &ve))
}
