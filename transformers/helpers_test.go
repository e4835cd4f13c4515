package transformers

import (
	"io"
	"math"
	"testing"

	"github.com/ivande/combiner/core/model"
	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTestLogger routes component logs into an in-memory logger for the test.
func withTestLogger(t *testing.T) *log.TestLogger {
	t.Helper()
	provider, _ := log.NewTestLoggerProvider(log.LevelDebug)
	log.SetProvider(provider)
	t.Cleanup(func() {
		log.SetProvider(log.NewZerologProvider(io.Discard, log.LevelWarn))
	})
	return provider.Logger()
}

func floatCol(name string, values ...float64) *frame.Column {
	return frame.NewFloat(name, values)
}

func rangeFloats(from, to int) []float64 {
	out := make([]float64, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, float64(i))
	}
	return out
}

func concatFloats(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func requireFloats(t *testing.T, tbl *frame.Table, name string, want []float64, tol float64) {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, "column %s missing", name)
	require.Equal(t, frame.Float, col.Kind())
	got := col.Floats()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "%s[%d] = %v, want NaN", name, i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], tol, "%s[%d]", name, i)
	}
}

// contractCases checks the lifecycle every component shares.
func contractCases(t *testing.T, tr model.NamedTransformer, tbl *frame.Table) {
	t.Helper()

	_, err := tr.Transform(tbl)
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf), "transform before fit: %v", err)
	assert.Contains(t, err.Error(), tr.Name()+" transformer was not fitted")

	err = tr.Fit(nil)
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "X is not a Table")

	_, err = tr.Transform(nil)
	require.True(t, errors.As(err, &ve))
}
