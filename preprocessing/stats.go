package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Quantile returns the q-th quantile (0 <= q <= 1) of values using linear
// interpolation between closest ranks, pos = q*(n-1). NaNs are ignored.
// It returns NaN when no values remain.
func Quantile(values []float64, q float64) float64 {
	sorted := dropNaN(values)
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

// Quantiles is Quantile for several q over one sort.
func Quantiles(values []float64, qs ...float64) []float64 {
	sorted := dropNaN(values)
	out := make([]float64, len(qs))
	if len(sorted) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sort.Float64s(sorted)
	for i, q := range qs {
		out[i] = quantileSorted(sorted, q)
	}
	return out
}

func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	if lo < 0 {
		return sorted[0]
	}
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Median returns the 0.5 quantile of values, ignoring NaN.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// observed returns the non-NaN entries of column j.
func observed(X mat.Matrix, j int) []float64 {
	r, _ := X.Dims()
	out := make([]float64, 0, r)
	for i := 0; i < r; i++ {
		if v := X.At(i, j); !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
