package transformers

import (
	"fmt"
	"math"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/preprocessing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Outlier detection methods.
const (
	OutlierIQR      = "iqr"
	OutlierStd      = "std"
	OutlierQuantile = "quantile"
	OutlierSkip     = "skip"
)

// Threshold is the observed value range a column is clipped to.
type Threshold struct {
	Min float64
	Max float64
}

// OutlierRemover clips numeric columns to the observed values inside
// method-specific bounds.
type OutlierRemover struct {
	base
	columns    []string
	method     string
	learned    []string
	thresholds map[string]Threshold
}

// OutlierOption configures an OutlierRemover.
type OutlierOption func(*OutlierRemover)

// WithOutlierMethod selects iqr (default), std, quantile or skip.
func WithOutlierMethod(method string) OutlierOption {
	return func(o *OutlierRemover) {
		o.method = method
	}
}

// NewOutlierRemover creates a remover for the given columns.
func NewOutlierRemover(columns []string, opts ...OutlierOption) (*OutlierRemover, error) {
	if len(columns) == 0 {
		return nil, errors.NewValidationError("cols_to_transform", "cols_to_transform parameter should be filled", columns)
	}
	o := &OutlierRemover{
		base:    newBase("OutlierRemover"),
		columns: copyStrings(columns),
		method:  OutlierIQR,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Fit learns, per present column, the smallest and largest values within the bounds.
func (o *OutlierRemover) Fit(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	if err := o.checkMethod(); err != nil {
		return err
	}
	present := t.Present(o.columns)
	thresholds := make(map[string]Threshold, len(present))

	for _, name := range present {
		col, _ := t.Column(name)
		if col.Kind() != frame.Float {
			return errors.NewValidationError(name, "outlier removal needs a numeric column", col.Kind().String())
		}
		values := col.NonNullFloats()
		lo, hi, err := o.bounds(values)
		if err != nil {
			return err
		}
		thresholds[name] = observedRange(values, lo, hi)
	}

	o.learned = present
	o.thresholds = thresholds
	o.fitted(t, present)
	return nil
}

func (o *OutlierRemover) checkMethod() error {
	switch o.method {
	case OutlierIQR, OutlierStd, OutlierQuantile, OutlierSkip:
		return nil
	default:
		return errors.NewValueError("OutlierRemover.Fit", fmt.Sprintf("unknown method %s for outlier remover", o.method))
	}
}

// bounds assumes checkMethod has passed.
func (o *OutlierRemover) bounds(values []float64) (lo, hi float64, err error) {
	switch o.method {
	case OutlierIQR:
		q := preprocessing.Quantiles(values, 0.25, 0.75)
		iqr := q[1] - q[0]
		return q[0] - 1.5*iqr, q[1] + 1.5*iqr, nil
	case OutlierStd:
		if len(values) < 2 {
			return math.NaN(), math.NaN(), nil
		}
		mean, std := stat.MeanStdDev(values, nil)
		return mean - 3*std, mean + 3*std, nil
	case OutlierQuantile:
		q := preprocessing.Quantiles(values, 0.01, 0.99)
		return q[0], q[1], nil
	case OutlierSkip:
		if len(values) == 0 {
			return math.NaN(), math.NaN(), nil
		}
		return floats.Min(values), floats.Max(values), nil
	default:
		return 0, 0, o.checkMethod()
	}
}

// observedRange returns the min and max of values within [lo, hi].
// Without such values both ends are NaN and clipping is a no-op.
func observedRange(values []float64, lo, hi float64) Threshold {
	th := Threshold{Min: math.NaN(), Max: math.NaN()}
	for _, v := range values {
		if v < lo || v > hi || math.IsNaN(lo) || math.IsNaN(hi) {
			continue
		}
		if math.IsNaN(th.Min) || v < th.Min {
			th.Min = v
		}
		if math.IsNaN(th.Max) || v > th.Max {
			th.Max = v
		}
	}
	return th
}

// Transform clips every learned column to its threshold. Nulls stay null.
func (o *OutlierRemover) Transform(t *frame.Table) (*frame.Table, error) {
	if err := o.beginTransform(t); err != nil {
		return nil, err
	}
	out := t
	for _, name := range o.learned {
		col, err := requireColumn(out, "OutlierRemover.Transform", name)
		if err != nil {
			return nil, err
		}
		if col.Kind() != frame.Float {
			return nil, errors.NewValidationError(name, "outlier removal needs a numeric column", col.Kind().String())
		}
		th := o.thresholds[name]
		values := col.Floats()
		for i, v := range values {
			if math.IsNaN(v) || math.IsNaN(th.Min) {
				continue
			}
			values[i] = errors.ClipValue(v, th.Min, th.Max)
		}
		if out, err = out.With(frame.NewFloat(name, values).AsCategorical(col.Categorical())); err != nil {
			return nil, err
		}
	}
	o.transformed(out)
	return out, nil
}

// FitTransform fits and transforms t.
func (o *OutlierRemover) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform(o, t)
}

// Thresholds returns the learned clip ranges by column.
func (o *OutlierRemover) Thresholds() map[string]Threshold {
	out := make(map[string]Threshold, len(o.thresholds))
	for k, v := range o.thresholds {
		out[k] = v
	}
	return out
}

// GetParams returns the configuration.
func (o *OutlierRemover) GetParams() map[string]interface{} {
	return map[string]interface{}{"cols_to_transform": copyStrings(o.columns), "method": o.method}
}
