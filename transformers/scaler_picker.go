package transformers

import (
	"fmt"

	"github.com/ivande/combiner/core/model"
	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/preprocessing"
)

// Scaler types.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
	ScalerRobust   = "robust"
	ScalerPower    = "power"
	ScalerSkip     = "skip"
)

// NewMatrixScaler returns a fresh scaler for scalerType, or nil for skip.
func NewMatrixScaler(scalerType string) (model.MatrixTransformer, error) {
	switch scalerType {
	case ScalerStandard:
		return preprocessing.NewStandardScalerDefault(), nil
	case ScalerMinMax:
		return preprocessing.NewMinMaxScalerDefault(), nil
	case ScalerRobust:
		return preprocessing.NewRobustScaler(), nil
	case ScalerPower:
		return preprocessing.NewPowerTransformer(), nil
	case ScalerSkip:
		return nil, nil
	default:
		return nil, errors.NewValueError("ScalerPicker.Fit",
			fmt.Sprintf("unknown scaler type %s should be standard, minmax, robust, power or skip", scalerType))
	}
}

// ScalerPicker fits one scaler jointly over the selected numeric columns.
// Parameters are learned per column and applied independently.
type ScalerPicker struct {
	base
	columns    []string
	scalerType string
	learned    []string
	scaler     model.MatrixTransformer
}

// ScalerOption configures a ScalerPicker.
type ScalerOption func(*ScalerPicker)

// WithScalerType selects standard (default), minmax, robust, power or skip.
func WithScalerType(scalerType string) ScalerOption {
	return func(s *ScalerPicker) {
		s.scalerType = scalerType
	}
}

// NewScalerPicker creates a picker for the given columns.
func NewScalerPicker(columns []string, opts ...ScalerOption) (*ScalerPicker, error) {
	s := &ScalerPicker{
		base:       newBase("ScalerPicker"),
		columns:    copyStrings(columns),
		scalerType: ScalerStandard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Fit fits the chosen scaler on the present selected columns.
func (s *ScalerPicker) Fit(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	scaler, err := NewMatrixScaler(s.scalerType)
	if err != nil {
		return err
	}
	present := t.Present(s.columns)
	for _, name := range present {
		col, _ := t.Column(name)
		if col.Kind() != frame.Float {
			return errors.NewValidationError(name, "scaling needs a numeric column", col.Kind().String())
		}
	}

	if scaler != nil && len(present) > 0 {
		X, err := t.Matrix(present...)
		if err != nil {
			return err
		}
		if err := scaler.Fit(X); err != nil {
			return errors.Wrapf(err, "fit %s scaler", s.scalerType)
		}
	}

	s.scaler = scaler
	s.learned = present
	s.fitted(t, present)
	return nil
}

// Transform scales the learned columns in place. Other columns are untouched.
func (s *ScalerPicker) Transform(t *frame.Table) (*frame.Table, error) {
	if err := s.beginTransform(t); err != nil {
		return nil, err
	}
	if s.scaler == nil || len(s.learned) == 0 {
		return t, nil
	}
	for _, name := range s.learned {
		if _, err := requireColumn(t, "ScalerPicker.Transform", name); err != nil {
			return nil, err
		}
	}
	if t.NumRows() == 0 {
		return t, nil
	}

	X, err := t.Matrix(s.learned...)
	if err != nil {
		return nil, err
	}
	scaled, err := s.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	out, err := t.SetMatrix(s.learned, scaled)
	if err != nil {
		return nil, err
	}
	s.transformed(out)
	return out, nil
}

// FitTransform fits and transforms t.
func (s *ScalerPicker) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform(s, t)
}

// GetParams returns the configuration.
func (s *ScalerPicker) GetParams() map[string]interface{} {
	return map[string]interface{}{"cols_to_scale": copyStrings(s.columns), "scaler_type": s.scalerType}
}
