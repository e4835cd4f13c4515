package transformers

import (
	"sort"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
)

// WithAnotherColumnImputer fills nulls of target columns with the value of a
// source column in the same row.
type WithAnotherColumnImputer struct {
	base
	mapping map[string]string
	learned []string
}

// NewWithAnotherColumnImputer creates an imputer from a target → source mapping.
func NewWithAnotherColumnImputer(mapping map[string]string) (*WithAnotherColumnImputer, error) {
	if len(mapping) == 0 {
		return nil, errors.NewValidationError("cols_to_impute", "cols_to_impute parameter should be filled", mapping)
	}
	m := make(map[string]string, len(mapping))
	for k, v := range mapping {
		m[k] = v
	}
	return &WithAnotherColumnImputer{base: newBase("WithAnotherColumnImputer"), mapping: m}, nil
}

// Fit keeps the targets present in t.
func (w *WithAnotherColumnImputer) Fit(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	targets := make([]string, 0, len(w.mapping))
	for target := range w.mapping {
		if t.Has(target) {
			targets = append(targets, target)
		}
	}
	sort.Strings(targets)
	w.learned = targets
	w.fitted(t, targets)
	return nil
}

// Transform fills each learned target from its source. Rows where the source
// is null stay null.
func (w *WithAnotherColumnImputer) Transform(t *frame.Table) (*frame.Table, error) {
	if err := w.beginTransform(t); err != nil {
		return nil, err
	}
	out := t
	for _, target := range w.learned {
		dst, err := requireColumn(out, "WithAnotherColumnImputer.Transform", target)
		if err != nil {
			return nil, err
		}
		src, err := requireColumn(out, "WithAnotherColumnImputer.Transform", w.mapping[target])
		if err != nil {
			return nil, err
		}
		if dst.Kind() != src.Kind() {
			return nil, errors.NewValidationError(target, "source column "+src.Name()+" has a different kind", src.Kind().String())
		}

		values := dst.Values()
		for i, v := range values {
			if v == nil {
				values[i] = src.Value(i)
			}
		}
		filled, err := columnLike(dst, values)
		if err != nil {
			return nil, err
		}
		if out, err = out.With(filled); err != nil {
			return nil, err
		}
	}
	w.transformed(out)
	return out, nil
}

// FitTransform fits and transforms t.
func (w *WithAnotherColumnImputer) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform(w, t)
}

// GetParams returns the configuration.
func (w *WithAnotherColumnImputer) GetParams() map[string]interface{} {
	m := make(map[string]string, len(w.mapping))
	for k, v := range w.mapping {
		m[k] = v
	}
	return map[string]interface{}{"cols_to_impute": m}
}

// columnLike builds a column named and flagged like tmpl holding values.
// An all-null result keeps the template kind.
func columnLike(tmpl *frame.Column, values []any) (*frame.Column, error) {
	allNull := true
	for _, v := range values {
		if v != nil {
			allNull = false
			break
		}
	}
	if allNull {
		return tmpl.Clone(), nil
	}
	col, err := frame.FromValues(tmpl.Name(), values)
	if err != nil {
		return nil, err
	}
	if col.Kind() != tmpl.Kind() {
		return nil, errors.NewValidationError(tmpl.Name(), "fill value kind does not match column kind "+tmpl.Kind().String(), col.Kind().String())
	}
	return col.AsCategorical(tmpl.Categorical()), nil
}
