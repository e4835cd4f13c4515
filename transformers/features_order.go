package transformers

import (
	"github.com/ivande/combiner/frame"
)

// FeaturesOrder puts the requested columns first, in the requested order,
// followed by the remaining columns in their original order.
type FeaturesOrder struct {
	base
	order   []string
	learned []string
}

// NewFeaturesOrder creates an orderer for the requested leading columns.
func NewFeaturesOrder(order []string) (*FeaturesOrder, error) {
	return &FeaturesOrder{base: newBase("FeaturesOrder"), order: copyStrings(order)}, nil
}

// Fit computes the final column order for t.
func (f *FeaturesOrder) Fit(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	final := make([]string, 0, t.NumCols())
	used := make(map[string]bool, t.NumCols())
	for _, name := range t.Present(f.order) {
		if !used[name] {
			final = append(final, name)
			used[name] = true
		}
	}
	for _, name := range t.Columns() {
		if !used[name] {
			final = append(final, name)
		}
	}
	f.learned = final
	f.fitted(t, final)
	return nil
}

// Transform reindexes t to the learned order. Every learned column must exist
// and columns unseen at fit time are dropped.
func (f *FeaturesOrder) Transform(t *frame.Table) (*frame.Table, error) {
	if err := f.beginTransform(t); err != nil {
		return nil, err
	}
	if f.state.IsEmpty() {
		return t, nil
	}
	out, err := t.Select(f.learned...)
	if err != nil {
		return nil, err
	}
	f.transformed(out)
	return out, nil
}

// FitTransform fits and transforms t.
func (f *FeaturesOrder) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform(f, t)
}

// Order returns the learned column order.
func (f *FeaturesOrder) Order() []string {
	return copyStrings(f.learned)
}

// GetParams returns the configuration.
func (f *FeaturesOrder) GetParams() map[string]interface{} {
	return map[string]interface{}{"features_order": copyStrings(f.order)}
}
