package transformers

import (
	"github.com/ivande/combiner/frame"
)

// CatCaster marks columns as categorical. Values are unchanged.
type CatCaster struct {
	base
	columns []string
	learned []string
}

// NewCatCaster creates a caster for the given columns.
func NewCatCaster(columns []string) (*CatCaster, error) {
	return &CatCaster{base: newBase("CatCaster"), columns: copyStrings(columns)}, nil
}

// Fit keeps the configured columns present in t.
func (c *CatCaster) Fit(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	c.learned = t.Present(c.columns)
	c.fitted(t, c.learned)
	return nil
}

// Transform sets the categorical flag on every learned column.
func (c *CatCaster) Transform(t *frame.Table) (*frame.Table, error) {
	if err := c.beginTransform(t); err != nil {
		return nil, err
	}
	out := t
	for _, name := range c.learned {
		col, err := requireColumn(out, "CatCaster.Transform", name)
		if err != nil {
			return nil, err
		}
		if out, err = out.With(col.AsCategorical(true)); err != nil {
			return nil, err
		}
	}
	c.transformed(out)
	return out, nil
}

// FitTransform fits and transforms t.
func (c *CatCaster) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform(c, t)
}

// GetParams returns the configuration.
func (c *CatCaster) GetParams() map[string]interface{} {
	return map[string]interface{}{"cols_to_cast": copyStrings(c.columns)}
}
