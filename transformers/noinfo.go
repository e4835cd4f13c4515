package transformers

import (
	"sort"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/log"
)

// NoInfoFeatureRemover drops columns that hold at most one distinct value.
type NoInfoFeatureRemover struct {
	base
	except   map[string]bool
	verbose  bool
	toRemove []string
}

// NoInfoOption configures a NoInfoFeatureRemover.
type NoInfoOption func(*NoInfoFeatureRemover)

// WithExceptColumns keeps the named columns even when they are constant.
func WithExceptColumns(cols ...string) NoInfoOption {
	return func(n *NoInfoFeatureRemover) {
		for _, c := range cols {
			n.except[c] = true
		}
	}
}

// WithVerbose logs the removed columns at Warn level after Fit, which the
// default provider emits.
func WithVerbose(verbose bool) NoInfoOption {
	return func(n *NoInfoFeatureRemover) {
		n.verbose = verbose
	}
}

// NewNoInfoFeatureRemover creates a remover.
func NewNoInfoFeatureRemover(opts ...NoInfoOption) (*NoInfoFeatureRemover, error) {
	n := &NoInfoFeatureRemover{base: newBase("NoInfoFeatureRemover"), except: map[string]bool{}}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Fit marks every non-excepted column whose distinct non-null count is at most one.
func (n *NoInfoFeatureRemover) Fit(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	toRemove := []string{}
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		if col.NUnique() <= 1 && !n.except[col.Name()] {
			toRemove = append(toRemove, col.Name())
		}
	}
	n.toRemove = toRemove

	if n.verbose && len(toRemove) > 0 {
		n.logger().Warn("columns have no info and will be removed", log.RemovedColumnsKey, toRemove)
	}
	n.fitted(t, toRemove)
	return nil
}

// Transform drops the columns marked at fit time. Each must be present.
func (n *NoInfoFeatureRemover) Transform(t *frame.Table) (*frame.Table, error) {
	if err := n.beginTransform(t); err != nil {
		return nil, err
	}
	out, err := t.Drop(n.toRemove...)
	if err != nil {
		return nil, err
	}
	n.transformed(out)
	return out, nil
}

// FitTransform fits and transforms t.
func (n *NoInfoFeatureRemover) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform(n, t)
}

// RemovedColumns returns the columns marked at fit time.
func (n *NoInfoFeatureRemover) RemovedColumns() []string {
	return copyStrings(n.toRemove)
}

// GetParams returns the configuration.
func (n *NoInfoFeatureRemover) GetParams() map[string]interface{} {
	except := make([]string, 0, len(n.except))
	for c := range n.except {
		except = append(except, c)
	}
	sort.Strings(except)
	return map[string]interface{}{"cols_to_except": except, "verbose": n.verbose}
}
