// Package transformers provides table-level preprocessing components sharing
// the fit/transform contract of model.Transformer.
//
// Each component validates its input, learns only from the configured columns
// present in the fitting table and refuses to transform before Fit. A fit that
// matches no columns leaves the component FittedEmpty, and Transform is then an
// identity on the configured columns.
package transformers

import (
	"github.com/google/uuid"
	"github.com/ivande/combiner/core/model"
	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/pkg/log"
)

// base carries the bookkeeping shared by every component.
type base struct {
	name  string
	id    string
	state *model.StateManager
}

func newBase(name string) base {
	return base{
		name:  name,
		id:    uuid.NewString(),
		state: model.NewStateManager(),
	}
}

// logger resolves against the current provider on every call, so a provider
// installed after construction still receives the component's records.
func (b *base) logger() log.Logger {
	return log.GetLoggerWithName("transformers").With(
		log.ModelNameKey, b.name,
		log.EstimatorIDKey, b.id,
	)
}

// Name returns the component name used in errors and logs.
func (b *base) Name() string { return b.name }

// State returns the lifecycle state.
func (b *base) State() model.EstimatorState { return b.state.State() }

func (b *base) fitted(t *frame.Table, learned []string) {
	b.state.SetDimensions(len(learned), t.NumRows())
	b.state.SetFitted(len(learned))
	b.logger().Debug("fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, t.NumRows(),
		log.FeaturesKey, len(learned),
		log.ColumnsKey, learned,
	)
}

// beginTransform validates the input and the fitted state.
func (b *base) beginTransform(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	if err := b.state.RequireFitted(b.name, "Transform"); err != nil {
		b.logger().Error("transform before fit", err, log.ErrorCodeKey, log.ErrorNotFitted)
		return err
	}
	return nil
}

func (b *base) transformed(t *frame.Table) {
	b.logger().Debug("transform completed",
		log.OperationKey, log.OperationTransform,
		log.SamplesKey, t.NumRows(),
		log.FeaturesKey, t.NumCols(),
	)
}

func checkTable(t *frame.Table) error {
	if t == nil {
		return errors.NewValidationError("X", "X is not a Table", nil)
	}
	return nil
}

// requireColumn returns the named column or a ColumnNotFoundError.
func requireColumn(t *frame.Table, op, name string) (*frame.Column, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, errors.NewColumnNotFoundError(op, name)
	}
	return c, nil
}

func fitTransform(tr model.Transformer, t *frame.Table) (*frame.Table, error) {
	if err := tr.Fit(t); err != nil {
		return nil, err
	}
	return tr.Transform(t)
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
