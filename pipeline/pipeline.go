// Package pipeline chains transformers so that each step consumes the table
// produced by the previous one.
package pipeline

import (
	"github.com/ivande/combiner/core/model"
	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/pkg/log"
)

// Step is a named transformer.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline runs its steps in order. It is itself a model.Transformer.
type Pipeline struct {
	steps []Step
}

// New creates a pipeline. Step names must be non-empty and unique.
func New(steps ...Step) (*Pipeline, error) {
	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		if s.Name == "" {
			return nil, errors.NewValidationError("steps", "step name must be set", i)
		}
		if seen[s.Name] {
			return nil, errors.NewValidationError("steps", "duplicate step name", s.Name)
		}
		if s.Transformer == nil {
			return nil, errors.NewValidationError("steps", "step has no transformer", s.Name)
		}
		seen[s.Name] = true
	}
	return &Pipeline{steps: append([]Step(nil), steps...)}, nil
}

// Fit fits every step on the output of the previous one.
func (p *Pipeline) Fit(t *frame.Table) error {
	_, err := p.FitTransform(t)
	return err
}

// FitTransform fits every step and returns the final table.
func (p *Pipeline) FitTransform(t *frame.Table) (*frame.Table, error) {
	return p.run(t, log.OperationFitTransform, func(tr model.Transformer, cur *frame.Table) (*frame.Table, error) {
		return tr.FitTransform(cur)
	})
}

// Transform applies every fitted step.
func (p *Pipeline) Transform(t *frame.Table) (*frame.Table, error) {
	return p.run(t, log.OperationTransform, func(tr model.Transformer, cur *frame.Table) (*frame.Table, error) {
		return tr.Transform(cur)
	})
}

func (p *Pipeline) logger() log.Logger {
	return log.GetLoggerWithName("pipeline")
}

func (p *Pipeline) run(t *frame.Table, op string, apply func(model.Transformer, *frame.Table) (*frame.Table, error)) (*frame.Table, error) {
	cur := t
	for _, s := range p.steps {
		var next *frame.Table
		err := errors.SafeExecute("Pipeline."+s.Name, func() error {
			var err error
			next, err = apply(s.Transformer, cur)
			return err
		})
		if err != nil {
			p.logger().Error("pipeline step failed", err, log.StepKey, s.Name, log.OperationKey, op)
			return nil, errors.Wrapf(err, "step %s", s.Name)
		}
		p.logger().Debug("pipeline step completed",
			log.StepKey, s.Name,
			log.OperationKey, op,
			log.SamplesKey, next.NumRows(),
			log.FeaturesKey, next.NumCols(),
		)
		cur = next
	}
	return cur, nil
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Step returns the transformer registered under name.
func (p *Pipeline) Step(name string) (model.Transformer, bool) {
	for _, s := range p.steps {
		if s.Name == name {
			return s.Transformer, true
		}
	}
	return nil, false
}

// StepStatus describes one step after (or before) fitting.
type StepStatus struct {
	Name   string                 `yaml:"name"`
	State  string                 `yaml:"state"`
	Params map[string]interface{} `yaml:"params,omitempty"`
}

// Status reports the lifecycle state and configuration of every step.
// Steps that do not expose them report "unknown" and no params.
func (p *Pipeline) Status() []StepStatus {
	out := make([]StepStatus, len(p.steps))
	for i, s := range p.steps {
		st := StepStatus{Name: s.Name, State: "unknown"}
		if r, ok := s.Transformer.(model.StateReporter); ok {
			st.State = r.State().String()
		}
		if g, ok := s.Transformer.(model.ParameterGetter); ok {
			st.Params = g.GetParams()
		}
		out[i] = st
	}
	return out
}
