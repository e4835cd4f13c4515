package transformers

import (
	"fmt"
	"time"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/preprocessing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Imputation strategies.
const (
	ImputeConstant     = "constant"
	ImputeMean         = "mean"
	ImputeMedian       = "median"
	ImputeMostFrequent = "most_frequent"
	ImputeMax          = "max"
)

// ConstantGroup is a set of columns sharing one constant fill value.
type ConstantGroup struct {
	Columns   []string `yaml:"columns"`
	FillValue any      `yaml:"fill_value"`
}

// SimpleImputerPicker fills nulls with a constant or a per-column statistic.
type SimpleImputerPicker struct {
	base
	strategy string
	groups   []ConstantGroup
	columns  []string

	learned []string
	fills   map[string]any
}

// ImputerOption configures a SimpleImputerPicker.
type ImputerOption func(*SimpleImputerPicker)

// WithStrategy selects constant (default), mean, median, most_frequent or max.
func WithStrategy(strategy string) ImputerOption {
	return func(s *SimpleImputerPicker) {
		s.strategy = strategy
	}
}

// WithConstantGroups sets the column groups for the constant strategy.
// Groups must not share columns.
func WithConstantGroups(groups ...ConstantGroup) ImputerOption {
	return func(s *SimpleImputerPicker) {
		s.groups = append(s.groups, groups...)
	}
}

// WithImputeColumns restricts the statistic strategies to the given columns.
// Without it every column of the fitting table is imputed.
func WithImputeColumns(cols ...string) ImputerOption {
	return func(s *SimpleImputerPicker) {
		s.columns = copyStrings(cols)
	}
}

// NewSimpleImputerPicker creates an imputer.
func NewSimpleImputerPicker(opts ...ImputerOption) (*SimpleImputerPicker, error) {
	s := &SimpleImputerPicker{base: newBase("SimpleImputerPicker"), strategy: ImputeConstant}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[string]int)
	for gi, g := range s.groups {
		if _, ok := frame.KindOf(g.FillValue); !ok {
			return nil, errors.NewValidationError("fill_value", "fill value must be a number, string or time", g.FillValue)
		}
		for _, c := range g.Columns {
			if prev, dup := seen[c]; dup && prev != gi {
				return nil, errors.NewValidationError("cols_to_impute",
					fmt.Sprintf("column groups %d and %d intersect", prev, gi), c)
			}
			seen[c] = gi
		}
	}
	if s.strategy == ImputeConstant && len(s.groups) == 0 {
		return nil, errors.NewValidationError("cols_to_impute", "constant strategy needs column groups", nil)
	}
	return s, nil
}

// Fit learns one fill value per present target column.
func (s *SimpleImputerPicker) Fit(t *frame.Table) error {
	if err := checkTable(t); err != nil {
		return err
	}
	for i := 0; i < t.NumCols(); i++ {
		if col := t.ColumnAt(i); col.AllNull() {
			return errors.NewValidationError("X", "there are columns with all missing values", col.Name())
		}
	}

	var (
		learned []string
		fills   = map[string]any{}
	)
	switch s.strategy {
	case ImputeConstant:
		for _, g := range s.groups {
			for _, name := range t.Present(g.Columns) {
				col, _ := t.Column(name)
				if err := checkFillKind(col, g.FillValue); err != nil {
					return err
				}
				fills[name] = g.FillValue
				learned = append(learned, name)
			}
		}
	case ImputeMean, ImputeMedian, ImputeMostFrequent, ImputeMax:
		targets := t.Columns()
		if s.columns != nil {
			targets = t.Present(s.columns)
		}
		for _, name := range targets {
			col, _ := t.Column(name)
			v, err := s.statistic(col)
			if err != nil {
				return err
			}
			fills[name] = v
			learned = append(learned, name)
		}
	default:
		return errors.NewValueError("SimpleImputerPicker.Fit",
			fmt.Sprintf("unknown strategy %s should be constant, mean, median, most_frequent or max", s.strategy))
	}

	s.learned = learned
	s.fills = fills
	s.fitted(t, learned)
	return nil
}

func (s *SimpleImputerPicker) statistic(col *frame.Column) (any, error) {
	switch s.strategy {
	case ImputeMean, ImputeMedian:
		if col.Kind() != frame.Float {
			return nil, errors.NewValidationError(col.Name(),
				fmt.Sprintf("%s strategy needs a numeric column", s.strategy), col.Kind().String())
		}
		if s.strategy == ImputeMean {
			return stat.Mean(col.NonNullFloats(), nil), nil
		}
		return preprocessing.Median(col.NonNullFloats()), nil
	case ImputeMostFrequent:
		return mostFrequent(col), nil
	default:
		return columnMax(col), nil
	}
}

// mostFrequent returns the most common non-null value; ties go to the smallest.
func mostFrequent(col *frame.Column) any {
	counts := map[any]int{}
	var best any
	bestCount := 0
	for _, v := range col.Values() {
		if v == nil {
			continue
		}
		k := valueKey(v)
		counts[k]++
		n := counts[k]
		if n > bestCount || (n == bestCount && valueLess(v, best)) {
			best, bestCount = v, n
		}
	}
	return best
}

func columnMax(col *frame.Column) any {
	switch col.Kind() {
	case frame.Float:
		return floats.Max(col.NonNullFloats())
	default:
		var best any
		for _, v := range col.Values() {
			if v != nil && (best == nil || valueLess(best, v)) {
				best = v
			}
		}
		return best
	}
}

func valueKey(v any) any {
	if tv, ok := v.(time.Time); ok {
		return tv.UnixNano()
	}
	return v
}

func valueLess(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && x < y
	case string:
		y, ok := b.(string)
		return ok && x < y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Before(y)
	}
	return false
}

func checkFillKind(col *frame.Column, fill any) error {
	kind, _ := frame.KindOf(fill)
	if kind != col.Kind() {
		return errors.NewValidationError(col.Name(),
			"fill value kind does not match column kind "+col.Kind().String(), fill)
	}
	return nil
}

// Transform fills nulls of every learned column with its fill value.
func (s *SimpleImputerPicker) Transform(t *frame.Table) (*frame.Table, error) {
	if err := s.beginTransform(t); err != nil {
		return nil, err
	}
	out := t
	for _, name := range s.learned {
		col, err := requireColumn(out, "SimpleImputerPicker.Transform", name)
		if err != nil {
			return nil, err
		}
		if col.NullCount() == 0 {
			continue
		}
		fill := s.fills[name]
		if err := checkFillKind(col, fill); err != nil {
			return nil, err
		}
		values := col.Values()
		for i, v := range values {
			if v == nil {
				values[i] = fill
			}
		}
		filled, err := columnLike(col, values)
		if err != nil {
			return nil, err
		}
		if out, err = out.With(filled); err != nil {
			return nil, err
		}
	}
	s.transformed(out)
	return out, nil
}

// FitTransform fits and transforms t.
func (s *SimpleImputerPicker) FitTransform(t *frame.Table) (*frame.Table, error) {
	return fitTransform(s, t)
}

// FillValues returns the learned fill value per column.
func (s *SimpleImputerPicker) FillValues() map[string]any {
	out := make(map[string]any, len(s.fills))
	for k, v := range s.fills {
		out[k] = v
	}
	return out
}

// GetParams returns the configuration.
func (s *SimpleImputerPicker) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy":        s.strategy,
		"constant_groups": s.groups,
		"cols_to_impute":  copyStrings(s.columns),
	}
}
