// Package frame provides Table, the in-memory tabular structure every
// transformer consumes and produces.
//
// A Table is an ordered list of named columns sharing one row count.
// Operations never mutate the receiver; they return a new Table that may
// share immutable columns with the old one.
package frame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ivande/combiner/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Table is an ordered set of equally long named columns.
type Table struct {
	cols  []*Column
	index map[string]int
	nrows int
}

// New creates a table from columns. All columns must have the same length
// and distinct names.
func New(cols ...*Column) (*Table, error) {
	nrows := 0
	if len(cols) > 0 {
		nrows = cols[0].Len()
	}
	t := &Table{index: make(map[string]int, len(cols)), nrows: nrows}
	for _, c := range cols {
		if c == nil {
			return nil, errors.NewValidationError("cols", "nil column", nil)
		}
		if _, dup := t.index[c.Name()]; dup {
			return nil, errors.NewValidationError("cols", "duplicate column name", c.Name())
		}
		if c.Len() != nrows {
			return nil, errors.NewDimensionError("frame.New", nrows, c.Len(), 0)
		}
		t.index[c.Name()] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewWithRows creates a table with no columns and n rows.
func NewWithRows(n int) *Table {
	return &Table{index: map[string]int{}, nrows: n}
}

func (t *Table) NumRows() int { return t.nrows }

func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// ColumnAt returns the i-th column.
func (t *Table) ColumnAt(i int) *Column { return t.cols[i] }

// Present filters names to those that exist in the table, keeping their order.
func (t *Table) Present(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if t.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

func (t *Table) withColumns(cols []*Column) *Table {
	out := &Table{cols: cols, index: make(map[string]int, len(cols)), nrows: t.nrows}
	for i, c := range cols {
		out.index[c.Name()] = i
	}
	return out
}

// Clone returns a table with deep-copied columns.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Clone()
	}
	return t.withColumns(cols)
}

// Drop returns the table without the named columns. Every name must exist.
// The row count is kept even when all columns are dropped.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !t.Has(n) {
			return nil, errors.NewColumnNotFoundError("Drop", n)
		}
		drop[n] = true
	}
	cols := make([]*Column, 0, len(t.cols))
	for _, c := range t.cols {
		if !drop[c.Name()] {
			cols = append(cols, c)
		}
	}
	return t.withColumns(cols), nil
}

// Select returns the named columns in the given order. Every name must exist.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, errors.NewColumnNotFoundError("Select", n)
		}
		if seen[n] {
			return nil, errors.NewValidationError("names", "duplicate column name", n)
		}
		seen[n] = true
		cols = append(cols, c)
	}
	return t.withColumns(cols), nil
}

// With returns the table with col replacing the column of the same name,
// or appended at the end when no such column exists.
func (t *Table) With(col *Column) (*Table, error) {
	if col.Len() != t.nrows {
		return nil, errors.NewDimensionError("With", t.nrows, col.Len(), 0)
	}
	cols := make([]*Column, len(t.cols), len(t.cols)+1)
	copy(cols, t.cols)
	if i, ok := t.index[col.Name()]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return t.withColumns(cols), nil
}

// Row returns row i boxed, nulls as nil.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.Value(i)
	}
	return row
}

// AppendRow returns the table with one more row. row must have one value
// per column; nil appends a null.
func (t *Table) AppendRow(row []any) (*Table, error) {
	if len(row) != len(t.cols) {
		return nil, errors.NewValueError("AppendRow",
			fmt.Sprintf("length of row %d does not match number of columns %d", len(row), len(t.cols)))
	}
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		nc, err := c.appendValue(row[i])
		if err != nil {
			return nil, err
		}
		cols[i] = nc
	}
	out := t.withColumns(cols)
	out.nrows = t.nrows + 1
	return out, nil
}

// Concat stacks the rows of b under a. Both tables must have the same
// column names, order and kinds.
func Concat(a, b *Table) (*Table, error) {
	if a.NumCols() != b.NumCols() {
		return nil, errors.NewDimensionError("Concat", a.NumCols(), b.NumCols(), 1)
	}
	cols := make([]*Column, len(a.cols))
	for i, ca := range a.cols {
		cb := b.cols[i]
		if ca.Name() != cb.Name() || ca.Kind() != cb.Kind() {
			return nil, errors.NewValidationError(cb.Name(),
				fmt.Sprintf("column does not match %s (%s)", ca.Name(), ca.Kind()), cb.Kind().String())
		}
		out := ca.Clone()
		switch ca.kind {
		case String:
			out.strs = append(out.strs, cb.strs...)
			out.nulls = append(out.nulls, cb.nulls...)
		case Time:
			out.times = append(out.times, cb.times...)
		default:
			out.nums = append(out.nums, cb.nums...)
		}
		cols[i] = out
	}
	res := a.withColumns(cols)
	res.nrows = a.nrows + b.nrows
	return res, nil
}

// SortBy returns the rows stably sorted by the named column, nulls last.
func (t *Table) SortBy(name string) (*Table, error) {
	key, ok := t.Column(name)
	if !ok {
		return nil, errors.NewColumnNotFoundError("SortBy", name)
	}
	idx := make([]int, t.nrows)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return key.less(idx[i], idx[j]) })

	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(idx)
	}
	return t.withColumns(cols), nil
}

// Matrix exports the named Float columns as a rows × len(names) matrix.
// Nulls are NaN.
func (t *Table) Matrix(names ...string) (*mat.Dense, error) {
	if t.nrows == 0 || len(names) == 0 {
		return nil, errors.NewModelError("Matrix", "empty data", errors.ErrEmptyData)
	}
	m := mat.NewDense(t.nrows, len(names), nil)
	for j, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, errors.NewColumnNotFoundError("Matrix", n)
		}
		if c.Kind() != Float {
			return nil, errors.NewValidationError(n, "column is not numeric", c.Kind().String())
		}
		m.SetCol(j, c.nums)
	}
	return m, nil
}

// SetMatrix returns the table with the named Float columns replaced by the
// columns of m. Categorical flags are kept.
func (t *Table) SetMatrix(names []string, m mat.Matrix) (*Table, error) {
	r, c := m.Dims()
	if r != t.nrows {
		return nil, errors.NewDimensionError("SetMatrix", t.nrows, r, 0)
	}
	if c != len(names) {
		return nil, errors.NewDimensionError("SetMatrix", len(names), c, 1)
	}
	out := t
	for j, n := range names {
		old, ok := t.Column(n)
		if !ok {
			return nil, errors.NewColumnNotFoundError("SetMatrix", n)
		}
		vals := make([]float64, r)
		for i := range vals {
			vals[i] = m.At(i, j)
		}
		var err error
		out, err = out.With(NewFloat(n, vals).AsCategorical(old.Categorical()))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// String renders the table as tab separated text.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns(), "\t"))
	b.WriteByte('\n')
	for i := 0; i < t.nrows; i++ {
		for j, c := range t.cols {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(FormatValue(c.Value(i)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
