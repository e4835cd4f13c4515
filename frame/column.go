package frame

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/ivande/combiner/pkg/errors"
)

// Kind is the logical type of a column.
type Kind int

const (
	// Float is a nullable float64 column. NaN marks a null.
	Float Kind = iota
	// String is a nullable string column.
	String
	// Time is a nullable date/time column. The zero time marks a null.
	Time
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case String:
		return "string"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Column is an immutable named sequence of values of one Kind.
// Constructors copy their input, so a Column can be shared between tables.
type Column struct {
	name        string
	kind        Kind
	nums        []float64
	strs        []string
	nulls       []bool // String only
	times       []time.Time
	categorical bool
}

// NewFloat creates a Float column. NaN values are nulls.
func NewFloat(name string, values []float64) *Column {
	nums := make([]float64, len(values))
	copy(nums, values)
	return &Column{name: name, kind: Float, nums: nums}
}

// NewString creates a String column without nulls.
func NewString(name string, values []string) *Column {
	return NewStringWithNulls(name, values, nil)
}

// NewStringWithNulls creates a String column. nulls may be nil or must have
// the same length as values.
func NewStringWithNulls(name string, values []string, nulls []bool) *Column {
	strs := make([]string, len(values))
	copy(strs, values)
	ns := make([]bool, len(values))
	copy(ns, nulls)
	return &Column{name: name, kind: String, strs: strs, nulls: ns}
}

// NewTime creates a Time column. Zero times are nulls.
func NewTime(name string, values []time.Time) *Column {
	times := make([]time.Time, len(values))
	copy(times, values)
	return &Column{name: name, kind: Time, times: times}
}

// FromValues builds a column by inferring its kind from the non-nil values.
// Numbers become Float, strings String and time.Time Time; nil is a null.
// A column of only nils is Float.
func FromValues(name string, values []any) (*Column, error) {
	kind := Float
infer:
	for _, v := range values {
		if v == nil {
			continue
		}
		switch v.(type) {
		case string:
			kind = String
		case time.Time:
			kind = Time
		}
		break infer
	}

	switch kind {
	case String:
		strs := make([]string, len(values))
		nulls := make([]bool, len(values))
		for i, v := range values {
			if v == nil {
				nulls[i] = true
				continue
			}
			s, ok := v.(string)
			if !ok {
				return nil, errors.NewValidationError(name, "mixed value types in string column", v)
			}
			strs[i] = s
		}
		return &Column{name: name, kind: String, strs: strs, nulls: nulls}, nil
	case Time:
		times := make([]time.Time, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			tv, ok := v.(time.Time)
			if !ok {
				return nil, errors.NewValidationError(name, "mixed value types in time column", v)
			}
			times[i] = tv
		}
		return &Column{name: name, kind: Time, times: times}, nil
	default:
		nums := make([]float64, len(values))
		for i, v := range values {
			if v == nil {
				nums[i] = math.NaN()
				continue
			}
			f, ok := ToFloat(v)
			if !ok {
				return nil, errors.NewValidationError(name, "mixed value types in numeric column", v)
			}
			nums[i] = f
		}
		return &Column{name: name, kind: Float, nums: nums}, nil
	}
}

// ToFloat converts Go numeric values to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// KindOf returns the column kind a Go value would be stored as.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case string:
		return String, true
	case time.Time:
		return Time, true
	}
	if _, ok := ToFloat(v); ok {
		return Float, true
	}
	return 0, false
}

func (c *Column) Name() string { return c.name }

func (c *Column) Kind() Kind { return c.kind }

// Categorical reports whether the column has been marked categorical.
func (c *Column) Categorical() bool { return c.categorical }

// Len returns the number of rows.
func (c *Column) Len() int {
	switch c.kind {
	case String:
		return len(c.strs)
	case Time:
		return len(c.times)
	default:
		return len(c.nums)
	}
}

// IsNull reports whether row i holds no value.
func (c *Column) IsNull(i int) bool {
	switch c.kind {
	case String:
		return c.nulls[i]
	case Time:
		return c.times[i].IsZero()
	default:
		return math.IsNaN(c.nums[i])
	}
}

// NullCount returns the number of null rows.
func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// AllNull reports whether the column has no values at all. A zero-length
// column counts as all null.
func (c *Column) AllNull() bool {
	return c.NullCount() == c.Len()
}

// Float returns row i of a Float column (NaN for null).
func (c *Column) Float(i int) float64 { return c.nums[i] }

// Str returns row i of a String column ("" for null).
func (c *Column) Str(i int) string { return c.strs[i] }

// Time returns row i of a Time column (zero for null).
func (c *Column) Time(i int) time.Time { return c.times[i] }

// Value returns row i boxed, or nil when the row is null.
func (c *Column) Value(i int) any {
	if c.IsNull(i) {
		return nil
	}
	switch c.kind {
	case String:
		return c.strs[i]
	case Time:
		return c.times[i]
	default:
		return c.nums[i]
	}
}

// Values returns every row boxed; nulls are nil.
func (c *Column) Values() []any {
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.Value(i)
	}
	return out
}

// Floats returns a copy of a Float column's data.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.nums))
	copy(out, c.nums)
	return out
}

// Strings returns copies of a String column's values and null mask.
func (c *Column) Strings() ([]string, []bool) {
	strs := make([]string, len(c.strs))
	copy(strs, c.strs)
	nulls := make([]bool, len(c.nulls))
	copy(nulls, c.nulls)
	return strs, nulls
}

// Times returns a copy of a Time column's data.
func (c *Column) Times() []time.Time {
	out := make([]time.Time, len(c.times))
	copy(out, c.times)
	return out
}

// NonNullFloats returns the non-null values of a Float column in row order.
func (c *Column) NonNullFloats() []float64 {
	out := make([]float64, 0, len(c.nums))
	for _, v := range c.nums {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// NUnique counts distinct non-null values.
func (c *Column) NUnique() int {
	seen := make(map[any]struct{})
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		seen[c.key(i)] = struct{}{}
	}
	return len(seen)
}

func (c *Column) key(i int) any {
	switch c.kind {
	case String:
		return c.strs[i]
	case Time:
		return c.times[i].UnixNano()
	default:
		return c.nums[i]
	}
}

// Categories returns the sorted distinct non-null values rendered as strings.
func (c *Column) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		s := FormatValue(c.Value(i))
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// FormatValue renders a cell value the way Categories and String show it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<null>"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// Rename returns a copy of the column under a new name.
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}

// AsCategorical returns a copy of the column with the categorical flag set.
func (c *Column) AsCategorical(categorical bool) *Column {
	cp := *c
	cp.categorical = categorical
	return &cp
}

// Clone returns a deep copy.
func (c *Column) Clone() *Column {
	var cp *Column
	switch c.kind {
	case String:
		cp = NewStringWithNulls(c.name, c.strs, c.nulls)
	case Time:
		cp = NewTime(c.name, c.times)
	default:
		cp = NewFloat(c.name, c.nums)
	}
	cp.categorical = c.categorical
	return cp
}

// take returns the rows at idx, preserving name, kind and flag.
func (c *Column) take(idx []int) *Column {
	out := &Column{name: c.name, kind: c.kind, categorical: c.categorical}
	switch c.kind {
	case String:
		out.strs = make([]string, len(idx))
		out.nulls = make([]bool, len(idx))
		for i, j := range idx {
			out.strs[i] = c.strs[j]
			out.nulls[i] = c.nulls[j]
		}
	case Time:
		out.times = make([]time.Time, len(idx))
		for i, j := range idx {
			out.times[i] = c.times[j]
		}
	default:
		out.nums = make([]float64, len(idx))
		for i, j := range idx {
			out.nums[i] = c.nums[j]
		}
	}
	return out
}

// appendValue returns a copy of c with v appended. v must be nil or match the kind.
func (c *Column) appendValue(v any) (*Column, error) {
	out := c.Clone()
	if v == nil {
		switch c.kind {
		case String:
			out.strs = append(out.strs, "")
			out.nulls = append(out.nulls, true)
		case Time:
			out.times = append(out.times, time.Time{})
		default:
			out.nums = append(out.nums, math.NaN())
		}
		return out, nil
	}

	switch c.kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, errors.NewValidationError(c.name, "value does not match column kind string", v)
		}
		out.strs = append(out.strs, s)
		out.nulls = append(out.nulls, false)
	case Time:
		tv, ok := v.(time.Time)
		if !ok {
			return nil, errors.NewValidationError(c.name, "value does not match column kind time", v)
		}
		out.times = append(out.times, tv)
	default:
		f, ok := ToFloat(v)
		if !ok {
			return nil, errors.NewValidationError(c.name, "value does not match column kind float", v)
		}
		out.nums = append(out.nums, f)
	}
	return out, nil
}

// less orders rows i and j; nulls sort last.
func (c *Column) less(i, j int) bool {
	ni, nj := c.IsNull(i), c.IsNull(j)
	if ni || nj {
		return !ni && nj
	}
	switch c.kind {
	case String:
		return c.strs[i] < c.strs[j]
	case Time:
		return c.times[i].Before(c.times[j])
	default:
		return c.nums[i] < c.nums[j]
	}
}
