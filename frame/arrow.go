package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/ivande/combiner/pkg/errors"
)

// CategoricalMetadataKey marks categorical columns in Arrow field metadata.
const CategoricalMetadataKey = "categorical"

// FromArrow converts an Arrow record into a Table.
// float64, int64 and int32 become Float, string becomes String, and
// date32 and timestamp become Time (UTC).
func FromArrow(rec arrow.Record) (*Table, error) {
	schema := rec.Schema()
	nrows := int(rec.NumRows())
	cols := make([]*Column, 0, rec.NumCols())

	for i := 0; i < int(rec.NumCols()); i++ {
		field := schema.Field(i)
		col, err := columnFromArrow(field.Name, rec.Column(i))
		if err != nil {
			return nil, err
		}
		if idx := field.Metadata.FindKey(CategoricalMetadataKey); idx >= 0 && field.Metadata.Values()[idx] == "true" {
			col = col.AsCategorical(true)
		}
		cols = append(cols, col)
	}

	if len(cols) == 0 {
		return NewWithRows(nrows), nil
	}
	return New(cols...)
}

func columnFromArrow(name string, arr arrow.Array) (*Column, error) {
	n := arr.Len()
	switch a := arr.(type) {
	case *array.Float64:
		vals := make([]float64, n)
		for i := range vals {
			if a.IsNull(i) {
				vals[i] = math.NaN()
				continue
			}
			vals[i] = a.Value(i)
		}
		return NewFloat(name, vals), nil
	case *array.Int64:
		vals := make([]float64, n)
		for i := range vals {
			if a.IsNull(i) {
				vals[i] = math.NaN()
				continue
			}
			vals[i] = float64(a.Value(i))
		}
		return NewFloat(name, vals), nil
	case *array.Int32:
		vals := make([]float64, n)
		for i := range vals {
			if a.IsNull(i) {
				vals[i] = math.NaN()
				continue
			}
			vals[i] = float64(a.Value(i))
		}
		return NewFloat(name, vals), nil
	case *array.String:
		vals := make([]string, n)
		nulls := make([]bool, n)
		for i := range vals {
			if a.IsNull(i) {
				nulls[i] = true
				continue
			}
			vals[i] = a.Value(i)
		}
		return NewStringWithNulls(name, vals, nulls), nil
	case *array.Date32:
		vals := make([]time.Time, n)
		for i := range vals {
			if a.IsNull(i) {
				continue
			}
			vals[i] = time.Unix(int64(a.Value(i))*86400, 0).UTC()
		}
		return NewTime(name, vals), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		vals := make([]time.Time, n)
		for i := range vals {
			if a.IsNull(i) {
				continue
			}
			vals[i] = timestampToTime(int64(a.Value(i)), unit)
		}
		return NewTime(name, vals), nil
	default:
		return nil, errors.NewValidationError(name, "unsupported arrow type", arr.DataType().String())
	}
}

func timestampToTime(ts int64, unit arrow.TimeUnit) time.Time {
	switch unit {
	case arrow.Second:
		return time.Unix(ts, 0).UTC()
	case arrow.Millisecond:
		return time.UnixMilli(ts).UTC()
	case arrow.Microsecond:
		return time.UnixMicro(ts).UTC()
	default:
		return time.Unix(0, ts).UTC()
	}
}

// ToArrow converts the table into an Arrow record. Time columns become
// microsecond UTC timestamps. The caller owns the record and must Release it.
func (t *Table) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	fields := make([]arrow.Field, len(t.cols))
	arrs := make([]arrow.Array, len(t.cols))
	defer func() {
		for _, a := range arrs {
			if a != nil {
				a.Release()
			}
		}
	}()

	for i, c := range t.cols {
		field := arrow.Field{Name: c.Name(), Nullable: true}
		if c.Categorical() {
			field.Metadata = arrow.NewMetadata([]string{CategoricalMetadataKey}, []string{"true"})
		}

		switch c.Kind() {
		case Float:
			field.Type = arrow.PrimitiveTypes.Float64
			b := array.NewFloat64Builder(mem)
			for j := 0; j < c.Len(); j++ {
				if c.IsNull(j) {
					b.AppendNull()
					continue
				}
				b.Append(c.Float(j))
			}
			arrs[i] = b.NewArray()
			b.Release()
		case String:
			field.Type = arrow.BinaryTypes.String
			b := array.NewStringBuilder(mem)
			for j := 0; j < c.Len(); j++ {
				if c.IsNull(j) {
					b.AppendNull()
					continue
				}
				b.Append(c.Str(j))
			}
			arrs[i] = b.NewArray()
			b.Release()
		case Time:
			tsType := &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
			field.Type = tsType
			b := array.NewTimestampBuilder(mem, tsType)
			for j := 0; j < c.Len(); j++ {
				if c.IsNull(j) {
					b.AppendNull()
					continue
				}
				b.Append(arrow.Timestamp(c.Time(j).UnixMicro()))
			}
			arrs[i] = b.NewArray()
			b.Release()
		default:
			return nil, errors.NewValidationError(c.Name(), fmt.Sprintf("unsupported kind %d", c.Kind()), nil)
		}
		fields[i] = field
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrs, int64(t.nrows)), nil
}
