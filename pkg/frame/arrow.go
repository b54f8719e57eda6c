// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package frame

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/ipc"
	"github.com/apache/arrow/go/v7/arrow/memory"
)

const microsPerDay = int64(86_400_000_000)

// ArrowSchema returns the Arrow schema corresponding to the columns of a
// table.
func ArrowSchema(t *Table) *arrow.Schema {
	fields := make([]arrow.Field, t.Width())
	//
	for i, f := range t.Fields() {
		fields[i] = arrow.Field{Name: f.Name, Type: arrowType(f.Kind), Nullable: true}
	}
	//
	return arrow.NewSchema(fields, nil)
}

func arrowType(kind Kind) arrow.DataType {
	switch kind {
	case KindInt:
		return arrow.PrimitiveTypes.Int64
	case KindFloat:
		return arrow.PrimitiveTypes.Float64
	case KindBool:
		return arrow.FixedWidthTypes.Boolean
	case KindDatetime:
		return arrow.FixedWidthTypes.Timestamp_us
	case KindDate:
		return arrow.PrimitiveTypes.Date32
	case KindDuration:
		return arrow.FixedWidthTypes.Duration_us
	default:
		return arrow.BinaryTypes.String
	}
}

// WriteArrow writes a table as a single record in the Arrow IPC file format.
// The writer must be seekable.
func WriteArrow(w io.WriteSeeker, t *Table) error {
	t, err := t.Materialize()
	if err != nil {
		return err
	}
	//
	mem := memory.NewGoAllocator()
	schema := ArrowSchema(t)
	builder := array.NewRecordBuilder(mem, schema)
	//
	defer builder.Release()
	//
	cols, _ := t.Columns()
	for i, col := range cols {
		appendArrow(builder.Field(i), col)
	}
	//
	record := builder.NewRecord()
	defer record.Release()
	//
	writer, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return err
	}
	//
	if err := writer.Write(record); err != nil {
		return err
	}
	//
	return writer.Close()
}

func appendArrow(b array.Builder, col *Column) {
	n := col.Height()
	valid := col.Validity()
	//
	switch col.Kind() {
	case KindInt:
		ints := make([]int64, n)
		for i, v := range col.Floats() {
			ints[i] = int64(v)
		}
		//
		b.(*array.Int64Builder).AppendValues(ints, valid)
	case KindFloat:
		b.(*array.Float64Builder).AppendValues(col.Floats(), valid)
	case KindBool:
		b.(*array.BooleanBuilder).AppendValues(col.Bools(), valid)
	case KindDatetime:
		ts := make([]arrow.Timestamp, n)
		for i, v := range col.Micros() {
			ts[i] = arrow.Timestamp(v)
		}
		//
		b.(*array.TimestampBuilder).AppendValues(ts, valid)
	case KindDate:
		ds := make([]arrow.Date32, n)
		for i, v := range col.Micros() {
			ds[i] = arrow.Date32(floorDiv(v, microsPerDay))
		}
		//
		b.(*array.Date32Builder).AppendValues(ds, valid)
	case KindDuration:
		ds := make([]arrow.Duration, n)
		for i, v := range col.Micros() {
			ds[i] = arrow.Duration(v)
		}
		//
		b.(*array.DurationBuilder).AppendValues(ds, valid)
	default:
		b.(*array.StringBuilder).AppendValues(col.Strings(), valid)
	}
}

// ReadArrow reads a table from the Arrow IPC file format.  All records in the
// file are concatenated.
func ReadArrow(r ipc.ReadAtSeeker, name string) (*Table, error) {
	reader, err := ipc.NewFileReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, err
	}
	//
	defer reader.Close()
	//
	schema := reader.Schema()
	parts := make([][]*Column, len(schema.Fields()))
	//
	for i := 0; i < reader.NumRecords(); i++ {
		record, err := reader.Record(i)
		if err != nil {
			return nil, err
		}
		//
		for j := 0; j < int(record.NumCols()); j++ {
			col, err := fromArrow(record.ColumnName(j), record.Column(j))
			if err != nil {
				return nil, err
			}
			//
			parts[j] = append(parts[j], col)
		}
	}
	//
	columns := make([]*Column, len(parts))
	//
	for j, field := range schema.Fields() {
		kind, err := kindOf(field.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field.Name, err)
		}
		//
		columns[j] = concat(field.Name, kind, parts[j])
	}
	//
	return NewTable(name, columns...)
}

func kindOf(dt arrow.DataType) (Kind, error) {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64, arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return KindInt, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return KindFloat, nil
	case arrow.BOOL:
		return KindBool, nil
	case arrow.TIMESTAMP:
		return KindDatetime, nil
	case arrow.DATE32, arrow.DATE64:
		return KindDate, nil
	case arrow.DURATION:
		return KindDuration, nil
	case arrow.STRING:
		return KindString, nil
	default:
		return 0, fmt.Errorf("unsupported arrow type %s", dt)
	}
}

func fromArrow(name string, arr arrow.Array) (*Column, error) {
	kind, err := kindOf(arr.DataType())
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	//
	n := uint(arr.Len())
	col := newColumn(name, kind, n)
	//
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.setNull(uint(i))
			continue
		}
		//
		switch a := arr.(type) {
		case *array.Int8:
			col.floats[i] = float64(a.Value(i))
		case *array.Int16:
			col.floats[i] = float64(a.Value(i))
		case *array.Int32:
			col.floats[i] = float64(a.Value(i))
		case *array.Int64:
			col.floats[i] = float64(a.Value(i))
		case *array.Uint8:
			col.floats[i] = float64(a.Value(i))
		case *array.Uint16:
			col.floats[i] = float64(a.Value(i))
		case *array.Uint32:
			col.floats[i] = float64(a.Value(i))
		case *array.Uint64:
			col.floats[i] = float64(a.Value(i))
		case *array.Float32:
			col.floats[i] = float64(a.Value(i))
		case *array.Float64:
			col.floats[i] = a.Value(i)
		case *array.Boolean:
			col.bools[i] = a.Value(i)
		case *array.Timestamp:
			unit := a.DataType().(*arrow.TimestampType).Unit
			col.micros[i] = toMicrosUnit(int64(a.Value(i)), unit)
		case *array.Date32:
			col.micros[i] = int64(a.Value(i)) * microsPerDay
		case *array.Date64:
			col.micros[i] = floorDiv(int64(a.Value(i)), 86_400_000) * microsPerDay
		case *array.Duration:
			unit := a.DataType().(*arrow.DurationType).Unit
			col.micros[i] = toMicrosUnit(int64(a.Value(i)), unit)
		case *array.String:
			col.strs[i] = a.Value(i)
		}
	}
	//
	return col, nil
}

func toMicrosUnit(v int64, unit arrow.TimeUnit) int64 {
	switch unit {
	case arrow.Second:
		return v * 1_000_000
	case arrow.Millisecond:
		return v * 1_000
	case arrow.Nanosecond:
		return v / 1_000
	default:
		return v
	}
}

func concat(name string, kind Kind, parts []*Column) *Column {
	var height uint
	for _, p := range parts {
		height += p.Height()
	}
	//
	col := newColumn(name, kind, height)
	row := uint(0)
	//
	for _, p := range parts {
		for i := uint(0); i < p.Height(); i++ {
			col.copyRow(row, p, i)
			row++
		}
	}
	//
	col.valid = normaliseMask(col.valid)
	//
	return col
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	//
	return q
}
