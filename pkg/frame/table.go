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
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrUnknownColumn is returned when a column is referenced which is not in
	// the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrColumnExists is returned when adding a column whose name is already
	// taken.
	ErrColumnExists = errors.New("column already exists")
	// ErrGroupInput is returned when a group column is also used as an input.
	ErrGroupInput = errors.New("group column cannot be used as an input")
	// ErrHeightMismatch is returned when columns of different heights are
	// combined.
	ErrHeightMismatch = errors.New("column height mismatch")
	// ErrKindMismatch is returned when a computed column does not have its
	// declared kind.
	ErrKindMismatch = errors.New("column kind mismatch")
	// ErrOutputCount is returned when a computation produces the wrong number
	// of columns.
	ErrOutputCount = errors.New("wrong number of output columns")
	// ErrPendingColumns is returned for operations which require a
	// materialised table.
	ErrPendingColumns = errors.New("table has deferred columns")
)

// Field describes a column by name and kind, without its data.
type Field struct {
	Name string
	Kind Kind
}

// Expr describes a deferred computation over the columns of a table.  Compute
// receives the input columns (in order) and must return one column per
// output, either of the input height or of height one (which is then
// broadcast).  Returned names are ignored, and integer results may be
// returned as floats (or vice versa).
type Expr struct {
	Inputs  []string
	Outputs []Field
	Compute func(inputs []*Column) ([]*Column, error)
}

type deferred struct {
	expr   Expr
	groups []string
}

// Table is an ordered collection of equal-height columns.  Tables are
// immutable: every operation returns a new table, sharing column data with
// the original.  In lazy mode, WithColumns only records the computation and
// columns are produced by Materialize.
type Table struct {
	name    string
	height  uint
	fields  []Field
	columns map[string]*Column
	pending []deferred
	lazy    bool
}

// NewTable constructs a table from a given set of columns, which must have
// distinct names and equal heights.
func NewTable(name string, columns ...*Column) (*Table, error) {
	t := &Table{name: name, columns: make(map[string]*Column)}
	//
	for i, col := range columns {
		if i == 0 {
			t.height = col.Height()
		} else if col.Height() != t.height {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrHeightMismatch, col.Name(),
				col.Height(), t.height)
		}
		//
		if t.HasColumn(col.Name()) {
			return nil, fmt.Errorf("%w: %q", ErrColumnExists, col.Name())
		}
		//
		t.fields = append(t.fields, Field{col.Name(), col.Kind()})
		t.columns[col.Name()] = col
	}
	//
	return t, nil
}

// MustNewTable is as NewTable, but panics on error.
func MustNewTable(name string, columns ...*Column) *Table {
	t, err := NewTable(name, columns...)
	if err != nil {
		panic(err)
	}
	//
	return t
}

// Name returns the name of this table.
func (t *Table) Name() string {
	return t.name
}

// Height returns the number of rows in this table.
func (t *Table) Height() uint {
	return t.height
}

// Width returns the number of columns in this table, including deferred
// columns.
func (t *Table) Width() uint {
	return uint(len(t.fields))
}

// Fields returns the name and kind of every column, in order.
func (t *Table) Fields() []Field {
	return slices.Clone(t.fields)
}

// ColumnNames returns the names of all columns, in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	//
	return names
}

// HasColumn checks whether a column of the given name exists (deferred or
// not).
func (t *Table) HasColumn(name string) bool {
	return t.find(name) >= 0
}

func (t *Table) find(name string) int {
	return slices.IndexFunc(t.fields, func(f Field) bool { return f.Name == name })
}

// Kind returns the kind of a given column.
func (t *Table) Kind(name string) (Kind, error) {
	if i := t.find(name); i >= 0 {
		return t.fields[i].Kind, nil
	}
	//
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Column returns the data of a given column.  This fails for a deferred
// column which has not yet been materialised.
func (t *Table) Column(name string) (*Column, error) {
	if col, ok := t.columns[name]; ok {
		return col, nil
	} else if t.HasColumn(name) {
		return nil, fmt.Errorf("%w: %q", ErrPendingColumns, name)
	}
	//
	return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Columns returns the data of every column, in order.
func (t *Table) Columns() ([]*Column, error) {
	if len(t.pending) > 0 {
		return nil, ErrPendingColumns
	}
	//
	cols := make([]*Column, len(t.fields))
	for i, f := range t.fields {
		cols[i] = t.columns[f.Name]
	}
	//
	return cols, nil
}

// IsLazy checks whether this table defers computation.
func (t *Table) IsLazy() bool {
	return t.lazy
}

// Pending returns the number of deferred computations.
func (t *Table) Pending() uint {
	return uint(len(t.pending))
}

// Lazy returns a copy of this table with deferred computation enabled or
// disabled.
func (t *Table) Lazy(lazy bool) *Table {
	nt := t.clone()
	nt.lazy = lazy
	//
	return nt
}

// Rename returns a copy of this table with a different name.
func (t *Table) Rename(name string) *Table {
	nt := t.clone()
	nt.name = name
	//
	return nt
}

// Select returns the names of all columns whose kind is matched by the given
// selector, in table order, skipping any excluded names.
func (t *Table) Select(sel Selector, exclude ...string) []string {
	var names []string
	//
	for _, f := range t.fields {
		if sel.Match(f.Kind) && !slices.Contains(exclude, f.Name) {
			names = append(names, f.Name)
		}
	}
	//
	return names
}

// Drop returns a copy of this table without the given columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	if len(t.pending) > 0 {
		return nil, ErrPendingColumns
	}
	//
	for _, name := range names {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
	}
	//
	nt := t.clone()
	nt.fields = slices.DeleteFunc(nt.fields, func(f Field) bool {
		return slices.Contains(names, f.Name)
	})
	//
	for _, name := range names {
		delete(nt.columns, name)
	}
	//
	return nt, nil
}

// WithColumns returns a copy of this table extended with the outputs of a given
// expression.  When group columns are given, rows are partitioned by their
// group key and the expression evaluated separately for each partition.  On
// error, no table is returned.
func (t *Table) WithColumns(expr Expr, groups ...string) (*Table, error) {
	for _, g := range groups {
		if !t.HasColumn(g) {
			return nil, fmt.Errorf("%w: group column %q", ErrUnknownColumn, g)
		}
	}
	//
	for _, in := range expr.Inputs {
		if !t.HasColumn(in) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, in)
		} else if slices.Contains(groups, in) {
			return nil, fmt.Errorf("%w: %q", ErrGroupInput, in)
		}
	}
	//
	if len(expr.Outputs) == 0 {
		return nil, fmt.Errorf("%w: expression has no outputs", ErrOutputCount)
	}
	//
	for i, out := range expr.Outputs {
		if t.HasColumn(out.Name) || slices.ContainsFunc(expr.Outputs[:i], func(f Field) bool {
			return f.Name == out.Name
		}) {
			return nil, fmt.Errorf("%w: %q", ErrColumnExists, out.Name)
		}
	}
	//
	d := deferred{expr, slices.Clone(groups)}
	nt := t.clone()
	nt.fields = append(nt.fields, expr.Outputs...)
	//
	if t.lazy {
		nt.pending = append(nt.pending, d)
		return nt, nil
	}
	// Eager evaluation requires everything before to be available.
	if err := nt.materialize(); err != nil {
		return nil, err
	}
	//
	cols, err := nt.evaluate(d)
	if err != nil {
		return nil, err
	}
	//
	for _, col := range cols {
		nt.columns[col.Name()] = col
	}
	//
	return nt, nil
}

// Materialize returns a copy of this table where all deferred computations have
// been performed.
func (t *Table) Materialize() (*Table, error) {
	nt := t.clone()
	if err := nt.materialize(); err != nil {
		return nil, err
	}
	//
	return nt, nil
}

func (t *Table) materialize() error {
	for len(t.pending) > 0 {
		d := t.pending[0]
		//
		cols, err := t.evaluate(d)
		if err != nil {
			return err
		}
		//
		for _, col := range cols {
			t.columns[col.Name()] = col
		}
		//
		t.pending = t.pending[1:]
	}
	//
	t.pending = nil
	//
	return nil
}

func (t *Table) clone() *Table {
	return &Table{
		name:    t.name,
		height:  t.height,
		fields:  slices.Clone(t.fields),
		columns: maps.Clone(t.columns),
		pending: slices.Clone(t.pending),
		lazy:    t.lazy,
	}
}

// evaluate a deferred computation, assuming all of its inputs are available.
func (t *Table) evaluate(d deferred) ([]*Column, error) {
	inputs, err := t.gather(d.expr.Inputs)
	if err != nil {
		return nil, err
	}
	//
	if len(d.groups) == 0 {
		res, err := d.expr.Compute(inputs)
		if err != nil {
			return nil, err
		}
		//
		return conform(d.expr.Outputs, res, t.height)
	}
	//
	keys, err := t.gather(d.groups)
	if err != nil {
		return nil, err
	}
	//
	outputs := make([]*Column, len(d.expr.Outputs))
	for i, f := range d.expr.Outputs {
		outputs[i] = NewNullColumn(f.Name, f.Kind, t.height)
	}
	//
	for _, rows := range partition(keys, t.height) {
		part := make([]*Column, len(inputs))
		for i, in := range inputs {
			part[i] = in.Take(rows)
		}
		//
		res, err := d.expr.Compute(part)
		if err != nil {
			return nil, err
		}
		//
		if res, err = conform(d.expr.Outputs, res, uint(len(rows))); err != nil {
			return nil, err
		}
		//
		for i, col := range res {
			for j, r := range rows {
				outputs[i].copyRow(r, col, uint(j))
			}
		}
	}
	//
	for _, col := range outputs {
		col.valid = normaliseMask(col.valid)
	}
	//
	return outputs, nil
}

func (t *Table) gather(names []string) ([]*Column, error) {
	cols := make([]*Column, len(names))
	//
	for i, name := range names {
		col, ok := t.columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		//
		cols[i] = col
	}
	//
	return cols, nil
}

// partition splits the rows of a table by the values of the given key
// columns.  Partitions are returned in order of first appearance, and rows
// within a partition are in table order.
func partition(keys []*Column, height uint) [][]uint {
	var (
		index = make(map[string]int)
		parts [][]uint
		key   strings.Builder
	)
	//
	for row := uint(0); row < height; row++ {
		key.Reset()
		//
		for _, k := range keys {
			key.WriteString(k.key(row))
			key.WriteByte(',')
		}
		//
		i, ok := index[key.String()]
		if !ok {
			i = len(parts)
			index[key.String()] = i
			parts = append(parts, nil)
		}
		//
		parts[i] = append(parts[i], row)
	}
	//
	return parts
}

// conform checks the results of a computation against its declared outputs,
// renaming and broadcasting as necessary.
func conform(outputs []Field, results []*Column, height uint) ([]*Column, error) {
	if len(results) != len(outputs) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrOutputCount, len(outputs), len(results))
	}
	//
	cols := make([]*Column, len(results))
	//
	for i, col := range results {
		f := outputs[i]
		//
		if col.Kind() != f.Kind {
			if !col.Kind().IsNumeric() || !f.Kind.IsNumeric() {
				return nil, fmt.Errorf("%w: %q computed as %s, declared %s", ErrKindMismatch, f.Name, col.Kind(),
					f.Kind)
			}
		}
		//
		ncol := col.Rename(f.Name)
		ncol.kind = f.Kind
		//
		switch {
		case ncol.Height() == height:
		case ncol.Height() == 1:
			ncol = ncol.Take(make([]uint, height))
		default:
			return nil, fmt.Errorf("%w: %q has %d rows, expected %d", ErrHeightMismatch, f.Name, ncol.Height(), height)
		}
		//
		cols[i] = ncol
	}
	//
	return cols, nil
}
