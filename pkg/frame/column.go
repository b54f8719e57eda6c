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
	"math"
	"slices"
	"strconv"
	"time"
)

// DateLayout is the textual form of a date value.
const DateLayout = "2006-01-02"

// Column is a named, typed array of values with an optional validity mask.
// Integer and floating point data share the same float64 storage, whilst
// datetimes, dates and durations are stored as microseconds.
type Column struct {
	name string
	kind Kind
	// Int and Float data
	floats []float64
	// Bool data
	bools []bool
	// Datetime, Date and Duration data (microseconds)
	micros []int64
	// String data
	strs []string
	// Validity mask, where nil means every row is valid.
	valid []bool
}

// NewNumericColumn constructs a numeric column of the given kind.  The validity
// mask may be nil, indicating that there are no nulls.
func NewNumericColumn(name string, kind Kind, values []float64, valid []bool) *Column {
	if !kind.IsNumeric() {
		panic(fmt.Sprintf("kind %s is not numeric", kind))
	}
	//
	return &Column{name: name, kind: kind, floats: values, valid: normaliseMask(valid)}
}

// NewFloatColumn constructs a floating point column.
func NewFloatColumn(name string, values ...float64) *Column {
	return NewNumericColumn(name, KindFloat, values, nil)
}

// NewIntColumn constructs an integer column.
func NewIntColumn(name string, values ...int64) *Column {
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = float64(v)
	}
	//
	return NewNumericColumn(name, KindInt, floats, nil)
}

// NewBoolColumn constructs a boolean column.
func NewBoolColumn(name string, values ...bool) *Column {
	return &Column{name: name, kind: KindBool, bools: values}
}

// NewTimeColumn constructs a datetime or date column.  Date values are
// truncated to midnight UTC.
func NewTimeColumn(name string, kind Kind, values ...time.Time) *Column {
	if !kind.IsTemporal() {
		panic(fmt.Sprintf("kind %s is not temporal", kind))
	}
	//
	micros := make([]int64, len(values))
	for i, v := range values {
		micros[i] = toMicros(kind, v)
	}
	//
	return &Column{name: name, kind: kind, micros: micros}
}

// NewDurationColumn constructs a duration column.
func NewDurationColumn(name string, values ...time.Duration) *Column {
	micros := make([]int64, len(values))
	for i, v := range values {
		micros[i] = v.Microseconds()
	}
	//
	return &Column{name: name, kind: KindDuration, micros: micros}
}

// NewMicrosColumn constructs a datetime, date or duration column directly
// from microsecond values.
func NewMicrosColumn(name string, kind Kind, values []int64, valid []bool) *Column {
	if !kind.IsTemporal() && kind != KindDuration {
		panic(fmt.Sprintf("kind %s is not a time kind", kind))
	}
	//
	return &Column{name: name, kind: kind, micros: values, valid: normaliseMask(valid)}
}

// NewStringColumn constructs a string column.
func NewStringColumn(name string, values ...string) *Column {
	return &Column{name: name, kind: KindString, strs: values}
}

// NewNullColumn constructs a column of a given kind and height, where every
// row is null.
func NewNullColumn(name string, kind Kind, height uint) *Column {
	col := newColumn(name, kind, height)
	col.valid = make([]bool, height)
	//
	return col
}

func newColumn(name string, kind Kind, height uint) *Column {
	col := &Column{name: name, kind: kind}
	//
	switch kind {
	case KindInt, KindFloat:
		col.floats = make([]float64, height)
	case KindBool:
		col.bools = make([]bool, height)
	case KindDatetime, KindDate, KindDuration:
		col.micros = make([]int64, height)
	case KindString:
		col.strs = make([]string, height)
	default:
		panic(fmt.Sprintf("unknown kind %s", kind))
	}
	//
	return col
}

// WithNulls returns a copy of this column where the given rows are null.
func (c *Column) WithNulls(rows ...uint) *Column {
	ncol := *c
	ncol.valid = make([]bool, c.Height())
	//
	for i := range ncol.valid {
		ncol.valid[i] = c.Valid(uint(i))
	}
	//
	for _, r := range rows {
		ncol.valid[r] = false
	}
	//
	ncol.valid = normaliseMask(ncol.valid)
	//
	return &ncol
}

// WithValidity returns a copy of this column with the given validity mask,
// where nil means every row is valid.  The underlying data is shared.
func (c *Column) WithValidity(valid []bool) *Column {
	if valid != nil && uint(len(valid)) != c.Height() {
		panic(fmt.Sprintf("validity mask has %d rows, column has %d", len(valid), c.Height()))
	}
	//
	ncol := *c
	ncol.valid = normaliseMask(valid)
	//
	return &ncol
}

// Name returns the name of this column.
func (c *Column) Name() string {
	return c.name
}

// Kind returns the kind of this column.
func (c *Column) Kind() Kind {
	return c.kind
}

// Height returns the number of rows in this column.
func (c *Column) Height() uint {
	switch c.kind {
	case KindInt, KindFloat:
		return uint(len(c.floats))
	case KindBool:
		return uint(len(c.bools))
	case KindString:
		return uint(len(c.strs))
	default:
		return uint(len(c.micros))
	}
}

// Floats returns the underlying data of a numeric column.  Values at null
// rows are unspecified.
func (c *Column) Floats() []float64 {
	c.expect(c.kind.IsNumeric(), "numeric")
	return c.floats
}

// Bools returns the underlying data of a boolean column.
func (c *Column) Bools() []bool {
	c.expect(c.kind == KindBool, "boolean")
	return c.bools
}

// Micros returns the underlying data of a datetime, date or duration column.
func (c *Column) Micros() []int64 {
	c.expect(c.kind.IsTemporal() || c.kind == KindDuration, "time")
	return c.micros
}

// Strings returns the underlying data of a string column.
func (c *Column) Strings() []string {
	c.expect(c.kind == KindString, "string")
	return c.strs
}

func (c *Column) expect(ok bool, what string) {
	if !ok {
		panic(fmt.Sprintf("column %s has kind %s, not %s", c.name, c.kind, what))
	}
}

// Valid checks whether the given row holds a value (i.e. is not null).
func (c *Column) Valid(row uint) bool {
	return c.valid == nil || c.valid[row]
}

// Validity returns the validity mask of this column, or nil when there are no
// nulls.
func (c *Column) Validity() []bool {
	return c.valid
}

// NullCount returns the number of null rows.
func (c *Column) NullCount() uint {
	var n uint
	//
	for _, v := range c.valid {
		if !v {
			n++
		}
	}
	//
	return n
}

// Value returns the value at a given row as a Go value (float64, int64, bool,
// time.Time, time.Duration or string), or nil for a null row.
func (c *Column) Value(row uint) any {
	if !c.Valid(row) {
		return nil
	}
	//
	switch c.kind {
	case KindInt:
		return int64(c.floats[row])
	case KindFloat:
		return c.floats[row]
	case KindBool:
		return c.bools[row]
	case KindDatetime, KindDate:
		return time.UnixMicro(c.micros[row]).UTC()
	case KindDuration:
		return time.Duration(c.micros[row]) * time.Microsecond
	default:
		return c.strs[row]
	}
}

// Text returns a human-readable rendering of the value at a given row.
func (c *Column) Text(row uint) string {
	if !c.Valid(row) {
		return "null"
	}
	//
	switch c.kind {
	case KindInt:
		if v := c.floats[row]; v == math.Trunc(v) && math.Abs(v) < 1e18 {
			return strconv.FormatInt(int64(v), 10)
		}
		//
		return strconv.FormatFloat(c.floats[row], 'g', -1, 64)
	case KindFloat:
		return strconv.FormatFloat(c.floats[row], 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.bools[row])
	case KindDatetime:
		return time.UnixMicro(c.micros[row]).UTC().Format(time.RFC3339Nano)
	case KindDate:
		return time.UnixMicro(c.micros[row]).UTC().Format(DateLayout)
	case KindDuration:
		return (time.Duration(c.micros[row]) * time.Microsecond).String()
	default:
		return c.strs[row]
	}
}

// key returns a string identifying the value at a given row, such that two
// rows have the same key iff they hold equal values.  Values are quoted, hence
// keys can be concatenated unambiguously and never collide with the null key.
func (c *Column) key(row uint) string {
	if !c.Valid(row) {
		return "null"
	}
	//
	return strconv.Quote(c.Text(row))
}

// Rename returns a copy of this column with a different name.  The underlying
// data is shared.
func (c *Column) Rename(name string) *Column {
	ncol := *c
	ncol.name = name
	//
	return &ncol
}

// Take returns a new column made from the given rows of this column.
func (c *Column) Take(rows []uint) *Column {
	ncol := newColumn(c.name, c.kind, uint(len(rows)))
	//
	for i, r := range rows {
		ncol.copyRow(uint(i), c, r)
	}
	//
	ncol.valid = normaliseMask(ncol.valid)
	//
	return ncol
}

// Equal checks whether two columns have the same name, kind and values.  Null
// rows compare equal regardless of underlying data, as do NaN values.
func (c *Column) Equal(other *Column) bool {
	if c.name != other.name || c.kind != other.kind || c.Height() != other.Height() {
		return false
	}
	//
	for i := uint(0); i < c.Height(); i++ {
		if c.Valid(i) != other.Valid(i) {
			return false
		} else if !c.Valid(i) {
			continue
		}
		//
		switch c.kind {
		case KindInt, KindFloat:
			l, r := c.floats[i], other.floats[i]
			if l != r && !(math.IsNaN(l) && math.IsNaN(r)) {
				return false
			}
		default:
			if c.key(i) != other.key(i) {
				return false
			}
		}
	}
	//
	return true
}

// copyRow copies a single row from another column of the same kind.
func (c *Column) copyRow(dst uint, src *Column, row uint) {
	switch c.kind {
	case KindInt, KindFloat:
		c.floats[dst] = src.floats[row]
	case KindBool:
		c.bools[dst] = src.bools[row]
	case KindDatetime, KindDate, KindDuration:
		c.micros[dst] = src.micros[row]
	default:
		c.strs[dst] = src.strs[row]
	}
	//
	if !src.Valid(row) {
		c.setNull(dst)
	} else if c.valid != nil {
		c.valid[dst] = true
	}
}

func (c *Column) setNull(row uint) {
	if c.valid == nil {
		c.valid = make([]bool, c.Height())
		for i := range c.valid {
			c.valid[i] = true
		}
	}
	//
	c.valid[row] = false
}

// normaliseMask drops a validity mask which has no nulls.
func normaliseMask(valid []bool) []bool {
	if !slices.Contains(valid, false) {
		return nil
	}
	//
	return valid
}

func toMicros(kind Kind, t time.Time) int64 {
	t = t.UTC()
	//
	if kind == KindDate {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	//
	return t.UnixMicro()
}
