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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumExpr(name string, inputs ...string) Expr {
	return Expr{
		Inputs:  inputs,
		Outputs: []Field{{name, KindFloat}},
		Compute: func(cols []*Column) ([]*Column, error) {
			data := make([]float64, cols[0].Height())
			for _, c := range cols {
				for i, v := range c.Floats() {
					data[i] += v
				}
			}
			//
			return []*Column{NewFloatColumn(name, data...)}, nil
		},
	}
}

// totalExpr sums a column to a single value.
func totalExpr(name string, input string) Expr {
	return Expr{
		Inputs:  []string{input},
		Outputs: []Field{{name, KindFloat}},
		Compute: func(cols []*Column) ([]*Column, error) {
			total := 0.0
			for _, v := range cols[0].Floats() {
				total += v
			}
			//
			return []*Column{NewFloatColumn(name, total)}, nil
		},
	}
}

func testTable() *Table {
	return MustNewTable("t",
		NewIntColumn("a", 1, 2, 3, 4),
		NewFloatColumn("b", 0.5, 1.5, 2.5, 3.5),
		NewStringColumn("g", "x", "y", "x", "y"),
		NewBoolColumn("f", true, false, true, true),
		NewTimeColumn("d", KindDate, time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)),
	)
}

func TestNewTable_Errors(t *testing.T) {
	_, err := NewTable("t", NewIntColumn("a", 1), NewIntColumn("b", 1, 2))
	assert.True(t, errors.Is(err, ErrHeightMismatch))
	//
	_, err = NewTable("t", NewIntColumn("a", 1), NewIntColumn("a", 1))
	assert.True(t, errors.Is(err, ErrColumnExists))
}

func TestTable_Select(t *testing.T) {
	tbl := testTable()
	assert.Equal(t, []string{"a", "b"}, tbl.Select(Numeric()))
	assert.Equal(t, []string{"b"}, tbl.Select(Numeric(), "a"))
	assert.Equal(t, []string{"d"}, tbl.Select(Temporal()))
	assert.Empty(t, tbl.Select(Duration()))
	assert.Equal(t, []string{"a", "b", "g", "f", "d"}, tbl.Select(Any()))
}

func TestTable_Drop(t *testing.T) {
	tbl := testTable()
	//
	dropped, err := tbl.Drop("b", "g")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "f", "d"}, dropped.ColumnNames())
	assert.Equal(t, uint(5), tbl.Width())
	//
	_, err = tbl.Drop("z")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestTable_WithColumns(t *testing.T) {
	tbl := testTable()
	//
	ntbl, err := tbl.WithColumns(sumExpr("a+b", "a", "b"))
	require.NoError(t, err)
	col, err := ntbl.Column("a+b")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 3.5, 5.5, 7.5}, col.Floats())
	assert.Equal(t, uint(6), ntbl.Width())
	assert.Equal(t, uint(5), tbl.Width())
}

func TestTable_WithColumns_CollisionLeavesTable(t *testing.T) {
	tbl := testTable()
	before := tbl.ColumnNames()
	//
	_, err := tbl.WithColumns(sumExpr("a", "a", "b"))
	assert.True(t, errors.Is(err, ErrColumnExists))
	assert.Equal(t, before, tbl.ColumnNames())
}

func TestTable_WithColumns_GroupInput(t *testing.T) {
	tbl := testTable()
	called := false
	expr := sumExpr("x", "a", "b")
	compute := expr.Compute
	expr.Compute = func(cols []*Column) ([]*Column, error) {
		called = true
		return compute(cols)
	}
	//
	_, err := tbl.WithColumns(expr, "a")
	assert.True(t, errors.Is(err, ErrGroupInput))
	assert.False(t, called)
	//
	_, err = tbl.WithColumns(expr, "z")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
	//
	_, err = tbl.WithColumns(sumExpr("x", "a", "zz"))
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestTable_WithColumns_Grouped(t *testing.T) {
	tbl := testTable()
	// Running sum within each group
	expr := Expr{
		Inputs:  []string{"a"},
		Outputs: []Field{{"cum", KindInt}},
		Compute: func(cols []*Column) ([]*Column, error) {
			data := make([]float64, cols[0].Height())
			total := 0.0
			for i, v := range cols[0].Floats() {
				total += v
				data[i] = total
			}
			//
			return []*Column{NewFloatColumn("ignored", data...)}, nil
		},
	}
	//
	ntbl, err := tbl.WithColumns(expr, "g")
	require.NoError(t, err)
	col, err := ntbl.Column("cum")
	require.NoError(t, err)
	assert.Equal(t, KindInt, col.Kind())
	assert.Equal(t, []float64{1, 2, 4, 6}, col.Floats())
}

func TestTable_WithColumns_Broadcast(t *testing.T) {
	tbl := testTable()
	//
	ntbl, err := tbl.WithColumns(totalExpr("total", "a"), "g")
	require.NoError(t, err)
	col, _ := ntbl.Column("total")
	assert.Equal(t, []float64{4, 6, 4, 6}, col.Floats())
	//
	ntbl, err = tbl.WithColumns(totalExpr("total", "a"))
	require.NoError(t, err)
	col, _ = ntbl.Column("total")
	assert.Equal(t, []float64{10, 10, 10, 10}, col.Floats())
}

func TestTable_WithColumns_GroupKeys(t *testing.T) {
	tests := []struct {
		name   string
		groups []*Column
	}{
		{"separator", []*Column{
			NewStringColumn("g1", "a\x1fb", "a"),
			NewStringColumn("g2", "c", "b\x1fc"),
		}},
		{"comma", []*Column{
			NewStringColumn("g1", "a,b", "a"),
			NewStringColumn("g2", "c", "b,c"),
		}},
		{"null byte", []*Column{NewStringColumn("g1", "", "\x00").WithNulls(0)}},
		{"null text", []*Column{NewStringColumn("g1", "", "null").WithNulls(0)}},
		{"null int", []*Column{NewIntColumn("g1", 0, 0).WithNulls(0)}},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := append([]*Column{NewIntColumn("x", 1, 10)}, tt.groups...)
			groups := make([]string, len(tt.groups))
			//
			for i, g := range tt.groups {
				groups[i] = g.Name()
			}
			//
			ntbl, err := MustNewTable("t", cols...).WithColumns(totalExpr("total", "x"), groups...)
			require.NoError(t, err)
			col, err := ntbl.Column("total")
			require.NoError(t, err)
			assert.Equal(t, []float64{1, 10}, col.Floats())
		})
	}
}

func TestTable_WithColumns_KindMismatch(t *testing.T) {
	tbl := testTable()
	expr := sumExpr("x", "a")
	expr.Outputs = []Field{{"x", KindBool}}
	//
	_, err := tbl.WithColumns(expr)
	assert.True(t, errors.Is(err, ErrKindMismatch))
}

func TestTable_LazyMatchesEager(t *testing.T) {
	eager := testTable()
	lazy := testTable().Lazy(true)
	steps := []struct {
		expr   Expr
		groups []string
	}{
		{sumExpr("s1", "a", "b"), nil},
		{sumExpr("s2", "s1", "a"), []string{"g"}},
		{totalExpr("t1", "s2"), []string{"g"}},
		{sumExpr("s3", "t1", "s1"), nil},
	}
	//
	for _, step := range steps {
		var err error
		eager, err = eager.WithColumns(step.expr, step.groups...)
		require.NoError(t, err)
		lazy, err = lazy.WithColumns(step.expr, step.groups...)
		require.NoError(t, err)
	}
	//
	assert.Equal(t, uint(4), lazy.Pending())
	assert.Equal(t, eager.Fields(), lazy.Fields())
	kind, err := lazy.Kind("s3")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, kind)
	_, err = lazy.Column("s3")
	assert.True(t, errors.Is(err, ErrPendingColumns))
	//
	materialized, err := lazy.Materialize()
	require.NoError(t, err)
	assert.Equal(t, uint(0), materialized.Pending())
	//
	for _, name := range eager.ColumnNames() {
		l, err := materialized.Column(name)
		require.NoError(t, err)
		e, err := eager.Column(name)
		require.NoError(t, err)
		assert.True(t, e.Equal(l), name)
	}
}

func TestColumn_Nulls(t *testing.T) {
	col := NewFloatColumn("x", 1, 2, 3).WithNulls(1)
	assert.True(t, col.Valid(0))
	assert.False(t, col.Valid(1))
	assert.Nil(t, col.Value(1))
	assert.Equal(t, "null", col.Text(1))
	assert.Equal(t, uint(1), col.NullCount())
	//
	taken := col.Take([]uint{2, 0})
	assert.Nil(t, taken.Validity())
	assert.Equal(t, []float64{3, 1}, taken.Floats())
}

func TestColumn_Values(t *testing.T) {
	tbl := testTable()
	d, _ := tbl.Column("d")
	// Dates are truncated to midnight
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d.Value(0))
	assert.Equal(t, "2024-01-01", d.Text(0))
	a, _ := tbl.Column("a")
	assert.Equal(t, int64(3), a.Value(2))
	assert.Equal(t, "3", a.Text(2))
	dur := NewDurationColumn("x", 90*time.Second)
	assert.Equal(t, 90*time.Second, dur.Value(0))
	assert.Equal(t, "1m30s", dur.Text(0))
}
