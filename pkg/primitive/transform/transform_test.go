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
package transform

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleTable() *frame.Table {
	return frame.MustNewTable("sample",
		frame.NewIntColumn("a", 1, -2, 3, 4),
		frame.NewFloatColumn("b", 0.5, 2, -1.5, 0),
		frame.NewBoolColumn("p", true, false, true, false),
		frame.NewBoolColumn("q", true, true, false, false),
		frame.NewStringColumn("s", "x", "y", "x", "1"),
		frame.NewTimeColumn("t", frame.KindDatetime, epoch, epoch.Add(2*time.Second),
			epoch.Add(4*time.Second), epoch.Add(8*time.Second)),
		frame.NewDurationColumn("d", time.Second, 2*time.Second, 3*time.Second, time.Second),
	)
}

// apply a primitive and return its result, along with the output columns.
func apply(t *testing.T, tbl *frame.Table, class *primitive.Class, args primitive.Args,
	inputs ...string) (primitive.Result, []*frame.Column) {
	t.Helper()
	//
	res, err := primitive.Apply(tbl, class.MustNew(args), inputs, nil)
	require.NoError(t, err)
	//
	cols := make([]*frame.Column, len(res.Names))
	for i, name := range res.Names {
		cols[i], err = res.Table.Column(name)
		require.NoError(t, err)
	}
	//
	return res, cols
}

func texts(col *frame.Column) []string {
	values := make([]string, col.Height())
	for i := range values {
		values[i] = col.Text(uint(i))
	}
	//
	return values
}

func TestClasses_WellFormed(t *testing.T) {
	seen := make(map[string]bool)
	//
	for _, class := range All() {
		assert.False(t, seen[class.Name], "duplicate %s", class.Name)
		assert.Equal(t, primitive.Transform, class.Variant)
		assert.NotEmpty(t, class.Summary(), class.Name)
		assert.NotNil(t, class.MustNew(nil), class.Name)
		//
		seen[class.Name] = true
	}
	//
	for _, class := range Defaults() {
		assert.True(t, seen[class.Name], class.Name)
	}
	//
	assert.Len(t, Defaults(), 10)
}

func TestBinary_Names(t *testing.T) {
	tests := []struct {
		class    *primitive.Class
		inputs   []string
		expected string
	}{
		{AddNumeric, []string{"a", "b"}, "a + b"},
		{SubtractNumeric, []string{"a", "b"}, "a - b"},
		{MultiplyNumeric, []string{"a", "b"}, "a * b"},
		{DivideNumeric, []string{"a", "b"}, "a / b"},
		{ModuloNumeric, []string{"a", "b"}, "a % b"},
		{MultiplyBoolean, []string{"p", "q"}, "p * q"},
		{MultiplyNumericBoolean, []string{"p", "a"}, "p * a"},
		{And, []string{"p", "q"}, "AND(p, q)"},
		{Or, []string{"p", "q"}, "OR(p, q)"},
		{Equal, []string{"a", "s"}, "a = s"},
		{NotEqual, []string{"a", "s"}, "a != s"},
		{GreaterThan, []string{"t", "t"}, "t > t"},
		{GreaterThanEqualTo, []string{"a", "b"}, "a >= b"},
		{LessThan, []string{"d", "d"}, "d < d"},
		{LessThanEqualTo, []string{"a", "b"}, "a <= b"},
		{Negate, []string{"a"}, "-(a)"},
		{Absolute, []string{"a"}, "ABSOLUTE(a)"},
		{Diff, []string{"a"}, "DIFF(a)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, []string{tt.expected}, primitive.Names(tt.class.MustNew(nil), tt.inputs))
		})
	}
}

func TestArithmetic(t *testing.T) {
	tbl := sampleTable()
	tests := []struct {
		class    *primitive.Class
		kind     frame.Kind
		expected []string
	}{
		{AddNumeric, frame.KindFloat, []string{"1.5", "0", "1.5", "4"}},
		{SubtractNumeric, frame.KindFloat, []string{"0.5", "-4", "4.5", "4"}},
		{MultiplyNumeric, frame.KindFloat, []string{"0.5", "-4", "-4.5", "0"}},
		{DivideNumeric, frame.KindFloat, []string{"2", "-1", "-2", "+Inf"}},
		{ModuloNumeric, frame.KindFloat, []string{"0", "0", "0", "null"}},
	}

	for _, tt := range tests {
		t.Run(tt.class.Name, func(t *testing.T) {
			res, cols := apply(t, tbl, tt.class, nil, "a", "b")
			assert.Equal(t, []frame.Kind{tt.kind}, res.Kinds)
			assert.Equal(t, tt.expected, texts(cols[0]))
		})
	}
}

func TestArithmetic_Integers(t *testing.T) {
	tbl := frame.MustNewTable("ints", frame.NewIntColumn("x", 7, -7, 7), frame.NewIntColumn("y", 3, 3, -3))
	//
	res, cols := apply(t, tbl, ModuloNumeric, nil, "x", "y")
	assert.Equal(t, []frame.Kind{frame.KindInt}, res.Kinds)
	assert.Equal(t, []string{"1", "2", "-2"}, texts(cols[0]))
	// Division always produces floats
	res, cols = apply(t, tbl, DivideNumeric, nil, "x", "y")
	assert.Equal(t, []frame.Kind{frame.KindFloat}, res.Kinds)
	assert.InDelta(t, 7.0/3, cols[0].Floats()[0], 1e-12)
}

func TestArithmetic_Nulls(t *testing.T) {
	tbl := frame.MustNewTable("nulls",
		frame.NewIntColumn("x", 1, 2, 3).WithNulls(1),
		frame.NewIntColumn("y", 1, 1, 1).WithNulls(2))
	//
	_, cols := apply(t, tbl, AddNumeric, nil, "x", "y")
	assert.Equal(t, []string{"2", "null", "null"}, texts(cols[0]))
}

func TestCommutativity(t *testing.T) {
	assert.True(t, AddNumeric.MustNew(nil).Commutative())
	assert.True(t, SubtractNumeric.MustNew(nil).Commutative())
	assert.False(t, SubtractNumeric.MustNew(primitive.Args{"commutative": false}).Commutative())
	assert.False(t, DivideNumeric.MustNew(nil).Commutative())
	assert.False(t, GreaterThan.MustNew(nil).Commutative())
	//
	name := primitive.Names(SubtractNumeric.MustNew(primitive.Args{"commutative": false}), []string{"a", "b"})
	assert.Equal(t, []string{"a - b"}, name)
}

func TestLogical(t *testing.T) {
	tbl := sampleTable()
	tests := []struct {
		class    *primitive.Class
		expected []string
	}{
		{And, []string{"true", "false", "false", "false"}},
		{Or, []string{"true", "true", "true", "false"}},
		{MultiplyBoolean, []string{"true", "false", "false", "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.class.Name, func(t *testing.T) {
			res, cols := apply(t, tbl, tt.class, nil, "p", "q")
			assert.Equal(t, []frame.Kind{frame.KindBool}, res.Kinds)
			assert.Equal(t, tt.expected, texts(cols[0]))
		})
	}
}

func TestMultiplyNumericBoolean(t *testing.T) {
	tbl := sampleTable()
	//
	for _, inputs := range [][]string{{"a", "p"}, {"p", "a"}} {
		res, cols := apply(t, tbl, MultiplyNumericBoolean, nil, inputs...)
		assert.Equal(t, []frame.Kind{frame.KindInt}, res.Kinds)
		assert.Equal(t, []string{"1", "0", "3", "0"}, texts(cols[0]))
	}
	//
	assert.Equal(t, []string{"a", "p"}, primitive.CanonicalInputs(tbl, MultiplyNumericBoolean.MustNew(nil),
		[]string{"p", "a"}))
}

func TestComparison(t *testing.T) {
	tbl := sampleTable()
	tests := []struct {
		class    *primitive.Class
		inputs   []string
		expected []string
	}{
		{GreaterThan, []string{"a", "b"}, []string{"true", "false", "true", "true"}},
		{GreaterThanEqualTo, []string{"b", "a"}, []string{"false", "true", "false", "false"}},
		{LessThan, []string{"a", "b"}, []string{"false", "true", "false", "false"}},
		{LessThanEqualTo, []string{"a", "a"}, []string{"true", "true", "true", "true"}},
		{GreaterThan, []string{"d", "d"}, []string{"false", "false", "false", "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.class.Name, func(t *testing.T) {
			_, cols := apply(t, tbl, tt.class, nil, tt.inputs...)
			assert.Equal(t, tt.expected, texts(cols[0]))
		})
	}
}

func TestComparison_Temporal(t *testing.T) {
	tbl := frame.MustNewTable("times",
		frame.NewTimeColumn("start", frame.KindDatetime, epoch, epoch.Add(time.Hour)),
		frame.NewTimeColumn("day", frame.KindDate, epoch, epoch),
	)
	//
	_, cols := apply(t, tbl, GreaterThan, nil, "start", "day")
	assert.Equal(t, []string{"false", "true"}, texts(cols[0]))
	//
	_, err := primitive.Apply(tbl, LessThan.MustNew(nil), []string{"start", "b"}, nil)
	assert.True(t, errors.Is(err, frame.ErrUnknownColumn))
}

func TestEquality(t *testing.T) {
	tbl := frame.MustNewTable("eq",
		frame.NewIntColumn("x", 1, 2, 3),
		frame.NewFloatColumn("y", 1, 2.5, 3),
		frame.NewStringColumn("s", "1", "2", "3"),
		frame.NewStringColumn("r", "1", "z", "3"),
	)
	tests := []struct {
		class    *primitive.Class
		inputs   []string
		expected []string
	}{
		{Equal, []string{"x", "y"}, []string{"true", "false", "true"}},
		{NotEqual, []string{"x", "y"}, []string{"false", "true", "false"}},
		{Equal, []string{"s", "r"}, []string{"true", "false", "true"}},
		{Equal, []string{"x", "s"}, []string{"false", "false", "false"}},
		{NotEqual, []string{"x", "s"}, []string{"true", "true", "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.class.Name, func(t *testing.T) {
			_, cols := apply(t, tbl, tt.class, nil, tt.inputs...)
			assert.Equal(t, tt.expected, texts(cols[0]))
		})
	}
}

func TestScalar(t *testing.T) {
	tbl := sampleTable()
	tests := []struct {
		class       *primitive.Class
		args        primitive.Args
		name        string
		description string
		kind        frame.Kind
		expected    []string
	}{
		{AddNumericScalar, nil, "a + 0", "the sum of A and 0", frame.KindInt, []string{"1", "-2", "3", "4"}},
		{AddNumericScalar, primitive.Args{"value": 2.5}, "a + 2.5", "the sum of A and 2.5", frame.KindFloat,
			[]string{"3.5", "0.5", "5.5", "6.5"}},
		{SubtractNumericScalar, primitive.Args{"value": 1}, "a - 1", "the result of A minus 1", frame.KindInt,
			[]string{"0", "-3", "2", "3"}},
		{ScalarSubtractNumericFeature, primitive.Args{"value": 10}, "10 - a", "the result of 10 minus A",
			frame.KindInt, []string{"9", "12", "7", "6"}},
		{MultiplyNumericScalar, primitive.Args{"value": 3}, "a * 3", "the product of A and 3", frame.KindInt,
			[]string{"3", "-6", "9", "12"}},
		{DivideNumericScalar, primitive.Args{"value": 2}, "a / 2", "the result of A divided by 2", frame.KindFloat,
			[]string{"0.5", "-1", "1.5", "2"}},
		{DivideByFeature, primitive.Args{"value": 12}, "12 / a", "the result of 12 divided by A", frame.KindFloat,
			[]string{"12", "-6", "4", "3"}},
		{ModuloNumericScalar, primitive.Args{"value": 3}, "a % 3", "the remainder after dividing A by 3",
			frame.KindInt, []string{"1", "1", "0", "1"}},
		{ModuloByFeature, primitive.Args{"value": 5}, "5 % a", "the remainder after dividing 5 by A",
			frame.KindInt, []string{"0", "-1", "2", "1"}},
		{GreaterThanScalar, primitive.Args{"value": 1}, "a > 1", "whether A is greater than 1", frame.KindBool,
			[]string{"false", "false", "true", "true"}},
		{GreaterThanEqualToScalar, primitive.Args{"value": 1}, "a >= 1",
			"whether A is greater than or equal to 1", frame.KindBool, []string{"true", "false", "true", "true"}},
		{LessThanScalar, nil, "a < 0", "whether A is less than 0", frame.KindBool,
			[]string{"false", "true", "false", "false"}},
		{LessThanEqualToScalar, primitive.Args{"value": 3}, "a <= 3", "whether A is less than or equal to 3",
			frame.KindBool, []string{"true", "true", "true", "false"}},
		{EqualScalar, primitive.Args{"value": 3}, "a = 3", "whether A equals 3", frame.KindBool,
			[]string{"false", "false", "true", "false"}},
		{NotEqualScalar, primitive.Args{"value": 3.0}, "a != 3", "whether A does not equal 3", frame.KindBool,
			[]string{"true", "true", "false", "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.class.MustNew(tt.args)
			assert.Equal(t, tt.description, primitive.Describe(p, []string{"A"}))
			//
			res, cols := apply(t, tbl, tt.class, tt.args, "a")
			assert.Equal(t, []string{tt.name}, res.Names)
			assert.Equal(t, []frame.Kind{tt.kind}, res.Kinds)
			assert.Equal(t, tt.expected, texts(cols[0]))
		})
	}
}

func TestScalar_DistinctKeys(t *testing.T) {
	a := AddNumericScalar.MustNew(nil)
	b := AddNumericScalar.MustNew(primitive.Args{"value": 2})
	assert.Equal(t, "add_numeric_scalar", a.Key())
	assert.Equal(t, "add_numeric_scalar, value=2", b.Key())
}

func TestScalar_InvalidValue(t *testing.T) {
	_, err := AddNumericScalar.New(primitive.Args{"value": "two"})
	assert.True(t, errors.Is(err, primitive.ErrInvalidParameter))
	//
	_, err = GreaterThanScalar.New(primitive.Args{"value": nil})
	assert.True(t, errors.Is(err, primitive.ErrInvalidParameter))
}

func TestEqualScalar(t *testing.T) {
	tbl := sampleTable()
	//
	res, cols := apply(t, tbl, EqualScalar, nil, "s")
	assert.Equal(t, []string{"s = null"}, res.Names)
	assert.Equal(t, []string{"null", "null", "null", "null"}, texts(cols[0]))
	//
	_, cols = apply(t, tbl, EqualScalar, primitive.Args{"value": "x"}, "s")
	assert.Equal(t, []string{"true", "false", "true", "false"}, texts(cols[0]))
	// Strings are never equal to numbers
	_, cols = apply(t, tbl, EqualScalar, primitive.Args{"value": 1}, "s")
	assert.Equal(t, []string{"false", "false", "false", "false"}, texts(cols[0]))
	//
	_, cols = apply(t, tbl, NotEqualScalar, primitive.Args{"value": true}, "p")
	assert.Equal(t, []string{"false", "true", "false", "true"}, texts(cols[0]))
	//
	_, cols = apply(t, tbl, EqualScalar, primitive.Args{"value": epoch.Add(4 * time.Second)}, "t")
	assert.Equal(t, []string{"false", "false", "true", "false"}, texts(cols[0]))
	//
	_, cols = apply(t, tbl, EqualScalar, primitive.Args{"value": time.Second}, "d")
	assert.Equal(t, []string{"true", "false", "false", "true"}, texts(cols[0]))
}

func TestUnary(t *testing.T) {
	tbl := frame.MustNewTable("unary", frame.NewFloatColumn("x", 0, 1, 4, -1))
	tests := []struct {
		class    *primitive.Class
		expected []float64
	}{
		{Negate, []float64{0, -1, -4, 1}},
		{Absolute, []float64{0, 1, 4, 1}},
		{Sine, []float64{0, math.Sin(1), math.Sin(4), math.Sin(-1)}},
		{Cosine, []float64{1, math.Cos(1), math.Cos(4), math.Cos(-1)}},
		{Tangent, []float64{0, math.Tan(1), math.Tan(4), math.Tan(-1)}},
		{NaturalLogarithm, []float64{math.Inf(-1), 0, math.Log(4), math.NaN()}},
		{SquareRoot, []float64{0, 1, 2, math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.class.Name, func(t *testing.T) {
			_, cols := apply(t, tbl, tt.class, nil, "x")
			assert.True(t, cols[0].Equal(frame.NewFloatColumn(cols[0].Name(), tt.expected...)), texts(cols[0]))
		})
	}
}

func TestUnary_Descriptions(t *testing.T) {
	assert.Equal(t, "the negation of X", primitive.Describe(Negate.MustNew(nil), []string{"X"}))
	assert.Equal(t, "the square root of X", primitive.Describe(SquareRoot.MustNew(nil), []string{"X"}))
	assert.Equal(t, "the result of applying EXPONENTIAL_WEIGHTED_VARIANCE to X",
		primitive.Describe(ExponentialWeightedVariance.MustNew(nil), []string{"X"}))
}

func TestPercentile(t *testing.T) {
	tbl := frame.MustNewTable("ranks", frame.NewFloatColumn("x", 3, 1, 3, 2, 0).WithNulls(4))
	//
	res, cols := apply(t, tbl, Percentile, nil, "x")
	assert.Equal(t, []frame.Kind{frame.KindFloat}, res.Kinds)
	assert.Equal(t, []string{"0.875", "0.25", "0.875", "0.5", "null"}, texts(cols[0]))
}

func TestDiff(t *testing.T) {
	tbl := frame.MustNewTable("diffs", frame.NewIntColumn("x", 1, 4, 9, 16, 25).WithNulls(2))
	tests := []struct {
		args     primitive.Args
		name     string
		expected []string
	}{
		{nil, "DIFF(x)", []string{"null", "3", "null", "null", "9"}},
		{primitive.Args{"periods": 2}, "DIFF(x, periods=2)", []string{"null", "null", "null", "12", "null"}},
		{primitive.Args{"periods": -1}, "DIFF(x, periods=-1)", []string{"-3", "null", "null", "-9", "null"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, cols := apply(t, tbl, Diff, tt.args, "x")
			assert.Equal(t, []string{tt.name}, res.Names)
			assert.Equal(t, []frame.Kind{frame.KindInt}, res.Kinds)
			assert.Equal(t, tt.expected, texts(cols[0]))
		})
	}
	//
	_, err := Diff.New(primitive.Args{"periods": 1.5})
	assert.True(t, errors.Is(err, primitive.ErrInvalidParameter))
}

func TestSameAsPrevious(t *testing.T) {
	tbl := frame.MustNewTable("same", frame.NewFloatColumn("x", 1, 1, 0, 0, 0, 2, 2).WithNulls(2, 3, 4))
	tests := []struct {
		args     primitive.Args
		expected []string
	}{
		{nil, []string{"false", "true", "true", "true", "true", "false", "true"}},
		{primitive.Args{"fill_method": "bfill"}, []string{"false", "true", "false", "true", "true", "true", "true"}},
		{primitive.Args{"limit": 1}, []string{"false", "true", "true", "false", "false", "false", "true"}},
	}

	for _, tt := range tests {
		_, cols := apply(t, tbl, SameAsPrevious, tt.args, "x")
		assert.Equal(t, tt.expected, texts(cols[0]))
	}
	//
	_, err := SameAsPrevious.New(primitive.Args{"fill_method": "mean"})
	assert.True(t, errors.Is(err, primitive.ErrInvalidParameter))
	_, err = SameAsPrevious.New(primitive.Args{"limit": 0})
	assert.True(t, errors.Is(err, primitive.ErrInvalidParameter))
}

func TestRateOfChange(t *testing.T) {
	tbl := sampleTable()
	//
	res, cols := apply(t, tbl, RateOfChange, nil, "a", "t")
	assert.Equal(t, []string{"RATE_OF_CHANGE(a, t)"}, res.Names)
	assert.Equal(t, []string{"null", "-1", "1.5", "1"}, texts(cols[0]))
}

func TestCumulative(t *testing.T) {
	tbl := frame.MustNewTable("cum", frame.NewIntColumn("x", 3, 1, 0, 4, 2).WithNulls(2))
	tests := []struct {
		class    *primitive.Class
		kind     frame.Kind
		expected []string
	}{
		{CumSum, frame.KindInt, []string{"3", "4", "null", "8", "10"}},
		{CumMin, frame.KindInt, []string{"3", "1", "null", "1", "1"}},
		{CumMax, frame.KindInt, []string{"3", "3", "null", "4", "4"}},
		{CumMean, frame.KindFloat, []string{"3", "2", "null", "2.6666666666666665", "2.5"}},
		{CumCount, frame.KindInt, []string{"1", "2", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.class.Name, func(t *testing.T) {
			res, cols := apply(t, tbl, tt.class, nil, "x")
			assert.Equal(t, []frame.Kind{tt.kind}, res.Kinds)
			assert.Equal(t, tt.expected, texts(cols[0]))
		})
	}
}

func TestCumCount_AnyKind(t *testing.T) {
	tbl := frame.MustNewTable("strs", frame.NewStringColumn("s", "a", "b", "c").WithNulls(0))
	_, cols := apply(t, tbl, CumCount, nil, "s")
	assert.Equal(t, []string{"0", "1", "2"}, texts(cols[0]))
}

func TestCumMinMax(t *testing.T) {
	tbl := frame.MustNewTable("cum", frame.NewFloatColumn("x", 2, 5, 1))
	//
	res, cols := apply(t, tbl, CumMinMax, nil, "x")
	assert.Equal(t, []string{"CUM_MIN_MAX(x)[0]", "CUM_MIN_MAX(x)[1]"}, res.Names)
	assert.Equal(t, []string{"2", "2", "1"}, texts(cols[0]))
	assert.Equal(t, []string{"2", "5", "5"}, texts(cols[1]))
	//
	descriptions, err := primitive.Descriptions(CumMinMax.MustNew(nil), []string{"X"})
	require.NoError(t, err)
	assert.Equal(t, []string{"the cumulative minimum of X", "the cumulative maximum of X"}, descriptions)
}

func TestTimeSinceLast(t *testing.T) {
	tbl := sampleTable()
	//
	res, cols := apply(t, tbl, CumulativeTimeSinceLastTrue, nil, "t", "q")
	assert.Equal(t, []frame.Kind{frame.KindDuration}, res.Kinds)
	assert.Equal(t, []string{"0s", "0s", "2s", "6s"}, texts(cols[0]))
	//
	_, cols = apply(t, tbl, CumulativeTimeSinceLastFalse, nil, "t", "q")
	assert.Equal(t, []string{"null", "null", "0s", "0s"}, texts(cols[0]))
}

func TestExponentialWeightedVariance(t *testing.T) {
	tbl := frame.MustNewTable("ewm", frame.NewFloatColumn("x", 1, 2, 3))
	//
	res, cols := apply(t, tbl, ExponentialWeightedVariance, nil, "x")
	assert.Equal(t, []string{"EXPONENTIAL_WEIGHTED_VARIANCE(x, com=0.5)"}, res.Names)
	assert.False(t, cols[0].Valid(0))
	assert.InDelta(t, 0.5, cols[0].Floats()[1], 1e-9)
	assert.InDelta(t, 11.0/13, cols[0].Floats()[2], 1e-9)
	// An equivalent smoothing factor gives the same values
	_, other := apply(t, tbl, ExponentialWeightedVariance, primitive.Args{"alpha": 2.0 / 3}, "x")
	assert.InDelta(t, 11.0/13, other[0].Floats()[2], 1e-9)
	// Biased variance is defined from the first row
	_, biased := apply(t, tbl, ExponentialWeightedVariance, primitive.Args{"bias": true}, "x")
	assert.True(t, biased[0].Valid(0))
	assert.Equal(t, 0.0, biased[0].Floats()[0])
}

func TestExponentialWeightedVariance_Params(t *testing.T) {
	tests := []struct {
		args primitive.Args
		ok   bool
	}{
		{primitive.Args{"span": 3}, true},
		{primitive.Args{"half_life": 2.0}, true},
		{primitive.Args{"com": 1, "span": 3}, false},
		{primitive.Args{"com": -1}, false},
		{primitive.Args{"span": 0.5}, false},
		{primitive.Args{"half_life": 0}, false},
		{primitive.Args{"alpha": 1.5}, false},
		{primitive.Args{"min_periods": -1}, false},
	}

	for _, tt := range tests {
		_, err := ExponentialWeightedVariance.New(tt.args)
		if tt.ok {
			assert.NoError(t, err, tt.args)
		} else {
			assert.True(t, errors.Is(err, primitive.ErrInvalidParameter), tt.args)
		}
	}
}
