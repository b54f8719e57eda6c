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
	"math"

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/primitive"
)

var (
	numericPair = []primitive.Signature{primitive.Sig(frame.Numeric(), frame.Numeric())}
	booleanPair = []primitive.Signature{primitive.Sig(frame.Boolean(), frame.Boolean())}
	anyPair     = []primitive.Signature{primitive.Sig(frame.Any(), frame.Any())}
	// Pairs of values which can be ordered.
	orderedPair = []primitive.Signature{
		primitive.Sig(frame.Numeric(), frame.Numeric()),
		primitive.Sig(timestamp(), timestamp()),
		primitive.Sig(frame.Duration(), frame.Duration()),
	}
)

// timestamp matches datetime and date columns.
func timestamp() frame.Selector {
	return frame.Datetime().Or(frame.Date())
}

// AddNumeric adds two numeric columns.
var AddNumeric = defineOperator(primitive.Class{
	Name: "add_numeric",
	Doc: `Performs element-wise addition of two columns.

	Given a column X and a column Y, return X + Y.`,
	Inputs:      numericPair,
	Return:      frame.Numeric(),
	Commutative: true,
	Templates:   []string{"the sum of {} and {}"},
}, "%s + %s", arithmetic(func(x, y float64) (float64, bool) { return x + y, true }))

// SubtractNumeric subtracts one numeric column from another.  Since x - y and
// y - x are perfectly correlated, this is commutative by default.
var SubtractNumeric = defineOperator(primitive.Class{
	Name: "subtract_numeric",
	Doc: `Performs element-wise subtraction of two columns.

	Given a column X and a column Y, return X - Y.  When commutative (the
	default), only one of X - Y and Y - X is generated.`,
	Inputs:    numericPair,
	Return:    frame.Numeric(),
	Templates: []string{"the result of {} minus {}"},
	Params:    []primitive.ParamSpec{{Name: "commutative", Default: true, Doc: "generate only one of x - y and y - x"}},
}, "%s - %s", arithmetic(func(x, y float64) (float64, bool) { return x - y, true }))

// MultiplyNumeric multiplies two numeric columns.
var MultiplyNumeric = defineOperator(primitive.Class{
	Name: "multiply_numeric",
	Doc: `Performs element-wise multiplication of two columns.

	Given a column X and a column Y, return X * Y.`,
	Inputs:      numericPair,
	Return:      frame.Numeric(),
	Commutative: true,
	Templates:   []string{"the product of {} and {}"},
}, "%s * %s", arithmetic(func(x, y float64) (float64, bool) { return x * y, true }))

// DivideNumeric divides one numeric column by another.
var DivideNumeric = defineOperator(primitive.Class{
	Name: "divide_numeric",
	Doc: `Performs element-wise division of two columns.

	Given a column X and a column Y, return X / Y.  Division by zero follows
	floating point semantics.`,
	Inputs:    numericPair,
	Return:    frame.Floating(),
	Templates: []string{"the result of {} divided by {}"},
	Params:    []primitive.ParamSpec{{Name: "commutative", Default: false, Doc: "generate only one of x / y and y / x"}},
}, "%s / %s", arithmetic(func(x, y float64) (float64, bool) { return x / y, true }))

// ModuloNumeric computes the remainder of dividing one column by another.
var ModuloNumeric = defineOperator(primitive.Class{
	Name: "modulo_numeric",
	Doc: `Performs element-wise modulo of two columns.

	Given a column X and a column Y, return the remainder of X after division
	by Y.  The remainder has the sign of Y, and is null when Y is zero.`,
	Inputs:    numericPair,
	Return:    frame.Numeric(),
	Templates: []string{"the remainder after dividing {} by {}"},
}, "%s %% %s", arithmetic(floorMod))

// MultiplyBoolean computes the product (i.e. conjunction) of two boolean
// columns.
var MultiplyBoolean = defineOperator(primitive.Class{
	Name: "multiply_boolean",
	Doc: `Performs element-wise multiplication of two boolean columns.

	Given boolean columns X and Y, return X * Y, which holds only where both
	are true.`,
	Inputs:      booleanPair,
	Return:      frame.Boolean(),
	Commutative: true,
	Templates:   []string{"the product of {} and {}"},
}, "%s * %s", logical(func(x, y bool) bool { return x && y }))

// MultiplyNumericBoolean multiplies a numeric column by a boolean column.
var MultiplyNumericBoolean = defineOperator(primitive.Class{
	Name: "multiply_numeric_boolean",
	Doc: `Performs element-wise multiplication of a numeric column with a boolean
	column.

	Given a numeric column X and a boolean column Y, return the value of X where
	Y is true, and zero otherwise.`,
	Inputs: []primitive.Signature{
		primitive.Sig(frame.Numeric(), frame.Boolean()),
		primitive.Sig(frame.Boolean(), frame.Numeric()),
	},
	Return:      frame.Numeric(),
	Commutative: true,
	Templates:   []string{"the product of {} and {}"},
}, "%s * %s", arithmetic(func(x, y float64) (float64, bool) { return x * y, true }))

// And computes the logical conjunction of two boolean columns.
var And = defineOperator(primitive.Class{
	Name: "and",
	Doc: `Performs element-wise logical AND of two boolean columns.

	Given boolean columns X and Y, determine whether both X and Y are true.`,
	Inputs:      booleanPair,
	Return:      frame.Boolean(),
	Commutative: true,
	Templates:   []string{"whether {} and {} are true"},
}, "AND(%s, %s)", logical(func(x, y bool) bool { return x && y }))

// Or computes the logical disjunction of two boolean columns.
var Or = defineOperator(primitive.Class{
	Name: "or",
	Doc: `Performs element-wise logical OR of two boolean columns.

	Given boolean columns X and Y, determine whether either X or Y is true.`,
	Inputs:      booleanPair,
	Return:      frame.Boolean(),
	Commutative: true,
	Templates:   []string{"whether {} is true or {} is true"},
}, "OR(%s, %s)", logical(func(x, y bool) bool { return x || y }))

// Equal determines whether corresponding values of two columns are equal.
var Equal = defineOperator(primitive.Class{
	Name: "equal",
	Doc: `Determines whether values in one column equal those in another.

	Values of unrelated kinds (e.g. a string and a number) are never equal.`,
	Inputs:      anyPair,
	Return:      frame.Boolean(),
	Commutative: true,
	Templates:   []string{"whether {} equals {}"},
}, "%s = %s", equality(false))

// NotEqual determines whether corresponding values of two columns differ.
var NotEqual = defineOperator(primitive.Class{
	Name: "not_equal",
	Doc: `Determines whether values in one column differ from those in another.

	Values of unrelated kinds (e.g. a string and a number) always differ.`,
	Inputs:      anyPair,
	Return:      frame.Boolean(),
	Commutative: true,
	Templates:   []string{"whether {} does not equal {}"},
}, "%s != %s", equality(true))

// GreaterThan compares corresponding values of two columns.
var GreaterThan = defineOperator(primitive.Class{
	Name: "greater_than",
	Doc: `Determines whether values in one column are greater than those in
	another.

	Equal pairs yield false.`,
	Inputs:    orderedPair,
	Return:    frame.Boolean(),
	Templates: []string{"whether {} is greater than {}"},
}, "%s > %s", comparison(func(x, y float64) bool { return x > y }))

// GreaterThanEqualTo compares corresponding values of two columns.
var GreaterThanEqualTo = defineOperator(primitive.Class{
	Name: "greater_than_equal_to",
	Doc: `Determines whether values in one column are greater than or equal to
	those in another.

	Equal pairs yield true.`,
	Inputs:    orderedPair,
	Return:    frame.Boolean(),
	Templates: []string{"whether {} is greater than or equal to {}"},
}, "%s >= %s", comparison(func(x, y float64) bool { return x >= y }))

// LessThan compares corresponding values of two columns.
var LessThan = defineOperator(primitive.Class{
	Name: "less_than",
	Doc: `Determines whether values in one column are less than those in another.

	Equal pairs yield false.`,
	Inputs:    orderedPair,
	Return:    frame.Boolean(),
	Templates: []string{"whether {} is less than {}"},
}, "%s < %s", comparison(func(x, y float64) bool { return x < y }))

// LessThanEqualTo compares corresponding values of two columns.
var LessThanEqualTo = defineOperator(primitive.Class{
	Name: "less_than_equal_to",
	Doc: `Determines whether values in one column are less than or equal to those
	in another.

	Equal pairs yield true.`,
	Inputs:    orderedPair,
	Return:    frame.Boolean(),
	Templates: []string{"whether {} is less than or equal to {}"},
}, "%s <= %s", comparison(func(x, y float64) bool { return x <= y }))

// ===================================================================
// Kernels
// ===================================================================

func arithmetic(fn func(float64, float64) (float64, bool)) kernel {
	return func(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		return one(zipFloats(inputs[0], inputs[1], fn)), nil
	}
}

func comparison(fn func(float64, float64) bool) kernel {
	return func(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		return one(compareFloats(inputs[0], inputs[1], fn)), nil
	}
}

func logical(fn func(bool, bool) bool) kernel {
	return func(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		var (
			lhs, rhs = inputs[0].Bools(), inputs[1].Bools()
			values   = make([]bool, len(lhs))
		)
		//
		for i := range values {
			values[i] = fn(lhs[i], rhs[i])
		}
		//
		return one(boolsOf(values, mask(inputs...))), nil
	}
}

func equality(negate bool) kernel {
	return func(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		var (
			lhs, rhs = inputs[0], inputs[1]
			values   = make([]bool, lhs.Height())
		)
		//
		switch {
		case family(lhs.Kind()) != family(rhs.Kind()):
		case lhs.Kind() == frame.KindString:
			l, r := lhs.Strings(), rhs.Strings()
			for i := range values {
				values[i] = l[i] == r[i]
			}
		default:
			l, r := valuesOf(lhs), valuesOf(rhs)
			for i := range values {
				values[i] = l[i] == r[i]
			}
		}
		//
		if negate {
			for i := range values {
				values[i] = !values[i]
			}
		}
		//
		return one(boolsOf(values, mask(lhs, rhs))), nil
	}
}

// family groups together kinds whose values can be compared.
func family(kind frame.Kind) frame.Kind {
	switch {
	case kind.IsNumeric():
		return frame.KindFloat
	case kind.IsTemporal():
		return frame.KindDatetime
	default:
		return kind
	}
}

// floorMod computes the remainder of x divided by y, with the sign of y.
func floorMod(x, y float64) (float64, bool) {
	if y == 0 {
		return 0, false
	}
	//
	r := math.Mod(x, y)
	//
	switch {
	case r == 0:
		r = 0
	case (r < 0) != (y < 0):
		r += y
	}
	//
	return r, true
}
