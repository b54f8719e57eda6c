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
	"fmt"
	"time"

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/primitive"
)

var numericInput = []primitive.Signature{primitive.Sig(frame.Numeric())}

// AddNumericScalar adds a scalar to every value of a numeric column.
var AddNumericScalar = defineScalar(primitive.Class{
	Name:      "add_numeric_scalar",
	Doc:       `Adds a scalar to each value of a numeric column.`,
	Return:    frame.Numeric(),
	Templates: []string{"the sum of {} and {value}"},
}, 0, "%s + %s", func(x, v float64) (float64, bool) { return x + v, true })

// SubtractNumericScalar subtracts a scalar from every value of a numeric column.
var SubtractNumericScalar = defineScalar(primitive.Class{
	Name:      "subtract_numeric_scalar",
	Doc:       `Subtracts a scalar from each value of a numeric column.`,
	Return:    frame.Numeric(),
	Templates: []string{"the result of {} minus {value}"},
}, 0, "%s - %s", func(x, v float64) (float64, bool) { return x - v, true })

// ScalarSubtractNumericFeature subtracts every value of a numeric column from a
// scalar.
var ScalarSubtractNumericFeature = defineScalar(primitive.Class{
	Name:      "scalar_subtract_numeric_feature",
	Doc:       `Subtracts each value of a numeric column from a scalar.`,
	Return:    frame.Numeric(),
	Templates: []string{"the result of {value} minus {}"},
}, 0, "%[2]s - %[1]s", func(x, v float64) (float64, bool) { return v - x, true })

// MultiplyNumericScalar multiplies every value of a numeric column by a scalar.
var MultiplyNumericScalar = defineScalar(primitive.Class{
	Name:      "multiply_numeric_scalar",
	Doc:       `Multiplies each value of a numeric column by a scalar.`,
	Return:    frame.Numeric(),
	Templates: []string{"the product of {} and {value}"},
}, 1, "%s * %s", func(x, v float64) (float64, bool) { return x * v, true })

// DivideNumericScalar divides every value of a numeric column by a scalar.
var DivideNumericScalar = defineScalar(primitive.Class{
	Name:      "divide_numeric_scalar",
	Doc:       `Divides each value of a numeric column by a scalar.`,
	Return:    frame.Floating(),
	Templates: []string{"the result of {} divided by {value}"},
}, 1, "%s / %s", func(x, v float64) (float64, bool) { return x / v, true })

// DivideByFeature divides a scalar by every value of a numeric column.
var DivideByFeature = defineScalar(primitive.Class{
	Name:      "divide_by_feature",
	Doc:       `Divides a scalar by each value of a numeric column.`,
	Return:    frame.Floating(),
	Templates: []string{"the result of {value} divided by {}"},
}, 1, "%[2]s / %[1]s", func(x, v float64) (float64, bool) { return v / x, true })

// ModuloNumericScalar computes the remainder of every value of a numeric column
// after division by a scalar.
var ModuloNumericScalar = defineScalar(primitive.Class{
	Name:      "modulo_numeric_scalar",
	Doc:       `Computes the remainder of each value of a numeric column after division by a scalar.`,
	Return:    frame.Numeric(),
	Templates: []string{"the remainder after dividing {} by {value}"},
}, 1, "%s %% %s", floorMod)

// ModuloByFeature computes the remainder of a scalar after division by every
// value of a numeric column.
var ModuloByFeature = defineScalar(primitive.Class{
	Name:      "modulo_by_feature",
	Doc:       `Computes the remainder of a scalar after division by each value of a numeric column.`,
	Return:    frame.Numeric(),
	Templates: []string{"the remainder after dividing {value} by {}"},
}, 1, "%[2]s %% %[1]s", func(x, v float64) (float64, bool) { return floorMod(v, x) })

// GreaterThanScalar compares every value of a numeric column with a scalar.
var GreaterThanScalar = defineScalarComparison(primitive.Class{
	Name:      "greater_than_scalar",
	Doc:       `Determines whether each value of a numeric column is greater than a scalar.`,
	Templates: []string{"whether {} is greater than {value}"},
}, "%s > %s", func(x, v float64) bool { return x > v })

// GreaterThanEqualToScalar compares every value of a numeric column with a
// scalar.
var GreaterThanEqualToScalar = defineScalarComparison(primitive.Class{
	Name:      "greater_than_equal_to_scalar",
	Doc:       `Determines whether each value of a numeric column is greater than or equal to a scalar.`,
	Templates: []string{"whether {} is greater than or equal to {value}"},
}, "%s >= %s", func(x, v float64) bool { return x >= v })

// LessThanScalar compares every value of a numeric column with a scalar.
var LessThanScalar = defineScalarComparison(primitive.Class{
	Name:      "less_than_scalar",
	Doc:       `Determines whether each value of a numeric column is less than a scalar.`,
	Templates: []string{"whether {} is less than {value}"},
}, "%s < %s", func(x, v float64) bool { return x < v })

// LessThanEqualToScalar compares every value of a numeric column with a scalar.
var LessThanEqualToScalar = defineScalarComparison(primitive.Class{
	Name:      "less_than_equal_to_scalar",
	Doc:       `Determines whether each value of a numeric column is less than or equal to a scalar.`,
	Templates: []string{"whether {} is less than or equal to {value}"},
}, "%s <= %s", func(x, v float64) bool { return x <= v })

// EqualScalar determines whether every value of a column equals a scalar.
var EqualScalar = defineOperator(primitive.Class{
	Name: "equal_scalar",
	Doc: `Determines whether each value of a column equals a scalar.

	Comparing against a null scalar yields null.`,
	Inputs:    []primitive.Signature{primitive.Sig(frame.Any())},
	Return:    frame.Boolean(),
	Templates: []string{"whether {} equals {value}"},
	Params:    []primitive.ParamSpec{{Name: "value", Default: nil, Doc: "scalar to compare against"}},
}, "%s = %s", scalarEquality(false))

// NotEqualScalar determines whether every value of a column differs from a
// scalar.
var NotEqualScalar = defineOperator(primitive.Class{
	Name: "not_equal_scalar",
	Doc: `Determines whether each value of a column differs from a scalar.

	Comparing against a null scalar yields null.`,
	Inputs:    []primitive.Signature{primitive.Sig(frame.Any())},
	Return:    frame.Boolean(),
	Templates: []string{"whether {} does not equal {value}"},
	Params:    []primitive.ParamSpec{{Name: "value", Default: nil, Doc: "scalar to compare against"}},
}, "%s != %s", scalarEquality(true))

// defineScalar finalises a class combining a numeric column with a numeric
// "value" parameter, which has the given default.
func defineScalar(c primitive.Class, value any, format string, fn func(float64, float64) (float64, bool)) *primitive.Class {
	c.Inputs = numericInput
	c.Params = []primitive.ParamSpec{{Name: "value", Default: value, Doc: "scalar operand"}}
	c.Validate = numericValue
	//
	return defineOperator(c, format, func(params primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		var (
			v      = params.Float("value")
			col    = inputs[0]
			valid  = mask(col)
			values = make([]float64, col.Height())
		)
		//
		for i, x := range col.Floats() {
			var ok bool
			//
			if values[i], ok = fn(x, v); !ok {
				if valid == nil {
					valid = allValid(len(values))
				}
				//
				valid[i] = false
			}
		}
		//
		return one(numericOf(values, valid)), nil
	})
}

// defineScalarComparison finalises a class comparing a numeric column with a
// numeric "value" parameter (by default 0).
func defineScalarComparison(c primitive.Class, format string, fn func(float64, float64) bool) *primitive.Class {
	c.Inputs = numericInput
	c.Return = frame.Boolean()
	c.Params = []primitive.ParamSpec{{Name: "value", Default: 0, Doc: "scalar to compare against"}}
	c.Validate = numericValue
	//
	return defineOperator(c, format, func(params primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		var (
			v      = params.Float("value")
			col    = inputs[0]
			values = make([]bool, col.Height())
		)
		//
		for i, x := range col.Floats() {
			values[i] = fn(x, v)
		}
		//
		return one(boolsOf(values, col.Validity())), nil
	})
}

func numericValue(params primitive.Params) (primitive.Params, error) {
	switch v := params.Get("value").(type) {
	case int, float64:
		return params, nil
	default:
		return nil, fmt.Errorf("%w: value must be a number (got %v)", primitive.ErrInvalidParameter, v)
	}
}

func scalarEquality(negate bool) kernel {
	return func(params primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		var (
			col    = inputs[0]
			value  = params.Get("value")
			values = make([]bool, col.Height())
		)
		//
		if value == nil {
			return one(frame.NewNullColumn("", frame.KindBool, col.Height())), nil
		}
		//
		if col.Kind().IsNumeric() {
			v, ok := value.(float64)
			if i, isInt := value.(int); isInt {
				v, ok = float64(i), true
			}
			//
			for i, x := range col.Floats() {
				values[i] = ok && x == v
			}
		} else if col.Kind() == frame.KindString {
			str, ok := value.(string)
			for i, x := range col.Strings() {
				values[i] = ok && x == str
			}
		} else {
			text := scalarText(value, col.Kind())
			for i := range values {
				values[i] = col.Text(uint(i)) == text
			}
		}
		//
		if negate {
			for i := range values {
				values[i] = !values[i]
			}
		}
		//
		return one(boolsOf(values, col.Validity())), nil
	}
}

// scalarText renders a scalar as it would be rendered in a column of a given
// kind.
func scalarText(value any, kind frame.Kind) string {
	switch v := value.(type) {
	case time.Time:
		if kind == frame.KindDate {
			return v.UTC().Format(frame.DateLayout)
		}
		//
		return v.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return v.String()
	default:
		return primitive.FormatValue(v)
	}
}
