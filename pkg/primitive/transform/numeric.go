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
	"math"
	"slices"

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/primitive"
)

// Negate negates every value of a numeric column.
var Negate = defineOperator(primitive.Class{
	Name:      "negate",
	Doc:       `Negates a numeric value.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the negation of {}"},
}, "-(%s)", elementwise(func(x float64) float64 { return -x }))

// Absolute computes the absolute value of every value of a numeric column.
var Absolute = define(primitive.Class{
	Name:      "absolute",
	Doc:       `Computes the absolute value of a number.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the absolute value of {}"},
}, elementwise(math.Abs))

// Sine of a numeric column.
var Sine = define(primitive.Class{
	Name:      "sine",
	Doc:       `Computes the sine of a number.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the sine of {}"},
}, elementwise(math.Sin))

// Cosine of a numeric column.
var Cosine = define(primitive.Class{
	Name:      "cosine",
	Doc:       `Computes the cosine of a number.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the cosine of {}"},
}, elementwise(math.Cos))

// Tangent of a numeric column.
var Tangent = define(primitive.Class{
	Name:      "tangent",
	Doc:       `Computes the tangent of a number.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the tangent of {}"},
}, elementwise(math.Tan))

// NaturalLogarithm of a numeric column.
var NaturalLogarithm = define(primitive.Class{
	Name: "natural_logarithm",
	Doc: `Computes the natural logarithm of a number.

	The logarithm of zero is negative infinity, whilst that of a negative
	number is NaN.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the natural logarithm of {}"},
}, elementwise(math.Log))

// SquareRoot of a numeric column.
var SquareRoot = define(primitive.Class{
	Name:      "square_root",
	Doc:       `Computes the square root of a number.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the square root of {}"},
}, elementwise(math.Sqrt))

// Percentile determines the percentile rank of every value of a numeric column.
var Percentile = define(primitive.Class{
	Name: "percentile",
	Doc: `Determines the percentile rank of each value in a column.

	The rank of a value is its (1-based) position amongst the sorted non-null
	values, where tied values share the average of their positions.  The
	percentile rank is the rank divided by the number of non-null values.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the percentile rank of {}"},
}, percentile)

// Diff computes the difference between each value and an earlier one.
var Diff = define(primitive.Class{
	Name: "diff",
	Doc: `Computes the difference between each value in a column and the value a
	given number of rows before.

	Rows without a preceding value (e.g. the first row, by default) are null.
	A negative number of periods compares with later rows instead.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the difference from the previous value of {}"},
	Params:    []primitive.ParamSpec{{Name: "periods", Default: 1, Doc: "number of rows to look back"}},
	Validate: func(params primitive.Params) (primitive.Params, error) {
		if _, ok := params.Get("periods").(int); !ok {
			return nil, fmt.Errorf("%w: periods must be an integer", primitive.ErrInvalidParameter)
		}
		//
		return params, nil
	},
}, diff)

// Fill methods accepted by SameAsPrevious.
var fillMethods = []string{"pad", "ffill", "backfill", "bfill"}

// SameAsPrevious determines whether each value equals the value before it.
var SameAsPrevious = define(primitive.Class{
	Name: "same_as_previous",
	Doc: `Determines whether each value in a column equals the previous value.

	The first row is always false.  Nulls are first filled forwards ("pad" or
	"ffill") or backwards ("backfill" or "bfill"), filling at most limit
	consecutive nulls when a limit is given.  Any comparison involving a
	remaining null is false.`,
	Inputs:    numericInput,
	Return:    frame.Boolean(),
	Templates: []string{"whether {} is the same as the previous value"},
	Params: []primitive.ParamSpec{
		{Name: "fill_method", Default: "pad", Doc: "one of pad, ffill, backfill or bfill"},
		{Name: "limit", Default: nil, Doc: "maximum number of consecutive nulls to fill"},
	},
	Validate: func(params primitive.Params) (primitive.Params, error) {
		if !slices.Contains(fillMethods, params.Text("fill_method")) {
			return nil, fmt.Errorf("%w: fill_method must be one of %v (got %v)", primitive.ErrInvalidParameter,
				fillMethods, params.Get("fill_method"))
		}
		//
		if limit := params.Get("limit"); limit != nil {
			if n, ok := limit.(int); !ok || n < 1 {
				return nil, fmt.Errorf("%w: limit must be a positive integer (got %v)", primitive.ErrInvalidParameter,
					limit)
			}
		}
		//
		return params, nil
	},
}, sameAsPrevious)

// RateOfChange computes the rate of change of a value per second.
var RateOfChange = define(primitive.Class{
	Name: "rate_of_change",
	Doc: `Computes the rate of change of a value per second.

	Given a numeric column X and a time column T, return X divided by the
	number of seconds elapsed since the previous row of T.  The first row is
	null.`,
	Inputs:    []primitive.Signature{primitive.Sig(frame.Numeric(), timestamp())},
	Return:    frame.Floating(),
	Templates: []string{"the rate of change of {} per second"},
}, rateOfChange)

// ===================================================================
// Kernels
// ===================================================================

func elementwise(fn func(float64) float64) kernel {
	return func(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		return one(mapFloats(inputs[0], fn)), nil
	}
}

func percentile(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	var (
		col    = inputs[0]
		data   = col.Floats()
		values = make([]float64, len(data))
		rows   []int
	)
	//
	for i := range data {
		if col.Valid(uint(i)) {
			rows = append(rows, i)
		}
	}
	//
	slices.SortStableFunc(rows, func(l, r int) int {
		switch {
		case data[l] < data[r]:
			return -1
		case data[l] > data[r]:
			return 1
		default:
			return 0
		}
	})
	//
	count := float64(len(rows))
	// Each run of equal values shares the average of its ranks.
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && data[rows[end]] == data[rows[start]] {
			end++
		}
		//
		rank := float64(start+1+end) / 2
		for _, row := range rows[start:end] {
			values[row] = rank / count
		}
		//
		start = end
	}
	//
	return one(numericOf(values, col.Validity())), nil
}

func diff(params primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	var (
		col     = inputs[0]
		data    = col.Floats()
		periods = params.Int("periods")
		values  = make([]float64, len(data))
		valid   = make([]bool, len(data))
	)
	//
	for i := range data {
		j := i - periods
		//
		if j >= 0 && j < len(data) && col.Valid(uint(i)) && col.Valid(uint(j)) {
			values[i] = data[i] - data[j]
			valid[i] = true
		}
	}
	//
	return one(numericOf(values, valid)), nil
}

func sameAsPrevious(params primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	var (
		col    = inputs[0]
		data   = slices.Clone(col.Floats())
		valid  = allValid(len(data))
		values = make([]bool, len(data))
		limit  = -1
	)
	//
	for i := range valid {
		valid[i] = col.Valid(uint(i))
	}
	//
	if params.IsSet("limit") {
		limit = params.Int("limit")
	}
	//
	switch params.Text("fill_method") {
	case "pad", "ffill":
		fillNulls(data, valid, limit, false)
	default:
		fillNulls(data, valid, limit, true)
	}
	//
	for i := 1; i < len(data); i++ {
		values[i] = valid[i] && valid[i-1] && data[i] == data[i-1]
	}
	//
	return one(boolsOf(values, nil)), nil
}

// fillNulls fills null entries from the nearest preceding (or, when backwards,
// following) valid entry.  At most limit consecutive nulls are filled, unless
// limit is negative.
func fillNulls(data []float64, valid []bool, limit int, backwards bool) {
	var (
		n     = len(data)
		last  = -1
		count = 0
	)
	//
	for k := 0; k < n; k++ {
		i := k
		if backwards {
			i = n - 1 - k
		}
		//
		switch {
		case valid[i]:
			last, count = i, 0
		case last >= 0 && (limit < 0 || count < limit):
			data[i], valid[i] = data[last], true
			count++
		}
	}
}

func rateOfChange(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	var (
		col    = inputs[0]
		times  = inputs[1]
		data   = col.Floats()
		micros = times.Micros()
		values = make([]float64, len(data))
		valid  = make([]bool, len(data))
	)
	//
	for i := 1; i < len(data); i++ {
		if col.Valid(uint(i)) && times.Valid(uint(i)) && times.Valid(uint(i-1)) {
			seconds := float64(micros[i]-micros[i-1]) / 1e6
			values[i], valid[i] = data[i]/seconds, true
		}
	}
	//
	return one(numericOf(values, valid)), nil
}
