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
package aggregation

import (
	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/primitive"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// reducer reduces a column to a single value, or reports that there is no
// value (e.g. the mean of no values).
type reducer func(col *frame.Column) (float64, bool)

// reduction is an aggregation primitive computed by reducers, one for each
// output.
type reduction struct {
	primitive.Base
	reducers []reducer
}

// Compute reduces the given input to a single row for each output.
func (p reduction) Compute(inputs []*frame.Column) ([]*frame.Column, error) {
	cols := make([]*frame.Column, len(p.reducers))
	//
	for i, fn := range p.reducers {
		value, ok := fn(inputs[0])
		cols[i] = frame.NewNumericColumn("", frame.KindFloat, []float64{value}, []bool{ok})
	}
	//
	return cols, nil
}

func define(c primitive.Class, reducers ...reducer) *primitive.Class {
	c.Variant = primitive.Aggregation
	c.NumOutputs = uint(len(reducers))
	c.Build = func(b primitive.Base) primitive.Primitive {
		return reduction{b, reducers}
	}
	//
	return primitive.MustDefine(c)
}

var (
	numericInput = []primitive.Signature{primitive.Sig(frame.Numeric())}
	anyInput     = []primitive.Signature{primitive.Sig(frame.Any())}
)

// Sum of the values in each group.
var Sum = define(primitive.Class{
	Name: "sum",
	Doc: `Calculates the total of the values in a group.

	Nulls are ignored, and the sum of no values is zero.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the sum of {}"},
}, func(col *frame.Column) (float64, bool) {
	return floats.Sum(observed(col)), true
})

// Mean of the values in each group.
var Mean = define(primitive.Class{
	Name: "mean",
	Doc: `Calculates the average of the values in a group.

	Nulls are ignored.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the average of {}"},
}, func(col *frame.Column) (float64, bool) {
	values := observed(col)
	if len(values) == 0 {
		return 0, false
	}
	//
	return stat.Mean(values, nil), true
})

// Std is the sample standard deviation of the values in each group.
var Std = define(primitive.Class{
	Name: "std",
	Doc: `Calculates the standard deviation of the values in a group.

	This is the sample standard deviation, which requires at least two non-null
	values.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the standard deviation of {}"},
}, func(col *frame.Column) (float64, bool) {
	values := observed(col)
	if len(values) < 2 {
		return 0, false
	}
	//
	return stat.StdDev(values, nil), true
})

// Min is the smallest value in each group.
var Min = define(primitive.Class{
	Name:      "min",
	Doc:       `Calculates the smallest value in a group, ignoring nulls.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the minimum of {}"},
}, minimum)

// Max is the largest value in each group.
var Max = define(primitive.Class{
	Name:      "max",
	Doc:       `Calculates the largest value in a group, ignoring nulls.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the maximum of {}"},
}, maximum)

// MinMax gives both the smallest and largest value in each group.
var MinMax = define(primitive.Class{
	Name: "min_max",
	Doc: `Calculates the smallest and largest values in a group.

	The first output is the minimum, and the second the maximum.`,
	Inputs: numericInput,
	Return: frame.Numeric(),
	Templates: []string{
		"the minimum and maximum of {}",
		"the minimum of {}",
		"the maximum of {}",
	},
}, minimum, maximum)

// Count is the number of non-null values in each group.
var Count = define(primitive.Class{
	Name:      "count",
	Doc:       `Determines the number of non-null values in a group.`,
	Inputs:    anyInput,
	Return:    frame.Integer(),
	Templates: []string{"the number of {}"},
}, func(col *frame.Column) (float64, bool) {
	return float64(col.Height() - col.NullCount()), true
})

// NumUnique is the number of distinct non-null values in each group.
var NumUnique = define(primitive.Class{
	Name:      "num_unique",
	Doc:       `Determines the number of distinct non-null values in a group.`,
	Inputs:    anyInput,
	Return:    frame.Integer(),
	Templates: []string{"the number of unique elements in {}"},
}, func(col *frame.Column) (float64, bool) {
	seen := make(map[string]struct{})
	//
	for i := uint(0); i < col.Height(); i++ {
		if col.Valid(i) {
			seen[col.Text(i)] = struct{}{}
		}
	}
	//
	return float64(len(seen)), true
})

// PercentTrue is the fraction of non-null values in each group which are true.
var PercentTrue = define(primitive.Class{
	Name:      "percent_true",
	Doc:       `Determines the fraction of non-null values in a group which are true.`,
	Inputs:    []primitive.Signature{primitive.Sig(frame.Boolean())},
	Return:    frame.Floating(),
	Templates: []string{"the percentage of true values in {}"},
}, func(col *frame.Column) (float64, bool) {
	var total, count float64
	//
	for i, b := range col.Bools() {
		if col.Valid(uint(i)) {
			total++
			//
			if b {
				count++
			}
		}
	}
	//
	if total == 0 {
		return 0, false
	}
	//
	return count / total, true
})

// All returns every built-in aggregation class.
func All() []*primitive.Class {
	return []*primitive.Class{Sum, Mean, Std, Min, Max, MinMax, Count, NumUnique, PercentTrue}
}

func minimum(col *frame.Column) (float64, bool) {
	values := observed(col)
	if len(values) == 0 {
		return 0, false
	}
	//
	return floats.Min(values), true
}

func maximum(col *frame.Column) (float64, bool) {
	values := observed(col)
	if len(values) == 0 {
		return 0, false
	}
	//
	return floats.Max(values), true
}

// observed returns the non-null values of a numeric column.
func observed(col *frame.Column) []float64 {
	if col.Validity() == nil {
		return col.Floats()
	}
	//
	values := make([]float64, 0, col.Height())
	//
	for i, v := range col.Floats() {
		if col.Valid(uint(i)) {
			values = append(values, v)
		}
	}
	//
	return values
}
