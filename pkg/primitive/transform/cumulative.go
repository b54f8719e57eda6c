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
	"gonum.org/v1/gonum/floats"
)

// CumSum computes the running total of a numeric column.
var CumSum = define(primitive.Class{
	Name: "cum_sum",
	Doc: `Calculates the cumulative sum.

	The sum at each row is calculated over all prior values.  Null rows remain
	null, and are otherwise ignored.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the cumulative sum of {}"},
}, cumSum)

// CumMin computes the running minimum of a numeric column.
var CumMin = define(primitive.Class{
	Name: "cum_min",
	Doc: `Calculates the cumulative minimum.

	The minimum at each row is calculated over all prior values.  Null rows
	remain null, and are otherwise ignored.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the cumulative minimum of {}"},
}, running(math.Min))

// CumMax computes the running maximum of a numeric column.
var CumMax = define(primitive.Class{
	Name: "cum_max",
	Doc: `Calculates the cumulative maximum.

	The maximum at each row is calculated over all prior values.  Null rows
	remain null, and are otherwise ignored.`,
	Inputs:    numericInput,
	Return:    frame.Numeric(),
	Templates: []string{"the cumulative maximum of {}"},
}, running(math.Max))

// CumMinMax computes both the running minimum and maximum of a numeric column.
var CumMinMax = define(primitive.Class{
	Name: "cum_min_max",
	Doc: `Calculates the cumulative minimum and maximum.

	The first output is the running minimum, and the second the running
	maximum.  Null rows remain null, and are otherwise ignored.`,
	Inputs:     numericInput,
	Return:     frame.Numeric(),
	NumOutputs: 2,
	Templates: []string{
		"the cumulative minimum and maximum of {}",
		"the cumulative minimum of {}",
		"the cumulative maximum of {}",
	},
}, func(params primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	lows, _ := running(math.Min)(params, inputs)
	highs, _ := running(math.Max)(params, inputs)
	//
	return append(lows, highs...), nil
})

// CumMean computes the running mean of a numeric column.
var CumMean = define(primitive.Class{
	Name: "cum_mean",
	Doc: `Calculates the cumulative mean.

	The mean at each row is calculated over all prior non-null values.  Null
	rows remain null.`,
	Inputs:    numericInput,
	Return:    frame.Floating(),
	Templates: []string{"the cumulative mean of {}"},
}, cumMean)

// CumCount counts the non-null values seen so far.
var CumCount = define(primitive.Class{
	Name: "cum_count",
	Doc: `Calculates the cumulative count.

	The count at each row is the number of non-null values up to and including
	that row.`,
	Inputs:    []primitive.Signature{primitive.Sig(frame.Any())},
	Return:    frame.Integer(),
	Templates: []string{"the cumulative count of {}"},
}, cumCount)

// CumulativeTimeSinceLastTrue computes the time elapsed since a boolean column
// was last true.
var CumulativeTimeSinceLastTrue = define(primitive.Class{
	Name: "cumulative_time_since_last_true",
	Doc: `Determines the time since the last true value.

	Given a time column T and a boolean column B, return the time elapsed at
	each row since the last row where B was true.  Rows before the first such
	row are null.`,
	Inputs:    []primitive.Signature{primitive.Sig(timestamp(), frame.Boolean())},
	Return:    frame.Duration(),
	Templates: []string{"the time elapsed in {} since {} was last true"},
}, timeSinceLast(true))

// CumulativeTimeSinceLastFalse computes the time elapsed since a boolean column
// was last false.
var CumulativeTimeSinceLastFalse = define(primitive.Class{
	Name: "cumulative_time_since_last_false",
	Doc: `Determines the time since the last false value.

	Given a time column T and a boolean column B, return the time elapsed at
	each row since the last row where B was false.  Rows before the first such
	row are null.`,
	Inputs:    []primitive.Signature{primitive.Sig(timestamp(), frame.Boolean())},
	Return:    frame.Duration(),
	Templates: []string{"the time elapsed in {} since {} was last false"},
}, timeSinceLast(false))

// ===================================================================
// Kernels
// ===================================================================

func cumSum(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	var (
		col    = inputs[0]
		data   = make([]float64, col.Height())
		values = make([]float64, col.Height())
	)
	// Nulls contribute nothing to the total.
	for i, v := range col.Floats() {
		if col.Valid(uint(i)) {
			data[i] = v
		}
	}
	//
	if len(data) > 0 {
		floats.CumSum(values, data)
	}
	//
	return one(numericOf(values, col.Validity())), nil
}

func running(fn func(float64, float64) float64) kernel {
	return func(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		var (
			col    = inputs[0]
			values = make([]float64, col.Height())
			acc    float64
			seen   bool
		)
		//
		for i, v := range col.Floats() {
			if !col.Valid(uint(i)) {
				continue
			} else if !seen {
				acc, seen = v, true
			} else {
				acc = fn(acc, v)
			}
			//
			values[i] = acc
		}
		//
		return one(numericOf(values, col.Validity())), nil
	}
}

func cumMean(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	var (
		col    = inputs[0]
		values = make([]float64, col.Height())
		sum    float64
		count  float64
	)
	//
	for i, v := range col.Floats() {
		if col.Valid(uint(i)) {
			sum += v
			count++
			values[i] = sum / count
		}
	}
	//
	return one(numericOf(values, col.Validity())), nil
}

func cumCount(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	var (
		col    = inputs[0]
		values = make([]float64, col.Height())
		count  float64
	)
	//
	for i := range values {
		if col.Valid(uint(i)) {
			count++
		}
		//
		values[i] = count
	}
	//
	return one(numericOf(values, nil)), nil
}

func timeSinceLast(target bool) kernel {
	return func(_ primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
		var (
			times, flags = inputs[0], inputs[1]
			micros       = times.Micros()
			bools        = flags.Bools()
			values       = make([]int64, len(micros))
			valid        = make([]bool, len(micros))
			last         int64
			seen         bool
		)
		//
		for i := range micros {
			row := uint(i)
			//
			if !times.Valid(row) {
				continue
			} else if flags.Valid(row) && bools[i] == target {
				last, seen = micros[i], true
			}
			//
			if seen {
				values[i], valid[i] = micros[i]-last, true
			}
		}
		//
		return one(frame.NewMicrosColumn("", frame.KindDuration, values, valid)), nil
	}
}
