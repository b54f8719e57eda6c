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
	"slices"
	"strings"

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/primitive"
)

// kernel computes the output columns of a primitive from its parameters and
// input columns.  Output names are irrelevant, since they are assigned when
// the outputs are added to a table.
type kernel func(params primitive.Params, inputs []*frame.Column) ([]*frame.Column, error)

// mapped is a primitive whose computation is given by a kernel, and which is
// named in the default fashion.
type mapped struct {
	primitive.Base
	kernel kernel
}

// Compute the outputs of this primitive.
func (p mapped) Compute(inputs []*frame.Column) ([]*frame.Column, error) {
	return p.kernel(p.Params(), inputs)
}

// operator is a primitive named as an operator applied to its inputs, such as
// "a + b" or "-(a)".  The format receives the input names, followed by the
// "value" parameter (if the class declares one).  Likewise, "{value}" in a
// description template is replaced by that parameter.
type operator struct {
	mapped
	format string
}

// FeatureName renders the name of a feature produced by this operator.
func (p operator) FeatureName(inputs []string) string {
	args := make([]any, 0, len(inputs)+1)
	for _, in := range inputs {
		args = append(args, in)
	}
	//
	if value, ok := p.Params().Lookup("value"); ok {
		args = append(args, primitive.FormatValue(value.Value))
	}
	//
	return fmt.Sprintf(p.format, args...)
}

// Templates returns the description templates of this operator, with the value
// of its "value" parameter (if any) filled in.
func (p operator) Templates() []string {
	value, ok := p.Params().Lookup("value")
	if !ok {
		return p.Class().Templates
	}
	//
	templates := slices.Clone(p.Class().Templates)
	for i, t := range templates {
		templates[i] = strings.ReplaceAll(t, "{value}", primitive.FormatValue(value.Value))
	}
	//
	return templates
}

// OutputKinds determines the output kinds of this operator, where a floating
// point "value" parameter forces a floating point result.
func (p operator) OutputKinds(inputs []frame.Kind) []frame.Kind {
	if _, ok := p.Params().Get("value").(float64); ok {
		inputs = append(slices.Clone(inputs), frame.KindFloat)
	}
	//
	return primitive.Repeat(primitive.NumericKind(p.Class().Return, inputs), p.Class().NumOutputs)
}

// define finalises a class computed by a given kernel.
func define(c primitive.Class, k kernel) *primitive.Class {
	c.Build = func(b primitive.Base) primitive.Primitive {
		return mapped{b, k}
	}
	//
	return primitive.MustDefine(c)
}

// defineOperator finalises a class computed by a given kernel and named with a
// given format.
func defineOperator(c primitive.Class, format string, k kernel) *primitive.Class {
	c.Build = func(b primitive.Base) primitive.Primitive {
		return operator{mapped{b, k}, format}
	}
	//
	return primitive.MustDefine(c)
}

// ===================================================================
// Column Helpers
// ===================================================================

// mask combines the validity masks of several columns, such that a row is
// valid only when it is valid in every column.  This returns nil when every
// row is valid.
func mask(cols ...*frame.Column) []bool {
	var valid []bool
	//
	for _, col := range cols {
		if col.Validity() == nil {
			continue
		} else if valid == nil {
			valid = slices.Clone(col.Validity())
			continue
		}
		//
		for i, v := range col.Validity() {
			valid[i] = valid[i] && v
		}
	}
	//
	return valid
}

// valuesOf returns the values of a column as floating point numbers, where
// times and durations are given in microseconds and booleans as 0 or 1.
func valuesOf(col *frame.Column) []float64 {
	switch kind := col.Kind(); {
	case kind.IsNumeric():
		return col.Floats()
	case kind == frame.KindBool:
		values := make([]float64, col.Height())
		for i, b := range col.Bools() {
			if b {
				values[i] = 1
			}
		}
		//
		return values
	case kind.IsTemporal() || kind == frame.KindDuration:
		values := make([]float64, col.Height())
		for i, m := range col.Micros() {
			values[i] = float64(m)
		}
		//
		return values
	default:
		panic(fmt.Sprintf("column %s has non-numeric kind %s", col.Name(), kind))
	}
}

func numericOf(values []float64, valid []bool) *frame.Column {
	return frame.NewNumericColumn("", frame.KindFloat, values, valid)
}

func boolsOf(values []bool, valid []bool) *frame.Column {
	return frame.NewBoolColumn("", values...).WithValidity(valid)
}

func one(col *frame.Column) []*frame.Column {
	return []*frame.Column{col}
}

// mapFloats applies a function to every value of a numeric column.
func mapFloats(col *frame.Column, fn func(float64) float64) *frame.Column {
	values := make([]float64, col.Height())
	for i, v := range col.Floats() {
		values[i] = fn(v)
	}
	//
	return numericOf(values, col.Validity())
}

// zipFloats applies a function to corresponding values of two columns.  The
// function may report that no value exists for a given pair, in which case the
// result is null.
func zipFloats(lhs, rhs *frame.Column, fn func(float64, float64) (float64, bool)) *frame.Column {
	var (
		lv, rv = valuesOf(lhs), valuesOf(rhs)
		valid  = mask(lhs, rhs)
		values = make([]float64, len(lv))
	)
	//
	for i := range values {
		var ok bool
		//
		if values[i], ok = fn(lv[i], rv[i]); !ok {
			if valid == nil {
				valid = allValid(len(values))
			}
			//
			valid[i] = false
		}
	}
	//
	return numericOf(values, valid)
}

// compareFloats compares corresponding values of two columns.
func compareFloats(lhs, rhs *frame.Column, fn func(float64, float64) bool) *frame.Column {
	var (
		lv, rv = valuesOf(lhs), valuesOf(rhs)
		values = make([]bool, len(lv))
	)
	//
	for i := range values {
		values[i] = fn(lv[i], rv[i])
	}
	//
	return boolsOf(values, mask(lhs, rhs))
}

func allValid(n int) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}
	//
	return valid
}
