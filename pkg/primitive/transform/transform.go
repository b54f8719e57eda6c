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

import "github.com/featsynth/go-dfs/pkg/primitive"

// All returns every built-in transform class.
func All() []*primitive.Class {
	return []*primitive.Class{
		// Binary
		AddNumeric, SubtractNumeric, MultiplyNumeric, DivideNumeric, ModuloNumeric, MultiplyBoolean,
		MultiplyNumericBoolean, And, Or, Equal, NotEqual, GreaterThan, GreaterThanEqualTo, LessThan,
		LessThanEqualTo,
		// Scalar
		AddNumericScalar, SubtractNumericScalar, ScalarSubtractNumericFeature, MultiplyNumericScalar,
		DivideNumericScalar, DivideByFeature, ModuloNumericScalar, ModuloByFeature, GreaterThanScalar,
		GreaterThanEqualToScalar, LessThanScalar, LessThanEqualToScalar, EqualScalar, NotEqualScalar,
		// Numeric
		Negate, Absolute, Sine, Cosine, Tangent, NaturalLogarithm, SquareRoot, Percentile, Diff,
		SameAsPrevious, RateOfChange,
		// Cumulative
		CumSum, CumMin, CumMax, CumMinMax, CumMean, CumCount, CumulativeTimeSinceLastTrue,
		CumulativeTimeSinceLastFalse,
		// Exponential
		ExponentialWeightedVariance,
	}
}

// Defaults returns the transform classes used when none are requested.
func Defaults() []*primitive.Class {
	return []*primitive.Class{
		AddNumeric, SubtractNumeric, MultiplyNumeric, DivideNumeric, Negate, Absolute, CumSum, CumMean, Diff,
		GreaterThan,
	}
}
