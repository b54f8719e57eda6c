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

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/primitive"
)

// Parameters which determine the decay of an exponentially weighted window.
var decayParams = []string{"com", "span", "half_life", "alpha"}

// ExponentialWeightedVariance computes the exponentially weighted moving
// variance of a numeric column.
var ExponentialWeightedVariance = define(primitive.Class{
	Name: "exponential_weighted_variance",
	Doc: `Computes the exponentially weighted moving variance of a column.

	Exactly one of center of mass (com >= 0), span (span >= 1), half-life
	(half_life > 0) or smoothing factor (0 < alpha <= 1) determines the decay,
	where com=0.5 is used when none is given.  Rows with fewer than
	min_periods observations are null, as are null rows.  When ignore_nulls is
	set, weights are computed from the observed values only.`,
	Inputs: numericInput,
	Return: frame.Floating(),
	Params: []primitive.ParamSpec{
		{Name: "com", Default: nil, Doc: "decay in terms of center of mass"},
		{Name: "span", Default: nil, Doc: "decay in terms of span"},
		{Name: "half_life", Default: nil, Doc: "decay in terms of half-life"},
		{Name: "alpha", Default: nil, Doc: "smoothing factor"},
		{Name: "adjust", Default: true, Doc: "divide by decaying adjustment factor"},
		{Name: "bias", Default: false, Doc: "compute the biased (population) variance"},
		{Name: "min_periods", Default: 1, Doc: "minimum number of observations"},
		{Name: "ignore_nulls", Default: false, Doc: "ignore nulls when computing weights"},
	},
	Validate: validateDecay,
}, ewmVariance)

func validateDecay(params primitive.Params) (primitive.Params, error) {
	if n, ok := params.Get("min_periods").(int); !ok || n < 0 {
		return nil, fmt.Errorf("%w: min_periods must be a non-negative integer (got %v)",
			primitive.ErrInvalidParameter, params.Get("min_periods"))
	}
	//
	var set []string
	//
	for _, name := range decayParams {
		if params.IsSet(name) {
			set = append(set, name)
		}
	}
	//
	switch {
	case len(set) == 0:
		return params.With("com", 0.5), nil
	case len(set) > 1:
		return nil, fmt.Errorf("%w: exactly one of com, span, half_life or alpha may be given (got %v)",
			primitive.ErrInvalidParameter, set)
	}
	//
	v := params.Float(set[0])
	//
	switch name := set[0]; {
	case name == "com" && !(v >= 0):
		return nil, fmt.Errorf("%w: com must be >= 0 (got %v)", primitive.ErrInvalidParameter, params.Get(name))
	case name == "span" && !(v >= 1):
		return nil, fmt.Errorf("%w: span must be >= 1 (got %v)", primitive.ErrInvalidParameter, params.Get(name))
	case name == "half_life" && !(v > 0):
		return nil, fmt.Errorf("%w: half_life must be > 0 (got %v)", primitive.ErrInvalidParameter,
			params.Get(name))
	case name == "alpha" && !(v > 0 && v <= 1):
		return nil, fmt.Errorf("%w: alpha must be in (0, 1] (got %v)", primitive.ErrInvalidParameter,
			params.Get(name))
	}
	//
	return params, nil
}

// smoothing determines the smoothing factor from whichever decay parameter is
// set.
func smoothing(params primitive.Params) float64 {
	switch {
	case params.IsSet("com"):
		return 1 / (1 + params.Float("com"))
	case params.IsSet("span"):
		return 2 / (params.Float("span") + 1)
	case params.IsSet("half_life"):
		return 1 - math.Exp(-math.Ln2/params.Float("half_life"))
	default:
		return params.Float("alpha")
	}
}

// ewmVariance computes the variance with an online algorithm, updating the
// weighted mean and (co)variance one observation at a time.
func ewmVariance(params primitive.Params, inputs []*frame.Column) ([]*frame.Column, error) {
	var (
		col        = inputs[0]
		data       = col.Floats()
		values     = make([]float64, len(data))
		valid      = make([]bool, len(data))
		alpha      = smoothing(params)
		adjust     = params.Bool("adjust")
		bias       = params.Bool("bias")
		ignoreNull = params.Bool("ignore_nulls")
		minPeriods = params.Int("min_periods")
		oldFactor  = 1 - alpha
		newWeight  = 1.0
	)
	// Running state
	var (
		mean, cov float64
		nobs      int
		started   bool
	)
	//
	sumWt, sumWt2, oldWt := 1.0, 1.0, 1.0
	//
	if !adjust {
		newWeight = alpha
	}
	//
	for i, x := range data {
		observed := col.Valid(uint(i))
		//
		switch {
		case !started && observed:
			mean, started = x, true
			nobs++
		case started && (observed || !ignoreNull):
			sumWt *= oldFactor
			sumWt2 *= oldFactor * oldFactor
			oldWt *= oldFactor
			//
			if observed {
				nobs++
				oldMean := mean
				total := oldWt + newWeight
				//
				if mean != x {
					mean = (oldWt*oldMean + newWeight*x) / total
				}
				//
				cov = (oldWt*(cov+(oldMean-mean)*(oldMean-mean)) + newWeight*(x-mean)*(x-mean)) / total
				sumWt += newWeight
				sumWt2 += newWeight * newWeight
				oldWt += newWeight
				//
				if !adjust {
					sumWt /= oldWt
					sumWt2 /= oldWt * oldWt
					oldWt = 1
				}
			}
		}
		//
		if !observed || nobs < minPeriods || nobs == 0 {
			continue
		}
		//
		values[i], valid[i] = debias(cov, sumWt, sumWt2, bias)
	}
	//
	return one(numericOf(values, valid)), nil
}

// debias corrects a weighted variance for bias, which is impossible when the
// effective number of observations is at most one.
func debias(cov, sumWt, sumWt2 float64, bias bool) (float64, bool) {
	if bias {
		return cov, true
	}
	//
	numerator := sumWt * sumWt
	denominator := numerator - sumWt2
	//
	if denominator <= 0 {
		return 0, false
	}
	//
	return numerator / denominator * cov, true
}
