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
package registry

import (
	"errors"
	"testing"

	"github.com/featsynth/go-dfs/pkg/primitive"
	"github.com/featsynth/go-dfs/pkg/primitive/aggregation"
	"github.com/featsynth/go-dfs/pkg/primitive/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add_numeric", "add_numeric"},
		{"AddNumeric", "add_numeric"},
		{"Add Numeric", "add_numeric"},
		{"add numeric", "add_numeric"},
		{"  cum   sum ", "cum_sum"},
		{"CumulativeTimeSinceLastTrue", "cumulative_time_since_last_true"},
		{"Cumulative_Time_Since_Last_True", "cumulative_time_since_last_true"},
		{"negate", "negate"},
		{"ADD NUMERIC", "add_numeric"},
		{"ADD_NUMERIC", "add_numeric"},
		{"CUM_SUM", "cum_sum"},
		{"add_NUMERIC", "add_numeric"},
		{"NEGATE", "negate"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestLookup(t *testing.T) {
	r := Default()
	//
	for _, name := range []string{"Add Numeric", "AddNumeric", "add_numeric", "ADD NUMERIC", "ADD_NUMERIC"} {
		c, err := r.Lookup(name)
		require.NoError(t, err)
		assert.Same(t, transform.AddNumeric, c)
	}
	//
	c, err := r.Lookup("CUM_SUM")
	require.NoError(t, err)
	assert.Same(t, transform.CumSum, c)
	//
	_, err = r.Lookup("Bogus Primitive")
	assert.True(t, errors.Is(err, ErrUnknownPrimitive))
	assert.Contains(t, err.Error(), "Bogus Primitive")
	assert.Contains(t, err.Error(), "go-dfs list")
}

func TestVariants(t *testing.T) {
	r := Default()
	//
	c, err := r.Transform("negate")
	require.NoError(t, err)
	assert.Same(t, transform.Negate, c)
	//
	c, err = r.Aggregation("Sum")
	require.NoError(t, err)
	assert.Same(t, aggregation.Sum, c)
	//
	_, err = r.Transform("sum")
	assert.True(t, errors.Is(err, ErrWrongVariant))
	_, err = r.Aggregation("negate")
	assert.True(t, errors.Is(err, ErrWrongVariant))
	//
	assert.Len(t, r.Classes(primitive.Transform), len(transform.All()))
	assert.Len(t, r.Classes(primitive.Aggregation), len(aggregation.All()))
	assert.Equal(t, r.Len(), uint(len(r.Classes())))
}

func TestNew_Duplicate(t *testing.T) {
	_, err := New(transform.AddNumeric, transform.Negate, transform.AddNumeric)
	assert.True(t, errors.Is(err, ErrDuplicatePrimitive))
}

func TestList(t *testing.T) {
	r, err := New(transform.GreaterThan, transform.AddNumeric, aggregation.Sum)
	require.NoError(t, err)
	//
	infos := r.List()
	require.Len(t, infos, 3)
	assert.Equal(t, Info{
		Name:        "add_numeric",
		Description: "Performs element-wise addition of two columns.",
		ValidInputs: "(numeric, numeric)",
		ReturnType:  "numeric",
		Variant:     primitive.Transform,
	}, infos[0])
	assert.Equal(t, "greater_than", infos[1].Name)
	assert.Equal(t, "(numeric, numeric), ((datetime | date), (datetime | date)), (duration, duration)",
		infos[1].ValidInputs)
	assert.Equal(t, "boolean", infos[1].ReturnType)
	assert.Equal(t, "sum", infos[2].Name)
	//
	aggs := r.List(primitive.Aggregation)
	require.Len(t, aggs, 1)
	assert.Equal(t, primitive.Aggregation, aggs[0].Variant)
}
