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
package primitive

import (
	"fmt"
	"slices"
	"strings"

	"github.com/featsynth/go-dfs/pkg/frame"
)

// Result describes the outcome of applying a primitive to a table.
type Result struct {
	// Table extended with the new columns.
	Table *frame.Table
	// Names of the new columns.
	Names []string
	// Kinds of the new columns.
	Kinds []frame.Kind
}

// Apply applies a primitive to the named input columns of a table, producing a
// new table extended with its outputs.  When group columns are given, the
// primitive is evaluated separately within each group (and aggregations are
// broadcast over their group).  A group column may not also be an input.  If
// an output name is already taken, this fails with ErrColumnExists.  On error,
// the given table is unaffected.
func Apply(t *frame.Table, p Primitive, inputs []string, groups []string) (Result, error) {
	for _, g := range groups {
		if !t.HasColumn(g) {
			return Result{}, fmt.Errorf("%w: group column %q", frame.ErrUnknownColumn, g)
		} else if slices.Contains(inputs, g) {
			return Result{}, fmt.Errorf("%w: %q", ErrGroupInput, g)
		}
	}
	//
	if len(inputs) != p.Class().Arity() {
		return Result{}, fmt.Errorf("%w: %s expects %d, got %d", ErrInputCount, p.Name(), p.Class().Arity(),
			len(inputs))
	}
	//
	kinds, err := inputKinds(t, inputs)
	if err != nil {
		return Result{}, err
	}
	//
	if !Accepts(p, kinds) {
		return Result{}, fmt.Errorf("%w: %s accepts %s, given %s", ErrInputKind, p.Name(), p.Class().ValidInputs(),
			kindsString(kinds))
	}
	//
	var names []string
	//
	if p.Class().Variant == Aggregation {
		names = AggregationNames(p, inputs, AggregationContext{Path: strings.Join(groups, "_")})
	} else {
		names = Names(p, inputs)
	}
	//
	outKinds := p.OutputKinds(kinds)
	outputs := make([]frame.Field, len(names))
	//
	for i, name := range names {
		outputs[i] = frame.Field{Name: name, Kind: outKinds[i]}
	}
	//
	expr := frame.Expr{Inputs: inputs, Outputs: outputs, Compute: p.Compute}
	//
	nt, err := t.WithColumns(expr, groups...)
	if err != nil {
		return Result{}, err
	}
	//
	return Result{nt, names, outKinds}, nil
}

// Accepts checks whether some signature of a primitive accepts the given input
// kinds.
func Accepts(p Primitive, kinds []frame.Kind) bool {
	for _, sig := range p.Class().Inputs {
		if sig.Accepts(kinds) {
			return true
		}
	}
	//
	return false
}

// CanonicalInputs orders the inputs of a commutative primitive by name, so that
// equivalent applications produce the same name (and therefore collide).  The
// given order is retained if the primitive is not commutative, or if the sorted
// order is not accepted by any signature.
func CanonicalInputs(t *frame.Table, p Primitive, inputs []string) []string {
	if !p.Commutative() || slices.IsSorted(inputs) {
		return inputs
	}
	//
	sorted := slices.Clone(inputs)
	slices.Sort(sorted)
	//
	if kinds, err := inputKinds(t, sorted); err == nil && Accepts(p, kinds) {
		return sorted
	}
	//
	return inputs
}

func inputKinds(t *frame.Table, inputs []string) ([]frame.Kind, error) {
	kinds := make([]frame.Kind, len(inputs))
	//
	for i, in := range inputs {
		kind, err := t.Kind(in)
		if err != nil {
			return nil, err
		}
		//
		kinds[i] = kind
	}
	//
	return kinds, nil
}

func kindsString(kinds []frame.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(names, ", "))
}
