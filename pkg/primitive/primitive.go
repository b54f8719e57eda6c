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
	"strings"

	"github.com/featsynth/go-dfs/pkg/frame"
)

// Primitive is an instance of a class, with its parameters resolved.  An
// instance is identified by its Key, which combines the name of its class with
// its non-default arguments.
type Primitive interface {
	// Class returns the class of this primitive.
	Class() *Class
	// Params returns the resolved parameters of this primitive.
	Params() Params
	// Name returns the name of the class of this primitive.
	Name() string
	// ArgString renders the non-default arguments of this primitive.
	ArgString() string
	// Key identifies this primitive.
	Key() string
	// Commutative indicates whether the order of inputs is irrelevant.
	Commutative() bool
	// Templates returns the description templates of this primitive.
	Templates() []string
	// OutputKinds determines the kinds of the outputs for given input kinds.
	OutputKinds(inputs []frame.Kind) []frame.Kind
	// Compute the outputs for given input columns.
	Compute(inputs []*frame.Column) ([]*frame.Column, error)
}

// Namer can be implemented by primitives which name their outputs in a
// bespoke fashion (e.g. "a + b").
type Namer interface {
	FeatureName(inputs []string) string
}

// Base provides the parts of a primitive determined by its class and
// parameters.  Leaf primitives embed this and supply Compute.
type Base struct {
	class  *Class
	params Params
}

// Class returns the class of this primitive.
func (b Base) Class() *Class {
	return b.class
}

// Params returns the resolved parameters of this primitive.
func (b Base) Params() Params {
	return b.params
}

// Name returns the name of the class of this primitive.
func (b Base) Name() string {
	return b.class.Name
}

// ArgString renders the non-default arguments of this primitive.
func (b Base) ArgString() string {
	return b.params.ArgString()
}

// Key identifies this primitive by its name and non-default arguments.
func (b Base) Key() string {
	return b.Name() + b.ArgString()
}

// Commutative is determined by a "commutative" parameter, when the class
// declares one, or by the class otherwise.
func (b Base) Commutative() bool {
	if p, ok := b.params.Lookup("commutative"); ok {
		c, _ := p.Value.(bool)
		return c
	}
	//
	return b.class.Commutative
}

// Templates returns the description templates of the class.
func (b Base) Templates() []string {
	return b.class.Templates
}

// OutputKinds determines the output kinds from the return type of the class.
// A numeric return type yields integers when all numeric inputs are integers,
// and floats otherwise.
func (b Base) OutputKinds(inputs []frame.Kind) []frame.Kind {
	return Repeat(NumericKind(b.class.Return, inputs), b.class.NumOutputs)
}

// NumericKind determines the result kind for a given return type and input
// kinds.  See Base.OutputKinds.
func NumericKind(ret frame.Selector, inputs []frame.Kind) frame.Kind {
	if !ret.Match(frame.KindInt) || !ret.Match(frame.KindFloat) {
		return ret.Concrete()
	}
	//
	numeric := false
	//
	for _, k := range inputs {
		if k == frame.KindFloat {
			return frame.KindFloat
		}
		//
		numeric = numeric || k == frame.KindInt
	}
	//
	if numeric {
		return frame.KindInt
	}
	//
	return frame.KindFloat
}

// Repeat constructs n copies of a given kind.
func Repeat(kind frame.Kind, n uint) []frame.Kind {
	kinds := make([]frame.Kind, n)
	for i := range kinds {
		kinds[i] = kind
	}
	//
	return kinds
}

// Compare orders primitives by their name and argument string.
func Compare(a, b Primitive) int {
	return strings.Compare(a.Key(), b.Key())
}

// Less checks whether one primitive precedes another.
func Less(a, b Primitive) bool {
	return Compare(a, b) < 0
}
