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
	"strings"

	"github.com/featsynth/go-dfs/pkg/frame"
)

// Variant distinguishes the two capabilities a primitive can have.
type Variant uint8

const (
	// Transform primitives compute a value for every row of their inputs.
	Transform Variant = iota
	// Aggregation primitives reduce their inputs to a single value, and are
	// applied per group.
	Aggregation
)

func (v Variant) String() string {
	if v == Aggregation {
		return "aggregation"
	}
	//
	return "transform"
}

// ParseVariant converts the name of a variant back into a variant.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(name) {
	case "transform":
		return Transform, nil
	case "aggregation":
		return Aggregation, nil
	default:
		return 0, fmt.Errorf("unknown primitive variant %q (expected transform or aggregation)", name)
	}
}

// Class describes a kind of primitive: its name, accepted inputs, parameters
// and so on.  Classes are created once, through Define, and instantiated with
// New.
type Class struct {
	// Name is the canonical (lower snake case) name of the class.
	Name string
	// Doc describes the class.  The first paragraph is used in listings.
	Doc string
	// Variant determines whether this is a transform or an aggregation.
	Variant Variant
	// Inputs are the alternative signatures accepted.  All alternatives must
	// have the same arity.
	Inputs []Signature
	// Return describes the kind of value returned.
	Return frame.Selector
	// NumOutputs is the number of columns produced (defaults to 1).
	NumOutputs uint
	// Commutative indicates that the order of inputs is irrelevant.
	Commutative bool
	// Templates are description templates.  The first is the description of
	// the whole primitive, whilst later ones (if any) describe individual
	// outputs.  See Describe.
	Templates []string
	// Params declares the parameters accepted, in order.
	Params []ParamSpec
	// Validate optionally checks (and adjusts) resolved parameters.
	Validate func(Params) (Params, error)
	// Build constructs an instance from its base.
	Build func(Base) Primitive
}

// Define checks a class definition and, if it is well-formed, returns it.
// Every class must declare at least one signature, and all signatures must
// have the same number of inputs.
func Define(c Class) (*Class, error) {
	switch {
	case c.Name == "":
		return nil, fmt.Errorf("%w: missing name", ErrInvalidClass)
	case len(c.Inputs) == 0:
		return nil, fmt.Errorf("%w (primitive %s)", ErrNoSignature, c.Name)
	case c.Build == nil:
		return nil, fmt.Errorf("%w: primitive %s has no constructor", ErrInvalidClass, c.Name)
	}
	//
	arity := c.Inputs[0].Arity()
	//
	for _, sig := range c.Inputs[1:] {
		if sig.Arity() != arity {
			return nil, fmt.Errorf("%w (primitive %s has %s and %s)", ErrArityMismatch, c.Name, c.Inputs[0], sig)
		}
	}
	//
	if arity == 0 {
		return nil, fmt.Errorf("%w: primitive %s has an empty signature", ErrInvalidClass, c.Name)
	}
	//
	for i, p := range c.Params {
		if hasParam(c.Params[:i], p.Name) {
			return nil, fmt.Errorf("%w: primitive %s declares parameter %q twice", ErrInvalidClass, c.Name, p.Name)
		}
	}
	//
	if c.NumOutputs == 0 {
		c.NumOutputs = 1
	}
	//
	return &c, nil
}

// MustDefine is as Define, but panics if the class is malformed.  This is
// intended for classes defined at package initialisation.
func MustDefine(c Class) *Class {
	class, err := Define(c)
	if err != nil {
		panic(err)
	}
	//
	return class
}

// Arity returns the number of inputs of this class.
func (c *Class) Arity() int {
	return c.Inputs[0].Arity()
}

// Summary returns the first paragraph of the documentation of this class, on a
// single line.
func (c *Class) Summary() string {
	paragraph, _, _ := strings.Cut(strings.TrimSpace(c.Doc), "\n\n")
	return strings.Join(strings.Fields(paragraph), " ")
}

// ValidInputs renders the signatures accepted by this class, as in "(numeric,
// numeric)".
func (c *Class) ValidInputs() string {
	return SignaturesString(c.Inputs)
}

// New constructs an instance of this class with the given arguments.  Any
// parameter not given takes its default value.
func (c *Class) New(args Args) (Primitive, error) {
	params, err := resolveParams(c.Name, c.Params, args)
	if err != nil {
		return nil, err
	}
	//
	if c.Validate != nil {
		if params, err = c.Validate(params); err != nil {
			return nil, fmt.Errorf("primitive %s: %w", c.Name, err)
		}
	}
	//
	return c.Build(Base{c, params}), nil
}

// MustNew is as New, but panics on error.
func (c *Class) MustNew(args Args) Primitive {
	p, err := c.New(args)
	if err != nil {
		panic(err)
	}
	//
	return p
}
