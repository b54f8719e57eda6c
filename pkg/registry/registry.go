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
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/featsynth/go-dfs/pkg/primitive"
	"github.com/featsynth/go-dfs/pkg/primitive/aggregation"
	"github.com/featsynth/go-dfs/pkg/primitive/transform"
)

var (
	// ErrUnknownPrimitive indicates a name which does not identify any
	// registered primitive.
	ErrUnknownPrimitive = errors.New("unknown primitive")
	// ErrWrongVariant indicates a primitive used where a primitive of the other
	// variant was expected (e.g. an aggregation given as a transform).
	ErrWrongVariant = errors.New("wrong primitive variant")
	// ErrDuplicatePrimitive indicates two classes registered under the same
	// name.
	ErrDuplicatePrimitive = errors.New("duplicate primitive")
)

// Registry is an explicit catalogue of primitive classes, keyed by their
// canonical (lower snake case) names.
type Registry struct {
	classes map[string]*primitive.Class
	// Names in sorted order
	names []string
}

// Info summarises a registered class for listing.
type Info struct {
	Name        string
	Description string
	ValidInputs string
	ReturnType  string
	Variant     primitive.Variant
}

// New constructs a registry from the given classes.
func New(classes ...*primitive.Class) (*Registry, error) {
	r := &Registry{classes: make(map[string]*primitive.Class, len(classes))}
	//
	for _, c := range classes {
		name := Normalize(c.Name)
		//
		if _, ok := r.classes[name]; ok {
			return nil, fmt.Errorf("%w %q", ErrDuplicatePrimitive, c.Name)
		}
		//
		r.classes[name] = c
		r.names = append(r.names, name)
	}
	//
	slices.Sort(r.names)
	//
	return r, nil
}

// Default constructs a registry holding every built-in primitive.
func Default() *Registry {
	r, err := New(append(transform.All(), aggregation.All()...)...)
	if err != nil {
		panic(err)
	}
	//
	return r
}

// Len returns the number of registered classes.
func (r *Registry) Len() uint {
	return uint(len(r.names))
}

// Lookup finds a class by name, where the name is normalised first.  Thus,
// "Add Numeric", "AddNumeric" and "add_numeric" all identify the same class.
func (r *Registry) Lookup(name string) (*primitive.Class, error) {
	if c, ok := r.classes[Normalize(name)]; ok {
		return c, nil
	}
	//
	return nil, fmt.Errorf("%w %q (run \"go-dfs list\" to see the available primitives)", ErrUnknownPrimitive, name)
}

// Transform finds a transform class by name.
func (r *Registry) Transform(name string) (*primitive.Class, error) {
	return r.lookupVariant(name, primitive.Transform)
}

// Aggregation finds an aggregation class by name.
func (r *Registry) Aggregation(name string) (*primitive.Class, error) {
	return r.lookupVariant(name, primitive.Aggregation)
}

func (r *Registry) lookupVariant(name string, variant primitive.Variant) (*primitive.Class, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	} else if c.Variant != variant {
		return nil, fmt.Errorf("%w: %s has variant %s (expected %s)", ErrWrongVariant, c.Name, c.Variant, variant)
	}
	//
	return c, nil
}

// Classes returns the registered classes of the given variants (or all classes,
// if none are given), sorted by name.
func (r *Registry) Classes(variants ...primitive.Variant) []*primitive.Class {
	var classes []*primitive.Class
	//
	for _, name := range r.names {
		c := r.classes[name]
		//
		if len(variants) == 0 || slices.Contains(variants, c.Variant) {
			classes = append(classes, c)
		}
	}
	//
	return classes
}

// List summarises the registered classes of the given variants (or all
// classes, if none are given), sorted by name.
func (r *Registry) List(variants ...primitive.Variant) []Info {
	var infos []Info
	//
	for _, c := range r.Classes(variants...) {
		infos = append(infos, Info{
			Name:        c.Name,
			Description: c.Summary(),
			ValidInputs: c.ValidInputs(),
			ReturnType:  c.Return.String(),
			Variant:     c.Variant,
		})
	}
	//
	return infos
}

// Normalize converts a human-readable primitive name into its canonical form.
// Words separated by spaces are capitalised and joined, then an underscore is
// inserted before each upper case letter (except at the start, or after an
// underscore) and everything is lower cased.  Upper case segments are first
// lower cased after their initial letter.  For example, "Add Numeric",
// "AddNumeric", "ADD_NUMERIC" and "add_numeric" all become "add_numeric".
func Normalize(name string) string {
	var joined strings.Builder
	//
	for _, word := range strings.Fields(name) {
		segments := strings.Split(word, "_")
		//
		for i, segment := range segments {
			segments[i] = capitalise(segment, i == 0)
		}
		//
		joined.WriteString(strings.Join(segments, "_"))
	}
	//
	var (
		builder strings.Builder
		prev    rune
	)
	//
	for i, r := range joined.String() {
		if i > 0 && unicode.IsUpper(r) && prev != '_' {
			builder.WriteRune('_')
		}
		//
		builder.WriteRune(unicode.ToLower(r))
		prev = r
	}
	//
	return builder.String()
}

// capitalise lower cases everything after the first letter of an upper case
// segment, and optionally upper cases the first letter.
func capitalise(segment string, first bool) string {
	runes := []rune(segment)
	if len(runes) == 0 {
		return segment
	}
	//
	if !strings.ContainsFunc(segment, unicode.IsLower) {
		for i := 1; i < len(runes); i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	//
	if first {
		runes[0] = unicode.ToUpper(runes[0])
	}
	//
	return string(runes)
}
