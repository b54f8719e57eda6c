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
package set

import (
	"cmp"
	"math"
	"slices"
	"sort"
)

// Comparable provides an interface which types used in a AnySortedSet must implement.
type Comparable[T any] interface {
	// Cmp returns < 0 if this is less than other, or 0 if they are equal, or >
	// 0 if this is greater than other.
	Cmp(other T) int
}

// Order provides a wrapper around primitive types for use with an AnySortedSet.
type Order[T cmp.Ordered] struct {
	Item T
}

// Cmp implementation for the Comparable interface.
func (lhs Order[T]) Cmp(rhs Order[T]) int {
	return cmp.Compare(lhs.Item, rhs.Item)
}

// AnySortedSet is an array of unique sorted values (i.e. no duplicates).
type AnySortedSet[T Comparable[T]] []T

// NewAnySortedSet creates a sorted set from a given array by first cloning that
// array, so the given array is never mutated.
func NewAnySortedSet[T Comparable[T]](items ...T) *AnySortedSet[T] {
	return RawAnySortedSet(slices.Clone(items)...)
}

// RawAnySortedSet creates a sorted set from a given array without first
// cloning it, so the array may be reordered.  When two items compare equal,
// the first one given is retained.
func RawAnySortedSet[T Comparable[T]](items ...T) *AnySortedSet[T] {
	var nitems AnySortedSet[T] = items
	//
	slices.SortStableFunc(nitems, func(a, b T) int {
		return a.Cmp(b)
	})
	//
	nitems = slices.CompactFunc(nitems, func(a, b T) bool {
		return a.Cmp(b) == 0
	})
	//
	return &nitems
}

// ToArray extracts the underlying array from this sorted set.
func (p *AnySortedSet[T]) ToArray() []T {
	return *p
}

// Len returns the number of items in this set.
func (p *AnySortedSet[T]) Len() uint {
	return uint(len(*p))
}

// Get returns the ith item of this set.
func (p *AnySortedSet[T]) Get(i uint) T {
	return (*p)[i]
}

// Find returns the index of the matching element in this set, or MaxUint.
func (p *AnySortedSet[T]) Find(element T) uint {
	data := *p
	i := p.search(element)
	//
	if i < len(data) && data[i].Cmp(element) == 0 {
		return uint(i)
	}
	//
	return math.MaxUint
}

// Contains returns true if a given element is in the set.
func (p *AnySortedSet[T]) Contains(element T) bool {
	return p.Find(element) != math.MaxUint
}

// Insert an element into this sorted set, unless an equal element is already
// present.  This reports whether the element was inserted.
func (p *AnySortedSet[T]) Insert(element T) bool {
	data := *p
	i := p.search(element)
	//
	if i < len(data) && data[i].Cmp(element) == 0 {
		return false
	}
	//
	*p = slices.Insert(data, i, element)
	//
	return true
}

// search finds the index where an element either does occur, or should occur.
func (p *AnySortedSet[T]) search(element T) int {
	data := *p
	//
	return sort.Search(len(data), func(i int) bool {
		return element.Cmp(data[i]) <= 0
	})
}
