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
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

// pair compares by key only, so duplicates can be told apart by value.
type pair struct {
	key   int
	value string
}

func (p pair) Cmp(other pair) int {
	return p.key - other.key
}

func TestNewAnySortedSet(t *testing.T) {
	tests := []struct {
		items    []uint
		expected []uint
	}{
		{nil, nil},
		{[]uint{1}, []uint{1}},
		{[]uint{3, 1, 2}, []uint{1, 2, 3}},
		{[]uint{2, 2, 1, 2}, []uint{1, 2}},
	}
	//
	for _, tt := range tests {
		items := wrap(tt.items)
		set := NewAnySortedSet(items...)
		//
		assert.Equal(t, tt.expected, unwrap(set))
		assert.Equal(t, wrap(tt.items), items)
	}
}

func TestRawAnySortedSet_FirstRetained(t *testing.T) {
	set := RawAnySortedSet(pair{2, "b"}, pair{1, "a"}, pair{2, "c"})
	//
	assert.Equal(t, uint(2), set.Len())
	assert.Equal(t, "a", set.Get(0).value)
	assert.Equal(t, "b", set.Get(1).value)
}

func TestAnySortedSet_Find(t *testing.T) {
	set := NewAnySortedSet(wrap([]uint{5, 1, 3})...)
	//
	assert.Equal(t, uint(0), set.Find(Order[uint]{1}))
	assert.Equal(t, uint(2), set.Find(Order[uint]{5}))
	assert.Equal(t, uint(math.MaxUint), set.Find(Order[uint]{4}))
	assert.True(t, set.Contains(Order[uint]{3}))
	assert.False(t, set.Contains(Order[uint]{0}))
}

func TestAnySortedSet_Insert(t *testing.T) {
	for i := 0; i < 100; i++ {
		arr := randomArray(uint(i), 20)
		set := NewAnySortedSet[Order[uint]]()
		//
		for _, v := range arr {
			set.Insert(Order[uint]{v})
		}
		//
		expected := slices.Clone(arr)
		slices.Sort(expected)
		expected = slices.Compact(expected)
		//
		if len(expected) == 0 {
			expected = nil
		}
		//
		assert.Equal(t, expected, unwrap(set))
	}
}

func TestAnySortedSet_InsertDuplicate(t *testing.T) {
	set := NewAnySortedSet(pair{1, "a"})
	//
	assert.False(t, set.Insert(pair{1, "b"}))
	assert.True(t, set.Insert(pair{0, "c"}))
	assert.Equal(t, []pair{{0, "c"}, {1, "a"}}, set.ToArray())
}

func wrap(arr []uint) []Order[uint] {
	if arr == nil {
		return nil
	}
	//
	items := make([]Order[uint], len(arr))
	for i, v := range arr {
		items[i] = Order[uint]{v}
	}
	//
	return items
}

func unwrap(set *AnySortedSet[Order[uint]]) []uint {
	var items []uint
	for _, item := range set.ToArray() {
		items = append(items, item.Item)
	}
	//
	return items
}

func randomArray(n uint, m uint) []uint {
	arr := make([]uint, n)
	for i := range arr {
		arr[i] = rand.UintN(m)
	}
	//
	return arr
}
