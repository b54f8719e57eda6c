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
package lineage

import (
	"bytes"
	"errors"
	"testing"

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCache(t *testing.T) *Cache {
	c := New(frame.Field{Name: "a", Kind: frame.KindInt}, frame.Field{Name: "b", Kind: frame.KindFloat})
	//
	_, err := c.Record(Feature{Name: "a + b", Kind: "float", Primitive: "add_numeric", Inputs: []string{"a", "b"}})
	require.NoError(t, err)
	_, err = c.Record(Feature{Name: "-(a + b)", Kind: "float", Primitive: "negate", Inputs: []string{"a + b"}})
	require.NoError(t, err)
	//
	return c
}

func TestRecord(t *testing.T) {
	c := sampleCache(t)
	//
	assert.Equal(t, uint(4), c.Len())
	assert.Equal(t, uint(0), c.Depth("a"))
	assert.Equal(t, uint(1), c.Depth("a + b"))
	assert.Equal(t, uint(2), c.Depth("-(a + b)"))
	//
	node, ok := c.Lookup("a + b")
	require.True(t, ok)
	assert.False(t, node.IsBase())
	require.Len(t, node.Children(), 1)
	assert.Equal(t, "-(a + b)", node.Children()[0].Name)
	//
	derived := c.Derived()
	require.Len(t, derived, 2)
	assert.Equal(t, "a + b", derived[0].Name)
	assert.Equal(t, []string{"a", "b", "a + b", "-(a + b)"}, names(c.Features()))
}

func TestRecord_Errors(t *testing.T) {
	c := sampleCache(t)
	//
	_, err := c.Record(Feature{Name: "a + b", Primitive: "add_numeric", Inputs: []string{"a", "b"}})
	assert.True(t, errors.Is(err, ErrDuplicateFeature))
	//
	_, err = c.Record(Feature{Name: "-(z)", Primitive: "negate", Inputs: []string{"z"}})
	assert.True(t, errors.Is(err, ErrUnknownParent))
	assert.Equal(t, uint(4), c.Len())
	//
	c.Finalize()
	assert.True(t, c.IsFinalized())
	_, err = c.Record(Feature{Name: "-(a)", Primitive: "negate", Inputs: []string{"a"}})
	assert.True(t, errors.Is(err, ErrFinalized))
}

func TestClear(t *testing.T) {
	c := sampleCache(t)
	c.Finalize()
	c.Clear()
	//
	assert.False(t, c.IsFinalized())
	assert.Equal(t, uint(0), c.Len())
	assert.Equal(t, "root\n", c.Render())
}

func TestRender(t *testing.T) {
	expected := `root
├── a
│   └── a + b
│       └── -(a + b)
└── b
    └── a + b
        └── -(a + b)
`
	assert.Equal(t, expected, sampleCache(t).Render())
}

func TestRender_RepeatedInput(t *testing.T) {
	c := New(frame.Field{Name: "a", Kind: frame.KindInt})
	_, err := c.Record(Feature{Name: "a * a", Primitive: "multiply_numeric", Inputs: []string{"a", "a"}})
	require.NoError(t, err)
	//
	assert.Equal(t, "root\n└── a\n    └── a * a\n", c.Render())
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	//
	c := sampleCache(t)
	require.NoError(t, c.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "primitive: add_numeric")
	//
	features, err := ReadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, c.Features(), features)
}

func names(features []Feature) []string {
	result := make([]string, len(features))
	for i, f := range features {
		result[i] = f.Name
	}
	//
	return result
}
