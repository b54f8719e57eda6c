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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/featsynth/go-dfs/pkg/frame"
	"gopkg.in/yaml.v3"
)

var (
	// ErrFinalized indicates an attempt to modify a finalized cache.
	ErrFinalized = errors.New("lineage is finalized")
	// ErrDuplicateFeature indicates an attempt to record a feature twice.
	ErrDuplicateFeature = errors.New("duplicate feature")
	// ErrUnknownParent indicates a feature recorded with an input which is not
	// in the cache.
	ErrUnknownParent = errors.New("unknown parent feature")
)

// RootName is the name of the synthetic root node.
const RootName = "root"

// Feature describes a single column, either a base column of the input table,
// or a derived column produced by applying a primitive to other columns.
type Feature struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	// Key of the primitive which produced this feature (empty for base columns).
	Primitive string `yaml:"primitive,omitempty"`
	// Inputs are the columns this feature was derived from, in order.
	Inputs []string `yaml:"inputs,omitempty"`
	// Groups are the columns by which the derivation was partitioned.
	Groups      []string `yaml:"groups,omitempty"`
	Depth       uint     `yaml:"depth"`
	Description string   `yaml:"description,omitempty"`
}

// IsBase checks whether this is a base column.
func (f Feature) IsBase() bool {
	return f.Primitive == ""
}

// Node is a feature along with the features derived from it.
type Node struct {
	Feature
	children []*Node
}

// Children returns the nodes derived (directly) from this node.
func (n *Node) Children() []*Node {
	return n.children
}

// Cache records the lineage of every column in a feature table.  Base columns
// sit beneath a synthetic root, whilst each derived column sits beneath every
// column it was derived from.  Once finalized, a cache is read-only until it
// is cleared.
type Cache struct {
	root      *Node
	nodes     map[string]*Node
	order     []*Node
	finalized bool
}

// New constructs a cache for the given base columns.
func New(columns ...frame.Field) *Cache {
	c := &Cache{}
	c.Clear()
	//
	for _, col := range columns {
		node := &Node{Feature: Feature{Name: col.Name, Kind: col.Kind.String()}}
		c.root.children = append(c.root.children, node)
		c.nodes[col.Name] = node
		c.order = append(c.order, node)
	}
	//
	return c
}

// Clear discards every node (including base columns), leaving an empty cache
// which is no longer finalized.
func (c *Cache) Clear() {
	c.root = &Node{Feature: Feature{Name: RootName}}
	c.nodes = make(map[string]*Node)
	c.order = nil
	c.finalized = false
}

// Record adds a derived feature beneath each of its inputs.  Its depth is
// determined from that of its inputs.
func (c *Cache) Record(f Feature) (*Node, error) {
	if c.finalized {
		return nil, fmt.Errorf("%w: cannot record %q (clear it first)", ErrFinalized, f.Name)
	} else if _, ok := c.nodes[f.Name]; ok {
		return nil, fmt.Errorf("%w %q", ErrDuplicateFeature, f.Name)
	}
	//
	parents := make([]*Node, len(f.Inputs))
	f.Depth = 0
	//
	for i, in := range f.Inputs {
		parent, ok := c.nodes[in]
		if !ok {
			return nil, fmt.Errorf("%w %q (of %q)", ErrUnknownParent, in, f.Name)
		}
		//
		parents[i] = parent
		f.Depth = max(f.Depth, parent.Depth+1)
	}
	//
	node := &Node{Feature: f}
	//
	if len(parents) == 0 {
		parents = append(parents, c.root)
	}
	//
	for i, parent := range parents {
		// An input used twice has a single edge.
		if !containsNode(parents[:i], parent) {
			parent.children = append(parent.children, node)
		}
	}
	//
	c.nodes[f.Name] = node
	c.order = append(c.order, node)
	//
	return node, nil
}

// Finalize marks this cache as read-only.
func (c *Cache) Finalize() {
	c.finalized = true
}

// IsFinalized checks whether this cache has been finalized.
func (c *Cache) IsFinalized() bool {
	return c.finalized
}

// Len returns the number of nodes, excluding the root.
func (c *Cache) Len() uint {
	return uint(len(c.order))
}

// Root returns the synthetic root node.
func (c *Cache) Root() *Node {
	return c.root
}

// Lookup returns the node of a given column.
func (c *Cache) Lookup(name string) (*Node, bool) {
	node, ok := c.nodes[name]
	return node, ok
}

// Depth returns the depth of a given column, where base columns have depth 0.
// Unknown columns also have depth 0.
func (c *Cache) Depth(name string) uint {
	if node, ok := c.nodes[name]; ok {
		return node.Depth
	}
	//
	return 0
}

// Features returns every recorded feature (base columns first), in the order
// they were recorded.
func (c *Cache) Features() []Feature {
	features := make([]Feature, len(c.order))
	for i, node := range c.order {
		features[i] = node.Feature
	}
	//
	return features
}

// Derived returns the derived features, in the order they were recorded.
func (c *Cache) Derived() []Feature {
	var features []Feature
	//
	for _, node := range c.order {
		if !node.IsBase() {
			features = append(features, node.Feature)
		}
	}
	//
	return features
}

// Render returns a tree view of this cache.
func (c *Cache) Render() string {
	var builder strings.Builder
	//
	builder.WriteString(c.root.Name)
	builder.WriteString("\n")
	renderChildren(&builder, c.root, "")
	//
	return builder.String()
}

func renderChildren(builder *strings.Builder, node *Node, prefix string) {
	for i, child := range node.children {
		branch, indent := "├── ", "│   "
		//
		if i == len(node.children)-1 {
			branch, indent = "└── ", "    "
		}
		//
		builder.WriteString(prefix)
		builder.WriteString(branch)
		builder.WriteString(child.Name)
		builder.WriteString("\n")
		renderChildren(builder, child, prefix+indent)
	}
}

// WriteYAML writes the features of this cache as YAML.
func (c *Cache) WriteYAML(w io.Writer) error {
	var doc struct {
		Columns  []Feature `yaml:"columns"`
		Features []Feature `yaml:"features"`
	}
	//
	for _, f := range c.Features() {
		if f.IsBase() {
			doc.Columns = append(doc.Columns, f)
		} else {
			doc.Features = append(doc.Features, f)
		}
	}
	//
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	//
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	//
	return enc.Close()
}

// ReadYAML reads features previously written with WriteYAML.
func ReadYAML(r io.Reader) ([]Feature, error) {
	var doc struct {
		Columns  []Feature `yaml:"columns"`
		Features []Feature `yaml:"features"`
	}
	//
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("reading features: %w", err)
	}
	//
	return append(doc.Columns, doc.Features...), nil
}

func containsNode(nodes []*Node, node *Node) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	//
	return false
}
