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
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/lineage"
	"github.com/featsynth/go-dfs/pkg/primitive"
	"github.com/featsynth/go-dfs/pkg/primitive/transform"
	"github.com/featsynth/go-dfs/pkg/registry"
	"github.com/featsynth/go-dfs/pkg/util"
	"github.com/featsynth/go-dfs/pkg/util/collection/set"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Second word of the PCG state, which is fixed so that a run is determined by
// its seed alone.
const pcgStream = 0x9e3779b97f4a7c15

// member wraps a primitive so that the pool can be held as a sorted set.
type member struct {
	primitive.Primitive
}

// Cmp implementation for the Comparable interface.
func (m member) Cmp(other member) int {
	return primitive.Compare(m.Primitive, other.Primitive)
}

// Outcome describes a single step.
type Outcome struct {
	// Key of the primitive applied (empty if the step was abandoned).
	Primitive string
	// Inputs the primitive was applied to.
	Inputs []string
	// Names of the columns added.
	Names []string
	// Attempts made by the step.
	Attempts uint
}

// Added checks whether the step added any columns.
func (o Outcome) Added() bool {
	return len(o.Names) > 0
}

// Stats summarises the steps taken since the engine was last reset.
type Stats struct {
	Steps     uint
	Abandoned uint
	Features  uint
	Attempts  uint
}

// Engine grows a table of features by repeatedly applying randomly chosen
// primitives to randomly chosen columns.  Every added column is recorded in a
// lineage cache, which is finalized at the end of a run.  An engine is not
// safe for concurrent use.
type Engine struct {
	// Table after ignored columns are dropped.
	initial *frame.Table
	// Table as grown so far.
	table   *frame.Table
	groups  []string
	pool    *set.AnySortedSet[member]
	columns map[string]ColumnOptions
	// Maximum depth of a derived feature, or -1 for no limit.
	maxDepth    int
	maxFeatures uint
	maxAttempts uint
	seed        uint64
	rng         *rand.Rand
	cache       *lineage.Cache
	metrics     *metrics
	log         *log.Entry
	stats       Stats
}

// New constructs an engine over a given table.  Ignored columns are dropped
// and the requested primitives resolved, such that any misconfiguration is
// reported here rather than during a run.  The given table is not modified.
func New(t *frame.Table, opts ...Option) (*Engine, error) {
	s := defaultSettings()
	//
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}
	//
	if s.registry == nil {
		s.registry = registry.Default()
	}
	//
	table, err := prepare(t, &s)
	if err != nil {
		return nil, err
	}
	//
	pool, err := resolvePool(&s)
	if err != nil {
		return nil, err
	}
	//
	if err := checkColumnOptions(table, &s); err != nil {
		return nil, err
	}
	//
	if s.seed == nil {
		seed := rand.Uint64()
		s.seed = &seed
	}
	//
	m, err := newMetrics(s.registerer)
	if err != nil {
		return nil, err
	}
	//
	if s.logger == nil {
		s.logger = log.StandardLogger()
	}
	//
	e := &Engine{
		initial:     table.Lazy(s.lazy),
		groups:      slices.Clone(s.groups),
		pool:        pool,
		columns:     s.columns,
		maxDepth:    s.maxDepth,
		maxFeatures: s.maxFeatures,
		maxAttempts: s.maxAttempts,
		seed:        *s.seed,
		metrics:     m,
		log:         log.NewEntry(s.logger).WithFields(log.Fields{"run": uuid.NewString(), "seed": *s.seed}),
	}
	//
	e.Reset()
	e.log.Debugf("initialised with %d primitives over %d columns", pool.Len(), table.Width())
	//
	return e, nil
}

// prepare checks the ignored and group columns against a table, returning the
// table without its ignored columns.
func prepare(t *frame.Table, s *settings) (*frame.Table, error) {
	for _, col := range s.ignore {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("%w: ignored column %q (available columns are %s)", ErrUnknownColumn, col,
				strings.Join(t.ColumnNames(), ", "))
		} else if slices.Contains(s.groups, col) {
			return nil, fmt.Errorf("%w: %q cannot be both ignored and a group column", ErrGroupColumnConflict, col)
		}
	}
	//
	if t.Pending() > 0 {
		var err error
		if t, err = t.Materialize(); err != nil {
			return nil, err
		}
	}
	//
	slices.Sort(s.ignore)
	//
	table, err := t.Drop(slices.Compact(s.ignore)...)
	if err != nil {
		return nil, err
	}
	//
	for _, g := range s.groups {
		if !table.HasColumn(g) {
			return nil, fmt.Errorf("%w: group column %q", ErrUnknownColumn, g)
		}
	}
	//
	if len(s.aggs) > 0 && len(s.groups) == 0 {
		return nil, fmt.Errorf("%w (set group columns, or remove the aggregation primitives)", ErrNoGroupColumns)
	}
	//
	return table, nil
}

// resolvePool instantiates the requested primitives, discarding duplicates.
func resolvePool(s *settings) (*set.AnySortedSet[member], error) {
	trans := s.trans
	//
	if len(trans) == 0 {
		for _, c := range transform.Defaults() {
			trans = append(trans, c)
		}
	}
	//
	var members []member
	//
	for _, spec := range trans {
		p, err := resolve(s, spec, primitive.Transform)
		if err != nil {
			return nil, fmt.Errorf("trans_primitives: %w", err)
		}
		//
		members = append(members, member{p})
	}
	//
	for _, spec := range s.aggs {
		p, err := resolve(s, spec, primitive.Aggregation)
		if err != nil {
			return nil, fmt.Errorf("agg_primitives: %w", err)
		}
		//
		members = append(members, member{p})
	}
	//
	for name := range s.args {
		if _, err := s.registry.Lookup(name); err != nil {
			return nil, fmt.Errorf("primitive_args: %w", err)
		}
	}
	//
	return set.RawAnySortedSet(members...), nil
}

// resolve a primitive given by name, class or instance.
func resolve(s *settings, spec any, variant primitive.Variant) (primitive.Primitive, error) {
	var class *primitive.Class
	//
	switch spec := spec.(type) {
	case string:
		c, err := s.registry.Lookup(spec)
		if err != nil {
			return nil, err
		}
		//
		class = c
	case *primitive.Class:
		if spec == nil {
			return nil, fmt.Errorf("%w: nil class", ErrInvalidPrimitiveSpec)
		}
		//
		class = spec
	case primitive.Primitive:
		if spec.Class().Variant != variant {
			return nil, fmt.Errorf("%w: %s has variant %s (expected %s)", ErrWrongVariant, spec.Name(),
				spec.Class().Variant, variant)
		}
		//
		return spec, nil
	default:
		return nil, fmt.Errorf("%w: %T (expected a name, class or primitive)", ErrInvalidPrimitiveSpec, spec)
	}
	//
	if class.Variant != variant {
		return nil, fmt.Errorf("%w: %s has variant %s (expected %s)", ErrWrongVariant, class.Name, class.Variant,
			variant)
	}
	//
	return class.New(s.args[class.Name])
}

// checkColumnOptions checks that primitive options name known primitives and
// columns.
func checkColumnOptions(t *frame.Table, s *settings) error {
	for name, opts := range s.columns {
		if _, err := s.registry.Lookup(name); err != nil {
			return fmt.Errorf("primitive_options: %w", err)
		}
		//
		for _, col := range slices.Concat(opts.Include, opts.Ignore) {
			if !t.HasColumn(col) {
				return fmt.Errorf("%w: column %q in options for %s", ErrUnknownColumn, col, name)
			}
		}
	}
	//
	return nil
}

// Reset discards every feature added so far, returning the engine to its
// initial state.  The random source is reseeded, so a run following a reset
// repeats the previous run exactly.
func (e *Engine) Reset() {
	e.table = e.initial
	e.cache = lineage.New(e.initial.Fields()...)
	e.rng = rand.New(rand.NewPCG(e.seed, pcgStream))
	e.stats = Stats{}
}

// Step makes up to max_attempts attempts to add a feature.  An attempt fails
// when no columns match the chosen signature, or when the feature already
// exists, in which case another is made.  If every attempt fails, the step is
// abandoned and no feature is added, though this is not an error.  Errors are
// returned only for failures which retrying cannot resolve.
func (e *Engine) Step() (Outcome, error) {
	var out Outcome
	//
	if e.cache.IsFinalized() {
		return out, fmt.Errorf("%w: reset the engine before taking further steps", lineage.ErrFinalized)
	}
	//
	for !out.Added() && out.Attempts < e.maxAttempts {
		out.Attempts++
		//
		p := e.pool.Get(e.rng.UintN(e.pool.Len())).Primitive
		sigs := p.Class().Inputs
		sig := sigs[e.rng.IntN(len(sigs))]
		//
		inputs, err := sig.Resolve(e.table, e.pick, e.excluded(p)...)
		if errors.Is(err, primitive.ErrNoMatchingColumns) {
			e.failed(reasonNoColumns, p, err)
			continue
		} else if err != nil {
			return out, err
		}
		//
		inputs = primitive.CanonicalInputs(e.table, p, inputs)
		//
		res, err := primitive.Apply(e.table, p, inputs, e.groups)
		if errors.Is(err, primitive.ErrColumnExists) {
			e.failed(reasonCollision, p, err)
			continue
		} else if err != nil {
			return out, err
		}
		//
		if err := e.record(p, inputs, res); err != nil {
			return out, err
		}
		//
		e.table = res.Table
		out.Primitive, out.Inputs, out.Names = p.Key(), inputs, res.Names
	}
	//
	e.stats.Steps++
	e.stats.Attempts += out.Attempts
	e.metrics.steps.Inc()
	e.metrics.attempts.Observe(float64(out.Attempts))
	//
	if out.Added() {
		e.stats.Features += uint(len(out.Names))
		e.metrics.features.Add(float64(len(out.Names)))
		e.log.Debugf("added %s", strings.Join(out.Names, ", "))
	} else {
		e.stats.Abandoned++
		e.metrics.failures.WithLabelValues(reasonExhausted).Inc()
		e.log.Debugf("abandoned step after %d attempts", out.Attempts)
	}
	//
	return out, nil
}

// Run resets the engine, takes max_features steps and finalizes the lineage.
// The context is checked between steps.
func (e *Engine) Run(ctx context.Context) error {
	stats := util.NewPerfStats()
	//
	e.Reset()
	//
	for range e.maxFeatures {
		if err := ctx.Err(); err != nil {
			return err
		}
		//
		if _, err := e.Step(); err != nil {
			return err
		}
	}
	//
	e.cache.Finalize()
	e.log.WithFields(log.Fields{
		"steps":     e.stats.Steps,
		"features":  e.stats.Features,
		"abandoned": e.stats.Abandoned,
	}).Info("synthesis complete")
	stats.LogTo(e.log, "synthesis")
	//
	return nil
}

// Result returns the table with every feature computed.
func (e *Engine) Result() (*frame.Table, error) {
	if !e.cache.IsFinalized() {
		return nil, fmt.Errorf("%w (run the engine first)", ErrNotFinalized)
	}
	//
	return e.table.Materialize()
}

// Render returns the lineage of the features as a tree.
func (e *Engine) Render() (string, error) {
	if !e.cache.IsFinalized() {
		return "", fmt.Errorf("%w (run the engine first)", ErrNotFinalized)
	}
	//
	return e.cache.Render(), nil
}

// Lineage returns the lineage cache of the engine.
func (e *Engine) Lineage() *lineage.Cache {
	return e.cache
}

// Table returns the table as grown so far, which may have pending columns.
func (e *Engine) Table() *frame.Table {
	return e.table
}

// Pool returns the primitives drawn from, in order.
func (e *Engine) Pool() []primitive.Primitive {
	prims := make([]primitive.Primitive, e.pool.Len())
	for i := range e.pool.Len() {
		prims[i] = e.pool.Get(i).Primitive
	}
	//
	return prims
}

// Groups returns the group columns.
func (e *Engine) Groups() []string {
	return e.groups
}

// Seed returns the seed of the random source.
func (e *Engine) Seed() uint64 {
	return e.seed
}

// Stats summarises the steps taken since the last reset.
func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) pick(choices []string) string {
	return choices[e.rng.IntN(len(choices))]
}

// excluded determines the columns unavailable to a given primitive.  Group
// columns are never available, nor are columns at the maximum depth.
func (e *Engine) excluded(p primitive.Primitive) []string {
	exclude := slices.Clone(e.groups)
	opts, restricted := e.columns[p.Class().Name]
	//
	for _, f := range e.table.Fields() {
		switch {
		case e.maxDepth >= 0 && e.cache.Depth(f.Name) >= uint(e.maxDepth):
			exclude = append(exclude, f.Name)
		case restricted && len(opts.Include) > 0 && !slices.Contains(opts.Include, f.Name):
			exclude = append(exclude, f.Name)
		case restricted && slices.Contains(opts.Ignore, f.Name):
			exclude = append(exclude, f.Name)
		}
	}
	//
	return exclude
}

// record adds the outputs of a successful application to the lineage.
func (e *Engine) record(p primitive.Primitive, inputs []string, res primitive.Result) error {
	descs := make([]string, len(inputs))
	for i, in := range inputs {
		descs[i] = e.describe(in)
	}
	//
	descriptions, err := primitive.Descriptions(p, descs)
	if err != nil {
		return err
	}
	// Either every output is recorded or none is.
	for i, name := range res.Names {
		if _, ok := e.cache.Lookup(name); ok || slices.Contains(res.Names[:i], name) {
			return fmt.Errorf("%w %q", lineage.ErrDuplicateFeature, name)
		}
	}
	//
	for i, name := range res.Names {
		f := lineage.Feature{
			Name:        name,
			Kind:        res.Kinds[i].String(),
			Primitive:   p.Key(),
			Inputs:      inputs,
			Groups:      e.groups,
			Description: descriptions[i],
		}
		//
		if _, err := e.cache.Record(f); err != nil {
			return err
		}
	}
	//
	return nil
}

// describe returns the description of a column, where base columns are
// described by their name.
func (e *Engine) describe(name string) string {
	if node, ok := e.cache.Lookup(name); ok && node.Description != "" {
		return node.Description
	}
	//
	return fmt.Sprintf("the %q", name)
}

func (e *Engine) failed(reason string, p primitive.Primitive, err error) {
	e.metrics.failures.WithLabelValues(reason).Inc()
	e.log.Debugf("attempt with %s failed: %v", p.Key(), err)
}
