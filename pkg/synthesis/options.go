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
	"fmt"
	"maps"

	"github.com/featsynth/go-dfs/pkg/config"
	"github.com/featsynth/go-dfs/pkg/primitive"
	"github.com/featsynth/go-dfs/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Option configures an engine.
type Option func(*settings) error

// ColumnOptions restrict the columns available to a given primitive.
type ColumnOptions struct {
	// Include, when non-empty, lists the only columns available.
	Include []string
	// Ignore lists columns which are never available.
	Ignore []string
}

type settings struct {
	groups      []string
	trans       []any
	aggs        []any
	args        map[string]primitive.Args
	maxDepth    int
	maxFeatures uint
	maxAttempts uint
	ignore      []string
	columns     map[string]ColumnOptions
	seed        *uint64
	lazy        bool
	registry    *registry.Registry
	registerer  prometheus.Registerer
	logger      *log.Logger
}

func defaultSettings() settings {
	return settings{
		maxDepth:    config.DefaultMaxDepth,
		maxFeatures: config.DefaultMaxFeatures,
		maxAttempts: config.DefaultMaxAttempts,
		args:        make(map[string]primitive.Args),
		columns:     make(map[string]ColumnOptions),
	}
}

// WithGroupCols partitions the table by the given columns.  Every feature is
// computed separately within each partition, and group columns are never used
// as inputs.
func WithGroupCols(cols ...string) Option {
	return func(s *settings) error {
		s.groups = append(s.groups, cols...)
		return nil
	}
}

// WithTransPrimitives sets the transform primitives to draw from.  Each is
// given either by name (a string), by class (*primitive.Class) or as an
// instance (primitive.Primitive).  Without this, the built-in defaults are
// used.
func WithTransPrimitives(specs ...any) Option {
	return func(s *settings) error {
		s.trans = append(s.trans, specs...)
		return nil
	}
}

// WithAggPrimitives sets the aggregation primitives to draw from, given as for
// WithTransPrimitives.  These require group columns.
func WithAggPrimitives(specs ...any) Option {
	return func(s *settings) error {
		s.aggs = append(s.aggs, specs...)
		return nil
	}
}

// WithPrimitiveArgs gives the arguments used when constructing the named
// primitive from its name or class.
func WithPrimitiveArgs(name string, args primitive.Args) Option {
	return func(s *settings) error {
		s.args[registry.Normalize(name)] = maps.Clone(args)
		return nil
	}
}

// WithMaxDepth limits the depth of derived features, where base columns have
// depth 0.  A depth of -1 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(s *settings) error {
		if depth == 0 || depth < -1 {
			return fmt.Errorf("%w: max depth %d (must be positive, or -1 for no limit)", ErrInvalidOption, depth)
		}
		//
		s.maxDepth = depth
		//
		return nil
	}
}

// WithMaxFeatures sets the number of steps in a run.
func WithMaxFeatures(n int) Option {
	return func(s *settings) error {
		if n < 0 {
			return fmt.Errorf("%w: max features %d (must not be negative)", ErrInvalidOption, n)
		}
		//
		s.maxFeatures = uint(n)
		//
		return nil
	}
}

// WithMaxAttempts bounds the number of attempts made by a single step before
// it is abandoned.
func WithMaxAttempts(n int) Option {
	return func(s *settings) error {
		if n < 1 {
			return fmt.Errorf("%w: max attempts %d (must be positive)", ErrInvalidOption, n)
		}
		//
		s.maxAttempts = uint(n)
		//
		return nil
	}
}

// WithIgnoreColumns drops the given columns before synthesis.
func WithIgnoreColumns(cols ...string) Option {
	return func(s *settings) error {
		s.ignore = append(s.ignore, cols...)
		return nil
	}
}

// WithPrimitiveOptions restricts the columns available to the named primitive.
func WithPrimitiveOptions(name string, opts ColumnOptions) Option {
	return func(s *settings) error {
		s.columns[registry.Normalize(name)] = opts
		return nil
	}
}

// WithSeed seeds the random source, making runs reproducible.
func WithSeed(seed uint64) Option {
	return func(s *settings) error {
		s.seed = &seed
		return nil
	}
}

// WithLazy determines whether features are computed as they are added, or
// deferred until the result is requested.
func WithLazy(lazy bool) Option {
	return func(s *settings) error {
		s.lazy = lazy
		return nil
	}
}

// WithRegistry sets the registry against which primitive names are resolved.
func WithRegistry(r *registry.Registry) Option {
	return func(s *settings) error {
		s.registry = r
		return nil
	}
}

// WithRegisterer registers the metrics of the engine.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(s *settings) error {
		s.registerer = r
		return nil
	}
}

// WithLogger sets the logger used by the engine.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// ConfigOptions translates a configuration into engine options.  Values left
// unset in the configuration leave the engine defaults in place.
func ConfigOptions(cfg *config.Config) []Option {
	opts := []Option{
		WithGroupCols(cfg.GroupCols...),
		WithIgnoreColumns(cfg.IgnoreColumns...),
		WithLazy(cfg.Lazy),
	}
	//
	if len(cfg.TransPrimitives) > 0 {
		opts = append(opts, WithTransPrimitives(toSpecs(cfg.TransPrimitives)...))
	}
	//
	if len(cfg.AggPrimitives) > 0 {
		opts = append(opts, WithAggPrimitives(toSpecs(cfg.AggPrimitives)...))
	}
	//
	for name, args := range cfg.PrimitiveArgs {
		opts = append(opts, WithPrimitiveArgs(name, args))
	}
	//
	for name, po := range cfg.PrimitiveOptions {
		opts = append(opts, WithPrimitiveOptions(name, ColumnOptions{po.IncludeColumns, po.IgnoreColumns}))
	}
	//
	if cfg.MaxDepth != 0 {
		opts = append(opts, WithMaxDepth(cfg.MaxDepth))
	}
	//
	if cfg.MaxFeatures != 0 {
		opts = append(opts, WithMaxFeatures(cfg.MaxFeatures))
	}
	//
	if cfg.MaxAttempts != 0 {
		opts = append(opts, WithMaxAttempts(cfg.MaxAttempts))
	}
	//
	if cfg.Seed != nil {
		opts = append(opts, WithSeed(*cfg.Seed))
	}
	//
	return opts
}

func toSpecs(names []string) []any {
	specs := make([]any, len(names))
	for i, n := range names {
		specs[i] = n
	}
	//
	return specs
}
