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
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables which override
// configuration values (e.g. GODFS_MAX_FEATURES=20 sets max_features).
const EnvPrefix = "GODFS_"

// Defaults applied to values which are left unset.
const (
	DefaultMaxDepth    = 2
	DefaultMaxFeatures = 10
	DefaultMaxAttempts = 32
)

// ErrInvalidConfig indicates a configuration which failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Keys holding lists, which environment variables give as comma-separated
// values.
var listKeys = []string{"group_cols", "trans_primitives", "agg_primitives", "ignore_columns"}

// Config determines how a synthesis run proceeds.
type Config struct {
	// GroupCols partition the table, and are never used as inputs.
	GroupCols []string `koanf:"group_cols" validate:"dive,required"`
	// TransPrimitives names the transform primitives to draw from.  When empty,
	// the built-in defaults are used.
	TransPrimitives []string `koanf:"trans_primitives" validate:"dive,required"`
	// AggPrimitives names the aggregation primitives to draw from, which
	// requires group columns.
	AggPrimitives []string `koanf:"agg_primitives" validate:"dive,required"`
	// PrimitiveArgs gives constructor arguments for named primitives.
	PrimitiveArgs map[string]map[string]any `koanf:"primitive_args"`
	// MaxDepth limits the depth of derived features, where -1 is unlimited.
	MaxDepth int `koanf:"max_depth" validate:"gte=-1"`
	// MaxFeatures is the number of synthesis steps to run.
	MaxFeatures int `koanf:"max_features" validate:"gte=0"`
	// IgnoreColumns are dropped before synthesis.
	IgnoreColumns []string `koanf:"ignore_columns" validate:"dive,required"`
	// PrimitiveOptions restricts the columns available to named primitives.
	PrimitiveOptions map[string]PrimitiveOptions `koanf:"primitive_options" validate:"dive"`
	// Seed for the random source, where nil means a random seed.
	Seed *uint64 `koanf:"seed"`
	// MaxAttempts bounds the attempts made by a single step.
	MaxAttempts int `koanf:"max_attempts" validate:"gte=0"`
	// Lazy defers computation of features until the end of a run.
	Lazy bool `koanf:"lazy"`
}

// PrimitiveOptions restricts the columns a primitive may use as inputs.
type PrimitiveOptions struct {
	// IncludeColumns, when given, are the only columns available.
	IncludeColumns []string `koanf:"include_columns" validate:"dive,required"`
	// IgnoreColumns are never available.
	IgnoreColumns []string `koanf:"ignore_columns" validate:"dive,required"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	//
	cfg.ApplyDefaults()
	//
	return &cfg
}

// Load reads a YAML configuration file (if a path is given), then applies any
// overrides from the environment.  Defaults are applied to values left unset,
// and the result is validated.
func Load(path string) (*Config, error) {
	var content []byte
	//
	if path != "" {
		var err error
		//
		if content, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	//
	cfg, err := Parse(content)
	if err != nil && path != "" {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	//
	return cfg, err
}

// Parse reads a YAML configuration, as for Load.
func Parse(content []byte) (*Config, error) {
	k := koanf.New(".")
	//
	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	//
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	//
	var cfg Config
	//
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	//
	cfg.ApplyDefaults()
	//
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	//
	return &cfg, nil
}

// envValue maps an environment variable onto a configuration key, such that
// GODFS_MAX_FEATURES becomes max_features.  List values are comma separated.
func envValue(key string, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	//
	if slices.Contains(listKeys, key) {
		var items []string
		//
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		//
		return key, items
	}
	//
	return key, value
}

// ApplyDefaults fills in values left unset.  In particular, a max_depth of 0
// means the default depth.
func (c *Config) ApplyDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	//
	if c.MaxFeatures == 0 {
		c.MaxFeatures = DefaultMaxFeatures
	}
	//
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
}

var validate = validator.New()

// Validate checks this configuration is well-formed.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	//
	if len(c.AggPrimitives) > 0 && len(c.GroupCols) == 0 {
		return fmt.Errorf("%w: agg_primitives requires group_cols", ErrInvalidConfig)
	}
	//
	for _, g := range c.GroupCols {
		if slices.Contains(c.IgnoreColumns, g) {
			return fmt.Errorf("%w: group column %q is also ignored", ErrInvalidConfig, g)
		}
	}
	//
	return nil
}
