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
	"errors"

	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/registry"
)

var (
	// ErrUnknownColumn indicates a configured column (e.g. an ignored column)
	// which is not in the table.
	ErrUnknownColumn = frame.ErrUnknownColumn
	// ErrUnknownPrimitive indicates a primitive name which is not registered.
	ErrUnknownPrimitive = registry.ErrUnknownPrimitive
	// ErrWrongVariant indicates an aggregation given as a transform, or vice
	// versa.
	ErrWrongVariant = registry.ErrWrongVariant
	// ErrInvalidPrimitiveSpec indicates a primitive given as something other
	// than a name, class or instance.
	ErrInvalidPrimitiveSpec = errors.New("invalid primitive specification")
	// ErrGroupColumnConflict indicates a group column which is also ignored.
	ErrGroupColumnConflict = errors.New("group column conflict")
	// ErrNoGroupColumns indicates aggregation primitives given without any
	// group columns to aggregate over.
	ErrNoGroupColumns = errors.New("aggregation primitives require group columns")
	// ErrInvalidOption indicates an option with an out of range value.
	ErrInvalidOption = errors.New("invalid option")
	// ErrNotFinalized indicates an attempt to obtain results before a run has
	// completed.
	ErrNotFinalized = errors.New("features have not been built")
)
