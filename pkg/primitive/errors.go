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
	"errors"

	"github.com/featsynth/go-dfs/pkg/frame"
)

// Errors raised when defining a primitive class.  These indicate programming
// errors in the class definition.
var (
	// ErrNoSignature indicates a class without any input signature.
	ErrNoSignature = errors.New("primitive must declare at least one input signature")
	// ErrArityMismatch indicates a class whose input signatures differ in
	// length.
	ErrArityMismatch = errors.New("primitive input signatures must all have the same number of inputs")
	// ErrInvalidClass indicates a class definition which is otherwise
	// malformed.
	ErrInvalidClass = errors.New("invalid primitive class")
)

// Errors raised when constructing a primitive instance.
var (
	// ErrUnknownParameter indicates an argument which the class does not
	// declare.
	ErrUnknownParameter = errors.New("unknown primitive parameter")
	// ErrInvalidParameter indicates an argument with an unacceptable value.
	ErrInvalidParameter = errors.New("invalid primitive parameter")
)

// Errors raised when applying a primitive to a table.
var (
	// ErrInputCount indicates that the number of input columns does not match
	// the arity of the primitive.
	ErrInputCount = errors.New("wrong number of inputs")
	// ErrInputKind indicates that the kinds of the input columns are not
	// accepted by any signature of the primitive.
	ErrInputKind = errors.New("input kinds not accepted")
	// ErrNoMatchingColumns indicates that no column of the table can fill some
	// position of a signature.  This is expected during synthesis, and
	// recoverable.
	ErrNoMatchingColumns = errors.New("no matching columns")
	// ErrColumnExists indicates that a derived column would replace an existing
	// one.  This is expected during synthesis, and recoverable.
	ErrColumnExists = frame.ErrColumnExists
	// ErrGroupInput indicates that a group column was also given as an input.
	ErrGroupInput = frame.ErrGroupInput
)
