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
	"fmt"
	"slices"
	"strings"

	"github.com/featsynth/go-dfs/pkg/frame"
)

// Signature is an ordered tuple of selectors, one for each input of a
// primitive.
type Signature []frame.Selector

// Sig constructs a signature from a given list of selectors.
func Sig(selectors ...frame.Selector) Signature {
	return selectors
}

// Arity returns the number of inputs described by this signature.
func (s Signature) Arity() int {
	return len(s)
}

// Accepts checks whether a sequence of input kinds matches this signature.
func (s Signature) Accepts(kinds []frame.Kind) bool {
	if len(kinds) != len(s) {
		return false
	}
	//
	for i, sel := range s {
		if !sel.Match(kinds[i]) {
			return false
		}
	}
	//
	return true
}

// Candidates returns, for each position of this signature, the columns of a
// table matching that position (in table order), ignoring the excluded
// columns.
func (s Signature) Candidates(t *frame.Table, exclude ...string) [][]string {
	candidates := make([][]string, len(s))
	//
	for i, sel := range s {
		candidates[i] = t.Select(sel, exclude...)
	}
	//
	return candidates
}

// Resolve chooses a distinct column of a table for each position of this
// signature, using pick to choose amongst the candidates for each position.  A
// column chosen for one position is not available to later positions.  This
// fails with ErrNoMatchingColumns if some position has no candidates.
func (s Signature) Resolve(t *frame.Table, pick func([]string) string, exclude ...string) ([]string, error) {
	used := slices.Clone(exclude)
	chosen := make([]string, len(s))
	//
	for i, sel := range s {
		choices := t.Select(sel, used...)
		if len(choices) == 0 {
			return nil, fmt.Errorf("%w: no %s column for input %d of %s", ErrNoMatchingColumns, sel, i+1, s)
		}
		//
		chosen[i] = pick(choices)
		used = append(used, chosen[i])
	}
	//
	return chosen, nil
}

// String renders a signature, as in "(numeric, numeric)".  Single-input
// signatures are rendered without brackets.
func (s Signature) String() string {
	if len(s) == 1 {
		return s[0].String()
	}
	//
	names := make([]string, len(s))
	for i, sel := range s {
		names[i] = sel.String()
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(names, ", "))
}

// SignaturesString renders a set of alternative signatures, separated by
// commas.
func SignaturesString(signatures []Signature) string {
	names := make([]string, len(signatures))
	for i, s := range signatures {
		names[i] = s.String()
	}
	//
	return strings.Join(names, ", ")
}
