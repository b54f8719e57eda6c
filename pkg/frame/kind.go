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
package frame

import (
	"fmt"
	"strings"
)

// Kind identifies the physical type of a column.
type Kind uint8

const (
	// KindInt is a column of integers.
	KindInt Kind = iota
	// KindFloat is a column of floating point numbers.
	KindFloat
	// KindBool is a column of booleans.
	KindBool
	// KindDatetime is a column of timestamps (microsecond resolution, UTC).
	KindDatetime
	// KindDate is a column of calendar dates.
	KindDate
	// KindDuration is a column of time spans (microsecond resolution).
	KindDuration
	// KindString is a column of text.
	KindString
	numKinds
)

var kindNames = [numKinds]string{"int", "float", "bool", "datetime", "date", "duration", "string"}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsNumeric holds for integer and floating point kinds.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// IsTemporal holds for datetime and date kinds.
func (k Kind) IsTemporal() bool {
	return k == KindDatetime || k == KindDate
}

// ParseKind converts the name of a kind (as returned by String) back into a
// kind.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown column kind %q", name)
}

// KindSet is a set of column kinds.
type KindSet uint16

// KindsOf constructs a set from a given list of kinds.
func KindsOf(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	//
	return s
}

// Has checks whether a given kind is in this set.
func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

// Kinds returns the members of this set in declaration order.
func (s KindSet) Kinds() []Kind {
	var kinds []Kind
	//
	for k := Kind(0); k < numKinds; k++ {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	//
	return kinds
}

// Selector is a predicate over column kinds, used to describe the inputs
// accepted by a primitive and the values it returns.  Selectors compose by
// union using Or.
type Selector struct {
	names []string
	kinds KindSet
}

func selector(name string, kinds ...Kind) Selector {
	return Selector{[]string{name}, KindsOf(kinds...)}
}

// Numeric selects integer and floating point columns.
func Numeric() Selector { return selector("numeric", KindInt, KindFloat) }

// Integer selects integer columns.
func Integer() Selector { return selector("int", KindInt) }

// Floating selects floating point columns.
func Floating() Selector { return selector("float", KindFloat) }

// Boolean selects boolean columns.
func Boolean() Selector { return selector("boolean", KindBool) }

// Datetime selects timestamp columns.
func Datetime() Selector { return selector("datetime", KindDatetime) }

// Date selects date columns.
func Date() Selector { return selector("date", KindDate) }

// Temporal selects both timestamp and date columns.
func Temporal() Selector { return selector("temporal", KindDatetime, KindDate) }

// Duration selects duration columns.
func Duration() Selector { return selector("duration", KindDuration) }

// Text selects string columns.
func Text() Selector { return selector("string", KindString) }

// Any selects every column.
func Any() Selector {
	return Selector{[]string{"all"}, KindSet(1<<numKinds - 1)}
}

// Or constructs the union of two selectors.
func (s Selector) Or(other Selector) Selector {
	names := make([]string, 0, len(s.names)+len(other.names))
	names = append(names, s.names...)
	names = append(names, other.names...)
	//
	return Selector{names, s.kinds | other.kinds}
}

// Match checks whether a column of the given kind is selected.
func (s Selector) Match(k Kind) bool {
	return s.kinds.Has(k)
}

// Kinds returns the set of kinds matched by this selector.
func (s Selector) Kinds() KindSet {
	return s.kinds
}

// Concrete returns a representative kind for this selector, preferring float
// where it is admitted.  This is used when a result kind cannot be derived
// from the inputs.
func (s Selector) Concrete() Kind {
	if s.kinds.Has(KindFloat) {
		return KindFloat
	}
	//
	if kinds := s.kinds.Kinds(); len(kinds) > 0 {
		return kinds[0]
	}
	//
	return KindFloat
}

// String renders a selector, with unions shown as "(datetime | date)".
func (s Selector) String() string {
	if len(s.names) == 1 {
		return s.names[0]
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(s.names, " | "))
}
