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
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ParamSpec declares a parameter of a primitive class, along with its default
// value.  A nil default indicates that the parameter is unset by default.
type ParamSpec struct {
	Name    string
	Default any
	Doc     string
}

// Args maps parameter names to the values given when constructing a primitive.
type Args map[string]any

// Param is the resolved value of a declared parameter.
type Param struct {
	Name    string
	Default any
	Value   any
}

// IsDefault checks whether this parameter holds its default value.  A value is
// only considered the default when it has the same dynamic type as the
// default, and is equal to it.  Thus, an integer default of 0 is not the same
// as a value of 0.0.
func (p Param) IsDefault() bool {
	return reflect.TypeOf(p.Value) == reflect.TypeOf(p.Default) && reflect.DeepEqual(p.Value, p.Default)
}

// Params is the resolved parameter table of a primitive instance, in
// declaration order.
type Params []Param

// Lookup returns the parameter of a given name.
func (p Params) Lookup(name string) (Param, bool) {
	for _, param := range p {
		if param.Name == name {
			return param, true
		}
	}
	//
	return Param{}, false
}

// Get returns the value of a given parameter, or nil if there is no such
// parameter.
func (p Params) Get(name string) any {
	param, _ := p.Lookup(name)
	return param.Value
}

// With returns a copy of these parameters where the given parameter holds a
// different value.  This has no effect if there is no such parameter.
func (p Params) With(name string, value any) Params {
	np := slices.Clone(p)
	//
	for i := range np {
		if np[i].Name == name {
			np[i].Value = normaliseValue(value)
		}
	}
	//
	return np
}

// IsSet checks whether a given parameter has a non-nil value.
func (p Params) IsSet(name string) bool {
	return p.Get(name) != nil
}

// Float returns the value of a numeric parameter, or NaN if it is unset or
// not numeric.
func (p Params) Float(name string) float64 {
	if f, ok := toFloat(p.Get(name)); ok {
		return f
	}
	//
	return math.NaN()
}

// Int returns the value of an integral parameter, or zero if it is unset.
func (p Params) Int(name string) int {
	if f, ok := toFloat(p.Get(name)); ok {
		return int(f)
	}
	//
	return 0
}

// Bool returns the value of a boolean parameter, or false if it is unset.
func (p Params) Bool(name string) bool {
	b, _ := p.Get(name).(bool)
	return b
}

// Text returns the value of a string parameter, or "" if it is unset.
func (p Params) Text(name string) string {
	s, _ := p.Get(name).(string)
	return s
}

// ArgString renders the non-default parameters, as in ", value=2, periods=3".
// This is empty when every parameter holds its default.
func (p Params) ArgString() string {
	var builder strings.Builder
	//
	for _, param := range p {
		if !param.IsDefault() {
			builder.WriteString(", ")
			builder.WriteString(param.Name)
			builder.WriteString("=")
			builder.WriteString(FormatValue(param.Value))
		}
	}
	//
	return builder.String()
}

// Args returns the non-default parameters as arguments.  Constructing a
// primitive of the same class from these yields an equal primitive.
func (p Params) Args() Args {
	args := make(Args)
	//
	for _, param := range p {
		if !param.IsDefault() {
			args[param.Name] = param.Value
		}
	}
	//
	return args
}

// FormatValue renders a parameter or scalar value for use in names and
// descriptions.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// resolveParams matches the given arguments against the declared parameters of
// a class.  Arguments not declared by the class are rejected.
func resolveParams(class string, specs []ParamSpec, args Args) (Params, error) {
	for name := range args {
		if !hasParam(specs, name) {
			return nil, fmt.Errorf("%w %q for primitive %s (declared parameters: %s)", ErrUnknownParameter, name,
				class, paramNames(specs))
		}
	}
	//
	params := make(Params, len(specs))
	//
	for i, spec := range specs {
		value := spec.Default
		if arg, ok := args[spec.Name]; ok {
			value = normaliseValue(arg)
		}
		//
		params[i] = Param{spec.Name, spec.Default, value}
	}
	//
	return params, nil
}

func hasParam(specs []ParamSpec, name string) bool {
	for _, spec := range specs {
		if spec.Name == name {
			return true
		}
	}
	//
	return false
}

func paramNames(specs []ParamSpec) string {
	if len(specs) == 0 {
		return "none"
	}
	//
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	//
	return strings.Join(names, ", ")
}

// normaliseValue maps the many Go integer and float types onto int and
// float64, so that values decoded from different sources compare equal.
func normaliseValue(value any) any {
	switch v := value.(type) {
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

func toFloat(value any) (float64, bool) {
	switch v := normaliseValue(value).(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
