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
	"strconv"
	"strings"
	"time"
)

type rawKind uint8

const (
	rawNull rawKind = iota
	rawNumber
	rawBool
	rawString
)

// rawValue is a single untyped value read from a text format, prior to kind
// inference.
type rawValue struct {
	kind rawKind
	text string
}

// datetimeLayouts are tried (in order) when inferring datetime columns.
var datetimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// inferColumn constructs a column from raw values.  Numbers become int columns
// unless some value has a fractional part or exponent; strings become date,
// datetime or duration columns if every value parses as such.  Mixed values
// fall back to a string column.
func inferColumn(name string, values []rawValue) (*Column, error) {
	var counts [4]int
	//
	for _, v := range values {
		counts[v.kind]++
	}
	//
	n := len(values) - counts[rawNull]
	valid := make([]bool, len(values))
	//
	for i, v := range values {
		valid[i] = v.kind != rawNull
	}
	//
	switch {
	case n == 0:
		return NewNullColumn(name, KindFloat, uint(len(values))), nil
	case counts[rawNumber] == n:
		return inferNumeric(name, values, valid)
	case counts[rawBool] == n:
		bools := make([]bool, len(values))
		for i, v := range values {
			bools[i] = v.kind == rawBool && strings.EqualFold(v.text, "true")
		}
		//
		col := NewBoolColumn(name, bools...)
		col.valid = normaliseMask(valid)
		//
		return col, nil
	case counts[rawString] == n:
		if col := inferTime(name, values, valid); col != nil {
			return col, nil
		}
	}
	//
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = v.text
	}
	//
	col := NewStringColumn(name, strs...)
	col.valid = normaliseMask(valid)
	//
	return col, nil
}

func inferNumeric(name string, values []rawValue, valid []bool) (*Column, error) {
	kind := KindInt
	floats := make([]float64, len(values))
	//
	for i, v := range values {
		if v.kind == rawNull {
			continue
		}
		//
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			return nil, err
		}
		//
		if strings.ContainsAny(v.text, ".eEnN") {
			kind = KindFloat
		}
		//
		floats[i] = f
	}
	//
	return NewNumericColumn(name, kind, floats, valid), nil
}

func inferTime(name string, values []rawValue, valid []bool) *Column {
	for _, kind := range []Kind{KindDate, KindDatetime, KindDuration} {
		micros := make([]int64, len(values))
		ok := true
		//
		for i := 0; ok && i < len(values); i++ {
			if values[i].kind != rawNull {
				micros[i], ok = parseMicros(kind, values[i].text)
			}
		}
		//
		if ok {
			return NewMicrosColumn(name, kind, micros, valid)
		}
	}
	//
	return nil
}

func parseMicros(kind Kind, text string) (int64, bool) {
	switch kind {
	case KindDate:
		if t, err := time.Parse(DateLayout, text); err == nil {
			return t.UnixMicro(), true
		}
	case KindDatetime:
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t.UTC().UnixMicro(), true
			}
		}
	case KindDuration:
		// A bare number is not a duration
		if d, err := time.ParseDuration(text); err == nil && strings.ContainsAny(text, "hmsuµn") {
			return d.Microseconds(), true
		}
	}
	//
	return 0, false
}

// rawText classifies a cell of text (e.g. from CSV), where the empty string
// denotes null.
func rawText(text string) rawValue {
	switch {
	case text == "":
		return rawValue{rawNull, ""}
	case strings.EqualFold(text, "true") || strings.EqualFold(text, "false"):
		return rawValue{rawBool, text}
	}
	//
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return rawValue{rawNumber, text}
	}
	//
	return rawValue{rawString, text}
}
