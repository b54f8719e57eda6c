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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadJSON parses a table expressed in JSON notation.  For example, {"X": [0],
// "Y": [1]} is a table containing one row of data each for two columns "X" and
// "Y".  Column order is retained, and column kinds are inferred from the data.
func ReadJSON(r io.Reader, name string) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	//
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	//
	var columns []*Column
	//
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		//
		colName, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected column name, got %v", tok)
		}
		//
		values, err := readJSONArray(dec, colName)
		if err != nil {
			return nil, err
		}
		//
		col, err := inferColumn(colName, values)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", colName, err)
		}
		//
		columns = append(columns, col)
	}
	//
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	//
	return NewTable(name, columns...)
}

func readJSONArray(dec *json.Decoder, column string) ([]rawValue, error) {
	var values []rawValue
	//
	if err := expectDelim(dec, '['); err != nil {
		return nil, fmt.Errorf("column %q: %w", column, err)
	}
	//
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		//
		switch v := tok.(type) {
		case nil:
			values = append(values, rawValue{rawNull, ""})
		case json.Number:
			values = append(values, rawValue{rawNumber, v.String()})
		case bool:
			values = append(values, rawValue{rawBool, strconv.FormatBool(v)})
		case string:
			values = append(values, rawValue{rawString, v})
		default:
			return nil, fmt.Errorf("column %q: unexpected value %v", column, tok)
		}
	}
	//
	return values, expectDelim(dec, ']')
}

func expectDelim(dec *json.Decoder, delim json.Delim) error {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected end of input, expected %q", delim)
	} else if err != nil {
		return err
	}
	//
	if d, ok := tok.(json.Delim); !ok || d != delim {
		return fmt.Errorf("expected %q, got %v", delim, tok)
	}
	//
	return nil
}

// WriteJSON writes a table in the notation accepted by ReadJSON.  Time values
// are written as strings, and non-finite floats as null.
func WriteJSON(w io.Writer, t *Table) error {
	t, err := t.Materialize()
	if err != nil {
		return err
	}
	//
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	cols, _ := t.Columns()
	for i, col := range cols {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		writeJSONString(&builder, col.Name())
		builder.WriteString(": [")
		//
		for j := uint(0); j < col.Height(); j++ {
			if j != 0 {
				builder.WriteString(", ")
			}
			//
			writeJSONValue(&builder, col, j)
		}
		//
		builder.WriteString("]")
	}
	//
	builder.WriteString("}\n")
	//
	_, err = io.WriteString(w, builder.String())
	//
	return err
}

func writeJSONValue(builder *strings.Builder, col *Column, row uint) {
	switch {
	case !col.Valid(row):
		builder.WriteString("null")
	case col.Kind().IsNumeric():
		if v := col.Floats()[row]; math.IsNaN(v) || math.IsInf(v, 0) {
			builder.WriteString("null")
		} else {
			builder.WriteString(col.Text(row))
		}
	case col.Kind() == KindBool:
		builder.WriteString(col.Text(row))
	default:
		writeJSONString(builder, col.Text(row))
	}
}

func writeJSONString(builder *strings.Builder, s string) {
	// Marshalling a string cannot fail
	bytes, _ := json.Marshal(s)
	builder.Write(bytes)
}
