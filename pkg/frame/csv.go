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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ReadCSV parses a table from comma-separated values, where the first record
// holds the column names.  Empty cells are null, and column kinds are inferred
// from the data.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	//
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	} else if len(records) == 0 {
		return nil, errors.New("missing header record")
	}
	//
	header := records[0]
	rows := records[1:]
	columns := make([]*Column, len(header))
	//
	for i, colName := range header {
		values := make([]rawValue, len(rows))
		for j, row := range rows {
			values[j] = rawText(row[i])
		}
		//
		if columns[i], err = inferColumn(colName, values); err != nil {
			return nil, fmt.Errorf("column %q: %w", colName, err)
		}
	}
	//
	return NewTable(name, columns...)
}

// WriteCSV writes a table as comma-separated values, with nulls written as
// empty cells.
func WriteCSV(w io.Writer, t *Table) error {
	t, err := t.Materialize()
	if err != nil {
		return err
	}
	//
	writer := csv.NewWriter(w)
	cols, _ := t.Columns()
	//
	if err := writer.Write(t.ColumnNames()); err != nil {
		return err
	}
	//
	record := make([]string, len(cols))
	//
	for row := uint(0); row < t.Height(); row++ {
		for i, col := range cols {
			if col.Valid(row) {
				record[i] = col.Text(row)
			} else {
				record[i] = ""
			}
		}
		//
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	//
	writer.Flush()
	//
	return writer.Error()
}
