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
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a file format for tables.
type Format string

const (
	// FormatJSON is the {"column": [values]} notation.
	FormatJSON Format = "json"
	// FormatCSV is comma-separated values with a header record.
	FormatCSV Format = "csv"
	// FormatArrow is the Arrow IPC file format.
	FormatArrow Format = "arrow"
)

// FormatOf determines the format of a file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".arrow", ".ipc", ".feather":
		return FormatArrow, nil
	default:
		return "", fmt.Errorf("unknown table format for %q (expected .json, .csv or .arrow)", path)
	}
}

// ReadFile reads a table from a given file, with the format determined by its
// extension.  The table is named after the file.
func ReadFile(path string) (*Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	//
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	//
	defer file.Close()
	//
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	//
	switch format {
	case FormatJSON:
		return ReadJSON(file, name)
	case FormatCSV:
		return ReadCSV(file, name)
	default:
		return ReadArrow(file, name)
	}
}

// WriteFile writes a table to a given file, with the format determined by its
// extension.
func WriteFile(path string, t *Table) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	//
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	//
	switch format {
	case FormatJSON:
		err = WriteJSON(file, t)
	case FormatCSV:
		err = WriteCSV(file, t)
	default:
		err = WriteArrow(file, t)
	}
	//
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	//
	return err
}
