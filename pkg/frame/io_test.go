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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	input := `{"z": [1, 2, null], "a": [0.5, 1, 2], "f": [true, false, true],
	           "d": ["2024-01-01", "2024-02-01", null], "ts": ["2024-01-01T10:00:00Z", null, "2024-01-01T11:00:00Z"],
	           "s": ["x", "y", "z"], "dur": ["1s", "2m", "1h"]}`
	tbl, err := ReadJSON(strings.NewReader(input), "in")
	require.NoError(t, err)
	// Order is retained
	assert.Equal(t, []string{"z", "a", "f", "d", "ts", "s", "dur"}, tbl.ColumnNames())
	//
	expected := []Kind{KindInt, KindFloat, KindBool, KindDate, KindDatetime, KindString, KindDuration}
	for i, f := range tbl.Fields() {
		assert.Equal(t, expected[i], f.Kind, f.Name)
	}
	//
	z, _ := tbl.Column("z")
	assert.False(t, z.Valid(2))
	ts, _ := tbl.Column("ts")
	assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), ts.Value(2))
}

func TestReadJSON_Errors(t *testing.T) {
	inputs := []string{
		`[1, 2]`,
		`{"a": 1}`,
		`{"a": [1, 2], "b": [1]}`,
		`{"a": [[1]]}`,
		`{"a": [1`,
	}
	//
	for _, input := range inputs {
		_, err := ReadJSON(strings.NewReader(input), "in")
		assert.Error(t, err, input)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	tbl := testTable()
	//
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, tbl))
	//
	read, err := ReadJSON(&buf, "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "g", "f", "d"}, read.ColumnNames())
	checkSameColumns(t, tbl, read)
}

func TestReadCSV(t *testing.T) {
	input := "a,b,c,d\n1,1.5,true,x\n2,,false,\n3,2.5,,y\n"
	tbl, err := ReadCSV(strings.NewReader(input), "in")
	require.NoError(t, err)
	//
	expected := []Kind{KindInt, KindFloat, KindBool, KindString}
	for i, f := range tbl.Fields() {
		assert.Equal(t, expected[i], f.Kind, f.Name)
	}
	//
	b, _ := tbl.Column("b")
	assert.Equal(t, uint(1), b.NullCount())
	// Mixed content falls back on strings
	tbl, err = ReadCSV(strings.NewReader("m\n1\nx\n"), "in")
	require.NoError(t, err)
	kind, _ := tbl.Kind("m")
	assert.Equal(t, KindString, kind)
}

func TestCSV_RoundTrip(t *testing.T) {
	tbl := MustNewTable("t",
		NewIntColumn("a", 1, 2, 3),
		NewFloatColumn("b", 0.5, 1.5, 2.5).WithNulls(1),
		NewStringColumn("g", "x", "y", "x"),
	)
	//
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "a,b,g\n1,0.5,x\n2,,y\n3,2.5,x\n", buf.String())
	//
	read, err := ReadCSV(&buf, "t")
	require.NoError(t, err)
	checkSameColumns(t, tbl, read)
}

func TestArrow_RoundTrip(t *testing.T) {
	tbl := MustNewTable("t",
		NewIntColumn("a", 1, 2, 3),
		NewFloatColumn("b", 0.5, 1.5, 2.5).WithNulls(1),
		NewBoolColumn("f", true, false, true),
		NewStringColumn("g", "x", "y", "x"),
		NewTimeColumn("d", KindDate, time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)),
		NewTimeColumn("ts", KindDatetime, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC), time.Date(2024, 1, 3, 0, 0, 0, 5000, time.UTC)),
		NewDurationColumn("dur", time.Second, time.Minute, time.Hour),
	)
	//
	file, err := os.Create(filepath.Join(t.TempDir(), "t.arrow"))
	require.NoError(t, err)
	//
	defer file.Close()
	//
	require.NoError(t, WriteArrow(file, tbl))
	_, err = file.Seek(0, io.SeekStart)
	require.NoError(t, err)
	//
	read, err := ReadArrow(file, "t")
	require.NoError(t, err)
	assert.Equal(t, tbl.Fields(), read.Fields())
	checkSameColumns(t, tbl, read)
}

func TestFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	tbl := testTable()
	//
	for _, ext := range []string{"json", "csv", "arrow"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "table."+ext)
			require.NoError(t, WriteFile(path, tbl))
			read, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "table", read.Name())
			assert.Equal(t, tbl.ColumnNames(), read.ColumnNames())
			assert.Equal(t, tbl.Height(), read.Height())
		})
	}
	//
	_, err := FormatOf("table.parquet")
	assert.Error(t, err)
	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestPrinter(t *testing.T) {
	tbl := MustNewTable("t", NewIntColumn("a", 1, 2, 3), NewFloatColumn("bb", 0.5, 1.5, 2.5).WithNulls(1))
	//
	var buf bytes.Buffer
	printer := NewPrinter().AnsiEscapes(false).End(2).Highlight(func(f Field) bool { return f.Name == "bb" })
	require.NoError(t, printer.Write(&buf, tbl))
	assert.Equal(t, "   | a |  *bb |\n 0 | 1 |  0.5 |\n 1 | 2 | null |\n", buf.String())
}

// checkSameColumns compares values of columns, ignoring any difference between
// integer and floating point kinds.
func checkSameColumns(t *testing.T, expected *Table, actual *Table) {
	t.Helper()
	//
	for _, name := range expected.ColumnNames() {
		e, err := expected.Column(name)
		require.NoError(t, err)
		a, err := actual.Column(name)
		require.NoError(t, err)
		//
		require.Equal(t, e.Height(), a.Height(), name)
		//
		for i := uint(0); i < e.Height(); i++ {
			assert.Equal(t, e.Text(i), a.Text(i), "%s[%d]", name, i)
		}
	}
}
