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
package termio

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// TablePrinter is useful for printing tables to the terminal.
type TablePrinter struct {
	widths        []uint
	rows          [][]string
	escapes       [][]string
	enableEscapes bool
	separator     string
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	escapes := make([][]string, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
		escapes[i] = make([]string, width)
	}

	return &TablePrinter{widths, rows, escapes, true, " |"}
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], textWidth(val))
	p.rows[row][col] = val
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Width returns the number of columns in this table.
func (p *TablePrinter) Width() uint {
	return uint(len(p.widths))
}

// Height returns the height of this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape set the colour to use when printing the contents of a given cell
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape.Build()
}

// SetRowEscape sets the colour to use for every cell of a given row.
func (p *TablePrinter) SetRowEscape(row uint, escape AnsiEscape) {
	for col := range p.widths {
		p.SetEscape(uint(col), row, escape)
	}
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful in environments that don't support
// escapes as, otherwise, you get a lot of visible excape characters being
// printed.
func (p *TablePrinter) AnsiEscapes(enable bool) *TablePrinter {
	p.enableEscapes = enable
	return p
}

// Separator sets the string printed after each cell.
func (p *TablePrinter) Separator(sep string) *TablePrinter {
	p.separator = sep
	return p
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = max(p.widths[i], textWidth(vals[i]))
	}
	// Done
	p.rows[row] = vals
}

// SetMaxWidths puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidths(width uint) {
	for i := uint(0); i < uint(len(p.widths)); i++ {
		p.SetMaxWidth(i, width)
	}
}

// SetMaxWidth puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidth(col uint, width uint) {
	// Truncation needs room for the ".." marker
	p.widths[col] = min(p.widths[col], max(width, 3))
}

// Print the table to stdout.
func (p *TablePrinter) Print() {
	// Nothing sensible to do if stdout is gone
	_ = p.Write(os.Stdout)
}

// Write the table to a given writer.
func (p *TablePrinter) Write(w io.Writer) error {
	//
	for i := 0; i < len(p.rows); i++ {
		row := p.rows[i]
		escapes := p.escapes[i]
		//
		for j, col := range row {
			jth_width := p.widths[j]
			jth_escape := escapes[j]
			// Print colour (if applicable)
			if p.enableEscapes && jth_escape != "" {
				if _, err := io.WriteString(w, jth_escape); err != nil {
					return err
				}
			}
			// Print data
			if err := writeCell(w, col, jth_width); err != nil {
				return err
			}
			// Cancel colour (if applicable)
			if p.enableEscapes && jth_escape != "" {
				if _, err := io.WriteString(w, ResetAnsiEscape().Build()); err != nil {
					return err
				}
			}

			if _, err := io.WriteString(w, p.separator); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	//
	return nil
}

func writeCell(w io.Writer, text string, width uint) error {
	var err error
	//
	if textWidth(text) > width {
		runes := []rune(text)
		_, err = fmt.Fprintf(w, " %s..", string(runes[0:width-2]))
	} else {
		_, err = fmt.Fprintf(w, " %*s", width, text)
	}
	//
	return err
}

func textWidth(text string) uint {
	return uint(utf8.RuneCountInString(text))
}
