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
	"io"
	"math"
	"os"

	"github.com/featsynth/go-dfs/pkg/util/termio"
)

// ColumnFilter is a predicate which determines whether a given column should be
// included in the print out, or not.
type ColumnFilter = func(Field) bool

// Highlighter identifies columns which should be highlighted.
type Highlighter = func(Field) bool

// Printer encapsulates various configuration options useful for printing out
// tables in human-readable forms.
type Printer struct {
	// First row to print
	startRow uint
	// Last row to print
	endRow uint
	// Which columns to include
	colFilter ColumnFilter
	// Which columns to highlight
	highlighter Highlighter
	// Determine maximum width to print
	maxCellWidth uint
	// Enable ANSI
	ansiEscapes bool
}

// NewPrinter constructs a default printer
func NewPrinter() *Printer {
	// Include all colunms by default
	emptyFilter := func(Field) bool {
		return true
	}
	// Highlight nothing by default
	emptyHighlighter := func(Field) bool {
		return false
	}
	// Return an empty printer
	return &Printer{0, math.MaxUint, emptyFilter, emptyHighlighter, math.MaxUint, true}
}

// Start configures the starting row for this printer.
func (p *Printer) Start(start uint) *Printer {
	p.startRow = start
	return p
}

// End configures the ending row (exclusive) for this printer.
func (p *Printer) End(end uint) *Printer {
	p.endRow = end
	return p
}

// Columns configures a filter which selects columns to be included in the final
// print out.
func (p *Printer) Columns(filter ColumnFilter) *Printer {
	p.colFilter = filter
	return p
}

// AnsiEscapes can be used to enable or disable the use of ANSI escape sequences
// (e.g. for showing colour in a terminal, etc)
func (p *Printer) AnsiEscapes(enable bool) *Printer {
	p.ansiEscapes = enable
	return p
}

// Highlight configures a filter for columns which should be highlighted.  By
// default, no columns are highlighted.
func (p *Printer) Highlight(highlighter Highlighter) *Printer {
	p.highlighter = highlighter
	return p
}

// MaxCellWidth sets the maximum width to use for the cell data.
func (p *Printer) MaxCellWidth(width uint) *Printer {
	p.maxCellWidth = width
	return p
}

// Print a given table to stdout using the configured printer.
func (p *Printer) Print(t *Table) error {
	return p.Write(os.Stdout, t)
}

// Write a given table using the configured printer.  The table is
// materialised first, if necessary.
func (p *Printer) Write(w io.Writer, t *Table) error {
	t, err := t.Materialize()
	if err != nil {
		return err
	}
	//
	start := min(p.startRow, t.Height())
	end := max(start, min(t.Height(), p.endRow))
	//
	var columns []*Column
	//
	for _, f := range t.Fields() {
		if p.colFilter(f) {
			col, _ := t.Column(f.Name)
			columns = append(columns, col)
		}
	}
	// Construct table
	tp := termio.NewTablePrinter(uint(1+len(columns)), 1+end-start).AnsiEscapes(p.ansiEscapes)
	tp.SetRowEscape(0, termio.BoldAnsiEscape())
	// Initialise row indices
	for j := start; j < end; j++ {
		tp.Set(0, 1+j-start, fmt.Sprintf("%d", j))
		tp.SetEscape(0, 1+j-start, termio.NewAnsiEscape().FgColour(termio.TERM_WHITE))
	}
	// Construct suitable highlighting escape
	highlightEscape := termio.NewAnsiEscape().FgColour(termio.TERM_CYAN)
	// Fill table
	for i, column := range columns {
		col := uint(i + 1)
		highlight := p.highlighter(Field{column.Name(), column.Kind()})
		// Set columns names
		name := column.Name()
		if highlight && !p.ansiEscapes {
			// In a non-ANSI environment, use a marker "*" to identify highlighted columns.
			name = "*" + name
		}
		//
		tp.Set(col, 0, name)
		//
		for row := start; row < end; row++ {
			tp.Set(col, 1+row-start, column.Text(row))
			//
			if highlight {
				tp.SetEscape(col, 1+row-start, highlightEscape)
			} else if !column.Valid(row) {
				tp.SetEscape(col, 1+row-start, termio.NewAnsiEscape().FgColour(termio.TERM_RED))
			}
		}
	}
	// Cap cells
	for i := range columns {
		tp.SetMaxWidth(uint(i+1), p.maxCellWidth)
	}
	// Done
	return tp.Write(w)
}
