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
	"os"

	"golang.org/x/term"
)

// DefaultWidth is the width assumed when output is not a terminal.
const DefaultWidth = uint(120)

// IsTerminal reports whether the given file is attached to a terminal.  This
// is used to decide whether ANSI escapes should be enabled.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the number of columns of the terminal attached to
// stdout, or DefaultWidth when there is none.
func TerminalWidth() uint {
	fd := int(os.Stdout.Fd())
	//
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	//
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	//
	return uint(width)
}
