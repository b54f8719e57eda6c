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
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/featsynth/go-dfs/pkg/primitive"
	"github.com/featsynth/go-dfs/pkg/registry"
	"github.com/featsynth/go-dfs/pkg/util/termio"
	"github.com/spf13/cobra"
)

// listCmd represents the list command for showing available primitives.
var listCmd = &cobra.Command{
	Use:   "list [flags]",
	Short: "List the available primitives.",
	Long: `List the available primitives, along with the inputs they accept
	and the kind of value they return.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		kind := GetString(cmd, "kind")
		ansi := termio.IsTerminal(os.Stdout)
		//
		if err := listPrimitives(os.Stdout, registry.Default(), kind, ansi); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

// Maximum width of the description column.
const descriptionWidth = 72

// listPrimitives writes a table of the primitives of a given kind (or all
// primitives, if no kind is given).
func listPrimitives(w io.Writer, r *registry.Registry, kind string, ansi bool) error {
	var variants []primitive.Variant
	//
	if kind != "" {
		variant, err := primitive.ParseVariant(kind)
		if err != nil {
			return err
		}
		//
		variants = append(variants, variant)
	}
	//
	infos := r.List(variants...)
	tp := termio.NewTablePrinter(5, uint(len(infos))+1)
	tp.SetRow(0, "name", "type", "valid inputs", "return type", "description")
	tp.SetRowEscape(0, termio.BoldAnsiEscape())
	//
	for i, info := range infos {
		tp.SetRow(uint(i+1), info.Name, info.Variant.String(), info.ValidInputs, info.ReturnType, info.Description)
	}
	//
	tp.SetMaxWidth(4, descriptionWidth)
	//
	return tp.AnsiEscapes(ansi).Write(w)
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("kind", "", "only list primitives of this kind (transform or aggregation)")
}
