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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/featsynth/go-dfs/pkg/config"
	"github.com/featsynth/go-dfs/pkg/frame"
	"github.com/featsynth/go-dfs/pkg/synthesis"
	"github.com/featsynth/go-dfs/pkg/util/termio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// synthCmd represents the synth command for building features.
var synthCmd = &cobra.Command{
	Use:   "synth [flags] table_file",
	Short: "Synthesise features for a given table.",
	Long: `Synthesise features for a given table, by repeatedly applying
	randomly chosen primitives to randomly chosen columns.  Tables can be given
	as JSON, CSV or Arrow IPC files.  Settings are read from a configuration
	file (if given) and the environment, with flags taking precedence.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg, err := synthConfig(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		out := synthOutput{
			table:    GetString(cmd, "output"),
			features: GetString(cmd, "features"),
			lineage:  GetFlag(cmd, "lineage"),
			metrics:  GetFlag(cmd, "metrics"),
			rows:     GetUint(cmd, "rows"),
			ansi:     termio.IsTerminal(os.Stdout),
			width:    termio.TerminalWidth(),
		}
		//
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = synthesise(ctx, args[0], cfg, out, os.Stdout)
		//
		stop()
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// synthOutput determines what is produced by a synthesis run.
type synthOutput struct {
	// File to write the resulting table to (printed, if empty).
	table string
	// File to write feature definitions to (if any).
	features string
	// Print the lineage of features.
	lineage bool
	// Print metrics at the end of the run.
	metrics bool
	// Maximum number of rows to print.
	rows uint
	// Enable ANSI escapes.
	ansi bool
	// Width available for printing.
	width uint
}

// synthConfig loads the configuration file (if any), then applies the flags
// given explicitly.
func synthConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(GetString(cmd, "config"))
	if err != nil {
		return nil, err
	}
	//
	flags := cmd.Flags()
	//
	if flags.Changed("group") {
		cfg.GroupCols = GetStringArray(cmd, "group")
	}
	//
	if flags.Changed("trans") {
		cfg.TransPrimitives = GetStringArray(cmd, "trans")
	}
	//
	if flags.Changed("agg") {
		cfg.AggPrimitives = GetStringArray(cmd, "agg")
	}
	//
	if flags.Changed("ignore") {
		cfg.IgnoreColumns = GetStringArray(cmd, "ignore")
	}
	//
	if flags.Changed("max-depth") {
		cfg.MaxDepth = GetInt(cmd, "max-depth")
	}
	//
	if flags.Changed("max-features") {
		cfg.MaxFeatures = GetInt(cmd, "max-features")
	}
	//
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = GetInt(cmd, "max-attempts")
	}
	//
	if flags.Changed("seed") {
		seed := GetUint64(cmd, "seed")
		cfg.Seed = &seed
	}
	//
	if flags.Changed("lazy") {
		cfg.Lazy = GetFlag(cmd, "lazy")
	}
	//
	cfg.ApplyDefaults()
	//
	return cfg, cfg.Validate()
}

// synthesise runs feature synthesis over the table in a given file, writing
// results as requested.
func synthesise(ctx context.Context, path string, cfg *config.Config, out synthOutput, w io.Writer) error {
	table, err := frame.ReadFile(path)
	if err != nil {
		return err
	}
	//
	reg := prometheus.NewRegistry()
	opts := append(synthesis.ConfigOptions(cfg), synthesis.WithRegisterer(reg))
	//
	engine, err := synthesis.New(table, opts...)
	if err != nil {
		return err
	}
	//
	if err := engine.Run(ctx); err != nil {
		return err
	}
	//
	result, err := engine.Result()
	if err != nil {
		return err
	}
	//
	if out.table != "" {
		if err := frame.WriteFile(out.table, result); err != nil {
			return err
		}
	} else if err := printResult(w, engine, result, out); err != nil {
		return err
	}
	//
	if out.lineage {
		lineage, _ := engine.Render()
		fmt.Fprint(w, lineage)
	}
	//
	if out.features != "" {
		if err := writeFeatures(out.features, engine); err != nil {
			return err
		}
	}
	//
	if out.metrics {
		return writeMetrics(w, reg)
	}
	//
	return nil
}

// printResult prints the resulting table, highlighting derived columns.
func printResult(w io.Writer, engine *synthesis.Engine, result *frame.Table, out synthOutput) error {
	derived := func(f frame.Field) bool {
		node, ok := engine.Lineage().Lookup(f.Name)
		return ok && !node.IsBase()
	}
	//
	printer := frame.NewPrinter().End(out.rows).AnsiEscapes(out.ansi).Highlight(derived)
	//
	if result.Width() > 0 {
		printer = printer.MaxCellWidth(max(out.width/result.Width(), 8))
	}
	//
	return printer.Write(w, result)
}

func writeFeatures(path string, engine *synthesis.Engine) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	//
	if err := engine.Lineage().WriteYAML(file); err != nil {
		file.Close()
		return err
	}
	//
	return file.Close()
}

// writeMetrics writes the metrics of a run in the Prometheus text format.
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	//
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	//
	return nil
}

func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().StringP("config", "c", "", "read settings from a YAML configuration file")
	synthCmd.Flags().StringArrayP("group", "g", nil, "partition the table by this column")
	synthCmd.Flags().StringArrayP("trans", "t", nil, "draw from this transform primitive")
	synthCmd.Flags().StringArrayP("agg", "a", nil, "draw from this aggregation primitive (requires --group)")
	synthCmd.Flags().StringArrayP("ignore", "i", nil, "ignore this column")
	synthCmd.Flags().Int("max-depth", config.DefaultMaxDepth, "maximum depth of features (-1 for no limit)")
	synthCmd.Flags().IntP("max-features", "n", config.DefaultMaxFeatures, "number of synthesis steps")
	synthCmd.Flags().Int("max-attempts", config.DefaultMaxAttempts, "maximum attempts for each step")
	synthCmd.Flags().Uint64("seed", 0, "seed for the random source")
	synthCmd.Flags().Bool("lazy", false, "defer computing features until the end of the run")
	synthCmd.Flags().StringP("output", "o", "", "write the resulting table to a file (.json, .csv or .arrow)")
	synthCmd.Flags().String("features", "", "write feature definitions to a YAML file")
	synthCmd.Flags().Bool("lineage", false, "print the lineage of features")
	synthCmd.Flags().Bool("metrics", false, "print synthesis metrics")
	synthCmd.Flags().Uint("rows", 10, "maximum number of rows to print")
}
