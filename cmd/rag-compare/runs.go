// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rag-compare/internal/runs"
	"github.com/pdiddy/rag-compare/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs [ID]",
	Short: "List, show, or export recorded comparisons",
	Long: `Runs reads the run log written by query --store-dir. Without arguments
it lists the newest runs; with an ID it prints that run's results. Use
--export to write every matching run to export.yaml or export.json in the
store directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("store-dir", "runs", "run log directory")
	runsCmd.Flags().Int("limit", 0, "maximum runs to list (default 20)")
	runsCmd.Flags().String("match", "", "only runs whose question contains this text")
	runsCmd.Flags().String("export", "", "export format: yaml or json")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"store.dir": "store-dir"}); err != nil {
		return err
	}

	store, err := runs.NewStore(types.StoreConfig{Dir: viper.GetString("store.dir")})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if len(args) == 1 {
		run, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return writeResults(os.Stdout, run.Results, "json")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	match, _ := cmd.Flags().GetString("match")
	opts := runs.ListOptions{Query: match, Limit: limit}

	switch export, _ := cmd.Flags().GetString("export"); export {
	case "":
	case "yaml":
		path, err := store.ExportYAML(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Exported runs to %s\n", path)
		return nil
	case "json":
		path, err := store.ExportJSON(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Exported runs to %s\n", path)
		return nil
	default:
		return fmt.Errorf("unsupported export format %q: want yaml or json", export)
	}

	list, err := store.List(ctx, opts)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-7s  %-7s  %s\n", "ID", "Created", "Sources", "Failed", "Question")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range list {
		q := r.Query
		if len(q) > 40 {
			q = q[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-7d  %-7d  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.SourceCount, failedBackends(r.Results), q)
	}
	return nil
}

func failedBackends(results types.QueryResults) int {
	n := 0
	for _, env := range results {
		if !env.OK() {
			n++
		}
	}
	return n
}
