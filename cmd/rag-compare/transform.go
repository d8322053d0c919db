// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rag-compare/internal/dataset"
	"github.com/pdiddy/rag-compare/internal/transform"
	"github.com/pdiddy/rag-compare/pkg/types"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Convert raw paper records into retrieval sources",
	Long: `Transform reads raw arXiv metadata records (one JSON object per line),
drops records with an empty abstract, and writes one source per line with the
abstract as text and authors, title, and update date as metadata.

Without --input the snapshot is located in the dataset cache (see dataset).
Use --limit to write a small demo subset.`,
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().String("input", "", "raw records file (default: snapshot from the dataset cache)")
	transformCmd.Flags().String("output", "sources.jsonl", "sources file to write")
	transformCmd.Flags().Int("limit", 0, "stop after this many sources (0 writes all)")
	addDatasetFlags(transformCmd)

	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	keys := map[string]string{
		"transform.input":  "input",
		"transform.output": "output",
		"transform.limit":  "limit",
	}
	for k, v := range datasetFlags {
		keys[k] = v
	}
	if err := bindFlags(cmd, keys); err != nil {
		return err
	}

	input := viper.GetString("transform.input")
	if input == "" {
		path, err := dataset.Locate(cmd.Context(), dataset.CacheAcquirer{Root: cacheDir()}, datasetConfig())
		if err != nil {
			return err
		}
		input = path
	}

	cfg := types.TransformConfig{Limit: viper.GetInt("transform.limit")}
	summary, err := transform.File(cmd.Context(), input, viper.GetString("transform.output"), cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d record(s) could not be decoded", summary.Failed)
	}
	return nil
}
