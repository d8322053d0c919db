// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rag-compare/internal/dataset"
	"github.com/pdiddy/rag-compare/internal/jsonl"
	"github.com/pdiddy/rag-compare/pkg/types"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Locate the raw dataset snapshot in the download cache",
	Long: `Dataset resolves a dataset identifier against the local download cache,
lists the files of the newest cached version, and reports the snapshot path.
A missing snapshot is an error. Use --sample to print the first records.`,
	RunE: runDataset,
}

// datasetFlags maps viper keys to the dataset flags shared by dataset and transform.
var datasetFlags = map[string]string{
	"dataset.id":            "id",
	"dataset.cache_dir":     "cache-dir",
	"dataset.snapshot_file": "snapshot-file",
}

func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().String("id", dataset.DefaultID, "dataset identifier (owner/name)")
	cmd.Flags().String("cache-dir", "", "download cache root (default ~/.cache/kagglehub)")
	cmd.Flags().String("snapshot-file", dataset.DefaultSnapshotFile, "snapshot file inside the dataset")
}

func init() {
	addDatasetFlags(datasetCmd)
	datasetCmd.Flags().Int("sample", 0, "print the first N raw records")

	rootCmd.AddCommand(datasetCmd)
}

func datasetConfig() types.DatasetConfig {
	return types.DatasetConfig{
		ID:           viper.GetString("dataset.id"),
		CacheDir:     viper.GetString("dataset.cache_dir"),
		SnapshotFile: viper.GetString("dataset.snapshot_file"),
	}
}

// cacheDir returns the configured cache root or the downloader's default.
func cacheDir() string {
	if dir := viper.GetString("dataset.cache_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "kagglehub")
	}
	return filepath.Join(home, ".cache", "kagglehub")
}

func runDataset(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, datasetFlags); err != nil {
		return err
	}
	cfg := datasetConfig()
	acq := dataset.CacheAcquirer{Root: cacheDir()}

	id := cfg.ID
	if id == "" {
		id = dataset.DefaultID
	}
	dir, err := acq.Acquire(cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Printf("Dataset %s at %s\n", id, dir)

	files, err := dataset.ListFiles(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println("  ", f)
	}

	path, err := dataset.Snapshot(dir, cfg.SnapshotFile)
	if err != nil {
		return err
	}
	fmt.Println("Snapshot:", path)

	n, _ := cmd.Flags().GetInt("sample")
	if n <= 0 {
		return nil
	}
	records, err := dataset.Sample(path, n)
	if err != nil {
		return err
	}
	w := jsonl.NewWriter(os.Stdout)
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
