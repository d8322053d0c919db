// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rag-compare/internal/backend"
	"github.com/pdiddy/rag-compare/internal/jsonl"
	"github.com/pdiddy/rag-compare/internal/metrics"
	"github.com/pdiddy/rag-compare/internal/query"
	"github.com/pdiddy/rag-compare/internal/runs"
	"github.com/pdiddy/rag-compare/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query QUESTION",
	Short: "Ask both backends the same question and compare their answers",
	Long: `Query sends the question and the sources to the RAG backend, and a
prompt built from the question alone to the seq2seq backend. Each backend's
result is printed as {"response", "time"} on success or with "error" set
on failure. One backend failing never prevents the other from running.

With --store-dir the comparison is recorded in the run log. With
--metrics-file call durations are written in the Prometheus text format.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("sources", "sources.jsonl", "sources file produced by transform")
	queryCmd.Flags().Bool("parallel", false, "query both backends concurrently")
	queryCmd.Flags().String("format", "json", "output format: json or yaml")
	queryCmd.Flags().String("store-dir", "", "record the run in this run log directory")
	queryCmd.Flags().String("metrics-file", "", "write backend call metrics to this file")
	addBackendFlags(queryCmd)

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	keys := map[string]string{
		"query.sources":  "sources",
		"query.parallel": "parallel",
		"query.format":   "format",
		"store.dir":      "store-dir",
	}
	for k, v := range backendFlags {
		keys[k] = v
	}
	if err := bindFlags(cmd, keys); err != nil {
		return err
	}

	format := viper.GetString("query.format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q: want json or yaml", format)
	}

	sources, err := jsonl.ReadSources(viper.GetString("query.sources"))
	if err != nil {
		return err
	}

	cfg := backendConfig()
	rag, seq2seq := backend.Open(cfg, logger)
	recorder := metrics.NewRecorder()
	exec := query.NewExecutor(rag, seq2seq,
		query.WithLogger(logger),
		query.WithObserver(recorder),
		query.WithParallel(cfg.Parallel),
	)

	question := args[0]
	results := exec.Run(cmd.Context(), question, sources)

	if err := writeResults(os.Stdout, results, format); err != nil {
		return err
	}

	if dir := viper.GetString("store.dir"); dir != "" {
		if err := recordRun(cmd, types.StoreConfig{Dir: dir}, question, len(sources), results); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

func writeResults(w io.Writer, results types.QueryResults, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func recordRun(cmd *cobra.Command, cfg types.StoreConfig, question string, sourceCount int, results types.QueryResults) error {
	store, err := runs.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Record(cmd.Context(), question, sourceCount, results)
	if err != nil {
		return err
	}
	logger.Info("recorded run", zap.String("id", run.ID), zap.String("dir", cfg.Dir))
	return nil
}
