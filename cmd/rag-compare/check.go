// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rag-compare/internal/backend"
	"github.com/pdiddy/rag-compare/internal/query"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe both backends and report whether they respond",
	Long: `Check builds both backends from the current configuration. It prints the
RAG service version when available and runs a short translation prompt
through the seq2seq backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, backendFlags); err != nil {
			return err
		}
		rag, seq2seq := backend.Open(backendConfig(), logger)
		query.Check(cmd.Context(), rag, seq2seq, os.Stdout, logger)
		return nil
	},
}

func init() {
	addBackendFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}
