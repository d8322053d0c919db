// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rag-compare/internal/secrets"
	"github.com/pdiddy/rag-compare/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "rag-compare/0.1"
)

// backendFlags maps viper keys to the backend flags shared by query and check.
var backendFlags = map[string]string{
	"query.rag.url":       "rag-url",
	"query.rag.model":     "rag-model",
	"query.seq2seq.kind":  "seq2seq-kind",
	"query.seq2seq.url":   "seq2seq-url",
	"query.seq2seq.model": "seq2seq-model",
	"query.timeout":       "timeout",
}

func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().String("rag-url", "", "base URL of the RAG service (serves /generate and /version)")
	cmd.Flags().String("rag-model", "", "model name sent to the RAG service")
	cmd.Flags().String("seq2seq-kind", string(types.KindHTTP), "seq2seq adapter: http or openai")
	cmd.Flags().String("seq2seq-url", "", "seq2seq endpoint (http) or API base URL (openai)")
	cmd.Flags().String("seq2seq-model", "", "seq2seq model name")
	cmd.Flags().Duration("timeout", 0, "per-request backend timeout (default 60s)")
}

// backendConfig assembles the query configuration from flags, config file,
// environment, and .secrets/. API keys are only read from the config file or
// secrets, never from flags.
func backendConfig() types.QueryConfig {
	timeout := viper.GetDuration("query.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	http := types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent}

	seqKind := types.BackendKind(viper.GetString("query.seq2seq.kind"))
	seqKey := secrets.Seq2SeqToken
	if seqKind == types.KindOpenAI {
		seqKey = secrets.OpenAIKey
	}

	return types.QueryConfig{
		RAG: types.BackendConfig{
			HTTPConfig: http,
			Kind:       types.BackendKind(viper.GetString("query.rag.kind")),
			URL:        viper.GetString("query.rag.url"),
			Model:      viper.GetString("query.rag.model"),
			APIKey:     loadedSecrets.Get(secrets.RAGToken, viper.GetString("query.rag.api_key")),
		},
		Seq2Seq: types.BackendConfig{
			HTTPConfig: http,
			Kind:       seqKind,
			URL:        viper.GetString("query.seq2seq.url"),
			Model:      viper.GetString("query.seq2seq.model"),
			APIKey:     loadedSecrets.Get(seqKey, viper.GetString("query.seq2seq.api_key")),
		},
		Parallel: viper.GetBool("query.parallel"),
	}
}
