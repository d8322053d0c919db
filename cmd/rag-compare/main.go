// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rag-compare CLI.
// Implements: record transformation, dual-model query, model check, dataset
// lookup, and the run log (CLI surface).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/rag-compare/internal/logging"
	"github.com/pdiddy/rag-compare/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger is built from --log-level and --log-format before any subcommand runs.
	logger = zap.NewNop()
)

// rootCmd is the base command for the rag-compare CLI.
var rootCmd = &cobra.Command{
	Use:   "rag-compare",
	Short: "Compare a citation-aware RAG model with a seq2seq baseline",
	Long: `rag-compare prepares arXiv paper metadata as retrieval sources and poses
the same question to two generation backends: a retrieval-augmented model
that answers from the supplied sources, and a general seq2seq model that
answers from the question alone. Each backend's answer is reported with its
wall-clock time, or with the error that stopped it.

Stages are subcommands: dataset locates the raw snapshot, transform turns it
into sources, query runs the comparison, check probes both backends, and
runs lists or exports recorded comparisons.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString("log.level"), viper.GetString("log.format"), os.Stderr)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", s.Keys()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rag-compare.yaml or ~/.config/rag-compare/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rag-compare")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rag-compare"))
		}
	}

	viper.SetEnvPrefix("RAG_COMPARE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds each viper key to the named flag of cmd. Several
// subcommands share keys such as store.dir, so binding happens when the
// command runs rather than at init.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
