// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend adapts generation services to the query capability
// interfaces. Implements: HTTP RAG service, HTTP text2text service,
// OpenAI-compatible seq2seq service, and handle construction.
package backend

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/pdiddy/rag-compare/internal/httputil"
	"github.com/pdiddy/rag-compare/internal/query"
	"github.com/pdiddy/rag-compare/pkg/types"
)

// Open builds both backend handles from cfg. A backend whose configuration
// is unusable is logged and returned as nil so the executor reports it as
// unavailable; Open itself never fails.
func Open(cfg types.QueryConfig, log *zap.Logger) (query.RAGGenerator, query.Seq2SeqGenerator) {
	if log == nil {
		log = zap.NewNop()
	}

	var rag query.RAGGenerator
	if r, err := NewRAG(cfg.RAG); err != nil {
		log.Error("failed to initialize RAG backend", zap.String("url", cfg.RAG.URL), zap.Error(err))
	} else {
		rag = r
		log.Info("initialized RAG backend", zap.String("kind", string(kindOrDefault(cfg.RAG.Kind))), zap.String("url", cfg.RAG.URL))
	}

	var seq query.Seq2SeqGenerator
	if s, err := NewSeq2Seq(cfg.Seq2Seq); err != nil {
		log.Error("failed to initialize seq2seq backend", zap.String("kind", string(cfg.Seq2Seq.Kind)), zap.Error(err))
	} else {
		seq = s
		log.Info("initialized seq2seq backend", zap.String("kind", string(kindOrDefault(cfg.Seq2Seq.Kind))), zap.String("model", cfg.Seq2Seq.Model))
	}

	return rag, seq
}

// NewRAG returns the RAG adapter selected by cfg.Kind.
func NewRAG(cfg types.BackendConfig) (query.RAGGenerator, error) {
	switch kindOrDefault(cfg.Kind) {
	case types.KindHTTP:
		r, err := NewHTTPRAG(cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported RAG backend kind %q", cfg.Kind)
	}
}

// NewSeq2Seq returns the seq2seq adapter selected by cfg.Kind.
func NewSeq2Seq(cfg types.BackendConfig) (query.Seq2SeqGenerator, error) {
	switch kindOrDefault(cfg.Kind) {
	case types.KindHTTP:
		s, err := NewHTTPSeq2Seq(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.KindOpenAI:
		s, err := NewOpenAISeq2Seq(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported seq2seq backend kind %q", cfg.Kind)
	}
}

func kindOrDefault(k types.BackendKind) types.BackendKind {
	if k == "" {
		return types.KindHTTP
	}
	return k
}

// validateURL requires an absolute http(s) URL.
func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("no URL configured")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q: want http(s)://host/...", raw)
	}
	return nil
}

func newJSONClient(cfg types.BackendConfig) *httputil.Client {
	return &httputil.Client{
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
		Token:     cfg.APIKey,
	}
}
