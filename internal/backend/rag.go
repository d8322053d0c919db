// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"strings"

	"github.com/pdiddy/rag-compare/internal/httputil"
	"github.com/pdiddy/rag-compare/pkg/types"
)

// RAGAnswer is the structured response of the RAG service: the generated
// answer plus the source passages it cites.
type RAGAnswer struct {
	Answer    string     `json:"answer" yaml:"answer"`
	Reasoning string     `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Citations []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`
	Model     string     `json:"model,omitempty" yaml:"model,omitempty"`
}

// Citation links part of an answer to one of the supplied sources.
type Citation struct {
	// Source is the zero-based index into the request's sources.
	Source int `json:"source" yaml:"source"`

	// Text is the cited passage.
	Text string `json:"text" yaml:"text"`
}

type ragRequest struct {
	Query   string               `json:"query"`
	Sources []types.SourceRecord `json:"sources"`
	Model   string               `json:"model,omitempty"`
}

// HTTPRAG calls a RAG-with-citations service that exposes POST {URL}/generate
// and GET {URL}/version.
type HTTPRAG struct {
	baseURL string
	model   string
	client  *httputil.Client
}

// NewHTTPRAG validates cfg and returns an HTTPRAG.
func NewHTTPRAG(cfg types.BackendConfig) (*HTTPRAG, error) {
	if err := validateURL(cfg.URL); err != nil {
		return nil, err
	}
	return &HTTPRAG{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		model:   cfg.Model,
		client:  newJSONClient(cfg),
	}, nil
}

// Generate sends query and sources and returns the decoded *RAGAnswer.
func (r *HTTPRAG) Generate(ctx context.Context, query string, sources []types.SourceRecord) (any, error) {
	if sources == nil {
		sources = []types.SourceRecord{}
	}
	var answer RAGAnswer
	req := ragRequest{Query: query, Sources: sources, Model: r.model}
	if err := r.client.PostJSON(ctx, r.baseURL+"/generate", req, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

// Version reports the service version.
func (r *HTTPRAG) Version(ctx context.Context) (string, error) {
	var v struct {
		Version string `json:"version"`
	}
	if err := r.client.GetJSON(ctx, r.baseURL+"/version", &v); err != nil {
		return "", err
	}
	return v.Version, nil
}
