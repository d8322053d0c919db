// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"

	"github.com/pdiddy/rag-compare/internal/httputil"
	"github.com/pdiddy/rag-compare/internal/query"
	"github.com/pdiddy/rag-compare/pkg/types"
)

// text2textRequest is the inference-endpoint request body for
// text2text-generation pipelines.
type text2textRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters text2textParameters `json:"parameters"`
}

type text2textParameters struct {
	MaxLength int `json:"max_length"`
}

// HTTPSeq2Seq calls a text2text-generation inference endpoint that answers
// with a list of {"generated_text": ...} candidates.
type HTTPSeq2Seq struct {
	url    string
	client *httputil.Client
}

// NewHTTPSeq2Seq validates cfg and returns an HTTPSeq2Seq.
func NewHTTPSeq2Seq(cfg types.BackendConfig) (*HTTPSeq2Seq, error) {
	if err := validateURL(cfg.URL); err != nil {
		return nil, err
	}
	return &HTTPSeq2Seq{url: cfg.URL, client: newJSONClient(cfg)}, nil
}

// Generate posts prompt and returns the candidates in service order.
func (s *HTTPSeq2Seq) Generate(ctx context.Context, prompt string, maxLength int) ([]query.Candidate, error) {
	req := text2textRequest{
		Inputs:     prompt,
		Parameters: text2textParameters{MaxLength: maxLength},
	}
	var out []query.Candidate
	if err := s.client.PostJSON(ctx, s.url, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
