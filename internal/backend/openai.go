// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/rag-compare/internal/query"
	"github.com/pdiddy/rag-compare/pkg/types"
)

const defaultOpenAIModel = openai.GPT3Dot5Turbo

// OpenAISeq2Seq sends the prompt to an OpenAI-compatible chat completion
// endpoint and returns one candidate per choice.
type OpenAISeq2Seq struct {
	client *openai.Client
	model  string
}

// NewOpenAISeq2Seq returns an OpenAISeq2Seq. It needs an API key unless a
// custom URL points at a compatible server that does not check one.
func NewOpenAISeq2Seq(cfg types.BackendConfig) (*OpenAISeq2Seq, error) {
	if cfg.APIKey == "" && cfg.URL == "" {
		return nil, fmt.Errorf("openai backend needs an API key or a compatible server URL")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.URL != "" {
		if err := validateURL(cfg.URL); err != nil {
			return nil, err
		}
		oc.BaseURL = cfg.URL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAISeq2Seq{
		client: openai.NewClientWithConfig(oc),
		model:  model,
	}, nil
}

// Generate requests a completion bounded by maxLength tokens.
func (o *OpenAISeq2Seq) Generate(ctx context.Context, prompt string, maxLength int) ([]query.Candidate, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: maxLength,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat completion: %w", err)
	}

	candidates := make([]query.Candidate, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		candidates = append(candidates, query.Candidate{GeneratedText: c.Message.Content})
	}
	return candidates, nil
}
