// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"errors"

	"github.com/pdiddy/rag-compare/pkg/types"
)

var (
	// ErrBackendUnavailable is reported when a backend handle was never
	// initialized.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNoCandidates is reported when the seq2seq backend returns no output.
	ErrNoCandidates = errors.New("seq2seq backend returned no candidates")
)

// RAGGenerator answers a query grounded in the supplied sources. The
// response is backend-specific; implementations return whatever structured
// answer their service produces.
type RAGGenerator interface {
	Generate(ctx context.Context, query string, sources []types.SourceRecord) (any, error)
}

// Candidate is one generated output from a seq2seq backend.
type Candidate struct {
	GeneratedText string `json:"generated_text"`
}

// Seq2SeqGenerator maps a prompt to candidate outputs without consulting
// external sources. maxLength bounds the generated length.
type Seq2SeqGenerator interface {
	Generate(ctx context.Context, prompt string, maxLength int) ([]Candidate, error)
}

// Versioner is implemented by backends that can report their version.
type Versioner interface {
	Version(ctx context.Context) (string, error)
}

// RAGFunc adapts a function to RAGGenerator.
type RAGFunc func(ctx context.Context, query string, sources []types.SourceRecord) (any, error)

// Generate calls f.
func (f RAGFunc) Generate(ctx context.Context, query string, sources []types.SourceRecord) (any, error) {
	return f(ctx, query, sources)
}

// Seq2SeqFunc adapts a function to Seq2SeqGenerator.
type Seq2SeqFunc func(ctx context.Context, prompt string, maxLength int) ([]Candidate, error)

// Generate calls f.
func (f Seq2SeqFunc) Generate(ctx context.Context, prompt string, maxLength int) ([]Candidate, error) {
	return f(ctx, prompt, maxLength)
}
