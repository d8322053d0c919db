// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query runs one question against a retrieval-augmented backend and
// a seq2seq backend and wraps each outcome in a ResultEnvelope.
// Implements: dual-model query execution, prompt construction, model check.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/rag-compare/pkg/types"
)

// Observer receives the outcome of every backend call.
type Observer interface {
	Observe(backend string, elapsed time.Duration, err error)
}

// Executor issues a query to both backends. Either backend may be nil, in
// which case its envelope reports ErrBackendUnavailable.
type Executor struct {
	rag      RAGGenerator
	seq2seq  Seq2SeqGenerator
	log      *zap.Logger
	observer Observer
	parallel bool
	now      func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for backend failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver records each backend call on o.
func WithObserver(o Observer) Option {
	return func(e *Executor) { e.observer = o }
}

// WithParallel runs the two backend calls concurrently when on is true.
func WithParallel(on bool) Option {
	return func(e *Executor) { e.parallel = on }
}

// NewExecutor returns an Executor for the given backend handles.
func NewExecutor(rag RAGGenerator, seq2seq Seq2SeqGenerator, opts ...Option) *Executor {
	e := &Executor{
		rag:     rag,
		seq2seq: seq2seq,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// outcome is the fallible result of one backend call before it is turned
// into an envelope.
type outcome struct {
	response any
	elapsed  time.Duration
	err      error
}

func (o outcome) envelope() types.ResultEnvelope {
	if o.err != nil {
		return types.Failure(o.err)
	}
	return types.Success(o.response, o.elapsed)
}

// Run sends query to both backends and returns one envelope per backend,
// keyed by types.BackendRAG and types.BackendSeq2Seq. Backend failures never
// escape Run; a failure in one backend does not affect the other.
func (e *Executor) Run(ctx context.Context, query string, sources []types.SourceRecord) types.QueryResults {
	var ragEnv, seqEnv types.ResultEnvelope

	if e.parallel {
		var g errgroup.Group
		g.Go(func() error {
			ragEnv = e.QueryRAG(ctx, query, sources)
			return nil
		})
		g.Go(func() error {
			seqEnv = e.QuerySeq2Seq(ctx, query)
			return nil
		})
		_ = g.Wait()
	} else {
		ragEnv = e.QueryRAG(ctx, query, sources)
		seqEnv = e.QuerySeq2Seq(ctx, query)
	}

	return types.QueryResults{
		types.BackendRAG:     ragEnv,
		types.BackendSeq2Seq: seqEnv,
	}
}

// QueryRAG invokes the retrieval-augmented backend with query and sources.
// An empty source list is passed through unchanged.
func (e *Executor) QueryRAG(ctx context.Context, query string, sources []types.SourceRecord) types.ResultEnvelope {
	if e.rag == nil {
		return e.finish(types.BackendRAG, outcome{err: ErrBackendUnavailable})
	}

	o := e.timed(func() (any, error) {
		return e.rag.Generate(ctx, query, sources)
	})
	return e.finish(types.BackendRAG, o)
}

// QuerySeq2Seq builds the fixed prompt for query, invokes the seq2seq
// backend, and returns the first candidate's trimmed text.
func (e *Executor) QuerySeq2Seq(ctx context.Context, query string) types.ResultEnvelope {
	if e.seq2seq == nil {
		return e.finish(types.BackendSeq2Seq, outcome{err: ErrBackendUnavailable})
	}

	prompt := BuildPrompt(query)

	var candidates []Candidate
	o := e.timed(func() (any, error) {
		var err error
		candidates, err = e.seq2seq.Generate(ctx, prompt, MaxLength)
		return nil, err
	})
	if o.err == nil {
		if len(candidates) == 0 {
			o.err = ErrNoCandidates
		} else {
			o.response = strings.TrimSpace(candidates[0].GeneratedText)
		}
	}
	return e.finish(types.BackendSeq2Seq, o)
}

// timed measures only the call itself. A panicking backend is reported as
// a failed call.
func (e *Executor) timed(call func() (any, error)) (o outcome) {
	start := e.now()
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("backend panicked: %v", r)}
		}
	}()
	resp, err := call()
	o.elapsed = e.now().Sub(start)
	if err != nil {
		o.err = err
		return o
	}
	o.response = resp
	return o
}

// finish logs and observes o, then converts it to an envelope.
func (e *Executor) finish(backend string, o outcome) types.ResultEnvelope {
	if e.observer != nil {
		e.observer.Observe(backend, o.elapsed, o.err)
	}
	if o.err != nil {
		e.log.Error("backend query failed",
			zap.String("backend", backend),
			zap.Error(o.err),
		)
	} else {
		e.log.Debug("backend query succeeded",
			zap.String("backend", backend),
			zap.Duration("elapsed", o.elapsed),
		)
	}
	return o.envelope()
}
