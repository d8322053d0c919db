// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/rag-compare/pkg/types"
)

// --- stand-in backends ---

type stubRAG struct {
	mu      sync.Mutex
	resp    any
	err     error
	calls   int
	sources []types.SourceRecord
	query   string
}

func (s *stubRAG) Generate(_ context.Context, query string, sources []types.SourceRecord) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.query = query
	s.sources = sources
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubSeq2Seq struct {
	mu        sync.Mutex
	out       []Candidate
	err       error
	calls     int
	prompt    string
	maxLength int
}

func (s *stubSeq2Seq) Generate(_ context.Context, prompt string, maxLength int) ([]Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompt = prompt
	s.maxLength = maxLength
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]error
}

func (r *recordingObserver) Observe(backend string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = map[string]error{}
	}
	r.calls[backend] = err
}

// stepClock advances by step on every call, so each timed call measures
// exactly one step.
func stepClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(step)
		return t
	}
}

func sources() []types.SourceRecord {
	return []types.SourceRecord{
		{Text: "Attention is all you need.", Metadata: types.SourceMetadata{Authors: []string{"Vaswani"}, Title: "Transformers"}},
		{Text: "Recurrent networks struggle with long contexts.", Metadata: types.SourceMetadata{Authors: []string{}}},
	}
}

func newTestExecutor(rag RAGGenerator, seq Seq2SeqGenerator, opts ...Option) (*Executor, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]Option{WithLogger(zap.New(core))}, opts...)
	e := NewExecutor(rag, seq, opts...)
	e.now = stepClock(1500 * time.Millisecond)
	return e, logs
}

// --- BuildPrompt ---

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("What is attention?")

	want := SystemInstruction + "\n" + TaskPrefix + "\nQuestion: What is attention?\nAnswer:"
	assert.Equal(t, want, got)

	sys := strings.Index(got, SystemInstruction)
	task := strings.Index(got, TaskPrefix)
	q := strings.Index(got, "Question: ")
	a := strings.LastIndex(got, "Answer:")
	assert.True(t, sys < task && task < q && q < a, "prompt parts out of order: %q", got)
}

func TestBuildPromptDoesNotEscape(t *testing.T) {
	got := BuildPrompt(`Is a<b & "c"?`)
	assert.Contains(t, got, `Question: Is a<b & "c"?`)
}

// --- Run ---

func TestRunBothSucceed(t *testing.T) {
	rag := &stubRAG{resp: map[string]any{"answer": "Attention."}}
	seq := &stubSeq2Seq{out: []Candidate{{GeneratedText: "  Self-attention.  "}, {GeneratedText: "ignored"}}}
	e, logs := newTestExecutor(rag, seq)

	results := e.Run(context.Background(), "What is attention?", sources())
	require.Len(t, results, 2)

	ragEnv := results[types.BackendRAG]
	assert.True(t, ragEnv.OK())
	assert.Equal(t, map[string]any{"answer": "Attention."}, ragEnv.Response)
	require.NotNil(t, ragEnv.Time)
	assert.InDelta(t, 1.5, *ragEnv.Time, 1e-9)

	seqEnv := results[types.BackendSeq2Seq]
	assert.True(t, seqEnv.OK())
	assert.Equal(t, "Self-attention.", seqEnv.Response)
	require.NotNil(t, seqEnv.Time)
	assert.InDelta(t, 1.5, *seqEnv.Time, 1e-9)

	assert.Equal(t, "What is attention?", rag.query)
	assert.Equal(t, sources(), rag.sources)
	assert.Equal(t, BuildPrompt("What is attention?"), seq.prompt)
	assert.Equal(t, MaxLength, seq.maxLength)

	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRunFailureIsolation(t *testing.T) {
	tests := []struct {
		name       string
		ragErr     error
		seqErr     error
		wantRAGOK  bool
		wantSeqOK  bool
		wantErrors int
	}{
		{name: "rag fails", ragErr: errors.New("model exploded"), wantSeqOK: true, wantErrors: 1},
		{name: "seq2seq fails", seqErr: errors.New("CUDA out of memory"), wantRAGOK: true, wantErrors: 1},
		{name: "both fail", ragErr: errors.New("a"), seqErr: errors.New("b"), wantErrors: 2},
	}

	for _, parallel := range []bool{false, true} {
		for _, tt := range tests {
			name := tt.name
			if parallel {
				name += " parallel"
			}
			t.Run(name, func(t *testing.T) {
				rag := &stubRAG{resp: "rag answer", err: tt.ragErr}
				seq := &stubSeq2Seq{out: []Candidate{{GeneratedText: "seq answer"}}, err: tt.seqErr}
				e, logs := newTestExecutor(rag, seq, WithParallel(parallel))

				results := e.Run(context.Background(), "q", sources())

				assert.Equal(t, 1, rag.calls)
				assert.Equal(t, 1, seq.calls)

				assertEnvelope(t, results[types.BackendRAG], tt.wantRAGOK, "rag answer", tt.ragErr)
				assertEnvelope(t, results[types.BackendSeq2Seq], tt.wantSeqOK, "seq answer", tt.seqErr)

				failures := logs.FilterMessage("backend query failed")
				assert.Equal(t, tt.wantErrors, failures.Len())
				for _, entry := range failures.All() {
					fields := entry.ContextMap()
					assert.Contains(t, []any{types.BackendRAG, types.BackendSeq2Seq}, fields["backend"])
					assert.NotEmpty(t, fields["error"])
				}
			})
		}
	}
}

func assertEnvelope(t *testing.T, env types.ResultEnvelope, wantOK bool, wantResp any, wantErr error) {
	t.Helper()
	if wantOK {
		assert.True(t, env.OK())
		assert.Empty(t, env.Error)
		assert.Equal(t, wantResp, env.Response)
		assert.NotNil(t, env.Time)
		return
	}
	assert.False(t, env.OK())
	assert.Equal(t, wantErr.Error(), env.Error)
	assert.Nil(t, env.Response)
	assert.Nil(t, env.Time)
}

func TestRunEmptySourcesStillInvokesRAG(t *testing.T) {
	rag := &stubRAG{resp: "no sources needed"}
	e, _ := newTestExecutor(rag, &stubSeq2Seq{out: []Candidate{{GeneratedText: "x"}}})

	results := e.Run(context.Background(), "q", []types.SourceRecord{})

	assert.Equal(t, 1, rag.calls)
	assert.NotNil(t, rag.sources)
	assert.Empty(t, rag.sources)
	assert.Equal(t, "no sources needed", results[types.BackendRAG].Response)
}

func TestRunEmptySourcesRAGError(t *testing.T) {
	rag := &stubRAG{err: errors.New("no sources supplied")}
	e, _ := newTestExecutor(rag, &stubSeq2Seq{out: []Candidate{{GeneratedText: "x"}}})

	results := e.Run(context.Background(), "q", nil)

	assert.Equal(t, 1, rag.calls)
	assert.Equal(t, "no sources supplied", results[types.BackendRAG].Error)
	assert.True(t, results[types.BackendSeq2Seq].OK())
}

func TestRunUnavailableBackends(t *testing.T) {
	seq := &stubSeq2Seq{out: []Candidate{{GeneratedText: "only me"}}}
	e, logs := newTestExecutor(nil, seq)

	results := e.Run(context.Background(), "q", sources())

	ragEnv := results[types.BackendRAG]
	assert.Equal(t, ErrBackendUnavailable.Error(), ragEnv.Error)
	assert.Nil(t, ragEnv.Time)
	assert.Equal(t, "only me", results[types.BackendSeq2Seq].Response)
	assert.Equal(t, 1, logs.FilterMessage("backend query failed").Len())

	e, _ = newTestExecutor(nil, nil)
	results = e.Run(context.Background(), "q", sources())
	assert.Equal(t, ErrBackendUnavailable.Error(), results[types.BackendRAG].Error)
	assert.Equal(t, ErrBackendUnavailable.Error(), results[types.BackendSeq2Seq].Error)
}

func TestQuerySeq2SeqNoCandidates(t *testing.T) {
	e, _ := newTestExecutor(nil, &stubSeq2Seq{out: nil})

	env := e.QuerySeq2Seq(context.Background(), "q")
	assert.Equal(t, ErrNoCandidates.Error(), env.Error)
	assert.Nil(t, env.Response)
	assert.Nil(t, env.Time)
}

func TestQueryRAGPanicBecomesFailure(t *testing.T) {
	rag := RAGFunc(func(context.Context, string, []types.SourceRecord) (any, error) {
		panic("index out of range")
	})
	e, _ := newTestExecutor(rag, nil)

	env := e.QueryRAG(context.Background(), "q", nil)
	assert.Contains(t, env.Error, "backend panicked: index out of range")
	assert.Nil(t, env.Time)
}

func TestTimingExcludesPostProcessing(t *testing.T) {
	// Each clock read advances one step; a call bracketed by exactly two
	// reads measures one step.
	seq := Seq2SeqFunc(func(context.Context, string, int) ([]Candidate, error) {
		return []Candidate{{GeneratedText: " a "}}, nil
	})
	e, _ := newTestExecutor(nil, seq)
	e.now = stepClock(250 * time.Millisecond)

	env := e.QuerySeq2Seq(context.Background(), "q")
	require.NotNil(t, env.Time)
	assert.InDelta(t, 0.25, *env.Time, 1e-9)
}

func TestRunObserver(t *testing.T) {
	obs := &recordingObserver{}
	boom := errors.New("boom")
	e, _ := newTestExecutor(&stubRAG{err: boom}, &stubSeq2Seq{out: []Candidate{{GeneratedText: "ok"}}}, WithObserver(obs))

	e.Run(context.Background(), "q", sources())

	require.Len(t, obs.calls, 2)
	assert.Equal(t, boom, obs.calls[types.BackendRAG])
	assert.NoError(t, obs.calls[types.BackendSeq2Seq])
}

func TestEnvelopeJSON(t *testing.T) {
	rag := &stubRAG{err: errors.New("down")}
	seq := &stubSeq2Seq{out: []Candidate{{GeneratedText: "fine"}}}
	e, _ := newTestExecutor(rag, seq)

	data, err := json.Marshal(e.Run(context.Background(), "q", nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"rag": {"response": null, "time": null, "error": "down"},
		"seq2seq": {"response": "fine", "time": 1.5}
	}`, string(data))
}
