// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Backend names used as keys in QueryResults.
const (
	BackendRAG     = "rag"
	BackendSeq2Seq = "seq2seq"
)

// ResultEnvelope is the uniform success/failure wrapper for one backend call.
// On success Response and Time are set and Error is empty. On failure Error
// holds the failure description and Response and Time are nil, which
// serializes as explicit nulls.
type ResultEnvelope struct {
	// Response is the backend payload: generated text for the seq2seq backend,
	// a structured answer for the retrieval-augmented backend.
	Response any `json:"response" yaml:"response"`

	// Time is the wall-clock duration of the backend call in seconds.
	Time *float64 `json:"time" yaml:"time"`

	// Error is the failure description. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Success builds a successful envelope.
func Success(response any, elapsed time.Duration) ResultEnvelope {
	secs := elapsed.Seconds()
	return ResultEnvelope{Response: response, Time: &secs}
}

// Failure builds a failed envelope from err.
func Failure(err error) ResultEnvelope {
	return ResultEnvelope{Error: err.Error()}
}

// OK reports whether the envelope represents a successful call.
func (e ResultEnvelope) OK() bool {
	return e.Error == ""
}

// QueryResults maps a backend name to its envelope for one query.
type QueryResults map[string]ResultEnvelope
