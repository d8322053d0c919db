// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	r := NewRecorder()

	r.Observe("rag", 2*time.Second, nil)
	r.Observe("rag", time.Second, nil)
	r.Observe("seq2seq", 0, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.CallsTotal.WithLabelValues("rag", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.CallsTotal.WithLabelValues("seq2seq", statusFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.CallsTotal.WithLabelValues("seq2seq", statusSuccess)))

	// Only the rag histogram series exists; failures record no duration.
	assert.Equal(t, 1, testutil.CollectAndCount(r.CallDuration))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.Observe("rag", time.Second, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.CallsTotal.WithLabelValues("rag", statusSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CallsTotal.WithLabelValues("rag", statusSuccess)))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe("seq2seq", 300*time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "rag_compare.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rag_compare_backend_calls_total{backend="seq2seq",status="success"} 1`)
	assert.Contains(t, string(data), `rag_compare_backend_call_seconds_count{backend="seq2seq"} 1`)
}
