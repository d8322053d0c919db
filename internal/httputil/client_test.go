// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_RoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "rag-compare/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		json.NewEncoder(w).Encode(map[string]string{"echo": in["q"]})
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), UserAgent: "rag-compare/test", Token: "tok"}
	var out map[string]string
	err := c.PostJSON(context.Background(), ts.URL, map[string]string{"q": "hello"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", out["echo"])
}

func TestGetJSON_NoOptionalHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"version":"1.2"}`))
	}))
	defer ts.Close()

	var out struct{ Version string }
	require.NoError(t, (&Client{}).GetJSON(context.Background(), ts.URL, &out))
	assert.Equal(t, "1.2", out.Version)
}

func TestPostJSON_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("model loading\n"))
	}))
	defer ts.Close()

	err := (&Client{HTTP: ts.Client()}).PostJSON(context.Background(), ts.URL, struct{}{}, nil)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "model loading", se.Body)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestPostJSON_ErrorBodyTruncated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer ts.Close()

	err := (&Client{HTTP: ts.Client()}).PostJSON(context.Background(), ts.URL, struct{}{}, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Len(t, se.Body, maxErrorBody)
}

func TestPostJSON_BadResponseBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	var out map[string]any
	err := (&Client{HTTP: ts.Client()}).PostJSON(context.Background(), ts.URL, struct{}{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestPostJSON_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := (&Client{HTTP: ts.Client()}).PostJSON(ctx, ts.URL, struct{}{}, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
