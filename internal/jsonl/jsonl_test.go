// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jsonl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rag-compare/pkg/types"
)

func sampleSources() []types.SourceRecord {
	return []types.SourceRecord{
		{
			Text: "A study of X.",
			Metadata: types.SourceMetadata{
				Authors:    []string{"A"},
				Title:      "T",
				UpdateDate: "2020-01-01",
			},
		},
		{
			Text: "Étude des équations de Schrödinger <non-linéaires> & co.",
			Metadata: types.SourceMetadata{
				Authors:    []string{"Müller, K.", "Øberg, L."},
				Title:      "Über Wellen",
				UpdateDate: "2021-06-30",
			},
		},
		{
			Text:     "No metadata at all.",
			Metadata: types.SourceMetadata{Authors: []string{}},
		},
	}
}

func TestWriteReadSourcesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.jsonl")
	want := sampleSources()

	require.NoError(t, WriteSources(path, want))

	got, err := ReadSources(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteSourcesPreservesNonASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.jsonl")
	require.NoError(t, WriteSources(path, sampleSources()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Schrödinger")
	assert.Contains(t, content, "<non-linéaires> & co.")
	assert.NotContains(t, content, `\u00`)

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, `{"text":"A study of X.","metadata":{"authors":["A"],"title":"T","update_date":"2020-01-01"}}`, lines[0])
}

func TestDecodeSources(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		errIs   error
		errMsg  string
	}{
		{
			name:    "skips blank lines",
			input:   "{\"text\":\"a\",\"metadata\":{}}\n\n   \n{\"text\":\"b\",\"metadata\":{}}\n",
			wantLen: 2,
		},
		{
			name:    "empty input",
			input:   "",
			wantLen: 0,
		},
		{
			name:   "empty text rejected",
			input:  "{\"text\":\"a\",\"metadata\":{}}\n{\"text\":\"\",\"metadata\":{}}\n",
			errIs:  ErrEmptyText,
			errMsg: "line 2",
		},
		{
			name:   "malformed line reports line number",
			input:  "{\"text\":\"a\"}\n{not json\n",
			errMsg: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSources(strings.NewReader(tt.input))
			if tt.errMsg != "" || tt.errIs != nil {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			for _, s := range got {
				assert.NotNil(t, s.Metadata.Authors)
			}
		})
	}
}

func TestWriterCount(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	require.NoError(t, w.Write(map[string]int{"a": 1}))
	require.NoError(t, w.Write(map[string]int{"b": 2}))
	assert.Equal(t, 2, w.Count())
	assert.Equal(t, "{\"a\":1}\n{\"b\":2}\n", sb.String())
}

func TestReadSourcesMissingFile(t *testing.T) {
	_, err := ReadSources(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
