// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonl reads and writes newline-delimited JSON: one object per line,
// no header, no trailing metadata. Non-ASCII text is written literally.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/rag-compare/pkg/types"
)

// maxLineSize bounds a single line. Snapshot abstracts are long but well
// under this.
const maxLineSize = 16 << 20

// ErrEmptyText is returned when a SourceRecord line has no text.
var ErrEmptyText = errors.New("source record has empty text")

// ForEach calls fn for every non-blank line of r with its 1-based line
// number. It stops at the first error returned by fn.
func ForEach(r io.Reader, fn func(line int, data []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for sc.Scan() {
		n++
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}
		if err := fn(n, data); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading line %d: %w", n+1, err)
	}
	return nil
}

// Writer encodes one value per line.
type Writer struct {
	enc   *json.Encoder
	count int
}

// NewWriter returns a Writer that does not escape HTML or non-ASCII characters.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// Write encodes v followed by a newline.
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of values written.
func (w *Writer) Count() int { return w.count }

// WriteSources writes sources to path, one per line, replacing any existing file.
func WriteSources(path string, sources []types.SourceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	w := NewWriter(bw)
	for i, s := range sources {
		if err := w.Write(s); err != nil {
			f.Close()
			return fmt.Errorf("writing source %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

// ReadSources loads the SourceRecords in path in file order.
func ReadSources(path string) ([]types.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return DecodeSources(f)
}

// DecodeSources reads SourceRecords from r. A record without text fails
// with ErrEmptyText.
func DecodeSources(r io.Reader) ([]types.SourceRecord, error) {
	sources := []types.SourceRecord{}
	err := ForEach(r, func(line int, data []byte) error {
		var s types.SourceRecord
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if s.Text == "" {
			return fmt.Errorf("line %d: %w", line, ErrEmptyText)
		}
		if s.Metadata.Authors == nil {
			s.Metadata.Authors = []string{}
		}
		sources = append(sources, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}
