// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform reshapes raw paper records into SourceRecords.
// Implements: record transformation (single record, batch, file subset).
package transform

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/rag-compare/internal/jsonl"
	"github.com/pdiddy/rag-compare/pkg/types"
)

// Transform converts raw into a SourceRecord. The second return value is
// false when the trimmed abstract is empty and the record must be skipped.
func Transform(raw types.RawRecord) (types.SourceRecord, bool) {
	text := strings.TrimSpace(raw.Abstract)
	if text == "" {
		return types.SourceRecord{}, false
	}

	authors := make([]string, len(raw.Authors))
	copy(authors, raw.Authors)

	return types.SourceRecord{
		Text: text,
		Metadata: types.SourceMetadata{
			Authors:    authors,
			Title:      raw.Title,
			UpdateDate: raw.UpdateDate,
		},
	}, true
}

// TransformAll returns the SourceRecords for every non-skipped record in
// input order.
func TransformAll(raws []types.RawRecord) []types.SourceRecord {
	sources := make([]types.SourceRecord, 0, len(raws))
	for _, raw := range raws {
		if s, ok := Transform(raw); ok {
			sources = append(sources, s)
		}
	}
	return sources
}

// Summary holds counts from a file transformation run.
type Summary struct {
	Written int
	Skipped int
	Failed  int
}

// Total returns the number of records read.
func (s Summary) Total() int {
	return s.Written + s.Skipped + s.Failed
}

// HasFailures reports whether any line could not be decoded.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// errLimitReached stops the line scan once enough sources are written.
var errLimitReached = errors.New("limit reached")

// Stream reads RawRecords from r and writes SourceRecords to out, stopping
// after limit sources are written (0 means no limit). Undecodable lines are
// reported on w and counted as failed; skipped records are counted silently.
func Stream(ctx context.Context, r io.Reader, out io.Writer, cfg types.TransformConfig, w io.Writer) (Summary, error) {
	var summary Summary
	enc := jsonl.NewWriter(out)

	err := jsonl.ForEach(r, func(line int, data []byte) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if cfg.Limit > 0 && summary.Written >= cfg.Limit {
			return errLimitReached
		}

		var raw types.RawRecord
		if err := json.Unmarshal(data, &raw); err != nil {
			fmt.Fprintf(w, "failed  line %d: %v\n", line, err)
			summary.Failed++
			return nil
		}

		source, ok := Transform(raw)
		if !ok {
			summary.Skipped++
			return nil
		}

		if err := enc.Write(source); err != nil {
			return fmt.Errorf("writing source from line %d: %w", line, err)
		}
		summary.Written++
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return summary, err
	}
	return summary, nil
}

// File transforms the RawRecords in inputPath into a SourceRecord file at
// outputPath and prints a one-line summary on w.
func File(ctx context.Context, inputPath, outputPath string, cfg types.TransformConfig, w io.Writer) (Summary, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("opening input %s: %w", inputPath, err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("creating output %s: %w", outputPath, err)
	}

	bw := bufio.NewWriter(out)
	summary, err := Stream(ctx, in, bw, cfg, w)
	if err != nil {
		out.Close()
		return summary, err
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return summary, fmt.Errorf("flushing %s: %w", outputPath, err)
	}
	if err := out.Close(); err != nil {
		return summary, fmt.Errorf("closing %s: %w", outputPath, err)
	}

	fmt.Fprintf(w, "Saved %d sources to %s (skipped: %d, failed: %d)\n",
		summary.Written, outputPath, summary.Skipped, summary.Failed)
	return summary, nil
}
