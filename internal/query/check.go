// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Check reports on w whether each backend is reachable. For the RAG backend
// it prints the version when the backend exposes one; for the seq2seq
// backend it runs a fixed translation probe. Failures are logged, not
// returned.
func Check(ctx context.Context, rag RAGGenerator, seq2seq Seq2SeqGenerator, w io.Writer, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	if rag == nil {
		fmt.Fprintln(w, "RAG backend is not available.")
	} else if v, ok := rag.(Versioner); ok {
		version, err := v.Version(ctx)
		if err != nil {
			log.Error("reading RAG version", zap.Error(err))
		} else {
			fmt.Fprintf(w, "RAG version: %s\n", version)
		}
	} else {
		fmt.Fprintln(w, "RAG backend is available.")
	}

	if seq2seq == nil {
		fmt.Fprintln(w, "Seq2seq backend is not available.")
		return
	}

	out, err := seq2seq.Generate(ctx, probePrompt, MaxLength)
	if err != nil {
		log.Error("running seq2seq probe", zap.Error(err))
		return
	}
	text := ""
	if len(out) > 0 {
		text = out[0].GeneratedText
	}
	fmt.Fprintf(w, "Seq2seq test: %s\n", text)
}
