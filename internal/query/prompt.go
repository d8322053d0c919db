// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"bytes"
	"text/template"
)

const (
	// SystemInstruction is the system-role line that opens every seq2seq prompt.
	SystemInstruction = "System: You are a helpful research assistant. Answer questions about scientific papers accurately and concisely."

	// TaskPrefix tells the seq2seq model to answer the question that follows.
	TaskPrefix = "Answer the following question."

	// MaxLength is the generation length budget for seq2seq calls.
	MaxLength = 256

	// probePrompt is the fixed prompt Check sends to the seq2seq backend.
	probePrompt = "translate English to French: The weather is nice today."
)

// seq2seqPromptTmpl lays the prompt out in a fixed order: system
// instruction, task prefix, labelled question, answer cue.
var seq2seqPromptTmpl = template.Must(template.New("seq2seq").Parse(`{{.System}}
{{.Task}}
Question: {{.Query}}
Answer:`))

// BuildPrompt renders the seq2seq prompt for query.
func BuildPrompt(query string) string {
	var buf bytes.Buffer
	// The template has only string fields; Execute cannot fail.
	_ = seq2seqPromptTmpl.Execute(&buf, struct {
		System, Task, Query string
	}{SystemInstruction, TaskPrefix, query})
	return buf.String()
}
