// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the rag-compare pipeline.
// Implements: record transformation (RawRecord, SourceRecord);
//
//	dual-model query (ResultEnvelope, QueryResults);
//	stage configuration (config.go).
package types

import (
	"encoding/json"
	"fmt"
)

// RawRecord is one line of the arXiv metadata snapshot. Only the fields the
// transformer reads are decoded; everything else in the line is ignored.
// Missing fields decode to their zero values.
type RawRecord struct {
	// ID is the arXiv identifier (e.g. "0704.0001").
	ID string `json:"id,omitempty"`

	// Abstract is the paper abstract. It is the sole basis for inclusion.
	Abstract string `json:"abstract"`

	// Authors lists the paper authors.
	Authors AuthorList `json:"authors"`

	// Title is the paper title.
	Title string `json:"title"`

	// UpdateDate is the last update date as a date-like string (e.g. "2008-11-13").
	UpdateDate string `json:"update_date"`

	// Categories is the space-separated arXiv category list.
	Categories string `json:"categories,omitempty"`
}

// AuthorList is a sequence of author names. The arXiv snapshot stores
// authors as one comma-separated string, other exports use an array, so
// decoding accepts both. A string becomes a single-element list and is kept
// verbatim.
type AuthorList []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *AuthorList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*a = nil
			return nil
		}
		*a = AuthorList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("authors: expected string or array of strings: %w", err)
	}
	*a = list
	return nil
}

// SourceMetadata is the bibliographic part of a SourceRecord.
type SourceMetadata struct {
	Authors    []string `json:"authors" yaml:"authors"`
	Title      string   `json:"title" yaml:"title"`
	UpdateDate string   `json:"update_date" yaml:"update_date"`
}

// SourceRecord is the normalized unit handed to the retrieval-augmented
// backend. Text is never empty.
type SourceRecord struct {
	Text     string         `json:"text" yaml:"text"`
	Metadata SourceMetadata `json:"metadata" yaml:"metadata"`
}
