// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes matching runs to dir/export.yaml and returns its path.
func (s *Store) ExportYAML(ctx context.Context, opts ListOptions) (string, error) {
	list, err := s.exportRuns(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching runs to dir/export.json and returns its path.
func (s *Store) ExportJSON(ctx context.Context, opts ListOptions) (string, error) {
	list, err := s.exportRuns(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	if opts.Limit <= 0 {
		opts.Limit = exportLimit
	}
	list, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if list == nil {
		list = []Run{}
	}
	return list, nil
}
