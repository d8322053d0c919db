// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset locates a downloaded dataset snapshot on disk.
// Implements: dataset acquisition interface (consumer side), snapshot lookup,
// and record sampling for exploration. Downloading is left to the external
// dataset client; this package only reads its cache.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/rag-compare/internal/jsonl"
	"github.com/pdiddy/rag-compare/pkg/types"
)

const (
	// DefaultID is the arXiv metadata dataset.
	DefaultID = "Cornell-University/arxiv"

	// DefaultSnapshotFile is the metadata file inside the arXiv dataset.
	DefaultSnapshotFile = "arxiv-metadata-oai-snapshot.json"

	datasetsDir = "datasets"
	versionsDir = "versions"
)

// ErrSnapshotMissing is returned when the dataset directory lacks the
// expected snapshot file. Callers treat it as fatal.
var ErrSnapshotMissing = errors.New("dataset snapshot file not found")

// Acquirer resolves a dataset identifier to a local directory holding its files.
type Acquirer interface {
	Acquire(ctx context.Context, id string) (string, error)
}

// CacheAcquirer resolves identifiers against a downloader cache laid out as
// Root/datasets/<owner>/<name>[/versions/<N>].
type CacheAcquirer struct {
	Root string
}

// Acquire returns the newest version directory for id, or the dataset
// directory itself when it is not versioned.
func (c CacheAcquirer) Acquire(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	owner, name, ok := strings.Cut(id, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid dataset identifier %q: want owner/name", id)
	}

	base := filepath.Join(c.Root, datasetsDir, owner, name)
	info, err := os.Stat(base)
	if err != nil {
		return "", fmt.Errorf("dataset %s not in cache %s: %w", id, c.Root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("dataset path %s is not a directory", base)
	}

	versions, err := os.ReadDir(filepath.Join(base, versionsDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, nil
		}
		return "", fmt.Errorf("reading versions of %s: %w", id, err)
	}

	latest := -1
	for _, v := range versions {
		if !v.IsDir() {
			continue
		}
		n, err := strconv.Atoi(v.Name())
		if err != nil {
			continue
		}
		if n > latest {
			latest = n
		}
	}
	if latest < 0 {
		return base, nil
	}
	return filepath.Join(base, versionsDir, strconv.Itoa(latest)), nil
}

// ListFiles returns every regular file under dir in lexical order.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Snapshot returns the path of file inside dir, or ErrSnapshotMissing.
func Snapshot(dir, file string) (string, error) {
	if file == "" {
		file = DefaultSnapshotFile
	}
	path := filepath.Join(dir, file)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSnapshotMissing, path)
		}
		return "", fmt.Errorf("checking snapshot %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrSnapshotMissing, path)
	}
	return path, nil
}

// Locate acquires cfg.ID and returns the snapshot path within it.
func Locate(ctx context.Context, a Acquirer, cfg types.DatasetConfig) (string, error) {
	id := cfg.ID
	if id == "" {
		id = DefaultID
	}
	dir, err := a.Acquire(ctx, id)
	if err != nil {
		return "", err
	}
	return Snapshot(dir, cfg.SnapshotFile)
}

// errSampleDone ends a sample scan early.
var errSampleDone = errors.New("sample complete")

// Sample decodes the first n records of the snapshot at path.
func Sample(path string, n int) ([]types.RawRecord, error) {
	if n <= 0 {
		return []types.RawRecord{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	records := make([]types.RawRecord, 0, n)
	err = jsonl.ForEach(f, func(line int, data []byte) error {
		if len(records) >= n {
			return errSampleDone
		}
		var r types.RawRecord
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, r)
		return nil
	})
	if err != nil && !errors.Is(err, errSampleDone) {
		return nil, err
	}
	return records, nil
}
