// Package ingest finds invoice documents on disk: a one-off directory walk
// and a watched inbox.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/pipeline"
)

// Handler processes one document.
type Handler func(ctx context.Context, path string) (pipeline.Result, error)

type FileResult struct {
	Path     string
	Status   constants.DocumentStatus
	Invoices int
	Items    int
	Err      string
}

type DirStats struct {
	Scanned       uint32
	Matched       uint32
	Succeeded     uint32
	UnknownVendor uint32
	Failed        uint32
}

// Add counts one processed document and returns its summary.
func (s *DirStats) Add(path string, res pipeline.Result, err error) FileResult {
	fr := FileResult{Path: path, Status: res.Status, Invoices: len(res.Invoices), Items: len(res.Items)}
	switch {
	case err == nil:
		s.Succeeded++
	case errors.Is(err, common.ErrUnknownVendor):
		s.UnknownVendor++
		fr.Status = constants.DocumentStatusUnknownVendor
		fr.Err = err.Error()
	default:
		s.Failed++
		fr.Status = constants.DocumentStatusFailed
		fr.Err = err.Error()
	}
	return fr
}

// Discover walks root and returns the files whose extension is in
// includeExts (default: constants.AllowedExtensions). Unreadable entries are
// reported as failed results and the walk continues.
func Discover(root string, includeExts []string, skipHidden bool) ([]string, []FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("root path is required")
	}

	exts := constants.AllowedExtensions
	if len(includeExts) > 0 {
		exts = map[string]struct{}{}
		for _, e := range includeExts {
			if e = constants.NormalizeExt(strings.TrimSpace(e)); e != "" {
				exts[e] = struct{}{}
			}
		}
	}

	var paths []string
	var failed []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			failed = append(failed, FileResult{Path: path, Status: constants.DocumentStatusFailed, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !allowed(path, exts) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, failed, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, failed, stats, nil
}

// ProcessDirectory runs handle over every matching file under root, one at
// a time, and returns per-file results plus aggregate stats.
func ProcessDirectory(ctx context.Context, root string, includeExts []string, skipHidden bool, handle Handler) ([]FileResult, DirStats, error) {
	paths, results, stats, err := Discover(root, includeExts, skipHidden)
	if err != nil {
		return results, stats, err
	}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, stats, err
		}
		res, err := handle(ctx, path)
		results = append(results, stats.Add(path, res, err))
	}
	return results, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

func allowed(path string, exts map[string]struct{}) bool {
	_, ok := exts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}
