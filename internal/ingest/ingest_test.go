package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/pipeline"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestProcessDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdf"))
	touch(t, filepath.Join(root, "sub", "B.PDF"))
	touch(t, filepath.Join(root, "sub", "c.pdf"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".hidden", "d.pdf"))

	handle := func(_ context.Context, path string) (pipeline.Result, error) {
		switch filepath.Base(path) {
		case "a.pdf":
			return pipeline.Result{Status: constants.DocumentStatusOK, Invoices: make([]entity.HeaderRecord, 1), Items: make([]entity.LineItem, 3)}, nil
		case "B.PDF":
			return pipeline.Result{Status: constants.DocumentStatusUnknownVendor}, common.ErrUnknownVendor
		default:
			return pipeline.Result{}, common.UnreadableError(path, errors.New("corrupt"))
		}
	}

	results, stats, err := ProcessDirectory(context.Background(), root, nil, true, handle)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.EqualValues(t, 3, stats.Matched)
	assert.EqualValues(t, 1, stats.Succeeded)
	assert.EqualValues(t, 1, stats.UnknownVendor)
	assert.EqualValues(t, 1, stats.Failed)

	byName := map[string]FileResult{}
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r
	}
	assert.Equal(t, 3, byName["a.pdf"].Items)
	assert.Equal(t, constants.DocumentStatusUnknownVendor, byName["B.PDF"].Status)
	assert.Equal(t, constants.DocumentStatusFailed, byName["c.pdf"].Status)
	assert.NotEmpty(t, byName["c.pdf"].Err)
}

func TestDiscoverExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdf"))
	touch(t, filepath.Join(root, "b.txt"))
	touch(t, filepath.Join(root, ".hidden.pdf"))

	paths, _, stats, err := Discover(root, []string{".TXT", "pdf"}, false)
	require.NoError(t, err)
	sort.Strings(paths)
	assert.Len(t, paths, 3)
	assert.EqualValues(t, 3, stats.Matched)

	_, _, _, err = Discover(" ", nil, false)
	assert.Error(t, err)
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.pdf")
	touch(t, existing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond}, nil)
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, existing, p)
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan not emitted")
	}

	fresh := filepath.Join(root, "new.pdf")
	touch(t, fresh)
	touch(t, filepath.Join(root, "ignored.txt"))

	select {
	case p := <-events:
		assert.Equal(t, fresh, p)
	case <-time.After(2 * time.Second):
		t.Fatal("new file not emitted")
	}

	cancel()
	for range events {
	}
}
