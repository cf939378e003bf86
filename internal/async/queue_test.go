package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/pipeline"
)

func TestQueueProcessesEveryJob(t *testing.T) {
	var handled atomic.Int32
	var mu sync.Mutex
	done := map[string]error{}

	handle := func(ctx context.Context, path string) (pipeline.Result, error) {
		handled.Add(1)
		if _, ok := ctx.Deadline(); !ok {
			return pipeline.Result{}, errors.New("no deadline")
		}
		if path == "bad.pdf" {
			return pipeline.Result{Status: constants.DocumentStatusFailed}, errors.New("corrupt")
		}
		return pipeline.Result{Path: path, Status: constants.DocumentStatusOK}, nil
	}
	q := NewProcessorQueue(handle, nil,
		WithWorkers(3),
		WithQueueSize(1),
		WithProcessTimeout(time.Second),
		WithDone(func(job Job, _ pipeline.Result, err error) {
			mu.Lock()
			done[job.Path] = err
			mu.Unlock()
		}),
	)

	paths := []string{"a.pdf", "b.pdf", "bad.pdf", "c.pdf", "d.pdf"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p}))
	}
	q.Shutdown(context.Background())

	assert.EqualValues(t, len(paths), handled.Load())
	require.Len(t, done, len(paths))
	assert.Error(t, done["bad.pdf"])
	assert.NoError(t, done["a.pdf"])

	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{Path: "late.pdf"}), ErrQueueClosed)
	q.Shutdown(context.Background())
}
