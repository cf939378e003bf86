package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/async"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/ingest"
	"github.com/joseph-ayodele/invoices-tracker/internal/pipeline"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		dir      string
		mode     string
		initial  bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process documents as they arrive in the inbox directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = a.cfg.Output.InboxDir
			}
			m, ok := constants.ParseMode(mode)
			if !ok {
				return errors.Join(common.ErrInvalidInput, errors.New("unknown mode "+mode))
			}
			return a.runWatch(cmd.Context(), dir, m, initial, debounce)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to watch (default $INBOX_DIR)")
	cmd.Flags().StringVar(&mode, "mode", string(constants.ModeFull), "summary, items or full")
	cmd.Flags().BoolVar(&initial, "initial-scan", true, "process documents already in the directory")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before a new file is processed")
	return cmd
}

func (a *app) runWatch(ctx context.Context, dir string, mode constants.Mode, initial bool, debounce time.Duration) error {
	extractor, _, err := a.extractor()
	if err != nil {
		return err
	}
	db, store, err := a.records(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	proc := pipeline.NewProcessor(a.opener(), extractor, a.logger,
		pipeline.WithRecorder(store), pipeline.WithMode(mode))

	// Workbooks are rewritten from the store, one at a time.
	var exportMu sync.Mutex
	q := async.NewProcessorQueue(proc.ProcessFile, a.logger,
		async.WithWorkers(a.cfg.Workers.Count),
		async.WithQueueSize(a.cfg.Workers.QueueSize),
		async.WithProcessTimeout(a.cfg.Workers.ProcessTimeout),
		async.WithDone(func(job async.Job, res pipeline.Result, err error) {
			if err != nil || res.Status != constants.DocumentStatusOK {
				return
			}
			exportMu.Lock()
			defer exportMu.Unlock()
			if err := a.exportWorkbooks(context.Background(), store, nil, nil); err != nil {
				a.logger.Error("watch.export.failed", "path", job.Path, "error", err)
			}
		}),
	)
	defer q.Shutdown(context.Background())

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: initial,
		Debounce:    debounce,
	}, a.logger)
	if err != nil {
		return err
	}
	a.logger.Info("watch.started", "dir", dir, "workers", a.cfg.Workers.Count)

	for {
		select {
		case path, ok := <-paths:
			if !ok {
				return nil
			}
			if err := q.Enqueue(ctx, async.Job{Path: path, TraceID: uuid.NewString()}); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.logger.Warn("watch.error", "error", err)
		}
	}
}
