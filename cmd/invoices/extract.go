package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/async"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
	"github.com/joseph-ayodele/invoices-tracker/internal/ingest"
	"github.com/joseph-ayodele/invoices-tracker/internal/pipeline"
	"github.com/joseph-ayodele/invoices-tracker/internal/training"
)

type extractFlags struct {
	pdf        string
	folder     string
	mode       string
	workers    int
	exts       []string
	askJobCost bool
	noExport   bool
}

func (a *app) extractCmd() *cobra.Command {
	var f extractFlags
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract invoices from a PDF or a folder of PDFs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runExtract(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "single document to process")
	cmd.Flags().StringVar(&f.folder, "folder", "", "directory to process recursively")
	cmd.Flags().StringVar(&f.mode, "mode", string(constants.ModeFull), "summary, items or full")
	cmd.Flags().IntVar(&f.workers, "workers", 1, "parallel workers for --folder")
	cmd.Flags().StringSliceVar(&f.exts, "ext", []string{"pdf"}, "file extensions for --folder")
	cmd.Flags().BoolVar(&f.askJobCost, "ask-job-cost", false, "confirm the job cost of every invoice")
	cmd.Flags().BoolVar(&f.noExport, "no-export", false, "skip writing the workbooks")
	cmd.MarkFlagsMutuallyExclusive("pdf", "folder")
	return cmd
}

func (a *app) runExtract(ctx context.Context, f extractFlags) error {
	if f.pdf == "" && f.folder == "" {
		return fmt.Errorf("one of --pdf or --folder is required: %w", common.ErrInvalidInput)
	}
	mode, ok := constants.ParseMode(f.mode)
	if !ok {
		return fmt.Errorf("unknown mode %q: %w", f.mode, common.ErrInvalidInput)
	}

	extractor, _, err := a.extractor()
	if err != nil {
		return err
	}
	db, store, err := a.records(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []pipeline.Option{pipeline.WithRecorder(store), pipeline.WithMode(mode)}
	if f.askJobCost && !a.silent {
		opts = append(opts, pipeline.WithJobCost(a.askJobCost(training.NewTerminalPrompter(os.Stdin, os.Stdout))))
		f.workers = 1
	}
	proc := pipeline.NewProcessor(a.opener(), extractor, a.logger, opts...)
	handle := func(ctx context.Context, path string) (pipeline.Result, error) {
		return proc.ProcessFile(common.WithRunID(ctx, uuid.NewString()), path)
	}

	var results []ingest.FileResult
	var stats ingest.DirStats
	switch {
	case f.pdf != "":
		res, err := handle(ctx, f.pdf)
		stats.Scanned, stats.Matched = 1, 1
		results = append(results, stats.Add(f.pdf, res, err))
	case f.workers > 1:
		results, stats, err = a.extractParallel(ctx, f, handle)
	default:
		results, stats, err = ingest.ProcessDirectory(ctx, f.folder, f.exts, true, handle)
	}
	if err != nil {
		return err
	}

	a.printResults(results, stats)

	if !f.noExport && stats.Succeeded > 0 {
		if err := a.exportWorkbooks(ctx, store, nil, nil); err != nil {
			return err
		}
	}
	if stats.Failed > 0 || stats.UnknownVendor > 0 {
		return fmt.Errorf("%d of %d documents were not extracted", stats.Failed+stats.UnknownVendor, stats.Matched)
	}
	return nil
}

func (a *app) extractParallel(ctx context.Context, f extractFlags, handle ingest.Handler) ([]ingest.FileResult, ingest.DirStats, error) {
	paths, results, stats, err := ingest.Discover(f.folder, f.exts, true)
	if err != nil {
		return results, stats, err
	}

	var mu sync.Mutex
	q := async.NewProcessorQueue(async.Handler(handle), a.logger,
		async.WithWorkers(f.workers),
		async.WithQueueSize(a.cfg.Workers.QueueSize),
		async.WithProcessTimeout(a.cfg.Workers.ProcessTimeout),
		async.WithDone(func(job async.Job, res pipeline.Result, err error) {
			mu.Lock()
			defer mu.Unlock()
			results = append(results, stats.Add(job.Path, res, err))
		}),
	)
	for _, p := range paths {
		if err := q.Enqueue(ctx, async.Job{Path: p}); err != nil {
			q.Shutdown(context.Background())
			return results, stats, err
		}
	}
	q.Shutdown(context.Background())
	return results, stats, nil
}

func (a *app) printResults(results []ingest.FileResult, stats ingest.DirStats) {
	if a.silent {
		return
	}
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Document", "Status", "Invoices", "Items", "Error"})
	tw.SetAutoWrapText(false)
	for _, r := range results {
		tw.Append([]string{r.Path, string(r.Status), fmt.Sprint(r.Invoices), fmt.Sprint(r.Items), r.Err})
	}
	tw.Render()
	a.printf("scanned=%d matched=%d ok=%d unknown_vendor=%d failed=%d\n",
		stats.Scanned, stats.Matched, stats.Succeeded, stats.UnknownVendor, stats.Failed)
}

const stepJobCost training.Step = "job_cost"

// askJobCost confirms each invoice's job cost with the operator. A blank or
// "y" answer keeps the total.
func (a *app) askJobCost(p training.Prompter) pipeline.JobCostFunc {
	return func(ctx context.Context, h entity.HeaderRecord) (decimal.Decimal, error) {
		p.Show(fmt.Sprintf("%s: %s invoice %s, total %s",
			common.SourcePathFromContext(ctx), h.SupplyHouse, h.InvoiceNumber, h.TotalCost.StringFixed(2)))
		for {
			ans, err := p.Ask(ctx, training.Prompt{
				Step:    stepJobCost,
				Message: "Use the same amount for job cost? (y, or enter the job cost)",
				Default: "y",
			})
			if err != nil {
				return decimal.Zero, err
			}
			v := strings.TrimSpace(ans.Value)
			if ans.Skipped || v == "" || strings.EqualFold(v, "y") || strings.EqualFold(v, "yes") {
				return h.TotalCost, nil
			}
			amount, err := extract.ParseAmount(v)
			if err == nil {
				return amount, nil
			}
			p.Show("Not an amount: " + v)
		}
	}
}
