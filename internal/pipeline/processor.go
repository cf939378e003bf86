// Package pipeline runs one source document through the extraction engine
// and hands the records to the record store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/document"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
)

// Recorder stores extracted records.
type Recorder interface {
	AddInvoices(ctx context.Context, invoices []entity.HeaderRecord) error
	AddItems(ctx context.Context, items []entity.LineItem) error
}

// JobCostFunc decides the job cost of a header record. The document has no
// job cost of its own.
type JobCostFunc func(ctx context.Context, h entity.HeaderRecord) (decimal.Decimal, error)

// SameAsTotal is the default JobCostFunc.
func SameAsTotal(_ context.Context, h entity.HeaderRecord) (decimal.Decimal, error) {
	return h.TotalCost, nil
}

// Result is the outcome of one document.
type Result struct {
	Path     string
	RunID    string
	Vendor   string
	Status   constants.DocumentStatus
	Invoices []entity.HeaderRecord
	Items    []entity.LineItem
	Duration time.Duration
}

type Processor struct {
	opener    document.Opener
	extractor *extract.Extractor
	recorder  Recorder
	jobCost   JobCostFunc
	mode      constants.Mode
	logger    *slog.Logger
}

type Option func(*Processor)

func WithRecorder(r Recorder) Option {
	return func(p *Processor) { p.recorder = r }
}

func WithJobCost(f JobCostFunc) Option {
	return func(p *Processor) {
		if f != nil {
			p.jobCost = f
		}
	}
}

func WithMode(m constants.Mode) Option {
	return func(p *Processor) {
		if m != "" {
			p.mode = m
		}
	}
}

func NewProcessor(opener document.Opener, extractor *extract.Extractor, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		opener:    opener,
		extractor: extractor,
		jobCost:   SameAsTotal,
		mode:      constants.ModeFull,
		logger:    logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ProcessFile extracts the records of one document. An unknown vendor
// returns common.ErrUnknownVendor; a document that cannot be read returns
// common.ErrDocumentUnreadable. Both set Result.Status accordingly.
func (p *Processor) ProcessFile(ctx context.Context, path string) (res Result, err error) {
	start := time.Now()
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = common.WithSourcePath(common.WithRunID(ctx, runID), path)
	log := p.logger.With("run_id", runID, "path", path, "mode", p.mode)

	res = Result{Path: path, RunID: runID, Status: constants.DocumentStatusFailed}
	defer func() { res.Duration = time.Since(start) }()

	doc, err := p.opener.Open(ctx, path)
	if err != nil {
		log.Error("pipeline.open.failed", "error", err)
		return res, common.UnreadableError(path, err)
	}
	firstPage, err := doc.PageText(0)
	if err != nil {
		log.Error("pipeline.open.failed", "error", err)
		return res, common.UnreadableError(path, err)
	}

	vendor, ok := p.extractor.Identify(firstPage)
	if !ok {
		res.Status = constants.DocumentStatusUnknownVendor
		log.Warn("pipeline.vendor.unknown")
		return res, fmt.Errorf("%s: %w", path, common.ErrUnknownVendor)
	}
	res.Vendor = vendor
	log = log.With("vendor", vendor)

	c, ok := p.extractor.Template(vendor)
	if !ok {
		return res, fmt.Errorf("%s: %w", vendor, common.ErrNoTemplate)
	}

	text, err := doc.AllText()
	if err != nil {
		log.Error("pipeline.text.failed", "error", err)
		return res, common.UnreadableError(path, err)
	}

	var headers []entity.HeaderRecord
	for _, section := range extract.Split(text, c) {
		h := p.extractor.ExtractFields(section, c)
		h.ID = uuid.New()
		h.SourcePath = path
		headers = append(headers, h)
	}

	if p.mode != constants.ModeSummary {
		ref := entity.HeaderRecord{SupplyHouse: c.Name()}
		if len(headers) > 0 {
			ref = headers[0]
		}
		items, err := p.extractor.LineItems(doc, ref, c)
		if err != nil {
			log.Error("pipeline.items.failed", "error", err)
			return res, common.UnreadableError(path, err)
		}
		for i := range items {
			items[i].ID = uuid.New()
		}
		res.Items = items
	}

	if p.mode != constants.ModeItems {
		for i := range headers {
			jc, err := p.jobCost(ctx, headers[i])
			if err != nil {
				return res, fmt.Errorf("job cost for %s: %w", path, err)
			}
			headers[i].JobCost = jc
		}
		res.Invoices = headers
	}

	if err = p.record(ctx, res); err != nil {
		log.Error("pipeline.record.failed", "error", err)
		return res, err
	}

	res.Status = constants.DocumentStatusOK
	if len(res.Invoices) == 0 && len(res.Items) == 0 {
		res.Status = constants.DocumentStatusNoRecords
	}
	log.Info("pipeline.process.ok",
		"status", res.Status,
		"invoices", len(res.Invoices),
		"items", len(res.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Processor) record(ctx context.Context, res Result) error {
	if p.recorder == nil {
		return nil
	}
	if len(res.Invoices) > 0 {
		if err := p.recorder.AddInvoices(ctx, res.Invoices); err != nil {
			return fmt.Errorf("store invoices: %w", err)
		}
	}
	if len(res.Items) > 0 {
		if err := p.recorder.AddItems(ctx, res.Items); err != nil {
			return fmt.Errorf("store items: %w", err)
		}
	}
	return nil
}
