package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/document"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
	"github.com/joseph-ayodele/invoices-tracker/internal/synth"
)

// TemplateStore is the part of the template store a session writes to.
type TemplateStore interface {
	Template(vendor string) (entity.Template, bool)
	Put(vendor string, t entity.Template) error
}

// Options selects what a session trains.
type Options struct {
	// Vendor skips the vendor name prompt when set.
	Vendor string
	// LineItems trains line items without asking first.
	LineItems bool
	// LineItemsOnly trains only the line items of an existing template.
	LineItemsOnly bool
}

// Report describes a finished session.
type Report struct {
	Vendor   string
	Template entity.Template
	// Abandoned lists template fields for which no pattern could be built.
	Abandoned []string
}

type Trainer struct {
	store  TemplateStore
	logger *slog.Logger
}

func New(store TemplateStore, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{store: store, logger: logger}
}

type session struct {
	ctx    context.Context
	p      Prompter
	doc    document.Document
	tpl    entity.Template
	report *Report
	log    *slog.Logger
}

// Train runs one session against a sample document. The template is
// written to the store only after every step has run; an aborted session
// leaves the stored template untouched.
func (t *Trainer) Train(ctx context.Context, doc document.Document, p Prompter, opts Options) (Report, error) {
	report := &Report{}
	s := &session{ctx: ctx, p: p, doc: doc, report: report, log: t.logger}

	vendor := strings.TrimSpace(opts.Vendor)
	if vendor == "" {
		v, ok, err := s.ask(Prompt{Step: StepVendorName, Message: "Vendor name"})
		if err != nil {
			return *report, err
		}
		if !ok || strings.TrimSpace(v) == "" {
			return *report, fmt.Errorf("%w: vendor name is required", common.ErrTrainingAborted)
		}
		vendor = strings.TrimSpace(v)
	}
	report.Vendor = vendor
	s.log = t.logger.With("vendor", vendor)

	existing, found := t.store.Template(vendor)
	if opts.LineItemsOnly && !found {
		return *report, fmt.Errorf("train line items for %q: %w", vendor, common.ErrNoTemplate)
	}
	s.tpl = existing
	if !found {
		s.tpl = entity.Template{Name: vendor}
	}

	firstPage, err := doc.PageText(0)
	if err != nil {
		return *report, common.UnreadableError(doc.Path(), err)
	}

	if !opts.LineItemsOnly {
		p.Show(firstPage)
		if err := s.header(firstPage); err != nil {
			return *report, err
		}
	}

	trainItems := opts.LineItems || opts.LineItemsOnly
	if !trainItems {
		v, ok, err := s.ask(Prompt{Step: StepLineItems, Message: "Train line items? (y/n)", Default: "n"})
		if err != nil {
			return *report, err
		}
		trainItems = ok && yes(v)
	}
	if trainItems {
		if err := s.lineItems(); err != nil {
			return *report, err
		}
	}

	if err := t.store.Put(vendor, s.tpl); err != nil {
		return *report, fmt.Errorf("save template %q: %w", vendor, err)
	}
	report.Template = s.tpl
	s.log.Info("training.save.ok", "abandoned", report.Abandoned)
	return *report, nil
}

// ask returns the answer and whether one was given.
func (s *session) ask(p Prompt) (string, bool, error) {
	a, err := s.p.Ask(s.ctx, p)
	if err != nil {
		return "", false, fmt.Errorf("%w at %s: %w", common.ErrTrainingAborted, p.Key(), err)
	}
	if a.Skipped {
		return "", false, nil
	}
	return a.Value, true, nil
}

func (s *session) abandon(field, reason string) {
	s.report.Abandoned = append(s.report.Abandoned, field)
	s.p.Show(fmt.Sprintf("No pattern for %s: %s", field, reason))
	s.log.Warn("training.field.abandoned", "field", field, "reason", reason)
}

func (s *session) header(firstPage string) error {
	id, ok, err := s.ask(Prompt{Step: StepIdentifier, Message: "Unique text identifying this vendor", Default: s.tpl.Identifier})
	if err != nil {
		return err
	}
	if ok {
		s.tpl.Identifier = strings.TrimSpace(id)
	}
	if s.tpl.Identifier == "" {
		return fmt.Errorf("%w: identifier is required", common.ErrTrainingAborted)
	}
	if !strings.Contains(firstPage, s.tpl.Identifier) {
		s.p.Show(fmt.Sprintf("Warning: %q does not occur on the first page of the sample", s.tpl.Identifier))
	}

	if err := s.separator(); err != nil {
		return err
	}
	if err := s.date(); err != nil {
		return err
	}

	job, err := s.literalField("job_name_pattern", StepJobSample, StepJobValue, "job name", nil)
	if err != nil {
		return err
	}
	if job != nil {
		s.tpl.JobNamePattern = *job
	}

	total, err := s.literalField("total_cost_pattern", StepTotalSample, StepTotalValue, "total amount", []string{synth.MoneyShape})
	if err != nil {
		return err
	}
	if total != nil {
		s.tpl.TotalCostPattern = *total
	}

	number, err := s.literalField("invoice_number_pattern", StepInvoiceSample, StepInvoiceValue, "invoice number", nil)
	if err != nil {
		return err
	}
	if number != nil {
		s.tpl.InvoiceNumberPattern = *number
	}
	return nil
}

func (s *session) separator() error {
	def := "n"
	if s.tpl.MultipleInvoices {
		def = "y"
	}
	v, ok, err := s.ask(Prompt{Step: StepMultipleInvoices, Message: "Does one document hold several invoices? (y/n)", Default: def})
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !yes(v) {
		s.tpl.MultipleInvoices = false
		s.tpl.InvoiceSeparator = ""
		return nil
	}

	sep, ok, err := s.ask(Prompt{Step: StepSeparator, Message: "Pattern separating invoices", Default: s.tpl.InvoiceSeparator})
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(sep) == "" {
		s.abandon("invoice_separator", "no separator given")
		return nil
	}
	if _, err := regexp.Compile(sep); err != nil {
		s.abandon("invoice_separator", err.Error())
		return nil
	}
	s.tpl.MultipleInvoices = true
	s.tpl.InvoiceSeparator = sep
	return nil
}

func (s *session) date() error {
	sample, ok, err := s.ask(Prompt{Step: StepDateSample, Message: "Paste the text around the invoice date", Multiline: true})
	if err != nil || !ok {
		return err
	}
	pattern, found := synth.Synthesize(sample, "", synth.DateShape)
	if !found {
		s.abandon("date_pattern", "no date found in the sample")
		return nil
	}

	format, ok, err := s.ask(Prompt{Step: StepDateFormat, Message: "Date format", Default: s.tpl.EffectiveDateFormat()})
	if err != nil {
		return err
	}
	if ok && strings.TrimSpace(format) != "" {
		s.tpl.DateFormat = strings.TrimSpace(format)
	}

	m := regexp.MustCompile(pattern).FindStringSubmatch(sample)
	if _, err := extract.ParseDate(m[1], s.tpl.EffectiveDateFormat()); err != nil {
		s.p.Show(fmt.Sprintf("Warning: %q does not parse with %s", m[1], s.tpl.EffectiveDateFormat()))
	}
	s.tpl.DatePattern = pattern
	s.p.Show("date_pattern: " + pattern)
	return nil
}

// literalField trains a field from a sample and the exact value inside it.
// shapes are tried first, then the literal value itself.
func (s *session) literalField(field string, sampleStep, valueStep Step, label string, shapes []string) (*string, error) {
	sample, ok, err := s.ask(Prompt{Step: sampleStep, Message: "Paste the text around the " + label, Multiline: true})
	if err != nil || !ok {
		return nil, err
	}
	value, ok, err := s.ask(Prompt{Step: valueStep, Message: "Exact " + label + " in that text"})
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	if ok && value != "" {
		shapes = append(shapes, synth.LiteralShape(value))
	}
	if len(shapes) == 0 {
		s.abandon(field, "no value given")
		return nil, nil
	}

	for _, shape := range shapes {
		if pattern, found := synth.Synthesize(sample, value, shape); found {
			s.p.Show(field + ": " + pattern)
			return &pattern, nil
		}
	}
	s.abandon(field, "value not found in the sample")
	return nil, nil
}

func yes(v string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), "y")
}

var errNoTables = errors.New("no tables found on the first two pages")
