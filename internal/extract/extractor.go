// Package extract applies vendor templates to document text: vendor
// identification, header fields, multi-invoice splitting and both line-item
// strategies.
package extract

import (
	"log/slog"
	"time"

	"github.com/joseph-ayodele/invoices-tracker/internal/templates"
)

// TemplateSource is the read side of the template store.
type TemplateSource interface {
	Get(vendor string) (*templates.Compiled, bool)
	Ordered() []*templates.Compiled
}

// Extractor holds no per-document state; one value serves any number of
// concurrent documents.
type Extractor struct {
	store  TemplateSource
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Extractor)

// WithClock overrides the processed-date clock.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func New(store TemplateSource, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{store: store, logger: logger, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Template returns the compiled template of vendor.
func (e *Extractor) Template(vendor string) (*templates.Compiled, bool) {
	return e.store.Get(vendor)
}
