package extract

import (
	"fmt"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/document"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/templates"
)

// LineItems extracts the items of a whole document with the strategy of
// the template. header supplies the reference metadata stamped on every
// item. An error means the document itself could not be read; zero items
// with a nil error means nothing matched.
func (e *Extractor) LineItems(doc document.Document, header entity.HeaderRecord, c *templates.Compiled) ([]entity.LineItem, error) {
	if c == nil || c.Template.LineItemConfig == nil {
		return nil, nil
	}
	cfg := c.Template.LineItemConfig

	switch cfg.Method() {
	case constants.ExtractionPattern:
		if c.Item == nil {
			e.logger.Warn("lineitems.pattern.missing", "vendor", c.Vendor)
			return nil, nil
		}
		text, err := doc.AllText()
		if err != nil {
			return nil, fmt.Errorf("read text: %w", err)
		}
		return e.ExtractPattern(text, header, c.Item), nil

	default:
		settings := document.TableSettings(cfg.TableSettings)
		pages := make([][]document.Table, 0, doc.NumPages())
		for p := 0; p < doc.NumPages(); p++ {
			tables, err := doc.Tables(p, settings)
			if err != nil {
				return nil, fmt.Errorf("read tables of page %d: %w", p+1, err)
			}
			pages = append(pages, tables)
		}
		return e.ExtractTable(pages, header, cfg), nil
	}
}
