package extract

import (
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/internal/templates"
)

// Identify returns the vendor whose identifier occurs in the first page
// text. Templates are tried longest identifier first, so a specific
// identifier wins over one that is a substring of it.
func (e *Extractor) Identify(firstPage string) (string, bool) {
	c, ok := Identify(firstPage, e.store.Ordered())
	if !ok {
		e.logger.Info("extract.identify.unknown", "chars", len(firstPage))
		return "", false
	}
	e.logger.Debug("extract.identify.ok", "vendor", c.Vendor, "identifier", c.Template.Identifier)
	return c.Vendor, true
}

// Identify returns the first candidate whose non-empty identifier is a
// literal substring of firstPage.
func Identify(firstPage string, candidates []*templates.Compiled) (*templates.Compiled, bool) {
	if strings.TrimSpace(firstPage) == "" {
		return nil, false
	}
	for _, c := range candidates {
		if c == nil || c.Template.Identifier == "" {
			continue
		}
		if strings.Contains(firstPage, c.Template.Identifier) {
			return c, true
		}
	}
	return nil, false
}
