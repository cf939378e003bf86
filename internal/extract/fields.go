package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/templates"
)

// ExtractFields builds the header record of one section. Missing patterns
// and non-matching patterns leave fields at their zero value; parse
// failures are logged and do the same.
func (e *Extractor) ExtractFields(section string, c *templates.Compiled) entity.HeaderRecord {
	h := entity.HeaderRecord{
		SupplyHouse:   c.Name(),
		TotalCost:     decimal.Zero,
		ProcessedDate: e.now(),
	}
	if c == nil {
		return h
	}
	log := e.logger.With("vendor", c.Vendor)

	if raw, ok := firstGroup(c.Date, section); ok {
		format := c.Template.EffectiveDateFormat()
		if d, err := ParseDate(raw, format); err == nil {
			h.Date = &d
		} else {
			log.Warn("extract.fields.date_parse_failed", "value", raw, "format", format, "error", err)
		}
	}

	if raw, ok := firstGroup(c.JobName, section); ok {
		h.JobName = strings.TrimSpace(raw)
	}

	if raw, ok := firstGroup(c.TotalCost, section); ok {
		if v, err := ParseAmount(raw); err == nil {
			h.TotalCost = v
		} else {
			log.Warn("extract.fields.total_parse_failed", "value", raw, "error", err)
		}
	}

	if raw, ok := firstGroup(c.InvoiceNumber, section); ok {
		h.InvoiceNumber = strings.TrimSpace(raw)
	}

	h.JobCost = h.TotalCost
	return h
}

// firstGroup returns capture group 1 of the first match, or the whole match
// for patterns without a group.
func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	if re == nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}
