package templates

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

// Compiled is an immutable snapshot of one vendor template with its
// patterns compiled once. A nil pattern means the field is not extracted.
type Compiled struct {
	Vendor   string
	Template entity.Template

	Separator     *regexp.Regexp
	Date          *regexp.Regexp
	JobName       *regexp.Regexp
	TotalCost     *regexp.Regexp
	InvoiceNumber *regexp.Regexp
	Item          *regexp.Regexp
}

// Compile builds a snapshot of t. Patterns that fail to compile are left nil
// and reported in the joined error, so callers can choose between rejecting
// the template and using what compiled.
func Compile(vendor string, t entity.Template) (*Compiled, error) {
	t = t.Clone()
	if t.Name == "" {
		t.Name = vendor
	}
	c := &Compiled{Vendor: vendor, Template: t}

	var errs []error
	compile := func(field, pattern, flags string) *regexp.Regexp {
		if pattern == "" {
			return nil
		}
		re, err := regexp.Compile(flags + pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
			return nil
		}
		return re
	}

	if t.MultipleInvoices {
		c.Separator = compile("invoice_separator", t.InvoiceSeparator, "")
	}
	c.Date = compile("date_pattern", t.DatePattern, "")
	c.JobName = compile("job_name_pattern", t.JobNamePattern, "")
	c.TotalCost = compile("total_cost_pattern", t.TotalCostPattern, "")
	c.InvoiceNumber = compile("invoice_number_pattern", t.InvoiceNumberPattern, "")
	if lc := t.LineItemConfig; lc != nil {
		c.Item = compile("line_item_config.item_pattern", lc.ItemPattern, "(?m)")
	}

	if len(errs) > 0 {
		return c, fmt.Errorf("vendor %q: %w", vendor, errors.Join(errs...))
	}
	return c, nil
}

// Name is the display name written to extracted records.
func (c *Compiled) Name() string {
	if c == nil {
		return constants.UnknownVendor
	}
	return c.Template.DisplayName()
}
