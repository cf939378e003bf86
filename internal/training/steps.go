// Package training builds vendor templates from one sample document with an
// operator answering a fixed sequence of named steps.
package training

import (
	"context"

	"github.com/joseph-ayodele/invoices-tracker/internal/document"
)

// Step names one question of a training session.
type Step string

const (
	StepVendorName       Step = "vendor_name"
	StepIdentifier       Step = "identifier"
	StepMultipleInvoices Step = "multiple_invoices"
	StepSeparator        Step = "invoice_separator"
	StepDateSample       Step = "date_sample"
	StepDateFormat       Step = "date_format"
	StepJobSample        Step = "job_name_sample"
	StepJobValue         Step = "job_name_value"
	StepTotalSample      Step = "total_cost_sample"
	StepTotalValue       Step = "total_cost_value"
	StepInvoiceSample    Step = "invoice_number_sample"
	StepInvoiceValue     Step = "invoice_number_value"

	StepLineItems       Step = "line_items"
	StepMethod          Step = "extraction_method"
	StepMinGap          Step = "table_min_gap"
	StepTableChoice     Step = "table_choice"
	StepHasHeader       Step = "has_header"
	StepColumn          Step = "column"
	StepMinColumns      Step = "min_columns"
	StepTableIdentifier Step = "table_identifier"
	StepItemSample      Step = "item_sample"
	StepItemLiteral     Step = "item_literal"
)

// Prompt is one question. Field qualifies repeated steps such as the column
// index of each line-item field.
type Prompt struct {
	Step      Step
	Field     string
	Message   string
	Default   string
	Multiline bool
}

// Key identifies the prompt in scripted answers: the step, or step.field.
func (p Prompt) Key() string {
	if p.Field == "" {
		return string(p.Step)
	}
	return string(p.Step) + "." + p.Field
}

// Answer is the operator's reply. Skipped means no value was given; the
// trainer keeps whatever the template already had.
type Answer struct {
	Value   string
	Skipped bool
}

// Prompter drives a session: a terminal, a form or a script. Ask returns an
// error only when the whole session must stop.
type Prompter interface {
	Ask(ctx context.Context, p Prompt) (Answer, error)
	Show(text string)
	ShowTables(tables []document.Table)
}
