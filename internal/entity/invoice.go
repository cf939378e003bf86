package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HeaderRecord is the summary of one invoice section.
type HeaderRecord struct {
	ID            uuid.UUID       `json:"id"`
	Date          *time.Time      `json:"date,omitempty"`
	JobName       string          `json:"job_name"`
	SupplyHouse   string          `json:"supply_house"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	JobCost       decimal.Decimal `json:"job_cost"`
	InvoiceNumber string          `json:"invoice_number"`
	ProcessedDate time.Time       `json:"processed_date"`
	SourcePath    string          `json:"source_path,omitempty"`
}

// DateString returns the ISO date or "" when unset.
func (h HeaderRecord) DateString() string {
	return FormatDate(h.Date)
}

// FormatDate renders an optional date as YYYY-MM-DD.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
