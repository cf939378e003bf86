package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one priced entry of an invoice.
type LineItem struct {
	ID                  uuid.UUID       `json:"id"`
	PartNumber          string          `json:"part_number"`
	OriginalDescription string          `json:"original_description"`
	CustomDescription   string          `json:"custom_description"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	Date                *time.Time      `json:"date,omitempty"`
	InvoiceNumber       string          `json:"invoice_number"`
	Vendor              string          `json:"vendor"`
}

// NewLineItem returns an item with the documented defaults (quantity 1, prices 0).
func NewLineItem() LineItem {
	return LineItem{
		Quantity:   decimal.NewFromInt(1),
		UnitPrice:  decimal.Zero,
		TotalPrice: decimal.Zero,
	}
}

// Valid reports whether the item has an identifier and a positive price.
func (li LineItem) Valid() bool {
	hasIdentifier := li.PartNumber != "" || li.OriginalDescription != ""
	hasPrice := li.UnitPrice.IsPositive() || li.TotalPrice.IsPositive()
	return hasIdentifier && hasPrice
}

// Stamp copies the reference metadata of the invoice header onto the item.
func (li *LineItem) Stamp(h HeaderRecord) {
	li.Date = h.Date
	li.InvoiceNumber = h.InvoiceNumber
	li.Vendor = h.SupplyHouse
}
