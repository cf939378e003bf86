package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

const (
	sheetDateLayout = "01-02-2006"
	undatedSheet    = "Undated"
	itemsSheet      = "Items"
	currencyFormat  = "$#,##0.00"
)

// InvoiceSource lists stored header records.
type InvoiceSource interface {
	InvoicesByDateRange(ctx context.Context, from, to *time.Time) ([]entity.HeaderRecord, error)
}

// ItemSource lists stored line items.
type ItemSource interface {
	ItemsByDateRange(ctx context.Context, from, to *time.Time) ([]entity.LineItem, error)
}

// Service produces XLSX workbooks from the record store.
type Service struct {
	invoices InvoiceSource
	items    ItemSource
	logger   *slog.Logger
}

func NewService(invoices InvoiceSource, items ItemSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, items: items, logger: logger}
}

// ExportInvoicesXLSX returns a workbook with one sheet per invoice date.
// Nil bounds are open.
func (s *Service) ExportInvoicesXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()
	recs, err := s.invoices.InvoicesByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	f, err := InvoicesWorkbook(recs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.invoices.ok", "rows", len(recs), "sheets", len(f.GetSheetList()), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// ExportItemsXLSX returns a workbook with every stored line item.
func (s *Service) ExportItemsXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()
	items, err := s.items.ItemsByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	f, err := ItemsWorkbook(items)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.items.ok", "rows", len(items), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// SheetName is the sheet an invoice dated d is written to.
func SheetName(d *time.Time) string {
	if d == nil {
		return undatedSheet
	}
	return d.Format(sheetDateLayout)
}

// InvoicesWorkbook lays out header records one sheet per date, dated sheets
// first in date order, each closed by a totals row.
func InvoicesWorkbook(recs []entity.HeaderRecord) (*excelize.File, error) {
	groups := map[string][]entity.HeaderRecord{}
	keys := map[string]string{}
	for _, r := range recs {
		name := SheetName(r.Date)
		groups[name] = append(groups[name], r)
		if r.Date != nil {
			keys[name] = r.Date.Format("2006-01-02")
		} else {
			keys[name] = "9999"
		}
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return keys[names[i]] < keys[names[j]] })

	f := excelize.NewFile()
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(currencyFormat)})
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	headers := []string{"Invoice #", "Date", "Job Name", "Supply House", "Total Cost", "Job Cost"}
	for _, name := range names {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		writeRow(f, name, 1, toAny(headers))
		_ = f.SetCellStyle(name, "A1", "F1", bold)

		row := 2
		for _, r := range groups[name] {
			writeRow(f, name, row, []any{
				r.InvoiceNumber,
				r.DateString(),
				r.JobName,
				r.SupplyHouse,
				r.TotalCost.InexactFloat64(),
				r.JobCost.InexactFloat64(),
			})
			row++
		}

		last := row - 1
		_ = f.SetCellValue(name, cell(1, row), "Total")
		_ = f.SetCellFormula(name, cell(5, row), fmt.Sprintf("SUM(E2:E%d)", last))
		_ = f.SetCellFormula(name, cell(6, row), fmt.Sprintf("SUM(F2:F%d)", last))
		_ = f.SetCellStyle(name, cell(1, row), cell(6, row), bold)
		_ = f.SetCellStyle(name, "E2", cell(6, row), money)

		_ = f.SetColWidth(name, "A", "B", 14)
		_ = f.SetColWidth(name, "C", "D", 28)
		_ = f.SetColWidth(name, "E", "F", 14)
	}
	finish(f, names)
	return f, nil
}

// ItemsWorkbook writes every item to a single Items sheet.
func ItemsWorkbook(items []entity.LineItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(currencyFormat)})
	if err != nil {
		return nil, err
	}

	writeRow(f, itemsSheet, 1, []any{
		"Part Number", "Original Description", "Custom Description", "Quantity",
		"Unit Price", "Total Price", "Date", "Invoice #", "Vendor",
	})
	for i, it := range items {
		writeRow(f, itemsSheet, i+2, []any{
			it.PartNumber,
			it.OriginalDescription,
			it.CustomDescription,
			it.Quantity.InexactFloat64(),
			it.UnitPrice.InexactFloat64(),
			it.TotalPrice.InexactFloat64(),
			entity.FormatDate(it.Date),
			it.InvoiceNumber,
			it.Vendor,
		})
	}
	if len(items) > 0 {
		_ = f.SetCellStyle(itemsSheet, "E2", cell(6, len(items)+1), money)
	}
	_ = f.SetColWidth(itemsSheet, "A", "A", 16)
	_ = f.SetColWidth(itemsSheet, "B", "C", 40)
	_ = f.SetColWidth(itemsSheet, "G", "I", 16)
	finish(f, []string{itemsSheet})
	return f, nil
}

// finish drops the default sheet once real sheets exist and activates the first.
func finish(f *excelize.File, names []string) {
	if len(names) == 0 {
		return
	}
	if names[0] != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}
	if idx, err := f.GetSheetIndex(names[0]); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		_ = f.SetCellValue(sheet, cell(i+1, row), v)
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func strPtr(s string) *string { return &s }
