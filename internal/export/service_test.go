package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

type fakeSource struct {
	invoices []entity.HeaderRecord
	items    []entity.LineItem
}

func (f fakeSource) InvoicesByDateRange(context.Context, *time.Time, *time.Time) ([]entity.HeaderRecord, error) {
	return f.invoices, nil
}

func (f fakeSource) ItemsByDateRange(context.Context, *time.Time, *time.Time) ([]entity.LineItem, error) {
	return f.items, nil
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func header(num string, d *time.Time, total string) entity.HeaderRecord {
	v := decimal.RequireFromString(total)
	return entity.HeaderRecord{InvoiceNumber: num, Date: d, SupplyHouse: "ACME", JobName: "Smith", TotalCost: v, JobCost: v}
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestExportInvoicesXLSX(t *testing.T) {
	src := fakeSource{invoices: []entity.HeaderRecord{
		header("2", date(2024, 2, 10), "12.50"),
		header("1", date(2024, 1, 2), "500.25"),
		header("3", date(2024, 1, 2), "100"),
		header("4", nil, "7"),
	}}
	b, err := NewService(src, src, nil).ExportInvoicesXLSX(context.Background(), nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"01-02-2024", "02-10-2024", "Undated"}, f.GetSheetList())

	assert.Equal(t, "Invoice #", raw(t, f, "01-02-2024", "A1"))
	assert.Equal(t, "Job Cost", raw(t, f, "01-02-2024", "F1"))
	assert.Equal(t, "1", raw(t, f, "01-02-2024", "A2"))
	assert.Equal(t, "2024-01-02", raw(t, f, "01-02-2024", "B2"))
	assert.Equal(t, "500.25", raw(t, f, "01-02-2024", "E2"))
	assert.Equal(t, "3", raw(t, f, "01-02-2024", "A3"))
	assert.Equal(t, "Total", raw(t, f, "01-02-2024", "A4"))

	formula, err := f.GetCellFormula("01-02-2024", "E4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(E2:E3)", formula)
	formula, err = f.GetCellFormula("02-10-2024", "F3")
	require.NoError(t, err)
	assert.Equal(t, "SUM(F2:F2)", formula)
}

func TestExportItemsXLSX(t *testing.T) {
	it := entity.NewLineItem()
	it.PartNumber = "101"
	it.OriginalDescription = "Widget"
	it.CustomDescription = "Blue widget"
	it.UnitPrice = decimal.RequireFromString("10.5")
	it.Date = date(2024, 1, 2)
	it.Vendor = "ACME"
	src := fakeSource{items: []entity.LineItem{it}}

	b, err := NewService(src, src, nil).ExportItemsXLSX(context.Background(), nil, nil)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Items"}, f.GetSheetList())
	assert.Equal(t, "Part Number", raw(t, f, "Items", "A1"))
	assert.Equal(t, "101", raw(t, f, "Items", "A2"))
	assert.Equal(t, "Blue widget", raw(t, f, "Items", "C2"))
	assert.Equal(t, "1", raw(t, f, "Items", "D2"))
	assert.Equal(t, "10.5", raw(t, f, "Items", "E2"))
	assert.Equal(t, "2024-01-02", raw(t, f, "Items", "G2"))
	assert.Equal(t, "ACME", raw(t, f, "Items", "I2"))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "03-14-2024", SheetName(date(2024, 3, 14)))
	assert.Equal(t, "Undated", SheetName(nil))
}
