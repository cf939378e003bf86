package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/document"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
	"github.com/joseph-ayodele/invoices-tracker/internal/templates"
)

type fakeOpener map[string][]string

func (f fakeOpener) Open(_ context.Context, path string) (document.Document, error) {
	pages, ok := f[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return document.NewTextDocument(path, pages), nil
}

type memRecorder struct {
	invoices []entity.HeaderRecord
	items    []entity.LineItem
	err      error
}

func (m *memRecorder) AddInvoices(_ context.Context, in []entity.HeaderRecord) error {
	if m.err != nil {
		return m.err
	}
	m.invoices = append(m.invoices, in...)
	return nil
}

func (m *memRecorder) AddItems(_ context.Context, in []entity.LineItem) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, in...)
	return nil
}

const acmePage = "ACME SUPPLY CO\n" +
	"Invoice: 5001\n" +
	"Date: 01/02/2024\n" +
	"\n" +
	"Part    Desc      Qty    Price\n" +
	"101     Widget    2      10.00\n" +
	"\n" +
	"Total: $20.00\n" +
	"=====\n" +
	"Invoice: 5002\n" +
	"Date: 01/03/2024\n" +
	"Total: $7.50\n"

func newExtractor(t *testing.T) *extract.Extractor {
	t.Helper()
	store, err := templates.Open(templates.NewMemoryBackend(map[string]entity.Template{
		"ACME": {
			Identifier:           "ACME SUPPLY",
			MultipleInvoices:     true,
			InvoiceSeparator:     `={5}`,
			DatePattern:          `Date: (\S+)`,
			TotalCostPattern:     `Total: (\S+)`,
			InvoiceNumberPattern: `Invoice: (\d+)`,
			LineItemConfig: &entity.LineItemConfig{
				ExtractionMethod: constants.ExtractionTable,
				ColumnMap:        map[string]int{"part_number": 0, "original_description": 1, "quantity": 2, "unit_price": 3},
			},
		},
	}), nil)
	require.NoError(t, err)
	return extract.New(store, nil)
}

func files() fakeOpener {
	return fakeOpener{
		"acme.pdf":  {acmePage},
		"other.pdf": {"SOMEONE ELSE\nTotal: $1.00"},
	}
}

func TestProcessFileFull(t *testing.T) {
	rec := &memRecorder{}
	p := NewProcessor(files(), newExtractor(t), nil, WithRecorder(rec))

	res, err := p.ProcessFile(context.Background(), "acme.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.DocumentStatusOK, res.Status)
	assert.Equal(t, "ACME", res.Vendor)
	assert.NotEmpty(t, res.RunID)

	require.Len(t, res.Invoices, 2)
	assert.Equal(t, "5001", res.Invoices[0].InvoiceNumber)
	assert.Equal(t, "5002", res.Invoices[1].InvoiceNumber)
	assert.Equal(t, "2024-01-03", res.Invoices[1].DateString())
	assert.True(t, decimal.RequireFromString("7.50").Equal(res.Invoices[1].JobCost))
	assert.Equal(t, "acme.pdf", res.Invoices[0].SourcePath)
	assert.NotEqual(t, res.Invoices[0].ID, res.Invoices[1].ID)

	// Items carry the first invoice's metadata even with several invoices.
	require.Len(t, res.Items, 1)
	assert.Equal(t, "5001", res.Items[0].InvoiceNumber)
	assert.Equal(t, "ACME", res.Items[0].Vendor)

	assert.Len(t, rec.invoices, 2)
	assert.Len(t, rec.items, 1)
}

func TestProcessFileModes(t *testing.T) {
	summary := NewProcessor(files(), newExtractor(t), nil, WithMode(constants.ModeSummary))
	res, err := summary.ProcessFile(context.Background(), "acme.pdf")
	require.NoError(t, err)
	assert.Len(t, res.Invoices, 2)
	assert.Empty(t, res.Items)

	items := NewProcessor(files(), newExtractor(t), nil, WithMode(constants.ModeItems))
	res, err = items.ProcessFile(context.Background(), "acme.pdf")
	require.NoError(t, err)
	assert.Empty(t, res.Invoices)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "2024-01-02", entity.FormatDate(res.Items[0].Date))
}

func TestProcessFileJobCost(t *testing.T) {
	half := func(_ context.Context, h entity.HeaderRecord) (decimal.Decimal, error) {
		return h.TotalCost.Div(decimal.NewFromInt(2)), nil
	}
	p := NewProcessor(files(), newExtractor(t), nil, WithJobCost(half))
	res, err := p.ProcessFile(context.Background(), "acme.pdf")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(res.Invoices[0].JobCost))
	assert.True(t, decimal.NewFromInt(20).Equal(res.Invoices[0].TotalCost))

	stop := errors.New("operator quit")
	p = NewProcessor(files(), newExtractor(t), nil, WithJobCost(func(context.Context, entity.HeaderRecord) (decimal.Decimal, error) {
		return decimal.Zero, stop
	}))
	_, err = p.ProcessFile(context.Background(), "acme.pdf")
	assert.ErrorIs(t, err, stop)
}

func TestProcessFileOutcomes(t *testing.T) {
	rec := &memRecorder{}
	p := NewProcessor(files(), newExtractor(t), nil, WithRecorder(rec))

	res, err := p.ProcessFile(context.Background(), "other.pdf")
	assert.ErrorIs(t, err, common.ErrUnknownVendor)
	assert.Equal(t, constants.DocumentStatusUnknownVendor, res.Status)

	res, err = p.ProcessFile(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, common.ErrDocumentUnreadable)
	assert.Equal(t, constants.DocumentStatusFailed, res.Status)
	assert.Empty(t, rec.invoices)

	rec.err = errors.New("database is locked")
	res, err = p.ProcessFile(context.Background(), "acme.pdf")
	assert.ErrorIs(t, err, rec.err)
	assert.Equal(t, constants.DocumentStatusFailed, res.Status)
}

func TestProcessFileKeepsCallerRunID(t *testing.T) {
	p := NewProcessor(files(), newExtractor(t), nil)

	ctx := common.WithRunID(context.Background(), "run-42")
	res, err := p.ProcessFile(ctx, "acme.pdf")
	require.NoError(t, err)
	assert.Equal(t, "run-42", res.RunID)
}
