package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/document"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
	"github.com/joseph-ayodele/invoices-tracker/internal/templates"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newExtractor(t *testing.T, tpls map[string]entity.Template) *Extractor {
	t.Helper()
	store, err := templates.Open(templates.NewMemoryBackend(tpls), nil)
	require.NoError(t, err)
	return New(store, nil, WithClock(func() time.Time { return fixedNow }))
}

func compiled(t *testing.T, vendor string, tpl entity.Template) *templates.Compiled {
	t.Helper()
	c, err := templates.Compile(vendor, tpl)
	require.NoError(t, err)
	return c
}

func str(s string) *string { return &s }

func row(cells ...string) []*string {
	out := make([]*string, len(cells))
	for i, c := range cells {
		out[i] = str(c)
	}
	return out
}

func acmeTemplate() entity.Template {
	return entity.Template{
		Identifier:       "ACME SUPPLY",
		DatePattern:      `Date: (\d{2}/\d{2}/\d{4})`,
		TotalCostPattern: `Total: (\$[\d,]+\.\d{2})`,
	}
}

func TestEndToEndHeader(t *testing.T) {
	e := newExtractor(t, map[string]entity.Template{"ACME SUPPLY": acmeTemplate()})
	text := "ACME SUPPLY CO\nDate: 01/02/2024\nTotal: $500.00"

	vendor, ok := e.Identify(text)
	require.True(t, ok)
	assert.Equal(t, "ACME SUPPLY", vendor)

	c, ok := e.Template(vendor)
	require.True(t, ok)
	h := e.ExtractFields(text, c)

	assert.Equal(t, "2024-01-02", h.DateString())
	assert.True(t, decimal.RequireFromString("500.00").Equal(h.TotalCost))
	assert.True(t, h.JobCost.Equal(h.TotalCost))
	assert.Equal(t, "ACME SUPPLY", h.SupplyHouse)
	assert.Empty(t, h.JobName)
	assert.Empty(t, h.InvoiceNumber)
	assert.Equal(t, fixedNow, h.ProcessedDate)
}

func TestIdentifyNeverReturnsAbsentIdentifier(t *testing.T) {
	e := newExtractor(t, map[string]entity.Template{
		"ACME":  {Identifier: "ACME SUPPLY"},
		"Beta":  {Identifier: "BETA PLUMBING"},
		"Blank": {Identifier: "ZZZ"},
	})
	for _, text := range []string{"", "   ", "ACME SUPPL", "acme supply", "BETA  PLUMBING", "Invoice 42"} {
		_, ok := e.Identify(text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestIdentifyPrefersLongestIdentifier(t *testing.T) {
	e := newExtractor(t, map[string]entity.Template{
		"Ferguson":            {Identifier: "FERGUSON"},
		"Ferguson Waterworks": {Identifier: "FERGUSON WATERWORKS"},
	})
	vendor, ok := e.Identify("FERGUSON WATERWORKS #123")
	require.True(t, ok)
	assert.Equal(t, "Ferguson Waterworks", vendor)

	vendor, ok = e.Identify("FERGUSON ENTERPRISES")
	require.True(t, ok)
	assert.Equal(t, "Ferguson", vendor)
}

func TestExtractFieldsParseFailuresKeepDefaults(t *testing.T) {
	e := newExtractor(t, nil)
	c := compiled(t, "ACME", entity.Template{
		Identifier:           "ACME",
		DatePattern:          `Date: (\S+)`,
		DateFormat:           "%Y-%m-%d",
		TotalCostPattern:     `Total: (\S+)`,
		JobNamePattern:       `Job: (.*)`,
		InvoiceNumberPattern: `Invoice #(\w+)`,
	})

	h := e.ExtractFields("Date: 01/02/2024\nTotal: n/a\nJob:   Smith Residence  \nInvoice #A123", c)
	assert.Nil(t, h.Date)
	assert.True(t, h.TotalCost.IsZero())
	assert.Equal(t, "Smith Residence", h.JobName)
	assert.Equal(t, "A123", h.InvoiceNumber)
	assert.Equal(t, "ACME", h.SupplyHouse)

	h = e.ExtractFields("Date: 2024-02-29", c)
	require.NotNil(t, h.Date)
	assert.Equal(t, "2024-02-29", h.DateString())
}

func TestSplit(t *testing.T) {
	none := compiled(t, "A", entity.Template{Identifier: "A"})
	for _, text := range []string{"x", "  one\ntwo  ", "\n\nINVOICE\n\nINVOICE\n"} {
		sections := Split(text, none)
		require.Len(t, sections, 1)
		assert.Equal(t, strings.TrimSpace(text), sections[0])
	}

	// A separator is only used for multi-invoice templates.
	ignored := compiled(t, "A", entity.Template{Identifier: "A", InvoiceSeparator: `-{3,}`})
	assert.Len(t, Split("a\n---\nb", ignored), 1)

	multi := compiled(t, "A", entity.Template{Identifier: "A", MultipleInvoices: true, InvoiceSeparator: `-{3,}`})
	assert.Equal(t, []string{"first", "second", "third"}, Split("---\nfirst\n----\n  \n-----\nsecond\n---\nthird\n", multi))
}

func TestNumericCleaningIdempotent(t *testing.T) {
	want := decimal.RequireFromString("1234.56")
	for _, in := range []string{"$1,234.56", "1234.56", CleanNumeric("$1,234.56")} {
		v, err := ParseAmount(in)
		require.NoError(t, err)
		assert.True(t, want.Equal(v), in)
	}
	assert.Equal(t, "1234.56", CleanNumeric(CleanNumeric("USD 1,234.56")))

	_, err := ParseAmount("n/a")
	assert.Error(t, err)
	_, err = ParseAmount("1.2.3")
	assert.Error(t, err)
}

func tableConfig() *entity.LineItemConfig {
	return &entity.LineItemConfig{
		ExtractionMethod: constants.ExtractionTable,
		ColumnMap: map[string]int{
			constants.FieldPartNumber:          0,
			constants.FieldOriginalDescription: 1,
			constants.FieldQuantity:            2,
			constants.FieldUnitPrice:           3,
		},
	}
}

func TestExtractTableScenario(t *testing.T) {
	e := newExtractor(t, nil)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	header := entity.HeaderRecord{Date: &date, InvoiceNumber: "INV-1", SupplyHouse: "ACME"}
	table := document.Table{row("Part", "Desc", "Qty", "Price"), row("101", "Widget", "2", "10.00")}

	items := e.ExtractTable([][]document.Table{{table}}, header, tableConfig())
	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, "101", it.PartNumber)
	assert.Equal(t, "Widget", it.OriginalDescription)
	assert.Equal(t, "Widget", it.CustomDescription)
	assert.True(t, decimal.NewFromInt(2).Equal(it.Quantity))
	assert.True(t, decimal.NewFromInt(10).Equal(it.UnitPrice))
	assert.True(t, it.TotalPrice.IsZero())
	assert.Equal(t, "2024-01-02", entity.FormatDate(it.Date))
	assert.Equal(t, "INV-1", it.InvoiceNumber)
	assert.Equal(t, "ACME", it.Vendor)
}

func TestExtractTableValidity(t *testing.T) {
	e := newExtractor(t, nil)
	cases := []struct {
		part, price string
		want        bool
	}{
		{"", "0", false},
		{"", "5.00", false},
		{"P-1", "0", false},
		{"P-1", "5.00", true},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q/%q", tc.part, tc.price), func(t *testing.T) {
			table := document.Table{row("Part", "Desc", "Qty", "Price"), row(tc.part, "", "1", tc.price)}
			items := e.ExtractTable([][]document.Table{{table}}, entity.HeaderRecord{}, tableConfig())
			assert.Equal(t, tc.want, len(items) == 1)
		})
	}
}

func TestExtractTableFilters(t *testing.T) {
	e := newExtractor(t, nil)
	cfg := tableConfig()

	single := document.Table{row("101", "Widget", "2", "10.00")}
	assert.Empty(t, e.ExtractTable([][]document.Table{{single}}, entity.HeaderRecord{}, cfg))

	narrow := document.Table{row("101", "10.00"), row("102", "5.00"), row("103", "1.00"), row("104", "Widget", "2", "9.00")}
	assert.False(t, Qualifies(narrow, cfg))
	assert.Empty(t, e.ExtractTable([][]document.Table{{narrow}}, entity.HeaderRecord{}, cfg))

	withID := *cfg
	withID.TableIdentifier = "ITEM NO"
	tagged := document.Table{row("ITEM NO", "DESCRIPTION"), row("101", "Widget", "2", "10.00")}
	assert.True(t, Qualifies(tagged, &withID))
	assert.False(t, Qualifies(document.Table{row("Part", "Desc", "Qty", "Price"), row("101", "Widget", "2", "10.00")}, &withID))
}

func TestExtractTableRows(t *testing.T) {
	e := newExtractor(t, nil)
	noHeader := false
	cfg := tableConfig()
	cfg.HasHeader = &noHeader
	cfg.ColumnMap[constants.FieldTotalPrice] = 4
	cfg.ColumnMap[constants.FieldCustomDescription] = 7

	page1 := document.Table{
		row("101", "Widget", "2", "$10.00", "$20.00"),
		{nil, str("  "), nil},
		row("102", "Gadget", "x", "oops", "1,250.00"),
		{str("103"), nil},
	}
	page2 := document.Table{
		row("201", "Elbow", "", "3.50"),
		row("202", "Tee", "4", "1.25", "5.00", "", "", "Custom tee"),
	}

	items := e.ExtractTable([][]document.Table{{page1}, {}, {page2}}, entity.HeaderRecord{}, cfg)
	require.Len(t, items, 4)
	assert.Equal(t, []string{"101", "102", "201", "202"}, []string{items[0].PartNumber, items[1].PartNumber, items[2].PartNumber, items[3].PartNumber})

	assert.True(t, decimal.NewFromInt(1).Equal(items[1].Quantity))
	assert.True(t, items[1].UnitPrice.IsZero())
	assert.True(t, decimal.RequireFromString("1250").Equal(items[1].TotalPrice))
	assert.True(t, decimal.NewFromInt(1).Equal(items[2].Quantity))
	assert.Equal(t, "Custom tee", items[3].CustomDescription)
	assert.Equal(t, "Tee", items[3].OriginalDescription)
}

func TestExtractPattern(t *testing.T) {
	e := newExtractor(t, nil)
	c := compiled(t, "ACME", entity.Template{
		Identifier: "ACME",
		LineItemConfig: &entity.LineItemConfig{
			ExtractionMethod: constants.ExtractionPattern,
			ItemPattern:      `^(?P<part_number>\S+)[ \t]+(?P<description>.+?)[ \t]+(?P<quantity>\d+)[ \t]+(?P<unit_price>[\d,]*\.\d{2})$`,
		},
	})
	header := entity.HeaderRecord{InvoiceNumber: "77", SupplyHouse: "ACME"}
	text := "ACME SUPPLY\nA-1  Copper pipe  2  10.00\nB-2  Freebie  1  0.00\nC-3  Brass elbow  10  1,002.25\nTotal 1,022.25"

	items := e.ExtractPattern(text, header, c.Item)
	require.Len(t, items, 2)
	assert.Equal(t, "A-1", items[0].PartNumber)
	assert.Equal(t, "Copper pipe", items[0].OriginalDescription)
	assert.Equal(t, "Copper pipe", items[0].CustomDescription)
	assert.True(t, decimal.NewFromInt(2).Equal(items[0].Quantity))
	assert.True(t, decimal.RequireFromString("1002.25").Equal(items[1].UnitPrice))
	assert.True(t, items[1].TotalPrice.IsZero())
	assert.Equal(t, "77", items[1].InvoiceNumber)
	assert.Equal(t, "ACME", items[1].Vendor)
}

func TestExtractPatternAbsentGroupsDefault(t *testing.T) {
	e := newExtractor(t, nil)
	c := compiled(t, "ACME", entity.Template{
		Identifier: "ACME",
		LineItemConfig: &entity.LineItemConfig{
			ExtractionMethod: constants.ExtractionPattern,
			ItemPattern:      `^ITEM (?P<part_number>\S+) @ (?P<unit_price>\S+)$`,
		},
	})
	items := e.ExtractPattern("ITEM X1 @ 4.00\nITEM X2 @ free\nITEM X3 @ 2.50", entity.HeaderRecord{}, c.Item)
	require.Len(t, items, 2)
	assert.Equal(t, "X1", items[0].PartNumber)
	assert.Equal(t, "X3", items[1].PartNumber)
	assert.True(t, decimal.NewFromInt(1).Equal(items[1].Quantity))
	assert.Empty(t, items[1].OriginalDescription)
}

func TestLineItemsFromDocument(t *testing.T) {
	e := newExtractor(t, nil)
	c := compiled(t, "ACME", entity.Template{Identifier: "ACME", LineItemConfig: tableConfig()})
	doc := document.NewTextDocument("inv.txt", []string{
		"ACME SUPPLY\n\nPart    Desc      Qty    Price\n101     Widget    2      10.00\n",
		"Part    Desc      Qty    Price\n102     Gadget    1      4.00\n",
	})

	items, err := e.LineItems(doc, entity.HeaderRecord{SupplyHouse: "ACME"}, c)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "101", items[0].PartNumber)
	assert.Equal(t, "102", items[1].PartNumber)

	none, err := e.LineItems(doc, entity.HeaderRecord{}, compiled(t, "B", entity.Template{Identifier: "B"}))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBuildItemIgnoresUnknownFields(t *testing.T) {
	item := buildItem(map[string]string{
		"part_number": "A-1",
		"colour":      "red",
		"quantity":    "3",
		"unit_price":  "$1,250.00",
	}, slog.Default())

	assert.Equal(t, "A-1", item.PartNumber)
	assert.Equal(t, "3", item.Quantity.String())
	assert.True(t, decimal.RequireFromString("1250").Equal(item.UnitPrice))
	assert.True(t, item.TotalPrice.IsZero())
}
