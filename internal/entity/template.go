package entity

import "github.com/joseph-ayodele/invoices-tracker/constants"

// Template is the per-vendor extraction template as stored on disk.
// Pattern fields are RE2 regular expressions kept as opaque strings; an
// empty pattern means the field is never extracted.
type Template struct {
	Name                 string          `json:"name" yaml:"name"`
	Identifier           string          `json:"identifier" yaml:"identifier"`
	MultipleInvoices     bool            `json:"multiple_invoices,omitempty" yaml:"multiple_invoices,omitempty"`
	InvoiceSeparator     string          `json:"invoice_separator,omitempty" yaml:"invoice_separator,omitempty"`
	DatePattern          string          `json:"date_pattern,omitempty" yaml:"date_pattern,omitempty"`
	DateFormat           string          `json:"date_format,omitempty" yaml:"date_format,omitempty"`
	JobNamePattern       string          `json:"job_name_pattern,omitempty" yaml:"job_name_pattern,omitempty"`
	TotalCostPattern     string          `json:"total_cost_pattern,omitempty" yaml:"total_cost_pattern,omitempty"`
	InvoiceNumberPattern string          `json:"invoice_number_pattern,omitempty" yaml:"invoice_number_pattern,omitempty"`
	LineItemConfig       *LineItemConfig `json:"line_item_config,omitempty" yaml:"line_item_config,omitempty"`
}

// LineItemConfig configures line-item extraction for one vendor.
type LineItemConfig struct {
	ExtractionMethod constants.ExtractionMethod `json:"extraction_method" yaml:"extraction_method"`
	TableSettings    map[string]any             `json:"table_settings,omitempty" yaml:"table_settings,omitempty"`
	HasHeader        *bool                      `json:"has_header,omitempty" yaml:"has_header,omitempty"`
	ColumnMap        map[string]int             `json:"column_map,omitempty" yaml:"column_map,omitempty"`
	MinColumns       int                        `json:"min_columns,omitempty" yaml:"min_columns,omitempty"`
	TableIdentifier  string                     `json:"table_identifier,omitempty" yaml:"table_identifier,omitempty"`
	ItemPattern      string                     `json:"item_pattern,omitempty" yaml:"item_pattern,omitempty"`
}

// DisplayName is the supply house written on extracted records.
func (t *Template) DisplayName() string {
	if t == nil || t.Name == "" {
		return constants.UnknownVendor
	}
	return t.Name
}

// EffectiveDateFormat returns the strptime layout used for the date field.
func (t *Template) EffectiveDateFormat() string {
	if t.DateFormat == "" {
		return constants.DefaultDateFormat
	}
	return t.DateFormat
}

// Method returns the configured strategy; table is the default.
func (c *LineItemConfig) Method() constants.ExtractionMethod {
	if c.ExtractionMethod == "" {
		return constants.ExtractionTable
	}
	return c.ExtractionMethod
}

// Header reports whether the first row of a line-item table is a header.
// Absent means true.
func (c *LineItemConfig) Header() bool {
	if c.HasHeader == nil {
		return true
	}
	return *c.HasHeader
}

// EffectiveMinColumns returns the non-empty cell threshold for table detection.
func (c *LineItemConfig) EffectiveMinColumns() int {
	if c.MinColumns <= 0 {
		return constants.DefaultMinColumns
	}
	return c.MinColumns
}

// Clone returns a deep copy so training sessions never share maps with a stored template.
func (t Template) Clone() Template {
	if t.LineItemConfig == nil {
		return t
	}
	lc := *t.LineItemConfig
	if lc.HasHeader != nil {
		h := *lc.HasHeader
		lc.HasHeader = &h
	}
	if lc.ColumnMap != nil {
		lc.ColumnMap = make(map[string]int, len(t.LineItemConfig.ColumnMap))
		for k, v := range t.LineItemConfig.ColumnMap {
			lc.ColumnMap[k] = v
		}
	}
	if lc.TableSettings != nil {
		lc.TableSettings = make(map[string]any, len(t.LineItemConfig.TableSettings))
		for k, v := range t.LineItemConfig.TableSettings {
			lc.TableSettings[k] = v
		}
	}
	t.LineItemConfig = &lc
	return t
}
