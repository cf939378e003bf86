package extract

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/document"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

// ExtractTable turns the tables of every page into line items. pages holds
// the detected tables per page, in page order.
func (e *Extractor) ExtractTable(pages [][]document.Table, header entity.HeaderRecord, cfg *entity.LineItemConfig) []entity.LineItem {
	if cfg == nil {
		return nil
	}
	log := e.logger.With("vendor", header.SupplyHouse, "method", constants.ExtractionTable)

	var items []entity.LineItem
	for page, tables := range pages {
		for ti, table := range tables {
			if !Qualifies(table, cfg) {
				log.Debug("lineitems.table.skip", "page", page, "table", ti, "rows", len(table))
				continue
			}
			rows := table
			if cfg.Header() {
				rows = rows[1:]
			}
			before := len(items)
			for _, row := range rows {
				if blankRow(row) {
					continue
				}
				item := rowItem(row, cfg.ColumnMap, log)
				if !item.Valid() {
					continue
				}
				item.Stamp(header)
				items = append(items, item)
			}
			log.Debug("lineitems.table.ok", "page", page, "table", ti, "items", len(items)-before)
		}
	}
	return items
}

// Qualifies reports whether table looks like the line-item table: the
// configured table identifier occurs in one of the first three rows or,
// without an identifier, one of those rows has at least min_columns
// non-empty cells. Tables with fewer than two rows never qualify.
func Qualifies(table document.Table, cfg *entity.LineItemConfig) bool {
	if len(table) < 2 {
		return false
	}
	head := table[:min(3, len(table))]

	if cfg.TableIdentifier != "" {
		for _, row := range head {
			for _, cell := range row {
				if cell != nil && strings.Contains(*cell, cfg.TableIdentifier) {
					return true
				}
			}
		}
		return false
	}

	need := cfg.EffectiveMinColumns()
	for _, row := range head {
		n := 0
		for _, cell := range row {
			if cell != nil && strings.TrimSpace(*cell) != "" {
				n++
			}
		}
		if n >= need {
			return true
		}
	}
	return false
}

func blankRow(row []*string) bool {
	for _, cell := range row {
		if cell != nil && strings.TrimSpace(*cell) != "" {
			return false
		}
	}
	return true
}

func rowItem(row []*string, columns map[string]int, log *slog.Logger) entity.LineItem {
	values := make(map[string]string, len(columns))
	for field, idx := range columns {
		if idx < 0 || idx >= len(row) || row[idx] == nil {
			continue
		}
		values[field] = *row[idx]
	}
	return buildItem(values, log)
}

// buildItem fills a line item from raw field values keyed by field name.
// Numeric values that do not parse keep their default.
func buildItem(values map[string]string, log *slog.Logger) entity.LineItem {
	item := entity.NewLineItem()
	for field, raw := range values {
		raw = strings.TrimSpace(raw)
		switch field {
		case constants.FieldPartNumber:
			item.PartNumber = raw
		case constants.FieldOriginalDescription:
			item.OriginalDescription = raw
		case constants.FieldCustomDescription:
			item.CustomDescription = raw
		default:
			if !constants.IsNumericField(field) || raw == "" {
				continue
			}
			v, err := ParseAmount(raw)
			if err != nil {
				log.Warn("lineitems.value_parse_failed", "field", field, "value", raw, "error", err)
				continue
			}
			switch field {
			case constants.FieldQuantity:
				item.Quantity = v
			case constants.FieldUnitPrice:
				item.UnitPrice = v
			default:
				item.TotalPrice = v
			}
		}
	}
	if item.CustomDescription == "" {
		item.CustomDescription = item.OriginalDescription
	}
	return item
}
