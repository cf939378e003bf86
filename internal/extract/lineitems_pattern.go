package extract

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/entity"
)

// groupFields maps item pattern group names to line-item fields.
var groupFields = map[string]string{
	constants.FieldPartNumber:          constants.FieldPartNumber,
	constants.GroupDescription:         constants.FieldOriginalDescription,
	constants.FieldOriginalDescription: constants.FieldOriginalDescription,
	constants.FieldCustomDescription:   constants.FieldCustomDescription,
	constants.FieldQuantity:            constants.FieldQuantity,
	constants.FieldUnitPrice:           constants.FieldUnitPrice,
	constants.FieldTotalPrice:          constants.FieldTotalPrice,
}

// ExtractPattern runs the item pattern over the full text; every match is a
// candidate item. A match that cannot be converted is logged and skipped.
func (e *Extractor) ExtractPattern(text string, header entity.HeaderRecord, re *regexp.Regexp) []entity.LineItem {
	if re == nil {
		return nil
	}
	log := e.logger.With("vendor", header.SupplyHouse, "method", constants.ExtractionPattern)

	names := re.SubexpNames()
	var items []entity.LineItem
	for i, m := range re.FindAllStringSubmatch(text, -1) {
		item, err := matchItem(names, m, log)
		if err != nil {
			log.Warn("lineitems.pattern.bad_match", "match", i, "error", err)
			continue
		}
		if !item.Valid() {
			continue
		}
		item.Stamp(header)
		items = append(items, item)
	}
	log.Debug("lineitems.pattern.ok", "items", len(items))
	return items
}

func matchItem(names, m []string, log *slog.Logger) (item entity.LineItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("convert match: %v", r)
		}
	}()
	values := make(map[string]string, len(names))
	for gi, name := range names {
		field, ok := groupFields[name]
		if !ok || gi >= len(m) {
			continue
		}
		values[field] = m[gi]
	}
	return buildItem(values, log), nil
}
