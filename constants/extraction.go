package constants

// ExtractionMethod selects the line-item strategy of a template.
type ExtractionMethod string

const (
	ExtractionTable   ExtractionMethod = "table"
	ExtractionPattern ExtractionMethod = "pattern"
)

// Mode selects which records are produced per document.
type Mode string

const (
	ModeSummary Mode = "summary"
	ModeItems   Mode = "items"
	ModeFull    Mode = "full"
)

// ParseMode returns the Mode for s, defaulting to ModeFull.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeSummary, ModeItems, ModeFull:
		return Mode(s), true
	case "":
		return ModeFull, true
	}
	return ModeFull, false
}

// Line-item field keys used by column maps and item pattern group names.
const (
	FieldPartNumber          = "part_number"
	FieldOriginalDescription = "original_description"
	FieldCustomDescription   = "custom_description"
	FieldQuantity            = "quantity"
	FieldUnitPrice           = "unit_price"
	FieldTotalPrice          = "total_price"

	// GroupDescription is the item pattern group that fills original_description.
	GroupDescription = "description"
)

// ItemFields are the five trainable line-item fields, in prompt order.
var ItemFields = []string{
	FieldPartNumber,
	FieldOriginalDescription,
	FieldQuantity,
	FieldUnitPrice,
	FieldTotalPrice,
}

// IsNumericField reports whether a line-item field holds a number.
func IsNumericField(field string) bool {
	switch field {
	case FieldQuantity, FieldUnitPrice, FieldTotalPrice:
		return true
	}
	return false
}

const (
	DefaultDateFormat = "%m/%d/%Y"
	DefaultMinColumns = 3
	UnknownVendor     = "Unknown Vendor"
)
