package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

// BuildTemplateFileSchema returns the JSON-Schema of the template file: an
// object keyed by vendor display name.
func BuildTemplateFileSchema() map[string]any {
	pattern := map[string]any{"type": "string"}
	columnFields := append([]string{constants.FieldCustomDescription}, constants.ItemFields...)

	lineItems := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"extraction_method": map[string]any{
				"type": "string",
				"enum": []string{string(constants.ExtractionTable), string(constants.ExtractionPattern)},
			},
			"table_settings": map[string]any{"type": "object"},
			"has_header":     map[string]any{"type": "boolean"},
			"column_map": map[string]any{
				"type":                 "object",
				"propertyNames":        map[string]any{"enum": columnFields},
				"additionalProperties": map[string]any{"type": "integer", "minimum": 0},
			},
			"min_columns":      map[string]any{"type": "integer", "minimum": 0},
			"table_identifier": map[string]any{"type": "string"},
			"item_pattern":     pattern,
		},
	}

	template := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"identifier"},
		"properties": map[string]any{
			"name":                   map[string]any{"type": "string"},
			"identifier":             map[string]any{"type": "string"},
			"multiple_invoices":      map[string]any{"type": "boolean"},
			"invoice_separator":      pattern,
			"date_pattern":           pattern,
			"date_format":            map[string]any{"type": "string"},
			"job_name_pattern":       pattern,
			"total_cost_pattern":     pattern,
			"invoice_number_pattern": pattern,
			"line_item_config":       lineItems,
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": template,
	}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func fileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildTemplateFileSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("templates.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("templates.json")
	})
	return compiledSchema, schemaErr
}

// ValidateDocument validates a decoded template file against the schema.
// doc may come from YAML or JSON; it is normalised through encoding/json
// first so both decoders yield the same value types.
func ValidateDocument(doc any) error {
	schema, err := fileSchema()
	if err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalise document: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("normalise document: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("template file does not match schema: %w", err)
	}
	return nil
}
