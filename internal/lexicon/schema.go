package lexicon

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/waste-estimator/constants"
)

// BuildLexiconJSONSchema returns the JSON-Schema a lexicon document must satisfy.
func BuildLexiconJSONSchema() map[string]any {
	entry := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"keyword":         map[string]any{"type": "string", "minLength": 1},
			"weight_per_unit": map[string]any{"type": "number", "minimum": 0},
			"unit":            map[string]any{"type": "string", "enum": constants.UnitsAsStringSlice()},
			"label":           map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"keyword", "weight_per_unit", "unit", "label"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"version":   map[string]any{"type": "integer", "minimum": 1},
			"materials": map[string]any{"type": "array", "minItems": 1, "items": entry},
		},
		"required": []string{"materials"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("lexicon.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("lexicon.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
