package backend

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// generateSchema is the JSON Schema every generation response must satisfy
// before the body is accepted. Anything else — including in-band error
// objects — is rejected whole.
var generateSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questions": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"mcq_questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{"type": "string"},
							"options": map[string]any{
								"type":                 "object",
								"additionalProperties": map[string]any{"type": "string"},
							},
							"answer":      map[string]any{"type": "string"},
							"explanation": map[string]any{"type": "string"},
							"difficulty":  map[string]any{"type": "integer"},
						},
						"required": []any{"question", "options", "answer"},
					},
				},
				"subjective_questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question":      map[string]any{"type": "string"},
							"sample_answer": map[string]any{"type": "string"},
							"keywords": map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
							"difficulty": map[string]any{"type": "integer"},
						},
						"required": []any{"question"},
					},
				},
				"total_questions": map[string]any{"type": "integer"},
			},
			"required": []any{"mcq_questions", "subjective_questions"},
		},
		"extracted_text_preview": map[string]any{"type": "string"},
		"total_characters":       map[string]any{"type": "integer", "minimum": 0},
		"difficulty_level":       map[string]any{"type": "integer"},
	},
	"required": []any{"questions", "total_characters"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateGenerateResponse validates raw JSON against generateSchema.
func validateGenerateResponse(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema compiles generateSchema once and caches the result.
func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not
		// raw bytes. Marshal then unmarshal to get a clean representation.
		defBytes, err := json.Marshal(generateSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://question-set.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}
