package ingest

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const payloadSchemaURL = "schema://quizmark/import.json"

var payloadSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tests": map[string]any{
			"type":  "array",
			"items": map[string]any{"$ref": "#/$defs/test"},
		},
		"classes": map[string]any{
			"type":  "array",
			"items": map[string]any{"$ref": "#/$defs/class"},
		},
		"submissions": map[string]any{
			"type":  "array",
			"items": map[string]any{"$ref": "#/$defs/submission"},
		},
	},
	"additionalProperties": false,
	"$defs": map[string]any{
		"id": map[string]any{"type": "string", "minLength": 1},
		"test": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":       map[string]any{"$ref": "#/$defs/id"},
				"title":    map[string]any{"type": "string"},
				"class_id": map[string]any{"type": "string"},
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":             map[string]any{"$ref": "#/$defs/id"},
							"standard":       map[string]any{"$ref": "#/$defs/id"},
							"correct_answer": map[string]any{"type": "integer", "minimum": 0},
						},
						"required": []any{"id", "standard", "correct_answer"},
					},
				},
			},
			"required": []any{"id", "questions"},
		},
		"class": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"$ref": "#/$defs/id"},
				"student_ids": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/id"},
				},
			},
			"required": []any{"id", "student_ids"},
		},
		"submission": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":           map[string]any{"type": "string"},
				"student_id":   map[string]any{"$ref": "#/$defs/id"},
				"test_id":      map[string]any{"$ref": "#/$defs/id"},
				"submitted_at": map[string]any{"type": "string"},
				"score":        map[string]any{"type": "integer"},
				"standards_breakdown": map[string]any{
					"type": "object",
					"additionalProperties": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"correct": map[string]any{"type": "integer"},
							"total":   map[string]any{"type": "integer"},
						},
						"required": []any{"correct", "total"},
					},
				},
				"answers": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question_id":     map[string]any{"$ref": "#/$defs/id"},
							"selected_answer": map[string]any{"type": "integer"},
						},
						"required": []any{"question_id", "selected_answer"},
					},
				},
			},
			"required": []any{"student_id", "test_id"},
			"oneOf": []any{
				map[string]any{"required": []any{"score", "standards_breakdown"}},
				map[string]any{"required": []any{"answers"}},
			},
		},
	},
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler wants a decoded JSON value, so round-trip the Go literal.
	raw, err := json.Marshal(payloadSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var def any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(payloadSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(payloadSchemaURL)
})

// validate checks raw JSON against the import schema.
func validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", ErrInvalidPayload, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile import schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}
