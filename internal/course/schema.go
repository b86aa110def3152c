package course

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://coursewalk/course.json"

// documentSchema is the structural contract for course files. Semantic
// checks (quiz answer bounds, version) run after decoding.
var documentSchema = map[string]any{
	"type":     "object",
	"required": []any{"config", "sections"},
	"properties": map[string]any{
		"config": map[string]any{
			"type":     "object",
			"required": []any{"storagePrefix"},
			"properties": map[string]any{
				"title":         map[string]any{"type": "string"},
				"storagePrefix": map[string]any{"type": "string", "minLength": 1},
				"version":       map[string]any{"type": "string"},
			},
		},
		"sections": map[string]any{
			"type":  "array",
			"items": map[string]any{"$ref": "#/$defs/section"},
		},
		"practice": map[string]any{"type": "object"},
	},
	"$defs": map[string]any{
		"id": map[string]any{
			"type": []any{"string", "integer"},
		},
		"section": map[string]any{
			"type":     "object",
			"required": []any{"id", "title", "subsections"},
			"properties": map[string]any{
				"id":    map[string]any{"$ref": "#/$defs/id"},
				"title": map[string]any{"type": "string"},
				"subsections": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/subsection"},
				},
			},
		},
		"subsection": map[string]any{
			"type":     "object",
			"required": []any{"id", "title", "conversations"},
			"properties": map[string]any{
				"id":    map[string]any{"$ref": "#/$defs/id"},
				"title": map[string]any{"type": "string"},
				"conversations": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/conversation"},
				},
			},
		},
		"conversation": map[string]any{
			"type":     "object",
			"required": []any{"speaker", "text"},
			"properties": map[string]any{
				"speaker": map[string]any{"type": "string"},
				"text":    map[string]any{"type": "string"},
				"sidebarContent": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/$defs/media"},
				},
			},
		},
		"media": map[string]any{
			"type":     "object",
			"required": []any{"type"},
			"properties": map[string]any{
				"type": map[string]any{"enum": []any{"image", "video", "quiz"}},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// Round-trip through JSON so the compiler sees plain decoded values.
		b, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal course schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(b, &def); err != nil {
			compileErr = fmt.Errorf("parse course schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add course schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks a decoded JSON document against the course schema.
func validateDocument(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
