package httpbridge

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// createPostSchema checks shape only. Empty strings are valid posts.
var createPostSchema = map[string]interface{}{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "object",
	"properties": map[string]interface{}{
		"title": map[string]interface{}{"type": "string"},
		"body":  map[string]interface{}{"type": "string"},
	},
	"required":             []interface{}{"title", "body"},
	"additionalProperties": false,
}

func compilePostSchema() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(createPostSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile post schema: %w", err)
	}
	return schema, nil
}

// validateCreatePost returns a readable list of violations, or nil.
func validateCreatePost(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			violations[i] = e.String()
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(violations, "; "))
	}

	return nil
}
