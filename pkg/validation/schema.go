package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// menuSchema is the stored shape of a menu document.
const menuSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["restaurantId", "categories"],
  "properties": {
    "restaurantId": {"type": "string", "minLength": 1},
    "slug": {"type": "string"},
    "status": {"enum": ["draft", "published", "archived"]},
    "version": {"type": "integer", "minimum": 0},
    "categories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "order", "items"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "order": {"type": "integer"},
          "items": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "name", "price"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "name": {"type": "string"},
                "price": {"type": ["string", "number"]},
                "isAvailable": {"type": "boolean"},
                "dietaryTags": {"type": ["array", "null"], "items": {"type": "string"}},
                "allergens": {"type": ["array", "null"], "items": {"type": "string"}},
                "spicyLevel": {"type": "integer", "minimum": 0, "maximum": 5}
              }
            }
          }
        }
      }
    }
  }
}`

var menuSchemaLoader = gojsonschema.NewStringLoader(menuSchema)

// SchemaError lists the violations of a document against its schema.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "schema violation: " + strings.Join(e.Violations, "; ")
}

// ValidateMenuDocument checks a decoded menu document against the menu schema.
func ValidateMenuDocument(doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(menuSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate menu: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return &SchemaError{Violations: violations}
}
