package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// analysisSchema constrains the model's raw JSON before normalization.
// Keeping it permissive on optional fields but strict on shapes catches the
// common failure mode of the model returning prose or a half-formed object.
const analysisSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["requirements", "risks"],
  "properties": {
    "requirements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "level": {"type": "string"},
          "text": {"type": "string", "minLength": 1}
        }
      }
    },
    "risks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "severity": {"type": "string"},
          "title": {"type": "string", "minLength": 1},
          "detail": {"type": "string"}
        }
      }
    },
    "clarifications": {
      "type": "array",
      "items": {
        "anyOf": [
          {"type": "string", "minLength": 1},
          {
            "type": "object",
            "required": ["question"],
            "properties": {"question": {"type": "string", "minLength": 1}}
          }
        ]
      }
    },
    "outline": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "bullets": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("analysis.json", analysisSchema)

// validatePayload checks the decoded model output against the schema.
func validatePayload(payload any) error {
	if err := compiledSchema.Validate(payload); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("analysis payload rejected: %s", strings.TrimSpace(ve.Error()))
		}
		return fmt.Errorf("analysis payload rejected: %w", err)
	}
	return nil
}
