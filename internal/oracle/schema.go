package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const spanAnswerSchema = `{
  "type": "object",
  "required": ["answer", "score", "start", "end"],
  "properties": {
    "answer": {"type": "string"},
    "score":  {"type": "number", "minimum": 0, "maximum": 1},
    "start":  {"type": "integer", "minimum": 0},
    "end":    {"type": "integer", "minimum": 0}
  }
}`

const quotedAnswerSchema = `{
  "type": "object",
  "required": ["answer", "score"],
  "properties": {
    "answer": {"type": "string"},
    "score":  {"type": "number"}
  }
}`

var (
	spanAnswer   = jsonschema.MustCompileString("span_answer.json", spanAnswerSchema)
	quotedAnswer = jsonschema.MustCompileString("quoted_answer.json", quotedAnswerSchema)
)

// validateJSON checks raw JSON against schema.
func validateJSON(schema *jsonschema.Schema, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
