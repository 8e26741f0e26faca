// Package validation exports content types as JSON Schema documents and
// validates raw record payloads against them.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// Issue is a single payload failure.
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// PayloadError carries every issue found in a payload.
type PayloadError struct {
	Issues []Issue
	Cause  error
}

func (e *PayloadError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadError) Unwrap() error { return ErrSchemaValidation }

// ToValidationError maps issues onto field names. Issues not tied to a
// property land on the top-level "payload" key.
func (e *PayloadError) ToValidationError() *domain.ValidationError {
	messages := map[string]string{}
	for _, issue := range e.Issues {
		key := strings.Trim(issue.Location, "/#")
		if idx := strings.Index(key, "/"); idx >= 0 {
			key = key[:idx]
		}
		if key == "" {
			key = "payload"
		}
		key = strings.NewReplacer("~1", "/", "~0", "~").Replace(key)
		if _, exists := messages[key]; !exists {
			messages[key] = issue.Message
		}
	}
	if len(messages) == 0 {
		return domain.NewValidationError("payload", e.Error())
	}
	return domain.NewFieldErrors(messages)
}

// Schema builds the JSON Schema of a record payload for ct. The property
// type follows each field definition's value kind, so registered extension
// types are covered without changes here. Unknown keys are allowed because
// removed fields leave orphaned keys behind.
func Schema(ct *contenttypes.ContentType, registry *fields.Registry) map[string]any {
	if registry == nil {
		registry = fields.Default()
	}
	properties := map[string]any{}
	required := []string{}
	if ct != nil {
		for _, field := range ct.Fields {
			properties[field.Name] = propertySchema(field, registry)
			if field.Required {
				required = append(required, field.Name)
			}
		}
	}
	schema := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
	if ct != nil {
		schema["title"] = ct.Name
		schema["x-dyncms"] = map[string]any{
			"content_type":    ct.Slug,
			"content_type_id": ct.ID.String(),
		}
	}
	if len(required) > 0 {
		sort.Strings(required)
		schema["required"] = required
	}
	return schema
}

func propertySchema(field fields.Field, registry *fields.Registry) map[string]any {
	def, ok := registry.Lookup(field.Type)
	if !ok {
		return map[string]any{}
	}
	prop := map[string]any{
		"title":     field.Name,
		"x-control": string(def.Control),
		"x-type":    string(field.Type),
	}
	switch def.Kind {
	case fields.KindNumber:
		prop["type"] = []any{"number", "string", "null"}
		prop["pattern"] = `^\d*$`
	case fields.KindBool:
		prop["type"] = []any{"boolean", "string", "null"}
	case fields.KindDate:
		prop["type"] = []any{"string", "null"}
		prop["format"] = "date-time"
	default:
		prop["type"] = []any{"string", "null"}
	}
	switch field.Type {
	case fields.TypeSelect:
		if len(field.Options) > 0 {
			enum := make([]any, 0, len(field.Options)+2)
			for _, option := range field.Options {
				enum = append(enum, option)
			}
			prop["enum"] = append(enum, "", nil)
		}
	case fields.TypeRelation:
		if target := fields.RelationTarget(field); target != "" {
			prop["x-relation"] = target
		}
	}
	return prop
}

// Compile checks that schema is a valid draft 2020-12 document.
func Compile(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return compiled, nil
}

// ValidatePayload checks a raw JSON payload against ct's schema. A failure
// is returned as *domain.ValidationError keyed by field name.
func ValidatePayload(ct *contenttypes.ContentType, registry *fields.Registry, payload map[string]any) error {
	compiled, err := Compile(Schema(ct, registry))
	if err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if err := compiled.Validate(normalizePayload(payload)); err != nil {
		perr := &PayloadError{Issues: Issues(err), Cause: err}
		return perr.ToValidationError()
	}
	return nil
}

// Issues flattens a jsonschema error tree into leaf issues.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []Issue{{Message: err.Error()}}
	}
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}

// normalizePayload round-trips through JSON so Go numeric types match what
// the validator expects.
func normalizePayload(payload map[string]any) any {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return payload
	}
	var out any
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	if err := decoder.Decode(&out); err != nil {
		return payload
	}
	return out
}
