package validation_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/validation"
	"github.com/google/uuid"
)

func blogPost() *contenttypes.ContentType {
	return &contenttypes.ContentType{
		ID:   uuid.New(),
		Name: "Blog Post",
		Slug: "blog-post",
		Fields: []fields.Field{
			{ID: "f1", Name: "Title", Type: fields.TypeText, Required: true},
			{ID: "f2", Name: "Views", Type: fields.TypeNumber},
			{ID: "f3", Name: "Status", Type: fields.TypeSelect, Options: []string{"draft", "live"}},
		},
	}
}

func TestSchemaCompiles(t *testing.T) {
	schema := validation.Schema(blogPost(), nil)
	if _, err := validation.Compile(schema); err != nil {
		t.Fatalf("compile: %v", err)
	}
	required, ok := schema["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "Title" {
		t.Fatalf("unexpected required list: %#v", schema["required"])
	}
}

func TestValidatePayloadAcceptsValidRecord(t *testing.T) {
	payload := map[string]any{"Title": "Hello", "Views": "12", "Status": "live", "legacy": 4}
	if err := validation.ValidatePayload(blogPost(), nil, payload); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidatePayloadReportsMissingRequired(t *testing.T) {
	err := validation.ValidatePayload(blogPost(), nil, map[string]any{"Views": 3})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidatePayloadRejectsBadOption(t *testing.T) {
	err := validation.ValidatePayload(blogPost(), nil, map[string]any{"Title": "x", "Status": "archived"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.FieldMessages()["Status"]; !ok {
		t.Fatalf("expected Status issue, got %#v", verr.FieldMessages())
	}
}

func TestValidatePayloadRejectsNonDigitString(t *testing.T) {
	err := validation.ValidatePayload(blogPost(), nil, map[string]any{"Title": "x", "Views": "12a"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.FieldMessages()["Views"]; !ok {
		t.Fatalf("expected Views issue, got %#v", verr.FieldMessages())
	}
}
