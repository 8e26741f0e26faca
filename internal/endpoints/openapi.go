package endpoints

import (
	"context"
	"fmt"
	"sort"
	"strings"

	crud "github.com/goliatone/go-crud"
	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/openapi"
	"github.com/goliatone/go-dyncms/internal/validation"
	"github.com/google/uuid"
)

const DocumentTitle = "Dynamic Content API"

// BuildOpenAPI describes every endpoint. Each content type contributes one
// component schema. Endpoints whose content type is missing are skipped.
func BuildOpenAPI(version string, endpoints []*Endpoint, types []*contenttypes.ContentType, registry *fields.Registry) *openapi.Document {
	if version == "" {
		version = "1.0.0"
	}
	doc := openapi.NewDocument(DocumentTitle, version)
	byID := make(map[uuid.UUID]*contenttypes.ContentType, len(types))
	for _, ct := range types {
		if ct == nil {
			continue
		}
		byID[ct.ID] = ct
		doc.AddSchema(ComponentName(ct.Slug), validation.Schema(ct, registry))
	}

	exposed := []string{}
	for _, endpoint := range endpoints {
		if endpoint == nil {
			continue
		}
		ct, ok := byID[endpoint.ContentTypeID]
		if !ok {
			continue
		}
		doc.AddOperation(endpoint.Path, string(endpoint.Method), operationFor(endpoint, ct))
		exposed = append(exposed, ct.Slug)
	}
	sort.Strings(exposed)
	doc.SetExtension("dyncms", map[string]any{"content_types": exposed})
	return doc
}

func operationFor(endpoint *Endpoint, ct *contenttypes.ContentType) openapi.Operation {
	op := openapi.Operation{
		OperationID: fmt.Sprintf("%s_%s", strings.ToLower(string(endpoint.Method)), strings.ReplaceAll(ct.Slug, "-", "_")),
		Tags:        []string{ct.Name},
		SchemaRef:   ComponentName(ct.Slug),
		Responses:   map[string]openapi.Response{"200": {Description: "OK"}},
	}
	switch endpoint.Method {
	case MethodGet:
		op.Summary = "List " + ct.Name + " items"
		op.List = true
	case MethodPost:
		op.Summary = "Create a " + ct.Name + " item"
		op.Responses["201"] = openapi.Response{Description: "Created"}
		op.Responses["422"] = openapi.Response{Description: "Validation failed"}
	case MethodPut:
		op.Summary = "Update a " + ct.Name + " item"
		op.Responses["422"] = openapi.Response{Description: "Validation failed"}
	case MethodDelete:
		op.Summary = "Delete a " + ct.Name + " item"
		op.SchemaRef = ""
		op.Responses = map[string]openapi.Response{"204": {Description: "Deleted"}}
	}
	return op
}

// ComponentName turns a slug into a PascalCase schema name.
func ComponentName(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// SchemaRegistry receives per content type documents.
type SchemaRegistry interface {
	Register(ctx context.Context, resource string, doc map[string]any) error
}

// CRUDRegistry stores documents in the go-crud schema registry.
type CRUDRegistry struct{}

func (CRUDRegistry) Register(_ context.Context, resource string, doc map[string]any) error {
	if ok := crud.RegisterSchemaDocument(resource, resource+"s", doc); !ok {
		return fmt.Errorf("crud registry rejected document for %s", resource)
	}
	return nil
}

// PublishSchemas registers one OpenAPI document per content type, scoped to
// that type's endpoints.
func PublishSchemas(ctx context.Context, registry SchemaRegistry, version string, endpoints []*Endpoint, types []*contenttypes.ContentType, fieldRegistry *fields.Registry) error {
	if registry == nil {
		return nil
	}
	for _, ct := range types {
		if ct == nil {
			continue
		}
		scoped := make([]*Endpoint, 0, 1)
		for _, endpoint := range endpoints {
			if endpoint != nil && endpoint.ContentTypeID == ct.ID {
				scoped = append(scoped, endpoint)
			}
		}
		doc := BuildOpenAPI(version, scoped, []*contenttypes.ContentType{ct}, fieldRegistry)
		if err := registry.Register(ctx, ct.Slug, doc.AsMap()); err != nil {
			return err
		}
	}
	return nil
}
