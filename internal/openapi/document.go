// Package openapi assembles the OpenAPI description of the generated
// content endpoints.
package openapi

import (
	"sort"
	"strings"
)

const Version = "3.1.0"

// Document is the subset of OpenAPI the engine emits.
type Document struct {
	OpenAPI    string                          `json:"openapi"`
	Info       Info                            `json:"info"`
	Paths      map[string]map[string]Operation `json:"paths"`
	Components Components                      `json:"components"`
	Extensions map[string]any                  `json:"-"`
}

type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type Components struct {
	Schemas map[string]any `json:"schemas,omitempty"`
}

// Operation describes one method on one path.
type Operation struct {
	OperationID string              `json:"operationId"`
	Summary     string              `json:"summary,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	SchemaRef   string              `json:"-"`
	List        bool                `json:"-"`
	Responses   map[string]Response `json:"responses"`
}

type Response struct {
	Description string `json:"description"`
}

func NewDocument(title, version string) *Document {
	return &Document{
		OpenAPI:    Version,
		Info:       Info{Title: title, Version: version},
		Paths:      map[string]map[string]Operation{},
		Components: Components{Schemas: map[string]any{}},
		Extensions: map[string]any{},
	}
}

// AddSchema registers a component schema under name.
func (d *Document) AddSchema(name string, schema map[string]any) {
	if d == nil || name == "" || schema == nil {
		return
	}
	if d.Components.Schemas == nil {
		d.Components.Schemas = map[string]any{}
	}
	d.Components.Schemas[name] = schema
}

// AddOperation attaches op to path under the lowercased method. A repeated
// path and method pair replaces the earlier operation.
func (d *Document) AddOperation(path, method string, op Operation) {
	if d == nil || path == "" || method == "" {
		return
	}
	if d.Paths == nil {
		d.Paths = map[string]map[string]Operation{}
	}
	ops := d.Paths[path]
	if ops == nil {
		ops = map[string]Operation{}
		d.Paths[path] = ops
	}
	if op.Responses == nil {
		op.Responses = map[string]Response{"200": {Description: "OK"}}
	}
	ops[strings.ToLower(method)] = op
}

// SetExtension sets a vendor extension. Keys are prefixed with "x-" when
// they are not already.
func (d *Document) SetExtension(key string, value any) {
	if d == nil || key == "" {
		return
	}
	if !strings.HasPrefix(key, "x-") {
		key = "x-" + key
	}
	if d.Extensions == nil {
		d.Extensions = map[string]any{}
	}
	d.Extensions[key] = value
}

// PathNames returns every path in sorted order.
func (d *Document) PathNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Paths))
	for name := range d.Paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AsMap renders the document as a plain map, the shape schema registries
// store.
func (d *Document) AsMap() map[string]any {
	if d == nil {
		return nil
	}
	paths := map[string]any{}
	for path, ops := range d.Paths {
		rendered := map[string]any{}
		for method, op := range ops {
			rendered[method] = op.asMap()
		}
		paths[path] = rendered
	}
	out := map[string]any{
		"openapi": d.OpenAPI,
		"info": map[string]any{
			"title":   d.Info.Title,
			"version": d.Info.Version,
		},
		"paths": paths,
	}
	if len(d.Components.Schemas) > 0 {
		out["components"] = map[string]any{"schemas": d.Components.Schemas}
	}
	for key, value := range d.Extensions {
		out[key] = value
	}
	return out
}

func (op Operation) asMap() map[string]any {
	responses := map[string]any{}
	for code, resp := range op.Responses {
		entry := map[string]any{"description": resp.Description}
		if code == "200" && op.SchemaRef != "" {
			schema := map[string]any{"$ref": "#/components/schemas/" + op.SchemaRef}
			if op.List {
				schema = map[string]any{"type": "array", "items": schema}
			}
			entry["content"] = map[string]any{
				"application/json": map[string]any{"schema": schema},
			}
		}
		responses[code] = entry
	}
	out := map[string]any{
		"operationId": op.OperationID,
		"responses":   responses,
	}
	if op.Summary != "" {
		out["summary"] = op.Summary
	}
	if len(op.Tags) > 0 {
		out["tags"] = append([]string(nil), op.Tags...)
	}
	return out
}
