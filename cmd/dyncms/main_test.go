package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-dyncms/internal/fields"
)

func TestParseFieldFlag(t *testing.T) {
	cases := []struct {
		raw     string
		name     string
		typ      fields.Type
		required bool
		options  []string
	}{
		{raw: "Title:text:required", name: "Title", typ: fields.TypeText, required: true},
		{raw: "Views:Number", name: "Views", typ: fields.TypeNumber},
		{raw: "Status:select::draft|published", name: "Status", typ: fields.TypeSelect, options: []string{"draft", "published"}},
	}
	for _, tc := range cases {
		field, err := parseFieldFlag(tc.raw)
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if field.Name != tc.name || field.Type != tc.typ || field.Required != tc.required || len(field.Options) != len(tc.options) {
			t.Fatalf("%s: unexpected field %+v", tc.raw, field)
		}
		for i, opt := range tc.options {
			if field.Options[i] != opt {
				t.Fatalf("%s: option %d = %q", tc.raw, i, field.Options[i])
			}
		}
	}

	for _, bad := range []string{"Title", ":text", "Title:text:sometimes"} {
		if _, err := parseFieldFlag(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestLoadConfigDefaultsToSQLiteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dyncms.yaml")
	yaml := "database: content.db\nmenus:\n  maxdepth: 3\nfeatures:\n  markdown: false\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	s, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if s.Database != "content.db" {
		t.Fatalf("expected database content.db, got %q", s.Database)
	}
	if s.Engine.StorageProvider() != "bun" {
		t.Fatalf("expected bun storage, got %q", s.Engine.StorageProvider())
	}
	if s.Engine.Menus.MaxDepth != 3 || s.Engine.Features.Markdown {
		t.Fatalf("unexpected engine config: %+v", s.Engine)
	}
	if s.Engine.HTTP.PublicBasePath != "/api" {
		t.Fatalf("expected default public base path, got %q", s.Engine.HTTP.PublicBasePath)
	}
}
