package markdown_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/markdown"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/pkg/testsupport"
)

func TestRendererProducesHTML(t *testing.T) {
	r := markdown.NewRenderer(markdown.RenderOptions{})
	html, err := r.RenderString("# Hello\n\nSome *text*.")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<em>text</em>") {
		t.Fatalf("unexpected html %q", html)
	}
}

func TestParseDocumentSplitsFrontmatter(t *testing.T) {
	doc, err := markdown.ParseDocument("post.md", []byte("---\ntitle: Hello\nviews: 3\n---\nBody text\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Meta["title"] != "Hello" {
		t.Fatalf("expected title meta, got %+v", doc.Meta)
	}
	if string(doc.Body) != "Body text" {
		t.Fatalf("unexpected body %q", doc.Body)
	}
}

func TestParseDocumentMatchesGolden(t *testing.T) {
	source := testsupport.Fixture(t, "welcome.md")
	var want struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		Body   string `json:"body"`
	}
	testsupport.Golden(t, "welcome.golden.json", &want)

	doc, err := markdown.ParseDocument("welcome.md", source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Meta["title"] != want.Title || doc.Meta["author"] != want.Author {
		t.Fatalf("unexpected meta %+v", doc.Meta)
	}
	if string(doc.Body) != want.Body {
		t.Fatalf("unexpected body %q", doc.Body)
	}
}

func TestMarkdownFieldRegisters(t *testing.T) {
	registry := fields.Default()
	if err := markdown.Register(registry, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := markdown.Register(registry, nil); !errors.Is(err, fields.ErrDuplicateType) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	value, err := registry.Parse(fields.Field{Name: "Body", Type: markdown.TypeMarkdown}, "## Heading")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value.Text != "## Heading" {
		t.Fatalf("expected source preserved, got %+v", value)
	}
}

func TestLoadDirAndImport(t *testing.T) {
	ctx := context.Background()
	fsys := fstest.MapFS{
		"posts/first.md":        {Data: []byte("---\nTitle: First\nviews: 10\n---\nHello world\n")},
		"posts/second.md":       {Data: []byte("---\ntitle: \"\"\nviews: 2\n---\nNo title\n")},
		"posts/notes.txt":       {Data: []byte("ignored")},
		"posts/nested/third.md": {Data: []byte("---\ntitle: Third\nviews: 1\n---\nDeep\n")},
	}

	docs, err := markdown.LoadDir(ctx, fsys, "posts", false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 top level documents, got %d", len(docs))
	}

	registry := fields.Default()
	if err := markdown.Register(registry, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	types := contenttypes.NewService(contenttypes.NewMemoryRepository(), contenttypes.WithRegistry(registry))
	ct, err := types.Create(ctx, contenttypes.CreateContentTypeRequest{
		Name: "Blog Post",
		Slug: "blog-post",
		Fields: []contenttypes.Field{
			{Name: "Title", Type: fields.TypeText, Required: true},
			{Name: "Views", Type: fields.TypeNumber},
			{Name: "Body", Type: markdown.TypeMarkdown},
		},
	})
	if err != nil {
		t.Fatalf("create type: %v", err)
	}
	recordRepo := records.NewMemoryRepository()
	recordSvc := records.NewService(recordRepo, types, records.WithRegistry(registry))

	importer := markdown.NewImporter(types, recordSvc, registry, nil)
	result, err := importer.Import(ctx, ct.Slug, docs, markdown.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(result.Imported) != 1 || len(result.Failures) != 1 {
		t.Fatalf("expected 1 imported and 1 failure, got %d/%d", len(result.Imported), len(result.Failures))
	}
	if _, ok := result.Failures["posts/second.md"]; !ok {
		t.Fatalf("expected second.md to fail, got %+v", result.Failures)
	}
	rec := result.Imported[0]
	if rec.Values["Title"].Text != "First" || rec.Values["Body"].Text != "Hello world" {
		t.Fatalf("unexpected values %+v", rec.Values)
	}
	if rec.Values["Views"].String() != "10" {
		t.Fatalf("expected views 10, got %q", rec.Values["Views"].String())
	}

	dry, err := importer.Import(ctx, ct.Slug, docs, markdown.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if dry.Validated != 1 || len(dry.Imported) != 0 {
		t.Fatalf("expected 1 validated and none stored, got %d/%d", dry.Validated, len(dry.Imported))
	}
	if stored, _ := recordSvc.ListByType(ctx, ct.ID); len(stored) != 1 {
		t.Fatalf("dry run stored records: %d", len(stored))
	}
}

func TestImportRequiresBodyField(t *testing.T) {
	ctx := context.Background()
	types := contenttypes.NewService(contenttypes.NewMemoryRepository())
	ct, err := types.Create(ctx, contenttypes.CreateContentTypeRequest{
		Name:   "Tag",
		Slug:   "tag",
		Fields: []contenttypes.Field{{Name: "Label", Type: fields.TypeText}},
	})
	if err != nil {
		t.Fatalf("create type: %v", err)
	}
	importer := markdown.NewImporter(types, nil, nil, nil)
	if _, err := importer.Import(ctx, ct.Slug, nil, markdown.ImportOptions{}); !errors.Is(err, markdown.ErrNoBodyField) {
		t.Fatalf("expected ErrNoBodyField, got %v", err)
	}
}
