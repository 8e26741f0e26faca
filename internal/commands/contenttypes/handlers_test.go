package contenttypescmd_test

import (
	"context"
	"testing"

	contenttypescmd "github.com/goliatone/go-dyncms/internal/commands/contenttypes"
	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/fields"
	goerrors "github.com/goliatone/go-errors"
)

type recordingRenamer struct {
	before, after *contenttypes.ContentType
}

func (r *recordingRenamer) SyncRename(_ context.Context, before, after *contenttypes.ContentType) error {
	r.before, r.after = before, after
	return nil
}

func TestCreateAndRenameThroughCommands(t *testing.T) {
	ctx := context.Background()
	service := contenttypes.NewService(contenttypes.NewMemoryRepository())
	renamer := &recordingRenamer{}
	set, err := contenttypescmd.Register(nil, service, renamer, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := set.Create.Execute(ctx, contenttypescmd.CreateContentTypeCommand{Name: "Blog Post"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	ct, err := service.GetBySlug(ctx, "blog-post")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}

	name := "Article"
	slug := "article"
	if err := set.Update.Execute(ctx, contenttypescmd.UpdateContentTypeCommand{ID: ct.ID, Name: &name, Slug: &slug}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if renamer.before == nil || renamer.before.Slug != "blog-post" || renamer.after.Slug != "article" {
		t.Fatalf("expected rename to be propagated, got %+v -> %+v", renamer.before, renamer.after)
	}
}

func TestCreateRequiresName(t *testing.T) {
	service := contenttypes.NewService(contenttypes.NewMemoryRepository())
	set := contenttypescmd.NewHandlers(service, nil, nil)

	err := set.Create.Execute(context.Background(), contenttypescmd.CreateContentTypeCommand{Name: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	list, _ := service.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected nothing persisted, got %d types", len(list))
	}
}

func TestFieldCommands(t *testing.T) {
	ctx := context.Background()
	service := contenttypes.NewService(contenttypes.NewMemoryRepository())
	set := contenttypescmd.NewHandlers(service, nil, nil)

	ct, err := service.Create(ctx, contenttypes.CreateContentTypeRequest{Name: "Event", Slug: "event"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, field := range []contenttypes.Field{
		{ID: "f-title", Name: "Title", Required: true},
		{ID: "f-date", Name: "Date", Type: fields.TypeDate},
	} {
		if err := set.AddField.Execute(ctx, contenttypescmd.AddFieldCommand{ContentTypeID: ct.ID, Field: field}); err != nil {
			t.Fatalf("add field %s: %v", field.Name, err)
		}
	}
	if err := set.MoveField.Execute(ctx, contenttypescmd.MoveFieldCommand{ContentTypeID: ct.ID, From: 0, To: 1}); err != nil {
		t.Fatalf("move: %v", err)
	}
	got, _ := service.Get(ctx, ct.ID)
	if len(got.Fields) != 2 || got.Fields[0].Name != "Date" || got.Fields[1].Type != fields.TypeText {
		t.Fatalf("unexpected fields after move %+v", got.Fields)
	}

	if err := set.RemoveField.Execute(ctx, contenttypescmd.RemoveFieldCommand{ContentTypeID: ct.ID, FieldID: "f-date"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ = service.Get(ctx, ct.ID)
	if len(got.Fields) != 1 || got.Fields[0].ID != "f-title" {
		t.Fatalf("unexpected fields after remove %+v", got.Fields)
	}

	err = set.Delete.Execute(ctx, contenttypescmd.DeleteContentTypeCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for nil id, got %v", err)
	}
}
