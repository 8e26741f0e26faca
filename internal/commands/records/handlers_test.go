package recordscmd_test

import (
	"context"
	"errors"
	"testing"

	recordscmd "github.com/goliatone/go-dyncms/internal/commands/records"
	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/records"
	goerrors "github.com/goliatone/go-errors"
)

func TestRecordCommandsValidateThroughForm(t *testing.T) {
	ctx := context.Background()
	types := contenttypes.NewService(contenttypes.NewMemoryRepository())
	ct, err := types.Create(ctx, contenttypes.CreateContentTypeRequest{
		Name: "Blog Post",
		Slug: "blog-post",
		Fields: []contenttypes.Field{
			{Name: "Title", Type: fields.TypeText, Required: true},
			{Name: "Views", Type: fields.TypeNumber},
		},
	})
	if err != nil {
		t.Fatalf("create type: %v", err)
	}
	repo := records.NewMemoryRepository()
	service := records.NewService(repo, types)
	set, err := recordscmd.Register(nil, service, types, nil, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	err = set.Create.Execute(ctx, recordscmd.CreateRecordCommand{ContentTypeID: ct.ID, Input: map[string]any{"Title": "", "Views": "12a"}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.FieldMessages()["Title"] == "" || verr.FieldMessages()["Views"] == "" {
		t.Fatalf("expected Title and Views errors, got %v", err)
	}

	if err := set.Create.Execute(ctx, recordscmd.CreateRecordCommand{ContentTypeID: ct.ID, Input: map[string]any{"Title": "Hello", "Views": "12"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := repo.ListByType(ctx, ct.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one record, got %d (%v)", len(list), err)
	}
	if list[0].Values["Views"].Number != 12 {
		t.Fatalf("expected views 12, got %+v", list[0].Values["Views"])
	}

	if err := set.Update.Execute(ctx, recordscmd.UpdateRecordCommand{ID: list[0].ID, Input: map[string]any{"Views": "13"}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := repo.GetByID(ctx, list[0].ID)
	if updated.Values["Title"].Text != "Hello" || updated.Values["Views"].Number != 13 {
		t.Fatalf("expected merged values, got %+v", updated.Values)
	}

	if err := set.Delete.Execute(ctx, recordscmd.DeleteRecordCommand{ID: list[0].ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if left, _ := repo.ListByType(ctx, ct.ID); len(left) != 0 {
		t.Fatalf("expected no records, got %d", len(left))
	}
}
