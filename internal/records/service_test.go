package records_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/forms"
	"github.com/goliatone/go-dyncms/internal/notify"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

type fixture struct {
	types    contenttypes.Service
	records  records.Service
	notices  *notify.Recorder
	blogPost *contenttypes.ContentType
}

func newFixture(t *testing.T, repo records.Repository) *fixture {
	t.Helper()
	types := contenttypes.NewService(contenttypes.NewMemoryRepository())
	ct, err := types.Create(context.Background(), contenttypes.CreateContentTypeRequest{
		Name: "Blog Post",
		Slug: "blog-post",
		Fields: []contenttypes.Field{
			{Name: "Title", Type: fields.TypeText, Required: true},
			{Name: "Views", Type: fields.TypeNumber, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("create type: %v", err)
	}
	recorder := notify.NewRecorder()
	return &fixture{
		types:    types,
		records:  records.NewService(repo, types, records.WithNotifier(recorder)),
		notices:  recorder,
		blogPost: ct,
	}
}

func (f *fixture) submit(t *testing.T, input map[string]any) (*records.Record, error) {
	t.Helper()
	form, err := forms.Derive(f.blogPost, nil, nil)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	values, err := form.Submit(input)
	if err != nil {
		return nil, err
	}
	return f.records.Create(context.Background(), records.CreateRecordRequest{ContentTypeID: f.blogPost.ID, Values: values})
}

func TestBlogPostTitleValidationAndListing(t *testing.T) {
	f := newFixture(t, records.NewMemoryRepository())

	_, err := f.submit(t, map[string]any{"Title": "", "Views": "1"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.FieldMessages()["Title"] == "" {
		t.Fatalf("expected field error on Title, got %v", err)
	}

	if _, err := f.submit(t, map[string]any{"Title": "Hello", "Views": "1"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	list, err := f.records.ListByType(context.Background(), f.blogPost.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Values["Title"].Text != "Hello" {
		t.Fatalf("expected a Hello record, got %+v", list)
	}

	last, ok := f.notices.Last()
	if !ok || last.Level != interfaces.NoticeSuccess || last.Message != "Blog Post item created successfully" {
		t.Fatalf("unexpected notice: %+v", last)
	}
}

func TestNumberRoundTrip(t *testing.T) {
	f := newFixture(t, records.NewMemoryRepository())
	if _, err := f.submit(t, map[string]any{"Title": "A", "Views": "12a"}); !domain.IsValidation(err) {
		t.Fatalf("expected 12a to be rejected, got %v", err)
	}
	created, err := f.submit(t, map[string]any{"Title": "A", "Views": "12"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	read, err := f.records.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !read.Values["Views"].Equal(fields.Number(12)) {
		t.Fatalf("expected stored number 12, got %+v", read.Values["Views"])
	}
}

func TestCreateRejectsMissingOrUnknownType(t *testing.T) {
	f := newFixture(t, records.NewMemoryRepository())
	ctx := context.Background()
	for _, id := range []uuid.UUID{uuid.Nil, uuid.New()} {
		_, err := f.records.Create(ctx, records.CreateRecordRequest{ContentTypeID: id})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Field != "contentTypeId" {
			t.Fatalf("expected contentTypeId validation error for %s, got %v", id, err)
		}
	}
}

func TestInsertionOrderAndDropsUnknownKeys(t *testing.T) {
	f := newFixture(t, records.NewMemoryRepository())
	ctx := context.Background()
	for _, title := range []string{"c", "a", "b"} {
		_, err := f.records.Create(ctx, records.CreateRecordRequest{
			ContentTypeID: f.blogPost.ID,
			Values:        fields.Values{"Title": fields.Text(title), "Extra": fields.Text("x")},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	list, _ := f.records.ListByType(ctx, f.blogPost.ID)
	if len(list) != 3 || list[0].Values["Title"].Text != "c" || list[2].Values["Title"].Text != "b" {
		t.Fatalf("expected insertion order, got %+v", list)
	}
	if _, ok := list[0].Values["Extra"]; ok {
		t.Fatalf("expected unknown key to be dropped")
	}
}

func TestUpdateMergesAndOrphanedKeysSurvive(t *testing.T) {
	f := newFixture(t, records.NewMemoryRepository())
	ctx := context.Background()
	created, err := f.submit(t, map[string]any{"Title": "Draft", "Views": "3"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	fieldsWithoutViews := []contenttypes.Field{f.blogPost.Fields[0]}
	if _, err := f.types.Update(ctx, contenttypes.UpdateContentTypeRequest{ID: f.blogPost.ID, Fields: &fieldsWithoutViews}); err != nil {
		t.Fatalf("remove field: %v", err)
	}

	updated, err := f.records.Update(ctx, records.UpdateRecordRequest{ID: created.ID, Values: fields.Values{"Title": fields.Text("Final")}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Values["Title"].Text != "Final" {
		t.Fatalf("expected merged title, got %+v", updated.Values)
	}
	if !updated.Values["Views"].Equal(fields.Number(3)) {
		t.Fatalf("expected orphaned Views key to survive, got %+v", updated.Values)
	}

	if _, err := f.records.Update(ctx, records.UpdateRecordRequest{ID: uuid.New()}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type failingRepo struct {
	*records.MemoryRepository
}

func (failingRepo) Create(context.Context, *records.Record) (*records.Record, error) {
	return nil, &domain.TransportFailure{Operation: "content_record", Err: errors.New("connection reset")}
}

func TestFailureNoticeHidesDetail(t *testing.T) {
	f := newFixture(t, failingRepo{records.NewMemoryRepository()})
	_, err := f.records.Create(context.Background(), records.CreateRecordRequest{ContentTypeID: f.blogPost.ID})
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	last, _ := f.notices.Last()
	if last.Level != interfaces.NoticeError || last.Message != "Failed to create blog post item. Please try again." {
		t.Fatalf("unexpected failure notice: %+v", last)
	}
}

func TestDeleteAndDeleteByType(t *testing.T) {
	f := newFixture(t, records.NewMemoryRepository())
	ctx := context.Background()
	first, _ := f.submit(t, map[string]any{"Title": "One", "Views": "1"})
	_, _ = f.submit(t, map[string]any{"Title": "Two", "Views": "2"})
	_, _ = f.submit(t, map[string]any{"Title": "Three", "Views": "3"})

	if err := f.records.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if last, _ := f.notices.Last(); last.Message != "Blog Post item deleted successfully" {
		t.Fatalf("unexpected delete notice: %+v", last)
	}
	removed, err := f.records.DeleteByType(ctx, f.blogPost.ID)
	if err != nil || len(removed) != 2 {
		t.Fatalf("expected 2 removed, got %v %v", removed, err)
	}
	list, _ := f.records.ListByType(ctx, f.blogPost.ID)
	if len(list) != 0 {
		t.Fatalf("expected no records left, got %d", len(list))
	}
}
