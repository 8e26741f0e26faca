package contenttypes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/google/uuid"
)

type countingRepo struct {
	*contenttypes.MemoryRepository
	creates int
}

func (r *countingRepo) Create(ctx context.Context, record *contenttypes.ContentType) (*contenttypes.ContentType, error) {
	r.creates++
	return r.MemoryRepository.Create(ctx, record)
}

type recordingHooks struct {
	created   []uuid.UUID
	deleted   []uuid.UUID
	createErr error
	deleteErr error
}

func (h *recordingHooks) AfterCreate(_ context.Context, ct *contenttypes.ContentType) error {
	h.created = append(h.created, ct.ID)
	return h.createErr
}

func (h *recordingHooks) BeforeDelete(_ context.Context, ct *contenttypes.ContentType) error {
	h.deleted = append(h.deleted, ct.ID)
	return h.deleteErr
}

func blogPostRequest() contenttypes.CreateContentTypeRequest {
	return contenttypes.CreateContentTypeRequest{
		Name: "Blog Post",
		Slug: "blog-post",
		Fields: []contenttypes.Field{
			{Name: "Title", Type: fields.TypeText, Required: true},
			{Name: "Body", Type: fields.TypeTextarea, Options: []string{"ignored"}},
		},
	}
}

func TestCreateAssignsIdentityAndSlug(t *testing.T) {
	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	hooks := &recordingHooks{}
	svc := contenttypes.NewService(contenttypes.NewMemoryRepository(),
		contenttypes.WithClock(func() time.Time { return now }),
		contenttypes.WithHooks(hooks),
	)

	ct, err := svc.Create(context.Background(), blogPostRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ct.ID == uuid.Nil || ct.Slug != "blog-post" {
		t.Fatalf("unexpected identity: %+v", ct)
	}
	if !ct.CreatedAt.Equal(now) || !ct.UpdatedAt.Equal(now) {
		t.Fatalf("expected store-set timestamps, got %v %v", ct.CreatedAt, ct.UpdatedAt)
	}
	for _, field := range ct.Fields {
		if field.ID == "" {
			t.Fatalf("expected field ids to be assigned")
		}
	}
	if ct.Fields[1].Options != nil {
		t.Fatalf("expected textarea options to be dropped, got %v", ct.Fields[1].Options)
	}
	if len(hooks.created) != 1 || hooks.created[0] != ct.ID {
		t.Fatalf("expected after-create hook for %s, got %v", ct.ID, hooks.created)
	}
}

func TestCreateRejectsDuplicateSlugBeforePersisting(t *testing.T) {
	repo := &countingRepo{MemoryRepository: contenttypes.NewMemoryRepository()}
	svc := contenttypes.NewService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, blogPostRequest()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, contenttypes.CreateContentTypeRequest{Name: "Other", Slug: "blog-post"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "slug" {
		t.Fatalf("expected slug validation error, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected no persistence call for the duplicate, got %d creates", repo.creates)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := contenttypes.NewService(contenttypes.NewMemoryRepository())
	cases := []struct {
		name  string
		req   contenttypes.CreateContentTypeRequest
		field string
	}{
		{"empty name", contenttypes.CreateContentTypeRequest{Name: "  ", Slug: "post"}, "name"},
		{"empty slug", contenttypes.CreateContentTypeRequest{Name: "Blog Post"}, "slug"},
		{"blank slug", contenttypes.CreateContentTypeRequest{Name: "Blog Post", Slug: "   "}, "slug"},
		{"invalid slug", contenttypes.CreateContentTypeRequest{Name: "Post", Slug: "bad slug!"}, "slug"},
		{"unnamed field", contenttypes.CreateContentTypeRequest{Name: "Post", Slug: "post", Fields: []contenttypes.Field{{Type: fields.TypeText}}}, "fields"},
		{"duplicate field", contenttypes.CreateContentTypeRequest{Name: "Post", Slug: "post", Fields: []contenttypes.Field{{Name: "Title"}, {Name: "title"}}}, "fields"},
		{"unknown type", contenttypes.CreateContentTypeRequest{Name: "Post", Slug: "post", Fields: []contenttypes.Field{{Name: "Title", Type: "hologram"}}}, "fields"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestCreateRollsBackWhenCascadeFails(t *testing.T) {
	repo := contenttypes.NewMemoryRepository()
	hooks := &recordingHooks{createErr: errors.New("menu store offline")}
	svc := contenttypes.NewService(repo, contenttypes.WithHooks(hooks))

	_, err := svc.Create(context.Background(), blogPostRequest())
	if !errors.Is(err, domain.ErrCascade) {
		t.Fatalf("expected cascade failure, got %v", err)
	}
	list, _ := repo.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected type to be rolled back, got %d", len(list))
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	ticks := 0
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	svc := contenttypes.NewService(contenttypes.NewMemoryRepository(),
		contenttypes.WithClock(func() time.Time {
			ticks++
			return base.Add(time.Duration(ticks) * time.Minute)
		}),
	)
	ctx := context.Background()
	ct, err := svc.Create(ctx, blogPostRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Article"
	slugValue := "article"
	updated, err := svc.Update(ctx, contenttypes.UpdateContentTypeRequest{ID: ct.ID, Name: &name, Slug: &slugValue})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Article" || updated.Slug != "article" || len(updated.Fields) != 2 {
		t.Fatalf("unexpected merge result: %+v", updated)
	}
	if !updated.UpdatedAt.After(ct.UpdatedAt) || !updated.CreatedAt.Equal(ct.CreatedAt) {
		t.Fatalf("expected refreshed updatedAt only")
	}
	if _, err := svc.GetBySlug(ctx, "blog-post"); !domain.IsNotFound(err) {
		t.Fatalf("expected old slug to be released, got %v", err)
	}

	_, err = svc.Update(ctx, contenttypes.UpdateContentTypeRequest{ID: uuid.New(), Name: &name})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRunsHookFirstAndAbortsOnFailure(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}
	svc := contenttypes.NewService(contenttypes.NewMemoryRepository(), contenttypes.WithHooks(hooks))
	ct, err := svc.Create(ctx, blogPostRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	hooks.deleteErr = errors.New("records offline")
	err = svc.Delete(ctx, contenttypes.DeleteContentTypeRequest{ID: ct.ID})
	var cascade *domain.CascadeFailure
	if !errors.As(err, &cascade) || cascade.ContentTypeID != ct.ID {
		t.Fatalf("expected cascade failure for %s, got %v", ct.ID, err)
	}
	if _, err := svc.Get(ctx, ct.ID); err != nil {
		t.Fatalf("expected type to survive aborted delete: %v", err)
	}

	hooks.deleteErr = nil
	if err := svc.Delete(ctx, contenttypes.DeleteContentTypeRequest{ID: ct.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, ct.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
