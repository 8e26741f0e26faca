package endpoints_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/endpoints"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/pkg/testsupport"
	"github.com/google/uuid"
)

func TestCreateDefaultsToGetOnAPIPath(t *testing.T) {
	svc := endpoints.NewService(endpoints.NewMemoryRepository())
	ctID := uuid.New()

	created, err := svc.Create(context.Background(), endpoints.CreateEndpointRequest{ContentTypeID: ctID, Slug: "blog-post"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Path != "/api/blog-post" || created.Method != endpoints.MethodGet {
		t.Fatalf("unexpected endpoint: %+v", created)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := endpoints.NewService(endpoints.NewMemoryRepository())
	cases := []struct {
		name  string
		req   endpoints.CreateEndpointRequest
		field string
	}{
		{"missing type", endpoints.CreateEndpointRequest{Slug: "x"}, "contentTypeId"},
		{"missing slug", endpoints.CreateEndpointRequest{ContentTypeID: uuid.New()}, "slug"},
		{"bad method", endpoints.CreateEndpointRequest{ContentTypeID: uuid.New(), Slug: "x", Method: "PATCH"}, "method"},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.req)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Fatalf("%s: expected validation error on %s, got %v", tc.name, tc.field, err)
		}
	}
}

func TestUpdatePathFollowsSlug(t *testing.T) {
	ctx := context.Background()
	svc := endpoints.NewService(endpoints.NewMemoryRepository())
	created, err := svc.Create(ctx, endpoints.CreateEndpointRequest{ContentTypeID: uuid.New(), Slug: "blog-post", Method: "post"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdatePath(ctx, created.ID, "article")
	if err != nil {
		t.Fatalf("update path: %v", err)
	}
	if updated.Path != "/api/article" || updated.Method != endpoints.MethodPost || updated.ID != created.ID {
		t.Fatalf("unexpected endpoint after rename: %+v", updated)
	}
}

func TestDeleteByContentTypeLeavesOthers(t *testing.T) {
	ctx := context.Background()
	svc := endpoints.NewService(endpoints.NewMemoryRepository())
	doomed, kept := uuid.New(), uuid.New()
	for _, req := range []endpoints.CreateEndpointRequest{
		{ContentTypeID: doomed, Slug: "a"},
		{ContentTypeID: doomed, Slug: "a", Method: endpoints.MethodPost},
		{ContentTypeID: kept, Slug: "b"},
	} {
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	removed, err := svc.DeleteByContentType(ctx, doomed)
	if err != nil || len(removed) != 2 {
		t.Fatalf("expected 2 removed, got %v %v", removed, err)
	}
	remaining, err := svc.List(ctx)
	if err != nil || len(remaining) != 1 || remaining[0].ContentTypeID != kept {
		t.Fatalf("unexpected remaining endpoints: %+v %v", remaining, err)
	}
}

func TestBuildOpenAPIDescribesEndpoints(t *testing.T) {
	ct := &contenttypes.ContentType{
		ID:     uuid.New(),
		Name:   "Blog Post",
		Slug:   "blog-post",
		Fields: []fields.Field{{ID: "f1", Name: "Title", Type: fields.TypeText, Required: true}},
	}
	list := []*endpoints.Endpoint{
		{ID: uuid.New(), Path: "/api/blog-post", Method: endpoints.MethodGet, ContentTypeID: ct.ID},
		{ID: uuid.New(), Path: "/api/ghost", Method: endpoints.MethodGet, ContentTypeID: uuid.New()},
	}

	doc := endpoints.BuildOpenAPI("", list, []*contenttypes.ContentType{ct}, nil)
	if names := doc.PathNames(); len(names) != 1 || names[0] != "/api/blog-post" {
		t.Fatalf("unexpected paths: %v", names)
	}
	rendered := doc.AsMap()
	components, ok := rendered["components"].(map[string]any)
	if !ok {
		t.Fatalf("expected components, got %#v", rendered)
	}
	schemas := components["schemas"].(map[string]any)
	if _, ok := schemas["BlogPost"]; !ok {
		t.Fatalf("expected BlogPost schema, got %#v", schemas)
	}
	if _, ok := rendered["x-dyncms"]; !ok {
		t.Fatalf("expected x-dyncms extension")
	}
}

func TestPublishSchemasRegistersWithCRUD(t *testing.T) {
	ct := &contenttypes.ContentType{ID: uuid.New(), Name: "Recipe", Slug: "recipe-" + uuid.NewString()[:8]}
	list := []*endpoints.Endpoint{{ID: uuid.New(), Path: "/api/" + ct.Slug, Method: endpoints.MethodGet, ContentTypeID: ct.ID}}

	if err := endpoints.PublishSchemas(context.Background(), endpoints.CRUDRegistry{}, "1.0.0", list, []*contenttypes.ContentType{ct}, nil); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestBunRepositoryDeleteByContentType(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*endpoints.Endpoint)(nil))
	svc := endpoints.NewService(endpoints.NewBunRepository(db))
	ctID := uuid.New()

	created, err := svc.Create(ctx, endpoints.CreateEndpointRequest{ContentTypeID: ctID, Slug: "blog-post"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fetched, err := svc.Get(ctx, created.ID)
	if err != nil || fetched.Path != "/api/blog-post" {
		t.Fatalf("get: %+v %v", fetched, err)
	}

	if _, err := svc.Create(ctx, endpoints.CreateEndpointRequest{ContentTypeID: uuid.New(), Slug: "other"}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	removed, err := endpoints.DeleteByContentTypeTx(ctx, db, ctID)
	if err != nil || len(removed) != 1 || removed[0] != created.ID {
		t.Fatalf("expected %s removed, got %v %v", created.ID, removed, err)
	}
	again, err := endpoints.DeleteByContentTypeTx(ctx, db, ctID)
	if err != nil || len(again) != 0 {
		t.Fatalf("expected nothing left to remove, got %v %v", again, err)
	}
	if _, err := svc.Get(ctx, created.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
