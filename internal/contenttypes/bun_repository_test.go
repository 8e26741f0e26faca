package contenttypes_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
)

func TestServiceWithBunStorageAndCache(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*contenttypes.ContentType)(nil))

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := contenttypes.NewBunRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	svc := contenttypes.NewService(repo)

	created, err := svc.Create(ctx, contenttypes.CreateContentTypeRequest{
		Name: "Product",
		Slug: "product",
		Fields: []contenttypes.Field{
			{Name: "Name", Type: fields.TypeText, Required: true},
			{Name: "Price", Type: fields.TypeNumber},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 2; i++ {
		fetched, err := svc.GetBySlug(ctx, "product")
		if err != nil {
			t.Fatalf("get by slug (pass %d): %v", i, err)
		}
		if fetched.ID != created.ID || len(fetched.Fields) != 2 || fetched.Fields[1].Type != fields.TypeNumber {
			t.Fatalf("unexpected stored type: %+v", fetched)
		}
	}
}

func TestBunRepositoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*contenttypes.ContentType)(nil))
	svc := contenttypes.NewService(contenttypes.NewBunRepository(db))

	created, err := svc.Create(ctx, contenttypes.CreateContentTypeRequest{Name: "Product", Slug: "product"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newSlug := "products"
	if _, err := svc.Update(ctx, contenttypes.UpdateContentTypeRequest{ID: created.ID, Slug: &newSlug}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, err := svc.Get(ctx, created.ID); err != nil || got.Slug != "products" {
		t.Fatalf("expected updated slug, got %+v %v", got, err)
	}
	if _, err := svc.GetBySlug(ctx, "product"); !domain.IsNotFound(err) {
		t.Fatalf("expected old slug to be gone, got %v", err)
	}

	if err := svc.Delete(ctx, contenttypes.DeleteContentTypeRequest{ID: created.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
