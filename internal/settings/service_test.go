package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/settings"
	"github.com/goliatone/go-dyncms/pkg/testsupport"
)

func fixedKey() string { return "api_fixed" }

func TestGetReturnsDefaultsBeforeSave(t *testing.T) {
	svc := settings.NewService(settings.NewMemoryRepository(), settings.WithKeyGenerator(fixedKey))
	doc, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Appearance.Theme != settings.ThemeSystem || doc.API.APIKey != "api_fixed" {
		t.Fatalf("unexpected defaults: %+v", doc)
	}
}

func TestUpdateValidatesSections(t *testing.T) {
	svc := settings.NewService(settings.NewMemoryRepository())
	_, err := svc.Update(context.Background(), settings.UpdateRequest{
		Appearance: &settings.Appearance{Theme: "neon", PrimaryColor: "blue"},
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	messages := verr.FieldMessages()
	if messages["appearance.theme"] == "" || messages["appearance.primaryColor"] == "" {
		t.Fatalf("unexpected messages: %#v", messages)
	}
}

func TestUpdatePersistsAndKeepsKey(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t, (*settings.Settings)(nil))
	svc := settings.NewService(settings.NewBunRepository(db), settings.WithKeyGenerator(fixedKey))

	_, err := svc.Update(ctx, settings.UpdateRequest{
		API: &settings.API{Enabled: true, AllowedOrigins: []string{"https://a.example.com/", "https://a.example.com"}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	doc, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.API.APIKey != "api_fixed" || len(doc.API.AllowedOrigins) != 1 {
		t.Fatalf("unexpected api section: %+v", doc.API)
	}

	rotated, err := svc.RegenerateAPIKey(ctx)
	if err != nil || rotated.API.APIKey != "api_fixed" {
		t.Fatalf("regenerate: %+v %v", rotated, err)
	}
}
