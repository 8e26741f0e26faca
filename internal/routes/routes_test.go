package routes_test

import (
	"testing"

	"github.com/goliatone/go-dyncms/internal/routes"
	urlkit "github.com/goliatone/go-urlkit"
)

func TestStaticBuilder(t *testing.T) {
	b := routes.Static()
	if link, _ := b.MenuLink("blog-post"); link != "/blog-post" {
		t.Fatalf("unexpected link %q", link)
	}
	if path, _ := b.EndpointPath("blog-post"); path != "/api/blog-post" {
		t.Fatalf("unexpected path %q", path)
	}
	if _, ok := routes.New(routes.Options{}).(*routes.URLKitBuilder); ok {
		t.Fatalf("expected static builder without a manager")
	}
}

func TestURLKitBuilder(t *testing.T) {
	b := routes.NewFromConfig(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "admin",
				BaseURL: "https://cms.example.com",
				Paths: map[string]string{
					"content": "/content/:slug",
				},
			},
			{
				Name:    "api",
				BaseURL: "https://cms.example.com",
				Paths: map[string]string{
					"content": "/api/:slug",
				},
			},
		},
	}, routes.Options{})

	link, err := b.MenuLink("blog-post")
	if err != nil {
		t.Fatalf("menu link: %v", err)
	}
	if link != "https://cms.example.com/content/blog-post" {
		t.Fatalf("unexpected link %q", link)
	}
	path, err := b.EndpointPath("blog-post")
	if err != nil {
		t.Fatalf("endpoint path: %v", err)
	}
	if path != "https://cms.example.com/api/blog-post" {
		t.Fatalf("unexpected path %q", path)
	}

	missing := routes.New(routes.Options{
		Manager:    urlkit.NewRouteManager(&urlkit.Config{}),
		AdminGroup: "nope",
	})
	if _, err := missing.MenuLink("x"); err == nil {
		t.Fatalf("expected an error for a missing group")
	}
}
