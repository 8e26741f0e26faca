package contenttypes_test

import (
	"testing"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Blog Post!!":       "blog-post",
		"  Product   Line ": "product-line",
		"Café Menu":         "caf-menu",
		"already-slugged":   "already-slugged",
		"Blog--Post":        "blog-post",
		"-- Draft --":       "draft",
		"!!!":               "",
	}
	for input, want := range cases {
		if got := contenttypes.GenerateSlug(input); got != want {
			t.Fatalf("GenerateSlug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestValidSlug(t *testing.T) {
	if !contenttypes.ValidSlug("blog-post") {
		t.Fatalf("expected blog-post to be valid")
	}
	for _, value := range []string{"", "Blog Post", "blog_post", "blog/post", "a--b", "-post"} {
		if contenttypes.ValidSlug(value) {
			t.Fatalf("expected %q to be invalid", value)
		}
	}
}

func TestDefaultSlug(t *testing.T) {
	if got := contenttypes.DefaultSlug("", "Blog Post!!"); got != "blog-post" {
		t.Fatalf("expected derived slug, got %q", got)
	}
	if got := contenttypes.DefaultSlug(" posts ", "Blog Post"); got != "posts" {
		t.Fatalf("expected explicit slug to win, got %q", got)
	}
	if got := contenttypes.DefaultSlug("", "!!!"); got != "" {
		t.Fatalf("expected empty slug for unsluggable name, got %q", got)
	}
}
