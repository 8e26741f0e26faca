package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-dyncms/internal/endpoints"
	"github.com/goliatone/go-dyncms/internal/records"
)

func TestPublicGeneratedEndpoint(t *testing.T) {
	s := setup(t)
	ct := createBlogPost(t, s)

	var list []records.Record
	decode(t, doJSON(t, s.mux, http.MethodGet, "/api/blog-post", nil, nil, http.StatusOK), &list)
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	doJSON(t, s.mux, http.MethodPost, "/api/blog-post", map[string]any{"Title": "Hello"}, nil, http.StatusMethodNotAllowed)
	doJSON(t, s.mux, http.MethodGet, "/api/missing", nil, nil, http.StatusNotFound)

	if _, err := s.endpoints.Create(context.Background(), endpoints.CreateEndpointRequest{
		ContentTypeID: ct.ID,
		Slug:          ct.Slug,
		Method:        endpoints.MethodPost,
	}); err != nil {
		t.Fatalf("create post endpoint: %v", err)
	}

	rec := doJSON(t, s.mux, http.MethodPost, "/api/blog-post", map[string]any{"Views": "12a"}, nil, http.StatusBadRequest)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, rec, &body)
	if body.Fields["Views"] == "" {
		t.Fatalf("expected schema error on Views, got %+v", body)
	}

	var created records.Record
	decode(t, doJSON(t, s.mux, http.MethodPost, "/api/blog-post", map[string]any{"Title": "Hello", "Views": 5}, nil, http.StatusCreated), &created)
	decode(t, doJSON(t, s.mux, http.MethodGet, "/api/blog-post", nil, nil, http.StatusOK), &list)
	if len(list) != 1 || list[0].Values["Title"].Text != "Hello" {
		t.Fatalf("expected the created record, got %+v", list)
	}

	var fetched records.Record
	decode(t, doJSON(t, s.mux, http.MethodGet, "/api/blog-post/"+created.ID.String(), nil, nil, http.StatusOK), &fetched)
	if fetched.ID != created.ID {
		t.Fatalf("expected record %s, got %s", created.ID, fetched.ID)
	}
	doJSON(t, s.mux, http.MethodDelete, "/api/blog-post/"+created.ID.String(), nil, nil, http.StatusMethodNotAllowed)

	var doc map[string]any
	decode(t, doJSON(t, s.mux, http.MethodGet, "/api/openapi.json", nil, nil, http.StatusOK), &doc)
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/api/blog-post"]; !ok {
		t.Fatalf("expected /api/blog-post in openapi paths, got %+v", doc["paths"])
	}
}
