// Package routes builds the links and paths derived from content type slugs.
// Without a go-urlkit route manager the fixed "/<slug>" and "/api/<slug>"
// forms are used.
package routes

import (
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	DefaultAdminGroup   = "admin"
	DefaultAPIGroup     = "api"
	DefaultContentRoute = "content"
	DefaultSlugParam    = "slug"
)

// Builder derives a menu link and an endpoint path from a slug.
type Builder interface {
	MenuLink(slug string) (string, error)
	EndpointPath(slug string) (string, error)
}

// Static returns the builder used when no route manager is configured.
func Static() Builder { return staticBuilder{} }

type staticBuilder struct{}

func (staticBuilder) MenuLink(slug string) (string, error) {
	return "/" + strings.Trim(strings.TrimSpace(slug), "/"), nil
}

func (staticBuilder) EndpointPath(slug string) (string, error) {
	return "/api/" + strings.Trim(strings.TrimSpace(slug), "/"), nil
}

// Options configures the go-urlkit backed builder. Group paths may be dotted
// ("admin.v2") to reach nested groups.
type Options struct {
	Manager      *urlkit.RouteManager
	AdminGroup   string
	APIGroup     string
	ContentRoute string
	SlugParam    string
}

// URLKitBuilder resolves links through named go-urlkit routes.
type URLKitBuilder struct {
	manager      *urlkit.RouteManager
	adminGroup   string
	apiGroup     string
	contentRoute string
	slugParam    string

	mu         sync.RWMutex
	groupCache map[string]*urlkit.Group
}

// New returns a URLKitBuilder, or the static builder when opts has no manager.
func New(opts Options) Builder {
	if opts.Manager == nil {
		return Static()
	}
	return &URLKitBuilder{
		manager:      opts.Manager,
		adminGroup:   firstNonEmpty(opts.AdminGroup, DefaultAdminGroup),
		apiGroup:     firstNonEmpty(opts.APIGroup, DefaultAPIGroup),
		contentRoute: firstNonEmpty(opts.ContentRoute, DefaultContentRoute),
		slugParam:    firstNonEmpty(opts.SlugParam, DefaultSlugParam),
		groupCache:   make(map[string]*urlkit.Group),
	}
}

// NewFromConfig builds the route manager from cfg. A nil cfg yields the
// static builder.
func NewFromConfig(cfg *urlkit.Config, opts Options) Builder {
	if cfg == nil {
		return Static()
	}
	opts.Manager = urlkit.NewRouteManager(cfg)
	return New(opts)
}

func (b *URLKitBuilder) MenuLink(slug string) (string, error) {
	return b.build(b.adminGroup, slug)
}

func (b *URLKitBuilder) EndpointPath(slug string) (string, error) {
	return b.build(b.apiGroup, slug)
}

func (b *URLKitBuilder) build(groupPath, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("routes: slug is required")
	}
	group, err := b.groupForPath(groupPath)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, b.contentRoute)
	if err != nil {
		return "", err
	}
	builder.WithParam(b.slugParam, slug)
	return builder.Build()
}

func (b *URLKitBuilder) groupForPath(path string) (*urlkit.Group, error) {
	b.mu.RLock()
	group, ok := b.groupCache[path]
	b.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(b.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if current, err = lookupChildGroup(current, part); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	b.groupCache[path] = current
	b.mu.Unlock()
	return current, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("routes: route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	if builder == nil {
		return nil, fmt.Errorf("routes: route %q not found", route)
	}
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("routes: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	if group == nil {
		return nil, fmt.Errorf("routes: route group %q not found", name)
	}
	return group, nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("routes: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	if group == nil {
		return nil, fmt.Errorf("routes: child group %q not found", name)
	}
	return group, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
