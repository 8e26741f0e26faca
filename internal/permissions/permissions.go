package permissions

import (
	"context"
	"errors"
	"strings"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const (
	ResourceContentTypes = "content_types"
	ResourceContent      = "content"
	ResourceMenus        = "menus"
	ResourceEndpoints    = "endpoints"
	ResourceUsers        = "users"
	ResourceSettings     = "settings"
)

var ErrPermissionDenied = errors.New("permissions: denied")

type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// Join builds a permission token such as "content_types:create".
func Join(resource string, action Action) string {
	res := normalize(resource)
	act := normalize(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

// Set is a static permission set. "resource:*" and "*" act as wildcards.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		if normalized := normalize(perm); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	normalized := normalize(permission)
	if len(s) == 0 || normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	if resource, _, found := strings.Cut(normalized, ":"); found {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
		if _, ok := s["*:"+strings.TrimPrefix(normalized, resource+":")]; ok {
			return true
		}
	}
	_, ok := s["*"]
	return ok
}

// RolePermissions maps a role to its static permission set. Viewers read
// everything except users and settings; editors also manage schemas,
// records and menus; admins may do anything.
func RolePermissions(role Role) Set {
	switch role {
	case RoleAdmin:
		return NewSet("*")
	case RoleEditor:
		return NewSet(
			ResourceContentTypes+":*",
			ResourceContent+":*",
			ResourceMenus+":*",
			Join(ResourceEndpoints, ActionRead),
		)
	case RoleViewer:
		return NewSet(
			Join(ResourceContentTypes, ActionRead),
			Join(ResourceContent, ActionRead),
			Join(ResourceMenus, ActionRead),
			Join(ResourceEndpoints, ActionRead),
		)
	default:
		return Set{}
	}
}

type contextKey string

const (
	checkerKey contextKey = "dyncms.permissions.checker"
	roleKey    contextKey = "dyncms.permissions.role"
)

// WithChecker stores a permission checker on the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey, checker)
}

// WithRole stores role and its permission set on the context.
func WithRole(ctx context.Context, role Role) context.Context {
	if ctx == nil || role == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, roleKey, role)
	return WithChecker(ctx, RolePermissions(role))
}

// RoleFromContext returns the role stored by WithRole.
func RoleFromContext(ctx context.Context) (Role, bool) {
	if ctx == nil {
		return "", false
	}
	role, ok := ctx.Value(roleKey).(Role)
	return role, ok
}

// CheckerFromContext returns the configured checker, or nil.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	checker, _ := ctx.Value(checkerKey).(Checker)
	return checker
}

// Require enforces permission when a checker is present. Contexts without a
// checker are treated as already authorized by the caller.
func Require(ctx context.Context, permission string) error {
	normalized := normalize(permission)
	if normalized == "" {
		return nil
	}
	checker := CheckerFromContext(ctx)
	if checker == nil || checker.Allowed(normalized) {
		return nil
	}
	return Error{Permission: normalized}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
