package menus

import (
	"context"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/goliatone/go-dyncms/internal/permissions"
)

// AdminEntry is one seeded admin navigation item.
type AdminEntry struct {
	Label string
	Link  string
	Icon  string
	Role  permissions.Role
}

// AdminNavigation is the default admin menu.
var AdminNavigation = []AdminEntry{
	{Label: "Dashboard", Link: "/dashboard", Icon: "LayoutDashboard", Role: permissions.RoleViewer},
	{Label: "Content Types", Link: "/content-types", Icon: "FileText", Role: permissions.RoleEditor},
	{Label: "Menu Builder", Link: "/menu-builder", Icon: "Menu", Role: permissions.RoleEditor},
	{Label: "Users", Link: "/users", Icon: "Users", Role: permissions.RoleAdmin},
	{Label: "Settings", Link: "/settings", Icon: "Settings", Role: permissions.RoleAdmin},
}

// SeedAdminNavigation creates the admin entries that do not exist yet. IDs
// derive from the link so reseeding is idempotent.
func (s *service) SeedAdminNavigation(ctx context.Context) (int, error) {
	created := 0
	for i, item := range AdminNavigation {
		id := identity.NavigationEntryUUID(item.Link)
		if _, err := s.repo.GetByID(ctx, id); err == nil {
			continue
		} else if !domain.IsNotFound(err) {
			return created, err
		}
		_, err := s.Create(ctx, CreateEntryRequest{
			ID:           id,
			Label:        item.Label,
			Link:         item.Link,
			Order:        IntPtr(i),
			Icon:         item.Icon,
			RequiredRole: item.Role,
		})
		if err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		s.logger.Info("menu.seed.success", "created", created)
	}
	return created, nil
}
