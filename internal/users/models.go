package users

import (
	"time"

	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is an admin account. Authentication is handled by the host.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID        `bun:",pk,type:uuid" json:"id"`
	Name      string           `bun:"name,notnull" json:"name"`
	Email     string           `bun:"email,notnull,unique" json:"email"`
	Role      permissions.Role `bun:"role,notnull" json:"role"`
	Avatar    string           `bun:"avatar" json:"avatar,omitempty"`
	CreatedAt time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func cloneUser(src *User) *User {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
