package menus

import (
	"time"

	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is one navigable item. Entries generated for a content type carry
// its id in ContentTypeID.
type Entry struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID            uuid.UUID        `bun:",pk,type:uuid" json:"id"`
	Label         string           `bun:"label,notnull" json:"label"`
	Link          string           `bun:"link" json:"link"`
	ParentID      *uuid.UUID       `bun:"parent_id,type:uuid" json:"parentId,omitempty"`
	Order         *int             `bun:"sort_order" json:"order,omitempty"`
	Icon          string           `bun:"icon" json:"icon,omitempty"`
	ContentTypeID *uuid.UUID       `bun:"content_type_id,type:uuid" json:"contentTypeId,omitempty"`
	RequiredRole  permissions.Role `bun:"required_role" json:"requiredRole,omitempty"`
	CreatedAt     time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

// Node is an entry placed in the forest.
type Node struct {
	Entry    *Entry  `json:"entry"`
	Depth    int     `json:"depth"`
	Children []*Node `json:"children,omitempty"`
}

// Tree is the ordered forest. Cycles lists entries that could not be reached
// from any root.
type Tree struct {
	Roots  []*Node     `json:"roots"`
	Cycles []uuid.UUID `json:"cycles,omitempty"`
}

// IntPtr is a convenience for optional orders.
func IntPtr(v int) *int { return &v }

func cloneEntry(src *Entry) *Entry {
	if src == nil {
		return nil
	}
	copied := *src
	if src.ParentID != nil {
		parent := *src.ParentID
		copied.ParentID = &parent
	}
	if src.Order != nil {
		order := *src.Order
		copied.Order = &order
	}
	if src.ContentTypeID != nil {
		ctID := *src.ContentTypeID
		copied.ContentTypeID = &ctID
	}
	return &copied
}

func cloneEntries(list []*Entry) []*Entry {
	out := make([]*Entry, 0, len(list))
	for _, entry := range list {
		if entry != nil {
			out = append(out, cloneEntry(entry))
		}
	}
	return out
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
