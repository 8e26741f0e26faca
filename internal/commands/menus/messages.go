package menuscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-dyncms/internal/commands"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/google/uuid"
)

const (
	createEntryMessageType = "dyncms.menus.create_entry"
	moveEntryMessageType   = "dyncms.menus.move_entry"
	deleteEntryMessageType = "dyncms.menus.delete_entry"
	seedMessageType        = "dyncms.menus.seed_admin_navigation"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// CreateEntryCommand adds a navigation entry. A nil Order appends it after
// its current siblings.
type CreateEntryCommand struct {
	Label        string           `json:"label"`
	Link         string           `json:"link,omitempty"`
	ParentID     *uuid.UUID       `json:"parent_id,omitempty"`
	Order        *int             `json:"order,omitempty"`
	Icon         string           `json:"icon,omitempty"`
	RequiredRole permissions.Role `json:"required_role,omitempty"`
}

func (CreateEntryCommand) Type() string { return createEntryMessageType }

func (cmd CreateEntryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Label, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.ErrRequired
			}
			return nil
		})),
	)
}

// MoveEntryCommand swaps an entry with its previous or next sibling.
type MoveEntryCommand struct {
	ID        uuid.UUID `json:"id"`
	Direction Direction `json:"direction"`
}

func (MoveEntryCommand) Type() string { return moveEntryMessageType }

func (cmd MoveEntryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ID, commands.RequiredID),
		validation.Field(&cmd.Direction, validation.Required, validation.In(DirectionUp, DirectionDown)),
	)
}

// DeleteEntryCommand removes an entry and its whole subtree.
type DeleteEntryCommand struct {
	ID uuid.UUID `json:"id"`
}

func (DeleteEntryCommand) Type() string { return deleteEntryMessageType }

func (cmd DeleteEntryCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validation.Field(&cmd.ID, commands.RequiredID))
}

type SeedAdminNavigationCommand struct{}

func (SeedAdminNavigationCommand) Type() string { return seedMessageType }

func (SeedAdminNavigationCommand) Validate() error { return nil }
