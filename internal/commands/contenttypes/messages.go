package contenttypescmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-dyncms/internal/commands"
	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/google/uuid"
)

const (
	createMessageType      = "dyncms.content_types.create"
	updateMessageType      = "dyncms.content_types.update"
	deleteMessageType      = "dyncms.content_types.delete"
	addFieldMessageType    = "dyncms.content_types.add_field"
	removeFieldMessageType = "dyncms.content_types.remove_field"
	moveFieldMessageType   = "dyncms.content_types.move_field"
)

// CreateContentTypeCommand defines a new content type. An empty Slug is
// derived from Name.
type CreateContentTypeCommand struct {
	Name   string               `json:"name"`
	Slug   string               `json:"slug,omitempty"`
	Icon   string               `json:"icon,omitempty"`
	Fields []contenttypes.Field `json:"fields,omitempty"`
}

func (CreateContentTypeCommand) Type() string { return createMessageType }

func (cmd CreateContentTypeCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Name, validation.Required, validation.By(notBlank)),
	)
}

// UpdateContentTypeCommand renames or re-slugs a content type. Dependent
// menu entries and endpoints follow the new name and slug.
type UpdateContentTypeCommand struct {
	ID   uuid.UUID `json:"id"`
	Name *string   `json:"name,omitempty"`
	Slug *string   `json:"slug,omitempty"`
	Icon *string   `json:"icon,omitempty"`
}

func (UpdateContentTypeCommand) Type() string { return updateMessageType }

func (cmd UpdateContentTypeCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ID, commands.RequiredID),
		validation.Field(&cmd.Name, validation.NilOrNotEmpty),
		validation.Field(&cmd.Slug, validation.NilOrNotEmpty),
	)
}

type DeleteContentTypeCommand struct {
	ID uuid.UUID `json:"id"`
}

func (DeleteContentTypeCommand) Type() string { return deleteMessageType }

func (cmd DeleteContentTypeCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validation.Field(&cmd.ID, commands.RequiredID))
}

// AddFieldCommand appends Field to the type's field list. An empty type
// defaults to text.
type AddFieldCommand struct {
	ContentTypeID uuid.UUID          `json:"content_type_id"`
	Field         contenttypes.Field `json:"field"`
}

func (AddFieldCommand) Type() string { return addFieldMessageType }

func (cmd AddFieldCommand) Validate() error {
	return validation.Errors{
		"content_type_id": validation.Validate(cmd.ContentTypeID, commands.RequiredID),
		"field.name":      validation.Validate(cmd.Field.Name, validation.Required, validation.By(notBlank)),
	}.Filter()
}

type RemoveFieldCommand struct {
	ContentTypeID uuid.UUID `json:"content_type_id"`
	FieldID       string    `json:"field_id"`
}

func (RemoveFieldCommand) Type() string { return removeFieldMessageType }

func (cmd RemoveFieldCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.ContentTypeID, commands.RequiredID),
		validation.Field(&cmd.FieldID, validation.Required),
	)
}

// MoveFieldCommand swaps the fields at From and To. Out of range indexes
// leave the list unchanged.
type MoveFieldCommand struct {
	ContentTypeID uuid.UUID `json:"content_type_id"`
	From          int       `json:"from"`
	To            int       `json:"to"`
}

func (MoveFieldCommand) Type() string { return moveFieldMessageType }

func (cmd MoveFieldCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validation.Field(&cmd.ContentTypeID, commands.RequiredID))
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.ErrRequired
	}
	return nil
}
