package recordscmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-dyncms/internal/commands"
	"github.com/google/uuid"
)

const (
	createMessageType = "dyncms.records.create"
	updateMessageType = "dyncms.records.update"
	deleteMessageType = "dyncms.records.delete"
)

// CreateRecordCommand submits raw form input for a content type. Input is
// validated through the derived form before anything is stored.
type CreateRecordCommand struct {
	ContentTypeID uuid.UUID      `json:"content_type_id"`
	Input         map[string]any `json:"input"`
}

func (CreateRecordCommand) Type() string { return createMessageType }

func (cmd CreateRecordCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validation.Field(&cmd.ContentTypeID, commands.RequiredID))
}

// UpdateRecordCommand merges Input over the stored values of record ID.
type UpdateRecordCommand struct {
	ID    uuid.UUID      `json:"id"`
	Input map[string]any `json:"input"`
}

func (UpdateRecordCommand) Type() string { return updateMessageType }

func (cmd UpdateRecordCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validation.Field(&cmd.ID, commands.RequiredID))
}

type DeleteRecordCommand struct {
	ID uuid.UUID `json:"id"`
}

func (DeleteRecordCommand) Type() string { return deleteMessageType }

func (cmd DeleteRecordCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validation.Field(&cmd.ID, commands.RequiredID))
}
