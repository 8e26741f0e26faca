package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const importDirectoryMessageType = "dyncms.markdown.import_directory"

// ImportDirectoryCommand imports every markdown file in Directory as a record
// of the content type with slug ContentType.
type ImportDirectoryCommand struct {
	Directory   string `json:"directory"`
	ContentType string `json:"content_type"`
	// BodyField names the field receiving the markdown body. Empty picks the
	// first markdown or textarea field.
	BodyField string `json:"body_field,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
}

func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("dyncms.markdown.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.ContentType, validation.Required),
	)
}
