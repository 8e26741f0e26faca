package markdown

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-dyncms/internal/fields"
)

const (
	TypeMarkdown    fields.Type    = "markdown"
	ControlMarkdown fields.Control = "markdown_editor"
)

var ErrUnrenderable = validation.NewError("validation_markdown", "must be valid markdown")

// Definition describes the markdown field type. Values are stored as the
// markdown source; rendering happens on read.
func Definition(r *Renderer) fields.Definition {
	if r == nil {
		r = NewRenderer(RenderOptions{})
	}
	return fields.Definition{
		Type:    TypeMarkdown,
		Label:   "Markdown",
		Control: ControlMarkdown,
		Kind:    fields.KindText,
		Default: func(fields.Field) fields.Value { return fields.Text("") },
		Parse: func(raw any, field fields.Field) (fields.Value, error) {
			value, err := fields.ParseText(raw, field)
			if err != nil || value.Text == "" {
				return value, err
			}
			if _, renderErr := r.RenderString(value.Text); renderErr != nil {
				return fields.Value{}, ErrUnrenderable
			}
			return value, nil
		},
	}
}

// Register adds the markdown type to registry.
func Register(registry *fields.Registry, r *Renderer) error {
	return registry.Register(Definition(r))
}
