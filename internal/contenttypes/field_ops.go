package contenttypes

import (
	"strings"

	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/google/uuid"
)

// FieldPatch holds optional field changes.
type FieldPatch struct {
	Name     *string
	Type     *fields.Type
	Required *bool
	Options  *[]string
}

// AddField appends field, assigning an id when missing and defaulting the
// type to text. The input slice is not modified.
func AddField(list []Field, field Field) []Field {
	if strings.TrimSpace(field.ID) == "" {
		field.ID = uuid.NewString()
	}
	if field.Type == "" {
		field.Type = fields.TypeText
	}
	out := cloneFields(list)
	return append(out, field)
}

// UpdateField applies patch to the field with id. Unknown ids leave the list
// unchanged.
func UpdateField(list []Field, id string, patch FieldPatch) []Field {
	out := cloneFields(list)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if patch.Name != nil {
			out[i].Name = *patch.Name
		}
		if patch.Type != nil {
			out[i].Type = *patch.Type
		}
		if patch.Required != nil {
			out[i].Required = *patch.Required
		}
		if patch.Options != nil {
			out[i].Options = append([]string(nil), (*patch.Options)...)
		}
		break
	}
	return out
}

// RemoveField drops the field with id.
func RemoveField(list []Field, id string) []Field {
	out := make([]Field, 0, len(list))
	for _, field := range cloneFields(list) {
		if field.ID != id {
			out = append(out, field)
		}
	}
	if list == nil && len(out) == 0 {
		return nil
	}
	return out
}

// MoveField swaps the fields at from and to. Either index out of bounds is a
// no-op.
func MoveField(list []Field, from, to int) []Field {
	out := cloneFields(list)
	if from < 0 || to < 0 || from >= len(out) || to >= len(out) {
		return out
	}
	out[from], out[to] = out[to], out[from]
	return out
}
