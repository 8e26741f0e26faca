package contenttypes

import (
	"time"

	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Field is one typed attribute embedded in a content type.
type Field = fields.Field

// ContentType is an administrator defined schema.
type ContentType struct {
	bun.BaseModel `bun:"table:content_types,alias:ct"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	Icon      string    `bun:"icon" json:"icon,omitempty"`
	Fields    []Field   `bun:"fields,type:jsonb" json:"fields"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

// FieldByName returns the field with the given storage key.
func (ct *ContentType) FieldByName(name string) (Field, bool) {
	if ct == nil {
		return Field{}, false
	}
	for _, field := range ct.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func cloneContentType(src *ContentType) *ContentType {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Fields = cloneFields(src.Fields)
	return &copied
}

func cloneFields(src []Field) []Field {
	if src == nil {
		return nil
	}
	out := make([]Field, len(src))
	for i, field := range src {
		field.Options = append([]string(nil), field.Options...)
		out[i] = field
	}
	return out
}
