package records

import (
	"time"

	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is one content item. Values keys are field names of the owning
// type at write time; keys of removed fields are kept as-is.
type Record struct {
	bun.BaseModel `bun:"table:content_records,alias:cr"`

	ID            uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	ContentTypeID uuid.UUID     `bun:"content_type_id,notnull,type:uuid" json:"contentTypeId"`
	Seq           int64         `bun:"seq,notnull,default:0" json:"-"`
	Values        fields.Values `bun:"field_values,type:jsonb" json:"values"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func cloneRecord(src *Record) *Record {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Values = src.Values.Clone()
	return &copied
}
