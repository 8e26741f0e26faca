package contenttypes

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewContentTypeRepository builds the go-repository-bun repository keyed by slug.
func NewContentTypeRepository(db *bun.DB) repository.Repository[*ContentType] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentType]{
		NewRecord: func() *ContentType { return &ContentType{} },
		GetID: func(ct *ContentType) uuid.UUID {
			return ct.ID
		},
		SetID: func(ct *ContentType, id uuid.UUID) {
			ct.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(ct *ContentType) string {
			return ct.Slug
		},
	})
}
