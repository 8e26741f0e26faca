package endpoints

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Method is the HTTP verb of a generated endpoint.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// ParseMethod normalizes value and reports whether it is a supported method.
func ParseMethod(value string) (Method, bool) {
	method := Method(strings.ToUpper(strings.TrimSpace(value)))
	switch method {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return method, true
	default:
		return method, false
	}
}

// Endpoint is a generated REST route descriptor for one content type.
type Endpoint struct {
	bun.BaseModel `bun:"table:api_endpoints,alias:ae"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Path          string    `bun:"path,notnull" json:"path"`
	Method        Method    `bun:"method,notnull,default:'GET'" json:"method"`
	ContentTypeID uuid.UUID `bun:"content_type_id,notnull,type:uuid" json:"contentTypeId"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func cloneEndpoint(src *Endpoint) *Endpoint {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
