package interfaces

import "context"

// RemoteStore is the best-effort replica the engine mirrors local writes to.
// Collection names match the local collections (contentTypes, content,
// menuItems, apiEndpoints, users, settings).
type RemoteStore interface {
	Create(ctx context.Context, collection string, id string, payload any) error
	Patch(ctx context.Context, collection string, id string, payload any) error
	Delete(ctx context.Context, collection string, id string) error
}
