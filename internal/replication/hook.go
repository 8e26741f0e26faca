package replication

import (
	"context"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/pkg/activity"
)

// objectCollections maps activity object types to remote collections.
var objectCollections = map[string]domain.Collection{
	"content_type":   domain.CollectionContentTypes,
	"content_record": domain.CollectionContent,
	"api_endpoint":   domain.CollectionAPIEndpoints,
	"menu_item":      domain.CollectionMenuItems,
	"user":           domain.CollectionUsers,
	"settings":       domain.CollectionSettings,
}

// Hook turns activity events into replication jobs.
type Hook struct {
	Replicator *Replicator
}

var _ activity.Hook = Hook{}

func (h Hook) Notify(_ context.Context, event activity.Event) error {
	if h.Replicator == nil || event.ObjectID == "" {
		return nil
	}
	collection, ok := objectCollections[event.ObjectType]
	if !ok {
		return nil
	}
	job := Job{Collection: collection, ID: event.ObjectID, Payload: event.Object}
	switch event.Verb {
	case "create":
		job.Op = OpCreate
	case "update":
		job.Op = OpPatch
	case "delete":
		job.Op = OpDelete
		job.Payload = nil
	default:
		return nil
	}
	if job.Op != OpDelete && job.Payload == nil {
		return nil
	}
	return h.Replicator.Enqueue(job)
}
