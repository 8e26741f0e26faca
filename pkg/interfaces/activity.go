package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users activity record emitted for schema and
// record mutations.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink receives activity records. Any go-users ActivitySink satisfies it.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
