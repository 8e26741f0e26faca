// Package cascade keeps generated endpoints, menu entries and records in
// step with content type lifecycle changes.
package cascade

import (
	"context"
	"errors"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/endpoints"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/menus"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/internal/routes"
	"github.com/goliatone/go-dyncms/pkg/activity"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GeneratedIcon is the icon of menu entries created for content types.
const GeneratedIcon = "FileText"

// Step names reported through domain.CascadeFailure.
const (
	StepEndpoint    = "endpoint"
	StepMenu        = "menu"
	StepRecords     = "records"
	StepTransaction = "transaction"
)

type RecordStore interface {
	DeleteByType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error)
}

// CacheInvalidator is implemented by cached bun repositories.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

type Option func(*Coordinator)

func WithRoutes(builder routes.Builder) Option {
	return func(c *Coordinator) {
		if builder != nil {
			c.routes = builder
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logging.Or(logger)
	}
}

// WithActivity reports every dependent removed by BeforeDelete as a delete
// event.
func WithActivity(emitter *activity.Emitter) Option {
	return func(c *Coordinator) {
		c.activity = emitter
	}
}

// WithTransaction runs BeforeDelete as one bun transaction on db. The
// invalidators are flushed after a successful commit.
func WithTransaction(db *bun.DB, invalidators ...CacheInvalidator) Option {
	return func(c *Coordinator) {
		c.db = db
		c.invalidators = invalidators
	}
}

// Coordinator implements contenttypes.Hooks and rename sync.
type Coordinator struct {
	endpoints    endpoints.Service
	menus        menus.Service
	records      RecordStore
	routes       routes.Builder
	db           *bun.DB
	invalidators []CacheInvalidator
	activity     *activity.Emitter
	logger       interfaces.Logger
}

var _ contenttypes.Hooks = (*Coordinator)(nil)

func New(endpointSvc endpoints.Service, menuSvc menus.Service, recordStore RecordStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		endpoints: endpointSvc,
		menus:     menuSvc,
		records:   recordStore,
		routes:    routes.Static(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// AfterCreate writes the endpoint and then the menu entry. A failed menu
// write removes the endpoint again.
func (c *Coordinator) AfterCreate(ctx context.Context, ct *contenttypes.ContentType) error {
	if ct == nil {
		return nil
	}
	logger := logging.WithContentType(c.logger, ct.ID.String(), ct.Slug)

	endpoint, err := c.endpoints.Create(ctx, endpoints.CreateEndpointRequest{
		ContentTypeID: ct.ID,
		Slug:          ct.Slug,
		Method:        endpoints.MethodGet,
	})
	if err != nil {
		logger.Error("cascade.create.endpoint_failed", "error", err)
		return failure(ct.ID, StepEndpoint, err)
	}

	if err := c.createMenuEntry(ctx, ct); err != nil {
		if delErr := c.endpoints.Delete(ctx, endpoint.ID); delErr != nil {
			logger.Error("cascade.create.compensation_failed", "endpoint_id", endpoint.ID.String(), "error", delErr)
		}
		logger.Error("cascade.create.menu_failed", "error", err)
		return failure(ct.ID, StepMenu, err)
	}

	logger.Info("cascade.create.success", "path", endpoint.Path)
	return nil
}

func (c *Coordinator) createMenuEntry(ctx context.Context, ct *contenttypes.ContentType) error {
	link, err := c.routes.MenuLink(ct.Slug)
	if err != nil {
		return err
	}
	order, err := c.menus.NextOrder(ctx, nil)
	if err != nil {
		return err
	}
	ctID := ct.ID
	_, err = c.menus.Create(ctx, menus.CreateEntryRequest{
		Label:         ct.Name,
		Link:          link,
		Order:         menus.IntPtr(order),
		Icon:          GeneratedIcon,
		ContentTypeID: &ctID,
	})
	return err
}

// SyncRename patches the generated endpoint and menu entry after a name or
// slug change. Missing dependents are recreated and extra ones pruned, so
// exactly one of each remains.
func (c *Coordinator) SyncRename(ctx context.Context, before, after *contenttypes.ContentType) error {
	if after == nil {
		return nil
	}
	logger := logging.WithContentType(c.logger, after.ID.String(), after.Slug)
	if err := c.syncEndpoint(ctx, after); err != nil {
		logger.Error("cascade.rename.endpoint_failed", "error", err)
		return failure(after.ID, StepEndpoint, err)
	}
	if err := c.syncMenu(ctx, after); err != nil {
		logger.Error("cascade.rename.menu_failed", "error", err)
		return failure(after.ID, StepMenu, err)
	}
	if before != nil && (before.Slug != after.Slug || before.Name != after.Name) {
		logger.Info("cascade.rename.success", "from", before.Slug, "to", after.Slug)
	}
	return nil
}

func (c *Coordinator) syncEndpoint(ctx context.Context, ct *contenttypes.ContentType) error {
	existing, err := c.endpoints.ListByContentType(ctx, ct.ID)
	if err != nil {
		return err
	}
	var keep *endpoints.Endpoint
	for _, endpoint := range existing {
		switch {
		case endpoint.Method != endpoints.MethodGet:
			if _, err := c.endpoints.UpdatePath(ctx, endpoint.ID, ct.Slug); err != nil {
				return err
			}
		case keep == nil:
			keep = endpoint
		default:
			if err := c.endpoints.Delete(ctx, endpoint.ID); err != nil && !domain.IsNotFound(err) {
				return err
			}
		}
	}
	if keep == nil {
		_, err := c.endpoints.Create(ctx, endpoints.CreateEndpointRequest{ContentTypeID: ct.ID, Slug: ct.Slug})
		return err
	}
	_, err = c.endpoints.UpdatePath(ctx, keep.ID, ct.Slug)
	return err
}

func (c *Coordinator) syncMenu(ctx context.Context, ct *contenttypes.ContentType) error {
	existing, err := c.menus.ListByContentType(ctx, ct.ID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return c.createMenuEntry(ctx, ct)
	}
	for _, extra := range existing[1:] {
		if _, err := c.menus.Delete(ctx, extra.ID); err != nil && !domain.IsNotFound(err) {
			return err
		}
	}
	link, err := c.routes.MenuLink(ct.Slug)
	if err != nil {
		return err
	}
	entry := existing[0]
	if entry.Label == ct.Name && entry.Link == link {
		return nil
	}
	label := ct.Name
	_, err = c.menus.Update(ctx, menus.UpdateEntryRequest{ID: entry.ID, Label: &label, Link: &link})
	return err
}

// BeforeDelete removes records, endpoints and menu entries tagged with the
// content type. It runs inside one transaction when configured with one.
// Delete events for the removed dependents follow each committed step.
func (c *Coordinator) BeforeDelete(ctx context.Context, ct *contenttypes.ContentType) error {
	if ct == nil {
		return nil
	}
	logger := logging.WithContentType(c.logger, ct.ID.String(), ct.Slug)
	if c.db != nil {
		return c.deleteInTx(ctx, ct, logger)
	}

	var removed removal
	var err error
	if removed.records, err = c.records.DeleteByType(ctx, ct.ID); err != nil {
		logger.Error("cascade.delete.records_failed", "error", err)
		return failure(ct.ID, StepRecords, err)
	}
	c.emitDeleted(ctx, logger, records.ActivityObjectType, removed.records)
	if removed.endpoints, err = c.endpoints.DeleteByContentType(ctx, ct.ID); err != nil {
		logger.Error("cascade.delete.endpoint_failed", "error", err)
		return failure(ct.ID, StepEndpoint, err)
	}
	c.emitDeleted(ctx, logger, endpoints.ActivityObjectType, removed.endpoints)
	removed.entries, err = c.menus.DeleteByContentType(ctx, ct.ID)
	c.emitDeleted(ctx, logger, menus.ActivityObjectType, removed.entries)
	if err != nil {
		logger.Error("cascade.delete.menu_failed", "error", err)
		return failure(ct.ID, StepMenu, err)
	}
	logger.Info("cascade.delete.success", removed.logFields()...)
	return nil
}

func (c *Coordinator) deleteInTx(ctx context.Context, ct *contenttypes.ContentType, logger interfaces.Logger) error {
	var removed removal
	step := StepTransaction
	err := c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		step = StepRecords
		if removed.records, err = records.DeleteByTypeTx(ctx, tx, ct.ID); err != nil {
			return err
		}
		step = StepEndpoint
		if removed.endpoints, err = endpoints.DeleteByContentTypeTx(ctx, tx, ct.ID); err != nil {
			return err
		}
		step = StepMenu
		if removed.entries, err = menus.DeleteByContentTypeTx(ctx, tx, ct.ID); err != nil {
			return err
		}
		step = StepTransaction
		return nil
	})
	if err != nil {
		logger.Error("cascade.delete.tx_failed", "step", step, "error", err)
		return failure(ct.ID, step, err)
	}
	for _, inv := range c.invalidators {
		if inv == nil {
			continue
		}
		if err := inv.InvalidateCache(ctx); err != nil {
			logger.Warn("cascade.delete.cache_invalidate_failed", "error", err)
		}
	}
	c.emitDeleted(ctx, logger, records.ActivityObjectType, removed.records)
	c.emitDeleted(ctx, logger, endpoints.ActivityObjectType, removed.endpoints)
	c.emitDeleted(ctx, logger, menus.ActivityObjectType, removed.entries)
	logger.Info("cascade.delete.success", append(removed.logFields(), "transactional", true)...)
	return nil
}

// removal holds the ids one BeforeDelete removed.
type removal struct {
	records   []uuid.UUID
	endpoints []uuid.UUID
	entries   []uuid.UUID
}

func (r removal) logFields() []any {
	return []any{
		"records", len(r.records),
		"endpoints", len(r.endpoints),
		"menu_entries", len(r.entries),
	}
}

func (c *Coordinator) emitDeleted(ctx context.Context, logger interfaces.Logger, objectType string, ids []uuid.UUID) {
	if !c.activity.Enabled() {
		return
	}
	for _, id := range ids {
		err := c.activity.Emit(ctx, activity.Event{
			Verb:       "delete",
			ObjectType: objectType,
			ObjectID:   id.String(),
			Metadata:   map[string]any{"cascade": true},
		})
		if err != nil {
			logger.Warn("cascade.delete.activity_failed", "object_type", objectType, "object_id", id.String(), "error", err)
		}
	}
}

// failure wraps err as a CascadeFailure naming step. Errors that are not
// already domain kinds are treated as transport failures.
func failure(id uuid.UUID, step string, err error) error {
	var cascadeErr *domain.CascadeFailure
	if errors.As(err, &cascadeErr) {
		return err
	}
	if !domain.IsValidation(err) && !domain.IsNotFound(err) && !errors.Is(err, domain.ErrTransport) {
		err = &domain.TransportFailure{Operation: "cascade." + step, Err: err}
	}
	return &domain.CascadeFailure{ContentTypeID: id, Step: step, Err: err}
}
