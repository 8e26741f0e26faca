// Package dyncms is a dynamic content type engine: administrators define
// typed schemas at runtime and the engine derives forms, validates records
// and keeps generated endpoints and navigation in step with schema changes.
package dyncms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-dyncms/internal/commands"
	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/di"
	"github.com/goliatone/go-dyncms/internal/endpoints"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/forms"
	"github.com/goliatone/go-dyncms/internal/markdown"
	"github.com/goliatone/go-dyncms/internal/menus"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/internal/settings"
	"github.com/goliatone/go-dyncms/internal/users"
	"github.com/google/uuid"
)

// ContentTypeService manages schemas. Updates made through it directly do
// not propagate renames; use Module.UpdateContentType for that.
type ContentTypeService = contenttypes.Service

type RecordService = records.Service

type MenuService = menus.Service

type EndpointService = endpoints.Service

type UserService = users.Service

type SettingsService = settings.Service

type (
	ContentType              = contenttypes.ContentType
	Field                    = contenttypes.Field
	CreateContentTypeRequest = contenttypes.CreateContentTypeRequest
	UpdateContentTypeRequest = contenttypes.UpdateContentTypeRequest
	Record                   = records.Record
	Form                     = forms.Form
	CommandHandlers          = di.CommandHandlers
)

// Module is the engine. It owns every collection; there is no package level
// state.
type Module struct {
	container *di.Container
}

func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container.
func (m *Module) Container() *di.Container {
	return m.container
}

// Start prepares storage, seeds navigation and starts replication.
func (m *Module) Start(ctx context.Context) error {
	return m.container.Start(ctx)
}

func (m *Module) Close() error {
	return m.container.Close()
}

func (m *Module) ContentTypes() ContentTypeService {
	return m.container.ContentTypeService()
}

func (m *Module) Records() RecordService {
	return m.container.RecordService()
}

func (m *Module) Menus() MenuService {
	return m.container.MenuService()
}

func (m *Module) Endpoints() EndpointService {
	return m.container.EndpointService()
}

func (m *Module) Users() UserService {
	return m.container.UserService()
}

func (m *Module) Settings() SettingsService {
	return m.container.SettingsService()
}

func (m *Module) Fields() *fields.Registry {
	return m.container.FieldRegistry()
}

func (m *Module) Importer() *markdown.Importer {
	return m.container.Importer()
}

// UpdateContentType applies req and then moves the generated endpoint and
// menu entry to the new name and slug.
func (m *Module) UpdateContentType(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error) {
	types := m.ContentTypes()
	before, err := types.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	after, err := types.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := m.container.SyncRename(ctx, before, after); err != nil {
		return after, err
	}
	return after, nil
}

// Form derives the data-entry form of a content type. A non-nil recordID
// fills the form with that record's values.
func (m *Module) Form(ctx context.Context, contentTypeID uuid.UUID, recordID *uuid.UUID) (*Form, error) {
	ct, err := m.ContentTypes().Get(ctx, contentTypeID)
	if err != nil {
		return nil, err
	}
	var existing fields.Values
	if recordID != nil {
		record, err := m.Records().Get(ctx, *recordID)
		if err != nil {
			return nil, err
		}
		existing = record.Values
	}
	return forms.Derive(ct, existing, m.Fields())
}

// SubmitRecord validates raw input through the derived form and stores a
// new record.
func (m *Module) SubmitRecord(ctx context.Context, contentTypeID uuid.UUID, input map[string]any) (*Record, error) {
	form, err := m.Form(ctx, contentTypeID, nil)
	if err != nil {
		return nil, err
	}
	values, err := form.Submit(input)
	if err != nil {
		return nil, err
	}
	return m.Records().Create(ctx, records.CreateRecordRequest{ContentTypeID: contentTypeID, Values: values})
}

// PublishSchemas registers one OpenAPI document per content type with the
// go-crud schema registry.
func (m *Module) PublishSchemas(ctx context.Context) error {
	return m.container.PublishSchemas(ctx)
}

// RegisterCommands registers every command handler with reg.
func (m *Module) RegisterCommands(reg commands.CommandRegistry) (*CommandHandlers, error) {
	return m.container.RegisterCommands(reg)
}

// Handler returns the admin and public HTTP APIs.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Slugify derives the URL slug a content type named name would receive.
func Slugify(name string) string {
	return contenttypes.GenerateSlug(name)
}
