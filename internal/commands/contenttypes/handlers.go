package contenttypescmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-dyncms/internal/commands"
	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

var ErrServiceRequired = errors.New("content types command: service is nil")

var (
	_ command.Commander[CreateContentTypeCommand] = (*commands.Handler[CreateContentTypeCommand])(nil)
	_ command.Commander[UpdateContentTypeCommand] = (*commands.Handler[UpdateContentTypeCommand])(nil)
)

// Renamer propagates a rename to dependent collections.
type Renamer interface {
	SyncRename(ctx context.Context, before, after *contenttypes.ContentType) error
}

// HandlerSet groups the content type handlers.
type HandlerSet struct {
	Create      *commands.Handler[CreateContentTypeCommand]
	Update      *commands.Handler[UpdateContentTypeCommand]
	Delete      *commands.Handler[DeleteContentTypeCommand]
	AddField    *commands.Handler[AddFieldCommand]
	RemoveField *commands.Handler[RemoveFieldCommand]
	MoveField   *commands.Handler[MoveFieldCommand]
}

// NewHandlers builds every content type handler. renamer may be nil, in
// which case updates do not touch dependents.
func NewHandlers(service contenttypes.Service, renamer Renamer, logger interfaces.Logger) *HandlerSet {
	logger = logging.Or(logger)
	return &HandlerSet{
		Create: commands.NewHandler(func(ctx context.Context, msg CreateContentTypeCommand) error {
			ct, err := service.Create(ctx, contenttypes.CreateContentTypeRequest{
				Name:   msg.Name,
				Slug:   contenttypes.DefaultSlug(msg.Slug, msg.Name),
				Icon:   msg.Icon,
				Fields: msg.Fields,
			})
			if err != nil {
				return err
			}
			logging.WithContentType(logger, ct.ID.String(), ct.Slug).Info("content_types.command.created")
			return nil
		}, handlerOptions[CreateContentTypeCommand](logger, "content_types.create", func(msg CreateContentTypeCommand) map[string]any {
			return map[string]any{"name": msg.Name, "field_count": len(msg.Fields)}
		})...),

		Update: commands.NewHandler(func(ctx context.Context, msg UpdateContentTypeCommand) error {
			before, err := service.Get(ctx, msg.ID)
			if err != nil {
				return err
			}
			after, err := service.Update(ctx, contenttypes.UpdateContentTypeRequest{
				ID:   msg.ID,
				Name: msg.Name,
				Slug: msg.Slug,
				Icon: msg.Icon,
			})
			if err != nil {
				return err
			}
			if renamer == nil {
				return nil
			}
			return renamer.SyncRename(ctx, before, after)
		}, handlerOptions[UpdateContentTypeCommand](logger, "content_types.update", func(msg UpdateContentTypeCommand) map[string]any {
			return map[string]any{"content_type_id": msg.ID}
		})...),

		Delete: commands.NewHandler(func(ctx context.Context, msg DeleteContentTypeCommand) error {
			return service.Delete(ctx, contenttypes.DeleteContentTypeRequest{ID: msg.ID})
		}, handlerOptions[DeleteContentTypeCommand](logger, "content_types.delete", func(msg DeleteContentTypeCommand) map[string]any {
			return map[string]any{"content_type_id": msg.ID}
		})...),

		AddField: commands.NewHandler(func(ctx context.Context, msg AddFieldCommand) error {
			return editFields(ctx, service, msg.ContentTypeID, func(list []contenttypes.Field) []contenttypes.Field {
				return contenttypes.AddField(list, msg.Field)
			})
		}, handlerOptions[AddFieldCommand](logger, "content_types.add_field", func(msg AddFieldCommand) map[string]any {
			return map[string]any{"content_type_id": msg.ContentTypeID, "field": msg.Field.Name}
		})...),

		RemoveField: commands.NewHandler(func(ctx context.Context, msg RemoveFieldCommand) error {
			return editFields(ctx, service, msg.ContentTypeID, func(list []contenttypes.Field) []contenttypes.Field {
				return contenttypes.RemoveField(list, msg.FieldID)
			})
		}, handlerOptions[RemoveFieldCommand](logger, "content_types.remove_field", func(msg RemoveFieldCommand) map[string]any {
			return map[string]any{"content_type_id": msg.ContentTypeID, "field_id": msg.FieldID}
		})...),

		MoveField: commands.NewHandler(func(ctx context.Context, msg MoveFieldCommand) error {
			return editFields(ctx, service, msg.ContentTypeID, func(list []contenttypes.Field) []contenttypes.Field {
				return contenttypes.MoveField(list, msg.From, msg.To)
			})
		}, handlerOptions[MoveFieldCommand](logger, "content_types.move_field", func(msg MoveFieldCommand) map[string]any {
			return map[string]any{"content_type_id": msg.ContentTypeID, "from": msg.From, "to": msg.To}
		})...),
	}
}

// Register builds the handlers and adds them to reg.
func Register(reg commands.CommandRegistry, service contenttypes.Service, renamer Renamer, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	set := NewHandlers(service, renamer, commands.GroupLogger(provider, "content_types"))
	if err := commands.Register(reg, set.Create, set.Update, set.Delete, set.AddField, set.RemoveField, set.MoveField); err != nil {
		return nil, err
	}
	return set, nil
}

func editFields(ctx context.Context, service contenttypes.Service, id uuid.UUID, edit func([]contenttypes.Field) []contenttypes.Field) error {
	ct, err := service.Get(ctx, id)
	if err != nil {
		return err
	}
	next := edit(ct.Fields)
	_, err = service.Update(ctx, contenttypes.UpdateContentTypeRequest{ID: id, Fields: &next})
	return err
}

func handlerOptions[T command.Message](logger interfaces.Logger, operation string, messageFields func(T) map[string]any) []commands.HandlerOption[T] {
	return []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
		commands.WithMessageFields(messageFields),
		commands.WithObserver(commands.LogObserver[T](logger)),
	}
}
