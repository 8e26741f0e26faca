package recordscmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-dyncms/internal/commands"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/forms"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

var ErrServiceRequired = errors.New("records command: service is nil")

type HandlerSet struct {
	Create *commands.Handler[CreateRecordCommand]
	Update *commands.Handler[UpdateRecordCommand]
	Delete *commands.Handler[DeleteRecordCommand]
}

// NewHandlers builds the record handlers. Input goes through forms.Derive and
// Submit, so commands reject exactly what the data-entry form rejects.
func NewHandlers(service records.Service, schemas records.SchemaResolver, registry *fields.Registry, logger interfaces.Logger) *HandlerSet {
	logger = logging.Or(logger)
	return &HandlerSet{
		Create: commands.NewHandler(func(ctx context.Context, msg CreateRecordCommand) error {
			ct, err := schemas.Get(ctx, msg.ContentTypeID)
			if err != nil {
				return err
			}
			form, err := forms.Derive(ct, nil, registry)
			if err != nil {
				return err
			}
			values, err := form.Submit(msg.Input)
			if err != nil {
				return err
			}
			_, err = service.Create(ctx, records.CreateRecordRequest{ContentTypeID: ct.ID, Values: values})
			return err
		}, options[CreateRecordCommand](logger, "records.create", func(msg CreateRecordCommand) map[string]any {
			return map[string]any{"content_type_id": msg.ContentTypeID}
		})...),

		Update: commands.NewHandler(func(ctx context.Context, msg UpdateRecordCommand) error {
			existing, err := service.Get(ctx, msg.ID)
			if err != nil {
				return err
			}
			ct, err := schemas.Get(ctx, existing.ContentTypeID)
			if err != nil {
				return err
			}
			form, err := forms.Derive(ct, existing.Values, registry)
			if err != nil {
				return err
			}
			values, err := form.SubmitPatch(existing.Values, msg.Input)
			if err != nil {
				return err
			}
			_, err = service.Update(ctx, records.UpdateRecordRequest{ID: msg.ID, Values: values})
			return err
		}, options[UpdateRecordCommand](logger, "records.update", func(msg UpdateRecordCommand) map[string]any {
			return map[string]any{"record_id": msg.ID}
		})...),

		Delete: commands.NewHandler(func(ctx context.Context, msg DeleteRecordCommand) error {
			return service.Delete(ctx, msg.ID)
		}, options[DeleteRecordCommand](logger, "records.delete", func(msg DeleteRecordCommand) map[string]any {
			return map[string]any{"record_id": msg.ID}
		})...),
	}
}

func Register(reg commands.CommandRegistry, service records.Service, schemas records.SchemaResolver, registry *fields.Registry, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if service == nil || schemas == nil {
		return nil, ErrServiceRequired
	}
	set := NewHandlers(service, schemas, registry, commands.GroupLogger(provider, "records"))
	if err := commands.Register(reg, set.Create, set.Update, set.Delete); err != nil {
		return nil, err
	}
	return set, nil
}

func options[T command.Message](logger interfaces.Logger, operation string, messageFields func(T) map[string]any) []commands.HandlerOption[T] {
	return []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
		commands.WithMessageFields(messageFields),
		commands.WithObserver(commands.LogObserver[T](logger)),
	}
}
