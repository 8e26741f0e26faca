package menuscmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-dyncms/internal/commands"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/menus"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

var ErrServiceRequired = errors.New("menus command: service is nil")

type HandlerSet struct {
	Create *commands.Handler[CreateEntryCommand]
	Move   *commands.Handler[MoveEntryCommand]
	Delete *commands.Handler[DeleteEntryCommand]
	Seed   *commands.Handler[SeedAdminNavigationCommand]
}

func NewHandlers(service menus.Service, logger interfaces.Logger) *HandlerSet {
	logger = logging.Or(logger)
	return &HandlerSet{
		Create: commands.NewHandler(func(ctx context.Context, msg CreateEntryCommand) error {
			order := msg.Order
			if order == nil {
				next, err := service.NextOrder(ctx, msg.ParentID)
				if err != nil {
					return err
				}
				order = menus.IntPtr(next)
			}
			_, err := service.Create(ctx, menus.CreateEntryRequest{
				Label:        msg.Label,
				Link:         msg.Link,
				ParentID:     msg.ParentID,
				Order:        order,
				Icon:         msg.Icon,
				RequiredRole: msg.RequiredRole,
			})
			return err
		}, options[CreateEntryCommand](logger, "menus.create_entry", func(msg CreateEntryCommand) map[string]any {
			return map[string]any{"label": msg.Label}
		})...),

		Move: commands.NewHandler(func(ctx context.Context, msg MoveEntryCommand) error {
			if msg.Direction == DirectionUp {
				return service.MoveUp(ctx, msg.ID)
			}
			return service.MoveDown(ctx, msg.ID)
		}, options[MoveEntryCommand](logger, "menus.move_entry", func(msg MoveEntryCommand) map[string]any {
			return map[string]any{"menu_item_id": msg.ID, "direction": msg.Direction}
		})...),

		Delete: commands.NewHandler(func(ctx context.Context, msg DeleteEntryCommand) error {
			removed, err := service.Delete(ctx, msg.ID)
			if err != nil {
				return err
			}
			logger.Debug("menus.command.delete_entry.removed", "menu_item_id", msg.ID, "count", removed)
			return nil
		}, options[DeleteEntryCommand](logger, "menus.delete_entry", func(msg DeleteEntryCommand) map[string]any {
			return map[string]any{"menu_item_id": msg.ID}
		})...),

		Seed: commands.NewHandler(func(ctx context.Context, _ SeedAdminNavigationCommand) error {
			created, err := service.SeedAdminNavigation(ctx)
			if err != nil {
				return err
			}
			logger.Info("menus.command.seed.completed", "created", created)
			return nil
		}, options[SeedAdminNavigationCommand](logger, "menus.seed_admin_navigation", nil)...),
	}
}

func Register(reg commands.CommandRegistry, service menus.Service, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	set := NewHandlers(service, commands.GroupLogger(provider, "menus"))
	if err := commands.Register(reg, set.Create, set.Move, set.Delete, set.Seed); err != nil {
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
