package commands

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var errIDRequired = validation.NewError("validation_id_required", "id is required")

// RequiredID rejects uuid.Nil. validation.Required cannot, since a UUID is a
// fixed size array.
var RequiredID = validation.By(func(value any) error {
	switch id := value.(type) {
	case uuid.UUID:
		if id == uuid.Nil {
			return errIDRequired
		}
	case *uuid.UUID:
		if id == nil || *id == uuid.Nil {
			return errIDRequired
		}
	}
	return nil
})

// CommandRegistry is the registration contract of go-command registries.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Register adds each handler to reg, stopping at the first failure. A nil
// registry is a no-op.
func Register(reg CommandRegistry, handlers ...any) error {
	if reg == nil {
		return nil
	}
	for _, handler := range handlers {
		if err := reg.RegisterCommand(handler); err != nil {
			return err
		}
	}
	return nil
}
