package storage

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// EnsureSchema creates a table for every model that does not have one yet.
func EnsureSchema(ctx context.Context, db *bun.DB, models ...any) error {
	if db == nil {
		return nil
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	return nil
}
