package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dyncms/pkg/storage"
	"github.com/goliatone/go-dyncms/pkg/testsupport"
	"github.com/uptrace/bun"
)

type widget struct {
	bun.BaseModel `bun:"table:widgets"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name"`
}

func TestDialectSelection(t *testing.T) {
	if _, err := storage.Dialect("postgres"); err != nil {
		t.Fatalf("postgres dialect: %v", err)
	}
	if _, err := storage.Dialect(""); err != nil {
		t.Fatalf("default dialect: %v", err)
	}
	if _, err := storage.Dialect("oracle"); !errors.Is(err, storage.ErrDialectUnknown) {
		t.Fatalf("expected ErrDialectUnknown, got %v", err)
	}
}

func TestNewBunDBCreatesSchema(t *testing.T) {
	sqlDB, err := testsupport.NewNamedSQLiteMemoryDB(t.Name())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db, err := storage.NewBunDB(sqlDB, storage.DialectSQLite)
	if err != nil {
		t.Fatalf("new bun db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := storage.EnsureSchema(ctx, db, (*widget)(nil)); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := storage.EnsureSchema(ctx, db, (*widget)(nil)); err != nil {
		t.Fatalf("ensure schema twice: %v", err)
	}
	if _, err := db.NewInsert().Model(&widget{Name: "one"}).Exec(ctx); err != nil {
		t.Fatalf("insert: %v", err)
	}
	count, err := db.NewSelect().Model((*widget)(nil)).Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected one row, got %d (%v)", count, err)
	}
}

func TestNewBunDBRequiresSQLDB(t *testing.T) {
	if _, err := storage.NewBunDB(nil, ""); err == nil {
		t.Fatalf("expected error for nil sql db")
	}
}
