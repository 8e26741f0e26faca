package menuscmd_test

import (
	"context"
	"testing"

	menuscmd "github.com/goliatone/go-dyncms/internal/commands/menus"
	"github.com/goliatone/go-dyncms/internal/menus"
	goerrors "github.com/goliatone/go-errors"
)

func TestMenuCommands(t *testing.T) {
	ctx := context.Background()
	service := menus.NewService(menus.NewMemoryRepository())
	set, err := menuscmd.Register(nil, service, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, label := range []string{"A", "B"} {
		if err := set.Create.Execute(ctx, menuscmd.CreateEntryCommand{Label: label}); err != nil {
			t.Fatalf("create %s: %v", label, err)
		}
	}
	tree, _ := service.Tree(ctx)
	if len(tree.Roots) != 2 || tree.Roots[0].Entry.Label != "A" {
		t.Fatalf("unexpected roots %+v", tree.Roots)
	}

	second := tree.Roots[1].Entry.ID
	if err := set.Move.Execute(ctx, menuscmd.MoveEntryCommand{ID: second, Direction: menuscmd.DirectionUp}); err != nil {
		t.Fatalf("move: %v", err)
	}
	tree, _ = service.Tree(ctx)
	if tree.Roots[0].Entry.Label != "B" {
		t.Fatalf("expected B first after move, got %s", tree.Roots[0].Entry.Label)
	}

	err = set.Move.Execute(ctx, menuscmd.MoveEntryCommand{ID: second, Direction: "sideways"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for direction, got %v", err)
	}

	if err := set.Delete.Execute(ctx, menuscmd.DeleteEntryCommand{ID: second}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := set.Seed.Execute(ctx, menuscmd.SeedAdminNavigationCommand{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	entries, _ := service.List(ctx)
	if len(entries) != 1+len(menus.AdminNavigation) {
		t.Fatalf("expected seeded entries plus A, got %d", len(entries))
	}
}
