package identity_test

import (
	"testing"

	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	a := identity.NavigationEntryUUID("/dashboard")
	b := identity.NavigationEntryUUID(" /Dashboard ")
	if a == uuid.Nil || a != b {
		t.Fatalf("expected stable id, got %s and %s", a, b)
	}
	if a == identity.NavigationEntryUUID("/settings") {
		t.Fatalf("expected different links to yield different ids")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if identity.UUID("   ") != uuid.Nil {
		t.Fatalf("expected nil uuid for empty key")
	}
}

func TestRandomGeneratorIsUnique(t *testing.T) {
	var gen identity.Generator = identity.Random
	if gen() == gen() {
		t.Fatalf("expected distinct identifiers")
	}
}
