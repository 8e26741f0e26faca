package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Generator returns a new opaque identifier on every call.
type Generator func() uuid.UUID

// Random is the default generator.
func Random() uuid.UUID { return uuid.New() }

// UUID derives a stable UUID from key with go-hashid, falling back to a SHA1
// name based UUID when hashing fails. Keys must be namespaced by the caller.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// NavigationEntryUUID identifies a seeded admin navigation entry by link.
func NavigationEntryUUID(link string) uuid.UUID {
	return UUID("dyncms:navigation:" + strings.ToLower(strings.TrimSpace(link)))
}

// SettingsUUID identifies the singleton settings document.
func SettingsUUID() uuid.UUID {
	return UUID("dyncms:settings")
}
