package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-dyncms/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.StorageProvider() != runtimeconfig.StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.StorageProvider())
	}
	if !cfg.Menus.SeedAdminNavigation {
		t.Fatalf("expected admin navigation seeding by default")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown storage provider",
			mutate: func(c *runtimeconfig.Config) { c.Storage.Provider = "mongo" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name: "unknown dialect",
			mutate: func(c *runtimeconfig.Config) {
				c.Storage.Provider = "bun"
				c.Storage.Dialect = "mysql"
			},
			want: runtimeconfig.ErrStorageDialectUnknown,
		},
		{
			name:   "cache without bun",
			mutate: func(c *runtimeconfig.Config) { c.Cache.Enabled = true },
			want:   runtimeconfig.ErrCacheRequiresBunStorage,
		},
		{
			name:   "negative ttl",
			mutate: func(c *runtimeconfig.Config) { c.Cache.DefaultTTL = -time.Second },
			want:   runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name:   "replication without feature",
			mutate: func(c *runtimeconfig.Config) { c.Replication.Enabled = true },
			want:   runtimeconfig.ErrReplicationFeatureRequired,
		},
		{
			name: "replication without base url",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Replication = true
				c.Replication.Enabled = true
				c.Replication.BaseURL = " "
			},
			want: runtimeconfig.ErrReplicationBaseURLRequired,
		},
		{
			name:   "negative queue",
			mutate: func(c *runtimeconfig.Config) { c.Replication.QueueSize = -1 },
			want:   runtimeconfig.ErrReplicationQueueSizeInvalid,
		},
		{
			name:   "negative menu depth",
			mutate: func(c *runtimeconfig.Config) { c.Menus.MaxDepth = -2 },
			want:   runtimeconfig.ErrMenuDepthInvalid,
		},
		{
			name:   "relative base path",
			mutate: func(c *runtimeconfig.Config) { c.HTTP.PublicBasePath = "api" },
			want:   runtimeconfig.ErrHTTPBasePathInvalid,
		},
		{
			name: "logging provider required",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Logger = true
				c.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "unknown logging provider",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Logger = true
				c.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid level",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Logger = true
				c.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Logger = true
				c.Logging.Provider = "gologger"
				c.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateAcceptsBunWithCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "BUN"
	cfg.Storage.Dialect = "postgres"
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.StorageProvider() != runtimeconfig.StorageBun || cfg.StorageDialect() != runtimeconfig.DialectPostgres {
		t.Fatalf("unexpected normalized storage: %s/%s", cfg.StorageProvider(), cfg.StorageDialect())
	}
}
