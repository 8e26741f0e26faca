package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrStorageProviderUnknown = errors.New("dyncms config: storage provider is invalid")
var ErrStorageDialectUnknown = errors.New("dyncms config: storage dialect is invalid")
var ErrCacheRequiresBunStorage = errors.New("dyncms config: repository cache requires bun storage")
var ErrCacheTTLInvalid = errors.New("dyncms config: cache ttl must be zero or positive")
var ErrLoggingProviderRequired = errors.New("dyncms config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("dyncms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("dyncms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("dyncms config: logging format is invalid")

// ErrReplicationFeatureRequired indicates replication settings without the feature flag.
var ErrReplicationFeatureRequired = errors.New("dyncms config: replication feature must be enabled to configure replication")
var ErrReplicationBaseURLRequired = errors.New("dyncms config: replication base url is required when replication is enabled")
var ErrReplicationQueueSizeInvalid = errors.New("dyncms config: replication queue size must be zero or positive")
var ErrReplicationTimeoutInvalid = errors.New("dyncms config: replication timeout must be zero or positive")
var ErrMenuDepthInvalid = errors.New("dyncms config: menu max depth must be zero or positive")
var ErrHTTPBasePathInvalid = errors.New("dyncms config: http base path must start with /")

// Config aggregates feature flags and adapter bindings for the engine.
type Config struct {
	Storage     StorageConfig
	Cache       CacheConfig
	Logging     LoggingConfig
	Replication ReplicationConfig
	Navigation  NavigationConfig
	Menus       MenuConfig
	Features    Features
	HTTP        HTTPConfig
}

const (
	StorageMemory = "memory"
	StorageBun    = "bun"

	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// StorageConfig selects the repository backend. Dialect only applies to bun.
type StorageConfig struct {
	Provider string
	Dialect  string
}

// CacheConfig captures go-repository-cache toggles for bun repositories.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// ReplicationConfig configures the HTTP remote replica.
type ReplicationConfig struct {
	Enabled   bool
	BaseURL   string
	Timeout   time.Duration
	QueueSize int
}

// NavigationConfig captures go-urlkit routing for menu links and endpoint
// paths. A nil RouteConfig keeps the fixed "/<slug>" and "/api/<slug>" forms.
type NavigationConfig struct {
	RouteConfig *urlkit.Config
	AdminGroup  string
	APIGroup    string
}

type MenuConfig struct {
	MaxDepth            int
	SeedAdminNavigation bool
}

// Features toggles module functionality.
type Features struct {
	Logger      bool
	Activity    bool
	Markdown    bool
	Replication bool
}

type HTTPConfig struct {
	AdminBasePath  string
	PublicBasePath string
}

// DefaultConfig returns an in-memory engine with seeded admin navigation.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: StorageMemory,
			Dialect:  DialectSQLite,
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Replication: ReplicationConfig{
			Timeout:   10 * time.Second,
			QueueSize: 64,
		},
		Menus: MenuConfig{
			MaxDepth:            0,
			SeedAdminNavigation: true,
		},
		Features: Features{
			Activity: true,
			Markdown: true,
		},
		HTTP: HTTPConfig{
			AdminBasePath:  "/admin/api",
			PublicBasePath: "/api",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	provider := normalize(cfg.Storage.Provider)
	switch provider {
	case "", StorageMemory, StorageBun:
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if provider == StorageBun {
		switch dialect := normalize(cfg.Storage.Dialect); dialect {
		case "", DialectSQLite, DialectPostgres:
		default:
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, dialect)
		}
	}
	if cfg.Cache.Enabled && provider != StorageBun {
		return ErrCacheRequiresBunStorage
	}
	if cfg.Cache.DefaultTTL < 0 {
		return fmt.Errorf("%w: %s", ErrCacheTTLInvalid, cfg.Cache.DefaultTTL)
	}

	if cfg.Replication.Enabled {
		if !cfg.Features.Replication {
			return ErrReplicationFeatureRequired
		}
		if strings.TrimSpace(cfg.Replication.BaseURL) == "" {
			return ErrReplicationBaseURLRequired
		}
	}
	if cfg.Replication.QueueSize < 0 {
		return fmt.Errorf("%w: %d", ErrReplicationQueueSizeInvalid, cfg.Replication.QueueSize)
	}
	if cfg.Replication.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrReplicationTimeoutInvalid, cfg.Replication.Timeout)
	}

	if cfg.Menus.MaxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrMenuDepthInvalid, cfg.Menus.MaxDepth)
	}

	for _, path := range []string{cfg.HTTP.AdminBasePath, cfg.HTTP.PublicBasePath} {
		if path = strings.TrimSpace(path); path != "" && !strings.HasPrefix(path, "/") {
			return fmt.Errorf("%w: %s", ErrHTTPBasePathInvalid, path)
		}
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// StorageProvider returns the normalized provider, defaulting to memory.
func (cfg Config) StorageProvider() string {
	if provider := normalize(cfg.Storage.Provider); provider != "" {
		return provider
	}
	return StorageMemory
}

// StorageDialect returns the normalized dialect, defaulting to sqlite.
func (cfg Config) StorageDialect() string {
	if dialect := normalize(cfg.Storage.Dialect); dialect != "" {
		return dialect
	}
	return DialectSQLite
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
