package dyncms

import "github.com/goliatone/go-dyncms/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown      = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown       = runtimeconfig.ErrStorageDialectUnknown
	ErrCacheRequiresBunStorage     = runtimeconfig.ErrCacheRequiresBunStorage
	ErrCacheTTLInvalid             = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
	ErrReplicationFeatureRequired  = runtimeconfig.ErrReplicationFeatureRequired
	ErrReplicationBaseURLRequired  = runtimeconfig.ErrReplicationBaseURLRequired
	ErrReplicationQueueSizeInvalid = runtimeconfig.ErrReplicationQueueSizeInvalid
	ErrReplicationTimeoutInvalid   = runtimeconfig.ErrReplicationTimeoutInvalid
	ErrMenuDepthInvalid            = runtimeconfig.ErrMenuDepthInvalid
	ErrHTTPBasePathInvalid         = runtimeconfig.ErrHTTPBasePathInvalid
)

type (
	Config            = runtimeconfig.Config
	StorageConfig     = runtimeconfig.StorageConfig
	CacheConfig       = runtimeconfig.CacheConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	ReplicationConfig = runtimeconfig.ReplicationConfig
	NavigationConfig  = runtimeconfig.NavigationConfig
	MenuConfig        = runtimeconfig.MenuConfig
	Features          = runtimeconfig.Features
	HTTPConfig        = runtimeconfig.HTTPConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
