package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-dyncms"
	"github.com/spf13/viper"
)

const (
	configFileName = "dyncms"
	configFileType = "yaml"
	envPrefix      = "DYNCMS"

	cfgKeyDatabase = "database"
)

// settings is the CLI view of dyncms.yaml: the engine config plus the
// sqlite file the CLI opens for bun storage.
type settings struct {
	Engine   dyncms.Config
	Database string
}

// loadConfig reads dyncms.yaml from path, or from the working directory when
// path is empty. DYNCMS_* environment variables override file values
// (DYNCMS_STORAGE_PROVIDER, DYNCMS_LOGGING_LEVEL, ...). A missing file is not
// an error.
func loadConfig(path string) (*settings, error) {
	v := viper.New()
	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := dyncms.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &settings{Engine: cfg, Database: v.GetString(cfgKeyDatabase)}, nil
}

// applyDefaults registers every key so AutomaticEnv can override it. The CLI
// defaults to a sqlite file instead of memory storage.
func applyDefaults(v *viper.Viper) {
	def := dyncms.DefaultConfig()
	v.SetDefault(cfgKeyDatabase, "dyncms.db")
	v.SetDefault("storage.provider", "bun")
	v.SetDefault("storage.dialect", def.Storage.Dialect)
	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.defaultttl", def.Cache.DefaultTTL)
	v.SetDefault("logging.provider", def.Logging.Provider)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.addsource", def.Logging.AddSource)
	v.SetDefault("replication.enabled", def.Replication.Enabled)
	v.SetDefault("replication.baseurl", def.Replication.BaseURL)
	v.SetDefault("replication.timeout", def.Replication.Timeout)
	v.SetDefault("replication.queuesize", def.Replication.QueueSize)
	v.SetDefault("navigation.admingroup", def.Navigation.AdminGroup)
	v.SetDefault("navigation.apigroup", def.Navigation.APIGroup)
	v.SetDefault("menus.maxdepth", def.Menus.MaxDepth)
	v.SetDefault("menus.seedadminnavigation", def.Menus.SeedAdminNavigation)
	v.SetDefault("features.logger", def.Features.Logger)
	v.SetDefault("features.activity", def.Features.Activity)
	v.SetDefault("features.markdown", def.Features.Markdown)
	v.SetDefault("features.replication", def.Features.Replication)
	v.SetDefault("http.adminbasepath", def.HTTP.AdminBasePath)
	v.SetDefault("http.publicbasepath", def.HTTP.PublicBasePath)
}
