package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-dyncms/pkg/interfaces"
)

const (
	RootModule         = "dyncms"
	ContentTypesModule = "dyncms.contenttypes"
	RecordsModule      = "dyncms.records"
	CascadeModule      = "dyncms.cascade"
	MenusModule        = "dyncms.menus"
	EndpointsModule    = "dyncms.endpoints"
	ReplicationModule  = "dyncms.replication"
	HTTPModule         = "dyncms.http"
	MarkdownModule     = "dyncms.markdown"
	UsersModule        = "dyncms.users"
	SettingsModule     = "dyncms.settings"
	NotifyModule       = "dyncms.notify"
)

// ModuleLogger returns the provider's logger for module with a "module" field
// attached. A nil provider yields the no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = RootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// WithContentType scopes a logger to a content type id and slug. Empty values
// are skipped.
func WithContentType(logger interfaces.Logger, id, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields["content_type_id"] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields["content_type_slug"] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
