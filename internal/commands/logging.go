package commands

import (
	"strings"

	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
)

// GroupLogger names the logger of one handler group, e.g. "records", under
// dyncms.commands and tags its entries with the group.
func GroupLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		group = "core"
	}
	return logging.WithFields(
		logging.ModuleLogger(provider, "dyncms.commands."+group),
		map[string]any{"command_group": group},
	)
}
