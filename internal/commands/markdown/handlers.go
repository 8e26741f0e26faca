package markdowncmd

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/goliatone/go-dyncms/internal/commands"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/markdown"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const importOperation = "markdown.import_directory"

var (
	ErrMarkdownFeatureDisabled = errors.New("markdown command: feature disabled")
	ErrImporterRequired        = errors.New("markdown command: importer is nil")
)

var _ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)

// FeatureGates exposes the runtime toggle for markdown support.
type FeatureGates struct {
	MarkdownEnabled func() bool
}

func (g FeatureGates) markdownEnabled() bool {
	if g.MarkdownEnabled == nil {
		return true
	}
	return g.MarkdownEnabled()
}

// Reporter receives the outcome of every successful import run.
type Reporter func(ImportDirectoryCommand, *markdown.ImportResult)

type HandlerOption func(*ImportDirectoryHandler)

// WithFS replaces os.DirFS as the way directories are opened.
func WithFS(open func(dir string) fs.FS) HandlerOption {
	return func(h *ImportDirectoryHandler) {
		if open != nil {
			h.open = open
		}
	}
}

func WithReporter(report Reporter) HandlerOption {
	return func(h *ImportDirectoryHandler) {
		h.report = report
	}
}

type ImportDirectoryHandler struct {
	inner  *commands.Handler[ImportDirectoryCommand]
	open   func(dir string) fs.FS
	report Reporter
}

func NewImportDirectoryHandler(importer *markdown.Importer, logger interfaces.Logger, gates FeatureGates, opts ...HandlerOption) *ImportDirectoryHandler {
	logger = logging.Or(logger)
	h := &ImportDirectoryHandler{open: os.DirFS}
	for _, opt := range opts {
		opt(h)
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		if !gates.markdownEnabled() {
			return ErrMarkdownFeatureDisabled
		}
		docs, err := markdown.LoadDir(ctx, h.open(msg.Directory), ".", msg.Recursive)
		if err != nil {
			return err
		}
		result, err := importer.Import(ctx, msg.ContentType, docs, markdown.ImportOptions{
			BodyField: msg.BodyField,
			DryRun:    msg.DryRun,
		})
		if err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"document_count": len(docs),
			"imported_count": len(result.Imported),
			"failed_count":   len(result.Failures),
			"dry_run":        msg.DryRun,
		}).Info("markdown.command.import_directory.completed")
		if h.report != nil {
			h.report(msg, result)
		}
		return nil
	}

	h.inner = commands.NewHandler(exec,
		commands.WithLogger[ImportDirectoryCommand](logger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			return map[string]any{"directory": msg.Directory, "content_type": msg.ContentType}
		}),
		commands.WithObserver(commands.LogObserver[ImportDirectoryCommand](logger)),
	)
	return h
}

func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

func Register(reg commands.CommandRegistry, importer *markdown.Importer, provider interfaces.LoggerProvider, gates FeatureGates, opts ...HandlerOption) (*ImportDirectoryHandler, error) {
	if importer == nil {
		return nil, ErrImporterRequired
	}
	handler := NewImportDirectoryHandler(importer, commands.GroupLogger(provider, "markdown"), gates, opts...)
	if err := commands.Register(reg, handler); err != nil {
		return nil, err
	}
	return handler, nil
}
