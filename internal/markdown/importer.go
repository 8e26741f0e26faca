package markdown

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/fields"
	"github.com/goliatone/go-dyncms/internal/forms"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/records"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
)

var ErrNoBodyField = errors.New("markdown importer: content type has no field for the body")

type TypeResolver interface {
	GetBySlug(ctx context.Context, slug string) (*contenttypes.ContentType, error)
}

type RecordCreator interface {
	Create(ctx context.Context, req records.CreateRecordRequest) (*records.Record, error)
}

// ImportOptions controls how documents map to fields. BodyField defaults to
// the first markdown field, then the first textarea field.
type ImportOptions struct {
	BodyField string
	DryRun    bool
}

// ImportResult summarizes an import run. Failures are keyed by document path.
// Validated counts documents that passed the form, including dry runs.
type ImportResult struct {
	Imported  []*records.Record
	Failures  map[string]error
	Validated int
}

type Importer struct {
	types    TypeResolver
	records  RecordCreator
	registry *fields.Registry
	logger   interfaces.Logger
}

func NewImporter(types TypeResolver, recordSvc RecordCreator, registry *fields.Registry, logger interfaces.Logger) *Importer {
	if registry == nil {
		registry = fields.Default()
	}
	return &Importer{
		types:    types,
		records:  recordSvc,
		registry: registry,
		logger:   logging.Or(logger),
	}
}

// Import validates each document through the derived form and stores the
// ones that pass. A failing document does not stop the run.
func (i *Importer) Import(ctx context.Context, slug string, docs []*Document, opts ImportOptions) (*ImportResult, error) {
	ct, err := i.types.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	bodyField, err := i.bodyField(ct, opts.BodyField)
	if err != nil {
		return nil, err
	}
	logger := logging.WithContentType(i.logger, ct.ID.String(), ct.Slug)

	result := &ImportResult{Failures: map[string]error{}}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		form, err := forms.Derive(ct, nil, i.registry)
		if err != nil {
			return nil, err
		}
		values, err := form.Submit(mapDocument(ct, doc, bodyField))
		if err != nil {
			logger.Warn("markdown.import.invalid", "path", doc.Path, "error", err)
			result.Failures[doc.Path] = err
			continue
		}
		result.Validated++
		if opts.DryRun {
			continue
		}
		record, err := i.records.Create(ctx, records.CreateRecordRequest{ContentTypeID: ct.ID, Values: values})
		if err != nil {
			logger.Error("markdown.import.failed", "path", doc.Path, "error", err)
			result.Failures[doc.Path] = err
			continue
		}
		result.Imported = append(result.Imported, record)
	}
	logger.Info("markdown.import.complete", "imported", len(result.Imported), "failed", len(result.Failures))
	return result, nil
}

func (i *Importer) bodyField(ct *contenttypes.ContentType, explicit string) (string, error) {
	if explicit != "" {
		if _, ok := ct.FieldByName(explicit); !ok {
			return "", fmt.Errorf("markdown importer: unknown body field %q", explicit)
		}
		return explicit, nil
	}
	for _, want := range []fields.Type{TypeMarkdown, fields.TypeTextarea} {
		for _, field := range ct.Fields {
			if field.Type == want {
				return field.Name, nil
			}
		}
	}
	return "", ErrNoBodyField
}

// mapDocument matches frontmatter keys to field names case-insensitively
// and puts the body into bodyField.
func mapDocument(ct *contenttypes.ContentType, doc *Document, bodyField string) map[string]any {
	byKey := make(map[string]any, len(doc.Meta))
	for key, value := range doc.Meta {
		byKey[normalizeKey(key)] = value
	}
	input := map[string]any{}
	for _, field := range ct.Fields {
		if value, ok := byKey[normalizeKey(field.Name)]; ok {
			input[field.Name] = value
		}
	}
	input[bodyField] = string(doc.Body)
	return input
}

func normalizeKey(key string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(key)))
}
