// Package forms derives data-entry forms from content type definitions.
// Forms are transient: they read the schema and field registry and never
// touch storage.
package forms

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-dyncms/internal/contenttypes"
	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/fields"
)

// Control is one bound editor in a derived form.
type Control struct {
	Field       contenttypes.Field
	Control     fields.Control
	Label       string
	Placeholder string
	Options     []string
	Default     fields.Value
}

// Form holds the controls for one content type, in field order.
type Form struct {
	ContentType *contenttypes.ContentType
	Controls    []Control

	registry *fields.Registry
}

// Derive builds a form for ct. existing holds the values of the record being
// edited and may be nil.
func Derive(ct *contenttypes.ContentType, existing fields.Values, registry *fields.Registry) (*Form, error) {
	if ct == nil {
		return nil, domain.NewValidationError("contentTypeId", "content type is required")
	}
	if registry == nil {
		registry = fields.Default()
	}

	form := &Form{ContentType: ct, registry: registry, Controls: make([]Control, 0, len(ct.Fields))}
	for _, field := range ct.Fields {
		def, ok := registry.Lookup(field.Type)
		if !ok {
			return nil, domain.NewValidationError(field.Name, "unknown field type "+string(field.Type))
		}
		value := def.Default(field)
		if stored, ok := existing[field.Name]; ok {
			value = registry.Coerce(field, stored)
		}
		control := Control{
			Field:       field,
			Control:     def.Control,
			Label:       field.Name,
			Placeholder: "Enter " + strings.ToLower(field.Name),
			Default:     value,
		}
		if def.NeedsOptions {
			control.Options = append([]string(nil), field.Options...)
		}
		form.Controls = append(form.Controls, control)
	}
	return form, nil
}

// Defaults returns the initial value of every control.
func (f *Form) Defaults() fields.Values {
	out := make(fields.Values, len(f.Controls))
	for _, control := range f.Controls {
		out[control.Field.Name] = control.Default
	}
	return out
}

// Submit validates input against every control and returns the normalized
// values. All failing fields are reported together. Input keys that do not
// name a field are dropped.
func (f *Form) Submit(input map[string]any) (fields.Values, error) {
	out := make(fields.Values, len(f.Controls))
	failures := validation.Errors{}

	for _, control := range f.Controls {
		name := control.Field.Name
		raw, present := input[name]
		if !present {
			raw = nil
		}
		value, err := f.registry.Parse(control.Field, raw)
		if err != nil {
			failures[name] = validation.NewError(fields.ErrorCode(err), fieldMessage(name, err))
			continue
		}
		if !present && value.IsNull() && !control.Field.Required {
			continue
		}
		out[name] = value
	}

	if len(failures) > 0 {
		return nil, toValidationError(failures)
	}
	return out, nil
}

// SubmitPatch validates input laid over the stored values.
func (f *Form) SubmitPatch(existing fields.Values, input map[string]any) (fields.Values, error) {
	merged := make(map[string]any, len(existing)+len(input))
	for name, value := range existing {
		merged[name] = value
	}
	for name, value := range input {
		merged[name] = value
	}
	return f.Submit(merged)
}

func fieldMessage(name string, err error) string {
	var verr validation.Error
	if errors.As(err, &verr) {
		return name + " " + verr.Message()
	}
	return name + " " + err.Error()
}

func toValidationError(failures validation.Errors) *domain.ValidationError {
	messages := make(map[string]string, len(failures))
	for name, err := range failures {
		messages[name] = err.Error()
	}
	return domain.NewFieldErrors(messages)
}
