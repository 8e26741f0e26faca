package fields

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Type tags a field definition. Builtin tags are listed below; extensions
// register their own through Registry.Register.
type Type string

const (
	TypeText     Type = "text"
	TypeTextarea Type = "textarea"
	TypeNumber   Type = "number"
	TypeBoolean  Type = "boolean"
	TypeDate     Type = "date"
	TypeSelect   Type = "select"
	TypeImage    Type = "image"
	TypeRelation Type = "relation"
)

// Control names the editor contract a form presents for a field.
type Control string

const (
	ControlFreeText       Control = "free_text"
	ControlMultiLineText  Control = "multi_line_text"
	ControlNumeric        Control = "numeric"
	ControlCheckbox       Control = "checkbox"
	ControlDatePicker     Control = "date_picker"
	ControlSingleSelect   Control = "single_select"
	ControlImagePicker    Control = "image_picker"
	ControlRelationPicker Control = "relation_picker"
)

// Field describes one typed attribute of a content type.
type Field struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// Definition binds a field type to its form control and value rule.
type Definition struct {
	Type         Type
	Label        string
	Control      Control
	Kind         Kind
	NeedsOptions bool
	Default      func(Field) Value
	Parse        func(raw any, field Field) (Value, error)
}

var (
	ErrTypeRequired  = errors.New("fields: type is required")
	ErrParseRequired = errors.New("fields: parse function is required")
	ErrDuplicateType = errors.New("fields: type already registered")
	ErrUnknownType   = errors.New("fields: unknown type")
)

// Registry is a lookup table of field definitions.
type Registry struct {
	mu    sync.RWMutex
	defs  map[Type]Definition
	order []Type
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[Type]Definition)}
}

// Default returns a registry holding the builtin field types.
func Default() *Registry {
	reg := NewRegistry()
	for _, def := range builtinDefinitions() {
		if err := reg.Register(def); err != nil {
			panic(err)
		}
	}
	return reg
}

func (r *Registry) Register(def Definition) error {
	def.Type = Type(strings.ToLower(strings.TrimSpace(string(def.Type))))
	if def.Type == "" {
		return ErrTypeRequired
	}
	if def.Parse == nil {
		return fmt.Errorf("%w: %s", ErrParseRequired, def.Type)
	}
	if def.Default == nil {
		def.Default = func(Field) Value { return Null() }
	}
	if def.Label == "" {
		def.Label = string(def.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, def.Type)
	}
	r.defs[def.Type] = def
	r.order = append(r.order, def.Type)
	return nil
}

func (r *Registry) Lookup(t Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[t]
	return def, ok
}

// Types lists registered tags in registration order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Type(nil), r.order...)
}

// Definitions lists registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.defs[t])
	}
	return out
}

// Parse validates raw against the field's definition.
func (r *Registry) Parse(field Field, raw any) (Value, error) {
	def, ok := r.Lookup(field.Type)
	if !ok {
		return Null(), fmt.Errorf("%w: %s", ErrUnknownType, field.Type)
	}
	return def.Parse(raw, field)
}

// DefaultValue returns the empty value for field, or null for unknown types.
func (r *Registry) DefaultValue(field Field) Value {
	def, ok := r.Lookup(field.Type)
	if !ok {
		return Null()
	}
	return def.Default(field)
}

// Coerce restores the typed variant of a stored value against the current
// field definition. Values that no longer parse are returned unchanged.
func (r *Registry) Coerce(field Field, stored Value) Value {
	if stored.IsNull() {
		return stored
	}
	def, ok := r.Lookup(field.Type)
	if !ok || def.Kind == stored.Kind {
		return stored
	}
	loose := field
	loose.Required = false
	parsed, err := def.Parse(stored.Interface(), loose)
	if err != nil {
		return stored
	}
	return parsed
}
