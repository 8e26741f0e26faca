package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind string

const (
	KindNull   Kind = "null"
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindDate   Kind = "date"
)

// Value is a tagged record value. Only the member matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
	Date   time.Time
}

func Text(s string) Value { return Value{Kind: KindText, Text: s} }
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Date: t.UTC()} }
func Null() Value { return Value{Kind: KindNull} }
func (v Value) IsNull() bool { return v.Kind == "" || v.Kind == KindNull }
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() && o.IsNull()
	}
	return v.Kind == o.Kind && v.Text == o.Text && v.Number == o.Number &&
		v.Bool == o.Bool && v.Date.Equal(o.Date)
}

// Interface returns the plain Go form used in JSON payloads.
func (v Value) Interface() any {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number
	case KindBool:
		return v.Bool
	case KindDate:
		return v.Date.UTC().Format(time.RFC3339)
	default:
		return nil
	}
}

// String renders the value for display and form defaults.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDate:
		return v.Date.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes the JSON form. Strings become text; date typing is
// restored against the schema with Definition.Parse.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("fields: unsupported value %s: %w", string(data), err)
		}
		*v = Number(f)
	}
	return nil
}

// Values maps field names to their tagged values.
type Values map[string]Value

// Clone returns a shallow copy.
func (vs Values) Clone() Values {
	if vs == nil {
		return nil
	}
	out := make(Values, len(vs))
	for k, v := range vs {
		out[k] = v
	}
	return out
}

// Merge returns a copy of vs overlaid with patch.
func (vs Values) Merge(patch Values) Values {
	out := vs.Clone()
	if out == nil {
		out = Values{}
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Map converts the values to their plain JSON form.
func (vs Values) Map() map[string]any {
	out := make(map[string]any, len(vs))
	for k, v := range vs {
		out[k] = v.Interface()
	}
	return out
}
