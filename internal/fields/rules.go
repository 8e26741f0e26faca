package fields

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	ErrRequired        = validation.NewError("field_required", "is required")
	ErrNotNumber       = validation.NewError("field_not_number", "must be a number")
	ErrInvalidDate     = validation.NewError("field_invalid_date", "must be a valid date")
	ErrInvalidOption   = validation.NewError("field_invalid_option", "must be one of the available options")
	ErrInvalidRelation = validation.NewError("field_invalid_relation", "must reference a valid record")
)

var digitsPattern = regexp.MustCompile(`^\d+$`)

// DateLayouts are accepted by date fields, tried in order.
var DateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func builtinDefinitions() []Definition {
	return []Definition{
		{Type: TypeText, Label: "Text", Control: ControlFreeText, Kind: KindText, Default: emptyText, Parse: ParseText},
		{Type: TypeTextarea, Label: "Textarea", Control: ControlMultiLineText, Kind: KindText, Default: emptyText, Parse: ParseText},
		{Type: TypeNumber, Label: "Number", Control: ControlNumeric, Kind: KindNumber, Parse: ParseNumber},
		{Type: TypeBoolean, Label: "Boolean", Control: ControlCheckbox, Kind: KindBool, Default: func(Field) Value { return Bool(false) }, Parse: ParseBool},
		{Type: TypeDate, Label: "Date", Control: ControlDatePicker, Kind: KindDate, Parse: ParseDate},
		{Type: TypeSelect, Label: "Select", Control: ControlSingleSelect, Kind: KindText, NeedsOptions: true, Default: emptyText, Parse: ParseSelect},
		{Type: TypeImage, Label: "Image", Control: ControlImagePicker, Kind: KindText, Default: emptyText, Parse: ParseText},
		{Type: TypeRelation, Label: "Relation", Control: ControlRelationPicker, Kind: KindText, NeedsOptions: true, Parse: ParseRelation},
	}
}

func emptyText(Field) Value { return Text("") }

func rulesFor(field Field, rules ...validation.Rule) []validation.Rule {
	if !field.Required {
		return rules
	}
	return append([]validation.Rule{validation.Required.ErrorObject(ErrRequired)}, rules...)
}

// ParseText accepts any scalar and keeps its string form.
func ParseText(raw any, field Field) (Value, error) {
	s := rawString(raw)
	if err := validation.Validate(strings.TrimSpace(s), rulesFor(field)...); err != nil {
		return Null(), err
	}
	return Text(s), nil
}

// ParseNumber accepts digit strings and whole non-negative numbers.
func ParseNumber(raw any, field Field) (Value, error) {
	s := strings.TrimSpace(rawString(raw))
	err := validation.Validate(s, rulesFor(field,
		validation.Match(digitsPattern).ErrorObject(ErrNotNumber),
	)...)
	if err != nil {
		return Null(), err
	}
	if s == "" {
		return Null(), nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null(), ErrNotNumber
	}
	return Number(n), nil
}

// ParseBool never fails; unrecognised input is false.
func ParseBool(raw any, _ Field) (Value, error) {
	switch v := raw.(type) {
	case bool:
		return Bool(v), nil
	case nil:
		return Bool(false), nil
	}
	s := strings.ToLower(strings.TrimSpace(rawString(raw)))
	if s == "on" || s == "yes" {
		return Bool(true), nil
	}
	b, _ := strconv.ParseBool(s)
	return Bool(b), nil
}

// ParseDate accepts time values and strings in DateLayouts, normalized to UTC.
func ParseDate(raw any, field Field) (Value, error) {
	if t, ok := raw.(time.Time); ok {
		if t.IsZero() {
			return Null(), validation.Validate("", rulesFor(field)...)
		}
		return Date(t), nil
	}
	s := strings.TrimSpace(rawString(raw))
	var parsed time.Time
	err := validation.Validate(s, rulesFor(field,
		validation.By(func(any) error {
			if s == "" {
				return nil
			}
			t, ok := parseTime(s)
			if !ok {
				return ErrInvalidDate
			}
			parsed = t
			return nil
		}),
	)...)
	if err != nil {
		return Null(), err
	}
	if s == "" {
		return Null(), nil
	}
	return Date(parsed), nil
}

// ParseSelect requires the value to be one of field.Options when options exist.
func ParseSelect(raw any, field Field) (Value, error) {
	s := strings.TrimSpace(rawString(raw))
	err := validation.Validate(s, rulesFor(field,
		validation.By(func(any) error {
			if s == "" || len(field.Options) == 0 || slices.Contains(field.Options, s) {
				return nil
			}
			return ErrInvalidOption
		}),
	)...)
	if err != nil {
		return Null(), err
	}
	return Text(s), nil
}

// ParseRelation requires a record UUID when present. The target content type
// slug lives in field.Options[0].
func ParseRelation(raw any, field Field) (Value, error) {
	s := strings.TrimSpace(rawString(raw))
	err := validation.Validate(s, rulesFor(field,
		validation.By(func(any) error {
			if s == "" {
				return nil
			}
			if _, err := uuid.Parse(s); err != nil {
				return ErrInvalidRelation
			}
			return nil
		}),
	)...)
	if err != nil {
		return Null(), err
	}
	if s == "" {
		return Null(), nil
	}
	return Text(strings.ToLower(s)), nil
}

// RelationTarget returns the slug a relation field points at.
func RelationTarget(field Field) string {
	if field.Type != TypeRelation || len(field.Options) == 0 {
		return ""
	}
	return strings.TrimSpace(field.Options[0])
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func rawString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case Value:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// ErrorCode returns the validation code carried by err, or "".
func ErrorCode(err error) string {
	var verr validation.Error
	if errors.As(err, &verr) {
		return verr.Code()
	}
	return ""
}
