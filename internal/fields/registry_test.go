package fields_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-dyncms/internal/fields"
)

func TestDefaultRegistryHoldsBuiltins(t *testing.T) {
	reg := fields.Default()
	want := []fields.Type{
		fields.TypeText, fields.TypeTextarea, fields.TypeNumber, fields.TypeBoolean,
		fields.TypeDate, fields.TypeSelect, fields.TypeImage, fields.TypeRelation,
	}
	got := reg.Types()
	if len(got) != len(want) {
		t.Fatalf("expected %d types, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("type %d: expected %s got %s", i, want[i], got[i])
		}
	}
	def, ok := reg.Lookup(fields.TypeBoolean)
	if !ok || def.Control != fields.ControlCheckbox {
		t.Fatalf("expected checkbox control for boolean, got %+v", def)
	}
}

func TestRegisterExtensionType(t *testing.T) {
	reg := fields.Default()
	err := reg.Register(fields.Definition{
		Type:    "color",
		Control: fields.ControlFreeText,
		Kind:    fields.KindText,
		Parse:   fields.ParseText,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := reg.Lookup("color"); !ok {
		t.Fatalf("expected color type to be registered")
	}
	if err := reg.Register(fields.Definition{Type: "color", Parse: fields.ParseText}); !errors.Is(err, fields.ErrDuplicateType) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := reg.Register(fields.Definition{Type: "broken"}); !errors.Is(err, fields.ErrParseRequired) {
		t.Fatalf("expected parse required error, got %v", err)
	}
}

func TestNumberRule(t *testing.T) {
	reg := fields.Default()
	field := fields.Field{Name: "Count", Type: fields.TypeNumber, Required: true}

	if _, err := reg.Parse(field, "12a"); fields.ErrorCode(err) != fields.ErrNotNumber.Code() {
		t.Fatalf("expected not-number error, got %v", err)
	}
	if _, err := reg.Parse(field, ""); fields.ErrorCode(err) != fields.ErrRequired.Code() {
		t.Fatalf("expected required error, got %v", err)
	}
	value, err := reg.Parse(field, "12")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if value.Kind != fields.KindNumber || value.Number != 12 {
		t.Fatalf("expected number 12, got %+v", value)
	}

	optional := fields.Field{Name: "Count", Type: fields.TypeNumber}
	value, err = reg.Parse(optional, "")
	if err != nil || !value.IsNull() {
		t.Fatalf("expected optional empty number to be null, got %+v %v", value, err)
	}
}

func TestDateRuleNormalizesToUTC(t *testing.T) {
	reg := fields.Default()
	field := fields.Field{Name: "Published", Type: fields.TypeDate}

	value, err := reg.Parse(field, "2024-03-01T10:00:00+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := value.String(); got != "2024-03-01T08:00:00Z" {
		t.Fatalf("expected UTC date, got %s", got)
	}
	if _, err := reg.Parse(field, "yesterday"); fields.ErrorCode(err) != fields.ErrInvalidDate.Code() {
		t.Fatalf("expected invalid date, got %v", err)
	}
	if value, err := reg.Parse(field, "2024-03-01"); err != nil || !value.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected plain date to parse, got %+v %v", value, err)
	}
}

func TestSelectAndRelationRules(t *testing.T) {
	reg := fields.Default()
	sel := fields.Field{Name: "Status", Type: fields.TypeSelect, Options: []string{"draft", "live"}}
	if _, err := reg.Parse(sel, "archived"); fields.ErrorCode(err) != fields.ErrInvalidOption.Code() {
		t.Fatalf("expected invalid option, got %v", err)
	}
	if v, err := reg.Parse(sel, "live"); err != nil || v.Text != "live" {
		t.Fatalf("expected live, got %+v %v", v, err)
	}

	rel := fields.Field{Name: "Author", Type: fields.TypeRelation, Options: []string{"authors"}}
	if _, err := reg.Parse(rel, "not-a-uuid"); fields.ErrorCode(err) != fields.ErrInvalidRelation.Code() {
		t.Fatalf("expected invalid relation, got %v", err)
	}
	if fields.RelationTarget(rel) != "authors" {
		t.Fatalf("expected relation target authors")
	}
}

func TestBooleanAlwaysValid(t *testing.T) {
	reg := fields.Default()
	field := fields.Field{Name: "Featured", Type: fields.TypeBoolean, Required: true}
	for _, raw := range []any{nil, "", "garbage", "on", true} {
		if _, err := reg.Parse(field, raw); err != nil {
			t.Fatalf("boolean %v: unexpected error %v", raw, err)
		}
	}
	if def := reg.DefaultValue(field); def.Kind != fields.KindBool || def.Bool {
		t.Fatalf("expected false default, got %+v", def)
	}
}

func TestValuesJSON(t *testing.T) {
	values := fields.Values{
		"Title":     fields.Text("Hello"),
		"Count":     fields.Number(12),
		"Featured":  fields.Bool(true),
		"Published": fields.Date(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		"Empty":     fields.Null(),
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var plain map[string]any
	if err := json.Unmarshal(encoded, &plain); err != nil {
		t.Fatalf("unmarshal plain: %v", err)
	}
	if plain["Count"] != float64(12) || plain["Published"] != "2024-01-02T03:04:05Z" || plain["Empty"] != nil {
		t.Fatalf("unexpected JSON form: %s", encoded)
	}

	var decoded fields.Values
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal values: %v", err)
	}
	if !decoded["Count"].Equal(fields.Number(12)) || !decoded["Featured"].Equal(fields.Bool(true)) {
		t.Fatalf("unexpected decoded values: %+v", decoded)
	}

	reg := fields.Default()
	restored := reg.Coerce(fields.Field{Name: "Published", Type: fields.TypeDate}, decoded["Published"])
	if !restored.Equal(values["Published"]) {
		t.Fatalf("expected coerced date, got %+v", restored)
	}
}
