package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ValueKind tags the shape carried by a Value.
type ValueKind string

const (
	KindNone   ValueKind = "none"
	KindText   ValueKind = "text"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindList   ValueKind = "list"
	KindFields ValueKind = "fields"
)

// Value is a response submitted for a step (or stored as an answer).
// The set of shapes is closed: the expected one depends on the step InputKind.
type Value struct {
	kind   ValueKind
	text   string
	number float64
	flag   bool
	list   []string
	fields map[string]Value
}

// None returns the absent value.
func None() Value { return Value{kind: KindNone} }

// TextValue wraps a string response (text input, single-select).
func TextValue(s string) Value { return Value{kind: KindText, text: s} }

// NumberValue wraps a numeric response (number input, slider).
func NumberValue(n float64) Value { return Value{kind: KindNumber, number: n} }

// BoolValue wraps a toggle response.
func BoolValue(b bool) Value { return Value{kind: KindBool, flag: b} }

// ListValue wraps a multi-select response.
func ListValue(items ...string) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// FieldsValue wraps a grouped-fields response keyed by field id.
func FieldsValue(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{kind: KindFields, fields: cp}
}

// Kind returns the tag of the value. The zero Value is KindNone.
func (v Value) Kind() ValueKind {
	if v.kind == "" {
		return KindNone
	}
	return v.kind
}

func (v Value) AsText() (string, bool)    { return v.text, v.kind == KindText }
func (v Value) AsNumber() (float64, bool) { return v.number, v.kind == KindNumber }
func (v Value) AsBool() (bool, bool)      { return v.flag, v.kind == KindBool }

// AsList returns a copy of the list items.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// AsFields returns a copy of the grouped field values.
func (v Value) AsFields() (map[string]Value, bool) {
	if v.kind != KindFields {
		return nil, false
	}
	cp := make(map[string]Value, len(v.fields))
	for k, f := range v.fields {
		cp[k] = f
	}
	return cp, true
}

// Field returns a single grouped field value (None when absent).
func (v Value) Field(id string) Value {
	if v.kind != KindFields {
		return None()
	}
	if f, ok := v.fields[id]; ok {
		return f
	}
	return None()
}

// Contains reports whether a list value holds item, or a text value equals it.
func (v Value) Contains(item string) bool {
	switch v.kind {
	case KindList:
		return slices.Contains(v.list, item)
	case KindText:
		return v.text == item
	}
	return false
}

// IsEmpty reports the "absent" values: none, empty text, empty list,
// empty field group and NaN.
func (v Value) IsEmpty() bool {
	switch v.Kind() {
	case KindNone:
		return true
	case KindText:
		return strings.TrimSpace(v.text) == ""
	case KindNumber:
		return math.IsNaN(v.number)
	case KindList:
		return len(v.list) == 0
	case KindFields:
		return len(v.fields) == 0
	}
	return false
}

// String coerces the value to text.
func (v Value) String() string {
	switch v.Kind() {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindList:
		return strings.Join(v.list, ",")
	case KindFields:
		keys := make([]string, 0, len(v.fields))
		for k := range v.fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+v.fields[k].String())
		}
		return strings.Join(parts, ",")
	}
	return ""
}

// Interface returns the plain Go representation (nil, string, float64, bool,
// []string or map[string]any).
func (v Value) Interface() any {
	switch v.Kind() {
	case KindText:
		return v.text
	case KindNumber:
		return v.number
	case KindBool:
		return v.flag
	case KindList:
		return slices.Clone(v.list)
	case KindFields:
		m := make(map[string]any, len(v.fields))
		for k, f := range v.fields {
			m[k] = f.Interface()
		}
		return m
	}
	return nil
}

// Equal compares two values structurally.
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.number == o.number
	case KindBool:
		return v.flag == o.flag
	case KindList:
		return slices.Equal(v.list, o.list)
	case KindFields:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for k, f := range v.fields {
			g, ok := o.fields[k]
			if !ok || !f.Equal(g) {
				return false
			}
		}
		return true
	}
	return true
}

type valueJSON struct {
	Kind  ValueKind       `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...}.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.Kind() {
	case KindNone:
		return json.Marshal(valueJSON{Kind: KindNone})
	case KindNumber:
		if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
			return nil, fmt.Errorf("cannot encode non-finite number %v", v.number)
		}
		payload = v.number
	case KindFields:
		payload = v.fields
	default:
		payload = v.Interface()
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Kind: v.Kind(), Value: raw})
}

// UnmarshalJSON decodes the tagged representation produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var env valueJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch env.Kind {
	case KindNone, "":
		*v = None()
	case KindText:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return fmt.Errorf("text value: %w", err)
		}
		*v = TextValue(s)
	case KindNumber:
		var n float64
		if err := json.Unmarshal(env.Value, &n); err != nil {
			return fmt.Errorf("number value: %w", err)
		}
		*v = NumberValue(n)
	case KindBool:
		var b bool
		if err := json.Unmarshal(env.Value, &b); err != nil {
			return fmt.Errorf("bool value: %w", err)
		}
		*v = BoolValue(b)
	case KindList:
		var items []string
		if err := json.Unmarshal(env.Value, &items); err != nil {
			return fmt.Errorf("list value: %w", err)
		}
		*v = ListValue(items...)
	case KindFields:
		var fields map[string]Value
		if err := json.Unmarshal(env.Value, &fields); err != nil {
			return fmt.Errorf("fields value: %w", err)
		}
		*v = FieldsValue(fields)
	default:
		return fmt.Errorf("unknown value kind %q", env.Kind)
	}
	return nil
}

// ParseValue coerces a loosely typed input (as produced by encoding/json or a
// terminal prompt) into the Value shape expected by an input kind.
// Grouped inputs are coerced field by field using fields.
func ParseValue(kind InputKind, raw any, fields ...Field) (Value, error) {
	if raw == nil {
		return None(), nil
	}
	switch kind {
	case InputText, InputSingleSelect, "":
		switch r := raw.(type) {
		case string:
			return TextValue(r), nil
		case float64, int, bool:
			return TextValue(fmt.Sprint(r)), nil
		}
	case InputNumber, InputSlider:
		switch r := raw.(type) {
		case float64:
			return NumberValue(r), nil
		case int:
			return NumberValue(float64(r)), nil
		case json.Number:
			n, err := r.Float64()
			if err != nil {
				return None(), fmt.Errorf("invalid number %q: %w", r, err)
			}
			return NumberValue(n), nil
		case string:
			if strings.TrimSpace(r) == "" {
				return None(), nil
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
			if err != nil {
				return None(), fmt.Errorf("invalid number %q", r)
			}
			return NumberValue(n), nil
		}
	case InputToggle:
		switch r := raw.(type) {
		case bool:
			return BoolValue(r), nil
		case string:
			return parseToggle(r)
		}
	case InputMultiSelect:
		switch r := raw.(type) {
		case []string:
			return ListValue(r...), nil
		case []any:
			items := make([]string, 0, len(r))
			for i, it := range r {
				s, ok := it.(string)
				if !ok {
					return None(), fmt.Errorf("element %d: expected string, got %T", i, it)
				}
				items = append(items, s)
			}
			return ListValue(items...), nil
		case string:
			if strings.TrimSpace(r) == "" {
				return ListValue(), nil
			}
			parts := strings.Split(r, ",")
			items := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					items = append(items, p)
				}
			}
			return ListValue(items...), nil
		}
	case InputGroup:
		m, ok := raw.(map[string]any)
		if !ok {
			break
		}
		out := make(map[string]Value, len(m))
		for _, f := range fields {
			fv, present := m[f.ID]
			if !present {
				continue
			}
			parsed, err := ParseValue(f.InputKind, fv)
			if err != nil {
				return None(), fmt.Errorf("field %s: %w", f.ID, err)
			}
			out[f.ID] = parsed
		}
		return FieldsValue(out), nil
	}
	return None(), fmt.Errorf("cannot use %T as %s input", raw, kind)
}

func parseToggle(s string) (Value, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	switch clean {
	case "y", "yes", "true", "1", "on", "oui":
		return BoolValue(true), nil
	case "n", "no", "false", "0", "off", "non":
		return BoolValue(false), nil
	case "":
		return None(), nil
	}
	return None(), fmt.Errorf("invalid toggle input: '%s' (expected y/n/yes/no)", s)
}
