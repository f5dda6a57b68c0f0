package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{"zero value", Value{}, true},
		{"none", None(), true},
		{"empty text", TextValue(""), true},
		{"blank text", TextValue("   "), true},
		{"text", TextValue("Alex"), false},
		{"NaN", NumberValue(math.NaN()), true},
		{"zero number", NumberValue(0), false},
		{"false toggle", BoolValue(false), false},
		{"empty list", ListValue(), true},
		{"list", ListValue("sleep"), false},
		{"empty fields", FieldsValue(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.IsEmpty())
		})
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	original := map[string]Value{
		"firstName": TextValue("Alex"),
		"age":       NumberValue(31),
		"consent":   BoolValue(true),
		"modules":   ListValue("sport", "sleep"),
		"personal":  FieldsValue(map[string]Value{"age": NumberValue(31), "gender": TextValue("female")}),
		"nothing":   None(),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded map[string]Value
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded, len(original))
	for k, v := range original {
		assert.Truef(t, v.Equal(decoded[k]), "key %s: got %v, want %v", k, decoded[k], v)
	}
}

func TestValue_MarshalRejectsNaN(t *testing.T) {
	_, err := json.Marshal(NumberValue(math.NaN()))
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	fields := []Field{
		{ID: "age", InputKind: InputNumber},
		{ID: "gender", InputKind: InputSingleSelect},
	}

	tests := []struct {
		name    string
		kind    InputKind
		raw     any
		want    Value
		wantErr bool
	}{
		{"text", InputText, "Alex", TextValue("Alex"), false},
		{"number from json", InputNumber, float64(7.5), NumberValue(7.5), false},
		{"number from prompt", InputSlider, " 8 ", NumberValue(8), false},
		{"bad number", InputNumber, "eight", None(), true},
		{"toggle yes", InputToggle, "yes", BoolValue(true), false},
		{"toggle bool", InputToggle, false, BoolValue(false), false},
		{"toggle garbage", InputToggle, "maybe", None(), true},
		{"multi from json", InputMultiSelect, []any{"sport", "sleep"}, ListValue("sport", "sleep"), false},
		{"multi from prompt", InputMultiSelect, "sport, sleep,", ListValue("sport", "sleep"), false},
		{"multi bad element", InputMultiSelect, []any{"sport", 3.0}, None(), true},
		{"nil", InputText, nil, None(), false},
		{
			"group",
			InputGroup,
			map[string]any{"age": float64(31), "gender": "male", "ignored": true},
			FieldsValue(map[string]Value{"age": NumberValue(31), "gender": TextValue("male")}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.kind, tt.raw, fields...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Truef(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestValue_StringCoercion(t *testing.T) {
	assert.Equal(t, "12.5", NumberValue(12.5).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "a,b", ListValue("a", "b").String())
	assert.Equal(t, "", None().String())
}
