package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTypes(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		value   any
		wantErr bool
	}{
		{"string ok", String(), "hello", false},
		{"string rejects int", String(), 42, true},
		{"int ok", Int(), 42, false},
		{"int accepts whole float from JSON", Int(), float64(4), false},
		{"int rejects fractional float", Int(), 4.5, true},
		{"int rejects string", Int(), "4", true},
		{"float ok", Float(), 3.14, false},
		{"float accepts int", Float(), 3, false},
		{"float rejects bool", Float(), true, true},
		{"bool ok", Bool(), false, false},
		{"bool rejects string", Bool(), "true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.typ.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSliceType(t *testing.T) {
	tags := Slice(String())
	assert.Equal(t, "[string]", tags.Name())

	assert.NoError(t, tags.Validate([]string{"a", "b"}))
	// Decoded JSON arrays arrive as []any.
	assert.NoError(t, tags.Validate([]any{"a", "b"}))

	err := tags.Validate([]any{"a", 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1")

	assert.Error(t, tags.Validate("not-a-slice"))
}

func TestEnumType(t *testing.T) {
	variant := Enum("primary", "secondary", "success", "danger")
	assert.Equal(t, "enum(primary|secondary|success|danger)", variant.Name())

	assert.NoError(t, variant.Validate("primary"))
	assert.NoError(t, variant.Validate("danger"))

	err := variant.Validate("outline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"outline"`)

	assert.Error(t, variant.Validate(1))
}

func TestOptionalType(t *testing.T) {
	width := Optional(Int())
	assert.Equal(t, "int?", width.Name())
	assert.True(t, IsOptional(width))
	assert.False(t, IsOptional(Int()))

	// Present values must still conform.
	assert.NoError(t, width.Validate(10))
	assert.Error(t, width.Validate("wide"))

	// Double-wrapping collapses.
	assert.Equal(t, "int?", Optional(width).Name())
}

func TestCustomType(t *testing.T) {
	positive := Custom("positive_int", func(v any) error {
		i, ok := v.(int)
		if !ok || i <= 0 {
			return assert.AnError
		}
		return nil
	})

	assert.Equal(t, "positive_int", positive.Name())
	assert.NoError(t, positive.Validate(3))
	assert.Error(t, positive.Validate(-3))
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "string", want: "string"},
		{in: "int", want: "int"},
		{in: "float", want: "float"},
		{in: "bool", want: "bool"},
		{in: "[string]", want: "[string]"},
		{in: "[[int]]", want: "[[int]]"},
		{in: "string?", want: "string?"},
		{in: "[int]?", want: "[int]?"},
		{in: "enum(a|b|c)", want: "enum(a|b|c)"},
		{in: "enum(_self|_blank)?", want: "enum(_self|_blank)?"},
		{in: "enum()", wantErr: true},
		{in: "widget", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			typ, err := ParseType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, typ.Name())
		})
	}
}

func TestParseTypeMap(t *testing.T) {
	s, err := ParseTypeMap(map[string]string{
		"content": "string",
		"level":   "int",
		"width":   "int?",
	})
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.True(t, IsOptional(s["width"]))

	_, err = ParseTypeMap(map[string]string{"bad": "widget"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "property bad")
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	original := Schema{
		"content": String(),
		"level":   Int(),
		"variant": Enum("primary", "secondary"),
		"width":   Optional(Int()),
		"tags":    Slice(String()),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Schema
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Len(t, restored, len(original))
	for name, typ := range original {
		require.Contains(t, restored, name)
		assert.Equal(t, typ.Name(), restored[name].Name())
	}
}

func TestSchemaJSONNull(t *testing.T) {
	var s Schema
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var restored Schema
	require.NoError(t, json.Unmarshal([]byte("null"), &restored))
	assert.Nil(t, restored)
}
