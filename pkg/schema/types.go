package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type defines the contract for property validation.
// Implementations decide whether a decoded JSON value conforms.
type Type interface {
	// Name returns the compact string form of the type (e.g. "string",
	// "int?", "enum(a|b)"). ParseType accepts every name produced here.
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values, including whole-number floats as they
// arrive from JSON decoding.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// FloatType validates numeric values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SliceType validates slices of a specific element type. Decoded JSON
// arrays arrive as []any, so elements are checked one by one.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// EnumType validates that a value is one of a fixed set of string literals.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string {
	return fmt.Sprintf("enum(%s)", strings.Join(t.values, "|"))
}

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	for _, v := range t.values {
		if s == v {
			return nil
		}
	}
	return fmt.Errorf("expected one of %s, got %q", strings.Join(t.values, "|"), s)
}

// Values returns the allowed literals in declaration order.
func (t *EnumType) Values() []string {
	out := make([]string, len(t.values))
	copy(out, t.values)
	return out
}

// OptionalType wraps another type and marks the property as optional:
// Validate still requires a present value to conform, but the schema
// walker skips the property when it is absent.
type OptionalType struct {
	inner Type
}

func (t *OptionalType) Name() string { return t.inner.Name() + "?" }

func (t *OptionalType) Validate(value any) error {
	return t.inner.Validate(value)
}

// Inner returns the wrapped type.
func (t *OptionalType) Inner() Type { return t.inner }

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Enum creates a validator accepting only the given string literals.
func Enum(values ...string) Type {
	return &EnumType{values: values}
}

// Optional marks a property as allowed to be absent. Wrapping an already
// optional type is a no-op.
func Optional(inner Type) Type {
	if _, ok := inner.(*OptionalType); ok {
		return inner
	}
	return &OptionalType{inner: inner}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// IsOptional reports whether t tolerates an absent value.
func IsOptional(t Type) bool {
	_, ok := t.(*OptionalType)
	return ok
}

// ParseType converts a compact type name back into a Type. It accepts
// every name the built-in types produce: "string", "int", "float", "bool",
// "[elem]" for slices, "enum(a|b)" for enums, and a trailing "?" on any of
// them for optional properties.
func ParseType(typeStr string) (Type, error) {
	if strings.HasSuffix(typeStr, "?") {
		inner, err := ParseType(strings.TrimSuffix(typeStr, "?"))
		if err != nil {
			return nil, err
		}
		return Optional(inner), nil
	}

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	if rest, ok := strings.CutPrefix(typeStr, "enum("); ok && strings.HasSuffix(rest, ")") {
		body := strings.TrimSuffix(rest, ")")
		if body == "" {
			return nil, fmt.Errorf("enum with no values: %s", typeStr)
		}
		return Enum(strings.Split(body, "|")...), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of property names to type strings into a
// Schema. Example: {"content": "string", "level": "int", "width": "int?"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
