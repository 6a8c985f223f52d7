package schema

import "sort"

// Schema maps property names to their expected types.
// Example: {"content": String(), "level": Int(), "width": Optional(Int())}
type Schema map[string]Type

// Validate checks properties against the schema. Properties the schema
// does not mention are ignored; properties marked Optional may be absent.
// All failures are collected into a single AggregateError.
func Validate(schema Schema, properties map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error

	for _, name := range sortedKeys(schema) {
		propType := schema[name]
		value, exists := properties[name]
		if !exists {
			if IsOptional(propType) {
				continue
			}
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: "required",
				Value:  nil,
			})
			continue
		}

		if err := propType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateStrict behaves like Validate but additionally rejects properties
// the schema does not declare. The widget catalog uses it to catch typoed
// property names in configs.
func ValidateStrict(schema Schema, properties map[string]any) error {
	var errs []error

	if err := Validate(schema, properties); err != nil {
		if collected := ValidationErrors(err); collected != nil {
			errs = append(errs, collected...)
		} else {
			errs = append(errs, err)
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		if _, known := schema[name]; !known {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		errs = append(errs, &ValidationError{
			Key:    name,
			Reason: "not declared in schema",
			Value:  properties[name],
		})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateFields validates only the named properties. Undeclared names
// fail, and so do absent required values; this suits partial updates where
// only the touched properties should be checked.
func ValidateFields(schema Schema, properties map[string]any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error

	for _, name := range fields {
		propType, declared := schema[name]
		if !declared {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: "not declared in schema",
				Value:  nil,
			})
			continue
		}

		value, exists := properties[name]
		if !exists {
			if IsOptional(propType) {
				continue
			}
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: "required",
				Value:  nil,
			})
			continue
		}

		if err := propType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// sortedKeys keeps error ordering deterministic across runs.
func sortedKeys(schema Schema) []string {
	keys := make([]string, 0, len(schema))
	for name := range schema {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
