package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Schema maps parameter names (e.g. "?p") to their payload types.
type Schema map[string]Type

// Validate checks a parameter-to-payload map against the schema. Parameters
// missing from the schema are accepted untyped; parameters declared in the
// schema must be present and conform.
func Validate(s Schema, values map[string]any) error {
	if len(s) == 0 {
		return nil
	}

	var errs []*FieldError
	for param, typ := range s {
		value, ok := values[param]
		if !ok {
			errs = append(errs, &FieldError{Param: param, Reason: "required"})
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, &FieldError{Param: param, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &Errors{Fields: errs}
	}
	return nil
}

// FieldError is a single parameter validation failure.
type FieldError struct {
	Param  string
	Reason string
	Value  any
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("parameter %q: %s (got %T)", e.Param, e.Reason, e.Value)
}

// Errors aggregates every parameter failure from one Validate call.
type Errors struct {
	Fields []*FieldError
}

func (e *Errors) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Fields))
	for i, f := range e.Fields {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, f.Error())
	}
	return sb.String()
}

// MarshalJSON serializes the schema as a map of parameter names to type names.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	raw := make(map[string]string, len(s))
	for param, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("parameter %s: type is nil", param)
		}
		raw[param] = typ.Name()
	}
	return json.Marshal(raw)
}

// UnmarshalJSON deserializes the schema from a map of parameter names to
// type names.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := make(Schema, len(raw))
	for param, name := range raw {
		typ, err := ParseType(name)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", param, err)
		}
		parsed[param] = typ
	}
	*s = parsed
	return nil
}
