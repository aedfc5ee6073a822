package schema

import (
	"fmt"
	"math"
	"strings"

	"mercator-hq/callisto/pkg/canon"
)

// Validate checks a canonical value against a schema and returns the
// complete defect list. It never fails fast: every error the value
// contains is collected so a caller sees the full picture in one pass.
// The value is only read, never modified.
func Validate(value *canon.Value, s *Schema) *Result {
	result := &Result{}
	validateSpec(value, s.Root, "root", result)
	return result
}

// validateSpec applies one constraint node to one value node.
func validateSpec(value *canon.Value, spec *FieldSpec, path string, result *Result) {
	if spec == nil {
		return
	}

	if value.IsNull() {
		if spec.Nullable || spec.Type == TypeNull || spec.Type == "" {
			return
		}
		result.addError(path, "value cannot be null")
		return
	}

	// A type mismatch stops further checks on this node: reporting a
	// length violation on a value that is not even a string would only
	// bury the real defect.
	if spec.Type != "" && !typeMatches(value, spec.Type) {
		result.addError(path, "expected type %s, got %s", spec.Type, actualTypeName(value))
		return
	}

	validateFormat(value, spec, path, result)
	validateConstraints(value, spec, path, result)
	validateEnum(value, spec, path, result)

	if value.Kind() == canon.KindMap {
		validateObject(value, spec, path, result)
	}
	if value.Kind() == canon.KindList && spec.Items != nil {
		for i := 0; i < value.Len(); i++ {
			validateSpec(value.At(i), spec.Items, fmt.Sprintf("%s[%d]", path, i), result)
		}
	}
}

// validateObject checks required entries and recurses into declared
// properties. Entries the schema does not declare pass through
// unchecked.
func validateObject(value *canon.Value, spec *FieldSpec, path string, result *Result) {
	for _, name := range spec.Required {
		if !value.Has(name) {
			result.addError(joinPath(path, name), "required field missing")
		}
	}

	for _, name := range spec.PropertyOrder {
		child, ok := value.Get(name)
		if !ok {
			continue
		}
		validateSpec(child, spec.Properties[name], joinPath(path, name), result)
	}
}

// validateFormat applies the named string format, if any. An unknown
// format name is a warning: the value is accepted, the schema author
// is told.
func validateFormat(value *canon.Value, spec *FieldSpec, path string, result *Result) {
	if spec.Format == "" || value.Kind() != canon.KindString {
		return
	}

	check, ok := formatValidators[spec.Format]
	if !ok {
		result.addWarning(path, "unknown format %q", spec.Format)
		return
	}
	if !check(value.StringValue()) {
		result.addError(path, "invalid %s format", spec.Format)
	}
}

// validateConstraints applies length, bound, size, and pattern
// constraints. Messages name the bound and the offending value so a
// failing test reads without opening the schema.
func validateConstraints(value *canon.Value, spec *FieldSpec, path string, result *Result) {
	switch value.Kind() {
	case canon.KindString:
		s := value.StringValue()
		if spec.MinLength != nil && len(s) < *spec.MinLength {
			result.addError(path, "string too short (min %d, got %d)", *spec.MinLength, len(s))
		}
		if spec.MaxLength != nil && len(s) > *spec.MaxLength {
			result.addError(path, "string too long (max %d, got %d)", *spec.MaxLength, len(s))
		}
		if spec.Pattern != nil && !spec.Pattern.MatchString(s) {
			result.addError(path, "string does not match pattern %s", spec.PatternSource)
		}

	case canon.KindNumber:
		n := value.NumberValue()
		if spec.Minimum != nil && n < *spec.Minimum {
			result.addError(path, "value too small (min %v, got %v)", *spec.Minimum, n)
		}
		if spec.Maximum != nil && n > *spec.Maximum {
			result.addError(path, "value too large (max %v, got %v)", *spec.Maximum, n)
		}

	case canon.KindList:
		if spec.MinItems != nil && value.Len() < *spec.MinItems {
			result.addError(path, "too few items (min %d, got %d)", *spec.MinItems, value.Len())
		}
		if spec.MaxItems != nil && value.Len() > *spec.MaxItems {
			result.addError(path, "too many items (max %d, got %d)", *spec.MaxItems, value.Len())
		}
	}
}

// validateEnum checks membership in the allowed set. The message lists
// the set in declaration order.
func validateEnum(value *canon.Value, spec *FieldSpec, path string, result *Result) {
	if len(spec.Enum) == 0 {
		return
	}
	for _, allowed := range spec.Enum {
		if value.Equal(allowed) {
			return
		}
	}

	rendered := make([]string, 0, len(spec.Enum))
	for _, allowed := range spec.Enum {
		rendered = append(rendered, allowed.String())
	}
	result.addError(path, "must be one of [%s]", strings.Join(rendered, ", "))
}

// typeMatches reports whether the value's kind satisfies the declared
// type name. "integer" is a number with no fractional part; "number"
// accepts any numeric value.
func typeMatches(value *canon.Value, typeName string) bool {
	switch typeName {
	case TypeString:
		return value.Kind() == canon.KindString
	case TypeBoolean:
		return value.Kind() == canon.KindBool
	case TypeNumber:
		return value.Kind() == canon.KindNumber
	case TypeInteger:
		if value.Kind() != canon.KindNumber {
			return false
		}
		n := value.NumberValue()
		return n == math.Trunc(n) && !math.IsInf(n, 0)
	case TypeArray:
		return value.Kind() == canon.KindList
	case TypeObject:
		return value.Kind() == canon.KindMap
	case TypeNull:
		return value.IsNull()
	default:
		return true
	}
}

// actualTypeName renders a value's type for mismatch messages, using
// "integer" for whole numbers so "expected integer, got number" only
// appears when the value really has a fraction.
func actualTypeName(value *canon.Value) string {
	if value.Kind() == canon.KindNumber {
		n := value.NumberValue()
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return TypeInteger
		}
		return TypeNumber
	}
	return string(value.Kind())
}
