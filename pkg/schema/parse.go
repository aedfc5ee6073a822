package schema

import (
	"fmt"
	"math"
	"regexp"

	"mercator-hq/callisto/pkg/canon"
)

// Parse compiles a schema document into a Schema. The document is a
// canonical tree loaded from a record-table (JSON) file; its top level
// carries optional "title" and "strict" entries plus the root field
// spec. Parse validates the document shape eagerly so that a defective
// schema fails at load time, not in the middle of a validation run.
func Parse(name string, doc *canon.Value) (*Schema, error) {
	if doc.Kind() != canon.KindMap {
		return nil, &DefinitionError{
			Schema:  name,
			Path:    "root",
			Message: fmt.Sprintf("schema document must be an object, got %s", doc.Kind()),
		}
	}

	s := &Schema{Name: name}

	if title, ok := doc.Get("title"); ok {
		if title.Kind() != canon.KindString {
			return nil, &DefinitionError{Schema: name, Path: "title", Message: "title must be a string"}
		}
		s.Title = title.StringValue()
	}

	if strict, ok := doc.Get("strict"); ok {
		if strict.Kind() != canon.KindBool {
			return nil, &DefinitionError{Schema: name, Path: "strict", Message: "strict must be a boolean"}
		}
		b := strict.BoolValue()
		s.Strict = &b
	}

	root, err := parseSpec(name, doc, "root")
	if err != nil {
		return nil, err
	}
	if !root.HasConstraints() {
		return nil, &DefinitionError{
			Schema:  name,
			Path:    "root",
			Message: "schema declares no constraints",
		}
	}
	s.Root = root

	return s, nil
}

// parseSpec compiles one node of the constraint tree.
func parseSpec(schemaName string, node *canon.Value, path string) (*FieldSpec, error) {
	if node.Kind() != canon.KindMap {
		return nil, &DefinitionError{
			Schema:  schemaName,
			Path:    path,
			Message: fmt.Sprintf("field spec must be an object, got %s", node.Kind()),
		}
	}

	spec := &FieldSpec{}

	if t, ok := node.Get("type"); ok {
		if t.Kind() != canon.KindString {
			return nil, &DefinitionError{Schema: schemaName, Path: path, Message: "type must be a string"}
		}
		typeName := t.StringValue()
		if !validTypeNames[typeName] {
			return nil, &DefinitionError{
				Schema:  schemaName,
				Path:    path,
				Message: fmt.Sprintf("unknown type %q", typeName),
			}
		}
		spec.Type = typeName
	}

	if n, ok := node.Get("nullable"); ok {
		if n.Kind() != canon.KindBool {
			return nil, &DefinitionError{Schema: schemaName, Path: path, Message: "nullable must be a boolean"}
		}
		spec.Nullable = n.BoolValue()
	}

	if f, ok := node.Get("format"); ok {
		if f.Kind() != canon.KindString {
			return nil, &DefinitionError{Schema: schemaName, Path: path, Message: "format must be a string"}
		}
		spec.Format = f.StringValue()
	}

	if p, ok := node.Get("pattern"); ok {
		if p.Kind() != canon.KindString {
			return nil, &DefinitionError{Schema: schemaName, Path: path, Message: "pattern must be a string"}
		}
		re, err := regexp.Compile(p.StringValue())
		if err != nil {
			return nil, &DefinitionError{
				Schema:  schemaName,
				Path:    path,
				Message: fmt.Sprintf("invalid pattern %q", p.StringValue()),
				Cause:   err,
			}
		}
		spec.Pattern = re
		spec.PatternSource = p.StringValue()
	}

	if e, ok := node.Get("enum"); ok {
		if e.Kind() != canon.KindList || e.Len() == 0 {
			return nil, &DefinitionError{Schema: schemaName, Path: path, Message: "enum must be a non-empty array"}
		}
		for i := 0; i < e.Len(); i++ {
			spec.Enum = append(spec.Enum, e.At(i))
		}
	}

	var err error
	if spec.MinLength, err = intBound(schemaName, node, path, "minLength"); err != nil {
		return nil, err
	}
	if spec.MaxLength, err = intBound(schemaName, node, path, "maxLength"); err != nil {
		return nil, err
	}
	if spec.MinItems, err = intBound(schemaName, node, path, "minItems"); err != nil {
		return nil, err
	}
	if spec.MaxItems, err = intBound(schemaName, node, path, "maxItems"); err != nil {
		return nil, err
	}
	if spec.Minimum, err = numberBound(schemaName, node, path, "minimum"); err != nil {
		return nil, err
	}
	if spec.Maximum, err = numberBound(schemaName, node, path, "maximum"); err != nil {
		return nil, err
	}

	if req, ok := node.Get("required"); ok {
		if req.Kind() != canon.KindList {
			return nil, &DefinitionError{Schema: schemaName, Path: path, Message: "required must be an array of field names"}
		}
		for i := 0; i < req.Len(); i++ {
			name := req.At(i)
			if name.Kind() != canon.KindString {
				return nil, &DefinitionError{
					Schema:  schemaName,
					Path:    fmt.Sprintf("%s.required[%d]", path, i),
					Message: "required entries must be strings",
				}
			}
			spec.Required = append(spec.Required, name.StringValue())
		}
	}

	if props, ok := node.Get("properties"); ok {
		if props.Kind() != canon.KindMap {
			return nil, &DefinitionError{Schema: schemaName, Path: path, Message: "properties must be an object"}
		}
		spec.Properties = make(map[string]*FieldSpec, props.Len())
		for _, key := range props.Keys() {
			child, err := parseSpec(schemaName, props.MustGet(key), joinPath(path, key))
			if err != nil {
				return nil, err
			}
			spec.Properties[key] = child
			spec.PropertyOrder = append(spec.PropertyOrder, key)
		}
	}

	if items, ok := node.Get("items"); ok {
		child, err := parseSpec(schemaName, items, path+"[]")
		if err != nil {
			return nil, err
		}
		spec.Items = child
	}

	return spec, nil
}

// intBound extracts an optional non-negative integer constraint.
func intBound(schemaName string, node *canon.Value, path, key string) (*int, error) {
	v, ok := node.Get(key)
	if !ok {
		return nil, nil
	}
	if v.Kind() != canon.KindNumber {
		return nil, &DefinitionError{
			Schema:  schemaName,
			Path:    path,
			Message: fmt.Sprintf("%s must be a number", key),
		}
	}
	n := v.NumberValue()
	if n != math.Trunc(n) || n < 0 {
		return nil, &DefinitionError{
			Schema:  schemaName,
			Path:    path,
			Message: fmt.Sprintf("%s must be a non-negative integer, got %v", key, n),
		}
	}
	i := int(n)
	return &i, nil
}

// numberBound extracts an optional numeric constraint.
func numberBound(schemaName string, node *canon.Value, path, key string) (*float64, error) {
	v, ok := node.Get(key)
	if !ok {
		return nil, nil
	}
	if v.Kind() != canon.KindNumber {
		return nil, &DefinitionError{
			Schema:  schemaName,
			Path:    path,
			Message: fmt.Sprintf("%s must be a number", key),
		}
	}
	n := v.NumberValue()
	return &n, nil
}

// joinPath appends a field name to a path. Children of the root render
// bare ("password"), deeper fields dotted ("profile.age").
func joinPath(path, name string) string {
	if path == "" || path == "root" {
		return name
	}
	return path + "." + name
}
