package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"mercator-hq/callisto/pkg/canon"
)

// maxYAMLDepth bounds nesting (and alias chains) while walking the
// node tree.
const maxYAMLDepth = 100

// parseYAML decodes a tree-config document by walking the yaml.Node
// tree, which preserves mapping key order and node positions. The
// library already rejects ambiguous indentation; duplicate keys at one
// mapping level are rejected here with the offending position.
func parseYAML(path string, data []byte) (*canon.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewParseError(path, "empty document", nil)
		}
		return nil, yamlParseError(path, err)
	}

	// A second document in the stream is a mistake for data files.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, NewParseError(path, "multiple documents in one file", nil)
	}

	return buildYAMLValue(path, &root, 0)
}

func buildYAMLValue(path string, node *yaml.Node, depth int) (*canon.Value, error) {
	if depth > maxYAMLDepth {
		return nil, NewParseErrorAt(path, node.Line, node.Column,
			fmt.Sprintf("nesting exceeds %d levels", maxYAMLDepth), nil)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return canon.Null(), nil
		}
		return buildYAMLValue(path, node.Content[0], depth)

	case yaml.AliasNode:
		return buildYAMLValue(path, node.Alias, depth+1)

	case yaml.MappingNode:
		return buildYAMLMapping(path, node, depth)

	case yaml.SequenceNode:
		list := canon.NewList()
		for _, item := range node.Content {
			v, err := buildYAMLValue(path, item, depth+1)
			if err != nil {
				return nil, err
			}
			list.Append(v)
		}
		return list, nil

	case yaml.ScalarNode:
		return buildYAMLScalar(path, node)

	default:
		return nil, NewParseErrorAt(path, node.Line, node.Column,
			fmt.Sprintf("unsupported node kind %d", node.Kind), nil)
	}
}

func buildYAMLMapping(path string, node *yaml.Node, depth int) (*canon.Value, error) {
	obj := canon.NewMap()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, NewParseErrorAt(path, keyNode.Line, keyNode.Column,
				"mapping key is not a scalar", nil)
		}

		key := keyNode.Value
		if obj.Has(key) {
			return nil, NewParseErrorAt(path, keyNode.Line, keyNode.Column,
				fmt.Sprintf("duplicate key %q in mapping", key), nil)
		}

		value, err := buildYAMLValue(path, node.Content[i+1], depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	return obj, nil
}

func buildYAMLScalar(path string, node *yaml.Node) (*canon.Value, error) {
	switch node.Tag {
	case "!!null":
		return canon.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, NewParseErrorAt(path, node.Line, node.Column,
				fmt.Sprintf("invalid boolean %q", node.Value), nil)
		}
		return canon.Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, NewParseErrorAt(path, node.Line, node.Column,
				fmt.Sprintf("invalid integer %q", node.Value), nil)
		}
		return canon.Number(float64(n)), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, NewParseErrorAt(path, node.Line, node.Column,
				fmt.Sprintf("invalid number %q", node.Value), nil)
		}
		return canon.Number(f), nil
	case "!!binary":
		return nil, NewParseErrorAt(path, node.Line, node.Column,
			"binary scalars are not supported", nil)
	default:
		// Strings, timestamps, and custom tags keep their source text.
		return canon.String(node.Value), nil
	}
}

// yamlParseError strips the library prefix so messages compose cleanly
// with the path-bearing LoadError text.
func yamlParseError(path string, err error) error {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return NewParseError(path, strings.Join(typeErr.Errors, "; "), nil)
	}
	return NewParseError(path, strings.TrimPrefix(err.Error(), "yaml: "), nil)
}
