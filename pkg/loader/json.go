package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"mercator-hq/callisto/pkg/canon"
)

// parseJSON decodes a record-table document through the token stream
// rather than map[string]any, so object key order survives into the
// canonical tree.
func parseJSON(path string, data []byte) (*canon.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, NewParseError(path, "empty document", nil)
	}
	if err != nil {
		return nil, jsonParseError(path, data, err)
	}

	value, err := buildJSONValue(path, data, dec, tok)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, NewParseError(path, "unexpected content after top-level value", nil)
		}
		return nil, jsonParseError(path, data, err)
	}

	return value, nil
}

func buildJSONValue(path string, data []byte, dec *json.Decoder, tok json.Token) (*canon.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return buildJSONObject(path, data, dec)
		case '[':
			return buildJSONArray(path, data, dec)
		default:
			return nil, NewParseError(path, fmt.Sprintf("unexpected delimiter %q", t.String()), nil)
		}
	case string:
		return canon.String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, NewParseError(path, fmt.Sprintf("invalid number %q", t.String()), nil)
		}
		return canon.Number(f), nil
	case bool:
		return canon.Bool(t), nil
	case nil:
		return canon.Null(), nil
	default:
		return nil, NewParseError(path, fmt.Sprintf("unexpected token %v", tok), nil)
	}
}

func buildJSONObject(path string, data []byte, dec *json.Decoder) (*canon.Value, error) {
	obj := canon.NewMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, jsonParseError(path, data, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, NewParseError(path, fmt.Sprintf("object key %v is not a string", keyTok), nil)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, jsonParseError(path, data, err)
		}
		value, err := buildJSONValue(path, data, dec, valTok)
		if err != nil {
			return nil, err
		}
		// Repeated keys follow last-value-wins, matching stock JSON
		// decoders; the key keeps its first position.
		obj.Set(key, value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, jsonParseError(path, data, err)
	}
	return obj, nil
}

func buildJSONArray(path string, data []byte, dec *json.Decoder) (*canon.Value, error) {
	arr := canon.NewList()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, jsonParseError(path, data, err)
		}
		value, err := buildJSONValue(path, data, dec, tok)
		if err != nil {
			return nil, err
		}
		arr.Append(value)
	}

	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return nil, jsonParseError(path, data, err)
	}
	return arr, nil
}

// jsonParseError converts decoder failures into LoadErrors, translating
// byte offsets into line and column positions.
func jsonParseError(path string, data []byte, err error) error {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		line, column := offsetToPosition(data, syn.Offset)
		return NewParseErrorAt(path, line, column, syn.Error(), nil)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return NewParseError(path, "unexpected end of document", nil)
	}
	return NewParseError(path, err.Error(), nil)
}

// offsetToPosition converts a byte offset into 1-based line and column
// numbers.
func offsetToPosition(data []byte, offset int64) (int, int) {
	line, column := 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}
