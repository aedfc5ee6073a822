package canon

import (
	"math"
	"strconv"
)

// MarshalJSON renders the value as JSON with object keys in insertion
// order. Integral numbers render without a fractional part.
func (v *Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil), nil
}

// String returns the compact JSON rendering of the value. It is meant
// for logs and error messages, not round-tripping.
func (v *Value) String() string {
	return string(v.appendJSON(nil))
}

func (v *Value) appendJSON(dst []byte) []byte {
	switch v.Kind() {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		return strconv.AppendBool(dst, v.boolVal)
	case KindNumber:
		return appendNumber(dst, v.numVal)
	case KindString:
		return strconv.AppendQuote(dst, v.strVal)
	case KindList:
		dst = append(dst, '[')
		for i, item := range v.items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = item.appendJSON(dst)
		}
		return append(dst, ']')
	case KindMap:
		dst = append(dst, '{')
		for i, key := range v.keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendQuote(dst, key)
			dst = append(dst, ':')
			dst = v.fields[key].appendJSON(dst)
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

func appendNumber(dst []byte, n float64) []byte {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		// JSON has no encoding for these; null keeps output parseable.
		return append(dst, "null"...)
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.AppendInt(dst, int64(n), 10)
	}
	return strconv.AppendFloat(dst, n, 'g', -1, 64)
}
