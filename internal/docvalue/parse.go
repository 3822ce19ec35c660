package docvalue

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse decodes a JSON document into a Value tree. Object members are kept in
// document order, which encoding/json cannot provide; gjson's ForEach walks
// members in the order they appear in the source.
func Parse(data []byte) (*Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("docvalue: malformed JSON document")
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(src string) (*Value, error) {
	return Parse([]byte(src))
}

func fromResult(r gjson.Result) *Value {
	switch r.Type {
	case gjson.Null:
		return NewNull()
	case gjson.False:
		return NewBoolean(false)
	case gjson.True:
		return NewBoolean(true)
	case gjson.String:
		return NewString(r.String())
	case gjson.Number:
		if isIntegral(r.Raw) {
			return NewInt64(r.Int())
		}
		return NewNumber(r.Float())
	case gjson.JSON:
		if r.IsArray() {
			v := NewArray()
			r.ForEach(func(_, elem gjson.Result) bool {
				v.ArrayAppend(fromResult(elem))
				return true
			})
			return v
		}
		if r.IsObject() {
			v := NewObject()
			r.ForEach(func(key, elem gjson.Result) bool {
				v.ObjectSet(key.String(), fromResult(elem))
				return true
			})
			return v
		}
		return NewUndefined()
	default:
		return NewUndefined()
	}
}

// isIntegral reports whether a raw JSON number literal has no fractional or
// exponent part.
func isIntegral(raw string) bool {
	return !strings.ContainsAny(raw, ".eE")
}
