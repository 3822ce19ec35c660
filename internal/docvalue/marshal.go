package docvalue

import (
	"encoding/json"
	"strconv"
)

// MarshalIndent serializes the value as pretty-printed JSON. Object members
// are written in insertion order; encoding/json would sort them, which ruins
// the layout the rest of the pipeline preserves so carefully.
func (v *Value) MarshalIndent(indent string) []byte {
	return v.AppendIndent(nil, "", indent)
}

// AppendIndent appends the JSON form of the value to dst. cur is the
// indentation already in effect for the current line; indent is added for
// each nesting level.
func (v *Value) AppendIndent(dst []byte, cur, indent string) []byte {
	if v == nil {
		return append(dst, "null"...)
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return append(dst, "null"...)
	case KindBoolean:
		return strconv.AppendBool(dst, v.bool)
	case KindInt64:
		return strconv.AppendInt(dst, v.i64, 10)
	case KindNumber:
		return strconv.AppendFloat(dst, v.num, 'g', -1, 64)
	case KindString:
		return appendQuoted(dst, v.str)
	case KindArray:
		if len(v.arrElems) == 0 {
			return append(dst, "[]"...)
		}
		inner := cur + indent
		dst = append(dst, '[')
		for i, elem := range v.arrElems {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, '\n')
			dst = append(dst, inner...)
			dst = elem.AppendIndent(dst, inner, indent)
		}
		dst = append(dst, '\n')
		dst = append(dst, cur...)
		return append(dst, ']')
	case KindObject:
		if len(v.objKeys) == 0 {
			return append(dst, "{}"...)
		}
		inner := cur + indent
		dst = append(dst, '{')
		for i, key := range v.objKeys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, '\n')
			dst = append(dst, inner...)
			dst = appendQuoted(dst, key)
			dst = append(dst, ": "...)
			dst = v.objEntries[key].AppendIndent(dst, inner, indent)
		}
		dst = append(dst, '\n')
		dst = append(dst, cur...)
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

func appendQuoted(dst []byte, s string) []byte {
	quoted, err := json.Marshal(s)
	if err != nil {
		// json.Marshal cannot fail for a string
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, quoted...)
}
