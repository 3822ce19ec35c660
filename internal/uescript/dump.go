package uescript

import (
	"encoding/json"
	"strconv"

	"github.com/th3fanbus/scriptviewer/internal/docvalue"
)

const dumpIndent = "    "

// DumpNodes serializes the statement nodes as pretty-printed JSON for the
// intermediate dump. Statements appear in serialization order and node
// attributes in insertion order, so the dump mirrors the labels the emitter
// will produce.
func (a *AST) DumpNodes() []byte {
	if len(a.order) == 0 {
		return []byte("{}")
	}
	dst := []byte{'{'}
	for i, index := range a.order {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '\n')
		dst = append(dst, dumpIndent...)
		dst = strconv.AppendQuote(dst, strconv.Itoa(index))
		dst = append(dst, ": "...)
		dst = appendNodeJSON(dst, a.ScriptNodes[index], dumpIndent)
	}
	return append(dst, "\n}"...)
}

func appendNodeJSON(dst []byte, n *Node, cur string) []byte {
	attrs := n.Attrs()
	if len(attrs) == 0 {
		return append(dst, "{}"...)
	}
	inner := cur + dumpIndent
	dst = append(dst, '{')
	for i, attr := range attrs {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, '\n')
		dst = append(dst, inner...)
		dst = strconv.AppendQuote(dst, attr.Key)
		dst = append(dst, ": "...)
		dst = appendValueJSON(dst, attr.Value, inner)
	}
	dst = append(dst, '\n')
	dst = append(dst, cur...)
	return append(dst, '}')
}

func appendValueJSON(dst []byte, v any, cur string) []byte {
	switch t := v.(type) {
	case nil:
		return append(dst, "null"...)
	case string:
		quoted, _ := json.Marshal(t)
		return append(dst, quoted...)
	case bool:
		return strconv.AppendBool(dst, t)
	case int:
		return strconv.AppendInt(dst, int64(t), 10)
	case int64:
		return strconv.AppendInt(dst, t, 10)
	case float64:
		return strconv.AppendFloat(dst, t, 'g', -1, 64)
	case *Node:
		return appendNodeJSON(dst, t, cur)
	case []*Node:
		if len(t) == 0 {
			return append(dst, "[]"...)
		}
		inner := cur + dumpIndent
		dst = append(dst, '[')
		for i, elem := range t {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, '\n')
			dst = append(dst, inner...)
			dst = appendNodeJSON(dst, elem, inner)
		}
		dst = append(dst, '\n')
		dst = append(dst, cur...)
		return append(dst, ']')
	case *docvalue.Value:
		return t.AppendIndent(dst, cur, dumpIndent)
	default:
		quoted, _ := json.Marshal(t)
		return append(dst, quoted...)
	}
}
