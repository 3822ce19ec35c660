// Package graph renders disassembled script functions as Graphviz documents.
// Each statement becomes one record-shaped node whose label mirrors the AST
// node's attribute layout; each control-flow edge becomes one arrow.
package graph

import (
	"os"
	"strconv"
	"strings"

	"github.com/emicklei/dot"

	"github.com/th3fanbus/scriptviewer/internal/docvalue"
	"github.com/th3fanbus/scriptviewer/internal/uescript"
)

// Theme is the single color/font scheme applied to the graph, its nodes,
// and its edges.
type Theme struct {
	Background string
	Foreground string
	FontName   string
	FontSize   int
}

// ScriptGraph accumulates one function graph for emission.
type ScriptGraph struct {
	name string
	g    *dot.Graph
}

// New creates an empty directed graph for the named artifact, themed for
// graph, node, and edge rendering.
func New(name string, theme Theme) *ScriptGraph {
	g := dot.NewGraph(dot.Directed)
	fontSize := strconv.Itoa(theme.FontSize)
	g.Attr("bgcolor", theme.Background)
	g.Attr("color", theme.Foreground)
	g.Attr("fontcolor", theme.Foreground)
	g.Attr("fontname", theme.FontName)
	g.Attr("fontsize", fontSize)
	g.Attr("charset", "UTF-8")
	g.Attr("compound", "true")
	g.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "record")
		n.Attr("color", theme.Foreground)
		n.Attr("fontcolor", theme.Foreground)
		n.Attr("fontname", theme.FontName)
		n.Attr("fontsize", fontSize)
	})
	g.EdgeInitializer(func(e dot.Edge) {
		e.Attr("color", theme.Foreground)
		e.Attr("fontcolor", theme.Foreground)
		e.Attr("fontname", theme.FontName)
		e.Attr("fontsize", fontSize)
	})
	return &ScriptGraph{name: name, g: g}
}

// Name returns the artifact name the graph was created for.
func (sg *ScriptGraph) Name() string {
	return sg.name
}

// DrawNode adds one record node for the statement, identified by the decimal
// form of its index.
func (sg *ScriptGraph) DrawNode(n *uescript.Node) {
	id := strconv.Itoa(n.Index())
	label := `"` + makeLabel(n) + `"`
	sg.g.Node(id).Attr("label", dot.Literal(label))
}

// DrawEdge adds one directed arrow between two statement indices.
func (sg *ScriptGraph) DrawEdge(e uescript.Edge) {
	tail := sg.g.Node(strconv.Itoa(e.From))
	head := sg.g.Node(strconv.Itoa(e.To))
	sg.g.Edge(tail, head)
}

// String returns the graph in dot syntax.
func (sg *ScriptGraph) String() string {
	return sg.g.String()
}

// WriteFile writes the dot document to path.
func (sg *ScriptGraph) WriteFile(path string) error {
	return os.WriteFile(path, []byte(sg.String()), 0o644)
}

// makeLabel composes the record label for a node: the statement index first,
// then every attribute except index and kind as a {key|{value}} field, in
// attribute order. Lists become nested pipe-separated groups.
func makeLabel(v any) string {
	switch t := v.(type) {
	case *uescript.Node:
		var fields []string
		if t.Index() >= 0 {
			fields = append(fields, "{index|"+strconv.Itoa(t.Index())+"}")
		}
		for _, attr := range t.Attrs() {
			if attr.Key == uescript.AttrIndex || attr.Key == uescript.AttrKind {
				continue
			}
			fields = append(fields, "{"+attr.Key+"|{"+makeLabel(attr.Value)+"}}")
		}
		return strings.Join(fields, "|")
	case []*uescript.Node:
		groups := make([]string, 0, len(t))
		for _, elem := range t {
			groups = append(groups, "{"+makeLabel(elem)+"}")
		}
		return strings.Join(groups, "|")
	case *docvalue.Value:
		return docLabel(t)
	case nil:
		return "null"
	case string:
		return escapeScalar(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}

// docLabel renders a raw document subtree (struct constants and the like)
// with the same field layout as decoded nodes.
func docLabel(v *docvalue.Value) string {
	switch v.Kind() {
	case docvalue.KindObject:
		var fields []string
		for _, key := range v.ObjectKeys() {
			if key == uescript.AttrIndex || key == uescript.AttrKind {
				continue
			}
			fields = append(fields, "{"+key+"|{"+docLabel(v.ObjectGet(key))+"}}")
		}
		return strings.Join(fields, "|")
	case docvalue.KindArray:
		groups := make([]string, 0, v.ArrayLen())
		for _, elem := range v.ArrayElements() {
			groups = append(groups, "{"+docLabel(elem)+"}")
		}
		return strings.Join(groups, "|")
	case docvalue.KindString:
		return escapeScalar(v.StringValue())
	case docvalue.KindInt64:
		return strconv.FormatInt(v.Int64Value(), 10)
	case docvalue.KindNumber:
		return strconv.FormatFloat(v.NumberValue(), 'g', -1, 64)
	case docvalue.KindBoolean:
		return strconv.FormatBool(v.BoolValue())
	default:
		return "null"
	}
}

var scalarEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
	"\n", `\n`,
)

// escapeScalar escapes the characters that carry structure in record labels
// and quoted dot strings.
func escapeScalar(s string) string {
	return scalarEscaper.Replace(s)
}
