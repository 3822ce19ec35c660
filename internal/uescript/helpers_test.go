package uescript

import (
	"testing"

	"github.com/th3fanbus/scriptviewer/internal/docvalue"
)

// mustDoc parses a JSON fragment used as decoder input.
func mustDoc(t *testing.T, src string) *docvalue.Value {
	t.Helper()
	v, err := docvalue.ParseString(src)
	if err != nil {
		t.Fatalf("parsing test input: %v", err)
	}
	return v
}

// mustDisasm runs the full pipeline over a bytecode array literal.
func mustDisasm(t *testing.T, src string) *AST {
	t.Helper()
	a, err := Disassemble("TestScript", mustDoc(t, src))
	if err != nil {
		t.Fatalf("Disassemble() error: %v", err)
	}
	return a
}

// hasEdge reports whether the AST recorded the edge.
func hasEdge(a *AST, from, to int) bool {
	return a.linkSet[Edge{From: from, To: to}]
}

// attrKeys returns the node's attribute keys in insertion order.
func attrKeys(n *Node) []string {
	keys := make([]string, 0, len(n.Attrs()))
	for _, attr := range n.Attrs() {
		keys = append(keys, attr.Key)
	}
	return keys
}
