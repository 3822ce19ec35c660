package uescript

import (
	"github.com/th3fanbus/scriptviewer/internal/docvalue"
)

// serialize decodes one statement document, registers it under its statement
// index, and records the linear fall-through edge from its predecessor.
// Statements are processed in input order.
func (a *AST) serialize(stmt *docvalue.Value) error {
	if stmt.Kind() != docvalue.KindObject {
		return NewStructuralError("", stmt, "statement is not a mapping")
	}
	idxDoc := stmt.ObjectGet("StatementIndex")
	if idxDoc == nil {
		return NewStructuralError("", stmt, "statement without StatementIndex")
	}
	if !idxDoc.IsInteger() || idxDoc.Int() < 0 {
		return NewStructuralError("", stmt, "StatementIndex is not a non-negative integer")
	}
	index := idxDoc.Int()

	node, err := a.decodeInst(stmt, index)
	if err != nil {
		return err
	}
	node.setIndex(index)

	// A duplicate index overwrites silently; the input is broken in a way
	// other stages will surface.
	if _, dup := a.ScriptNodes[index]; !dup {
		a.order = append(a.order, index)
	}
	a.ScriptNodes[index] = node

	if a.lastIndex >= 0 {
		// Link with the previous node
		a.addLink(a.lastIndex, index)
	}
	if node.NoFlow() {
		// Unconditional jump or return node, exec doesn't continue
		a.lastIndex = -1
	} else {
		// Non-jump node, assume exec flows linearly
		a.lastIndex = index
	}
	return nil
}
