package uescript

import (
	"strconv"

	"github.com/th3fanbus/scriptviewer/internal/docvalue"
)

// Edge is a directed control-flow edge between two statement indices.
type Edge struct {
	From int
	To   int
}

// AST is the per-function container produced by disassembly. It is built by
// the statement serializer, mutated exactly once by the stack resolver, and
// treated as read-only afterwards.
type AST struct {
	// Name is the function name from the dump.
	Name string

	// IsUbergraph is true iff the function contains a computed jump. Such
	// functions bundle several event handlers dispatched by target index.
	IsUbergraph bool

	// ComputedJumpIndex is the statement index of the computed jump, or -1.
	ComputedJumpIndex int

	// NotEntrypoints holds statement indices excluded from entrypoint
	// discovery: push-execution targets (they become pop destinations) and
	// index 0 of an ubergraph (the dispatch prologue).
	NotEntrypoints map[int]bool

	// ScriptNodes maps each statement index to its decoded node.
	ScriptNodes map[int]*Node

	// LinkList is the edge set: fall-through, explicit jumps, and (after
	// resolution) pop-execution back-edges.
	LinkList []Edge

	order     []int          // statement indices in serialization order
	linkSet   map[Edge]bool  // deduplicates LinkList
	outEdges  map[int][]Edge // adjacency index over LinkList, keyed by From
	incoming  map[int]int    // incoming-edge count per statement index
	tempLinks []Edge         // resolver output, merged into LinkList afterwards
	lastIndex int            // previous statement for fall-through linking, -1 = none
}

// Disassemble decodes the ordered statement list of one function, links the
// statements into a control-flow graph, and resolves the execution-flow
// stack from every entrypoint.
func Disassemble(name string, bytecode *docvalue.Value) (*AST, error) {
	a := newAST(name)
	if bytecode.Kind() != docvalue.KindArray {
		return nil, NewStructuralError("", bytecode, "bytecode is not a sequence")
	}
	for _, stmt := range bytecode.ArrayElements() {
		if err := a.serialize(stmt); err != nil {
			return nil, err
		}
	}
	if err := a.resolve(); err != nil {
		return nil, err
	}
	return a, nil
}

func newAST(name string) *AST {
	return &AST{
		Name:              name,
		ComputedJumpIndex: -1,
		NotEntrypoints:    make(map[int]bool),
		ScriptNodes:       make(map[int]*Node),
		linkSet:           make(map[Edge]bool),
		outEdges:          make(map[int][]Edge),
		incoming:          make(map[int]int),
		lastIndex:         -1,
	}
}

// Node returns the statement node at index, or nil.
func (a *AST) Node(index int) *Node {
	return a.ScriptNodes[index]
}

// Nodes returns the statement nodes in serialization order.
func (a *AST) Nodes() []*Node {
	nodes := make([]*Node, 0, len(a.order))
	for _, index := range a.order {
		nodes = append(nodes, a.ScriptNodes[index])
	}
	return nodes
}

// addLink records a directed edge and keeps the adjacency index current.
// The edge set ignores duplicates.
func (a *AST) addLink(from, to int) {
	e := Edge{From: from, To: to}
	if a.linkSet[e] {
		return
	}
	a.linkSet[e] = true
	a.LinkList = append(a.LinkList, e)
	a.outEdges[from] = append(a.outEdges[from], e)
	a.incoming[to]++
}

// outgoing returns the recorded edges leaving index, in insertion order.
// Edges still pending in the resolver's temporary list are not included.
// The slice is shared with the adjacency index and must not be mutated.
func (a *AST) outgoing(index int) []Edge {
	return a.outEdges[index]
}

// hasIncoming reports whether any recorded edge targets index.
func (a *AST) hasIncoming(index int) bool {
	return a.incoming[index] > 0
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
