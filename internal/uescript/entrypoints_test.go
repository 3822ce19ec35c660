package uescript

import (
	"errors"
	"reflect"
	"testing"
)

const ubergraphSrc = `[
	{"StatementIndex": 0, "Inst": "EX_PushExecutionFlow", "PushingAddress": 4, "ObjectPath": "/Game/Uber"},
	{"StatementIndex": 1, "Inst": "EX_ComputedJump", "OffsetExpression": {"Inst": "EX_IntZero"}},
	{"StatementIndex": 2, "Inst": "EX_PushExecutionFlow", "PushingAddress": 4, "ObjectPath": "/Game/Uber"},
	{"StatementIndex": 3, "Inst": "EX_PopExecutionFlow"},
	{"StatementIndex": 4, "Inst": "EX_Jump", "CodeOffset": 1, "ObjectPath": "/Game/Uber"},
	{"StatementIndex": 5, "Inst": "EX_EndOfScript"}
]`

func TestUbergraphClassification(t *testing.T) {
	a := mustDisasm(t, ubergraphSrc)
	if !a.IsUbergraph {
		t.Fatalf("IsUbergraph = false")
	}
	if a.ComputedJumpIndex != 1 {
		t.Errorf("ComputedJumpIndex = %d, want 1", a.ComputedJumpIndex)
	}
	for _, excluded := range []int{0, 4} {
		if !a.NotEntrypoints[excluded] {
			t.Errorf("NotEntrypoints missing %d", excluded)
		}
	}
	if got := a.Entrypoints(); !reflect.DeepEqual(got, []int{2, 5}) {
		t.Errorf("Entrypoints() = %v, want [2 5]", got)
	}
	if addr, _ := a.Node(3).Get("pop_addr"); addr != 4 {
		t.Errorf("pop_addr = %v, want 4", addr)
	}
}

func TestEntrypointsHaveNoIncomingEdges(t *testing.T) {
	a := mustDisasm(t, ubergraphSrc)
	for _, ep := range a.Entrypoints() {
		for _, e := range a.LinkList {
			if e.To == ep {
				t.Errorf("entrypoint %d has incoming edge %v", ep, e)
			}
		}
	}
}

func TestUbergraphSubgraphSynthesizesDispatchEdge(t *testing.T) {
	a := mustDisasm(t, ubergraphSrc)
	nodes, edges, err := a.Subgraph(2)
	if err != nil {
		t.Fatalf("Subgraph(2) error: %v", err)
	}
	gotIndices := make([]int, 0, len(nodes))
	for _, n := range nodes {
		gotIndices = append(gotIndices, n.Index())
	}
	if want := []int{1, 2, 3, 4}; !reflect.DeepEqual(gotIndices, want) {
		t.Errorf("subgraph nodes = %v, want %v", gotIndices, want)
	}
	wantEdges := []Edge{{1, 2}, {2, 3}, {3, 4}, {4, 1}}
	if !reflect.DeepEqual(edges, wantEdges) {
		t.Errorf("subgraph edges = %v, want %v", edges, wantEdges)
	}
}

func TestSubgraphIsFixedPoint(t *testing.T) {
	a := mustDisasm(t, ubergraphSrc)
	nodes, edges, err := a.Subgraph(2)
	if err != nil {
		t.Fatalf("Subgraph(2) error: %v", err)
	}
	inSet := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		inSet[n.Index()] = true
	}
	// One more outgoing step from every collected node stays inside the set.
	for _, e := range edges {
		if !inSet[e.To] {
			t.Errorf("edge %v escapes the closure", e)
		}
		outs, err := a.outgoingFor(e.To, 2)
		if err != nil {
			t.Fatalf("outgoingFor(%d) error: %v", e.To, err)
		}
		for _, next := range outs {
			if !inSet[next.To] {
				t.Errorf("extending by %v yields new node %d", next, next.To)
			}
		}
	}
}

func TestSubgraphFromZeroReturnsWholeGraph(t *testing.T) {
	a := mustDisasm(t, `[
		{"StatementIndex": 0, "Inst": "EX_Nothing"},
		{"StatementIndex": 1, "Inst": "EX_EndOfScript"}
	]`)
	nodes, edges, err := a.Subgraph(0)
	if err != nil {
		t.Fatalf("Subgraph(0) error: %v", err)
	}
	if len(nodes) != len(a.ScriptNodes) {
		t.Errorf("nodes = %d, want all %d", len(nodes), len(a.ScriptNodes))
	}
	if !reflect.DeepEqual(edges, a.LinkList) {
		t.Errorf("edges = %v, want LinkList %v", edges, a.LinkList)
	}
}

func TestComputedJumpTargetMustFollowJump(t *testing.T) {
	a := mustDisasm(t, `[
		{"StatementIndex": 0, "Inst": "EX_Nothing"},
		{"StatementIndex": 1, "Inst": "EX_EndOfScript"},
		{"StatementIndex": 2, "Inst": "EX_Jump", "CodeOffset": 5, "ObjectPath": "/Game/Back"},
		{"StatementIndex": 5, "Inst": "EX_ComputedJump", "OffsetExpression": {"Inst": "EX_IntZero"}}
	]`)
	_, _, err := a.Subgraph(2)
	var invariant *InvariantError
	if !errors.As(err, &invariant) {
		t.Fatalf("error = %v, want InvariantError", err)
	}
}

func TestSubgraphOfIsolatedEndpoint(t *testing.T) {
	a := mustDisasm(t, ubergraphSrc)
	nodes, edges, err := a.Subgraph(5)
	if err != nil {
		t.Fatalf("Subgraph(5) error: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Index() != 5 {
		t.Errorf("nodes = %v, want just statement 5", nodes)
	}
	if len(edges) != 0 {
		t.Errorf("edges = %v, want none", edges)
	}
}
