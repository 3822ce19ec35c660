package uescript

import (
	"errors"
	"reflect"
	"testing"
)

func TestLinearPair(t *testing.T) {
	a := mustDisasm(t, `[
		{"StatementIndex": 0, "Inst": "EX_Nothing"},
		{"StatementIndex": 1, "Inst": "EX_EndOfScript"}
	]`)
	if len(a.ScriptNodes) != 2 {
		t.Fatalf("len(ScriptNodes) = %d, want 2", len(a.ScriptNodes))
	}
	if len(a.LinkList) != 1 || !hasEdge(a, 0, 1) {
		t.Errorf("LinkList = %v, want exactly (0,1)", a.LinkList)
	}
	if got := a.Entrypoints(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Entrypoints() = %v, want [0]", got)
	}
	if a.IsUbergraph {
		t.Errorf("IsUbergraph = true, want false")
	}
}

func TestBackwardJump(t *testing.T) {
	a := mustDisasm(t, `[
		{"StatementIndex": 0, "Inst": "EX_Nothing"},
		{"StatementIndex": 1, "Inst": "EX_Jump", "CodeOffset": 0, "ObjectPath": "/Game/Loop"},
		{"StatementIndex": 2, "Inst": "EX_EndOfScript"}
	]`)
	if len(a.LinkList) != 2 || !hasEdge(a, 0, 1) || !hasEdge(a, 1, 0) {
		t.Errorf("LinkList = %v, want {(0,1),(1,0)}", a.LinkList)
	}
	if hasEdge(a, 1, 2) {
		t.Errorf("jump must suppress the fall-through edge (1,2)")
	}
	if got := a.Entrypoints(); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("Entrypoints() = %v, want [2]", got)
	}
}

func TestConditionalJumpKeepsFallThrough(t *testing.T) {
	a := mustDisasm(t, `[
		{"StatementIndex": 0, "Inst": "EX_JumpIfNot", "CodeOffset": 2, "ObjectPath": "/Game/Branch", "BooleanExpression": {"Inst": "EX_True"}},
		{"StatementIndex": 1, "Inst": "EX_Return", "Expression": {"Inst": "EX_Nothing"}},
		{"StatementIndex": 2, "Inst": "EX_EndOfScript"}
	]`)
	for _, want := range []Edge{{0, 1}, {0, 2}, {1, 2}} {
		if !hasEdge(a, want.From, want.To) {
			t.Errorf("missing edge %v", want)
		}
	}
	if len(a.LinkList) != 3 {
		t.Errorf("LinkList = %v, want three edges", a.LinkList)
	}
}

func TestJumpNodeShape(t *testing.T) {
	a := mustDisasm(t, `[
		{"StatementIndex": 0, "Inst": "EX_Nothing"},
		{"StatementIndex": 1, "Inst": "EX_Jump", "CodeOffset": 0, "ObjectPath": "/Game/Maps/Loop.Loop_C"},
		{"StatementIndex": 2, "Inst": "EX_EndOfScript"}
	]`)
	n := a.Node(1)
	got := attrKeys(n)
	want := []string{"inst", "kind", "jmp_offset", "objpath", "no_flow", "index"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("attribute order = %v, want %v", got, want)
	}
	if v, _ := n.Get("jmp_offset"); v != "0" {
		t.Errorf("jmp_offset = %v, want \"0\"", v)
	}
	if v, _ := n.Get("objpath"); v != "Loop.Loop_C" {
		t.Errorf("objpath = %v, want shortened", v)
	}
	if !n.NoFlow() {
		t.Errorf("NoFlow() = false, want true")
	}
	if n.Index() != 1 {
		t.Errorf("Index() = %d, want 1", n.Index())
	}
}

func TestScriptNodesKeyMatchesIndex(t *testing.T) {
	a := mustDisasm(t, `[
		{"StatementIndex": 4, "Inst": "EX_Nothing"},
		{"StatementIndex": 9, "Inst": "EX_EndOfScript"}
	]`)
	for index, node := range a.ScriptNodes {
		if node.Index() != index {
			t.Errorf("ScriptNodes[%d].Index() = %d", index, node.Index())
		}
	}
}

func TestFallThroughCount(t *testing.T) {
	// Only the final statement stops the flow, so every other statement
	// contributes exactly one fall-through edge.
	a := mustDisasm(t, `[
		{"StatementIndex": 0, "Inst": "EX_Nothing"},
		{"StatementIndex": 1, "Inst": "EX_Nothing"},
		{"StatementIndex": 2, "Inst": "EX_Nothing"},
		{"StatementIndex": 3, "Inst": "EX_EndOfScript"}
	]`)
	if len(a.LinkList) != 3 {
		t.Errorf("LinkList = %v, want three fall-through edges", a.LinkList)
	}
}

func TestMissingStatementIndexFatal(t *testing.T) {
	_, err := Disassemble("Broken", mustDoc(t, `[{"Inst": "EX_Nothing"}]`))
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("error = %v, want StructuralError", err)
	}
}

func TestDuplicateIndexOverwritesSilently(t *testing.T) {
	a := mustDisasm(t, `[
		{"StatementIndex": 0, "Inst": "EX_Nothing"},
		{"StatementIndex": 1, "Inst": "EX_EndOfScript"},
		{"StatementIndex": 0, "Inst": "EX_Nothing"}
	]`)
	if len(a.ScriptNodes) != 2 {
		t.Errorf("len(ScriptNodes) = %d, want 2", len(a.ScriptNodes))
	}
	if len(a.Nodes()) != 2 {
		t.Errorf("Nodes() length = %d, want 2", len(a.Nodes()))
	}
}

func TestEmptyBytecode(t *testing.T) {
	a := mustDisasm(t, `[]`)
	if len(a.ScriptNodes) != 0 || len(a.LinkList) != 0 {
		t.Errorf("empty bytecode yielded nodes/edges")
	}
	if eps := a.Entrypoints(); len(eps) != 0 {
		t.Errorf("Entrypoints() = %v, want none", eps)
	}
}

func TestSingleEndOfScript(t *testing.T) {
	a := mustDisasm(t, `[{"StatementIndex": 0, "Inst": "EX_EndOfScript"}]`)
	if len(a.ScriptNodes) != 1 || len(a.LinkList) != 0 {
		t.Errorf("want one node and no edges, got %d nodes %v", len(a.ScriptNodes), a.LinkList)
	}
	if got := a.Entrypoints(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Entrypoints() = %v, want [0]", got)
	}
}

func TestDuplicateComputedJumpFatal(t *testing.T) {
	_, err := Disassemble("Uber", mustDoc(t, `[
		{"StatementIndex": 0, "Inst": "EX_ComputedJump", "OffsetExpression": {"Inst": "EX_IntZero"}},
		{"StatementIndex": 1, "Inst": "EX_ComputedJump", "OffsetExpression": {"Inst": "EX_IntZero"}}
	]`))
	var invariant *InvariantError
	if !errors.As(err, &invariant) {
		t.Fatalf("error = %v, want InvariantError", err)
	}
}

func TestDumpNodesOrderedOutput(t *testing.T) {
	a := mustDisasm(t, `[{"StatementIndex": 0, "Inst": "EX_EndOfScript"}]`)
	got := string(a.DumpNodes())
	want := `{
    "0": {
        "inst": "EX_EndOfScript",
        "kind": "script end",
        "no_flow": true,
        "index": 0
    }
}`
	if got != want {
		t.Errorf("DumpNodes() =\n%s\nwant\n%s", got, want)
	}
}
