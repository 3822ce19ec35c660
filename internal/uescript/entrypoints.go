package uescript

import "sort"

// Entrypoints returns the statement indices where execution can begin: a
// statement with no incoming edges that is not excluded by opcode semantics
// (push-execution targets, and index 0 of an ubergraph). The result is
// sorted ascending.
func (a *AST) Entrypoints() []int {
	var eps []int
	for index := range a.ScriptNodes {
		if a.NotEntrypoints[index] {
			continue
		}
		if a.hasIncoming(index) {
			continue
		}
		eps = append(eps, index)
	}
	sort.Ints(eps)
	return eps
}

// outgoingFor returns the outgoing edges of index. When index is the
// computed-jump statement and a concrete dispatch target has been supplied
// (target >= 0), the virtual edge toward that target is appended. A dispatch
// target at or before the computed jump is an anomaly the caller cannot
// recover from.
func (a *AST) outgoingFor(index, target int) ([]Edge, error) {
	edges := a.outgoing(index)
	if a.IsUbergraph && index == a.ComputedJumpIndex && target >= 0 {
		if target <= a.ComputedJumpIndex {
			return nil, NewInvariantError(index, "computed jump target %d does not follow the jump", target)
		}
		// Copy before appending: outgoing shares the adjacency index slice.
		edges = append(append([]Edge(nil), edges...), Edge{From: index, To: target})
	}
	return edges, nil
}

// FullGraph returns every statement node in serialization order together
// with the complete edge set.
func (a *AST) FullGraph() ([]*Node, []Edge) {
	edges := make([]Edge, len(a.LinkList))
	copy(edges, a.LinkList)
	return a.Nodes(), edges
}

// Subgraph returns the forward-reachable nodes and edges from entrypoint ep,
// with the computed-jump edge synthesized toward ep. For entrypoint 0 of a
// plain function the whole graph is returned verbatim, in FullGraph's order.
// Otherwise nodes are ordered by statement index, edges by (from, to).
func (a *AST) Subgraph(ep int) ([]*Node, []Edge, error) {
	if ep == 0 && !a.IsUbergraph {
		nodes, edges := a.FullGraph()
		return nodes, edges, nil
	}

	seen := map[int]bool{ep: true}
	queue := []int{ep}
	edgeSet := make(map[Edge]bool)
	for len(queue) > 0 {
		index := queue[0]
		queue = queue[1:]
		outs, err := a.outgoingFor(index, ep)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range outs {
			edgeSet[e] = true
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	indices := make([]int, 0, len(seen))
	for index := range seen {
		if a.ScriptNodes[index] != nil {
			indices = append(indices, index)
		}
	}
	sort.Ints(indices)
	nodes := make([]*Node, 0, len(indices))
	for _, index := range indices {
		nodes = append(nodes, a.ScriptNodes[index])
	}

	edges := make([]Edge, 0, len(edgeSet))
	for e := range edgeSet {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return nodes, edges, nil
}
