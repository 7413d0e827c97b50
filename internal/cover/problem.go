// Package cover implements the minimum-vertex-cover variant of the search
// engine: an indirect decision-sequence chromosome over a canonical vertex
// ordering, decoded with a repair pass so every genome maps to a valid cover.
package cover

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/graph"
)

// edge references two vertices by their position in the canonical ordering,
// with u < v.
type edge struct {
	u, v int
}

// Problem is the immutable description of a vertex-cover instance. The graph
// is constructed externally and handed in; this package never parses or
// loads graphs. Vertex order and edge order are precomputed and sorted so
// decoding is deterministic regardless of the graph implementation's
// iteration order.
type Problem struct {
	order []int64
	index map[int64]int
	edges []edge
}

// NewProblem derives the canonical ordering (ascending node ID) and sorted
// edge list from an undirected graph.
func NewProblem(g graph.Undirected) (*Problem, error) {
	var order []int64
	nodes := g.Nodes()
	for nodes.Next() {
		order = append(order, nodes.Node().ID())
	}
	if len(order) == 0 {
		return nil, errors.New("cover: graph has no vertices")
	}
	sort.Slice(order, func(a, b int) bool { return order[a] < order[b] })

	index := make(map[int64]int, len(order))
	for i, id := range order {
		index[id] = i
	}

	var edges []edge
	for u, id := range order {
		neighbors := g.From(id)
		for neighbors.Next() {
			v := index[neighbors.Node().ID()]
			if v > u {
				edges = append(edges, edge{u: u, v: v})
			}
		}
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].u != edges[b].u {
			return edges[a].u < edges[b].u
		}
		return edges[a].v < edges[b].v
	})

	return &Problem{order: order, index: index, edges: edges}, nil
}

// NumVertices returns the size of the vertex set.
func (p *Problem) NumVertices() int {
	return len(p.order)
}

// NumEdges returns the size of the edge set.
func (p *Problem) NumEdges() int {
	return len(p.edges)
}
