package methodtree

import "github.com/google/uuid"

// IDFunc allocates render ids.
type IDFunc func() uuid.UUID

// Remap deep-copies the trees and gives every copied node a fresh id. A
// record shared by two parents becomes two distinct nodes, so ids are unique
// within the result. SourceID keeps the record id; Data is shared with the
// input. Render ids are not stable across calls and must never be stored.
//
// A child that is already on the current path is left out, which keeps
// cyclic input finite.
func Remap[T any](roots []*Node[T], newID IDFunc) []*Node[T] {
	if newID == nil {
		newID = uuid.New
	}
	out := make([]*Node[T], 0, len(roots))
	onPath := map[*Node[T]]bool{}
	for _, r := range roots {
		out = append(out, remap(r, newID, onPath))
	}
	return out
}

func remap[T any](n *Node[T], newID IDFunc, onPath map[*Node[T]]bool) *Node[T] {
	onPath[n] = true
	defer delete(onPath, n)

	cp := &Node[T]{ID: newID(), SourceID: n.SourceID, Data: n.Data}
	if len(n.Children) > 0 {
		cp.Children = make([]*Node[T], 0, len(n.Children))
	}
	for _, c := range n.Children {
		if onPath[c] {
			continue
		}
		cp.Children = append(cp.Children, remap(c, newID, onPath))
	}
	return cp
}

// Walk visits every node depth first, parents before children. The trees
// must be acyclic, which Remap output always is.
func Walk[T any](roots []*Node[T], fn func(n *Node[T], depth int)) {
	var visit func(n *Node[T], depth int)
	visit = func(n *Node[T], depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
}
