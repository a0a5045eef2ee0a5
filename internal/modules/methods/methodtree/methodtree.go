// Package methodtree rebuilds bill-of-material trees from flat rows that
// reference their parent row.
package methodtree

import (
	"sort"

	"github.com/google/uuid"
)

// Row is one flat input row. ParentID nil marks a top level row.
type Row[T any] struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
	Data     T
}

// Node is one tree node. Data is nil for placeholder parents that were
// referenced but never supplied as a row.
type Node[T any] struct {
	ID       uuid.UUID
	SourceID uuid.UUID
	Data     *T
	Children []*Node[T]
}

func (n *Node[T]) Placeholder() bool { return n.Data == nil }

type Forest[T any] struct {
	Roots []*Node[T]
	// Orphans are placeholder roots: parent ids that no row carries.
	Orphans []uuid.UUID
	// Detached are rows only reachable through a parent cycle. They are
	// promoted to roots so nothing is lost.
	Detached []uuid.UUID
}

// Less orders sibling payloads. Ties fall back to the record id.
type Less[T any] func(a, b *T) bool

// BuildForest links rows into trees in one pass. Input order does not
// matter: parents may appear after their children, and siblings and roots
// are sorted with less.
func BuildForest[T any](rows []Row[T], less Less[T]) Forest[T] {
	nodes := make(map[uuid.UUID]*Node[T], len(rows))
	isRoot := map[uuid.UUID]bool{}
	edges := map[[2]uuid.UUID]bool{}

	get := func(id uuid.UUID) *Node[T] {
		n, ok := nodes[id]
		if !ok {
			n = &Node[T]{ID: id, SourceID: id}
			nodes[id] = n
		}
		return n
	}

	for i := range rows {
		r := rows[i]
		n := get(r.ID)
		if n.Data == nil {
			data := r.Data
			n.Data = &data
		}
		if r.ParentID == nil {
			isRoot[r.ID] = true
			continue
		}
		edge := [2]uuid.UUID{*r.ParentID, r.ID}
		if edges[edge] {
			continue
		}
		edges[edge] = true
		p := get(*r.ParentID)
		p.Children = append(p.Children, n)
	}

	var f Forest[T]
	for id, n := range nodes {
		switch {
		case isRoot[id]:
			f.Roots = append(f.Roots, n)
		case n.Placeholder():
			f.Roots = append(f.Roots, n)
			f.Orphans = append(f.Orphans, id)
		}
	}

	for _, n := range nodes {
		sortNodes(n.Children, less)
	}
	sortNodes(f.Roots, less)

	reached := make(map[uuid.UUID]bool, len(nodes))
	for _, r := range f.Roots {
		mark(r, reached)
	}
	if len(reached) < len(nodes) {
		var rest []*Node[T]
		for id, n := range nodes {
			if !reached[id] {
				rest = append(rest, n)
			}
		}
		sortNodes(rest, less)
		for _, n := range rest {
			if reached[n.ID] {
				continue
			}
			mark(n, reached)
			f.Roots = append(f.Roots, n)
			f.Detached = append(f.Detached, n.ID)
		}
	}
	sortIDs(f.Orphans)
	return f
}

func mark[T any](n *Node[T], seen map[uuid.UUID]bool) {
	if seen[n.ID] {
		return
	}
	seen[n.ID] = true
	for _, c := range n.Children {
		mark(c, seen)
	}
}

func sortNodes[T any](ns []*Node[T], less Less[T]) {
	sort.SliceStable(ns, func(i, j int) bool {
		a, b := ns[i], ns[j]
		// placeholders after real rows
		if a.Placeholder() != b.Placeholder() {
			return !a.Placeholder()
		}
		if less != nil && !a.Placeholder() {
			if less(a.Data, b.Data) {
				return true
			}
			if less(b.Data, a.Data) {
				return false
			}
		}
		return a.ID.String() < b.ID.String()
	})
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
