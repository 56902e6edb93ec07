package syntax

import "iter"

// Tree owns a finished syntax tree and the parent table used for upward
// walks. Nodes are numbered depth-first starting at 1.
type Tree struct {
	Root    Node
	nodes   []Node
	parents []NodeID
}

// NewTree numbers every node reachable from root and records its parent.
// Frontends call it once after building the tree; the tree is read-only
// afterwards. Node IDs live in the nodes themselves, so a node belongs to one
// tree at a time: building a second tree over it renumbers it, and the
// earlier tree stops containing it.
func NewTree(root Node) *Tree {
	t := &Tree{
		Root:    root,
		nodes:   []Node{nil},
		parents: []NodeID{0},
	}
	if root != nil {
		t.add(root, 0)
	}
	return t
}

func (t *Tree) add(n Node, parent NodeID) {
	id := NodeID(len(t.nodes))
	n.attach(id)
	t.nodes = append(t.nodes, n)
	t.parents = append(t.parents, parent)
	for _, c := range n.Children() {
		t.add(c, id)
	}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) Node {
	if id <= 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Contains reports whether n was numbered by this tree.
func (t *Tree) Contains(n Node) bool {
	if t == nil || n == nil {
		return false
	}
	return t.Node(n.ID()) == n
}

// Parent returns n's parent, or nil for the root and for foreign nodes.
func (t *Tree) Parent(n Node) Node {
	if !t.Contains(n) {
		return nil
	}
	return t.Node(t.parents[n.ID()])
}

// Ancestors yields n's parent, grandparent and so on up to the root.
func (t *Tree) Ancestors(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for p := t.Parent(n); p != nil; p = t.Parent(p) {
			if !yield(p) {
				return
			}
		}
	}
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}
