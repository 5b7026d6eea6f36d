package fdt

import "github.com/gofdt/fdt/internal/editfdt"

// EditProperty is an owned (name, bytes) pair on the editable tree.
type EditProperty = editfdt.Property

// EditableTree is the mutable in-memory tree described in §4.11: every
// node, property and string is owned outright, unlike the borrowed
// decode-side Node. It supports add/remove/set/delete mutation and
// serializes back to DTB (Encode) or DTS text (WriteDTS).
type EditableTree struct {
	t *editfdt.Tree
}

// NewEditableTree creates an empty tree with an unnamed root node.
func NewEditableTree() *EditableTree { return &EditableTree{t: editfdt.NewTree()} }

// Root returns the tree's root node.
func (t *EditableTree) Root() *EditNode { return wrapEditNode(t.t.Root) }

// GetByPath resolves an absolute, '/'-separated path from the tree root.
func (t *EditableTree) GetByPath(path string) (*EditNode, bool) {
	n, ok := t.t.GetByPath(path)
	if !ok {
		return nil, false
	}
	return wrapEditNode(n), true
}

// RemoveByPath detaches the node at path from its parent. Removing the
// root is rejected.
func (t *EditableTree) RemoveByPath(path string) error { return t.t.RemoveByPath(path) }

// Reservations returns the tree's memory-reservation entries.
func (t *EditableTree) Reservations() []Reservation {
	return append([]Reservation(nil), t.t.Reservations...)
}

// SetReservations replaces the tree's memory-reservation entries.
func (t *EditableTree) SetReservations(rs []Reservation) {
	t.t.Reservations = append([]Reservation(nil), rs...)
}

// Encode serializes the tree to a DTB blob (§4.11, §6): version 17,
// last-compatible version 16, no NOP tokens, properties in insertion
// order.
func (t *EditableTree) Encode() ([]byte, error) { return t.t.Encode() }

// WriteDTS renders the tree as canonical devicetree source text (§4.12).
func (t *EditableTree) WriteDTS() string { return t.t.WriteDTS() }

// EditNode is one node of the editable tree, in insertion order for
// both its properties and its children.
type EditNode struct {
	n *editfdt.Node
}

func wrapEditNode(n *editfdt.Node) *EditNode {
	if n == nil {
		return nil
	}
	return &EditNode{n: n}
}

func wrapEditNodes(nodes []*editfdt.Node) []*EditNode {
	out := make([]*EditNode, len(nodes))
	for i, n := range nodes {
		out[i] = wrapEditNode(n)
	}
	return out
}

// Name returns the node's short name.
func (n *EditNode) Name() string { return n.n.Name }

// FullPath reconstructs this node's absolute path by walking parent
// links.
func (n *EditNode) FullPath() string { return n.n.FullPath() }

// Parent returns the node's parent, or nil for the root.
func (n *EditNode) Parent() *EditNode { return wrapEditNode(n.n.Parent) }

// Children returns the node's children in insertion order.
func (n *EditNode) Children() []*EditNode { return wrapEditNodes(n.n.Children) }

// Properties returns the node's properties in insertion order.
func (n *EditNode) Properties() []EditProperty {
	return append([]EditProperty(nil), n.n.Properties...)
}

// FindProperty returns the named property, if present.
func (n *EditNode) FindProperty(name string) (EditProperty, bool) { return n.n.FindProperty(name) }

// AddChild creates and appends a new child named name (§4.11). It fails
// with KindDuplicateChildName if a child with that name already exists.
func (n *EditNode) AddChild(name string) (*EditNode, error) {
	c, err := n.n.AddChild(name)
	if err != nil {
		return nil, err
	}
	return wrapEditNode(c), nil
}

// SetProperty sets (creating or overwriting) a property's raw bytes,
// preserving insertion order on first creation.
func (n *EditNode) SetProperty(name string, value []byte) { n.n.SetProperty(name, value) }

// DeleteProperty removes a property by name, if present.
func (n *EditNode) DeleteProperty(name string) { n.n.DeleteProperty(name) }
