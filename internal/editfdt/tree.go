// Package editfdt implements the mutable in-memory tree described in
// §4.11 and the DTB/DTS serializers built on top of it. Unlike the
// decode-side treedata.Node, every Node here owns its name, its
// properties and its children outright.
package editfdt

import (
	"github.com/gofdt/fdt/internal/rawfdt"
	"github.com/gofdt/fdt/internal/treedata"
	"github.com/gofdt/fdt/internal/utils"
)

// Property is an owned (name, bytes) pair.
type Property struct {
	Name  string
	Value []byte
}

// Node is one node of the editable tree, in insertion order for both
// Properties and Children.
type Node struct {
	Name       string
	Properties []Property
	Children   []*Node
	Parent     *Node
}

// Tree is the editable tree root plus the header-level state the
// encoder needs to reproduce (memory reservations, boot CPU id).
type Tree struct {
	Root          *Node
	Reservations  []rawfdt.Reservation
	BootCPUIDPhys uint32
}

// NewTree creates an empty tree with an unnamed root node.
func NewTree() *Tree {
	return &Tree{Root: &Node{Name: ""}}
}

// ImportTree deep-copies a decoded treedata.Node tree (and its memory
// reservations) into a fresh, independently-owned editable Tree — the
// starting point of a decode -> edit -> encode round trip (§4.11 step 5).
func ImportTree(root *treedata.Node, reservations []rawfdt.Reservation, bootCPUIDPhys uint32) *Tree {
	return &Tree{
		Root:          importNode(root, nil),
		Reservations:  append([]rawfdt.Reservation(nil), reservations...),
		BootCPUIDPhys: bootCPUIDPhys,
	}
}

func importNode(n *treedata.Node, parent *Node) *Node {
	out := &Node{Name: n.Name, Parent: parent}
	for _, p := range n.Properties {
		out.Properties = append(out.Properties, Property{Name: p.Name, Value: append([]byte(nil), p.Value...)})
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, importNode(c, out))
	}
	return out
}

// FullPath reconstructs this node's absolute path by walking Parent
// links, mirroring treedata.Node.FullPath.
func (n *Node) FullPath() string {
	if n.Parent == nil {
		return "/"
	}
	if n.Parent.Parent == nil {
		return "/" + n.Name
	}
	return n.Parent.FullPath() + "/" + n.Name
}

// AddChild creates and appends a new child named name. It fails with
// DuplicateChildName if a child with that name already exists (§4.11).
func (n *Node) AddChild(name string) (*Node, error) {
	for _, c := range n.Children {
		if c.Name == name {
			return nil, utils.AtPath(utils.KindDuplicateChildName, "child already exists", name)
		}
	}
	child := &Node{Name: name, Parent: n}
	n.Children = append(n.Children, child)
	return child, nil
}

// SetProperty sets (creating or overwriting) a property's raw bytes,
// preserving insertion order on first creation.
func (n *Node) SetProperty(name string, value []byte) {
	owned := append([]byte(nil), value...)
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties[i].Value = owned
			return
		}
	}
	n.Properties = append(n.Properties, Property{Name: name, Value: owned})
}

// DeleteProperty removes a property by name, if present.
func (n *Node) DeleteProperty(name string) {
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
			return
		}
	}
}

// FindProperty returns the named property, if present.
func (n *Node) FindProperty(name string) (Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// GetByPath resolves an absolute, '/'-separated path from the tree root.
func (t *Tree) GetByPath(path string) (*Node, bool) {
	if path == "/" || path == "" {
		return t.Root, true
	}
	segs := splitPath(path)
	cur := t.Root
	for _, seg := range segs {
		next, ok := cur.childByName(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// RemoveByPath detaches the node at path from its parent. Removing the
// root is rejected.
func (t *Tree) RemoveByPath(path string) error {
	n, ok := t.GetByPath(path)
	if !ok {
		return utils.AtPath(utils.KindPathNotFound, "remove target not found", path)
	}
	if n.Parent == nil {
		return utils.AtPath(utils.KindPathNotFound, "cannot remove root", path)
	}
	siblings := n.Parent.Children
	for i, c := range siblings {
		if c == n {
			n.Parent.Children = append(siblings[:i], siblings[i+1:]...)
			return nil
		}
	}
	return utils.AtPath(utils.KindPathNotFound, "remove target not found among parent's children", path)
}

func (n *Node) childByName(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func splitPath(path string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				out = append(out, path[start:i])
			}
			start = i + 1
		}
	}
	return out
}
