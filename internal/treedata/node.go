package treedata

import "strings"

// Node is one node in the decoded device tree. Fields are populated by
// the query layer (indexed or streaming) and never mutated afterwards —
// the decode-side representation is immutable; the edit/encode layer
// uses a distinct mutable type.
type Node struct {
	Name         string // short name, including unit-address suffix if any
	FullPath     string // from root, '/'-separated; root is "/"
	Level        int    // root = 0
	AddressCells uint32
	SizeCells    uint32
	Phandle      *uint32 // nil if the node has no phandle property

	Properties []Property
	Parent     *Node
	Children   []*Node
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

// Compatibles returns the node's "compatible" string list, or nil if
// absent or unparseable.
func (n *Node) Compatibles() []string {
	p, ok := n.FindProperty("compatible")
	if !ok {
		return nil
	}
	list, err := p.AsStringList()
	if err != nil {
		return nil
	}
	return list
}

// HasCompatible reports whether any of the node's compatible strings
// matches one of want.
func (n *Node) HasCompatible(want ...string) bool {
	have := n.Compatibles()
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

// IsEnabled reports the node's `status` binding (Devicetree Spec v0.4
// §2.3.4): false only for status = "disabled"; true for absence or any
// other value.
func (n *Node) IsEnabled() bool {
	p, ok := n.FindProperty("status")
	if !ok {
		return true
	}
	s, err := p.AsString()
	if err != nil {
		return true
	}
	return s != "disabled"
}

// ChildByShortName finds a direct child by its short name (including any
// unit-address suffix).
func (n *Node) ChildByShortName(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// PathComponentCount returns the number of non-empty path components in
// a '/'-separated absolute path; the root ("/") has zero.
func PathComponentCount(path string) int {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}
