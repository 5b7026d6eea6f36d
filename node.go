package fdt

import (
	"github.com/gofdt/fdt/internal/binding"
	"github.com/gofdt/fdt/internal/treedata"
)

// Property is a (name, raw bytes) pair with on-demand typed views
// (§4.5): AsU32, AsU64, AsString, AsStringList, AsCells, AsPhandle.
type Property = treedata.Property

// RegEntry is one decoded (address, size) pair from a node's reg
// property, with Address already translated up through ancestor ranges
// (§4.6).
type RegEntry = binding.RegEntry

// Node is a read-only view over one node of a decoded device tree
// (§3). It is produced by Fdt/StreamingFdt and is safe to share
// read-only; it never mutates the tree it was resolved from.
type Node struct {
	raw      *treedata.Node
	phandles map[uint32]*treedata.Node
}

func wrapNode(n *treedata.Node, phandles map[uint32]*treedata.Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{raw: n, phandles: phandles}
}

func wrapNodes(nodes []*treedata.Node, phandles map[uint32]*treedata.Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = wrapNode(n, phandles)
	}
	return out
}

// Name returns the node's short name, including any unit-address suffix.
func (n *Node) Name() string { return n.raw.Name }

// FullPath returns the node's absolute, '/'-separated path from root.
func (n *Node) FullPath() string { return n.raw.FullPath }

// Level returns the node's depth; the root is level 0.
func (n *Node) Level() int { return n.raw.Level }

// AddressCells returns the #address-cells this node's own reg/ranges
// properties (not its children's) are decoded with — the value
// inherited from the nearest ancestor that declares it (§3, §9).
func (n *Node) AddressCells() uint32 { return n.raw.AddressCells }

// SizeCells is the #size-cells counterpart to AddressCells.
func (n *Node) SizeCells() uint32 { return n.raw.SizeCells }

// Phandle returns the node's phandle value, if it declares one.
func (n *Node) Phandle() (uint32, bool) {
	if n.raw.Phandle == nil {
		return 0, false
	}
	return *n.raw.Phandle, true
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return wrapNode(n.raw.Parent, n.phandles) }

// Children returns the node's direct children in document order.
func (n *Node) Children() []*Node { return wrapNodes(n.raw.Children, n.phandles) }

// Properties returns the node's properties in document order.
func (n *Node) Properties() []Property {
	return append([]Property(nil), n.raw.Properties...)
}

// FindProperty returns the named property, if present.
func (n *Node) FindProperty(name string) (Property, bool) { return n.raw.FindProperty(name) }

// Compatibles returns the node's "compatible" string list, or nil if
// absent or unparseable.
func (n *Node) Compatibles() []string { return n.raw.Compatibles() }

// HasCompatible reports whether any of the node's compatible strings
// matches one of want.
func (n *Node) HasCompatible(want ...string) bool { return n.raw.HasCompatible(want...) }

// IsEnabled reports the node's status binding: false only for
// status = "disabled" (Devicetree Spec v0.4 §2.3.4).
func (n *Node) IsEnabled() bool { return n.raw.IsEnabled() }

// ChildByShortName finds a direct child by its short name.
func (n *Node) ChildByShortName(name string) (*Node, bool) {
	c, ok := n.raw.ChildByShortName(name)
	if !ok {
		return nil, false
	}
	return wrapNode(c, n.phandles), true
}

// Reg decodes the node's reg property, translating every address up
// through ancestor ranges (§4.6).
func (n *Node) Reg() ([]RegEntry, error) { return binding.Reg(n.raw) }

// DecodeReg decodes the node's reg property without ranges translation,
// i.e. in the cell space declared by the node's parent directly (§4.6).
func (n *Node) DecodeReg() ([]RegEntry, error) { return binding.DecodeReg(n.raw) }

// InterruptEntry is one resolved interrupt: the controller node it
// targets, and the specifier cells interpreted against that
// controller's #interrupt-cells (§4.7).
type InterruptEntry struct {
	Controller *Node
	Cells      []uint32
}

// InterruptParent resolves the node's interrupt parent: the nearest
// ancestor (including the node itself) whose interrupt-parent phandle
// resolves to a node exposing #interrupt-cells (§4.7).
func (n *Node) InterruptParent() (*Node, error) {
	c, err := binding.ResolveInterruptParent(n.raw, n.phandles)
	if err != nil {
		return nil, err
	}
	return wrapNode(c, n.phandles), nil
}

// IsInterruptController reports whether the node exposes #interrupt-cells.
func (n *Node) IsInterruptController() bool { return binding.IsInterruptController(n.raw) }

// Interrupts decodes the node's interrupts-extended property if present,
// otherwise its interrupts property resolved against its interrupt
// parent (§4.7).
func (n *Node) Interrupts() ([]InterruptEntry, error) {
	entries, err := binding.DecodeInterrupts(n.raw, n.phandles)
	if err != nil {
		return nil, err
	}
	out := make([]InterruptEntry, len(entries))
	for i, e := range entries {
		out[i] = InterruptEntry{Controller: wrapNode(e.Controller, n.phandles), Cells: e.Cells}
	}
	return out, nil
}

// ClockRef is one decoded entry of a consumer's clocks property: the
// provider node, its specifier cells sized by the provider's
// #clock-cells, and an optional name zipped in from clock-names (§4.9).
type ClockRef struct {
	Provider  *Node
	Specifier []uint32
	Name      string
}

// IsClockProvider reports whether the node exposes #clock-cells.
func (n *Node) IsClockProvider() bool { return binding.IsClockProvider(n.raw) }

// Clocks decodes the node's clocks property (§4.9).
func (n *Node) Clocks() ([]ClockRef, error) {
	refs, err := binding.DecodeClocks(n.raw, n.phandles)
	if err != nil {
		return nil, err
	}
	out := make([]ClockRef, len(refs))
	for i, r := range refs {
		out[i] = ClockRef{Provider: wrapNode(r.Provider, n.phandles), Specifier: r.Specifier, Name: r.Name}
	}
	return out, nil
}

// Pci returns a Pci view over this node, interpreting it as a PCI host
// bridge (§4.8). Callers should check Pci.IsHost before relying on any
// of its other accessors.
func (n *Node) Pci() *Pci { return &Pci{node: n} }
