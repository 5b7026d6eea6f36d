package binding

import "github.com/gofdt/fdt/internal/treedata"

// Chosen is the typed view of the /chosen node (§4.10). Fields are left
// at their zero value when the corresponding property is absent or
// unparseable; callers that care should check the node's properties
// directly for anything more than this convenience view offers.
type Chosen struct {
	Bootargs    string
	HasBootargs bool

	StdoutPath    string
	HasStdoutPath bool

	InitrdStart    uint64
	InitrdEnd      uint64
	HasInitrdRange bool
}

// DecodeChosen decodes the /chosen node's well-known properties. It
// returns ok=false if root has no /chosen child.
func DecodeChosen(root *treedata.Node) (Chosen, bool) {
	node, ok := root.ChildByShortName("chosen")
	if !ok {
		return Chosen{}, false
	}

	var c Chosen
	if p, ok := node.FindProperty("bootargs"); ok {
		if s, err := p.AsString(); err == nil {
			c.Bootargs, c.HasBootargs = s, true
		}
	}
	if p, ok := node.FindProperty("stdout-path"); ok {
		if s, err := p.AsString(); err == nil {
			c.StdoutPath, c.HasStdoutPath = s, true
		}
	}

	// The Devicetree Specification (§4.10) names these initrd-start and
	// initrd-end; every producer actually in the wild (the Linux kernel's
	// own bootloader contract) emits the linux,-prefixed form instead, so
	// that is tried first and the literal spec name is the fallback.
	start, startOk := decodeIntegerCell(node, "linux,initrd-start")
	end, endOk := decodeIntegerCell(node, "linux,initrd-end")
	if !startOk || !endOk {
		start, startOk = decodeIntegerCell(node, "initrd-start")
		end, endOk = decodeIntegerCell(node, "initrd-end")
	}
	if startOk && endOk {
		c.InitrdStart, c.InitrdEnd, c.HasInitrdRange = start, end, true
	}

	return c, true
}

// decodeIntegerCell accepts either a 4-byte or 8-byte property, since
// initrd-start/end are specified as u32 or u64 depending on the
// producing bootloader (§4.10).
func decodeIntegerCell(n *treedata.Node, name string) (uint64, bool) {
	p, ok := n.FindProperty(name)
	if !ok {
		return 0, false
	}
	if v, err := p.AsU32(); err == nil {
		return uint64(v), true
	}
	if v, err := p.AsU64(); err == nil {
		return v, true
	}
	return 0, false
}

// Aliases decodes the /aliases node into an alias-name -> path map.
// Returns nil if root has no /aliases child.
func Aliases(root *treedata.Node) map[string]string {
	node, ok := root.ChildByShortName("aliases")
	if !ok {
		return nil
	}
	out := make(map[string]string, len(node.Properties))
	for _, p := range node.Properties {
		if s, err := p.AsString(); err == nil {
			out[p.Name] = s
		}
	}
	return out
}

// MemoryRegion is one decoded reg entry from a memory node (§4.10).
type MemoryRegion struct {
	Node    *treedata.Node
	Address uint64
	Size    uint64
}

// MemoryRegions walks every node in nodes and decodes the reg property
// of each one whose device_type is exactly "memory"; nodes failing that
// check are skipped rather than erroring (§4.10).
func MemoryRegions(nodes []*treedata.Node) ([]MemoryRegion, error) {
	var out []MemoryRegion
	for _, n := range nodes {
		p, ok := n.FindProperty("device_type")
		if !ok {
			continue
		}
		s, err := p.AsString()
		if err != nil || s != "memory" {
			continue
		}
		entries, err := DecodeReg(n)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			out = append(out, MemoryRegion{Node: n, Address: e.Address, Size: e.Size})
		}
	}
	return out, nil
}
