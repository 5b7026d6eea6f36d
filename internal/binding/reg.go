// Package binding interprets the structural tree produced by the query
// layer according to the device-tree bindings named in the design:
// reg/ranges address translation, interrupt routing, PCI host-bridge
// decoding, clock references, and the chosen/aliases/memory/cpus/symbols
// conveniences. Every lookup here is local: a failure on one node never
// invalidates the rest of the tree (§7 propagation policy).
package binding

import (
	"github.com/gofdt/fdt/internal/treedata"
	"github.com/gofdt/fdt/internal/utils"
)

// RegEntry is one decoded (address, size) pair from a node's reg
// property, with Address already translated up through ancestor ranges.
type RegEntry struct {
	Address uint64
	Size    uint64
}

// DecodeReg decodes n's raw reg property using the cell widths n
// inherited from its parent (§4.6, §9 "Inherited cell widths"): n.reg is
// parsed with n.AddressCells/n.SizeCells, never n's own declared
// #address-cells/#size-cells, which describe n's children instead.
func DecodeReg(n *treedata.Node) ([]RegEntry, error) {
	prop, ok := n.FindProperty("reg")
	if !ok {
		return nil, nil
	}
	cells, err := prop.AsCells()
	if err != nil {
		return nil, err
	}

	stride := int(n.AddressCells + n.SizeCells)
	if stride == 0 || len(cells)%stride != 0 {
		return nil, utils.AtPath(utils.KindBadPropertyLength, "reg length is not a multiple of address+size cells", n.FullPath)
	}

	out := make([]RegEntry, 0, len(cells)/stride)
	for i := 0; i < len(cells); i += stride {
		addr, err := combineCells(cells[i:i+int(n.AddressCells)], n.FullPath)
		if err != nil {
			return nil, err
		}
		size, err := combineCells(cells[i+int(n.AddressCells):i+stride], n.FullPath)
		if err != nil {
			return nil, err
		}
		out = append(out, RegEntry{Address: addr, Size: size})
	}
	return out, nil
}

// Reg decodes n's reg property and translates every address up through
// ancestor ranges (§4.6). The size component is never translated.
func Reg(n *treedata.Node) ([]RegEntry, error) {
	entries, err := DecodeReg(n)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		translated, terr := TranslateAddress(n, e.Address)
		if terr != nil {
			return nil, terr
		}
		entries[i].Address = translated
	}
	return entries, nil
}

// TranslateAddress walks n's ancestor chain applying each bus's ranges
// property, per §4.6: an empty ranges means identity translation at that
// level; an absent ranges means translation stops there; an address with
// no matching ranges entry passes through untranslated. Translation
// always stops at the root, and does not cross into a PCI host ancestor
// (§9 Open Questions — PCI uses its own address form, decoded by Ranges
// in pci.go instead).
func TranslateAddress(n *treedata.Node, addr uint64) (uint64, error) {
	cur := n.Parent
	for cur != nil {
		if IsPciHost(cur) {
			return addr, nil
		}

		rangesProp, ok := cur.FindProperty("ranges")
		if !ok {
			return addr, nil
		}
		if rangesProp.IsEmpty() {
			cur = cur.Parent
			continue
		}

		cells, err := rangesProp.AsCells()
		if err != nil {
			return 0, err
		}

		childAddrCells := declaredCells(cur, "#address-cells", 2)
		childSizeCells := declaredCells(cur, "#size-cells", 1)
		parentAddrCells := cur.AddressCells

		stride := int(childAddrCells + parentAddrCells + childSizeCells)
		if stride == 0 || len(cells)%stride != 0 {
			return 0, utils.AtPath(utils.KindBadPropertyLength, "ranges length is not a multiple of its cell stride", cur.FullPath)
		}

		matched := false
		for i := 0; i < len(cells); i += stride {
			childBase, err := combineCells(cells[i:i+int(childAddrCells)], cur.FullPath)
			if err != nil {
				return 0, err
			}
			parentBase, err := combineCells(cells[i+int(childAddrCells):i+int(childAddrCells)+int(parentAddrCells)], cur.FullPath)
			if err != nil {
				return 0, err
			}
			size, err := combineCells(cells[i+int(childAddrCells)+int(parentAddrCells):i+stride], cur.FullPath)
			if err != nil {
				return 0, err
			}

			if addr >= childBase && addr < childBase+size {
				addr = parentBase + (addr - childBase)
				matched = true
				break
			}
		}
		if !matched {
			return addr, nil
		}
		cur = cur.Parent
	}
	return addr, nil
}

// declaredCells reads name off n itself (not inherited), defaulting when
// absent, as the Devicetree Specification requires for #address-cells
// and #size-cells.
func declaredCells(n *treedata.Node, name string, def uint32) uint32 {
	p, ok := n.FindProperty(name)
	if !ok {
		return def
	}
	v, err := p.AsU32()
	if err != nil {
		return def
	}
	return v
}

// combineCells folds a big-endian cell sequence into a single uint64,
// most-significant cell first. Device-tree address/size cell counts are
// 1 or 2 in every binding this library decodes; a longer sequence
// describes a value wider than 64 bits, which this library cannot
// represent, so it is surfaced as KindOversizedCell (§3, §7) rather than
// silently truncated.
func combineCells(cells []uint32, path string) (uint64, error) {
	if len(cells) > 2 {
		return 0, utils.AtPath(utils.KindOversizedCell, "cell sequence is wider than 64 bits", path)
	}
	var v uint64
	for _, c := range cells {
		v = v<<32 | uint64(c)
	}
	return v, nil
}
