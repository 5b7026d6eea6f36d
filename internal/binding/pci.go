package binding

import (
	"github.com/gofdt/fdt/internal/treedata"
	"github.com/gofdt/fdt/internal/utils"
)

// PCI address-space types, decoded from bits 24-25 of a PCI ranges
// entry's phys.hi cell (§4.8).
const (
	PciSpaceConfig   uint8 = 0
	PciSpaceIO       uint8 = 1
	PciSpaceMemory32 uint8 = 2
	PciSpaceMemory64 uint8 = 3
)

var pciHostCompatibles = []string{
	"pci-host-ecam-generic",
	"pci-host-cam-generic",
	"pciex",
}

// IsPciHost reports whether n is recognized as a PCI host bridge: either
// its compatible list names a known generic host controller, or its
// device_type is "pci"/"pciex" (§4.8).
func IsPciHost(n *treedata.Node) bool {
	if n.HasCompatible(pciHostCompatibles...) {
		return true
	}
	if p, ok := n.FindProperty("device_type"); ok {
		if s, err := p.AsString(); err == nil && (s == "pci" || s == "pciex") {
			return true
		}
	}
	return false
}

// IsUnderPciHost reports whether n is itself a PCI host or a descendant
// of one, the dispatch test named by §9 Open Questions for choosing PCI
// address translation over the generic ranges form.
func IsUnderPciHost(n *treedata.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if IsPciHost(cur) {
			return true
		}
	}
	return false
}

// BusRange decodes a PCI host's bus-range property as (first, last).
func BusRange(n *treedata.Node) (first, last uint32, err error) {
	prop, ok := n.FindProperty("bus-range")
	if !ok {
		return 0, 0, utils.AtPath(utils.KindMissingCellsProperty, "bus-range property missing", n.FullPath)
	}
	cells, err := prop.AsCells()
	if err != nil {
		return 0, 0, err
	}
	if len(cells) != 2 {
		return 0, 0, utils.AtPath(utils.KindBadPropertyLength, "bus-range must be exactly 2 cells", n.FullPath)
	}
	return cells[0], cells[1], nil
}

// PciRange is one decoded entry of a PCI host's ranges property (§4.8).
type PciRange struct {
	SpaceType     uint8
	Prefetchable  bool
	ChildAddress  uint64
	ParentAddress uint64
	Size          uint64
}

// Ranges decodes a PCI host's ranges property: 7 cells per entry (3
// child phys.hi/mid/lo, 2 parent CPU address, 2 size), per §4.8.
func Ranges(n *treedata.Node) ([]PciRange, error) {
	prop, ok := n.FindProperty("ranges")
	if !ok {
		return nil, nil
	}
	cells, err := prop.AsCells()
	if err != nil {
		return nil, err
	}
	const stride = 7
	if len(cells)%stride != 0 {
		return nil, utils.AtPath(utils.KindBadPropertyLength, "PCI ranges length is not a multiple of 7 cells", n.FullPath)
	}

	out := make([]PciRange, 0, len(cells)/stride)
	for i := 0; i < len(cells); i += stride {
		physHi := cells[i]
		childAddr, err := combineCells(cells[i+1:i+3], n.FullPath)
		if err != nil {
			return nil, err
		}
		parentAddr, err := combineCells(cells[i+3:i+5], n.FullPath)
		if err != nil {
			return nil, err
		}
		size, err := combineCells(cells[i+5:i+7], n.FullPath)
		if err != nil {
			return nil, err
		}

		out = append(out, PciRange{
			SpaceType:     uint8((physHi >> 24) & 0x3),
			Prefetchable:  (physHi>>30)&0x1 != 0,
			ChildAddress:  childAddr,
			ParentAddress: parentAddr,
			Size:          size,
		})
	}
	return out, nil
}

// InterruptMapMask decodes a PCI host's interrupt-map-mask property: 3
// address-mask cells plus one pin mask cell.
func InterruptMapMask(n *treedata.Node) (addrMask [3]uint32, pinMask uint32, err error) {
	prop, ok := n.FindProperty("interrupt-map-mask")
	if !ok {
		return [3]uint32{0xffffffff, 0xffffffff, 0xffffffff}, 0xffffffff, nil
	}
	cells, err := prop.AsCells()
	if err != nil {
		return addrMask, 0, err
	}
	if len(cells) != 4 {
		return addrMask, 0, utils.AtPath(utils.KindBadPropertyLength, "interrupt-map-mask must be exactly 4 cells", n.FullPath)
	}
	return [3]uint32{cells[0], cells[1], cells[2]}, cells[3], nil
}

// PciInterruptMapEntry is one record of a PCI host's interrupt-map
// property. The parent specifier's length depends on the target
// controller's #interrupt-cells, so records are not fixed-size (§4.8).
type PciInterruptMapEntry struct {
	ChildAddress [3]uint32
	ChildPin     uint32
	Controller   *treedata.Node
	ParentSpec   []uint32
}

// InterruptMap decodes a PCI host's interrupt-map property.
func InterruptMap(n *treedata.Node, phandles map[uint32]*treedata.Node) ([]PciInterruptMapEntry, error) {
	prop, ok := n.FindProperty("interrupt-map")
	if !ok {
		return nil, nil
	}
	cells, err := prop.AsCells()
	if err != nil {
		return nil, err
	}

	var out []PciInterruptMapEntry
	for i := 0; i < len(cells); {
		if i+5 > len(cells) {
			return nil, utils.AtPath(utils.KindBadPropertyLength, "interrupt-map truncated before parent phandle", n.FullPath)
		}
		childAddr := [3]uint32{cells[i], cells[i+1], cells[i+2]}
		childPin := cells[i+3]
		ph := cells[i+4]
		i += 5

		controller, ok := phandles[ph]
		if !ok {
			return nil, utils.AtPath(utils.KindPhandleNotFound, "interrupt-map parent phandle not found", n.FullPath)
		}
		icells := int(declaredCells(controller, "#interrupt-cells", 0))
		if icells == 0 || i+icells > len(cells) {
			return nil, utils.AtPath(utils.KindBadPropertyLength, "interrupt-map entry shorter than #interrupt-cells", n.FullPath)
		}

		out = append(out, PciInterruptMapEntry{
			ChildAddress: childAddr,
			ChildPin:     childPin,
			Controller:   controller,
			ParentSpec:   append([]uint32(nil), cells[i:i+icells]...),
		})
		i += icells
	}
	return out, nil
}

// ChildInterrupts computes the PCI unit address for (bus, device,
// function), applies interrupt-map-mask, and returns the first matching
// interrupt-map record. If the host has no interrupt-map, it falls back
// to the host node's own interrupts property (§4.8).
func ChildInterrupts(n *treedata.Node, phandles map[uint32]*treedata.Node, bus, device, function, pin uint32) (*treedata.Node, []uint32, error) {
	entries, err := InterruptMap(n, phandles)
	if err != nil {
		return nil, nil, err
	}
	if entries == nil {
		interrupts, ierr := DecodeInterrupts(n, phandles)
		if ierr != nil {
			return nil, nil, ierr
		}
		if len(interrupts) == 0 {
			return nil, nil, utils.AtPath(utils.KindNoInterruptParent, "no interrupt-map and no fallback interrupts property", n.FullPath)
		}
		return interrupts[0].Controller, interrupts[0].Cells, nil
	}

	addrMask, pinMask, err := InterruptMapMask(n)
	if err != nil {
		return nil, nil, err
	}

	physHi := (bus << 16) | (device << 11) | (function << 8)
	wantAddr := [3]uint32{physHi & addrMask[0], 0 & addrMask[1], 0 & addrMask[2]}
	wantPin := pin & pinMask

	for _, e := range entries {
		if e.ChildAddress[0]&addrMask[0] == wantAddr[0] &&
			e.ChildAddress[1]&addrMask[1] == wantAddr[1] &&
			e.ChildAddress[2]&addrMask[2] == wantAddr[2] &&
			e.ChildPin&pinMask == wantPin {
			return e.Controller, e.ParentSpec, nil
		}
	}
	return nil, nil, utils.AtPath(utils.KindNoInterruptParent, "no interrupt-map record matches the requested PCI unit address", n.FullPath)
}
