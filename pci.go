package fdt

import "github.com/gofdt/fdt/internal/binding"

// PCI address-space types, decoded from bits 24-25 of a PCI ranges
// entry's phys.hi cell (§4.8).
const (
	PciSpaceConfig   = binding.PciSpaceConfig
	PciSpaceIO       = binding.PciSpaceIO
	PciSpaceMemory32 = binding.PciSpaceMemory32
	PciSpaceMemory64 = binding.PciSpaceMemory64
)

// PciRange is one decoded entry of a PCI host's ranges property (§4.8).
type PciRange = binding.PciRange

// Pci interprets a node as a PCI host bridge: bus-range, PCI-form
// ranges, and interrupt-map/interrupt-map-mask routing (§4.8).
type Pci struct {
	node *Node
}

// IsHost reports whether the underlying node is recognized as a PCI
// host bridge.
func (p *Pci) IsHost() bool { return binding.IsPciHost(p.node.raw) }

// IsUnderHost reports whether the underlying node is itself a PCI host
// or a descendant of one.
func (p *Pci) IsUnderHost() bool { return binding.IsUnderPciHost(p.node.raw) }

// BusRange decodes the host's bus-range property as (first, last).
func (p *Pci) BusRange() (first, last uint32, err error) { return binding.BusRange(p.node.raw) }

// Ranges decodes the host's ranges property in PCI form (§4.8).
func (p *Pci) Ranges() ([]PciRange, error) { return binding.Ranges(p.node.raw) }

// InterruptMapMask decodes the host's interrupt-map-mask property: 3
// address-mask cells plus one pin mask cell.
func (p *Pci) InterruptMapMask() (addrMask [3]uint32, pinMask uint32, err error) {
	return binding.InterruptMapMask(p.node.raw)
}

// PciInterruptMapEntry is one record of a PCI host's interrupt-map
// property, with the parent controller resolved to a navigable Node.
type PciInterruptMapEntry struct {
	ChildAddress [3]uint32
	ChildPin     uint32
	Controller   *Node
	ParentSpec   []uint32
}

// InterruptMap decodes the host's interrupt-map property (§4.8).
func (p *Pci) InterruptMap() ([]PciInterruptMapEntry, error) {
	entries, err := binding.InterruptMap(p.node.raw, p.node.phandles)
	if err != nil {
		return nil, err
	}
	out := make([]PciInterruptMapEntry, len(entries))
	for i, e := range entries {
		out[i] = PciInterruptMapEntry{
			ChildAddress: e.ChildAddress,
			ChildPin:     e.ChildPin,
			Controller:   wrapNode(e.Controller, p.node.phandles),
			ParentSpec:   e.ParentSpec,
		}
	}
	return out, nil
}

// ChildInterrupts computes the PCI unit address for (bus, device,
// function), applies interrupt-map-mask, and returns the first matching
// interrupt-map record; it falls back to the host node's own interrupts
// property when no interrupt-map is present (§4.8).
func (p *Pci) ChildInterrupts(bus, device, function, pin uint32) (*Node, []uint32, error) {
	controller, spec, err := binding.ChildInterrupts(p.node.raw, p.node.phandles, bus, device, function, pin)
	if err != nil {
		return nil, nil, err
	}
	return wrapNode(controller, p.node.phandles), spec, nil
}
