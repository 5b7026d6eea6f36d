// Package fdt decodes, queries and edits Flattened Device Tree (DTB)
// blobs conforming to the Devicetree Specification v0.4. It is a thin
// public surface over internal/rawfdt (header/token decoding),
// internal/query (streaming and indexed node views), internal/binding
// (reg/ranges, interrupts, PCI, clocks, chosen/aliases/memory/cpus) and
// internal/editfdt (the mutable tree, DTB encoder and DTS emitter).
package fdt

import (
	"github.com/gofdt/fdt/internal/binding"
	"github.com/gofdt/fdt/internal/editfdt"
	"github.com/gofdt/fdt/internal/query"
	"github.com/gofdt/fdt/internal/rawfdt"
	"github.com/gofdt/fdt/internal/utils"
)

// Header is the decoded 40-byte FDT header (§6).
type Header = rawfdt.Header

// Reservation is a single memory-reservation entry (address, size, §3).
type Reservation = rawfdt.Reservation

// Fdt is an indexed, read-only view over a decoded device tree blob
// (§4.4): one depth-first pass builds a flat node array plus phandle,
// alias, compatible-string and path indices, giving O(1)/O(log N)
// lookups at the cost of the up-front build.
type Fdt struct {
	raw          []byte
	header       *Header
	idx          *query.Index
	reservations []Reservation
}

// Decode parses raw as an FDT blob and builds the indexed view (§4.4).
// It validates the header (§4.1) before doing anything else, so a
// corrupt blob fails fast with a structural error.
func Decode(raw []byte, opts ...Option) (*Fdt, error) {
	cfg := newDecodeConfig()
	for _, o := range opts {
		o(cfg)
	}

	header, err := rawfdt.DecodeHeader(raw)
	if err != nil {
		return nil, err
	}
	if header.Version < cfg.minVersion {
		return nil, utils.AtOffset(utils.KindUnsupportedVersion, "header version below configured minimum", 20)
	}

	idx, err := query.BuildIndex(header.StructBlock(raw), header.StringsBlock(raw), cfg.dupHandler)
	if err != nil {
		return nil, err
	}
	reservations, err := header.Reservations(raw)
	if err != nil {
		return nil, err
	}

	return &Fdt{raw: raw, header: header, idx: idx, reservations: reservations}, nil
}

// Version returns the header's format version.
func (f *Fdt) Version() uint32 { return f.header.Version }

// Header returns the decoded FDT header.
func (f *Fdt) Header() Header { return *f.header }

// RawBytes returns the original input slice this Fdt was decoded from.
// The returned slice must not be mutated; the raw layer borrows from it
// for the Fdt's entire lifetime (§3 Ownership).
func (f *Fdt) RawBytes() []byte { return f.raw }

// MemoryReservations returns the header-level memory-reservation block
// in order (§3, §4.1). It never inspects /reserved-memory, which is a
// normal node subtree reached via GetByPath (§9 Open Questions).
func (f *Fdt) MemoryReservations() []Reservation {
	return append([]Reservation(nil), f.reservations...)
}

// Root returns the tree's root node.
func (f *Fdt) Root() *Node { return wrapNode(f.idx.Root, f.idx.Phandles) }

// AllNodes returns every node in the tree, pre-order.
func (f *Fdt) AllNodes() []*Node { return wrapNodes(f.idx.All, f.idx.Phandles) }

// GetByPath resolves an absolute path or an alias-form path (§4.4,
// §4.10).
func (f *Fdt) GetByPath(path string) (*Node, bool) {
	n, ok := f.idx.GetByPath(path)
	if !ok {
		return nil, false
	}
	return wrapNode(n, f.idx.Phandles), true
}

// FindCompatible returns every node whose compatible list intersects
// list, in document order (§4.4).
func (f *Fdt) FindCompatible(list ...string) []*Node {
	return wrapNodes(f.idx.FindCompatible(list), f.idx.Phandles)
}

// ByPhandle resolves a phandle to its defining node (§3).
func (f *Fdt) ByPhandle(p uint32) (*Node, bool) {
	n, ok := f.idx.ByPhandle(p)
	if !ok {
		return nil, false
	}
	return wrapNode(n, f.idx.Phandles), true
}

// Aliases returns the /aliases node decoded into an alias-name -> path
// map, or nil if root has no /aliases child (§4.10).
func (f *Fdt) Aliases() map[string]string { return binding.Aliases(f.idx.Root) }

// Symbol resolves a /__symbols__ entry by name, the same
// textual-substitution mechanism as alias resolution (§4 Supplemented
// Features).
func (f *Fdt) Symbol(name string) (string, bool) {
	symbols := binding.Symbols(f.idx.Root)
	path, ok := symbols[name]
	return path, ok
}

// Chosen decodes the /chosen node's well-known properties (§4.10).
func (f *Fdt) Chosen() (Chosen, bool) { return binding.DecodeChosen(f.idx.Root) }

// Chosen is the typed view of the /chosen node (§4.10).
type Chosen = binding.Chosen

// CpuInfo is one decoded /cpus/cpu@N child (§4 Supplemented Features).
type CpuInfo struct {
	Node              *Node
	ID                uint64
	ClockFrequency    uint64
	HasClockFrequency bool
}

// Cpus decodes every direct child of /cpus, or nil if root has no /cpus
// child.
func (f *Fdt) Cpus() ([]CpuInfo, error) {
	cpus, err := binding.Cpus(f.idx.Root)
	if err != nil {
		return nil, err
	}
	out := make([]CpuInfo, len(cpus))
	for i, c := range cpus {
		out[i] = CpuInfo{
			Node:              wrapNode(c.Node, f.idx.Phandles),
			ID:                c.ID,
			ClockFrequency:    c.ClockFrequency,
			HasClockFrequency: c.HasClockFrequency,
		}
	}
	return out, nil
}

// MemoryRegion is one decoded reg entry from a memory node (§4.10).
type MemoryRegion struct {
	Node    *Node
	Address uint64
	Size    uint64
}

// MemoryRegions decodes the reg property of every node whose
// device_type is exactly "memory" (§4.10).
func (f *Fdt) MemoryRegions() ([]MemoryRegion, error) {
	regions, err := binding.MemoryRegions(f.idx.All)
	if err != nil {
		return nil, err
	}
	out := make([]MemoryRegion, len(regions))
	for i, r := range regions {
		out[i] = MemoryRegion{Node: wrapNode(r.Node, f.idx.Phandles), Address: r.Address, Size: r.Size}
	}
	return out, nil
}

// ToEditable deep-copies this tree into a fresh, independently-owned
// EditableTree (§4.11), the starting point of a decode -> edit -> encode
// round trip.
func (f *Fdt) ToEditable() *EditableTree {
	return &EditableTree{t: editfdt.ImportTree(f.idx.Root, rawReservations(f.reservations), f.header.BootCPUIDPhys)}
}

func rawReservations(rs []Reservation) []rawfdt.Reservation {
	return append([]rawfdt.Reservation(nil), rs...)
}

// StreamingFdt is the streaming view described in §4.3/§9: every lookup
// re-walks the token scanner from scratch rather than consulting a
// persistent cache, trading O(N) per lookup for zero standing
// allocation beyond the result it returns. It must return values
// bit-identical to Fdt for the same input.
type StreamingFdt struct {
	raw          []byte
	header       *Header
	view         *query.StreamView
	reservations []Reservation
}

// DecodeStreaming parses raw as an FDT blob and builds a StreamingFdt
// that re-walks the structure block on every lookup (§4.3).
func DecodeStreaming(raw []byte, opts ...Option) (*StreamingFdt, error) {
	cfg := newDecodeConfig()
	for _, o := range opts {
		o(cfg)
	}

	header, err := rawfdt.DecodeHeader(raw)
	if err != nil {
		return nil, err
	}
	if header.Version < cfg.minVersion {
		return nil, utils.AtOffset(utils.KindUnsupportedVersion, "header version below configured minimum", 20)
	}

	view := query.NewStreamView(header.StructBlock(raw), header.StringsBlock(raw), cfg.dupHandler)
	reservations, err := header.Reservations(raw)
	if err != nil {
		return nil, err
	}

	return &StreamingFdt{raw: raw, header: header, view: view, reservations: reservations}, nil
}

// Version returns the header's format version.
func (f *StreamingFdt) Version() uint32 { return f.header.Version }

// Header returns the decoded FDT header.
func (f *StreamingFdt) Header() Header { return *f.header }

// RawBytes returns the original input slice.
func (f *StreamingFdt) RawBytes() []byte { return f.raw }

// MemoryReservations returns the header-level memory-reservation block.
func (f *StreamingFdt) MemoryReservations() []Reservation {
	return append([]Reservation(nil), f.reservations...)
}

// Root re-walks the tree and returns the root node.
func (f *StreamingFdt) Root() (*Node, error) {
	root, phandles, err := f.view.Root()
	if err != nil {
		return nil, err
	}
	return wrapNode(root, phandles), nil
}

// AllNodes re-walks the tree and returns every node in pre-order.
func (f *StreamingFdt) AllNodes() ([]*Node, error) {
	all, phandles, err := f.view.AllNodes()
	if err != nil {
		return nil, err
	}
	return wrapNodes(all, phandles), nil
}

// GetByPath re-walks the tree and resolves path (absolute or alias-form).
func (f *StreamingFdt) GetByPath(path string) (*Node, bool, error) {
	n, phandles, ok, err := f.view.GetByPath(path)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return wrapNode(n, phandles), true, nil
}

// FindCompatible re-walks the tree and returns matching nodes in
// document order.
func (f *StreamingFdt) FindCompatible(list ...string) ([]*Node, error) {
	matched, phandles, err := f.view.FindCompatible(list)
	if err != nil {
		return nil, err
	}
	return wrapNodes(matched, phandles), nil
}
