package editfdt

import (
	"math"

	"github.com/gofdt/fdt/internal/rawfdt"
	"github.com/gofdt/fdt/internal/utils"
)

// Encode serializes the tree to a DTB blob following §4.11: a
// deduplicated string table is assembled first, then the structure
// block, then the header; the four pieces are concatenated with the
// reservation block padded to an 8-byte boundary. Output always uses
// version 17 / last-compatible-version 16 with no NOP tokens and
// properties in insertion order.
func (t *Tree) Encode() ([]byte, error) {
	names := newStringTableBuilder()
	collectNames(t.Root, names)

	if uint64(len(names.buf)) > math.MaxUint32 {
		return nil, utils.New(utils.KindStringTableOverflow, "encoded string table exceeds 4GiB")
	}

	structBlock := encodeNode(t.Root, names)
	structBlock = append(structBlock, be32(rawfdt.TokenEnd)...)

	rsvSize := (len(t.Reservations) + 1) * 16
	offStruct := rawfdt.HeaderSize + rsvSize
	offStrings := offStruct + len(structBlock)
	totalSize := offStrings + len(names.buf)

	out := make([]byte, 0, totalSize)

	header := make([]byte, rawfdt.HeaderSize)
	utils.PutU32(header, 0, rawfdt.Magic)
	utils.PutU32(header, 4, uint32(totalSize))
	utils.PutU32(header, 8, uint32(offStruct))
	utils.PutU32(header, 12, uint32(offStrings))
	utils.PutU32(header, 16, rawfdt.HeaderSize)
	utils.PutU32(header, 20, 17)
	utils.PutU32(header, 24, 16)
	utils.PutU32(header, 28, t.BootCPUIDPhys)
	utils.PutU32(header, 32, uint32(len(names.buf)))
	utils.PutU32(header, 36, uint32(len(structBlock)))
	out = append(out, header...)

	for _, r := range t.Reservations {
		out = append(out, be64(r.Address)...)
		out = append(out, be64(r.Size)...)
	}
	out = append(out, be64(0)...)
	out = append(out, be64(0)...)

	out = append(out, structBlock...)
	out = append(out, names.buf...)

	return out, nil
}

type stringTableBuilder struct {
	offsets map[string]uint32
	buf     []byte
}

func newStringTableBuilder() *stringTableBuilder {
	return &stringTableBuilder{offsets: map[string]uint32{}}
}

func (s *stringTableBuilder) intern(name string) uint32 {
	if off, ok := s.offsets[name]; ok {
		return off
	}
	off := uint32(len(s.buf))
	s.offsets[name] = off
	s.buf = append(s.buf, name...)
	s.buf = append(s.buf, 0)
	return off
}

func collectNames(n *Node, s *stringTableBuilder) {
	for _, p := range n.Properties {
		s.intern(p.Name)
	}
	for _, c := range n.Children {
		collectNames(c, s)
	}
}

func encodeNode(n *Node, s *stringTableBuilder) []byte {
	var buf []byte
	buf = append(buf, be32(rawfdt.TokenBeginNode)...)
	buf = append(buf, padName(n.Name)...)

	for _, p := range n.Properties {
		buf = append(buf, be32(rawfdt.TokenProp)...)
		buf = append(buf, be32(uint32(len(p.Value)))...)
		buf = append(buf, be32(s.intern(p.Name))...)
		buf = append(buf, p.Value...)
		buf = append(buf, padding(len(p.Value))...)
	}

	for _, c := range n.Children {
		buf = append(buf, encodeNode(c, s)...)
	}

	buf = append(buf, be32(rawfdt.TokenEndNode)...)
	return buf
}

func padName(name string) []byte {
	b := append([]byte(name), 0)
	return append(b, padding(len(b))...)
}

func padding(n int) []byte {
	padded := utils.Align4(n)
	if padded == n {
		return nil
	}
	return make([]byte, padded-n)
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	utils.PutU32(b, 0, v)
	return b
}

func be64(v uint64) []byte {
	b := make([]byte, 8)
	utils.PutU64(b, 0, v)
	return b
}
