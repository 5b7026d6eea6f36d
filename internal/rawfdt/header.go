// Package rawfdt is the zero-copy raw layer: it decodes the FDT header,
// the memory-reservation block and the structure-block token stream
// directly out of the caller's byte slice. It holds no interpretation of
// what the tokens mean — that is the query layer's job.
package rawfdt

import (
	"github.com/gofdt/fdt/internal/utils"
)

// Magic is the fixed FDT header magic value (Devicetree Spec v0.4 §5.2).
const Magic uint32 = 0xd00dfeed

// MinSupportedVersion is the lowest header version this decoder accepts.
// Version 16 is rejected by choice; anything below 16 is always rejected
// as definitely incompatible.
const MinSupportedVersion uint32 = 17

// HeaderSize is the fixed 40-byte on-wire size of the FDT header.
const HeaderSize = 40

// Header is the decoded 40-byte FDT header (§6).
type Header struct {
	Magic           uint32
	TotalSize       uint32
	OffDtStruct     uint32
	OffDtStrings    uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	SizeDtStrings   uint32
	SizeDtStruct    uint32
}

// DecodeHeader validates and decodes the 40-byte header at the start of b.
// It checks the magic, that every offset lies within TotalSize, that every
// offset is 4-byte aligned, and that the structure and string blocks do
// not overlap.
func DecodeHeader(b []byte) (*Header, error) {
	if len(b) < HeaderSize {
		return nil, utils.AtOffset(utils.KindTruncated, "header truncated", int64(len(b)))
	}

	h := &Header{
		Magic:           utils.U32(b, 0),
		TotalSize:       utils.U32(b, 4),
		OffDtStruct:     utils.U32(b, 8),
		OffDtStrings:    utils.U32(b, 12),
		OffMemRsvmap:    utils.U32(b, 16),
		Version:         utils.U32(b, 20),
		LastCompVersion: utils.U32(b, 24),
		BootCPUIDPhys:   utils.U32(b, 28),
		SizeDtStrings:   utils.U32(b, 32),
		SizeDtStruct:    utils.U32(b, 36),
	}

	if h.Magic != Magic {
		return nil, utils.AtOffset(utils.KindBadMagic, "bad FDT magic", 0)
	}

	if uint64(h.TotalSize) > uint64(len(b)) {
		return nil, utils.AtOffset(utils.KindTruncated, "totalsize exceeds buffer length", 4)
	}

	if h.Version < MinSupportedVersion {
		return nil, utils.AtOffset(utils.KindUnsupportedVersion, "header version too old", 20)
	}

	if err := checkRange(h, "off_dt_struct", h.OffDtStruct, h.SizeDtStruct); err != nil {
		return nil, err
	}
	if err := checkRange(h, "off_dt_strings", h.OffDtStrings, h.SizeDtStrings); err != nil {
		return nil, err
	}
	if h.OffMemRsvmap%4 != 0 || h.OffMemRsvmap > h.TotalSize {
		return nil, utils.AtOffset(utils.KindUnalignedOffset, "off_mem_rsvmap misaligned or out of range", 16)
	}

	structEnd := uint64(h.OffDtStruct) + uint64(h.SizeDtStruct)
	stringsEnd := uint64(h.OffDtStrings) + uint64(h.SizeDtStrings)
	if overlaps(uint64(h.OffDtStruct), structEnd, uint64(h.OffDtStrings), stringsEnd) {
		return nil, utils.AtOffset(utils.KindUnalignedOffset, "structure and string blocks overlap", 8)
	}

	return h, nil
}

func checkRange(h *Header, field string, off, size uint32) error {
	if off%4 != 0 {
		return utils.AtOffset(utils.KindUnalignedOffset, field+" is not 4-byte aligned", int64(off))
	}
	end := uint64(off) + uint64(size)
	if end > uint64(h.TotalSize) {
		return utils.AtOffset(utils.KindTruncated, field+" block exceeds totalsize", int64(off))
	}
	return nil
}

func overlaps(aStart, aEnd, bStart, bEnd uint64) bool {
	if aEnd == aStart || bEnd == bStart {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// StructBlock returns the structure-block byte range of b.
func (h *Header) StructBlock(b []byte) []byte {
	return b[h.OffDtStruct : h.OffDtStruct+h.SizeDtStruct]
}

// StringsBlock returns the strings-block byte range of b.
func (h *Header) StringsBlock(b []byte) []byte {
	return b[h.OffDtStrings : h.OffDtStrings+h.SizeDtStrings]
}
