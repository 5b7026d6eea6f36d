package rawfdt

import "github.com/gofdt/fdt/internal/utils"

// Reservation is a single memory-reservation entry (address, size).
type Reservation struct {
	Address uint64
	Size    uint64
}

// Reservations decodes the memory-reservation block as an ordered slice of
// (address, size) pairs, stopping at the (0,0) sentinel or at the
// structure-block offset, whichever comes first. An entry with size 0
// other than the sentinel is invalid.
func (h *Header) Reservations(b []byte) ([]Reservation, error) {
	var out []Reservation

	off := int(h.OffMemRsvmap)
	limit := int(h.OffDtStruct)

	for {
		if off+16 > limit {
			return nil, utils.AtOffset(utils.KindTruncated, "memory reservation block missing sentinel", int64(off))
		}
		addr := utils.U64(b, off)
		size := utils.U64(b, off+8)
		if addr == 0 && size == 0 {
			return out, nil
		}
		if size == 0 {
			return nil, utils.AtOffset(utils.KindTruncated, "zero-size reservation entry is not the sentinel", int64(off))
		}
		out = append(out, Reservation{Address: addr, Size: size})
		off += 16
	}
}
