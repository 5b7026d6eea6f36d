package binding

import (
	"github.com/gofdt/fdt/internal/treedata"
	"github.com/gofdt/fdt/internal/utils"
)

// ClockRef is one decoded entry of a consumer's clocks property: the
// provider node, its specifier cells (sized by the provider's
// #clock-cells), and an optional name zipped in from clock-names (§4.9).
type ClockRef struct {
	Provider  *treedata.Node
	Specifier []uint32
	Name      string
}

// IsClockProvider reports whether n exposes #clock-cells.
func IsClockProvider(n *treedata.Node) bool {
	_, ok := n.FindProperty("#clock-cells")
	return ok
}

// DecodeClocks decodes n's clocks property, chunked by each referenced
// provider's #clock-cells, with clock-names zipped in by index when
// present and equal in length to the decoded entry count.
func DecodeClocks(n *treedata.Node, phandles map[uint32]*treedata.Node) ([]ClockRef, error) {
	prop, ok := n.FindProperty("clocks")
	if !ok {
		return nil, nil
	}
	cells, err := prop.AsCells()
	if err != nil {
		return nil, err
	}

	var names []string
	if namesProp, ok := n.FindProperty("clock-names"); ok {
		if list, nerr := namesProp.AsStringList(); nerr == nil {
			names = list
		}
	}

	var out []ClockRef
	for i := 0; i < len(cells); {
		ph := cells[i]
		i++
		provider, ok := phandles[ph]
		if !ok {
			return nil, utils.AtPath(utils.KindPhandleNotFound, "clocks phandle not found", n.FullPath)
		}
		ccells := int(declaredCells(provider, "#clock-cells", 0))
		if i+ccells > len(cells) {
			return nil, utils.AtPath(utils.KindBadPropertyLength, "clocks entry shorter than #clock-cells", n.FullPath)
		}
		out = append(out, ClockRef{Provider: provider, Specifier: append([]uint32(nil), cells[i:i+ccells]...)})
		i += ccells
	}

	if len(names) == len(out) {
		for idx := range out {
			out[idx].Name = names[idx]
		}
	}
	return out, nil
}
