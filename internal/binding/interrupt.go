package binding

import (
	"github.com/gofdt/fdt/internal/treedata"
	"github.com/gofdt/fdt/internal/utils"
)

// InterruptEntry is one resolved interrupt: the controller node it
// targets and the specifier cells interpreted against that controller's
// #interrupt-cells (§4.7).
type InterruptEntry struct {
	Controller *treedata.Node
	Cells      []uint32
}

// ResolveInterruptParent finds the interrupt parent for n: the nearest
// node in n's own ancestor chain (starting at n itself) carrying an
// interrupt-parent property whose phandle resolves to a node exposing
// #interrupt-cells.
func ResolveInterruptParent(n *treedata.Node, phandles map[uint32]*treedata.Node) (*treedata.Node, error) {
	for cur := n; cur != nil; cur = cur.Parent {
		prop, ok := cur.FindProperty("interrupt-parent")
		if !ok {
			continue
		}
		ph, err := prop.AsPhandle()
		if err != nil {
			return nil, err
		}
		target, ok := phandles[ph]
		if !ok {
			return nil, utils.AtPath(utils.KindPhandleNotFound, "interrupt-parent phandle not found", n.FullPath)
		}
		if !IsInterruptController(target) {
			return nil, utils.AtPath(utils.KindNoInterruptParent, "interrupt-parent target has no #interrupt-cells", n.FullPath)
		}
		return target, nil
	}
	return nil, utils.AtPath(utils.KindNoInterruptParent, "no interrupt-parent in ancestor chain", n.FullPath)
}

// IsInterruptController reports whether n exposes #interrupt-cells.
func IsInterruptController(n *treedata.Node) bool {
	_, ok := n.FindProperty("#interrupt-cells")
	return ok
}

// DecodeInterrupts decodes n's interrupts-extended property if present,
// otherwise its interrupts property resolved against a single interrupt
// parent, per §4.7. Returns (nil, nil) if neither property is present.
func DecodeInterrupts(n *treedata.Node, phandles map[uint32]*treedata.Node) ([]InterruptEntry, error) {
	if prop, ok := n.FindProperty("interrupts-extended"); ok {
		return decodeInterruptsExtended(n, prop, phandles)
	}
	if prop, ok := n.FindProperty("interrupts"); ok {
		return decodeInterrupts(n, prop, phandles)
	}
	return nil, nil
}

func decodeInterruptsExtended(n *treedata.Node, prop treedata.Property, phandles map[uint32]*treedata.Node) ([]InterruptEntry, error) {
	cells, err := prop.AsCells()
	if err != nil {
		return nil, err
	}

	var out []InterruptEntry
	for i := 0; i < len(cells); {
		if i >= len(cells) {
			return nil, utils.AtPath(utils.KindBadPropertyLength, "interrupts-extended truncated before phandle", n.FullPath)
		}
		ph := cells[i]
		i++
		controller, ok := phandles[ph]
		if !ok {
			return nil, utils.AtPath(utils.KindPhandleNotFound, "interrupts-extended phandle not found", n.FullPath)
		}
		icells := int(declaredCells(controller, "#interrupt-cells", 0))
		if icells == 0 || i+icells > len(cells) {
			return nil, utils.AtPath(utils.KindBadPropertyLength, "interrupts-extended entry shorter than #interrupt-cells", n.FullPath)
		}
		out = append(out, InterruptEntry{Controller: controller, Cells: append([]uint32(nil), cells[i:i+icells]...)})
		i += icells
	}
	return out, nil
}

func decodeInterrupts(n *treedata.Node, prop treedata.Property, phandles map[uint32]*treedata.Node) ([]InterruptEntry, error) {
	parent, err := ResolveInterruptParent(n, phandles)
	if err != nil {
		return nil, err
	}
	icells := int(declaredCells(parent, "#interrupt-cells", 0))

	cells, err := prop.AsCells()
	if err != nil {
		return nil, err
	}
	if icells == 0 || len(cells)%icells != 0 {
		return nil, utils.AtPath(utils.KindBadPropertyLength, "interrupts length is not a multiple of #interrupt-cells", n.FullPath)
	}

	out := make([]InterruptEntry, 0, len(cells)/icells)
	for i := 0; i < len(cells); i += icells {
		out = append(out, InterruptEntry{Controller: parent, Cells: append([]uint32(nil), cells[i:i+icells]...)})
	}
	return out, nil
}
