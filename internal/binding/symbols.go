package binding

import "github.com/gofdt/fdt/internal/treedata"

// Symbols decodes the /__symbols__ node present in overlay-capable DTBs
// into a symbol-name -> path map, the same textual-substitution
// mechanism as Aliases (§4 Supplemented Features). Returns nil if root
// has no /__symbols__ child.
func Symbols(root *treedata.Node) map[string]string {
	node, ok := root.ChildByShortName("__symbols__")
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
