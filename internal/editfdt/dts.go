package editfdt

import (
	"fmt"
	"strings"
)

// WriteDTS renders the tree as devicetree source text per §4.12: two-space
// indentation, a `/dts-v1/;` header, `/memreserve/` lines for every
// reservation, then the node tree. Property values are rendered as a
// NUL-terminated string list when every byte is printable, as a cell
// vector when the length is a non-zero multiple of 4 and is not a clean
// string list, and as a raw byte array otherwise.
func (t *Tree) WriteDTS() string {
	var b strings.Builder
	b.WriteString("/dts-v1/;\n\n")
	for _, r := range t.Reservations {
		fmt.Fprintf(&b, "/memreserve/ 0x%x 0x%x;\n", r.Address, r.Size)
	}
	if len(t.Reservations) > 0 {
		b.WriteString("\n")
	}
	writeDTSNode(&b, t.Root, 0)
	return b.String()
}

func writeDTSNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	name := n.Name
	if name == "" {
		name = "/"
	}
	fmt.Fprintf(b, "%s%s {\n", indent, name)

	propIndent := strings.Repeat("  ", depth+1)
	for _, p := range n.Properties {
		fmt.Fprintf(b, "%s%s;\n", propIndent, renderProperty(p))
	}
	for _, c := range n.Children {
		writeDTSNode(b, c, depth+1)
	}

	fmt.Fprintf(b, "%s};\n", indent)
}

func renderProperty(p Property) string {
	if len(p.Value) == 0 {
		return p.Name
	}
	if list, ok := asPrintableStringList(p.Value); ok {
		quoted := make([]string, len(list))
		for i, s := range list {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("%s = %s", p.Name, strings.Join(quoted, ", "))
	}
	if len(p.Value)%4 == 0 {
		return fmt.Sprintf("%s = <%s>", p.Name, renderCells(p.Value))
	}
	return fmt.Sprintf("%s = [%s]", p.Name, renderBytes(p.Value))
}

// asPrintableStringList reports whether value decodes cleanly as one or
// more NUL-terminated printable-ASCII segments, the shape DTS renders as
// quoted strings (covers "compatible", "model", "status" and friends).
func asPrintableStringList(value []byte) ([]string, bool) {
	if value[len(value)-1] != 0 {
		return nil, false
	}
	segments := strings.Split(string(value[:len(value)-1]), "\x00")
	for _, seg := range segments {
		if seg == "" {
			return nil, false
		}
		for _, r := range seg {
			if r < 0x20 || r > 0x7e {
				return nil, false
			}
		}
	}
	return segments, true
}

func renderCells(value []byte) string {
	words := make([]string, len(value)/4)
	for i := range words {
		off := i * 4
		v := uint32(value[off])<<24 | uint32(value[off+1])<<16 | uint32(value[off+2])<<8 | uint32(value[off+3])
		words[i] = fmt.Sprintf("0x%x", v)
	}
	return strings.Join(words, " ")
}

func renderBytes(value []byte) string {
	parts := make([]string, len(value))
	for i, bVal := range value {
		parts[i] = fmt.Sprintf("%02x", bVal)
	}
	return strings.Join(parts, " ")
}
