package fdt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gofdt/fdt"
	"github.com/gofdt/fdt/internal/editfdt"
)

// encode builds blob bytes from a *editfdt.Tree assembled by the
// caller, the same round trip every decode-side test in this module
// exercises production code through.
func encode(t *testing.T, tr *editfdt.Tree) []byte {
	t.Helper()
	blob, err := tr.Encode()
	require.NoError(t, err)
	return blob
}

func u32cells(vals ...uint32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		out[i*4] = byte(v >> 24)
		out[i*4+1] = byte(v >> 16)
		out[i*4+2] = byte(v >> 8)
		out[i*4+3] = byte(v)
	}
	return out
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func cstrList(list ...string) []byte {
	var out []byte
	for _, s := range list {
		out = append(out, s...)
		out = append(out, 0)
	}
	return out
}

// buildRegScenario builds the Scenario A fixture from spec.md §8: root
// #address-cells=2 #size-cells=2, /bus@0 #address-cells=1 #size-cells=1
// with a ranges mapping its [0, 0x1000_0000) window into the parent's
// 0x8000_0000 base, and a grandchild uart@1000 with reg = <0x1000
// 0x100>.
func buildRegScenario(t *testing.T) *fdt.Fdt {
	t.Helper()
	tr := editfdt.NewTree()
	tr.Root.SetProperty("#address-cells", u32cells(2))
	tr.Root.SetProperty("#size-cells", u32cells(2))

	bus, err := tr.Root.AddChild("bus@0")
	require.NoError(t, err)
	bus.SetProperty("#address-cells", u32cells(1))
	bus.SetProperty("#size-cells", u32cells(1))
	bus.SetProperty("ranges", u32cells(0x0, 0x0, 0x8000_0000, 0x1000_0000))

	uart, err := bus.AddChild("uart@1000")
	require.NoError(t, err)
	uart.SetProperty("reg", u32cells(0x1000, 0x100))

	f, err := fdt.Decode(encode(t, tr))
	require.NoError(t, err)
	return f
}
