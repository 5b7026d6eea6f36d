package binding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gofdt/fdt/internal/editfdt"
	"github.com/gofdt/fdt/internal/query"
	"github.com/gofdt/fdt/internal/rawfdt"
	"github.com/gofdt/fdt/internal/treedata"
)

// buildTree encodes tr through the real editfdt encoder and decodes it
// back through the real query layer, so binding tests exercise the same
// path production code will.
func buildTree(t *testing.T, tr *editfdt.Tree) (*treedata.Node, []*treedata.Node, map[uint32]*treedata.Node) {
	t.Helper()
	blob, err := tr.Encode()
	require.NoError(t, err)
	header, err := rawfdt.DecodeHeader(blob)
	require.NoError(t, err)
	root, all, phandles, err := query.Build(header.StructBlock(blob), header.StringsBlock(blob), nil)
	require.NoError(t, err)
	return root, all, phandles
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
