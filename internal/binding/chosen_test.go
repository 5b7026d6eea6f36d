package binding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofdt/fdt/internal/binding"
	"github.com/gofdt/fdt/internal/editfdt"
)

func TestDecodeChosen(t *testing.T) {
	tr := editfdt.NewTree()
	chosen, err := tr.Root.AddChild("chosen")
	require.NoError(t, err)
	chosen.SetProperty("bootargs", cstr("console=ttyS0"))
	chosen.SetProperty("stdout-path", cstr("/soc/uart@3000000"))
	chosen.SetProperty("linux,initrd-start", u32cells(0x1000_0000))
	chosen.SetProperty("linux,initrd-end", u32cells(0x1100_0000))

	root, _, _ := buildTree(t, tr)
	c, ok := binding.DecodeChosen(root)
	require.True(t, ok)
	assert.Equal(t, "console=ttyS0", c.Bootargs)
	assert.Equal(t, "/soc/uart@3000000", c.StdoutPath)
	require.True(t, c.HasInitrdRange)
	assert.Equal(t, uint64(0x1000_0000), c.InitrdStart)
	assert.Equal(t, uint64(0x1100_0000), c.InitrdEnd)
}

func TestDecodeChosenFallsBackToLiteralInitrdNames(t *testing.T) {
	tr := editfdt.NewTree()
	chosen, err := tr.Root.AddChild("chosen")
	require.NoError(t, err)
	chosen.SetProperty("initrd-start", u32cells(0x2000_0000))
	chosen.SetProperty("initrd-end", u32cells(0x2100_0000))

	root, _, _ := buildTree(t, tr)
	c, ok := binding.DecodeChosen(root)
	require.True(t, ok)
	require.True(t, c.HasInitrdRange)
	assert.Equal(t, uint64(0x2000_0000), c.InitrdStart)
	assert.Equal(t, uint64(0x2100_0000), c.InitrdEnd)
}

func TestDecodeChosenAbsent(t *testing.T) {
	tr := editfdt.NewTree()
	root, _, _ := buildTree(t, tr)
	_, ok := binding.DecodeChosen(root)
	assert.False(t, ok)
}

func TestAliasesScenarioD(t *testing.T) {
	tr := editfdt.NewTree()
	aliases, err := tr.Root.AddChild("aliases")
	require.NoError(t, err)
	aliases.SetProperty("serial0", cstr("/soc/uart@3000000"))

	soc, err := tr.Root.AddChild("soc")
	require.NoError(t, err)
	_, err = soc.AddChild("uart@3000000")
	require.NoError(t, err)

	root, _, _ := buildTree(t, tr)
	aliasMap := binding.Aliases(root)
	assert.Equal(t, "/soc/uart@3000000", aliasMap["serial0"])
}

func TestMemoryRegions(t *testing.T) {
	tr := editfdt.NewTree()
	tr.Root.SetProperty("#address-cells", u32cells(1))
	tr.Root.SetProperty("#size-cells", u32cells(1))

	mem, err := tr.Root.AddChild("memory@40000000")
	require.NoError(t, err)
	mem.SetProperty("device_type", cstr("memory"))
	mem.SetProperty("reg", u32cells(0x4000_0000, 0x4000_0000))

	notMem, err := tr.Root.AddChild("reserved-memory")
	require.NoError(t, err)
	notMem.SetProperty("reg", u32cells(0x1000, 0x100))

	root, all, _ := buildTree(t, tr)
	regions, err := binding.MemoryRegions(all)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, uint64(0x4000_0000), regions[0].Address)
	assert.Equal(t, uint64(0x4000_0000), regions[0].Size)
	assert.Equal(t, "memory@40000000", regions[0].Node.Name)
	assert.NotNil(t, root)
}
