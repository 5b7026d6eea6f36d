package binding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofdt/fdt/internal/binding"
	"github.com/gofdt/fdt/internal/editfdt"
)

func TestRegTranslationScenarioA(t *testing.T) {
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

	root, _, _ := buildTree(t, tr)
	uartNode, ok := root.Children[0].ChildByShortName("uart@1000")
	require.True(t, ok)

	regs, err := binding.Reg(uartNode)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, uint64(0x8000_1000), regs[0].Address)
	assert.Equal(t, uint64(0x100), regs[0].Size)
}

func TestRegTranslationNoRangesStopsAtBoundary(t *testing.T) {
	tr := editfdt.NewTree()
	tr.Root.SetProperty("#address-cells", u32cells(1))
	tr.Root.SetProperty("#size-cells", u32cells(1))

	bus, err := tr.Root.AddChild("bus@0")
	require.NoError(t, err)
	bus.SetProperty("#address-cells", u32cells(1))
	bus.SetProperty("#size-cells", u32cells(1))
	// no ranges property on bus@0

	dev, err := bus.AddChild("dev@10")
	require.NoError(t, err)
	dev.SetProperty("reg", u32cells(0x10, 0x4))

	root, _, _ := buildTree(t, tr)
	devNode, _ := root.Children[0].ChildByShortName("dev@10")

	regs, err := binding.Reg(devNode)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, uint64(0x10), regs[0].Address, "absent ranges means translation stops, address passes through")
}

func TestRegTranslationIdentityEmptyRanges(t *testing.T) {
	tr := editfdt.NewTree()
	tr.Root.SetProperty("#address-cells", u32cells(1))
	tr.Root.SetProperty("#size-cells", u32cells(1))

	bus, err := tr.Root.AddChild("bus@0")
	require.NoError(t, err)
	bus.SetProperty("#address-cells", u32cells(1))
	bus.SetProperty("#size-cells", u32cells(1))
	bus.SetProperty("ranges", nil)

	dev, err := bus.AddChild("dev@10")
	require.NoError(t, err)
	dev.SetProperty("reg", u32cells(0x10, 0x4))

	root, _, _ := buildTree(t, tr)
	devNode, _ := root.Children[0].ChildByShortName("dev@10")

	regs, err := binding.Reg(devNode)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x10), regs[0].Address)
}

func TestDecodeRegBadLength(t *testing.T) {
	tr := editfdt.NewTree()
	tr.Root.SetProperty("#address-cells", u32cells(1))
	tr.Root.SetProperty("#size-cells", u32cells(1))
	dev, err := tr.Root.AddChild("dev@10")
	require.NoError(t, err)
	dev.SetProperty("reg", u32cells(0x10)) // one cell short of the 2-cell stride

	root, _, _ := buildTree(t, tr)
	devNode, _ := root.ChildByShortName("dev@10")

	_, err = binding.DecodeReg(devNode)
	assert.ErrorContains(t, err, "BadPropertyLength")
}

func TestDecodeRegOversizedCellErrors(t *testing.T) {
	tr := editfdt.NewTree()
	tr.Root.SetProperty("#address-cells", u32cells(3))
	tr.Root.SetProperty("#size-cells", u32cells(1))
	dev, err := tr.Root.AddChild("dev@10")
	require.NoError(t, err)
	// a 3-cell address describes more than 64 bits, which this library
	// cannot represent as a uint64.
	dev.SetProperty("reg", u32cells(0x1, 0x0, 0x10, 0x4))

	root, _, _ := buildTree(t, tr)
	devNode, _ := root.ChildByShortName("dev@10")

	_, err = binding.DecodeReg(devNode)
	assert.ErrorContains(t, err, "OversizedCell")
}
