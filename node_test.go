package fdt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofdt/fdt"
	"github.com/gofdt/fdt/internal/editfdt"
)

// Scenario B (spec.md §8): interrupts-extended = <&gic 0 10 4 &msi 0 20>
// where gic has #interrupt-cells=3 and msi has #interrupt-cells=2.
func TestInterruptsExtended(t *testing.T) {
	tr := editfdt.NewTree()

	gic, err := tr.Root.AddChild("interrupt-controller@0")
	require.NoError(t, err)
	gic.SetProperty("phandle", u32cells(1))
	gic.SetProperty("#interrupt-cells", u32cells(3))

	msi, err := tr.Root.AddChild("msi@1000")
	require.NoError(t, err)
	msi.SetProperty("phandle", u32cells(2))
	msi.SetProperty("#interrupt-cells", u32cells(2))

	dev, err := tr.Root.AddChild("device@2000")
	require.NoError(t, err)
	dev.SetProperty("interrupts-extended", u32cells(1, 0, 10, 4, 2, 0, 20))

	f, err := fdt.Decode(encode(t, tr))
	require.NoError(t, err)

	d, ok := f.GetByPath("/device@2000")
	require.True(t, ok)

	entries, err := d.Interrupts()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/interrupt-controller@0", entries[0].Controller.FullPath())
	assert.Equal(t, []uint32{0, 10, 4}, entries[0].Cells)
	assert.Equal(t, "/msi@1000", entries[1].Controller.FullPath())
	assert.Equal(t, []uint32{0, 20}, entries[1].Cells)
}

func TestInterruptsGroupedByParent(t *testing.T) {
	tr := editfdt.NewTree()

	gic, err := tr.Root.AddChild("interrupt-controller@0")
	require.NoError(t, err)
	gic.SetProperty("phandle", u32cells(1))
	gic.SetProperty("#interrupt-cells", u32cells(3))

	dev, err := tr.Root.AddChild("device@2000")
	require.NoError(t, err)
	dev.SetProperty("interrupt-parent", u32cells(1))
	dev.SetProperty("interrupts", u32cells(0, 5, 4, 0, 6, 4))

	f, err := fdt.Decode(encode(t, tr))
	require.NoError(t, err)

	d, ok := f.GetByPath("/device@2000")
	require.True(t, ok)

	entries, err := d.Interrupts()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []uint32{0, 5, 4}, entries[0].Cells)
	assert.Equal(t, []uint32{0, 6, 4}, entries[1].Cells)
}

func TestClocksZippedWithNames(t *testing.T) {
	tr := editfdt.NewTree()

	osc, err := tr.Root.AddChild("osc")
	require.NoError(t, err)
	osc.SetProperty("phandle", u32cells(7))
	osc.SetProperty("#clock-cells", u32cells(0))

	pll, err := tr.Root.AddChild("pll")
	require.NoError(t, err)
	pll.SetProperty("phandle", u32cells(8))
	pll.SetProperty("#clock-cells", u32cells(1))

	dev, err := tr.Root.AddChild("device")
	require.NoError(t, err)
	dev.SetProperty("clocks", u32cells(7, 8, 0))
	dev.SetProperty("clock-names", cstrList("bus", "core"))

	f, err := fdt.Decode(encode(t, tr))
	require.NoError(t, err)

	d, ok := f.GetByPath("/device")
	require.True(t, ok)

	refs, err := d.Clocks()
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "/osc", refs[0].Provider.FullPath())
	assert.Equal(t, "bus", refs[0].Name)
	assert.Equal(t, "/pll", refs[1].Provider.FullPath())
	assert.Equal(t, "core", refs[1].Name)
	assert.Equal(t, []uint32{0}, refs[1].Specifier)
}

func TestIsEnabledAndHasCompatible(t *testing.T) {
	tr := editfdt.NewTree()
	dev, err := tr.Root.AddChild("device")
	require.NoError(t, err)
	dev.SetProperty("compatible", cstrList("acme,widget", "generic,widget"))
	dev.SetProperty("status", cstr("disabled"))

	f, err := fdt.Decode(encode(t, tr))
	require.NoError(t, err)

	d, ok := f.GetByPath("/device")
	require.True(t, ok)

	assert.False(t, d.IsEnabled())
	assert.True(t, d.HasCompatible("generic,widget"))
	assert.False(t, d.HasCompatible("nope"))
}

func TestInterruptParentInheritedFromAncestor(t *testing.T) {
	tr := editfdt.NewTree()
	gic, err := tr.Root.AddChild("interrupt-controller@0")
	require.NoError(t, err)
	gic.SetProperty("phandle", u32cells(1))
	gic.SetProperty("#interrupt-cells", u32cells(1))

	tr.Root.SetProperty("interrupt-parent", u32cells(1))
	bus, err := tr.Root.AddChild("bus")
	require.NoError(t, err)
	dev, err := bus.AddChild("device")
	require.NoError(t, err)
	dev.SetProperty("interrupts", u32cells(9))

	f, err := fdt.Decode(encode(t, tr))
	require.NoError(t, err)

	d, ok := f.GetByPath("/bus/device")
	require.True(t, ok)

	parent, err := d.InterruptParent()
	require.NoError(t, err)
	assert.Equal(t, "/interrupt-controller@0", parent.FullPath())

	entries, err := d.Interrupts()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []uint32{9}, entries[0].Cells)
}
