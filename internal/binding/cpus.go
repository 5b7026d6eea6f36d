package binding

import "github.com/gofdt/fdt/internal/treedata"

// CpuInfo is one decoded /cpus/cpu@N child: its bare CPU-id cell (reg on
// a cpu node has no ranges translation across /cpus, §4 Supplemented
// Features) and its clock-frequency, if present.
type CpuInfo struct {
	Node              *treedata.Node
	ID                uint64
	ClockFrequency    uint64
	HasClockFrequency bool
}

// Cpus decodes every direct child of /cpus. It returns nil if root has
// no /cpus child.
func Cpus(root *treedata.Node) ([]CpuInfo, error) {
	cpus, ok := root.ChildByShortName("cpus")
	if !ok {
		return nil, nil
	}

	out := make([]CpuInfo, 0, len(cpus.Children))
	for _, c := range cpus.Children {
		entries, err := DecodeReg(c)
		if err != nil {
			return nil, err
		}
		info := CpuInfo{Node: c}
		if len(entries) > 0 {
			info.ID = entries[0].Address
		}
		if freq, ok := decodeIntegerCell(c, "clock-frequency"); ok {
			info.ClockFrequency, info.HasClockFrequency = freq, true
		}
		out = append(out, info)
	}
	return out, nil
}
