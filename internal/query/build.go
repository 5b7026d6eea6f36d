// Package query implements the two interchangeable views over the raw
// layer described in the design: a streaming view that walks tokens on
// demand, and an indexed view that performs one depth-first pass to
// build a flat, cached representation. Both are built on the same
// depth-first walk (Build) so that they return bit-identical typed
// values for the same input blob.
package query

import (
	"github.com/gofdt/fdt/internal/rawfdt"
	"github.com/gofdt/fdt/internal/treedata"
	"github.com/gofdt/fdt/internal/utils"
)

// Reserved phandle values that may never be assigned (§3).
const (
	PhandleReservedZero = 0
	PhandleReservedAll  = 0xFFFFFFFF
)

// DuplicateHandler is invoked once for every phandle value seen a second
// (or later) time. The first definition always wins in the phandle
// index; this callback is the recoverable error channel for the rest
// (§9 Open Questions: duplicate policy).
type DuplicateHandler func(phandle uint32, path string)

type cellFrame struct {
	address uint32
	size    uint32
}

var defaultCellFrame = cellFrame{address: 2, size: 1}

// Build performs a single depth-first pass over the structure block,
// producing the root Node, a pre-order slice of every node in the tree,
// and a phandle -> Node map (first-definition-wins, §9). It is the
// shared primitive underneath both views: Index calls it once and keeps
// the result (plus its own alias/compatible/path maps) around for the
// life of the tree, while StreamView calls it again from scratch on
// every accessor and builds none of Index's extra maps.
func Build(structBlock, strings []byte, dup DuplicateHandler) (root *treedata.Node, all []*treedata.Node, phandles map[uint32]*treedata.Node, err error) {
	s := rawfdt.NewScanner(structBlock, strings, 0)

	tok, ok, err := s.Next()
	if err != nil {
		return nil, nil, nil, err
	}
	if !ok || tok.Kind != rawfdt.TokenBeginNode {
		return nil, nil, nil, utils.New(utils.KindBadToken, "structure block does not begin with BEGIN_NODE")
	}

	phandles = make(map[uint32]*treedata.Node)
	root, err = buildSubtree(s, tok.Name, nil, "/", 0, defaultCellFrame, dup, &all, phandles)
	if err != nil {
		return nil, nil, nil, err
	}

	endTok, ok, err := s.Next()
	if err != nil {
		return nil, nil, nil, err
	}
	if !ok || endTok.Kind != rawfdt.TokenEnd {
		return nil, nil, nil, utils.New(utils.KindBadToken, "expected END token after root node")
	}

	return root, all, phandles, nil
}

func buildSubtree(
	s *rawfdt.Scanner,
	name string,
	parent *treedata.Node,
	fullPath string,
	level int,
	inherited cellFrame,
	dup DuplicateHandler,
	all *[]*treedata.Node,
	phandles map[uint32]*treedata.Node,
) (*treedata.Node, error) {
	n := &treedata.Node{
		Name:         name,
		FullPath:     fullPath,
		Level:        level,
		AddressCells: inherited.address,
		SizeCells:    inherited.size,
		Parent:       parent,
	}
	*all = append(*all, n) // pre-order: record on first visit.

	childCells := inherited

	for {
		tok, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, utils.AtPath(utils.KindTruncated, "structure block ended inside node body", fullPath)
		}

		switch tok.Kind {
		case rawfdt.TokenProp:
			prop := treedata.Property{Name: tok.PropName, Value: tok.PropValue}
			n.Properties = append(n.Properties, prop)

			switch tok.PropName {
			case "#address-cells":
				v, verr := prop.AsU32()
				if verr != nil {
					return nil, verr
				}
				childCells.address = v
			case "#size-cells":
				v, verr := prop.AsU32()
				if verr != nil {
					return nil, verr
				}
				childCells.size = v
			case "phandle", "linux,phandle":
				v, verr := prop.AsU32()
				if verr != nil {
					return nil, verr
				}
				n.Phandle = &v
				if v == PhandleReservedZero || v == PhandleReservedAll {
					break
				}
				if existing, dupe := phandles[v]; dupe {
					if dup != nil {
						dup(v, n.FullPath)
					}
					_ = existing // first definition wins; keep it.
				} else {
					phandles[v] = n
				}
			}

		case rawfdt.TokenBeginNode:
			childPath := joinPath(fullPath, tok.Name)
			child, cerr := buildSubtree(s, tok.Name, n, childPath, level+1, childCells, dup, all, phandles)
			if cerr != nil {
				return nil, cerr
			}
			n.Children = append(n.Children, child)

		case rawfdt.TokenEndNode:
			return n, nil

		case rawfdt.TokenEnd:
			return nil, utils.AtPath(utils.KindBadToken, "unexpected END token inside node body", fullPath)
		}
	}
}

func joinPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}
