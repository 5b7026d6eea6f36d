package query

import (
	"strings"

	"github.com/gofdt/fdt/internal/treedata"
)

// StreamView is the streaming view described in §4.3/§9 (Design Note
// "Dual view"): every lookup re-walks the token scanner from scratch via
// Build rather than consulting a persistent cache. Unlike Index, it
// never populates or retains the alias/compatible/path maps, and the
// phandle map that Build produces on each walk is returned to the caller
// rather than kept — those maps are the standing allocation the indexed
// view pays for
// once so that later lookups are O(1)/O(log N); the streaming view
// instead recomputes just what the call needs from the pre-order slice
// Build already produced, trading that index-building allocation away
// for O(N) work per lookup (§9 "Streaming avoids allocation, at the cost
// of O(N) for every lookup"). It must return values bit-identical to
// Index for the same input, which holds because both sit on top of the
// same Build pass.
type StreamView struct {
	structBlock []byte
	strings     []byte
	dup         DuplicateHandler
}

// NewStreamView creates a streaming view over the given structure and
// string blocks.
func NewStreamView(structBlock, strings []byte, dup DuplicateHandler) *StreamView {
	return &StreamView{structBlock: structBlock, strings: strings, dup: dup}
}

// walk re-runs the single depth-first pass shared with Index, without
// ever building Index's alias/compatible/path maps.
func (v *StreamView) walk() (root *treedata.Node, all []*treedata.Node, phandles map[uint32]*treedata.Node, err error) {
	return Build(v.structBlock, v.strings, v.dup)
}

// Root re-walks the tree and returns the root node together with the
// phandle map from that same walk (callers resolving interrupt-parent
// or clock references need it alongside the node).
func (v *StreamView) Root() (*treedata.Node, map[uint32]*treedata.Node, error) {
	root, _, phandles, err := v.walk()
	return root, phandles, err
}

// AllNodes re-walks the tree and returns every node in pre-order
// together with the phandle map from that same walk.
func (v *StreamView) AllNodes() ([]*treedata.Node, map[uint32]*treedata.Node, error) {
	_, all, phandles, err := v.walk()
	return all, phandles, err
}

// GetByPath re-walks the tree and resolves path (absolute or alias-form)
// by scanning the pre-order slice directly; it never builds Index's
// Paths map. It also returns the phandle map from the same walk.
func (v *StreamView) GetByPath(path string) (*treedata.Node, map[uint32]*treedata.Node, bool, error) {
	root, all, phandles, err := v.walk()
	if err != nil {
		return nil, nil, false, err
	}
	resolved, ok := resolvePath(root, path)
	if !ok {
		return nil, phandles, false, nil
	}
	for _, n := range all {
		if n.FullPath == resolved {
			return n, phandles, true, nil
		}
	}
	return nil, phandles, false, nil
}

// FindCompatible re-walks the tree and returns matching nodes in
// document order, testing each node in the pre-order slice directly
// instead of consulting Index's Compatibles map, along with the phandle
// map from that same walk.
func (v *StreamView) FindCompatible(list []string) ([]*treedata.Node, map[uint32]*treedata.Node, error) {
	_, all, phandles, err := v.walk()
	if err != nil {
		return nil, nil, err
	}
	var matched []*treedata.Node
	for _, n := range all {
		if n.HasCompatible(list...) {
			matched = append(matched, n)
		}
	}
	return matched, phandles, nil
}

// ByPhandle re-walks the tree and resolves a phandle reference. Build
// already produces the phandle map as part of its single pass (the
// reserved/first-wins bookkeeping happens while walking, not as a
// separate indexing step), so this carries no extra allocation beyond
// what Root/AllNodes already pay.
func (v *StreamView) ByPhandle(p uint32) (*treedata.Node, bool, error) {
	_, _, phandles, err := v.walk()
	if err != nil {
		return nil, false, err
	}
	n, ok := phandles[p]
	return n, ok, nil
}

// resolvePath resolves an absolute path or an alias-form path (the
// first path component substituted via /aliases, §4.10) by reading the
// /aliases node's properties directly, without building a persistent
// alias map.
func resolvePath(root *treedata.Node, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if path[0] == '/' {
		return path, true
	}

	aliases, ok := root.ChildByShortName("aliases")
	if !ok {
		return "", false
	}

	parts := strings.SplitN(path, "/", 2)
	var target string
	found := false
	for _, p := range aliases.Properties {
		if p.Name == parts[0] {
			if s, err := p.AsString(); err == nil {
				target, found = s, true
			}
			break
		}
	}
	if !found {
		return "", false
	}
	if len(parts) == 2 {
		target = strings.TrimRight(target, "/") + "/" + parts[1]
	}
	return target, true
}
