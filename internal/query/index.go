package query

import (
	"strings"

	"github.com/gofdt/fdt/internal/treedata"
)

// Index is the indexed (cached) view described in §4.4: a flat,
// pre-order node array plus a phandle map, an alias map, a
// compatible-string inverted index and a path index, all built in one
// depth-first pass. It is immutable once built and safe to share
// read-only across goroutines (§5).
type Index struct {
	Root        *treedata.Node
	All         []*treedata.Node // pre-order
	Phandles    map[uint32]*treedata.Node
	Aliases     map[string]string // alias name -> absolute path
	Compatibles map[string][]*treedata.Node
	Paths       map[string]*treedata.Node
}

// BuildIndex performs the one-pass build described by §4.4.
func BuildIndex(structBlock, strings_ []byte, dup DuplicateHandler) (*Index, error) {
	root, all, phandles, err := Build(structBlock, strings_, dup)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		Root:        root,
		All:         all,
		Phandles:    phandles,
		Aliases:     map[string]string{},
		Compatibles: map[string][]*treedata.Node{},
		Paths:       map[string]*treedata.Node{},
	}

	for _, n := range all {
		idx.Paths[n.FullPath] = n
		for _, c := range n.Compatibles() {
			idx.Compatibles[c] = append(idx.Compatibles[c], n)
		}
	}

	if aliases, ok := root.ChildByShortName("aliases"); ok {
		for _, p := range aliases.Properties {
			if v, err := p.AsString(); err == nil {
				idx.Aliases[p.Name] = v
			}
		}
	}

	return idx, nil
}

// GetByPath resolves an absolute path or an alias-form path (the first
// path component substituted via /aliases, §4.10).
func (idx *Index) GetByPath(path string) (*treedata.Node, bool) {
	if path == "" {
		return nil, false
	}
	if path[0] != '/' {
		parts := strings.SplitN(path, "/", 2)
		target, ok := idx.Aliases[parts[0]]
		if !ok {
			return nil, false
		}
		if len(parts) == 2 {
			target = strings.TrimRight(target, "/") + "/" + parts[1]
		}
		path = target
	}
	n, ok := idx.Paths[path]
	return n, ok
}

// FindCompatible returns every node whose "compatible" list intersects
// list, in document (pre-order) order, without duplicates.
func (idx *Index) FindCompatible(list []string) []*treedata.Node {
	seen := map[*treedata.Node]bool{}
	var matched []*treedata.Node
	for _, want := range list {
		for _, n := range idx.Compatibles[want] {
			if !seen[n] {
				seen[n] = true
				matched = append(matched, n)
			}
		}
	}
	// Re-sort into document order: Compatibles lists are themselves
	// built in document order per key, but merging across multiple
	// `want` keys can interleave them out of order, so stabilize against
	// the master pre-order array.
	order := make(map[*treedata.Node]int, len(idx.All))
	for i, n := range idx.All {
		order[n] = i
	}
	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && order[matched[j-1]] > order[matched[j]]; j-- {
			matched[j-1], matched[j] = matched[j], matched[j-1]
		}
	}
	return matched
}

// ByPhandle resolves a phandle to its defining node (§3: first
// definition wins on duplicates; reserved values are never registered).
func (idx *Index) ByPhandle(p uint32) (*treedata.Node, bool) {
	n, ok := idx.Phandles[p]
	return n, ok
}
