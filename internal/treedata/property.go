// Package treedata holds the shared node/property data model consumed by
// the query, binding and edit/encode layers, and re-exported by the root
// package as the public Node/Property types.
package treedata

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/gofdt/fdt/internal/utils"
)

// Property is a (name, raw bytes) pair. Typed views are computed on
// demand from Value, which may be a slice borrowed from the original
// blob (decode path) or owned (edit path).
type Property struct {
	Name  string
	Value []byte
}

// AsU32 decodes the property as a single big-endian 32-bit cell. It fails
// unless the raw length is exactly 4 bytes (§4.5).
func (p Property) AsU32() (uint32, error) {
	if len(p.Value) != 4 {
		return 0, utils.AtPath(utils.KindBadPropertyLength, "expected 4-byte property", p.Name)
	}
	return utils.U32(p.Value, 0), nil
}

// AsU64 decodes the property as a single big-endian 64-bit value. It
// fails unless the raw length is exactly 8 bytes.
func (p Property) AsU64() (uint64, error) {
	if len(p.Value) != 8 {
		return 0, utils.AtPath(utils.KindBadPropertyLength, "expected 8-byte property", p.Name)
	}
	return utils.U64(p.Value, 0), nil
}

// AsPhandle decodes the property as a phandle reference; identical rules
// to AsU32.
func (p Property) AsPhandle() (uint32, error) {
	return p.AsU32()
}

// AsString decodes the property as a single NUL-terminated UTF-8 string.
// The raw bytes must end with exactly one NUL and contain no interior
// NUL (§4.5).
func (p Property) AsString() (string, error) {
	if len(p.Value) == 0 || p.Value[len(p.Value)-1] != 0 {
		return "", utils.AtPath(utils.KindNotNulTerminated, "property is not NUL-terminated", p.Name)
	}
	body := p.Value[:len(p.Value)-1]
	if bytes.IndexByte(body, 0) >= 0 {
		return "", utils.AtPath(utils.KindNotNulTerminated, "property contains interior NUL", p.Name)
	}
	if !utf8.Valid(body) {
		return "", utils.AtPath(utils.KindNotUtf8, "property is not valid UTF-8", p.Name)
	}
	return string(body), nil
}

// AsStringList decodes the property as a sequence of NUL-separated
// strings; the raw bytes must end with a NUL and every segment must be
// valid UTF-8 (§4.5).
func (p Property) AsStringList() ([]string, error) {
	if len(p.Value) == 0 || p.Value[len(p.Value)-1] != 0 {
		return nil, utils.AtPath(utils.KindNotNulTerminated, "property is not NUL-terminated", p.Name)
	}
	body := p.Value[:len(p.Value)-1]
	parts := strings.Split(string(body), "\x00")
	for _, part := range parts {
		if !utf8.ValidString(part) {
			return nil, utils.AtPath(utils.KindNotUtf8, "property segment is not valid UTF-8", p.Name)
		}
	}
	return parts, nil
}

// AsCells decodes the property as a sequence of big-endian 32-bit words;
// the raw length must be a multiple of 4 (§4.5).
func (p Property) AsCells() ([]uint32, error) {
	if len(p.Value)%4 != 0 {
		return nil, utils.AtPath(utils.KindBadPropertyLength, "property length is not a multiple of 4", p.Name)
	}
	out := make([]uint32, len(p.Value)/4)
	for i := range out {
		out[i] = utils.U32(p.Value, i*4)
	}
	return out, nil
}

// IsEmpty reports whether the property carries a zero-length value
// (renders as `name;` in DTS, §4.12).
func (p Property) IsEmpty() bool {
	return len(p.Value) == 0
}
