// Package fdt decodes, queries and edits Flattened Device Tree (DTB)
// blobs conforming to the Devicetree Specification v0.4. It is a thin
// public surface over internal/rawfdt (header/token decoding),
// internal/query (streaming and indexed node views), internal/binding
// (reg/ranges, interrupts, PCI, clocks, chosen/aliases/memory/cpus) and
// internal/editfdt (the mutable tree, DTB encoder and DTS emitter).
package fdt
