// Package main provides fdtdump, a command-line utility that decodes a
// Flattened Device Tree blob and prints its canonical Device Tree
// Source text, the way the teacher's cmd/dump_hdf5 inspects an HDF5
// file from the shell.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gofdt/fdt"
)

func main() {
	input := flag.String("input", "", "path to a DTB file (required)")
	output := flag.String("output", "", "path to write DTS text (default: stdout)")
	minVersion := flag.Uint("min-version", 17, "reject blobs with a header version below this")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: fdtdump --input <file.dtb> [--output <file.dts>]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	//nolint:gosec // G304: user-provided path is the whole point of this CLI
	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("reading %s: %v", *input, err)
	}

	f, err := fdt.Decode(raw, fdt.WithMinVersion(uint32(*minVersion)))
	if err != nil {
		log.Fatalf("decoding %s: %v", *input, err)
	}

	dts := f.ToEditable().WriteDTS()

	if *output == "" {
		fmt.Print(dts)
		return
	}
	if err := os.WriteFile(*output, []byte(dts), 0o644); err != nil {
		log.Fatalf("writing %s: %v", *output, err)
	}
}
