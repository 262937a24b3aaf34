package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/packdb/packdb/snapshot"
)

var (
	dumpOffset int
	dumpLength int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpOffset, "offset", 0, "Byte offset within the page")
	cmd.Flags().IntVar(&dumpLength, "length", 256, "Number of bytes to dump (0 = whole page)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <snapshot> <page>",
		Short: "Hex-dump one page of a snapshot",
		Long: `The dump command prints a hex/ASCII dump of a single heap page.

Example:
  packctl dump state.pkdb 0
  packctl dump state.pkdb 3 --offset 4096 --length 64`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid page index %q: %w", args[1], err)
			}
			return runDump(args[0], uint32(page))
		},
	}
}

func runDump(path string, page uint32) error {
	h, err := snapshot.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if page >= h.PageCount() {
		return fmt.Errorf("page %d out of range: snapshot has %d pages", page, h.PageCount())
	}

	data := h.Page(page)
	if dumpOffset < 0 || dumpOffset > len(data) {
		return fmt.Errorf("offset %d out of range: page is %d bytes", dumpOffset, len(data))
	}
	data = data[dumpOffset:]
	if dumpLength > 0 && dumpLength < len(data) {
		data = data[:dumpLength]
	}

	printVerbose("Page %d, %d bytes at offset %d:\n", page, len(data), dumpOffset)
	dumper := hex.Dumper(os.Stdout)
	defer dumper.Close()
	_, err = dumper.Write(data)
	return err
}
