package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packdb/packdb/snapshot"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <snapshot>",
		Short: "Report snapshot container and page layout",
		Long: `The info command validates a snapshot file and displays its container
header, codec, and per-page layout.

Example:
  packctl info state.pkdb
  packctl info state.pkdb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func runInfo(path string) error {
	printVerbose("Inspecting snapshot: %s\n", path)

	info, err := snapshot.Inspect(path)
	if err != nil {
		return fmt.Errorf("failed to inspect snapshot: %w", err)
	}

	if jsonOut {
		return printJSON(info)
	}

	fmt.Printf("Snapshot: %s\n", path)
	fmt.Printf("  Version:    %d\n", info.Version)
	fmt.Printf("  Codec:      %s\n", info.Codec)
	fmt.Printf("  File size:  %s\n", formatSize(info.FileSize))
	fmt.Printf("  Heap size:  %s\n", formatSize(info.HeapBytes))
	fmt.Printf("  Pages:      %d\n", info.PageCount)
	if verbose {
		for i, n := range info.PageBytes {
			fmt.Printf("    page %5d: %d bytes\n", i, n)
		}
	}
	return nil
}

func formatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
