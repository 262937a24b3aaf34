package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packdb/packdb/snapshot"
)

var convertCodec string

func init() {
	cmd := newConvertCmd()
	cmd.Flags().StringVar(&convertCodec, "codec", "s2", "Target codec: raw or s2")
	rootCmd.AddCommand(cmd)
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a snapshot with a different codec",
		Long: `The convert command rewrites a snapshot under another payload codec.
Raw snapshots support zero-copy mapped loading; s2 snapshots are smaller.

Example:
  packctl convert state.pkdb state-raw.pkdb --codec raw`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], args[1])
		},
	}
}

func runConvert(in, out string) error {
	var codec snapshot.Codec
	switch convertCodec {
	case "raw":
		codec = snapshot.CodecRaw
	case "s2":
		codec = snapshot.CodecS2
	default:
		return fmt.Errorf("unknown codec %q (want raw or s2)", convertCodec)
	}

	h, err := snapshot.Load(in)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	printVerbose("Rewriting %s -> %s as %s\n", in, out, codec)
	if err := snapshot.Save(out, h, &snapshot.Options{Codec: codec}); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
