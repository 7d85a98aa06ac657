package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subfetch/internal/moviehash"
)

func newHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>...",
		Short: "Print the content fingerprint used for hash-based search",
		Long:  "Compute the 64-bit content hash and byte size for video files without contacting the subtitle database.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				fp, err := moviehash.Compute(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %12s  %s\n", fp.Hex(), fp.SizeString(), path)
			}
			return nil
		},
	}
}
