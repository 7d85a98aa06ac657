package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages the subtitle database accepts",
		Long:  "Query the subtitle database for its language catalog and print the codes usable with --lang.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.dialClient()
			if err != nil {
				return err
			}
			defer client.Close()

			languages, err := client.Languages()
			if err != nil {
				return fmt.Errorf("list languages: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), languageTable(languages))
			return nil
		},
	}
}
