package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "peakmatch",
		Short:         "Match predicted compounds to observed chromatography peaks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newMatchCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
