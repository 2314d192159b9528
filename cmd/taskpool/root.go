package main

import (
	"github.com/spf13/cobra"
)

// set with -ldflags "-X main.version=..."
var version = "v0.0.0"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "taskpool",
		Short:        "Exercise a fixed size worker pool",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCommand(), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}
