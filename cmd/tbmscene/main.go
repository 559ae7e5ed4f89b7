package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:          "tbmscene",
		Short:        "Scene manager for the TBM panel",
		SilenceUsage: true,
	}
	cmd.AddCommand(newViewCommand(), newInspectCommand())
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
