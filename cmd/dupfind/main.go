package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "dupfind",
		Short:   "Find and optionally remove duplicate files",
		Version: version + " (" + commit + ")",
	}

	root.AddCommand(newDiscoverCmd())

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
