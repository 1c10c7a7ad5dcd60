package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repo3d/repo3d/cmd/service"
)

func main() {
	root := &cobra.Command{
		Use:   "repo3d",
		Short: "repo3d model management service",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(cmd.UsageString())
		},
	}

	root.AddCommand(service.NewCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
