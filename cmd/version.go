package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the remora version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("remora %s\n", Version)
	},
}
