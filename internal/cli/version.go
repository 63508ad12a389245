package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Overridden at build time:
//
//	go build -ldflags "-X github.com/anatolykoptev/go_apply/internal/cli.version=v1.2.0"
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("go_apply %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
