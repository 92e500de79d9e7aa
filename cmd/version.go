package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"kvcore/internal/stats"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var str = `
Version: %s
Commit: %s
Build date: %s
GOOS: %s-%s`

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(
			cmd.OutOrStdout(),
			str+"\n",
			stats.Version,
			stats.Commit,
			stats.BuildDate,
			runtime.GOOS,
			runtime.GOARCH,
		)
	},
}
