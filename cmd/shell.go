package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"kvcore/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell [command...]",
	Short: "Interactive shell over an in-process store",
	Long: `Start an interactive shell backed by a fresh in-memory store.

Examples:
  kvcore shell
  kvcore shell PUSH queue a b c
  kvcore shell --eval "ZADD board 10 alice"
  kvcore shell --file commands.txt
  cat commands.txt | kvcore shell --pipe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newInstance(appConfig)
		sh := shell.New(rt.registry, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), getBoolFlag(cmd, "raw"))
		return sh.Run(shellConfig(cmd), args)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().Bool("raw", false, "Use raw formatting for replies")
	shellCmd.Flags().String("eval", "", "Execute a single command")
	shellCmd.Flags().String("file", "", "Execute commands from file")
	shellCmd.Flags().Bool("pipe", false, "Pipe mode - read from stdin and write to stdout")
}

func shellConfig(cmd *cobra.Command) *shell.Config {
	return &shell.Config{
		Eval: getStringFlag(cmd, "eval", ""),
		File: getStringFlag(cmd, "file", ""),
		Pipe: getBoolFlag(cmd, "pipe"),
	}
}
