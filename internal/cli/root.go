package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "playtracker",
		Short: "User accounts and game-play tracking web application",
		Long: `playtracker serves a small web application where users sign up, log in
and record tetris and cod plays, and administrators rank and remove users.

Configuration is read from a .env file, then the environment, then flags.`,
		SilenceUsage: true,
	}

	f.register(rootCmd)

	rootCmd.AddCommand(newServeCmd(f))
	rootCmd.AddCommand(newBootstrapCmd(f))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
