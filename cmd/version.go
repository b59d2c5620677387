package cmd

import (
	"github.com/bnema/yarrbar/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Version info set at build time with -ldflags
	Version = "0.1.0-dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		logger.Infof("yarrbar %s", Version)
		logger.Infof("commit: %s", Commit)
		logger.Infof("built: %s", Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
