package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xptrack/internal/ui"
)

const Version = "0.1.0"

var configPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "xp",
		Short:         "Recurring tasks that level you up",
		Long:          "xp tracks recurring tasks that reset on a schedule and award XP toward levels with user-defined rewards.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XP_HOME/config.yaml or ~/.xp/config.yaml)")

	rootCmd.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newDoCmd(),
		newEditCmd(),
		newRmCmd(),
		newMvCmd(),
		newListCmd(),
		newStatusCmd(),
		newStatsCmd(),
		newRewardCmd(),
		newSweepCmd(),
		newSyncCmd(),
		newBoardCmd(),
		newServeCmd(),
		newSignoutCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
