package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	config  string
	envFile string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	runCmd := newRunCmd(flags)
	root := &cobra.Command{
		Use:           "mmi",
		Short:         "Track the Ticker Tape Market Mood Index",
		Long:          "Fetches the current Market Mood Index, appends it to the history file, renders the trend chart and regenerates the status document.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCmd.RunE,
	}
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config yaml (default: embedded config)")
	root.PersistentFlags().StringVar(&flags.envFile, "env", ".env", "dotenv file loaded before the config")

	root.AddCommand(runCmd, newScheduleCmd(flags), newProbeCmd(flags), newExportCmd(flags), newEncryptCmd(flags))
	return root
}
