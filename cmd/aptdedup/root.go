package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/aptdedup/internal/version"
	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var (
		verbosity  int
		configPath string
		format     string
	)

	rootCmd := &cobra.Command{
		Use:     "aptdedup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", MsgFlagFormat)

	loadConfig := func() (config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newScanCmd(loadConfig, &format))
	rootCmd.AddCommand(newApplyCmd(loadConfig, &format))
	rootCmd.AddCommand(newUndoCmd(loadConfig))
	rootCmd.AddCommand(newWaitLockCmd(loadConfig))
	rootCmd.AddCommand(newBackupsCmd(loadConfig, &format))
	rootCmd.AddCommand(newGenconfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}
