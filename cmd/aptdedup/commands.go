package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/aptdedup/internal/version"
	"github.com/arthur-debert/aptdedup/pkg/commands/apply"
	"github.com/arthur-debert/aptdedup/pkg/commands/backups"
	"github.com/arthur-debert/aptdedup/pkg/commands/scan"
	"github.com/arthur-debert/aptdedup/pkg/commands/undo"
	"github.com/arthur-debert/aptdedup/pkg/commands/waitlock"
	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/types"
	"github.com/arthur-debert/aptdedup/pkg/ui/confirmations"
)

type configLoader func() (config.Config, error)

func newScanCmd(loadConfig configLoader, format *string) *cobra.Command {
	return &cobra.Command{
		Use:     "scan [file...]",
		Short:   MsgScanShort,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			result, err := scan.Scan(scan.Options{
				Config: cfg,
				Files:  args,
				Glob:   filepath.Glob,
			})
			if err != nil {
				return err
			}

			renderScanResult(cmd.OutOrStdout(), result, *format)
			return nil
		},
	}
}

func newApplyCmd(loadConfig configLoader, format *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "apply [file...]",
		Short:   MsgApplyShort,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			result, err := apply.Apply(cmd.Context(), apply.Options{
				Config: cfg,
				Files:  args,
				DryRun: dryRun,
				Glob:   filepath.Glob,
			})
			if result != nil {
				renderApplyResult(cmd.OutOrStdout(), result, *format)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	return cmd
}

func newUndoCmd(loadConfig configLoader) *cobra.Command {
	var (
		backupID string
		markers  bool
	)

	cmd := &cobra.Command{
		Use:     "undo [file...]",
		Short:   MsgUndoShort,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			result, err := undo.Undo(undo.Options{
				Config:   cfg,
				BackupID: backupID,
				Markers:  markers,
				Files:    args,
				Glob:     filepath.Glob,
			})
			if err != nil {
				return err
			}

			if len(result.Restored) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNothingToUndo)
				return nil
			}
			for _, file := range result.Restored {
				fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", file)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backupID, "backup", "", MsgFlagBackupID)
	cmd.Flags().BoolVar(&markers, "markers", false, MsgFlagMarkers)
	return cmd
}

func newWaitLockCmd(loadConfig configLoader) *cobra.Command {
	var (
		timeout  time.Duration
		interval time.Duration
		yes      bool
	)

	cmd := &cobra.Command{
		Use:     "wait-lock",
		Short:   MsgWaitLockShort,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var confirmer types.Confirmer = confirmations.NewConsoleDialog()
			if yes {
				confirmer = autoConfirmer{}
			}

			_, err = waitlock.Wait(cmd.Context(), waitlock.Options{
				Config:       cfg,
				Timeout:      timeout,
				PollInterval: interval,
				Confirmer:    confirmer,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), MsgLockFree)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, MsgFlagTimeout)
	cmd.Flags().DurationVar(&interval, "poll-interval", 0, MsgFlagInterval)
	cmd.Flags().BoolVar(&yes, "yes", false, MsgFlagYes)
	return cmd
}

// autoConfirmer grants consent unconditionally; only reachable behind
// the explicit --yes flag.
type autoConfirmer struct{}

func (autoConfirmer) ConfirmKill(resource string, holders []int32) bool { return true }

func newBackupsCmd(loadConfig configLoader, format *string) *cobra.Command {
	return &cobra.Command{
		Use:     "backups",
		Short:   MsgBackupsShort,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			result, err := backups.List(backups.Options{Config: cfg})
			if err != nil {
				return err
			}

			renderBackupList(cmd.OutOrStdout(), result, *format)
			return nil
		},
	}
}

func newGenconfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenconfigShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.DefaultTOML())
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aptdedup version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     MsgCompletionShort,
		GroupID:   "misc",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
