package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/internal/config"
	"github.com/provide-io/gen3save/pkg/backup/operations"
	"github.com/provide-io/gen3save/pkg/utils/fsutil"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := out(cmd)
			source := a.cfg.Source
			if source == "" {
				source = "(defaults, " + config.DefaultPath() + " not found)"
			}
			fmt.Fprintf(w, "source         %s\n", source)
			fmt.Fprintf(w, "game           %s\n", a.cfg.Game)
			fmt.Fprintf(w, "log_level      %s\n", a.cfg.LogLevel)
			fmt.Fprintf(w, "backup.dir     %s\n", a.cfg.BackupRoot())
			fmt.Fprintf(w, "backup.codec   %s (available: %v)\n", a.cfg.BackupCodec, operations.Names())
			fmt.Fprintf(w, "backup.on_save %v\n", a.cfg.BackupOnSave)
			fmt.Fprintf(w, "backup.keep    %d\n", a.cfg.BackupKeep)
			fmt.Fprintf(w, "backup.mode    %s\n", fsutil.FormatMode(a.cfg.BackupFileMode))
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the effective configuration to an ini file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%w: %s exists, use --force to overwrite", errInvalidArgs, path)
			}
			if err := a.cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okText("✅ wrote "+path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
