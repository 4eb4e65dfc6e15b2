package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/provide-io/gen3save/internal/config"
	"github.com/provide-io/gen3save/pkg/gen3"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list, restore and prune save backups",
	}
	cmd.AddCommand(
		newBackupCreateCmd(a),
		newBackupListCmd(a),
		newBackupRestoreCmd(a),
		newBackupPruneCmd(a),
	)
	return cmd
}

func newBackupCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create SAVE",
		Short: "Store a compressed copy of a save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.backupStore()
			if err != nil {
				return err
			}
			entry, err := store.Create(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), okText(fmt.Sprintf("📦 %s  %s  %s", entry.ShortID(), entry.Codec, entry.File)))
			return nil
		},
	}
}

func newBackupListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [SAVE]",
		Short: "List backups, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.backupStore()
			if err != nil {
				return err
			}
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			entries, err := store.List(source)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out(cmd), "no backups")
				return nil
			}
			tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tCODEC\tSOURCE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ShortID(), e.Created.Format("2006-01-02 15:04:05"), e.Codec, e.Source)
			}
			return tw.Flush()
		},
	}
}

func newBackupRestoreCmd(a *app) *cobra.Command {
	var dst string

	cmd := &cobra.Command{
		Use:   "restore ID",
		Short: "Restore a backup over its original save or to --to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.backupStore()
			if err != nil {
				return err
			}
			entry, err := store.Get(args[0])
			if err != nil {
				return err
			}
			data, err := store.Read(entry)
			if err != nil {
				return err
			}
			// Refuse to restore bytes that are not a readable save
			if _, err := gen3.Decode(data, gen3.Options{Game: a.cfg.ParsedGame(), Logger: a.logger}); err != nil {
				return fmt.Errorf("backup %s: %w", entry.ShortID(), err)
			}
			if _, err := store.Restore(entry.ID.String(), dst); err != nil {
				return err
			}
			target := dst
			if target == "" {
				target = entry.Source
			}
			fmt.Fprintln(out(cmd), okText(fmt.Sprintf("♻️ restored %s to %s", entry.ShortID(), target)))
			return nil
		},
	}
	cmd.Flags().StringVar(&dst, "to", "", "Write the restored save here instead of the original path")
	return cmd
}

func newBackupPruneCmd(a *app) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune [SAVE]",
		Short: "Delete all but the newest backups of each save",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.backupStore()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = a.cfg.BackupKeep
			}
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			removed, err := store.Prune(source, keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "removed %d backup(s)\n", len(removed))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", config.DefaultBackupKeep, "Backups to keep per save")
	return cmd
}
