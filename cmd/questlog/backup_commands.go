package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"questlog/internal/config"
	"questlog/internal/library"
	"questlog/internal/textutil"
)

func newBackupCommand(ctx *commandContext) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import library backups",
	}
	backupCmd.AddCommand(newBackupExportCommand(ctx))
	backupCmd.AddCommand(newBackupImportCommand(ctx))
	return backupCmd
}

func newBackupExportCommand(ctx *commandContext) *cobra.Command {
	var targetPath string
	var label string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the library to a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = filepath.Join(cfg.Paths.BackupDir, backupFileName(label, time.Now()))
			} else if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve backup path: %w", err)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create backup directory: %w", err)
			}

			return ctx.withStore(func(store *library.Store) error {
				tmp := target + ".tmp"
				file, err := os.Create(tmp)
				if err != nil {
					return fmt.Errorf("create backup file: %w", err)
				}
				doc, err := store.Export(cmd.Context(), file)
				if closeErr := file.Close(); err == nil {
					err = closeErr
				}
				if err != nil {
					_ = os.Remove(tmp)
					return err
				}
				if err := os.Rename(tmp, target); err != nil {
					return fmt.Errorf("finalize backup file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d games and %d owned DLC to %s\n",
					len(doc.Games), len(doc.OwnedDLCs), target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination file (defaults to the backup directory)")
	cmd.Flags().StringVar(&label, "label", "", "Label appended to the default file name")
	return cmd
}

func newBackupImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a JSON backup into the library",
		Long: "Games already in the library (same catalog id and platform) are skipped.\n" +
			"A malformed backup is rejected before anything is written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve backup path: %w", err)
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer file.Close()

			doc, err := library.DecodeBackup(file)
			if err != nil {
				return fmt.Errorf("backup %s rejected: %w", filepath.Base(path), err)
			}
			return ctx.withStore(func(store *library.Store) error {
				result, err := store.MergeBackup(cmd.Context(), doc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d games (%d already present) and %d owned DLC\n",
					result.Inserted, result.Skipped, result.DLCsInserted)
				return nil
			})
		},
	}
}

func backupFileName(label string, now time.Time) string {
	name := "questlog-" + now.UTC().Format("20060102-150405")
	if slug := textutil.Slug(label); slug != "" {
		name += "-" + slug
	}
	return name + ".json"
}
