package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roadboard/config"
	"roadboard/storage"
)

var snapshotDBPath string

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Archive loaded roadmap tables in a SQLite database",
	Long: `Save, list and delete snapshots of the normalized roadmap table.

A snapshot database can be used as a source itself; it then loads the latest
snapshot, e.g. "roadboard serve --source ./roadboard.db".`,
	Example: `
  # Archive the configured source
  roadboard snapshot save

  # List stored snapshots
  roadboard snapshot list

  # Delete one snapshot (requires interactive confirmation)
  roadboard snapshot delete 3

  # Delete the complete snapshot database file
  roadboard snapshot purge --db ./roadboard.db
`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store the current source as a new snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadSession()
		if err != nil {
			return err
		}
		table, err := rt.source.Table(cmd.Context())
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveSnapshotDBPath(rt.cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		snapshot, err := store.SaveSnapshot(rt.source.Source().Path, table)
		if err != nil {
			return err
		}
		rt.logger.Info("snapshot saved", "id", snapshot.ID, "records", snapshot.RecordCount)
		fmt.Printf("Snapshot %d saved. Records: %d, Source: %s\n", snapshot.ID, snapshot.RecordCount, snapshot.Source)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(resolveSnapshotDBPath(nil))
		if err != nil {
			return err
		}
		defer store.Close()

		snapshots, err := store.ListSnapshots()
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No snapshots stored.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tRECORDS\tSOURCE")
		for _, snapshot := range snapshots {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", snapshot.ID, snapshot.CreatedAt.Local().Format("2006-01-02 15:04"), snapshot.RecordCount, snapshot.Source)
		}
		return tw.Flush()
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid snapshot id %q", args[0])
		}

		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("snapshot %d", id))
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		store, err := storage.OpenSQLite(resolveSnapshotDBPath(nil))
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteSnapshot(id)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: %d", storage.ErrSnapshotNotFound, id)
		}
		fmt.Printf("Deleted snapshot %d\n", id)
		return nil
	},
}

var snapshotPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the complete snapshot database file",
	Long: `Destructive cleanup command.

This command deletes the complete SQLite snapshot database file.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveSnapshotDBPath(nil)
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, "database file "+strconv.Quote(path))
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if err := removeDatabaseFile(path); err != nil {
			return err
		}
		fmt.Printf("Deleted database file: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotDeleteCmd, snapshotPurgeCmd)

	snapshotCmd.PersistentFlags().StringVar(&snapshotDBPath, "db", "", "Path to the snapshot SQLite database (default from snapshot.db_path)")
}

// resolveSnapshotDBPath prefers --db, then the validated config, then the
// raw viper value. cfg may be nil for commands that do not load a source.
func resolveSnapshotDBPath(cfg *config.Config) string {
	if strings.TrimSpace(snapshotDBPath) != "" {
		return snapshotDBPath
	}
	if cfg != nil && cfg.Snapshot.DBPath != "" {
		return cfg.Snapshot.DBPath
	}
	return viper.GetString(config.KeySnapshotDBPath)
}

func confirmDeletePrompt(input io.Reader, output io.Writer, target string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}
	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", target); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
