package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/careerclimb/careerclimb/cli/internal/output"
	"github.com/careerclimb/careerclimb/services/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage your saved results",
}

func requireUser() error {
	if cfg.UserID == "" {
		return fmt.Errorf("history commands need a user: pass --user or set CAREERCLIMB_USER_ID")
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent history items",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		items, err := api.ListHistory(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		w := writer(cmd)
		if w.Structured() {
			return w.Print(items)
		}

		table := output.Table{
			Headers: []string{"ID", "TYPE", "SCORE", "PROVIDER", "CREATED", "INPUT"},
			Rows:    make([][]string, len(items)),
		}
		for i, item := range items {
			score := "-"
			if item.Score != nil {
				score = strconv.Itoa(*item.Score)
			}
			table.Rows[i] = []string{
				shortID(item.ID),
				item.Type,
				score,
				item.Provider,
				item.CreatedAt.Local().Format("2006-01-02 15:04"),
				output.Truncate(item.Input, 40),
			}
		}
		return w.Print(table)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all history items as JSON",
	Long: `Export every history item as a JSON document. Without --file the
document is written to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("file")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if path == "" {
			return api.ExportHistory(ctx, cmd.OutOrStdout())
		}
		if path == "." {
			path = history.ExportFilename(time.Now())
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()

		if err := api.ExportHistory(ctx, f); err != nil {
			return fmt.Errorf("failed to export history: %w", err)
		}
		output.Success("history exported to %s", path)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one history item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := api.DeleteHistoryItem(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		output.Success("deleted %s", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history item",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to clear history without --yes")
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := api.ClearHistory(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		output.Success("history cleared")
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "Maximum number of items")
	historyExportCmd.Flags().StringP("file", "f", "", `Write to a file; "." picks career_history_<date>.json`)
	historyClearCmd.Flags().Bool("yes", false, "Confirm deletion")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
