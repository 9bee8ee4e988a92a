package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a task's description or due date",
}

var editDescCmd = &cobra.Command{
	Use:   "desc [task-id] [text]",
	Short: "Replace a task's description (no text clears it)",
	Long: `Replace a task's description. Without text the description is cleared.

Examples:
  famtodo edit desc 4 "Bring the blue folder"
  famtodo edit desc 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEditDesc,
}

var editDueCmd = &cobra.Command{
	Use:   "due [task-id] [date]",
	Short: "Set or clear a task's due date",
	Long: `Set a task's due date, or clear it with "none".

Examples:
  famtodo edit due 4 2026-05-01
  famtodo edit due 4 tomorrow
  famtodo edit due 4 none`,
	Args: cobra.ExactArgs(2),
	RunE: runEditDue,
}

func init() {
	editCmd.AddCommand(editDescCmd)
	editCmd.AddCommand(editDueCmd)
}

func runEditDesc(cmd *cobra.Command, args []string) error {
	taskID, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	ctx := cmd.Context()
	profile, err := resolveProfile(ctx, database)
	if err != nil {
		return err
	}

	desc := strings.Join(args[1:], " ")
	if err := database.UpdateTaskDescription(ctx, profile.ID, taskID, desc); err != nil {
		return fmt.Errorf("failed to update description: %w", err)
	}

	if strings.TrimSpace(desc) == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared description of #%d\n", taskID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated description of #%d\n", taskID)
	}
	return nil
}

func runEditDue(cmd *cobra.Command, args []string) error {
	taskID, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	due, err := parseDue(args[1], time.Now())
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	ctx := cmd.Context()
	profile, err := resolveProfile(ctx, database)
	if err != nil {
		return err
	}

	if err := database.UpdateTaskDueDate(ctx, profile.ID, taskID, due); err != nil {
		return fmt.Errorf("failed to update due date: %w", err)
	}

	label := "TBD"
	if due != nil {
		label = due.Format(time.DateOnly)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Due date of #%d: %s\n", taskID, label)
	return nil
}
