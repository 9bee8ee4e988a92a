package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/model"
	"github.com/existflow/famtodo/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Log status changes and view history",
}

var statusSetCmd = &cobra.Command{
	Use:   "set [task-id] [status]",
	Short: "Log a new status for a task",
	Long: `Append a status change to a task's history. The status is one of:
Not Started, In Progress, Blocked, Ongoing, Completed, Cancelled.

Examples:
  famtodo status set 4 "in progress"
  famtodo status set 4 completed --reason "done early"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runStatusSet,
}

var statusHistoryCmd = &cobra.Command{
	Use:     "history [task-id]",
	Aliases: []string{"log"},
	Short:   "Show a task's status history, newest first",
	Args:    cobra.ExactArgs(1),
	RunE:    runStatusHistory,
}

var (
	statusReason string
	statusExtra  string
)

func init() {
	statusSetCmd.Flags().StringVarP(&statusReason, "reason", "r", "", "Why the status changed")
	statusSetCmd.Flags().StringVar(&statusExtra, "extra", "", "Extra information")

	statusCmd.AddCommand(statusSetCmd)
	statusCmd.AddCommand(statusHistoryCmd)
}

func runStatusSet(cmd *cobra.Command, args []string) error {
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
	if err := database.CheckTask(ctx, profile.ID, taskID); err != nil {
		return fmt.Errorf("task not found: %w", err)
	}

	statuses, err := database.Statuses(ctx)
	if err != nil {
		return err
	}
	status, err := matchStatus(statuses, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	entry, err := database.InsertStatusLog(ctx, taskID, status, statusReason, statusExtra)
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ #%d is now %s\n", taskID, tui.GetStatusStyle(entry.Status).Render(entry.Status))
	return nil
}

func runStatusHistory(cmd *cobra.Command, args []string) error {
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
	if err := database.CheckTask(ctx, profile.ID, taskID); err != nil {
		return fmt.Errorf("task not found: %w", err)
	}

	history, err := database.StatusHistory(ctx, taskID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintf(out, "#%d has no status history (%s)\n", taskID, model.StatusPending)
		return nil
	}
	for _, e := range history {
		line := fmt.Sprintf("  %s  %-12s", e.Timestamp.Local().Format(time.DateTime), e.Status)
		if e.Reason != "" {
			line += "  " + e.Reason
		}
		if e.ExtraInfo != "" {
			line += "  (" + e.ExtraInfo + ")"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// matchStatus maps user input such as "in progress" or "in-progress" to a seeded status name
func matchStatus(statuses []model.Status, input string) (string, error) {
	normalize := func(s string) string {
		return strings.ToLower(strings.Join(strings.FieldsFunc(s, func(r rune) bool {
			return r == ' ' || r == '-' || r == '_'
		}), " "))
	}

	want := normalize(input)
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if normalize(s.Name) == want {
			return s.Name, nil
		}
		names = append(names, s.Name)
	}
	return "", fmt.Errorf("unknown status %q: use one of %s: %w", input, strings.Join(names, ", "), db.ErrNotFound)
}
