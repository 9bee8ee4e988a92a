package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/famtodo/internal/tui"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show one task with its details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
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

	task, err := database.TaskDetails(ctx, profile.ID, taskID)
	if err != nil {
		return fmt.Errorf("task not found: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n#%d %s\n", task.ID, tui.TaskLabel(task.TaskRow, time.Now(), 0))

	category := "Uncategorized"
	if task.CategoryPath != "" {
		category = task.CategoryPath
	}
	fmt.Fprintf(out, "  Category:  %s\n", category)
	if task.PriorityDescription != "" {
		fmt.Fprintf(out, "  Priority:  %s\n", task.PriorityDescription)
	}
	if task.ThreatDescription != "" {
		fmt.Fprintf(out, "  Threat:    %s\n", task.ThreatDescription)
	}
	if task.ParentID != nil {
		fmt.Fprintf(out, "  Parent:    #%d\n", *task.ParentID)
	}
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintln(out)
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(out, "  > %s\n", line)
		}
	}
	fmt.Fprintln(out)
	return nil
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
