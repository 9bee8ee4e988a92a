package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/famtodo/internal/db"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to the current profile. A subtask inherits its parent's
category unless --category is given.

Examples:
  famtodo add "Buy groceries"
  famtodo add "Standup" --category "Work > Meetings" -p 3 --threat low
  famtodo add "Book hotel" --parent 12 --due 2026-05-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addParent   int64
	addCategory string
	addPriority int
	addThreat   string
	addDue      string
	addDesc     string
)

func init() {
	addCmd.Flags().Int64Var(&addParent, "parent", 0, "Parent task id")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category (path, name or id)")
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", 0, "Priority (1=very low, 5=very high)")
	addCmd.Flags().StringVarP(&addThreat, "threat", "t", "", "Threat level (low, medium, high)")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (e.g., 'tomorrow', '2026-01-15')")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Description")
}

func runAdd(cmd *cobra.Command, args []string) error {
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

	in := db.TaskInput{
		Title:       strings.Join(args, " "),
		Description: addDesc,
	}

	if in.DueDate, err = parseDue(addDue, time.Now()); err != nil {
		return err
	}

	if addParent != 0 {
		parentID := addParent
		in.ParentID = &parentID
		if in.CategoryID, err = database.TaskCategory(ctx, profile.ID, parentID); err != nil {
			return fmt.Errorf("parent task: %w", err)
		}
	}

	if addCategory != "" {
		categories, err := database.CategoriesWithPaths(ctx, profile.ID)
		if err != nil {
			return err
		}
		category, err := resolveCategory(categories, addCategory)
		if err != nil {
			return err
		}
		in.CategoryID = &category.ID
	}

	if addPriority != 0 {
		priority, err := database.PriorityByLevel(ctx, addPriority)
		if err != nil {
			return fmt.Errorf("priority must be 1-5: %w", err)
		}
		in.PriorityID = &priority.ID
	}

	if addThreat != "" {
		threat, err := database.ThreatByLevel(ctx, strings.ToLower(addThreat))
		if err != nil {
			return fmt.Errorf("threat must be low, medium or high: %w", err)
		}
		in.ThreatID = &threat.ID
	}

	id, err := database.InsertTask(ctx, profile.ID, in)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added #%d: %q\n", id, strings.TrimSpace(in.Title))
	return nil
}

// parseDue accepts YYYY-MM-DD, today, tomorrow, or none/tbd for no date
func parseDue(s string, now time.Time) (*time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch s {
	case "", "none", "tbd":
		return nil, nil
	case "today":
		return &today, nil
	case "tomorrow":
		t := today.AddDate(0, 0, 1)
		return &t, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: use YYYY-MM-DD, today, tomorrow or none", s)
	}
	return &t, nil
}
