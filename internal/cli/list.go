package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/model"
	"github.com/existflow/famtodo/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks as a tree",
	Long: `List the current profile's tasks grouped by category, subtasks nested
under their parents. Completed and cancelled tasks are hidden unless --all.

Examples:
  famtodo list
  famtodo list --category Work --category Home
  famtodo list --all --sort due`,
	RunE: runList,
}

var (
	listCategories []string
	listAll        bool
	listSort       string
)

func init() {
	listCmd.Flags().StringArrayVarP(&listCategories, "category", "c", nil, "Only these categories (repeatable)")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include completed and cancelled tasks")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "default", "Sort order: default, status, priority, due")
}

type listOptions struct {
	categories []string
	all        bool
	sort       hierarchy.SortOrder
}

func runList(cmd *cobra.Command, args []string) error {
	order, err := hierarchy.ParseSortOrder(listSort)
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	profile, err := resolveProfile(cmd.Context(), database)
	if err != nil {
		return err
	}

	return printTree(cmd, database, profile, listOptions{
		categories: listCategories,
		all:        listAll,
		sort:       order,
	})
}

func printTree(cmd *cobra.Command, database *db.DB, profile model.Profile, opts listOptions) error {
	ctx := cmd.Context()

	categories, err := database.CategoriesWithPaths(ctx, profile.ID)
	if err != nil {
		return err
	}

	query := db.TreeQuery{ShowCompleted: opts.all, Sort: opts.sort}
	for _, ref := range opts.categories {
		c, err := resolveCategory(categories, ref)
		if err != nil {
			return err
		}
		query.CategoryIDs = append(query.CategoryIDs, c.ID)
	}

	rows, err := database.FetchTaskTree(ctx, profile.ID, query)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	paths := make(map[int64]string, len(categories))
	for _, c := range categories {
		paths[c.ID] = c.FullPath
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n\n", tui.HeaderStyle.Render(profile.Name+"'s Todo List"))
	if len(rows) == 0 {
		fmt.Fprintln(out, "No tasks found. Add one with: famtodo add \"Your task\"")
		return nil
	}
	fmt.Fprintln(out, tui.RenderTree(tui.TreeView{
		Rows:          rows,
		CategoryPaths: paths,
		Filtered:      len(query.CategoryIDs) > 0,
		Now:           time.Now(),
	}))
	fmt.Fprintln(out)
	return nil
}
