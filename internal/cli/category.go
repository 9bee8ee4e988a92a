package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/famtodo/internal/model"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
	Long: `Create, list and delete categories. Categories nest: a category given by
its full path ("Work > Meetings"), its name or its id can be used wherever a
category is expected.`,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a category",
	Long: `Create a category, optionally nested under a parent.

Examples:
  famtodo category add Work
  famtodo category add Meetings --parent Work`,
	Args: cobra.ExactArgs(1),
	RunE: runCategoryAdd,
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories with their full paths",
	RunE:    runCategoryList,
}

var categoryDeleteCmd = &cobra.Command{
	Use:     "delete [category]",
	Aliases: []string{"rm"},
	Short:   "Delete a category",
	Long: `Delete a category. Its sub-categories become top-level and its tasks
become uncategorized; nothing else is deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCategoryDelete,
}

var (
	categoryParent string
	categoryYes    bool
)

func init() {
	categoryAddCmd.Flags().StringVar(&categoryParent, "parent", "", "Parent category (path, name or id)")
	categoryDeleteCmd.Flags().BoolVarP(&categoryYes, "yes", "y", false, "Skip confirmation")

	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
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

	var parentID *int64
	if categoryParent != "" {
		categories, err := database.CategoriesWithPaths(ctx, profile.ID)
		if err != nil {
			return err
		}
		parent, err := resolveCategory(categories, categoryParent)
		if err != nil {
			return err
		}
		parentID = &parent.ID
	}

	category, err := database.InsertCategory(ctx, profile.ID, args[0], parentID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created category #%d: %s\n", category.ID, category.Name)
	return nil
}

func runCategoryList(cmd *cobra.Command, args []string) error {
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

	categories, err := database.CategoriesWithPaths(ctx, profile.ID)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(categories) == 0 {
		fmt.Fprintln(out, "No categories yet. Add one with: famtodo category add <name>")
		return nil
	}
	for _, c := range categories {
		fmt.Fprintf(out, "  %4d  %s\n", c.ID, c.FullPath)
	}
	return nil
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
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

	categories, err := database.CategoriesWithPaths(ctx, profile.ID)
	if err != nil {
		return err
	}
	category, err := resolveCategory(categories, args[0])
	if err != nil {
		return err
	}

	if cfg.ConfirmDelete && !categoryYes {
		question := fmt.Sprintf("Delete category '%s'?", category.FullPath)
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	result := database.DeleteCategory(ctx, profile.ID, category.ID)
	if !result.Deleted {
		return fmt.Errorf("%s", result.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", result.Message)
	return nil
}

// resolveCategory finds a category by id, full path or unique name
func resolveCategory(categories []model.Category, ref string) (model.Category, error) {
	ref = strings.TrimSpace(ref)

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, c := range categories {
			if c.ID == id {
				return c, nil
			}
		}
		return model.Category{}, fmt.Errorf("category #%d not found", id)
	}

	for _, c := range categories {
		if strings.EqualFold(c.FullPath, ref) {
			return c, nil
		}
	}

	var matches []model.Category
	for _, c := range categories {
		if strings.EqualFold(c.Name, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return model.Category{}, fmt.Errorf("category %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, 0, len(matches))
		for _, m := range matches {
			paths = append(paths, m.FullPath)
		}
		return model.Category{}, fmt.Errorf("category %q is ambiguous: %s", ref, strings.Join(paths, ", "))
	}
}

// confirm asks a yes/no question, defaulting to no
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
