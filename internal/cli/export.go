package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/export"
	"github.com/existflow/famtodo/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks to Markdown",
	Long: `Write the whole task tree of the current profile, completed tasks
included, as a Markdown document.

Examples:
  famtodo export                     # writes <profile>_todo_<date>.md
  famtodo export --out plan.md
  famtodo export --out -             # stdout`,
	RunE: runExport,
}

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, '-' for stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	rows, err := database.FetchTaskTree(ctx, profile.ID, db.TreeQuery{ShowCompleted: true})
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	paths, err := database.CategoryPaths(ctx, profile.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := export.Markdown(&buf, export.Document{
		ProfileName:   profile.Name,
		Generated:     now,
		Rows:          rows,
		CategoryPaths: paths,
	}); err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}

	if exportOut == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	path := exportOut
	if path == "" {
		path = export.FileName(profile.Name, now)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	logger.Info("Exported tasks", logger.F("profile", profile.Name), logger.F("tasks", len(rows)), logger.F("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d tasks to %s\n", len(rows), path)
	return nil
}
