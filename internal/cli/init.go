package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/existflow/famtodo/internal/config"
	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/logger"
)

var initCmd = &cobra.Command{
	Use:   "init [profile]",
	Short: "Create the database and config",
	Long: `Create the database schema, seed priorities, threats and statuses, and
write a default config file if none exists. With a profile name, the profile
is created and made current.

Examples:
  famtodo init
  famtodo init Dad`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Database ready (%s)\n", database.Driver())

	if path, err := config.Path(); err == nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			if err := config.DefaultConfig().Save(); err != nil {
				logger.Warn("Failed to write default config", logger.F("error", err))
			} else {
				fmt.Fprintf(out, "✓ Config written to %s\n", path)
			}
		}
	}

	if len(args) == 0 {
		return nil
	}

	profile, err := database.CreateProfile(cmd.Context(), args[0])
	if errors.Is(err, db.ErrDuplicate) {
		profile, err = database.ProfileByName(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}
	if err := SetCurrentProfile(profile.Name); err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}
	fmt.Fprintf(out, "👤 Current profile: %s\n", profile.Name)
	return nil
}
