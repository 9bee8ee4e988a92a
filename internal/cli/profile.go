package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/famtodo/internal/tui"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles",
	Long: `Create, list and switch between profiles. Every category and task belongs
to exactly one profile.

When a profile is current, every command works on it unless --profile is given.`,
}

var profileNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new profile",
	Long: `Create a new profile.

Examples:
  famtodo profile new Dad
  famtodo profile new "Grandma Jo" --use`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileNew,
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all profiles",
	RunE:    runProfileList,
}

var profileUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the current profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileUse,
}

var profileCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current profile",
	RunE:  runProfileCurrent,
}

var profilePickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose the current profile interactively",
	RunE:  runProfilePick,
}

var profileNewUse bool

func init() {
	profileNewCmd.Flags().BoolVar(&profileNewUse, "use", false, "Make the new profile current")

	profileCmd.AddCommand(profileNewCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileCurrentCmd)
	profileCmd.AddCommand(profilePickCmd)
}

func runProfileNew(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	profile, err := database.CreateProfile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created profile: %s\n", profile.Name)
	if profileNewUse {
		if err := SetCurrentProfile(profile.Name); err != nil {
			return fmt.Errorf("failed to set profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "👤 Switched to: %s\n", profile.Name)
	}
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	profiles, err := database.Profiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No profiles yet. Create one with: famtodo profile new <name>")
		return nil
	}

	current := GetCurrentProfile()
	for _, p := range profiles {
		marker := "  "
		if p.Name == current {
			marker = "❯ "
		}
		fmt.Fprintf(out, "%s%s\n", marker, p.Name)
	}
	return nil
}

func runProfileUse(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	profile, err := database.ProfileByName(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("profile not found: %s", args[0])
	}

	if err := SetCurrentProfile(profile.Name); err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "👤 Switched to: %s\n", profile.Name)
	return nil
}

func runProfileCurrent(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	profile, err := resolveProfile(cmd.Context(), database)
	if errors.Is(err, errNoProfile) {
		fmt.Fprintln(cmd.OutOrStdout(), "No current profile")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "👤 Current profile: %s\n", profile.Name)
	return nil
}

func runProfilePick(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("profile pick needs an interactive terminal; use 'famtodo profile use <name>'")
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	profiles, err := database.Profiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(profiles) == 0 {
		return errors.New("no profiles yet: create one with 'famtodo profile new <name>'")
	}

	profile, ok, err := tui.RunPicker(profiles, GetCurrentProfile())
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := SetCurrentProfile(profile.Name); err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "👤 Switched to: %s\n", profile.Name)
	return nil
}
