package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/famtodo/internal/config"
	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/logger"
	"github.com/existflow/famtodo/internal/tui"
)

var (
	logLevel    string
	logFile     string
	logConsole  bool
	profileFlag string

	// cfg is loaded once per invocation by the root pre-run hook
	cfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "famtodo",
	Short: "famtodo - Family task tracker",
	Long: `famtodo keeps a task list per family member: nested tasks under nested
categories, with priority, threat level and a full status history.

Run 'famtodo' without arguments to browse the current profile's tasks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("famtodo started", logger.F("command", cmd.CommandPath()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(database)

		profile, err := resolveProfile(cmd.Context(), database)
		if err != nil {
			return err
		}

		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return printTree(cmd, database, profile, listOptions{})
		}

		logger.Info("Launching TUI", logger.F("profile", profile.Name))
		if err := tui.Run(database, profile); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return err
		}
		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("famtodo exiting", logger.F("command", cmd.CommandPath()))
		_ = logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "Profile to use instead of the current one")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(exportCmd)
}

// openDB opens the configured database
func openDB() (*db.DB, error) {
	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("Failed to open database", logger.F("driver", cfg.DBDriver), logger.F("error", err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func closeDB(database *db.DB) {
	_ = database.Close()
	logger.Debug("Database closed")
}
