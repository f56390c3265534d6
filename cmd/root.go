package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizmark/internal/config"
	"github.com/abhisek/quizmark/internal/logging"
	"github.com/abhisek/quizmark/internal/report"
	"github.com/abhisek/quizmark/internal/store"
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "quizmark",
	Short: "Standards performance analytics for classroom assessments",
	Long: "Quizmark tracks student performance on curriculum standards across tests, " +
		"classifies proficiency and trends, and forecasts the next attempt.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(cmd); err != nil {
			return err
		}
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logging.Init(level, cfg.Log.Format)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZMARK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides QUIZMARK_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("env-file", "", "Load QUIZMARK_* variables from this file (default: ./.env if present)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(testReportCmd)
	rootCmd.AddCommand(studentReportCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv exports variables from an env file without overriding the
// real environment. A missing default .env is not an error.
func loadDotEnv(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// loadConfig layers the config file, QUIZMARK_* variables and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("QUIZMARK_CONFIG")
	}

	c, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := c.ApplyEnv(); err != nil {
		return config.Config{}, fmt.Errorf("apply environment: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Log.Level = lvl
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZMARK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func newAssembler() *report.Assembler {
	return report.New(cfg.ReportPolicy())
}
