// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

var (
	// Global flags
	dbURL         string
	migrationsDir string
	verbose       bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yamdbctl",
	Short: "YaMDb operator tool",
	Long: `yamdbctl runs maintenance tasks against the YaMDb database.

Connection settings fall back to DATABASE_URL and MIGRATION_PATH, read from
the environment or a .env file in the working directory.`,
	Version:       constants.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dbURL == "" {
			dbURL = os.Getenv("DATABASE_URL")
		}
		if dbURL == "" {
			return errors.New("--db flag or DATABASE_URL is required")
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	// Real environment variables win over the file.
	_ = godotenv.Load()

	defaultMigrations := os.Getenv("MIGRATION_PATH")
	if defaultMigrations == "" {
		defaultMigrations = "./data/migrations"
	}

	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations-dir", defaultMigrations, "Directory holding the SQL migrations")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

// logger writes structured progress to stderr in verbose mode only.
func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
