// @title CodeHabit API
// @version 1.0
// @description Collaborative coding interview sessions and a habit tracker.

// @contact.name API Support

// @license.name MIT

// @host localhost:3001
// @BasePath /api

package main

import (
	"codehabit_backend/internal/app"
	"codehabit_backend/internal/config"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time.
	Version = "dev"

	configDir   string
	migrate     bool
	migrateOnly bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "codehabit",
	Short:   "CodeHabit backend services",
	Version: Version,
	// usage is noise once a server has started
	SilenceUsage: true,
}

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run the collaborative coding interview service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(app.InterviewService, app.NewInterviewApp)
	},
}

var habitsCmd = &cobra.Command{
	Use:   "habits",
	Short: "Run the habit tracker service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(app.HabitsService, app.NewHabitApp)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding <service>.yaml")
	rootCmd.PersistentFlags().BoolVar(&migrate, "migrate", false, "run database migrations on start, even in release mode")
	rootCmd.PersistentFlags().BoolVar(&migrateOnly, "migrate-only", false, "run database migrations and exit")

	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(habitsCmd)
}

func serve(name string, build func(*config.Config) (*app.App, error)) error {
	cfg, err := config.LoadConfig(configDir, name)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ForceMigrate = migrate || migrateOnly
	cfg.MigrateOnly = migrateOnly

	application, err := build(cfg)
	if err != nil {
		return err
	}

	if migrateOnly {
		application.Close(context.Background())
		fmt.Println("Database migration completed")
		return nil
	}
	return application.Run()
}
