package cmd

import (
	"fmt"
	"log"

	"blogrig-server/config"
	"blogrig-server/db"

	"github.com/spf13/cobra"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE:  migrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (one by default, --steps 0 for all). Deletes data.",
	Args:  cobra.NoArgs,
	RunE:  migrateDown,
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back, 0 for all")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	RootCmd.AddCommand(migrateCmd)
}

func migrateUp(cmd *cobra.Command, args []string) error {
	cfg := config.LoadDb()

	conn, err := db.Connect(cfg.DatabaseUrl, cfg.Production)
	if err != nil {
		return fmt.Errorf("error connecting to database: %v", err)
	}
	defer conn.Close()

	return db.MigrationsUp(conn, cfg.MigrationsDir)
}

func migrateDown(cmd *cobra.Command, args []string) error {
	cfg := config.LoadDb()

	conn, err := db.Connect(cfg.DatabaseUrl, cfg.Production)
	if err != nil {
		return fmt.Errorf("error connecting to database: %v", err)
	}
	defer conn.Close()

	log.Printf("Rolling back migrations (steps=%d)\n", migrateSteps)

	return db.MigrationsDown(conn, cfg.MigrationsDir, migrateSteps)
}
