package main

import (
	"os" // Exit codes

	"bookstore/internal/config" // Custom import path (Config)
	"bookstore/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"github.com/spf13/cobra"     // CLI framework
)

// Main entry point for migration
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var seed bool // Insert starter data after migrating
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Create or update the bookstore schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig() // Load configuration
			if err != nil {
				logrus.Errorf("invalid configuration: %v", err)
				return err
			}
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			gdb, err := db.Open(cfg)
			if err != nil {
				logrus.Errorf("failed to connect to DB: %v", err)
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				logrus.Errorf("migration failed: %v", err)
				return err
			}
			if !seed {
				return nil
			}
			if err := db.EnsureAdmin(gdb, cfg); err != nil {
				logrus.Errorf("failed to create admin: %v", err)
				return err
			}
			if err := db.Seed(gdb); err != nil {
				logrus.Errorf("seed failed: %v", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the default admin and starter catalog")
	return cmd
}
