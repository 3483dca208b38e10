package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	mongomigration "homeview/internal/migrations/mongo"
	sqlmigration "homeview/internal/migrations/sql"
	"homeview/pkg/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm/schema"
)

const JobName = "migrate"

var (
	timeout     time.Duration
	schemaCache sync.Map
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the homeview schema for the configured store",
	Long: `migrate creates the collections, validators and indexes (Mongo) or the tables
and indexes (SQL) used by the homeview services. The backend is chosen by
STORE_DRIVER. Running it twice is safe.`,
	SilenceUsage: true,
	RunE:         runUp,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the schema",
	RunE:  runUp,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the collections or tables the migration manages",
	RunE:  runList,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall migration deadline")
	rootCmd.AddCommand(upCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runUp(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetStore()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting migration job", "store", cfg.StoreDriver)

	var err error
	if cfg.IsMongo() {
		err = mongomigration.RunMigration(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log)
	} else {
		err = sqlmigration.RunMigration(ctx, cfg.Client.SQL, cfg.Log)
	}
	if err != nil {
		cfg.Log.Error("Migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Migration completed successfully.")
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg := config.Load(JobName)
	out := cmd.OutOrStdout()

	if cfg.IsMongo() {
		names := make([]string, 0, len(mongomigration.Collections()))
		for name := range mongomigration.Collections() {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	namer := schema.NamingStrategy{}
	for _, m := range sqlmigration.Models() {
		s, err := schema.Parse(m, &schemaCache, namer)
		if err != nil {
			return fmt.Errorf("parse model %T: %w", m, err)
		}
		fmt.Fprintln(out, s.Table)
	}
	return nil
}
