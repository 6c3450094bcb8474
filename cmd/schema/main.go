// Command schema applies (or rolls back) the goose-format migrations
// embedded in pkg/store/migrations, the schema-creator CLI named in
// spec §6's CLI surface.
package main

import (
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/affreight/shipengine/internal/config"
	"github.com/affreight/shipengine/pkg/store/migrations"
	"github.com/affreight/shipengine/pkg/store/postgres"
)

func main() {
	var configPath string

	root := &cobra.Command{Use: "schema"}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the application config file")

	connect := func() (*zap.Logger, *postgres.Config, error) {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, nil, fmt.Errorf("building logger: %w", err)
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		return logger, &postgres.Config{
			Host: cfg.Database.Host, Port: cfg.Database.Port, User: cfg.Database.User,
			Password: cfg.Database.Password, Database: cfg.Database.Database, SSLMode: cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns, MaxIdleConns: cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, dbCfg, err := connect()
			if err != nil {
				return err
			}
			db, err := postgres.Connect(dbCfg, logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("setting goose dialect: %w", err)
			}
			if err := goose.Up(db.DB, "."); err != nil {
				return fmt.Errorf("applying migrations: %w", err)
			}
			fmt.Println("migrations applied")
			return nil
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recently applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, dbCfg, err := connect()
			if err != nil {
				return err
			}
			db, err := postgres.Connect(dbCfg, logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("setting goose dialect: %w", err)
			}
			if err := goose.Down(db.DB, "."); err != nil {
				return fmt.Errorf("rolling back migration: %w", err)
			}
			fmt.Println("migration rolled back")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print which migrations have been applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, dbCfg, err := connect()
			if err != nil {
				return err
			}
			db, err := postgres.Connect(dbCfg, logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("postgres"); err != nil {
				return fmt.Errorf("setting goose dialect: %w", err)
			}
			return goose.Status(db.DB, ".")
		},
	}

	root.AddCommand(upCmd, downCmd, statusCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
