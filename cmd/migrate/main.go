// Command migrate runs the offline legacy migrator (component C7): it
// re-keys AFCQ- quotation/order pairs from a legacy export into
// canonical AF- shipments. It defaults to a dry run and only writes
// when --commit is passed, per spec §6's CLI surface convention.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/affreight/shipengine/internal/config"
	"github.com/affreight/shipengine/internal/systemlog"
	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/migrator"
	"github.com/affreight/shipengine/pkg/store/postgres"
)

func main() {
	var (
		configPath    string
		exportFile    string
		commit        bool
		only          string
		invoiceOnly   bool
	)

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Re-key legacy AFCQ- quotations into canonical AF- shipments",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			defer logger.Sync()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			db, err := postgres.Connect(&postgres.Config{
				Host: cfg.Database.Host, Port: cfg.Database.Port, User: cfg.Database.User,
				Password: cfg.Database.Password, Database: cfg.Database.Database, SSLMode: cfg.Database.SSLMode,
				MaxOpenConns: cfg.Database.MaxOpenConns, MaxIdleConns: cfg.Database.MaxIdleConns,
				ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			}, logger)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer db.Close()

			store := postgres.New(db, logger)
			log := systemlog.New(db, logger)

			source, err := migrator.LoadJSONSource(exportFile)
			if err != nil {
				return fmt.Errorf("loading legacy export: %w", err)
			}

			m := migrator.New(source, store, log, logger)
			ctx := context.Background()

			if invoiceOnly {
				report, err := m.NormalizeIssuedInvoice(ctx, commit)
				if err != nil {
					return fmt.Errorf("normalizing issued_invoice: %w", err)
				}
				mode := "DRY RUN"
				if commit {
					mode = "LIVE"
				}
				fmt.Printf("%s issued_invoice normalization: %d checked, %d updated\n", mode, report.Checked, report.Updated)
				return nil
			}

			report, err := m.RunWithOptions(ctx, migrator.Options{Commit: commit, Only: only})
			if err != nil {
				fmt.Fprintf(os.Stderr, "migration aborted: %v\n", err)
				os.Exit(1)
			}
			printReport(report)
			return nil
		},
	}

	root.Flags().StringVar(&configPath, "config", "config.yaml", "path to the application config file")
	root.Flags().StringVar(&exportFile, "export-file", "", "path to the legacy JSON export (required)")
	root.Flags().BoolVar(&commit, "commit", false, "write changes; without this flag the run is a dry run")
	root.Flags().StringVar(&only, "only", "", "migrate a single legacy id instead of the full export")
	root.Flags().BoolVar(&invoiceOnly, "issued-invoice-only", false, "run only the issued_invoice OR-merge pass, not the shipment migration")
	root.MarkFlagRequired("export-file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printReport(r migrator.Report) {
	fmt.Printf("=== %s migration report ===\n", r.Mode)
	fmt.Printf("total legacy records:    %d\n", r.Total)
	fmt.Printf("assembled:               %d\n", r.Assembled)
	fmt.Printf("written:                 %d\n", r.Written)
	fmt.Printf("skipped (already):       %d\n", r.SkippedAlready)
	fmt.Printf("skipped (no order):      %d\n", r.SkippedNoOrder)
	fmt.Printf("errors:                  %d\n", len(r.Errors))
	for _, e := range r.Errors {
		fmt.Printf("  - %s: %s\n", e.LegacyID, e.Reason)
	}
	fmt.Println("order type breakdown:")
	for t, n := range r.TypeCounts {
		fmt.Printf("  %-12s %d\n", t, n)
	}
	fmt.Println("status breakdown:")
	for s, n := range r.StatusCounts {
		fmt.Printf("  %-20s %d\n", domain.StatusLabels[s], n)
	}
	if len(r.ActiveMigrated) > 0 {
		fmt.Printf("active records migrated: %d\n", len(r.ActiveMigrated))
		for _, a := range r.ActiveMigrated {
			fmt.Printf("  %s -> %s (%s)\n", a.LegacyID, a.CanonicalID, domain.StatusLabels[a.Status])
		}
	}
}
