package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mkifle/portfolio-backend/models"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables for every model",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return err
		}
		log.Info().Int("models", len(models.All())).Msg("Migration complete")
		return nil
	},
}

var schemaReportStrict bool

func init() {
	SchemaReportCmd.Flags().BoolVar(&schemaReportStrict, "strict", false, "exit with an error when any column differs")
}

var SchemaReportCmd = &cobra.Command{
	Use:   "schema-report",
	Short: "Compare model fields with the live database columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := models.ColumnDrift(db.DB())
		if err != nil {
			return err
		}
		mismatched := models.WriteDriftReport(os.Stdout, report)
		if schemaReportStrict && mismatched > 0 {
			return fmt.Errorf("%d mismatched columns", mismatched)
		}
		return nil
	},
}

var genQueriesOut string

func init() {
	GenQueriesCmd.Flags().StringVar(&genQueriesOut, "out", "./query", "directory for the generated code")
}

var GenQueriesCmd = &cobra.Command{
	Use:   "gen-queries",
	Short: "Generate type-safe query helpers for every model",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		models.GenerateQueries(db.DB(), genQueriesOut)
		log.Info().Str("out", genQueriesOut).Msg("Query helpers generated")
		return nil
	},
}

var seedReplace bool

func init() {
	SeedCmd.Flags().BoolVar(&seedReplace, "replace", false, "delete existing projects and qualifications first")
}

var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample projects and qualifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := db.Seed(cmd.Context(), seedReplace)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d projects and %d qualifications\n", res.Projects, res.Qualifications)
		return nil
	},
}
