package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/database"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio backend API server and admin tools",
	Long: `Serves the portfolio REST API (projects, qualifications, contact
messages, users) and provides maintenance commands for the database.

Configuration is read from the environment and an optional .env file. When
SSM_PARAMETER_PATH is set, parameters under that path are loaded from AWS
Systems Manager and used for any key not already set in the environment.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(ServeCmd)
	rootCmd.AddCommand(MigrateCmd)
	rootCmd.AddCommand(SchemaReportCmd)
	rootCmd.AddCommand(GenQueriesCmd)
	rootCmd.AddCommand(SeedCmd)
	rootCmd.AddCommand(CreateAdminCmd)
	rootCmd.AddCommand(SetRoleCmd)
	rootCmd.AddCommand(ShowUserCmd)
	rootCmd.AddCommand(ListUsersCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// loadSettings builds the configuration map, applies the SSM overlay and
// validates it. The global logger is configured from the result.
func loadSettings(ctx context.Context) (config.Settings, error) {
	env := config.New()

	if path := config.GetString(env, "SSM_PARAMETER_PATH", ""); path != "" {
		region := config.GetString(env, "AWS_REGION", "us-east-1")
		params, err := config.LoadSSM(ctx, region, path)
		if err != nil {
			return config.Settings{}, fmt.Errorf("load SSM parameters from %s: %w", path, err)
		}
		log.Info().Int("count", len(params)).Str("path", path).Msg("Loaded SSM parameters")
		env = config.Merge(env, params)
	}

	settings, err := config.Load(env)
	if err != nil {
		return settings, err
	}
	config.SetupLogger(settings.LogLevel, settings.LogFormat)
	return settings, nil
}

// openDatabase connects with the configured settings.
func openDatabase(settings config.Settings) (database.Database, error) {
	gdb, err := database.Open(settings.Database)
	if err != nil {
		return database.Database{}, err
	}
	return database.New(gdb, settings.Database.QueryTimeout), nil
}

// setup loads settings and opens the database for one-shot commands.
func setup(ctx context.Context) (config.Settings, database.Database, error) {
	settings, err := loadSettings(ctx)
	if err != nil {
		return settings, database.Database{}, err
	}
	db, err := openDatabase(settings)
	if err != nil {
		return settings, database.Database{}, err
	}
	return settings, db, nil
}
