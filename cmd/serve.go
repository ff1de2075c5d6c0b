package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mkifle/portfolio-backend/api"
	"github.com/mkifle/portfolio-backend/database"
	"github.com/mkifle/portfolio-backend/services"
)

const shutdownTimeout = 30 * time.Second

var (
	serveMemory  bool
	serveMigrate bool
	serveSeed    bool
)

func init() {
	ServeCmd.Flags().BoolVar(&serveMemory, "memory", false, "use a throwaway in-memory SQLite database")
	ServeCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply schema migrations before serving")
	ServeCmd.Flags().BoolVar(&serveSeed, "seed", false, "load sample content into empty tables before serving")
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		settings, err := loadSettings(ctx)
		if err != nil {
			return err
		}

		var db database.Database
		if serveMemory {
			gdb, err := database.OpenMemory()
			if err != nil {
				return err
			}
			db = database.New(gdb, settings.Database.QueryTimeout)
			log.Warn().Msg("Using in-memory database; data is lost on exit")
		} else {
			if db, err = openDatabase(settings); err != nil {
				return err
			}
			if serveMigrate {
				if err := db.Migrate(); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}
		}
		defer db.Close()

		if serveSeed {
			res, err := db.Seed(ctx, false)
			if err != nil {
				return err
			}
			log.Info().Int("projects", res.Projects).Int("qualifications", res.Qualifications).Msg("Seeded sample data")
		}

		notifier := services.NewContactNotifierFromSettings(settings.Notify)
		log.Info().Strs("channels", notifier.Channels()).Msg("Contact notifications configured")

		opts := []api.Option{api.WithNotifier(notifier)}
		if settings.Upload.Enabled() {
			store, err := services.NewImageStore(ctx, settings.Upload)
			if err != nil {
				return fmt.Errorf("image store: %w", err)
			}
			opts = append(opts, api.WithImageStore(store))
			log.Info().Str("bucket", settings.Upload.Bucket).Msg("Image uploads enabled")
		}

		server, err := api.NewServer(settings, db, opts...)
		if err != nil {
			return fmt.Errorf("initialize server: %w", err)
		}

		errChannel := make(chan error, 2)
		go server.Start(errChannel)
		go listenToInterrupt(errChannel)

		fatalErr := <-errChannel
		log.Info().Msgf("Closing server: %v", fatalErr)

		server.ShutdownGracefully(shutdownTimeout)
		return nil
	},
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
