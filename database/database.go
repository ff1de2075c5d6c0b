package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/models"
)

const defaultQueryTimeout = 45 * time.Second

type Database struct {
	db           *gorm.DB
	queryTimeout time.Duration

	projectRepo       *ProjectRepo
	qualificationRepo *QualificationRepo
	contactRepo       *ContactRepo
	userRepo          *UserRepo
	tokenRepo         *TokenRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB, queryTimeout time.Duration) Database {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return Database{
		db:                db,
		queryTimeout:      queryTimeout,
		projectRepo:       NewProjectRepo(db, queryTimeout),
		qualificationRepo: NewQualificationRepo(db, queryTimeout),
		contactRepo:       NewContactRepo(db, queryTimeout),
		userRepo:          NewUserRepo(db, queryTimeout),
		tokenRepo:         NewTokenRepo(db, queryTimeout),
	}
}

// Open connects to the configured database, applies pool settings and
// registers read replicas when any are configured.
func Open(s config.DatabaseSettings) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger: logger.New(
			&log.Logger,
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}

	var dialector gorm.Dialector
	switch s.Type {
	case "postgres":
		if s.DSN == "" {
			return nil, errs.NewConfigMissingError("DATABASE_URL")
		}
		dialector = postgres.New(postgres.Config{
			DSN:                  s.DSN,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		if s.SQLitePath == "" {
			return nil, errs.NewConfigMissingError("SQLITE_PATH")
		}
		dialector = sqlite.Open(s.SQLitePath)
	default:
		return nil, errs.NewConfigInvalidError("DB_TYPE", fmt.Sprintf("unsupported database type %q", s.Type))
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", s.Type, err)
	}

	if s.Type == "postgres" && len(s.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(s.ReplicaDSNs))
		for _, dsn := range s.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(s.MaxOpenConns).
			SetMaxIdleConns(s.MaxIdleConns).
			SetConnMaxLifetime(s.ConnMaxLifetime)
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("Read replicas registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if s.Type == "sqlite" {
		// sqlite allows a single writer; one connection also keeps in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(s.MaxOpenConns)
		sqlDB.SetMaxIdleConns(s.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(s.ConnMaxLifetime)
	}

	timeout := s.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", s.Type, err)
	}

	log.Info().Str("type", s.Type).Msg("Database connected")
	return db, nil
}

// Ping reports whether the primary database answers within the query timeout.
func (d Database) Ping(ctx context.Context) error {
	if d.db == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, d.queryTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Migrate brings every table up to date with the models.
func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// Close releases the underlying connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying connection for tooling commands.
func (d Database) DB() *gorm.DB {
	return d.db
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) QualificationRepo() *QualificationRepo {
	return d.qualificationRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) TokenRepo() *TokenRepo {
	return d.tokenRepo
}
