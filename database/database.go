package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	db            *gorm.DB
	userRepo      *UserRepo
	authorityRepo *AuthorityRepo
}

// Open connects to PostgreSQL and checks the connection with a trivial query
func Open(dsn string) (*gorm.DB, error) {
	gormLog := log.With().Str("component", "gorm").Logger()
	newLogger := logger.New(
		&gormLog,
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}
	return db, nil
}

// DSN builds a key/value connection string
func DSN(host, port, user, password, name, sslMode string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, name, port, sslMode)
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:            db,
		userRepo:      NewUserRepo(db),
		authorityRepo: NewAuthorityRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) AuthorityRepo() *AuthorityRepo {
	return d.authorityRepo
}

// AutoMigrate creates the user, authority and join tables, then seeds the
// built-in authorities.
func (d Database) AutoMigrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(&models.Authority{}, &models.User{}); err != nil {
		return errs.NewDatabaseError("migrate", "schema", err)
	}
	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		if err := d.authorityRepo.Save(ctx, &models.Authority{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// Ping is used by the health endpoint.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
