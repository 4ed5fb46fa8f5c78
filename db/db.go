package db

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the record store used by the stand-up engine. It holds no state of
// its own beyond the connection; every call reads current rows.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres using dsn.
func Open(dsn string) (*Store, error) {
	return OpenDialector(postgres.Open(dsn))
}

// OpenDialector connects through any gorm dialector.
func OpenDialector(dialector gorm.Dialector) (*Store, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("Open: failed to connect: %w", err)
	}
	return &Store{db: conn}, nil
}

// Migrate creates or updates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Team{}, &Submission{}, &Reminder{}, &Member{}); err != nil {
		return fmt.Errorf("Migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
