package db

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"event_org/internal/models"
	"event_org/internal/repository"
)

type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens the MySQL pool and pings it. Duplicate-key errors are
// translated to gorm.ErrDuplicatedKey so stores can report conflicts.
func Connect(opts Options, log *zap.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(mysql.Open(opts.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	log.Info("database connected",
		zap.Int("max_open_conns", opts.MaxOpenConns),
		zap.Int("max_idle_conns", opts.MaxIdleConns),
	)
	return gdb, nil
}

// AutoMigrate creates or updates every table. The join models are registered
// first so user_roles and organization_users get their composite keys and
// cascading foreign keys.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.SetupJoinTable(&models.User{}, "Roles", &models.UserRole{}); err != nil {
		return fmt.Errorf("setup user_roles: %w", err)
	}
	if err := gdb.SetupJoinTable(&models.User{}, "Organizations", &models.OrganizationUser{}); err != nil {
		return fmt.Errorf("setup organization_users: %w", err)
	}
	return gdb.AutoMigrate(
		&models.Role{},
		&models.Organization{},
		&models.User{},
		&models.UserRole{},
		&models.OrganizationUser{},
		&models.Event{},
		&models.AuditLog{},
	)
}

// Store implements the repository store interfaces on top of GORM.
type Store struct {
	db *gorm.DB
}

var (
	_ repository.OrganizationStore = (*Store)(nil)
	_ repository.UserStore         = (*Store)(nil)
	_ repository.EventStore        = (*Store)(nil)
	_ repository.AuditStore        = (*Store)(nil)
)

func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", repository.ErrConflict, err)
	}
	return err
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// either filters on colA = a OR colB = b, ignoring empty values.
func either(tx *gorm.DB, colA, a, colB, b string) *gorm.DB {
	switch {
	case a != "" && b != "":
		return tx.Where(colA+" = ? OR "+colB+" = ?", a, b)
	case a != "":
		return tx.Where(colA+" = ?", a)
	case b != "":
		return tx.Where(colB+" = ?", b)
	}
	return tx.Where("1 = 0")
}
