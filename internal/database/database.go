// Package database opens the relational store behind the product repository.
package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"productstore/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// ErrEmptyURI is returned when no connection string is configured.
var ErrEmptyURI = errors.New("database URI is empty")

// Dialector picks the GORM driver for uri. sqlite:// and file: URIs use
// sqlite; anything else is handed to the postgres driver.
func Dialector(uri string) (gorm.Dialector, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, ErrEmptyURI
	case strings.HasPrefix(uri, sqliteScheme):
		return sqlite.Open(strings.TrimPrefix(uri, sqliteScheme)), nil
	case strings.HasPrefix(uri, "file:"), uri == ":memory:":
		return sqlite.Open(uri), nil
	default:
		return postgres.Open(uri), nil
	}
}

// Open connects to uri and migrates the products table. SQL logging goes
// through log at a level derived from the logger's own level.
func Open(uri string, log *logrus.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(uri)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(log *logrus.Logger) logger.Interface {
	if log == nil {
		return logger.Discard
	}
	return logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(log.GetLevel()),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLogLevel(level logrus.Level) logger.LogLevel {
	switch {
	case level >= logrus.DebugLevel:
		return logger.Info
	case level >= logrus.WarnLevel:
		return logger.Warn
	case level >= logrus.ErrorLevel:
		return logger.Error
	default:
		return logger.Silent
	}
}
