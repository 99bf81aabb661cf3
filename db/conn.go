// Package db opens the gorm connection and migrates the schema
package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"linx/social-api/internal/model"
	"linx/social-api/pkg/util"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLitePath = "database.db"

// New opens the database configured by driver/dsn and migrates every
// table the app needs.
func New(driver, dsn string) (*gorm.DB, error) {
	// If running in a docker container don't allow the sqlite file to be created.
	// The host should instead mount it using volumes
	if driver == "sqlite" && dsn == "" && util.IsRunningInDocker() {
		if _, err := os.Stat(defaultSQLitePath); errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("SQLite database file not mounted, please use docker volumes to mount it to /app/database.db")
		}
	}

	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Open connects without migrating
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case "sqlite", "":
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		dialector = sqlite.Open(withSQLiteForeignKeys(dsn))
	case "postgres":
		if dsn == "" {
			return nil, errors.New("postgres requires a dsn")
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", driver, err)
	}

	if driver != "postgres" {
		// SQLite allows a single writer; one connection avoids "database is locked"
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.VerificationCode{},
		&model.Upload{},
		&model.Post{},
		&model.Comment{},
		&model.Reaction{},
	)
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}

func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + "_foreign_keys=on"
}
