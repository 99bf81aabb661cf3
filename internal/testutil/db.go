// Package testutil holds helpers shared by the package tests
package testutil

import (
	"testing"

	"linx/social-api/db"
	"linx/social-api/pkg/util"

	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to t
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.Open("sqlite", "file:"+util.NewID()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return conn
}
