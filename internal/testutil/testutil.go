// Package testutil builds throwaway databases for repository and handler tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/goal"
	"github.com/saulo-duarte/strive/internal/milestone"
	"github.com/saulo-duarte/strive/internal/schema"
	"github.com/saulo-duarte/strive/internal/storage"
	"github.com/saulo-duarte/strive/internal/user"
	util "github.com/saulo-duarte/strive/internal/utils"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB opens a migrated SQLite database in a temp dir with foreign
// keys enforced.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "strive.db")
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := schema.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func NewGateway(t *testing.T) (*storage.Gateway, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return storage.NewGateway(db), db
}

func SeedUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u := &user.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func SeedCategory(t *testing.T, db *gorm.DB, userID uint, name string) *category.Category {
	t.Helper()
	c := &category.Category{UserID: userID, Name: name}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

func SeedGoal(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, description string, target util.Date) *goal.Goal {
	t.Helper()
	g := &goal.Goal{
		UserID:      userID,
		CategoryID:  categoryID,
		Description: description,
		TargetDate:  target,
		Status:      string(goal.StatusNotStarted),
	}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("seed goal %s: %v", description, err)
	}
	return g
}

func SeedMilestone(t *testing.T, db *gorm.DB, goalID uint, description string, due util.Date) *milestone.Milestone {
	t.Helper()
	m := &milestone.Milestone{
		GoalID:      goalID,
		Description: description,
		DueDate:     due,
		Status:      string(milestone.StatusPending),
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed milestone %s: %v", description, err)
	}
	return m
}

// Date returns a fixed day relative to 2030-01-01, far enough ahead to pass
// the not-in-past rule.
func Date(offsetDays int) util.Date {
	return util.NewDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)).AddDays(offsetDays)
}

func Ctx() context.Context {
	return context.Background()
}
