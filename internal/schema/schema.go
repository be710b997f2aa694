// Package schema owns the table layout shared by every repository.
package schema

import (
	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/goal"
	"github.com/saulo-duarte/strive/internal/milestone"
	"github.com/saulo-duarte/strive/internal/user"
	"gorm.io/gorm"
)

// Models are listed parent first so foreign keys resolve.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&category.Category{},
		&goal.Goal{},
		&milestone.Milestone{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
