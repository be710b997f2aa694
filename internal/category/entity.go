package category

import (
	"time"

	"github.com/saulo-duarte/strive/internal/user"
)

type Category struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_user_category_name" json:"user_id"`
	User      *user.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string     `gorm:"size:100;not null;uniqueIndex:idx_user_category_name" json:"name"`
	CreatedAt time.Time  `json:"created_at"`
}
