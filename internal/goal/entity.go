package goal

import (
	"time"

	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/user"
	util "github.com/saulo-duarte/strive/internal/utils"
)

type Goal struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	UserID      uint               `gorm:"not null;index" json:"user_id"`
	User        *user.User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID  *uint              `gorm:"index" json:"category_id,omitempty"`
	Category    *category.Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Description string             `gorm:"size:255;not null" json:"description"`
	TargetDate  util.Date          `gorm:"type:date;not null" json:"target_date"`
	Status      string             `gorm:"size:50;not null" json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// CategoryName is filled by listing queries only.
	CategoryName *string `gorm:"->;-:migration" json:"category_name,omitempty"`
}
