package milestone

import (
	"time"

	"github.com/saulo-duarte/strive/internal/goal"
	util "github.com/saulo-duarte/strive/internal/utils"
)

type Milestone struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	GoalID      uint       `gorm:"not null;index" json:"goal_id"`
	Goal        *goal.Goal `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Description string     `gorm:"size:255;not null" json:"description"`
	DueDate     util.Date  `gorm:"type:date;not null" json:"due_date"`
	Status      string     `gorm:"size:50;not null" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
