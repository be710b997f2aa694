package user

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;size:100;not null" json:"-"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}
