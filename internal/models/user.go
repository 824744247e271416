package models

import "time"

// UserModel is a journal account owner.
type UserModel struct {
	Base
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Name      string     `json:"name"`
	Password  string     `json:"-"     gorm:"not null"` // bcrypt hash
	LastLogin *time.Time `json:"last_login"`
}

func (UserModel) TableName() string { return "users" }
