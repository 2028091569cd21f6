package model

import "time"

type User struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement"`
	Username          string    `gorm:"size:50;not null;uniqueIndex:uk_users_username;check:chk_users_username_len,LENGTH(username) >= 3"`
	Email             string    `gorm:"size:100;not null;uniqueIndex:uk_users_email"`
	PasswordHash      string    `gorm:"column:password_hash;size:255;not null"`
	FullName          string    `gorm:"column:full_name;size:100;not null"`
	ProfilePictureURL *string   `gorm:"column:profile_picture_url;size:255"`
	Bio               *string   `gorm:"type:text"`
	IsAdmin           bool      `gorm:"column:is_admin;not null"`
	IsActive          bool      `gorm:"column:is_active;not null"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
