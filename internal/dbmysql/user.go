package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	UserID       uint64         `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	Handle       string         `gorm:"column:handle;uniqueIndex;size:50;not null" json:"handle"`
	PasswordHash string         `gorm:"column:password_hash;size:255;not null" json:"-"`
	Email        string         `gorm:"column:email;size:255" json:"email"`
	Department   string         `gorm:"column:department;size:50" json:"department"`
	Level        string         `gorm:"column:level;size:10" json:"level"`
	Bio          string         `gorm:"column:bio;size:200" json:"bio"`
	AvatarPath   *string        `gorm:"column:avatar_path;size:512" json:"avatar_path,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
