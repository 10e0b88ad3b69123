package dbmysql

import (
	"time"
)

// post.go
type Post struct {
	PostID        int64     `gorm:"primaryKey;autoIncrement;column:post_id"`
	AuthorID      *uint64   `gorm:"column:author_id;index"`
	IsAnonymous   bool      `gorm:"column:is_anonymous;default:false"`
	Content       string    `gorm:"column:content;type:text"`
	VideoPath     *string   `gorm:"column:video_path;size:512"`
	Category      string    `gorm:"type:ENUM('GENERAL','FUNNY','EVENT','CONFESSION','LOST_FOUND','ACADEMIC','SPORTS','NEWS','QUESTION');default:'GENERAL';column:category"`
	LikesCount    int64     `gorm:"column:likes_count;default:0"`
	CommentsCount int64     `gorm:"column:comments_count;default:0"`
	SharesCount   int64     `gorm:"column:shares_count;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`

	Author *User `gorm:"foreignKey:AuthorID"`
}

// PostImage holds one of up to four ordered images attached to a post.
type PostImage struct {
	ImageID    int64     `gorm:"primaryKey;autoIncrement;column:image_id"`
	PostID     int64     `gorm:"column:post_id;index;not null"`
	FilePath   string    `gorm:"column:file_path;size:512;not null"`
	Position   int       `gorm:"column:position;default:0"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}
