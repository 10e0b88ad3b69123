package dbmysql

import "time"

type Comment struct {
	CommentID   int64     `gorm:"primaryKey;autoIncrement;column:comment_id"`
	PostID      int64     `gorm:"column:post_id;not null;index"`
	AuthorID    *uint64   `gorm:"column:author_id;index"`
	IsAnonymous bool      `gorm:"column:is_anonymous;default:false"`
	Content     string    `gorm:"column:content;type:text"`
	ImagePath   *string   `gorm:"column:image_path;size:512"`
	VideoPath   *string   `gorm:"column:video_path;size:512"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`

	Author *User `gorm:"foreignKey:AuthorID"`
	Post   *Post `gorm:"foreignKey:PostID"`
}
