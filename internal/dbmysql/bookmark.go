package dbmysql

import "time"

type Bookmark struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_user_post_bookmark,unique"`
	PostID    int64     `gorm:"column:post_id;not null;index:idx_user_post_bookmark,unique"`
	CreatedAt time.Time `gorm:"column:created_at"`
}
