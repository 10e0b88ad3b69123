package dbmysql

import "time"

type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_user_post_like,unique"`
	PostID    int64     `gorm:"column:post_id;not null;index:idx_user_post_like,unique;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`

	User *User `gorm:"foreignKey:UserID"`
	Post *Post `gorm:"foreignKey:PostID"`
}
