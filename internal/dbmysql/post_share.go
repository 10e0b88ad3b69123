package dbmysql

import "time"

const (
	ShareViaLink = "LINK"
	ShareViaDM   = "DM"
)

type PostShare struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    uint64    `gorm:"column:user_id;not null;index"`
	PostID    int64     `gorm:"column:post_id;not null;index"`
	SharedVia string    `gorm:"type:ENUM('LINK','DM');column:shared_via"`
	CreatedAt time.Time `gorm:"column:created_at"`
}
