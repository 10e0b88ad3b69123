package dbmysql

import "time"

type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	FollowerID  uint64    `gorm:"column:follower_id;not null;index:idx_follower_following,unique"`
	FollowingID uint64    `gorm:"column:following_id;not null;index:idx_follower_following,unique;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}
