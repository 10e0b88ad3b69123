package user

import (
	"context"
	"errors"

	"campusfeed/internal/common"
	"campusfeed/internal/dbmysql"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type Users interface {
	CreateUser(ctx context.Context, user *dbmysql.User) error
	GetUserByID(ctx context.Context, id uint64) (*dbmysql.User, error)
	GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error)
	UpdateUser(ctx context.Context, user *dbmysql.User) error
	SearchUsers(ctx context.Context, query string, limit int) ([]dbmysql.User, error)
}

type Follows interface {
	CreateFollow(ctx context.Context, follow *dbmysql.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uint64) error
	GetFollow(ctx context.Context, followerID, followingID uint64) (*dbmysql.Follow, error)
	CountFollowers(ctx context.Context, userID uint64) (int64, error)
	CountFollowing(ctx context.Context, userID uint64) (int64, error)
	ListFollowers(ctx context.Context, userID uint64, limit, offset int) ([]dbmysql.User, error)
	ListFollowing(ctx context.Context, userID uint64, limit, offset int) ([]dbmysql.User, error)
}

func (r *UserRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).First(&user, "user_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).First(&user, "handle = ?", handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Model(&dbmysql.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"email":       user.Email,
			"department":  user.Department,
			"level":       user.Level,
			"bio":         user.Bio,
			"avatar_path": user.AvatarPath,
		}).Error
}

func (r *UserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]dbmysql.User, error) {
	var users []dbmysql.User
	err := r.db.WithContext(ctx).
		Where("handle LIKE ?", "%"+query+"%").
		Order("handle ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// --------- FOLLOWS ---------

func (r *UserRepository) CreateFollow(ctx context.Context, follow *dbmysql.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *UserRepository) DeleteFollow(ctx context.Context, followerID, followingID uint64) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&dbmysql.Follow{}).Error
}

func (r *UserRepository) GetFollow(ctx context.Context, followerID, followingID uint64) (*dbmysql.Follow, error) {
	var follow dbmysql.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &follow, err
}

func (r *UserRepository) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) CountFollowing(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) ListFollowers(ctx context.Context, userID uint64, limit, offset int) ([]dbmysql.User, error) {
	var users []dbmysql.User
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).
		Joins("JOIN follows ON follows.follower_id = users.user_id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) ListFollowing(ctx context.Context, userID uint64, limit, offset int) ([]dbmysql.User, error) {
	var users []dbmysql.User
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).
		Joins("JOIN follows ON follows.following_id = users.user_id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, err
}
