package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"campusfeed/internal/common"
	"campusfeed/internal/dbmongo"
	"campusfeed/internal/dbmysql"

	"go.uber.org/zap"
)

const searchLimit = 20

type MediaStore interface {
	UploadFile(ctx context.Context, filename, mimeType, uploaderID string, content io.Reader) (*dbmongo.MediaFile, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// PostCounts is the slice of the post store profiles need.
type PostCounts interface {
	CountUserPosts(ctx context.Context, userID uint64) (int64, error)
}

type RegisterInput struct {
	Handle     string
	Password   string
	Email      string
	Department string
	Level      string
}

type ProfileInput struct {
	Email      string
	Department string
	Level      string
	Bio        string
	Avatar     *AvatarUpload
}

type AvatarUpload struct {
	Name     string
	MimeType string
	Data     io.Reader
}

type ProfileView struct {
	UserID         uint64  `json:"user_id"`
	Handle         string  `json:"username"`
	Email          string  `json:"email,omitempty"`
	Department     string  `json:"department"`
	Level          string  `json:"level"`
	Bio            string  `json:"bio"`
	AvatarURL      *string `json:"profile_picture,omitempty"`
	PostCount      int64   `json:"post_count"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	IsFollowing    bool    `json:"is_following"`
	IsSelf         bool    `json:"is_self"`
	JoinedAt       string  `json:"joined_at"`
}

type UserSummary struct {
	UserID     uint64  `json:"user_id"`
	Handle     string  `json:"username"`
	Department string  `json:"department"`
	AvatarURL  *string `json:"profile_picture,omitempty"`
}

type UserUsecase interface {
	Register(ctx context.Context, in RegisterInput) (*dbmysql.User, string, error)
	Login(ctx context.Context, handle, password string) (*dbmysql.User, string, error)
	Profile(ctx context.Context, requesterID, userID uint64) (*ProfileView, error)
	ProfileByHandle(ctx context.Context, requesterID uint64, handle string) (*ProfileView, error)
	UpdateProfile(ctx context.Context, userID uint64, in ProfileInput) (*ProfileView, error)
	ToggleFollow(ctx context.Context, followerID, followingID uint64) (bool, int64, error)
	Followers(ctx context.Context, userID uint64, page int) ([]UserSummary, error)
	Following(ctx context.Context, userID uint64, page int) ([]UserSummary, error)
	SearchUsers(ctx context.Context, query string) ([]UserSummary, error)
}

type UserService struct {
	users   Users
	follows Follows
	posts   PostCounts
	media   MediaStore
	logger  *zap.Logger

	tokenTTL     time.Duration
	mediaBaseURL string
}

func NewUserService(
	users Users, follows Follows, posts PostCounts, media MediaStore,
	tokenTTL time.Duration, mediaBaseURL string, logger *zap.Logger,
) *UserService {
	return &UserService{
		users:        users,
		follows:      follows,
		posts:        posts,
		media:        media,
		tokenTTL:     tokenTTL,
		mediaBaseURL: mediaBaseURL,
		logger:       logger,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*dbmysql.User, string, error) {
	if err := common.ValidateHandle(in.Handle); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(in.Email); err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetUserByHandle(ctx, in.Handle); err == nil {
		return nil, "", fmt.Errorf("handle %q is already taken", in.Handle)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, "", err
	}

	hash, err := common.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &dbmysql.User{
		Handle:       in.Handle,
		PasswordHash: hash,
		Email:        in.Email,
		Department:   in.Department,
		Level:        in.Level,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := common.GenerateToken(user.UserID, user.Handle, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user registered", zap.Uint64("user_id", user.UserID), zap.String("handle", user.Handle))
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, handle, password string) (*dbmysql.User, string, error) {
	user, err := s.users.GetUserByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid handle or password")
		}
		return nil, "", err
	}
	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", fmt.Errorf("invalid handle or password")
	}

	token, err := common.GenerateToken(user.UserID, user.Handle, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *UserService) Profile(ctx context.Context, requesterID, userID uint64) (*ProfileView, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, requesterID, user)
}

func (s *UserService) ProfileByHandle(ctx context.Context, requesterID uint64, handle string) (*ProfileView, error) {
	user, err := s.users.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, requesterID, user)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, in ProfileInput) (*ProfileView, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	user.Email = in.Email
	user.Department = in.Department
	user.Level = in.Level
	user.Bio = in.Bio

	if in.Avatar != nil {
		file, err := s.media.UploadFile(ctx, in.Avatar.Name, in.Avatar.MimeType,
			strconv.FormatUint(userID, 10), in.Avatar.Data)
		if err != nil {
			return nil, fmt.Errorf("avatar upload failed: %w", err)
		}
		if user.AvatarPath != nil {
			if err := s.media.DeleteFile(ctx, *user.AvatarPath); err != nil {
				s.logger.Warn("old avatar delete failed", zap.String("file_id", *user.AvatarPath), zap.Error(err))
			}
		}
		user.AvatarPath = &file.ID
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, userID, user)
}

// ToggleFollow follows or unfollows and returns the new state plus the
// target's follower count. Following yourself is rejected outright.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followingID uint64) (bool, int64, error) {
	if followerID == followingID {
		return false, 0, fmt.Errorf("cannot follow yourself")
	}
	if _, err := s.users.GetUserByID(ctx, followingID); err != nil {
		return false, 0, err
	}

	var following bool
	if _, err := s.follows.GetFollow(ctx, followerID, followingID); err == nil {
		if err := s.follows.DeleteFollow(ctx, followerID, followingID); err != nil {
			return false, 0, err
		}
	} else if errors.Is(err, common.ErrNotFound) {
		if err := s.follows.CreateFollow(ctx, &dbmysql.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   time.Now(),
		}); err != nil {
			return false, 0, err
		}
		following = true
	} else {
		return false, 0, err
	}

	count, err := s.follows.CountFollowers(ctx, followingID)
	if err != nil {
		return following, 0, err
	}
	return following, count, nil
}

func (s *UserService) Followers(ctx context.Context, userID uint64, page int) ([]UserSummary, error) {
	if page < 1 {
		page = 1
	}
	users, err := s.follows.ListFollowers(ctx, userID, searchLimit, (page-1)*searchLimit)
	if err != nil {
		return nil, err
	}
	return s.summaries(users), nil
}

func (s *UserService) Following(ctx context.Context, userID uint64, page int) ([]UserSummary, error) {
	if page < 1 {
		page = 1
	}
	users, err := s.follows.ListFollowing(ctx, userID, searchLimit, (page-1)*searchLimit)
	if err != nil {
		return nil, err
	}
	return s.summaries(users), nil
}

func (s *UserService) SearchUsers(ctx context.Context, query string) ([]UserSummary, error) {
	if query == "" {
		return []UserSummary{}, nil
	}
	users, err := s.users.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	return s.summaries(users), nil
}

func (s *UserService) buildProfile(ctx context.Context, requesterID uint64, user *dbmysql.User) (*ProfileView, error) {
	postCount, err := s.posts.CountUserPosts(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.follows.CountFollowers(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.follows.CountFollowing(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		UserID:         user.UserID,
		Handle:         user.Handle,
		Department:     user.Department,
		Level:          user.Level,
		Bio:            user.Bio,
		PostCount:      postCount,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		IsSelf:         requesterID == user.UserID,
		JoinedAt:       user.CreatedAt.Format("January 2006"),
	}
	if view.IsSelf {
		view.Email = user.Email
	}
	if user.AvatarPath != nil {
		url := s.mediaBaseURL + *user.AvatarPath
		view.AvatarURL = &url
	}
	if requesterID != 0 && requesterID != user.UserID {
		if _, err := s.follows.GetFollow(ctx, requesterID, user.UserID); err == nil {
			view.IsFollowing = true
		}
	}
	return view, nil
}

func (s *UserService) summaries(users []dbmysql.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summary := UserSummary{
			UserID:     u.UserID,
			Handle:     u.Handle,
			Department: u.Department,
		}
		if u.AvatarPath != nil {
			url := s.mediaBaseURL + *u.AvatarPath
			summary.AvatarURL = &url
		}
		out = append(out, summary)
	}
	return out
}
