package feed

import (
	"context"
	"errors"
	"time"

	"campusfeed/internal/common"
	"campusfeed/internal/dbmysql"

	"gorm.io/gorm"
)

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// FeedFilter narrows feed and polling queries.
type FeedFilter struct {
	Category      string // "" or "all" means no category filter
	Query         string // substring match on content
	ExcludeAuthor uint64 // skip this author's own posts (polling)
}

func (r *FeedRepository) applyFilter(tx *gorm.DB, f FeedFilter) *gorm.DB {
	if f.Category != "" && f.Category != "all" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.Query != "" {
		tx = tx.Where("content LIKE ?", "%"+f.Query+"%")
	}
	if f.ExcludeAuthor != 0 {
		tx = tx.Where("author_id IS NULL OR author_id <> ?", f.ExcludeAuthor)
	}
	return tx
}

// --------- POSTS ---------
type Posts interface {
	CreatePost(ctx context.Context, post *dbmysql.Post) error
	GetPostByID(ctx context.Context, id int64) (*dbmysql.Post, error)
	UpdatePost(ctx context.Context, post *dbmysql.Post) error
	DeletePost(ctx context.Context, id int64) error
	ListPosts(ctx context.Context, filter FeedFilter, limit, offset int) ([]dbmysql.Post, error)
	CountPosts(ctx context.Context, filter FeedFilter) (int64, error)
	ListUserPosts(ctx context.Context, userID uint64, limit, offset int) ([]dbmysql.Post, error)
	CountUserPosts(ctx context.Context, userID uint64) (int64, error)
	AddPostImage(ctx context.Context, image *dbmysql.PostImage) error
	ListPostImages(ctx context.Context, postID int64) ([]dbmysql.PostImage, error)
	ListPostsSince(ctx context.Context, since time.Time, filter FeedFilter) ([]dbmysql.Post, error)
	CountPostsSince(ctx context.Context, since time.Time, filter FeedFilter) (int64, error)
	ListEngagement(ctx context.Context, since time.Time) ([]PostEngagement, error)
	SearchPosts(ctx context.Context, query, tab string, limit, offset int) ([]dbmysql.Post, error)
	CountSearchPosts(ctx context.Context, query, tab string) (int64, error)
}

func (r *FeedRepository) CreatePost(ctx context.Context, post *dbmysql.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *FeedRepository) GetPostByID(ctx context.Context, id int64) (*dbmysql.Post, error) {
	var post dbmysql.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, "post_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &post, err
}

func (r *FeedRepository) UpdatePost(ctx context.Context, post *dbmysql.Post) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Where("post_id = ?", post.PostID).
		Updates(map[string]interface{}{
			"content":      post.Content,
			"category":     post.Category,
			"is_anonymous": post.IsAnonymous,
			"updated_at":   time.Now(),
		}).Error
}

// DeletePost removes the post and all dependent rows. Cascade is explicit so
// counters, bookmarks and share records never dangle.
func (r *FeedRepository) DeletePost(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&dbmysql.Like{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&dbmysql.Comment{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&dbmysql.Bookmark{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&dbmysql.PostShare{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&dbmysql.PostImage{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&dbmysql.Post{}, "post_id = ?", id).Error
	})
}

func (r *FeedRepository) ListPosts(ctx context.Context, filter FeedFilter, limit, offset int) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	tx := r.applyFilter(r.db.WithContext(ctx).Model(&dbmysql.Post{}), filter)
	err := tx.Preload("Author").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountPosts(ctx context.Context, filter FeedFilter) (int64, error) {
	var count int64
	tx := r.applyFilter(r.db.WithContext(ctx).Model(&dbmysql.Post{}), filter)
	err := tx.Count(&count).Error
	return count, err
}

func (r *FeedRepository) ListUserPosts(ctx context.Context, userID uint64, limit, offset int) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", userID).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountUserPosts(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Where("author_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *FeedRepository) AddPostImage(ctx context.Context, image *dbmysql.PostImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *FeedRepository) ListPostImages(ctx context.Context, postID int64) ([]dbmysql.PostImage, error) {
	var images []dbmysql.PostImage
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("position ASC, uploaded_at ASC").
		Find(&images).Error
	return images, err
}

// --------- POLLING ---------

func (r *FeedRepository) ListPostsSince(ctx context.Context, since time.Time, filter FeedFilter) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	tx := r.applyFilter(r.db.WithContext(ctx).Model(&dbmysql.Post{}), filter)
	err := tx.Where("created_at > ?", since).
		Preload("Author").
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountPostsSince(ctx context.Context, since time.Time, filter FeedFilter) (int64, error) {
	var count int64
	tx := r.applyFilter(r.db.WithContext(ctx).Model(&dbmysql.Post{}), filter)
	err := tx.Where("created_at > ?", since).Count(&count).Error
	return count, err
}

// --------- TRENDING ---------

// PostEngagement carries a post plus raw like/comment row counts, not the
// cached counters.
type PostEngagement struct {
	dbmysql.Post
	LikeCount    int64 `gorm:"column:like_count"`
	CommentCount int64 `gorm:"column:comment_count"`
}

func (r *FeedRepository) ListEngagement(ctx context.Context, since time.Time) ([]PostEngagement, error) {
	var rows []PostEngagement
	err := r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Select(`posts.*,
			(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.post_id) AS like_count,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.post_id) AS comment_count`).
		Where("posts.created_at >= ?", since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Scan skips association loading, so attach authors in a second query.
	authorIDs := make([]uint64, 0, len(rows))
	for _, row := range rows {
		if row.AuthorID != nil {
			authorIDs = append(authorIDs, *row.AuthorID)
		}
	}
	if len(authorIDs) == 0 {
		return rows, nil
	}
	var authors []dbmysql.User
	if err := r.db.WithContext(ctx).Where("user_id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint64]*dbmysql.User, len(authors))
	for i := range authors {
		byID[authors[i].UserID] = &authors[i]
	}
	for i := range rows {
		if rows[i].AuthorID != nil {
			rows[i].Author = byID[*rows[i].AuthorID]
		}
	}
	return rows, nil
}

// --------- SEARCH ---------

// SearchPosts supports the search tabs: "top" orders by raw engagement,
// "latest" by recency, "media" restricts to posts with a video or images.
func (r *FeedRepository) SearchPosts(ctx context.Context, query, tab string, limit, offset int) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	tx := r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Where("content LIKE ?", "%"+query+"%").
		Preload("Author")

	switch tab {
	case "latest":
		tx = tx.Order("created_at DESC")
	case "media":
		tx = tx.Where("video_path IS NOT NULL OR EXISTS (SELECT 1 FROM post_images WHERE post_images.post_id = posts.post_id)").
			Order("created_at DESC")
	default: // "top"
		tx = tx.Select(`posts.*,
			((SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.post_id)
			+ (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.post_id)) AS engagement`).
			Order("engagement DESC, created_at DESC")
	}

	err := tx.Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountSearchPosts(ctx context.Context, query, tab string) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Where("content LIKE ?", "%"+query+"%")
	if tab == "media" {
		tx = tx.Where("video_path IS NOT NULL OR EXISTS (SELECT 1 FROM post_images WHERE post_images.post_id = posts.post_id)")
	}
	err := tx.Count(&count).Error
	return count, err
}

// --------- LIKES ---------
type Likes interface {
	CreateLike(ctx context.Context, like *dbmysql.Like) error
	DeleteLike(ctx context.Context, userID uint64, postID int64) error
	GetLike(ctx context.Context, userID uint64, postID int64) (*dbmysql.Like, error)
	ListLikedPostIDs(ctx context.Context, userID uint64, postIDs []int64) ([]int64, error)
	ListRecentLikesOnAuthor(ctx context.Context, authorID uint64, limit int) ([]dbmysql.Like, error)
}

func (r *FeedRepository) CreateLike(ctx context.Context, like *dbmysql.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *FeedRepository) DeleteLike(ctx context.Context, userID uint64, postID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&dbmysql.Like{}).Error
}

func (r *FeedRepository) GetLike(ctx context.Context, userID uint64, postID int64) (*dbmysql.Like, error) {
	var like dbmysql.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &like, err
}

func (r *FeedRepository) ListLikedPostIDs(ctx context.Context, userID uint64, postIDs []int64) ([]int64, error) {
	var ids []int64
	tx := r.db.WithContext(ctx).Model(&dbmysql.Like{}).
		Where("user_id = ?", userID)
	if len(postIDs) > 0 {
		tx = tx.Where("post_id IN ?", postIDs)
	}
	err := tx.Pluck("post_id", &ids).Error
	return ids, err
}

// ListRecentLikesOnAuthor returns likes on the author's posts by other
// users, newest first, for the notifications view.
func (r *FeedRepository) ListRecentLikesOnAuthor(ctx context.Context, authorID uint64, limit int) ([]dbmysql.Like, error) {
	var likes []dbmysql.Like
	err := r.db.WithContext(ctx).
		Where("post_id IN (?)",
			r.db.Model(&dbmysql.Post{}).Select("post_id").Where("author_id = ?", authorID)).
		Where("user_id <> ?", authorID).
		Preload("User").
		Preload("Post").
		Order("created_at DESC").
		Limit(limit).
		Find(&likes).Error
	return likes, err
}

// --------- COMMENTS ---------
type Comments interface {
	CreateComment(ctx context.Context, comment *dbmysql.Comment) error
	GetCommentByID(ctx context.Context, id int64) (*dbmysql.Comment, error)
	ListPostComments(ctx context.Context, postID int64) ([]dbmysql.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	ListRecentCommentsOnAuthor(ctx context.Context, authorID uint64, limit int) ([]dbmysql.Comment, error)
}

func (r *FeedRepository) CreateComment(ctx context.Context, comment *dbmysql.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *FeedRepository) GetCommentByID(ctx context.Context, id int64) (*dbmysql.Comment, error) {
	var comment dbmysql.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, "comment_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &comment, err
}

func (r *FeedRepository) ListPostComments(ctx context.Context, postID int64) ([]dbmysql.Comment, error) {
	var comments []dbmysql.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *FeedRepository) DeleteComment(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.Comment{}, "comment_id = ?", id).Error
}

func (r *FeedRepository) ListRecentCommentsOnAuthor(ctx context.Context, authorID uint64, limit int) ([]dbmysql.Comment, error) {
	var comments []dbmysql.Comment
	err := r.db.WithContext(ctx).
		Where("post_id IN (?)",
			r.db.Model(&dbmysql.Post{}).Select("post_id").Where("author_id = ?", authorID)).
		Where("author_id IS NULL OR author_id <> ?", authorID).
		Preload("Author").
		Preload("Post").
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// --------- BOOKMARKS ---------
type Bookmarks interface {
	CreateBookmark(ctx context.Context, bookmark *dbmysql.Bookmark) error
	DeleteBookmark(ctx context.Context, userID uint64, postID int64) error
	GetBookmark(ctx context.Context, userID uint64, postID int64) (*dbmysql.Bookmark, error)
	ListBookmarkedPosts(ctx context.Context, userID uint64, limit, offset int) ([]dbmysql.Post, error)
	ListBookmarkedPostIDs(ctx context.Context, userID uint64, postIDs []int64) ([]int64, error)
	CountBookmarkedPosts(ctx context.Context, userID uint64) (int64, error)
}

func (r *FeedRepository) CreateBookmark(ctx context.Context, bookmark *dbmysql.Bookmark) error {
	return r.db.WithContext(ctx).Create(bookmark).Error
}

func (r *FeedRepository) DeleteBookmark(ctx context.Context, userID uint64, postID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&dbmysql.Bookmark{}).Error
}

func (r *FeedRepository) GetBookmark(ctx context.Context, userID uint64, postID int64) (*dbmysql.Bookmark, error) {
	var bookmark dbmysql.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&bookmark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &bookmark, err
}

func (r *FeedRepository) ListBookmarkedPosts(ctx context.Context, userID uint64, limit, offset int) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	err := r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.post_id").
		Where("bookmarks.user_id = ?", userID).
		Preload("Author").
		Order("bookmarks.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountBookmarkedPosts(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Bookmark{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *FeedRepository) ListBookmarkedPostIDs(ctx context.Context, userID uint64, postIDs []int64) ([]int64, error) {
	var ids []int64
	tx := r.db.WithContext(ctx).Model(&dbmysql.Bookmark{}).
		Where("user_id = ?", userID)
	if len(postIDs) > 0 {
		tx = tx.Where("post_id IN ?", postIDs)
	}
	err := tx.Pluck("post_id", &ids).Error
	return ids, err
}

// --------- SHARES ---------
type Shares interface {
	CreateShare(ctx context.Context, share *dbmysql.PostShare) error
}

func (r *FeedRepository) CreateShare(ctx context.Context, share *dbmysql.PostShare) error {
	return r.db.WithContext(ctx).Create(share).Error
}

// --------- COUNTER RECOMPUTATION ---------
// These satisfy engage.CounterStore. Each persists a single column from a
// fresh count of live child rows.

func (r *FeedRepository) RecountLikes(ctx context.Context, postID int64) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Where("post_id = ?", postID).
		Update("likes_count",
			r.db.Model(&dbmysql.Like{}).Select("COUNT(*)").Where("post_id = ?", postID),
		).Error
}

func (r *FeedRepository) RecountComments(ctx context.Context, postID int64) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Where("post_id = ?", postID).
		Update("comments_count",
			r.db.Model(&dbmysql.Comment{}).Select("COUNT(*)").Where("post_id = ?", postID),
		).Error
}

func (r *FeedRepository) RecountShares(ctx context.Context, postID int64) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Post{}).
		Where("post_id = ?", postID).
		Update("shares_count",
			r.db.Model(&dbmysql.PostShare{}).Select("COUNT(*)").Where("post_id = ?", postID),
		).Error
}
