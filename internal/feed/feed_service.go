package feed

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"campusfeed/internal/common"
	"campusfeed/internal/config"
	"campusfeed/internal/dbmongo"
	"campusfeed/internal/dbmysql"
	"campusfeed/internal/engage"

	"go.uber.org/zap"
)

const (
	pageSize       = 10
	trendingWindow = 24 * time.Hour
	trendingMax    = 20
	activityMax    = 30
	timeDisplay    = "January 02, 2006 03:04 PM"
)

// MediaStore abstracts the GridFS blob store.
type MediaStore interface {
	UploadFile(ctx context.Context, filename, mimeType, uploaderID string, content io.Reader) (*dbmongo.MediaFile, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// Upload is one incoming attachment from a multipart form.
type Upload struct {
	Name     string
	MimeType string
	Data     io.Reader
}

// PostInput carries validated post creation fields.
type PostInput struct {
	Content     string
	Category    string
	IsAnonymous bool
	Images      []Upload
	Video       *Upload
}

type PostView struct {
	ID            int64      `json:"id"`
	Content       string     `json:"content"`
	Category      string     `json:"category"`
	IsAnonymous   bool       `json:"is_anonymous"`
	Author        AuthorInfo `json:"author"`
	ImageURLs     []string   `json:"image_urls,omitempty"`
	VideoURL      *string    `json:"video_url,omitempty"`
	LikesCount    int64      `json:"likes_count"`
	CommentsCount int64      `json:"comments_count"`
	SharesCount   int64      `json:"shares_count"`
	Liked         bool       `json:"liked"`
	Bookmarked    bool       `json:"bookmarked"`
	CreatedAt     string     `json:"created_at"`
	Timestamp     string     `json:"timestamp"`
}

type CommentView struct {
	ID           int64      `json:"id"`
	Content      string     `json:"content"`
	Author       AuthorInfo `json:"author"`
	ImageURL     *string    `json:"image_url,omitempty"`
	VideoURL     *string    `json:"video_url,omitempty"`
	CreatedAt    string     `json:"created_at"`
	IsOwnComment bool       `json:"is_own_comment"`
}

type FeedPage struct {
	Posts      []PostView `json:"posts"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	HasNext    bool       `json:"has_next"`
}

// NewPostsResult is the load-new payload: rendered fragment plus the cursor
// for the next poll. LatestTimestamp is nil when nothing matched, so the
// client keeps its previous cursor.
type NewPostsResult struct {
	HTML            string  `json:"html"`
	Count           int     `json:"count"`
	LatestTimestamp *string `json:"latest_timestamp"`
}

type ActivityItem struct {
	Type      string    `json:"type"` // "like" or "comment"
	Username  string    `json:"username"`
	PostID    int64     `json:"post_id"`
	PostText  string    `json:"post_text"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedUsecase interface {
	CreatePost(ctx context.Context, authorID uint64, in PostInput) (*PostView, error)
	GetPost(ctx context.Context, requesterID uint64, postID int64) (*PostView, []CommentView, bool, error)
	EditPost(ctx context.Context, requesterID uint64, postID int64, content, category string, isAnonymous bool) error
	DeletePost(ctx context.Context, requesterID uint64, postID int64) error
	Feed(ctx context.Context, requesterID uint64, category, query string, page int) (*FeedPage, error)
	Trending(ctx context.Context, requesterID uint64, page int) (*FeedPage, error)
	ToggleLike(ctx context.Context, userID uint64, postID int64) (bool, int64, error)
	ToggleBookmark(ctx context.Context, userID uint64, postID int64) (bool, error)
	Bookmarks(ctx context.Context, userID uint64, page int) (*FeedPage, error)
	ListComments(ctx context.Context, requesterID uint64, postID int64) ([]CommentView, error)
	AddComment(ctx context.Context, userID uint64, postID int64, content string, isAnonymous bool, image, video *Upload) (*CommentView, int64, error)
	DeleteComment(ctx context.Context, userID uint64, commentID int64) (int64, error)
	ShareLink(ctx context.Context, userID uint64, postID int64) (string, error)
	CheckNewPosts(ctx context.Context, userID uint64, since, category, query string) (int64, error)
	LoadNewPosts(ctx context.Context, userID uint64, since, category, query string) (*NewPostsResult, error)
	LoadMorePosts(ctx context.Context, userID uint64, category, query string, page int) (*FeedPage, string, error)
	SearchPosts(ctx context.Context, requesterID uint64, query, tab string, page int) (*FeedPage, error)
	Activity(ctx context.Context, userID uint64) ([]ActivityItem, error)
}

type FeedService struct {
	posts     Posts
	likes     Likes
	comments  Comments
	bookmarks Bookmarks
	shares    Shares
	media     MediaStore
	events    engage.Subject
	logger    *zap.Logger

	siteBaseURL  string
	mediaBaseURL string
}

func NewFeedService(
	p Posts, l Likes, c Comments, b Bookmarks, s Shares,
	media MediaStore, events engage.Subject,
	cfg *config.Config, logger *zap.Logger,
) *FeedService {
	return &FeedService{
		posts:        p,
		likes:        l,
		comments:     c,
		bookmarks:    b,
		shares:       s,
		media:        media,
		events:       events,
		logger:       logger,
		siteBaseURL:  "http://" + cfg.Addr(),
		mediaBaseURL: cfg.Server.MediaBaseURL,
	}
}

// MediaURL builds the public URL for a stored media file id.
func (s *FeedService) MediaURL(fileID string) string {
	return s.mediaBaseURL + fileID
}

// --------- POSTS ---------

func (s *FeedService) CreatePost(ctx context.Context, authorID uint64, in PostInput) (*PostView, error) {
	if in.Content == "" && len(in.Images) == 0 && in.Video == nil {
		return nil, fmt.Errorf("post must have content, images, or video")
	}
	if len(in.Images) > 4 {
		return nil, fmt.Errorf("maximum 4 images allowed per post")
	}
	if len(in.Images) > 0 && in.Video != nil {
		return nil, fmt.Errorf("cannot upload both images and video in the same post")
	}
	if in.Category == "" {
		in.Category = "GENERAL"
	}
	if err := common.ValidateCategory(in.Category); err != nil {
		return nil, err
	}

	post := &dbmysql.Post{
		AuthorID:    &authorID,
		IsAnonymous: in.IsAnonymous,
		Content:     in.Content,
		Category:    in.Category,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	uploader := strconv.FormatUint(authorID, 10)
	if in.Video != nil {
		file, err := s.media.UploadFile(ctx, in.Video.Name, in.Video.MimeType, uploader, in.Video.Data)
		if err != nil {
			return nil, fmt.Errorf("video upload failed: %w", err)
		}
		post.VideoPath = &file.ID
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	for idx, img := range in.Images {
		file, err := s.media.UploadFile(ctx, img.Name, img.MimeType, uploader, img.Data)
		if err != nil {
			s.logger.Error("image upload failed", zap.Int64("post_id", post.PostID), zap.Error(err))
			continue
		}
		if err := s.posts.AddPostImage(ctx, &dbmysql.PostImage{
			PostID:   post.PostID,
			FilePath: file.ID,
			Position: idx,
		}); err != nil {
			s.logger.Error("image record failed", zap.Int64("post_id", post.PostID), zap.Error(err))
		}
	}

	created, err := s.posts.GetPostByID(ctx, post.PostID)
	if err != nil {
		return nil, err
	}
	view, err := s.buildView(ctx, authorID, *created)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *FeedService) GetPost(ctx context.Context, requesterID uint64, postID int64) (*PostView, []CommentView, bool, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, nil, false, err
	}

	view, err := s.buildView(ctx, requesterID, *post)
	if err != nil {
		return nil, nil, false, err
	}

	comments, err := s.ListComments(ctx, requesterID, postID)
	if err != nil {
		return nil, nil, false, err
	}

	isOwner := post.AuthorID != nil && *post.AuthorID == requesterID
	return &view, comments, isOwner, nil
}

func (s *FeedService) EditPost(ctx context.Context, requesterID uint64, postID int64, content, category string, isAnonymous bool) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID == nil || *post.AuthorID != requesterID {
		return common.ErrForbidden
	}
	if content == "" {
		return fmt.Errorf("post content cannot be empty")
	}
	if err := common.ValidateCategory(category); err != nil {
		return err
	}

	post.Content = content
	post.Category = category
	post.IsAnonymous = isAnonymous
	return s.posts.UpdatePost(ctx, post)
}

func (s *FeedService) DeletePost(ctx context.Context, requesterID uint64, postID int64) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID == nil || *post.AuthorID != requesterID {
		return common.ErrForbidden
	}

	// Remove media blobs first; a blob delete failure never blocks the row
	// delete, it just leaves an orphan in GridFS.
	images, err := s.posts.ListPostImages(ctx, postID)
	if err == nil {
		for _, img := range images {
			if err := s.media.DeleteFile(ctx, img.FilePath); err != nil {
				s.logger.Warn("media delete failed", zap.String("file_id", img.FilePath), zap.Error(err))
			}
		}
	}
	if post.VideoPath != nil {
		if err := s.media.DeleteFile(ctx, *post.VideoPath); err != nil {
			s.logger.Warn("media delete failed", zap.String("file_id", *post.VideoPath), zap.Error(err))
		}
	}

	return s.posts.DeletePost(ctx, postID)
}

func (s *FeedService) Feed(ctx context.Context, requesterID uint64, category, query string, page int) (*FeedPage, error) {
	if err := common.ValidateFilterCategory(category); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	filter := FeedFilter{Category: category, Query: query}
	total, err := s.posts.CountPosts(ctx, filter)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListPosts(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, requesterID, posts)
	if err != nil {
		return nil, err
	}
	return paginate(views, page, total), nil
}

// --------- TRENDING ---------

// Trending ranks posts created in the last 24 hours by engagement score,
// 2 per like plus 3 per comment, recomputed fresh on every request.
func (s *FeedService) Trending(ctx context.Context, requesterID uint64, page int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}

	since := time.Now().Add(-trendingWindow)
	rows, err := s.posts.ListEngagement(ctx, since)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		si := EngagementScore(rows[i].LikeCount, rows[i].CommentCount)
		sj := EngagementScore(rows[j].LikeCount, rows[j].CommentCount)
		if si != sj {
			return si > sj
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	if len(rows) > trendingMax {
		rows = rows[:trendingMax]
	}

	total := int64(len(rows))
	start := (page - 1) * pageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}

	posts := make([]dbmysql.Post, 0, end-start)
	for _, row := range rows[start:end] {
		posts = append(posts, row.Post)
	}

	views, err := s.buildViews(ctx, requesterID, posts)
	if err != nil {
		return nil, err
	}
	return paginate(views, page, total), nil
}

// EngagementScore is the trending weight of raw like/comment counts.
func EngagementScore(likes, comments int64) int64 {
	return likes*2 + comments*3
}

// --------- LIKES / BOOKMARKS ---------

func (s *FeedService) ToggleLike(ctx context.Context, userID uint64, postID int64) (bool, int64, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return false, 0, err
	}

	var liked bool
	if _, err := s.likes.GetLike(ctx, userID, postID); err == nil {
		if err := s.likes.DeleteLike(ctx, userID, postID); err != nil {
			return false, 0, fmt.Errorf("unlike: %w", err)
		}
		s.events.Notify(engage.Event{Kind: engage.LikeRemoved, PostID: postID, ActorID: userID, At: time.Now()})
	} else {
		if err := s.likes.CreateLike(ctx, &dbmysql.Like{UserID: userID, PostID: postID, CreatedAt: time.Now()}); err != nil {
			return false, 0, fmt.Errorf("like: %w", err)
		}
		liked = true
		s.events.Notify(engage.Event{Kind: engage.LikeAdded, PostID: postID, ActorID: userID, At: time.Now()})
	}

	post, err = s.posts.GetPostByID(ctx, post.PostID)
	if err != nil {
		return liked, 0, err
	}
	return liked, post.LikesCount, nil
}

func (s *FeedService) ToggleBookmark(ctx context.Context, userID uint64, postID int64) (bool, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return false, err
	}

	if _, err := s.bookmarks.GetBookmark(ctx, userID, postID); err == nil {
		if err := s.bookmarks.DeleteBookmark(ctx, userID, postID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.bookmarks.CreateBookmark(ctx, &dbmysql.Bookmark{UserID: userID, PostID: postID, CreatedAt: time.Now()}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FeedService) Bookmarks(ctx context.Context, userID uint64, page int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.bookmarks.CountBookmarkedPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.bookmarks.ListBookmarkedPosts(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, userID, posts)
	if err != nil {
		return nil, err
	}
	return paginate(views, page, total), nil
}

// --------- COMMENTS ---------

func (s *FeedService) ListComments(ctx context.Context, requesterID uint64, postID int64) ([]CommentView, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListPostComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, s.commentView(c, requesterID))
	}
	return views, nil
}

func (s *FeedService) AddComment(ctx context.Context, userID uint64, postID int64, content string, isAnonymous bool, image, video *Upload) (*CommentView, int64, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, 0, err
	}
	if content == "" && image == nil && video == nil {
		return nil, 0, fmt.Errorf("comment must have content, image, or video")
	}

	comment := &dbmysql.Comment{
		PostID:      postID,
		AuthorID:    &userID,
		IsAnonymous: isAnonymous,
		Content:     content,
		CreatedAt:   time.Now(),
	}

	uploader := strconv.FormatUint(userID, 10)
	if image != nil {
		file, err := s.media.UploadFile(ctx, image.Name, image.MimeType, uploader, image.Data)
		if err != nil {
			return nil, 0, fmt.Errorf("image upload failed: %w", err)
		}
		comment.ImagePath = &file.ID
	}
	if video != nil {
		file, err := s.media.UploadFile(ctx, video.Name, video.MimeType, uploader, video.Data)
		if err != nil {
			return nil, 0, fmt.Errorf("video upload failed: %w", err)
		}
		comment.VideoPath = &file.ID
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, 0, fmt.Errorf("create comment: %w", err)
	}
	s.events.Notify(engage.Event{Kind: engage.CommentAdded, PostID: postID, ActorID: userID, At: time.Now()})

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, 0, err
	}

	created, err := s.comments.GetCommentByID(ctx, comment.CommentID)
	if err != nil {
		return nil, 0, err
	}
	view := s.commentView(*created, userID)
	return &view, post.CommentsCount, nil
}

func (s *FeedService) DeleteComment(ctx context.Context, userID uint64, commentID int64) (int64, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if comment.AuthorID == nil || *comment.AuthorID != userID {
		return 0, common.ErrForbidden
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return 0, err
	}
	s.events.Notify(engage.Event{Kind: engage.CommentRemoved, PostID: comment.PostID, ActorID: userID, At: time.Now()})

	post, err := s.posts.GetPostByID(ctx, comment.PostID)
	if err != nil {
		return 0, err
	}
	return post.CommentsCount, nil
}

// --------- SHARES ---------

func (s *FeedService) ShareLink(ctx context.Context, userID uint64, postID int64) (string, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return "", err
	}

	if err := s.shares.CreateShare(ctx, &dbmysql.PostShare{
		UserID:    userID,
		PostID:    postID,
		SharedVia: dbmysql.ShareViaLink,
		CreatedAt: time.Now(),
	}); err != nil {
		return "", fmt.Errorf("record share: %w", err)
	}
	s.events.Notify(engage.Event{Kind: engage.ShareAdded, PostID: postID, ActorID: userID, At: time.Now()})

	return fmt.Sprintf("%s/post/%d/", s.siteBaseURL, postID), nil
}

// --------- POLLING ---------

// parseSince accepts the ISO-8601 cursor formats clients send.
func parseSince(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// CheckNewPosts counts posts newer than the cursor, excluding the
// requester's own. A missing or malformed cursor degrades to zero.
func (s *FeedService) CheckNewPosts(ctx context.Context, userID uint64, since, category, query string) (int64, error) {
	if since == "" {
		return 0, nil
	}
	sinceDt, err := parseSince(since)
	if err != nil {
		s.logger.Debug("malformed since cursor", zap.String("since", since))
		return 0, nil
	}

	return s.posts.CountPostsSince(ctx, sinceDt, FeedFilter{
		Category:      category,
		Query:         query,
		ExcludeAuthor: userID,
	})
}

// LoadNewPosts returns the same filtered set as CheckNewPosts, rendered,
// plus the newest item's timestamp as the next cursor.
func (s *FeedService) LoadNewPosts(ctx context.Context, userID uint64, since, category, query string) (*NewPostsResult, error) {
	empty := &NewPostsResult{}
	if since == "" {
		return empty, nil
	}
	sinceDt, err := parseSince(since)
	if err != nil {
		s.logger.Debug("malformed since cursor", zap.String("since", since))
		return empty, nil
	}

	posts, err := s.posts.ListPostsSince(ctx, sinceDt, FeedFilter{
		Category:      category,
		Query:         query,
		ExcludeAuthor: userID,
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return empty, nil
	}

	views, err := s.buildViews(ctx, userID, posts)
	if err != nil {
		return nil, err
	}

	html, err := RenderPostList(views)
	if err != nil {
		return nil, fmt.Errorf("render posts: %w", err)
	}

	// Posts are ordered newest first.
	latest := posts[0].CreatedAt.Format(time.RFC3339Nano)
	return &NewPostsResult{
		HTML:            html,
		Count:           len(posts),
		LatestTimestamp: &latest,
	}, nil
}

func (s *FeedService) LoadMorePosts(ctx context.Context, userID uint64, category, query string, page int) (*FeedPage, string, error) {
	feedPage, err := s.Feed(ctx, userID, category, query, page)
	if err != nil {
		return nil, "", err
	}
	html, err := RenderPostList(feedPage.Posts)
	if err != nil {
		return nil, "", fmt.Errorf("render posts: %w", err)
	}
	return feedPage, html, nil
}

// --------- SEARCH ---------

func (s *FeedService) SearchPosts(ctx context.Context, requesterID uint64, query, tab string, page int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if query == "" {
		return &FeedPage{Posts: []PostView{}, Page: page}, nil
	}

	total, err := s.posts.CountSearchPosts(ctx, query, tab)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.SearchPosts(ctx, query, tab, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, requesterID, posts)
	if err != nil {
		return nil, err
	}
	return paginate(views, page, total), nil
}

// --------- ACTIVITY ---------

// Activity merges recent likes and comments on the user's posts into a
// single newest-first list for the notifications view.
func (s *FeedService) Activity(ctx context.Context, userID uint64) ([]ActivityItem, error) {
	likes, err := s.likes.ListRecentLikesOnAuthor(ctx, userID, 20)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListRecentCommentsOnAuthor(ctx, userID, 20)
	if err != nil {
		return nil, err
	}

	items := make([]ActivityItem, 0, len(likes)+len(comments))
	for _, like := range likes {
		item := ActivityItem{Type: "like", PostID: like.PostID, CreatedAt: like.CreatedAt}
		if like.User != nil {
			item.Username = like.User.Handle
		}
		if like.Post != nil {
			item.PostText = snippet(like.Post.Content, 100)
		}
		items = append(items, item)
	}
	for _, comment := range comments {
		item := ActivityItem{
			Type:      "comment",
			PostID:    comment.PostID,
			Content:   snippet(comment.Content, 100),
			CreatedAt: comment.CreatedAt,
		}
		item.Username = ResolveAuthor(comment.IsAnonymous, comment.Author).DisplayName()
		if comment.Post != nil {
			item.PostText = snippet(comment.Post.Content, 100)
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > activityMax {
		items = items[:activityMax]
	}
	return items, nil
}

// --------- VIEW BUILDING ---------

func (s *FeedService) buildView(ctx context.Context, requesterID uint64, post dbmysql.Post) (PostView, error) {
	views, err := s.buildViews(ctx, requesterID, []dbmysql.Post{post})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

func (s *FeedService) buildViews(ctx context.Context, requesterID uint64, posts []dbmysql.Post) ([]PostView, error) {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.PostID)
	}

	likedSet := map[int64]bool{}
	bookmarkedSet := map[int64]bool{}
	if requesterID != 0 && len(ids) > 0 {
		likedIDs, err := s.likes.ListLikedPostIDs(ctx, requesterID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			likedSet[id] = true
		}
		bookmarkedIDs, err := s.bookmarks.ListBookmarkedPostIDs(ctx, requesterID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range bookmarkedIDs {
			bookmarkedSet[id] = true
		}
	}

	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		view := PostView{
			ID:            post.PostID,
			Content:       post.Content,
			Category:      post.Category,
			IsAnonymous:   post.IsAnonymous,
			Author:        ResolveAuthor(post.IsAnonymous, post.Author).Info(),
			LikesCount:    post.LikesCount,
			CommentsCount: post.CommentsCount,
			SharesCount:   post.SharesCount,
			Liked:         likedSet[post.PostID],
			Bookmarked:    bookmarkedSet[post.PostID],
			CreatedAt:     post.CreatedAt.Format(timeDisplay),
			Timestamp:     post.CreatedAt.Format(time.RFC3339Nano),
		}

		images, err := s.posts.ListPostImages(ctx, post.PostID)
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			view.ImageURLs = append(view.ImageURLs, s.MediaURL(img.FilePath))
		}
		if post.VideoPath != nil {
			url := s.MediaURL(*post.VideoPath)
			view.VideoURL = &url
		}

		views = append(views, view)
	}
	return views, nil
}

func (s *FeedService) commentView(c dbmysql.Comment, requesterID uint64) CommentView {
	view := CommentView{
		ID:           c.CommentID,
		Content:      c.Content,
		Author:       ResolveAuthor(c.IsAnonymous, c.Author).Info(),
		CreatedAt:    c.CreatedAt.Format(timeDisplay),
		IsOwnComment: c.AuthorID != nil && *c.AuthorID == requesterID,
	}
	if c.ImagePath != nil {
		url := s.MediaURL(*c.ImagePath)
		view.ImageURL = &url
	}
	if c.VideoPath != nil {
		url := s.MediaURL(*c.VideoPath)
		view.VideoURL = &url
	}
	return view
}

func paginate(views []PostView, page int, total int64) *FeedPage {
	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	return &FeedPage{
		Posts:      views,
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

func snippet(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
