package dm

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"campusfeed/internal/common"
	"campusfeed/internal/dbmongo"
	"campusfeed/internal/dbmysql"
	"campusfeed/internal/engage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	messagePageSize = 50
	timeDisplay     = "January 02, 2006 03:04 PM"
)

type MediaStore interface {
	UploadFile(ctx context.Context, filename, mimeType, uploaderID string, content io.Reader) (*dbmongo.MediaFile, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// Users is the slice of the user store messaging needs.
type Users interface {
	GetUserByID(ctx context.Context, id uint64) (*dbmysql.User, error)
}

// Posts is the slice of the post store messaging needs for DM shares.
type Posts interface {
	GetPostByID(ctx context.Context, id int64) (*dbmysql.Post, error)
	CreateShare(ctx context.Context, share *dbmysql.PostShare) error
}

type Upload struct {
	Name     string
	MimeType string
	Data     io.Reader
}

// MessageInput carries one outgoing message's payload fields.
type MessageInput struct {
	Content       string
	Image         *Upload
	Video         *Upload
	Voice         *Upload
	VoiceDuration int
}

type SharedPostView struct {
	ID       int64  `json:"id"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type MessageView struct {
	ID             int64           `json:"id"`
	ConversationID string          `json:"conversation_id"`
	SenderID       uint64          `json:"sender_id"`
	IsOwn          bool            `json:"is_own"`
	MessageType    string          `json:"message_type"`
	Content        string          `json:"content"`
	ImageURL       *string         `json:"image_url,omitempty"`
	VideoURL       *string         `json:"video_url,omitempty"`
	VoiceURL       *string         `json:"voice_url,omitempty"`
	VoiceDuration  *int            `json:"voice_duration,omitempty"`
	SharedPost     *SharedPostView `json:"shared_post,omitempty"`
	IsRead         bool            `json:"is_read"`
	CreatedAt      string          `json:"created_at"`
	Timestamp      string          `json:"timestamp"`
}

type InboxView struct {
	ConversationID string  `json:"conversation_id"`
	OtherUserID    uint64  `json:"other_user_id"`
	OtherHandle    string  `json:"other_username"`
	OtherAvatar    *string `json:"other_profile_picture,omitempty"`
	LastMessage    string  `json:"last_message"`
	LastMessageAt  *string `json:"last_message_at,omitempty"`
	UnreadCount    int64   `json:"unread_count"`
}

type DMUsecase interface {
	OpenConversation(ctx context.Context, userID, otherID uint64) (*dbmysql.Conversation, error)
	Inbox(ctx context.Context, userID uint64) ([]InboxView, error)
	SendMessage(ctx context.Context, userID uint64, conversationID string, in MessageInput) (*MessageView, error)
	Messages(ctx context.Context, userID uint64, conversationID string, page int) ([]MessageView, error)
	MessagesSince(ctx context.Context, userID uint64, conversationID, since string) ([]MessageView, error)
	MarkRead(ctx context.Context, userID uint64, conversationID string) (int64, error)
	UnreadTotal(ctx context.Context, userID uint64) (int64, error)
	SharePost(ctx context.Context, userID, recipientID uint64, postID int64, note string) (*MessageView, error)
	DeleteMessage(ctx context.Context, userID uint64, messageID int64) error
}

type DMService struct {
	convs  Conversations
	msgs   Messages
	users  Users
	posts  Posts
	media  MediaStore
	events engage.Subject
	logger *zap.Logger

	mediaBaseURL string
}

func NewDMService(
	convs Conversations, msgs Messages, users Users, posts Posts,
	media MediaStore, events engage.Subject,
	mediaBaseURL string, logger *zap.Logger,
) *DMService {
	return &DMService{
		convs:        convs,
		msgs:         msgs,
		users:        users,
		posts:        posts,
		media:        media,
		events:       events,
		mediaBaseURL: mediaBaseURL,
		logger:       logger,
	}
}

func (s *DMService) mediaURL(fileID string) string {
	return s.mediaBaseURL + fileID
}

// OpenConversation resolves or creates the single thread between two users.
func (s *DMService) OpenConversation(ctx context.Context, userID, otherID uint64) (*dbmysql.Conversation, error) {
	if userID == otherID {
		return nil, fmt.Errorf("cannot start a conversation with yourself")
	}
	if _, err := s.users.GetUserByID(ctx, otherID); err != nil {
		return nil, err
	}
	return s.convs.GetOrCreateConversation(ctx, uuid.NewString(), userID, otherID)
}

func (s *DMService) Inbox(ctx context.Context, userID uint64) ([]InboxView, error) {
	entries, err := s.convs.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]InboxView, 0, len(entries))
	for _, entry := range entries {
		view := InboxView{
			ConversationID: entry.Conversation.ID,
			OtherUserID:    entry.Conversation.OtherParticipant(userID),
			UnreadCount:    entry.UnreadCount,
		}

		other, err := s.users.GetUserByID(ctx, view.OtherUserID)
		if err == nil {
			view.OtherHandle = other.Handle
			view.OtherAvatar = other.AvatarPath
		}

		if entry.LastMessage != nil {
			view.LastMessage = messagePreview(entry.LastMessage)
			at := entry.LastMessage.CreatedAt.Format(timeDisplay)
			view.LastMessageAt = &at
		}

		views = append(views, view)
	}
	return views, nil
}

func (s *DMService) SendMessage(ctx context.Context, userID uint64, conversationID string, in MessageInput) (*MessageView, error) {
	conv, err := s.memberConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if in.Content == "" && in.Image == nil && in.Video == nil && in.Voice == nil {
		return nil, fmt.Errorf("message must have content or an attachment")
	}

	msg := &dbmysql.DirectMessage{
		ConversationID: conv.ID,
		SenderID:       userID,
		RecipientID:    conv.OtherParticipant(userID),
		Content:        in.Content,
		CreatedAt:      time.Now(),
	}

	uploader := strconv.FormatUint(userID, 10)
	if in.Image != nil {
		file, err := s.media.UploadFile(ctx, in.Image.Name, in.Image.MimeType, uploader, in.Image.Data)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		msg.ImagePath = &file.ID
	}
	if in.Video != nil {
		file, err := s.media.UploadFile(ctx, in.Video.Name, in.Video.MimeType, uploader, in.Video.Data)
		if err != nil {
			return nil, fmt.Errorf("video upload failed: %w", err)
		}
		msg.VideoPath = &file.ID
	}
	if in.Voice != nil {
		file, err := s.media.UploadFile(ctx, in.Voice.Name, in.Voice.MimeType, uploader, in.Voice.Data)
		if err != nil {
			return nil, fmt.Errorf("voice upload failed: %w", err)
		}
		msg.VoicePath = &file.ID
		if in.VoiceDuration > 0 {
			msg.VoiceDuration = &in.VoiceDuration
		}
	}

	msg.MessageType = msg.DetectType()
	if err := s.msgs.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	if err := s.convs.TouchConversation(ctx, conv.ID, msg.CreatedAt); err != nil {
		s.logger.Warn("conversation touch failed", zap.String("conversation_id", conv.ID), zap.Error(err))
	}

	view := s.messageView(*msg, userID)
	return &view, nil
}

func (s *DMService) Messages(ctx context.Context, userID uint64, conversationID string, page int) ([]MessageView, error) {
	if _, err := s.memberConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	msgs, err := s.msgs.ListMessages(ctx, conversationID, messagePageSize, (page-1)*messagePageSize)
	if err != nil {
		return nil, err
	}
	return s.messageViews(msgs, userID), nil
}

// MessagesSince is the chat polling endpoint. A malformed cursor degrades
// to an empty result rather than an error.
func (s *DMService) MessagesSince(ctx context.Context, userID uint64, conversationID, since string) ([]MessageView, error) {
	if _, err := s.memberConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if since == "" {
		return []MessageView{}, nil
	}
	sinceDt, err := parseSince(since)
	if err != nil {
		s.logger.Debug("malformed since cursor", zap.String("since", since))
		return []MessageView{}, nil
	}

	msgs, err := s.msgs.ListMessagesSince(ctx, conversationID, sinceDt)
	if err != nil {
		return nil, err
	}
	return s.messageViews(msgs, userID), nil
}

// MarkRead flips every unread message addressed to the caller in one pass.
// The sender's copies are untouched.
func (s *DMService) MarkRead(ctx context.Context, userID uint64, conversationID string) (int64, error) {
	if _, err := s.memberConversation(ctx, userID, conversationID); err != nil {
		return 0, err
	}
	return s.msgs.MarkConversationRead(ctx, conversationID, userID)
}

func (s *DMService) UnreadTotal(ctx context.Context, userID uint64) (int64, error) {
	return s.msgs.UnreadTotal(ctx, userID)
}

// SharePost sends a post into a DM thread and records the share, counted
// into the post's share total through the same event path as link shares.
func (s *DMService) SharePost(ctx context.Context, userID, recipientID uint64, postID int64, note string) (*MessageView, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	conv, err := s.OpenConversation(ctx, userID, recipientID)
	if err != nil {
		return nil, err
	}

	msg := &dbmysql.DirectMessage{
		ConversationID: conv.ID,
		SenderID:       userID,
		RecipientID:    conv.OtherParticipant(userID),
		Content:        note,
		SharedPostID:   &post.PostID,
		CreatedAt:      time.Now(),
	}
	msg.MessageType = msg.DetectType()

	if err := s.msgs.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	if err := s.convs.TouchConversation(ctx, conv.ID, msg.CreatedAt); err != nil {
		s.logger.Warn("conversation touch failed", zap.String("conversation_id", conv.ID), zap.Error(err))
	}

	if err := s.posts.CreateShare(ctx, &dbmysql.PostShare{
		UserID:    userID,
		PostID:    post.PostID,
		SharedVia: dbmysql.ShareViaDM,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("record share: %w", err)
	}
	s.events.Notify(engage.Event{Kind: engage.ShareAdded, PostID: post.PostID, ActorID: userID, At: time.Now()})

	msg.SharedPost = post
	view := s.messageView(*msg, userID)
	return &view, nil
}

func (s *DMService) DeleteMessage(ctx context.Context, userID uint64, messageID int64) error {
	msg, err := s.msgs.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return common.ErrForbidden
	}

	for _, path := range []*string{msg.ImagePath, msg.VideoPath, msg.VoicePath} {
		if path == nil {
			continue
		}
		if err := s.media.DeleteFile(ctx, *path); err != nil {
			s.logger.Warn("media delete failed", zap.String("file_id", *path), zap.Error(err))
		}
	}
	return s.msgs.DeleteMessage(ctx, messageID)
}

func (s *DMService) memberConversation(ctx context.Context, userID uint64, conversationID string) (*dbmysql.Conversation, error) {
	conv, err := s.convs.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserAID != userID && conv.UserBID != userID {
		return nil, common.ErrForbidden
	}
	return conv, nil
}

func (s *DMService) messageViews(msgs []dbmysql.DirectMessage, viewerID uint64) []MessageView {
	views := make([]MessageView, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, s.messageView(msg, viewerID))
	}
	return views
}

func (s *DMService) messageView(msg dbmysql.DirectMessage, viewerID uint64) MessageView {
	view := MessageView{
		ID:             msg.MessageID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		IsOwn:          msg.SenderID == viewerID,
		MessageType:    msg.MessageType,
		Content:        msg.Content,
		VoiceDuration:  msg.VoiceDuration,
		IsRead:         msg.IsRead,
		CreatedAt:      msg.CreatedAt.Format(timeDisplay),
		Timestamp:      msg.CreatedAt.Format(time.RFC3339Nano),
	}
	if msg.ImagePath != nil {
		url := s.mediaURL(*msg.ImagePath)
		view.ImageURL = &url
	}
	if msg.VideoPath != nil {
		url := s.mediaURL(*msg.VideoPath)
		view.VideoURL = &url
	}
	if msg.VoicePath != nil {
		url := s.mediaURL(*msg.VoicePath)
		view.VoiceURL = &url
	}
	if msg.SharedPost != nil {
		view.SharedPost = &SharedPostView{
			ID:       msg.SharedPost.PostID,
			Content:  msg.SharedPost.Content,
			Category: msg.SharedPost.Category,
		}
	}
	return view
}

func messagePreview(msg *dbmysql.DirectMessage) string {
	switch msg.MessageType {
	case dbmysql.MessageTypeVoice:
		return "Voice message"
	case dbmysql.MessageTypeVideo:
		return "Video"
	case dbmysql.MessageTypeImage:
		return "Photo"
	case dbmysql.MessageTypePost:
		return "Shared a post"
	default:
		runes := []rune(msg.Content)
		if len(runes) > 60 {
			return string(runes[:60])
		}
		return msg.Content
	}
}

func parseSince(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}
