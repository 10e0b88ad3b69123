package dm

import (
	"context"
	"errors"
	"time"

	"campusfeed/internal/common"
	"campusfeed/internal/dbmysql"

	"gorm.io/gorm"
)

type DMRepository struct {
	db *gorm.DB
}

func NewDMRepository(db *gorm.DB) *DMRepository {
	return &DMRepository{db: db}
}

// InboxEntry is one conversation row in the inbox listing.
type InboxEntry struct {
	Conversation dbmysql.Conversation
	LastMessage  *dbmysql.DirectMessage
	UnreadCount  int64
}

type Conversations interface {
	GetOrCreateConversation(ctx context.Context, id string, a, b uint64) (*dbmysql.Conversation, error)
	GetConversation(ctx context.Context, id string) (*dbmysql.Conversation, error)
	ListConversations(ctx context.Context, userID uint64) ([]InboxEntry, error)
	TouchConversation(ctx context.Context, id string, at time.Time) error
}

type Messages interface {
	CreateMessage(ctx context.Context, msg *dbmysql.DirectMessage) error
	GetMessageByID(ctx context.Context, id int64) (*dbmysql.DirectMessage, error)
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]dbmysql.DirectMessage, error)
	ListMessagesSince(ctx context.Context, conversationID string, since time.Time) ([]dbmysql.DirectMessage, error)
	MarkConversationRead(ctx context.Context, conversationID string, recipientID uint64) (int64, error)
	CountUnread(ctx context.Context, conversationID string, recipientID uint64) (int64, error)
	UnreadTotal(ctx context.Context, userID uint64) (int64, error)
	DeleteMessage(ctx context.Context, id int64) error
}

// GetOrCreateConversation inserts the pair row, retrying the lookup when a
// concurrent insert wins the unique pair_key race.
func (r *DMRepository) GetOrCreateConversation(ctx context.Context, id string, a, b uint64) (*dbmysql.Conversation, error) {
	pairKey := dbmysql.ConversationPairKey(a, b)

	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).Where("pair_key = ?", pairKey).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = dbmysql.Conversation{
		ID:        id,
		PairKey:   pairKey,
		UserAID:   min64(a, b),
		UserBID:   max64(a, b),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		// Lost the race: the other writer's row is now visible.
		var existing dbmysql.Conversation
		if ferr := r.db.WithContext(ctx).Where("pair_key = ?", pairKey).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *DMRepository) GetConversation(ctx context.Context, id string) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &conv, err
}

// ListConversations returns the user's conversations ordered by last
// activity, each with its final message and the user's unread count.
func (r *DMRepository) ListConversations(ctx context.Context, userID uint64) ([]InboxEntry, error) {
	var convs []dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}

	entries := make([]InboxEntry, 0, len(convs))
	for _, conv := range convs {
		entry := InboxEntry{Conversation: conv}

		var last dbmysql.DirectMessage
		err := r.db.WithContext(ctx).
			Where("conversation_id = ?", conv.ID).
			Order("created_at DESC").
			First(&last).Error
		if err == nil {
			entry.LastMessage = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		unread, err := r.CountUnread(ctx, conv.ID, userID)
		if err != nil {
			return nil, err
		}
		entry.UnreadCount = unread

		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *DMRepository) TouchConversation(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}

func (r *DMRepository) CreateMessage(ctx context.Context, msg *dbmysql.DirectMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *DMRepository) GetMessageByID(ctx context.Context, id int64) (*dbmysql.DirectMessage, error) {
	var msg dbmysql.DirectMessage
	err := r.db.WithContext(ctx).Preload("SharedPost").First(&msg, "message_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	return &msg, err
}

func (r *DMRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]dbmysql.DirectMessage, error) {
	var msgs []dbmysql.DirectMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Preload("SharedPost").
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&msgs).Error
	return msgs, err
}

func (r *DMRepository) ListMessagesSince(ctx context.Context, conversationID string, since time.Time) ([]dbmysql.DirectMessage, error) {
	var msgs []dbmysql.DirectMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND created_at > ?", conversationID, since).
		Preload("SharedPost").
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// MarkConversationRead flips unread flags for messages addressed to
// recipientID in one statement and reports how many rows changed.
func (r *DMRepository) MarkConversationRead(ctx context.Context, conversationID string, recipientID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&dbmysql.DirectMessage{}).
		Where("conversation_id = ? AND recipient_id = ? AND is_read = ?", conversationID, recipientID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *DMRepository) CountUnread(ctx context.Context, conversationID string, recipientID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.DirectMessage{}).
		Where("conversation_id = ? AND recipient_id = ? AND is_read = ?", conversationID, recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *DMRepository) UnreadTotal(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.DirectMessage{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *DMRepository) DeleteMessage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.DirectMessage{}, "message_id = ?", id).Error
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
