package dbmysql

import (
	"fmt"
	"time"
)

// Conversation is a thread between exactly two users. PairKey is the
// unordered participant pair ("minID:maxID"); its unique index makes
// get-or-create safe under concurrent first contact.
type Conversation struct {
	ID        string    `gorm:"primaryKey;size:36"`
	PairKey   string    `gorm:"column:pair_key;uniqueIndex;size:64;not null"`
	UserAID   uint64    `gorm:"column:user_a_id;not null;index"`
	UserBID   uint64    `gorm:"column:user_b_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index"`
}

// ConversationPairKey normalizes two user IDs into the canonical pair key.
func ConversationPairKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID uint64) uint64 {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}
