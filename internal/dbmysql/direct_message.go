package dbmysql

import "time"

// Message payload kinds, in detection priority order.
const (
	MessageTypeVoice = "VOICE"
	MessageTypeVideo = "VIDEO"
	MessageTypeImage = "IMAGE"
	MessageTypePost  = "POST"
	MessageTypeText  = "TEXT"
)

type DirectMessage struct {
	MessageID      int64   `gorm:"primaryKey;autoIncrement;column:message_id"`
	ConversationID string  `gorm:"column:conversation_id;index;size:36;not null"`
	SenderID       uint64  `gorm:"column:sender_id;not null;index"`
	RecipientID    uint64  `gorm:"column:recipient_id;not null;index"`
	MessageType    string  `gorm:"type:ENUM('TEXT','IMAGE','VIDEO','VOICE','POST');default:'TEXT';column:message_type"`
	Content        string  `gorm:"column:content;type:text"`
	ImagePath      *string `gorm:"column:image_path;size:512"`
	VideoPath      *string `gorm:"column:video_path;size:512"`
	VoicePath      *string `gorm:"column:voice_path;size:512"`
	VoiceDuration  *int    `gorm:"column:voice_duration"`
	SharedPostID   *int64  `gorm:"column:shared_post_id"`
	IsRead         bool    `gorm:"column:is_read;default:false;index"`
	CreatedAt      time.Time `gorm:"column:created_at;index"`

	SharedPost *Post `gorm:"foreignKey:SharedPostID"`
}

// DetectType derives the message type from whichever payload field is
// populated, in priority order voice > video > image > shared-post > text.
func (m *DirectMessage) DetectType() string {
	switch {
	case m.VoicePath != nil && *m.VoicePath != "":
		return MessageTypeVoice
	case m.VideoPath != nil && *m.VideoPath != "":
		return MessageTypeVideo
	case m.ImagePath != nil && *m.ImagePath != "":
		return MessageTypeImage
	case m.SharedPostID != nil:
		return MessageTypePost
	default:
		return MessageTypeText
	}
}
